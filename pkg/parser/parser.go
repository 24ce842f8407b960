package parser

import (
	"fmt"

	"slip/interpreter-go/pkg/ast"
	"slip/interpreter-go/pkg/lexer"
)

// ParseError reports a structural failure in the token stream.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ParseError: %s", e.Message)
}

// Parse builds the syntax tree for a whole token stream. The result is the
// sequence of top-level forms in source order.
func Parse(tokens []lexer.Token) ([]ast.Node, error) {
	p := &parser{tokens: tokens}
	var nodes []ast.Node
	for !p.done() {
		node, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

type parser struct {
	tokens []lexer.Token
	pos    int
}

func (p *parser) done() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) next() lexer.Token {
	tok := p.tokens[p.pos]
	p.pos++
	return tok
}

func (p *parser) parseNode() (ast.Node, error) {
	tok := p.next()
	switch tok.Type {
	case lexer.TokenOpenParen:
		return p.parseList()
	case lexer.TokenCloseParen:
		return nil, &ParseError{Message: "Unexpected close paren"}
	case lexer.TokenQuote:
		// 'x reads as (quote x)
		if p.done() {
			return nil, &ParseError{Message: "Missing form after quote"}
		}
		quoted, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		return ast.ListOf(ast.ID("quote"), quoted), nil
	case lexer.TokenIdentifier:
		return ast.ID(tok.Text), nil
	case lexer.TokenInteger:
		return ast.Int(tok.Int), nil
	case lexer.TokenBoolean:
		return ast.Bool(tok.Bool), nil
	case lexer.TokenString:
		return ast.Str(tok.Text), nil
	default:
		return nil, &ParseError{Message: fmt.Sprintf("Unsupported token type %s", tok.Type)}
	}
}

func (p *parser) parseList() (ast.Node, error) {
	var items []ast.Node
	for {
		if p.done() {
			return nil, &ParseError{Message: "Unclosed list, expected a close paren"}
		}
		if p.tokens[p.pos].Type == lexer.TokenCloseParen {
			p.pos++
			return &ast.List{Items: items}, nil
		}
		item, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}
