package lexer

import (
	"fmt"
	"strconv"
	"unicode"
)

// TokenType identifies the token category.
type TokenType int

const (
	TokenOpenParen TokenType = iota
	TokenCloseParen
	TokenQuote
	TokenIdentifier
	TokenInteger
	TokenBoolean
	TokenString
)

func (t TokenType) String() string {
	switch t {
	case TokenOpenParen:
		return "OpenParen"
	case TokenCloseParen:
		return "CloseParen"
	case TokenQuote:
		return "Quote"
	case TokenIdentifier:
		return "Identifier"
	case TokenInteger:
		return "Integer"
	case TokenBoolean:
		return "Boolean"
	case TokenString:
		return "String"
	default:
		return fmt.Sprintf("unknown_token_%d", int(t))
	}
}

// Token is a single lexeme. Text carries identifier and string payloads,
// Int and Bool the literal payloads for their token types.
type Token struct {
	Type TokenType
	Text string
	Int  int64
	Bool bool
}

// SyntaxError reports a lexing failure with its source position.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("SyntaxError: %s (line: %d, column: %d)", e.Message, e.Line, e.Column)
}

// Tokenize converts source text into a flat token stream.
func Tokenize(src string) ([]Token, error) {
	l := &lexer{input: []rune(src), line: 1, column: 0}
	l.advance()
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

type lexer struct {
	input   []rune
	pos     int // index of the rune after current
	current rune
	eof     bool
	tokens  []Token
	line    int
	column  int
}

func (l *lexer) errorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{Message: fmt.Sprintf(format, args...), Line: l.line, Column: l.column}
}

func (l *lexer) advance() {
	if !l.eof && l.pos > 0 && l.current == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	if l.pos < len(l.input) {
		l.current = l.input[l.pos]
		l.pos++
	} else {
		l.eof = true
	}
}

func (l *lexer) peek() (rune, bool) {
	if l.pos < len(l.input) {
		return l.input[l.pos], true
	}
	return 0, false
}

func (l *lexer) run() error {
	for !l.eof {
		c := l.current
		switch {
		case c == '(':
			l.tokens = append(l.tokens, Token{Type: TokenOpenParen})
			l.advance()
		case c == ')':
			l.tokens = append(l.tokens, Token{Type: TokenCloseParen})
			l.advance()
		case c == '\'':
			l.tokens = append(l.tokens, Token{Type: TokenQuote})
			l.advance()
		case c == '+' || c == '-':
			// A leading sign followed by a digit starts an integer literal,
			// otherwise +/- is an ordinary one-character identifier.
			if next, ok := l.peek(); ok && isDigit(next) {
				l.advance()
				val, err := l.parseNumber()
				if err != nil {
					return err
				}
				if c == '-' {
					val = -val
				}
				l.tokens = append(l.tokens, Token{Type: TokenInteger, Int: val})
			} else {
				l.tokens = append(l.tokens, Token{Type: TokenIdentifier, Text: string(c)})
				l.advance()
			}
			if err := l.parseDelimiter(); err != nil {
				return err
			}
		case c == '#':
			val, err := l.parseBoolean()
			if err != nil {
				return err
			}
			l.tokens = append(l.tokens, Token{Type: TokenBoolean, Bool: val})
			if err := l.parseDelimiter(); err != nil {
				return err
			}
		case isIdentifierStart(c):
			val := l.parseIdentifier()
			l.tokens = append(l.tokens, Token{Type: TokenIdentifier, Text: val})
			if err := l.parseDelimiter(); err != nil {
				return err
			}
		case isDigit(c):
			val, err := l.parseNumber()
			if err != nil {
				return err
			}
			l.tokens = append(l.tokens, Token{Type: TokenInteger, Int: val})
			if err := l.parseDelimiter(); err != nil {
				return err
			}
		case c == '"':
			val, err := l.parseString()
			if err != nil {
				return err
			}
			l.tokens = append(l.tokens, Token{Type: TokenString, Text: val})
			if err := l.parseDelimiter(); err != nil {
				return err
			}
		case isWhitespace(c):
			l.advance()
		default:
			return l.errorf("Unexpected character: %c", c)
		}
	}
	return nil
}

func (l *lexer) parseNumber() (int64, error) {
	digits := make([]rune, 0, 8)
	for !l.eof && isDigit(l.current) {
		digits = append(digits, l.current)
		l.advance()
	}
	val, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return 0, l.errorf("Integer literal out of range: %s", string(digits))
	}
	return val, nil
}

func (l *lexer) parseBoolean() (bool, error) {
	// current is '#'
	l.advance()
	if l.eof {
		return false, l.errorf("Unexpected character when looking for t/f: EOF")
	}
	switch l.current {
	case 't':
		l.advance()
		return true, nil
	case 'f':
		l.advance()
		return false, nil
	default:
		return false, l.errorf("Unexpected character when looking for t/f: %c", l.current)
	}
}

func (l *lexer) parseIdentifier() string {
	chars := make([]rune, 0, 8)
	for !l.eof && isIdentifierChar(l.current) {
		chars = append(chars, l.current)
		l.advance()
	}
	return string(chars)
}

func (l *lexer) parseString() (string, error) {
	// current is the opening quote
	l.advance()
	chars := make([]rune, 0, 16)
	for {
		if l.eof {
			return "", l.errorf("Expected end quote, but found EOF instead")
		}
		if l.current == '"' {
			l.advance()
			return string(chars), nil
		}
		chars = append(chars, l.current)
		l.advance()
	}
}

// parseDelimiter enforces that a completed token is followed by whitespace,
// a close paren, or end of input.
func (l *lexer) parseDelimiter() error {
	if l.eof {
		return nil
	}
	switch {
	case l.current == ')':
		l.tokens = append(l.tokens, Token{Type: TokenCloseParen})
		l.advance()
	case isWhitespace(l.current):
		// the main loop consumes it
	default:
		return l.errorf("Unexpected character when looking for a delimiter: %c", l.current)
	}
	return nil
}

func isWhitespace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isSymbolPunct(c rune) bool {
	switch c {
	case '!', '$', '%', '&', '*', '/', ':', '<', '=', '>', '?', '_', '^':
		return true
	default:
		return false
	}
}

func isIdentifierStart(c rune) bool {
	return unicode.IsLetter(c) || isSymbolPunct(c)
}

func isIdentifierChar(c rune) bool {
	return isIdentifierStart(c) || isDigit(c) || c == '+' || c == '-' || c == '#'
}
