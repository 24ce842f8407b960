package parser

import (
	"errors"
	"reflect"
	"testing"

	"slip/interpreter-go/pkg/ast"
	"slip/interpreter-go/pkg/lexer"
)

func parse(t *testing.T, src string) []ast.Node {
	t.Helper()
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q) failed: %v", src, err)
	}
	nodes, err := Parse(tokens)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", src, err)
	}
	return nodes
}

func wantParseError(t *testing.T, src, message string) {
	t.Helper()
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q) failed: %v", src, err)
	}
	_, err = Parse(tokens)
	if err == nil {
		t.Fatalf("Parse(%q) succeeded, want error", src)
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Parse(%q) returned %T, want *ParseError", src, err)
	}
	if parseErr.Message != message {
		t.Fatalf("Parse(%q) message = %q, want %q", src, parseErr.Message, message)
	}
}

func TestParseAtoms(t *testing.T) {
	got := parse(t, `42 #t x "hi"`)
	want := []ast.Node{
		ast.Int(42),
		ast.Bool(true),
		ast.ID("x"),
		ast.Str("hi"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("nodes = %#v, want %#v", got, want)
	}
}

func TestParseNestedLists(t *testing.T) {
	got := parse(t, "(define x (+ 1 (f 2)) ())")
	want := []ast.Node{
		ast.ListOf(
			ast.ID("define"),
			ast.ID("x"),
			ast.ListOf(ast.ID("+"), ast.Int(1), ast.ListOf(ast.ID("f"), ast.Int(2))),
			ast.ListOf(),
		),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("nodes = %#v, want %#v", got, want)
	}
}

func TestParseMultipleTopLevelForms(t *testing.T) {
	got := parse(t, "(define x 2) (+ x x)")
	if len(got) != 2 {
		t.Fatalf("got %d top-level forms, want 2", len(got))
	}
}

func TestParseQuoteSugar(t *testing.T) {
	got := parse(t, "'x")
	want := []ast.Node{ast.ListOf(ast.ID("quote"), ast.ID("x"))}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("nodes = %#v, want %#v", got, want)
	}

	got = parse(t, "'(1 '2)")
	want = []ast.Node{
		ast.ListOf(
			ast.ID("quote"),
			ast.ListOf(ast.Int(1), ast.ListOf(ast.ID("quote"), ast.Int(2))),
		),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("nodes = %#v, want %#v", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	wantParseError(t, ")", "Unexpected close paren")
	wantParseError(t, "(define x", "Unclosed list, expected a close paren")
	wantParseError(t, "'", "Missing form after quote")
}

func TestParseEmptyInput(t *testing.T) {
	got := parse(t, "")
	if len(got) != 0 {
		t.Fatalf("nodes = %#v, want none", got)
	}
}
