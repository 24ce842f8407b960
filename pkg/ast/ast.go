package ast

// NodeType identifies the syntax node category.
type NodeType string

const (
	NodeIdentifier     NodeType = "Identifier"
	NodeIntegerLiteral NodeType = "IntegerLiteral"
	NodeBooleanLiteral NodeType = "BooleanLiteral"
	NodeStringLiteral  NodeType = "StringLiteral"
	NodeList           NodeType = "List"
)

// Node is the shared behaviour for all syntax nodes handed to the evaluator.
type Node interface {
	NodeType() NodeType
}

type Identifier struct {
	Name string
}

func (*Identifier) NodeType() NodeType { return NodeIdentifier }

type IntegerLiteral struct {
	Value int64
}

func (*IntegerLiteral) NodeType() NodeType { return NodeIntegerLiteral }

type BooleanLiteral struct {
	Value bool
}

func (*BooleanLiteral) NodeType() NodeType { return NodeBooleanLiteral }

type StringLiteral struct {
	Value string
}

func (*StringLiteral) NodeType() NodeType { return NodeStringLiteral }

type List struct {
	Items []Node
}

func (*List) NodeType() NodeType { return NodeList }

// Constructor helpers keep hand-built trees in tests readable.

func ID(name string) *Identifier { return &Identifier{Name: name} }

func Int(value int64) *IntegerLiteral { return &IntegerLiteral{Value: value} }

func Bool(value bool) *BooleanLiteral { return &BooleanLiteral{Value: value} }

func Str(value string) *StringLiteral { return &StringLiteral{Value: value} }

func ListOf(items ...Node) *List { return &List{Items: items} }
