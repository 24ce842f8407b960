package runtime

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindSymbol Kind = iota
	KindInteger
	KindBoolean
	KindString
	KindList
	KindProcedure
	KindNativeProcedure
)

func (k Kind) String() string {
	switch k {
	case KindSymbol:
		return "symbol"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindProcedure:
		return "procedure"
	case KindNativeProcedure:
		return "native_procedure"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Atoms
//-----------------------------------------------------------------------------

type SymbolValue struct {
	Name string
}

func (SymbolValue) Kind() Kind { return KindSymbol }

type IntegerValue struct {
	Val int64
}

func (IntegerValue) Kind() Kind { return KindInteger }

type BoolValue struct {
	Val bool
}

func (BoolValue) Kind() Kind { return KindBoolean }

type StringValue struct {
	Val string
}

func (StringValue) Kind() Kind { return KindString }

//-----------------------------------------------------------------------------
// Lists
//-----------------------------------------------------------------------------

type ListValue struct {
	Elements []Value
}

func (*ListValue) Kind() Kind { return KindList }

// Null returns the empty list, the canonical "no meaningful result" value.
func Null() *ListValue {
	return &ListValue{}
}

//-----------------------------------------------------------------------------
// Procedures
//-----------------------------------------------------------------------------

// ProcedureValue is a closure: parameter names, a body evaluated as a
// sequence, and the environment captured by reference at creation time.
type ProcedureValue struct {
	Params  []string
	Body    []Value
	Closure *Environment
}

func (*ProcedureValue) Kind() Kind { return KindProcedure }

// NativeCallContext carries the caller's environment into a native
// procedure. Natives receive their operands unevaluated and decide
// themselves what to evaluate there.
type NativeCallContext struct {
	Env *Environment
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

type NativeProcedureValue struct {
	Name string
	Impl NativeFunc
}

func (*NativeProcedureValue) Kind() Kind { return KindNativeProcedure }

// IsProcedure reports whether the value is callable in operator position.
func IsProcedure(v Value) bool {
	switch v.Kind() {
	case KindProcedure, KindNativeProcedure:
		return true
	default:
		return false
	}
}

//-----------------------------------------------------------------------------
// Equality and rendering
//-----------------------------------------------------------------------------

// Equal compares values structurally. Procedures compare by identity only:
// a procedure is equal to itself and to nothing else.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case SymbolValue:
		bv, ok := b.(SymbolValue)
		return ok && av.Name == bv.Name
	case IntegerValue:
		bv, ok := b.(IntegerValue)
		return ok && av.Val == bv.Val
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av.Val == bv.Val
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av.Val == bv.Val
	case *ListValue:
		bv, ok := b.(*ListValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// Render produces the diagnostic/REPL form of a value. Symbols and lists are
// prefixed with a quote marker to show they are data.
func Render(v Value) string {
	switch v.Kind() {
	case KindSymbol, KindList:
		return "'" + RenderRaw(v)
	default:
		return RenderRaw(v)
	}
}

// RenderRaw renders a value without the quote marker.
func RenderRaw(v Value) string {
	switch val := v.(type) {
	case SymbolValue:
		return val.Name
	case IntegerValue:
		return strconv.FormatInt(val.Val, 10)
	case BoolValue:
		if val.Val {
			return "#t"
		}
		return "#f"
	case StringValue:
		return "\"" + val.Val + "\""
	case *ListValue:
		var sb strings.Builder
		sb.WriteByte('(')
		for i, item := range val.Elements {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(RenderRaw(item))
		}
		sb.WriteByte(')')
		return sb.String()
	default:
		return "#<procedure>"
	}
}
