package interpreter

import (
	"slip/interpreter-go/pkg/ast"
	"slip/interpreter-go/pkg/runtime"
)

// Interpreter drives recursive evaluation of values against a scope chain.
type Interpreter struct {
	global *runtime.Environment
}

// New returns an interpreter whose root environment is seeded with the
// builtin procedure table.
func New() *Interpreter {
	i := &Interpreter{global: runtime.NewEnvironment(nil)}
	i.installBuiltins(i.global)
	return i
}

// GlobalEnvironment returns the interpreter's root environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// Interpret evaluates a parsed program against a fresh root environment and
// returns the value of its last expression, or the empty list for an empty
// program.
func Interpret(nodes []ast.Node) (runtime.Value, error) {
	i := New()
	return i.EvaluateSequence(FromNodes(nodes), i.global)
}

// FromNodes translates syntax nodes into runtime values of the same shape.
// No evaluation happens here.
func FromNodes(nodes []ast.Node) []runtime.Value {
	values := make([]runtime.Value, 0, len(nodes))
	for _, node := range nodes {
		values = append(values, fromNode(node))
	}
	return values
}

func fromNode(node ast.Node) runtime.Value {
	switch n := node.(type) {
	case *ast.Identifier:
		return runtime.SymbolValue{Name: n.Name}
	case *ast.IntegerLiteral:
		return runtime.IntegerValue{Val: n.Value}
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: n.Value}
	case *ast.StringLiteral:
		return runtime.StringValue{Val: n.Value}
	case *ast.List:
		return &runtime.ListValue{Elements: FromNodes(n.Items)}
	default:
		// The node set is closed; the parser cannot emit anything else.
		panic("unsupported syntax node type: " + string(node.NodeType()))
	}
}

// EvaluateSequence evaluates values strictly left to right, discarding all
// but the last result. The empty sequence evaluates to the empty list.
func (i *Interpreter) EvaluateSequence(values []runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	var result runtime.Value = runtime.Null()
	for _, value := range values {
		var err error
		result, err = i.Evaluate(value, env)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Evaluate reduces a single value. Atoms other than symbols self-evaluate,
// symbols resolve through the scope chain, and non-empty lists are treated
// as expressions.
func (i *Interpreter) Evaluate(value runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	switch v := value.(type) {
	case runtime.SymbolValue:
		val, ok := env.Get(v.Name)
		if !ok {
			return nil, runtime.Errorf("Identifier not found: %s", runtime.Render(v))
		}
		return val, nil
	case *runtime.ListValue:
		if len(v.Elements) == 0 {
			return value, nil
		}
		return i.evaluateExpression(v, env)
	default:
		// integers, booleans, strings, and procedure values
		return value, nil
	}
}

// evaluateExpression evaluates the operator position and applies the result.
// The operands are handed over unevaluated; each procedure variant decides
// itself what to evaluate.
func (i *Interpreter) evaluateExpression(list *runtime.ListValue, env *runtime.Environment) (runtime.Value, error) {
	first, err := i.Evaluate(list.Elements[0], env)
	if err != nil {
		return nil, err
	}
	if !runtime.IsProcedure(first) {
		return nil, runtime.Errorf("First element in an expression must be a procedure: %s", runtime.Render(first))
	}
	return i.applyProcedure(first, list.Elements[1:], env)
}

func (i *Interpreter) applyProcedure(proc runtime.Value, args []runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	switch p := proc.(type) {
	case *runtime.NativeProcedureValue:
		return p.Impl(&runtime.NativeCallContext{Env: env}, args)
	case *runtime.ProcedureValue:
		if len(p.Params) != len(args) {
			return nil, runtime.Errorf("Must supply exactly %d arguments to procedure: %s",
				len(p.Params), runtime.RenderRaw(&runtime.ListValue{Elements: args}))
		}
		// Arguments evaluate in the caller's environment; bindings land in a
		// fresh child of the captured one.
		callEnv := runtime.NewEnvironment(p.Closure)
		for idx, name := range p.Params {
			val, err := i.Evaluate(args[idx], env)
			if err != nil {
				return nil, err
			}
			callEnv.Define(name, val)
		}
		return i.EvaluateSequence(p.Body, callEnv)
	default:
		return nil, runtime.Errorf("First element in an expression must be a procedure: %s", runtime.Render(proc))
	}
}
