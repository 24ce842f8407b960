package interpreter

import "slip/interpreter-go/pkg/runtime"

// installBuiltins seeds an environment with the fixed native procedure
// table. Every native receives its operands unevaluated together with the
// caller's environment; special forms and ordinary procedures share this one
// call mechanism.
func (i *Interpreter) installBuiltins(env *runtime.Environment) {
	builtins := []struct {
		name string
		impl runtime.NativeFunc
	}{
		{"define", i.nativeDefine},
		{"set!", i.nativeSet},
		{"lambda", i.nativeLambda},
		{"λ", i.nativeLambda},
		{"if", i.nativeIf},
		{"+", i.nativePlus},
		{"-", i.nativeMinus},
		{"and", i.nativeAnd},
		{"or", i.nativeOr},
		{"list", i.nativeList},
		{"quote", i.nativeQuote},
		{"quasiquote", i.nativeQuasiquote},
		{"error", i.nativeError},
	}
	for _, b := range builtins {
		env.Define(b.name, &runtime.NativeProcedureValue{Name: b.name, Impl: b.impl})
	}
}

func renderArgs(args []runtime.Value) string {
	return runtime.RenderRaw(&runtime.ListValue{Elements: args})
}

func (i *Interpreter) nativeDefine(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, runtime.Errorf("Must supply exactly two arguments to define: %s", renderArgs(args))
	}
	sym, ok := args[0].(runtime.SymbolValue)
	if !ok {
		return nil, runtime.Errorf("Unexpected value for name in define: %s", renderArgs(args))
	}
	if ctx.Env.Has(sym.Name) {
		return nil, runtime.Errorf("Duplicate define: %s", sym.Name)
	}
	val, err := i.Evaluate(args[1], ctx.Env)
	if err != nil {
		return nil, err
	}
	ctx.Env.Define(sym.Name, val)
	return runtime.Null(), nil
}

func (i *Interpreter) nativeSet(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, runtime.Errorf("Must supply exactly two arguments to set!: %s", renderArgs(args))
	}
	sym, ok := args[0].(runtime.SymbolValue)
	if !ok {
		return nil, runtime.Errorf("Unexpected value for name in set!: %s", renderArgs(args))
	}
	if _, bound := ctx.Env.Get(sym.Name); !bound {
		return nil, runtime.Errorf("Can't set! an undefined variable: %s", sym.Name)
	}
	val, err := i.Evaluate(args[1], ctx.Env)
	if err != nil {
		return nil, err
	}
	// Rebind in the scope where the name lives, never shadow locally.
	ctx.Env.Assign(sym.Name, val)
	return runtime.Null(), nil
}

func (i *Interpreter) nativeLambda(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) < 2 {
		return nil, runtime.Errorf("Must supply at least two arguments to lambda: %s", renderArgs(args))
	}
	paramList, ok := args[0].(*runtime.ListValue)
	if !ok {
		return nil, runtime.Errorf("Unexpected value for arguments in lambda: %s", renderArgs(args))
	}
	params := make([]string, 0, len(paramList.Elements))
	for _, item := range paramList.Elements {
		sym, ok := item.(runtime.SymbolValue)
		if !ok {
			return nil, runtime.Errorf("Unexpected argument in lambda arguments: %s", runtime.Render(item))
		}
		params = append(params, sym.Name)
	}
	body := make([]runtime.Value, len(args)-1)
	copy(body, args[1:])
	return &runtime.ProcedureValue{Params: params, Body: body, Closure: ctx.Env}, nil
}

func (i *Interpreter) nativeIf(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 3 {
		return nil, runtime.Errorf("Must supply exactly three arguments to if: %s", renderArgs(args))
	}
	condition, err := i.Evaluate(args[0], ctx.Env)
	if err != nil {
		return nil, err
	}
	// Only the boolean false value is falsy; zero and the empty list are not.
	if b, ok := condition.(runtime.BoolValue); ok && !b.Val {
		return i.Evaluate(args[2], ctx.Env)
	}
	return i.Evaluate(args[1], ctx.Env)
}

func (i *Interpreter) nativePlus(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) < 2 {
		return nil, runtime.Errorf("Must supply at least two arguments to +: %s", renderArgs(args))
	}
	var sum int64
	for _, arg := range args {
		val, err := i.Evaluate(arg, ctx.Env)
		if err != nil {
			return nil, err
		}
		n, ok := val.(runtime.IntegerValue)
		if !ok {
			return nil, runtime.Errorf("Unexpected value during +: %s", runtime.Render(arg))
		}
		sum += n.Val
	}
	return runtime.IntegerValue{Val: sum}, nil
}

func (i *Interpreter) nativeMinus(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, runtime.Errorf("Must supply exactly two arguments to -: %s", renderArgs(args))
	}
	left, err := i.Evaluate(args[0], ctx.Env)
	if err != nil {
		return nil, err
	}
	right, err := i.Evaluate(args[1], ctx.Env)
	if err != nil {
		return nil, err
	}
	l, ok := left.(runtime.IntegerValue)
	if !ok {
		return nil, runtime.Errorf("Unexpected value during -: %s", renderArgs(args))
	}
	r, ok := right.(runtime.IntegerValue)
	if !ok {
		return nil, runtime.Errorf("Unexpected value during -: %s", renderArgs(args))
	}
	return runtime.IntegerValue{Val: l.Val - r.Val}, nil
}

func (i *Interpreter) nativeAnd(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	var result runtime.Value = runtime.BoolValue{Val: true}
	for _, arg := range args {
		val, err := i.Evaluate(arg, ctx.Env)
		if err != nil {
			return nil, err
		}
		if b, ok := val.(runtime.BoolValue); ok && !b.Val {
			return runtime.BoolValue{Val: false}, nil
		}
		result = val
	}
	return result, nil
}

func (i *Interpreter) nativeOr(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	for _, arg := range args {
		val, err := i.Evaluate(arg, ctx.Env)
		if err != nil {
			return nil, err
		}
		if b, ok := val.(runtime.BoolValue); ok && !b.Val {
			continue
		}
		return val, nil
	}
	return runtime.BoolValue{Val: false}, nil
}

func (i *Interpreter) nativeList(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	elements := make([]runtime.Value, 0, len(args))
	for _, arg := range args {
		val, err := i.Evaluate(arg, ctx.Env)
		if err != nil {
			return nil, err
		}
		elements = append(elements, val)
	}
	return &runtime.ListValue{Elements: elements}, nil
}

func (i *Interpreter) nativeQuote(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, runtime.Errorf("Must supply exactly one argument to quote: %s", renderArgs(args))
	}
	return i.quoteValue(args[0], false, ctx.Env)
}

func (i *Interpreter) nativeQuasiquote(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, runtime.Errorf("Must supply exactly one argument to quasiquote: %s", renderArgs(args))
	}
	return i.quoteValue(args[0], true, ctx.Env)
}

func (i *Interpreter) nativeError(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, runtime.Errorf("Must supply exactly one argument to error: %s", renderArgs(args))
	}
	val, err := i.Evaluate(args[0], ctx.Env)
	if err != nil {
		return nil, err
	}
	return nil, runtime.Errorf("%s", runtime.Render(val))
}
