package interpreter

import "slip/interpreter-go/pkg/runtime"

var unquoteSymbol = runtime.SymbolValue{Name: "unquote"}

// quoteValue walks a value, returning atoms unchanged. Inside a quasiquote a
// list headed by `unquote` escapes back into evaluation; everything else,
// including nested unquote forms under a plain quote, stays literal.
func (i *Interpreter) quoteValue(value runtime.Value, quasi bool, env *runtime.Environment) (runtime.Value, error) {
	list, ok := value.(*runtime.ListValue)
	if !ok {
		return value, nil
	}
	if quasi && len(list.Elements) > 0 && runtime.Equal(list.Elements[0], unquoteSymbol) {
		if len(list.Elements) != 2 {
			return nil, runtime.Errorf("Must supply exactly one argument to unquote: %s", runtime.RenderRaw(list))
		}
		return i.Evaluate(list.Elements[1], env)
	}
	quoted := make([]runtime.Value, 0, len(list.Elements))
	for _, item := range list.Elements {
		q, err := i.quoteValue(item, quasi, env)
		if err != nil {
			return nil, err
		}
		quoted = append(quoted, q)
	}
	return &runtime.ListValue{Elements: quoted}, nil
}
