package runtime

import "testing"

func TestRender(t *testing.T) {
	cases := []struct {
		value Value
		want  string
	}{
		{IntegerValue{Val: 42}, "42"},
		{IntegerValue{Val: -7}, "-7"},
		{BoolValue{Val: true}, "#t"},
		{BoolValue{Val: false}, "#f"},
		{StringValue{Val: "hi"}, `"hi"`},
		{SymbolValue{Name: "x"}, "'x"},
		{Null(), "'()"},
		{
			&ListValue{Elements: []Value{
				IntegerValue{Val: 1},
				&ListValue{Elements: []Value{SymbolValue{Name: "a"}, BoolValue{Val: false}}},
			}},
			"'(1 (a #f))",
		},
		{&ProcedureValue{}, "#<procedure>"},
		{&NativeProcedureValue{Name: "+"}, "#<procedure>"},
	}
	for _, tc := range cases {
		if got := Render(tc.value); got != tc.want {
			t.Fatalf("Render(%#v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestRenderRawDropsQuoteMarker(t *testing.T) {
	list := &ListValue{Elements: []Value{SymbolValue{Name: "a"}, IntegerValue{Val: 1}}}
	if got := RenderRaw(list); got != "(a 1)" {
		t.Fatalf("RenderRaw = %q, want %q", got, "(a 1)")
	}
	if got := RenderRaw(SymbolValue{Name: "a"}); got != "a" {
		t.Fatalf("RenderRaw = %q, want %q", got, "a")
	}
}

func TestEqualStructural(t *testing.T) {
	a := &ListValue{Elements: []Value{IntegerValue{Val: 1}, SymbolValue{Name: "x"}}}
	b := &ListValue{Elements: []Value{IntegerValue{Val: 1}, SymbolValue{Name: "x"}}}
	if !Equal(a, b) {
		t.Fatal("structurally identical lists compare unequal")
	}
	c := &ListValue{Elements: []Value{IntegerValue{Val: 2}, SymbolValue{Name: "x"}}}
	if Equal(a, c) {
		t.Fatal("different lists compare equal")
	}
	if Equal(IntegerValue{Val: 1}, BoolValue{Val: true}) {
		t.Fatal("values of different kinds compare equal")
	}
	if Equal(IntegerValue{Val: 0}, BoolValue{Val: false}) {
		t.Fatal("0 and #f compare equal")
	}
}

func TestEqualProceduresByIdentity(t *testing.T) {
	p := &ProcedureValue{Params: []string{"x"}}
	q := &ProcedureValue{Params: []string{"x"}}
	if !Equal(p, p) {
		t.Fatal("procedure not equal to itself")
	}
	if Equal(p, q) {
		t.Fatal("distinct procedures compare equal")
	}
}

func TestIsProcedure(t *testing.T) {
	if !IsProcedure(&ProcedureValue{}) || !IsProcedure(&NativeProcedureValue{}) {
		t.Fatal("procedure kinds not callable")
	}
	if IsProcedure(IntegerValue{Val: 1}) || IsProcedure(Null()) {
		t.Fatal("non-procedure kinds callable")
	}
}
