package runtime

// Environment provides lexical scoping for runtime values. Scopes form a
// parent-linked chain and are shared by reference: every closure and call
// frame holding a scope observes mutations made through any other holder.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil when root).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Define inserts a binding in the current scope.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Has reports whether the name is bound in this scope alone, ignoring
// parents.
func (e *Environment) Has(name string) bool {
	_, ok := e.values[name]
	return ok
}

// Assign updates an existing binding in the first scope where it appears,
// walking outward. It never creates a binding; the return value reports
// whether the name was found.
func (e *Environment) Assign(name string, value Value) bool {
	if _, ok := e.values[name]; ok {
		e.values[name] = value
		return true
	}
	if e.parent != nil {
		return e.parent.Assign(name, value)
	}
	return false
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, bool) {
	if v, ok := e.values[name]; ok {
		return v, true
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return nil, false
}
