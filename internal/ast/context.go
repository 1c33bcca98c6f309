package ast

import "github.com/quill-lang/quill/internal/value"

// Function is a host function callable from an expression. Arguments arrive
// already evaluated, in source order.
type Function func(args []value.Value) (value.Value, error)

// EvalContext carries the runtime environment an evaluation runs against:
// variable bindings and host functions. A context is not safe for
// concurrent mutation; share trees between goroutines, not contexts.
type EvalContext struct {
	vars  map[string]value.Value
	funcs map[string]Function
}

// NewEvalContext returns an empty context.
func NewEvalContext() *EvalContext {
	return &EvalContext{
		vars:  make(map[string]value.Value),
		funcs: make(map[string]Function),
	}
}

// SetVar binds name to v, replacing any previous binding.
func (c *EvalContext) SetVar(name string, v value.Value) {
	c.vars[name] = v
}

// SetFunc registers a host function under name.
func (c *EvalContext) SetFunc(name string, fn Function) {
	c.funcs[name] = fn
}

// Var looks up a variable binding.
func (c *EvalContext) Var(name string) (value.Value, bool) {
	v, ok := c.vars[name]
	return v, ok
}

// Func looks up a host function.
func (c *EvalContext) Func(name string) (Function, bool) {
	fn, ok := c.funcs[name]
	return fn, ok
}

// FuncNames returns the registered function names, for completion UIs.
func (c *EvalContext) FuncNames() []string {
	names := make([]string, 0, len(c.funcs))
	for name := range c.funcs {
		names = append(names, name)
	}
	return names
}

// ResolveVar implements vm.Activation so compiled code can bind variables
// through the same context the interpreter uses. Compiled code has no node
// positions, so the error carries only the name.
func (c *EvalContext) ResolveVar(name string) (value.Value, error) {
	v, ok := c.vars[name]
	if !ok {
		return value.Value{}, &EvalError{Message: "undefined variable '" + name + "'"}
	}
	return v, nil
}
