package ast

import (
	"strings"

	"github.com/quill-lang/quill/internal/lexer"
	"github.com/quill-lang/quill/internal/value"
	"github.com/quill-lang/quill/internal/vm"
)

// CallExpr invokes a host function registered in the evaluation context.
// Calls are never constant (the callee may have side effects) and never
// compilable: the machine has no call protocol, so any tree containing a
// call stays on the interpreter.
type CallExpr struct {
	pos  lexer.Position
	name string
	args []Node
}

func NewCallExpr(pos lexer.Position, name string, args []Node) *CallExpr {
	return &CallExpr{pos: pos, name: name, args: args}
}

func (n *CallExpr) Pos() lexer.Position { return n.pos }

func (n *CallExpr) Children() []Node { return n.args }

// Name returns the callee name.
func (n *CallExpr) Name() string { return n.name }

// Eval resolves the callee, evaluates the arguments left to right with
// short-circuit on the first error, then invokes the function. Argument
// side effects before a failing argument are not undone.
func (n *CallExpr) Eval(ctx *EvalContext) (value.Value, error) {
	fn, ok := ctx.Func(n.name)
	if !ok {
		return value.Value{}, evalErrorf(n.pos, "undefined function '%s'", n.name)
	}

	args := make([]value.Value, 0, len(n.args))
	for _, arg := range n.args {
		v, err := arg.Eval(ctx)
		if err != nil {
			return value.Value{}, err
		}
		args = append(args, v)
	}

	out, err := fn(args)
	if err != nil {
		if _, ok := err.(*EvalError); ok {
			return value.Value{}, err
		}
		return value.Value{}, evalErrorf(n.pos, "%s: %s", n.name, err)
	}
	return out, nil
}

func (n *CallExpr) IsConstant() bool { return false }

func (n *CallExpr) IsCompilable() bool { return false }

func (n *CallExpr) ExitDescriptor() value.Descriptor { return value.DescAny }

func (n *CallExpr) Emit(flow *vm.Flow) {
	panic("ast: Emit on non-compilable call expression")
}

func (n *CallExpr) String() string {
	var sb strings.Builder
	sb.WriteString(n.name)
	sb.WriteByte('(')
	for i, arg := range n.args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(arg.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
