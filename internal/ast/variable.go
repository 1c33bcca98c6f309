package ast

import (
	"github.com/quill-lang/quill/internal/lexer"
	"github.com/quill-lang/quill/internal/value"
	"github.com/quill-lang/quill/internal/vm"
)

// VariableRef is a reference to a context variable. It is never constant
// (the binding changes between contexts) but is compilable: compiled code
// resolves the name through the activation at run time.
type VariableRef struct {
	pos  lexer.Position
	name string
}

func NewVariableRef(pos lexer.Position, name string) *VariableRef {
	return &VariableRef{pos: pos, name: name}
}

func (n *VariableRef) Pos() lexer.Position { return n.pos }

func (n *VariableRef) Children() []Node { return nil }

// Name returns the referenced variable name.
func (n *VariableRef) Name() string { return n.name }

func (n *VariableRef) Eval(ctx *EvalContext) (value.Value, error) {
	v, ok := ctx.Var(n.name)
	if !ok {
		return value.Value{}, evalErrorf(n.pos, "undefined variable '%s'", n.name)
	}
	return v, nil
}

func (n *VariableRef) IsConstant() bool { return false }

func (n *VariableRef) IsCompilable() bool { return true }

// ExitDescriptor is DescAny: the binding's type is unknown until run time,
// and compiled loads always push a boxed reference.
func (n *VariableRef) ExitDescriptor() value.Descriptor { return value.DescAny }

func (n *VariableRef) Emit(flow *vm.Flow) {
	asm := flow.Asm()
	asm.Emit(vm.OpLoadVar, asm.Name(n.name))
	flow.PushDescriptor(value.DescAny)
}

func (n *VariableRef) String() string { return n.name }
