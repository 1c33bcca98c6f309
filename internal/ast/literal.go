package ast

import (
	"strconv"
	"strings"

	"github.com/quill-lang/quill/internal/lexer"
	"github.com/quill-lang/quill/internal/value"
	"github.com/quill-lang/quill/internal/vm"
)

// Literal is a scalar literal: an int, float, string, bool or null. It is
// the base case of constant-folding analysis and is always compilable.
type Literal struct {
	pos lexer.Position
	val value.Value
}

// NewLiteral wraps an already-converted scalar value.
func NewLiteral(pos lexer.Position, val value.Value) *Literal {
	return &Literal{pos: pos, val: val}
}

func (n *Literal) Pos() lexer.Position { return n.pos }

func (n *Literal) Children() []Node { return nil }

// Value returns the literal's value without an evaluation context. The
// folding analysis reads literals through this rather than through Eval.
func (n *Literal) Value() value.Value { return n.val }

func (n *Literal) Eval(ctx *EvalContext) (value.Value, error) {
	return n.val, nil
}

func (n *Literal) IsConstant() bool { return true }

func (n *Literal) IsCompilable() bool { return true }

func (n *Literal) ExitDescriptor() value.Descriptor { return n.val.Desc() }

func (n *Literal) Emit(flow *vm.Flow) {
	asm := flow.Asm()
	asm.Emit(vm.OpConst, asm.Const(n.val))
	flow.PushDescriptor(n.val.Desc())
}

// String renders the literal in canonical source form. Floats always carry
// a '.' or exponent so they re-parse as floats rather than ints.
func (n *Literal) String() string {
	switch x := n.val.Raw().(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		s := strconv.FormatFloat(x, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s
	case string:
		return strconv.Quote(x)
	default:
		return n.val.String()
	}
}
