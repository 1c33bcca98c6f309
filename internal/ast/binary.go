package ast

import (
	"github.com/quill-lang/quill/internal/lexer"
	"github.com/quill-lang/quill/internal/value"
	"github.com/quill-lang/quill/internal/vm"
)

// BinOp identifies a binary operator.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

func (op BinOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

// comparison reports whether the operator yields a bool.
func (op BinOp) comparison() bool { return op >= OpEq }

// vmOp maps the operator to its machine opcode.
func (op BinOp) vmOp() vm.Opcode {
	switch op {
	case OpAdd:
		return vm.OpAdd
	case OpSub:
		return vm.OpSub
	case OpMul:
		return vm.OpMul
	case OpDiv:
		return vm.OpDiv
	case OpMod:
		return vm.OpMod
	case OpEq:
		return vm.OpEq
	case OpNe:
		return vm.OpNe
	case OpLt:
		return vm.OpLt
	case OpLe:
		return vm.OpLe
	case OpGt:
		return vm.OpGt
	default:
		return vm.OpGe
	}
}

// BinaryExpr applies an arithmetic or comparison operator to two operands.
//
// Operators are never constant, even over literal operands: folding is the
// literal analysis's job, and an operator child disqualifies a containing
// list from folding. Arithmetic follows the usual promotion rule: two ints
// yield an int, a float operand promotes the result to float.
type BinaryExpr struct {
	pos   lexer.Position
	op    BinOp
	left  Node
	right Node
}

func NewBinaryExpr(pos lexer.Position, op BinOp, left, right Node) *BinaryExpr {
	return &BinaryExpr{pos: pos, op: op, left: left, right: right}
}

func (n *BinaryExpr) Pos() lexer.Position { return n.pos }

func (n *BinaryExpr) Children() []Node { return []Node{n.left, n.right} }

// Op returns the operator.
func (n *BinaryExpr) Op() BinOp { return n.op }

func (n *BinaryExpr) Eval(ctx *EvalContext) (value.Value, error) {
	left, err := n.left.Eval(ctx)
	if err != nil {
		return value.Value{}, err
	}
	right, err := n.right.Eval(ctx)
	if err != nil {
		return value.Value{}, err
	}

	if n.op == OpEq || n.op == OpNe {
		eq := left.Equal(right)
		if lok, rok := isNumeric(left), isNumeric(right); lok && rok {
			// 1 == 1.0 compares numerically, matching the ordering ops.
			eq = numericCompare(left, right) == 0
		}
		if n.op == OpNe {
			eq = !eq
		}
		return value.Bool(eq), nil
	}

	if !isNumeric(left) || !isNumeric(right) {
		return value.Value{}, evalErrorf(n.pos, "operator '%s' requires numeric operands, got %s and %s",
			n.op, left.Desc(), right.Desc())
	}

	if n.op.comparison() {
		c := numericCompare(left, right)
		var out bool
		switch n.op {
		case OpLt:
			out = c < 0
		case OpLe:
			out = c <= 0
		case OpGt:
			out = c > 0
		case OpGe:
			out = c >= 0
		}
		return value.Bool(out), nil
	}

	return n.arith(left, right)
}

// arith performs +, -, *, / and % with int-to-float promotion.
func (n *BinaryExpr) arith(left, right value.Value) (value.Value, error) {
	li, lFloat := asInt(left)
	ri, rFloat := asInt(right)

	if lFloat || rFloat {
		lf := asFloat(left)
		rf := asFloat(right)
		switch n.op {
		case OpAdd:
			return value.Float(lf + rf), nil
		case OpSub:
			return value.Float(lf - rf), nil
		case OpMul:
			return value.Float(lf * rf), nil
		case OpDiv:
			return value.Float(lf / rf), nil
		default:
			return value.Value{}, evalErrorf(n.pos, "operator '%%' requires integer operands")
		}
	}

	switch n.op {
	case OpAdd:
		return value.Int(li + ri), nil
	case OpSub:
		return value.Int(li - ri), nil
	case OpMul:
		return value.Int(li * ri), nil
	case OpDiv:
		if ri == 0 {
			return value.Value{}, evalErrorf(n.pos, "division by zero")
		}
		return value.Int(li / ri), nil
	default:
		if ri == 0 {
			return value.Value{}, evalErrorf(n.pos, "division by zero")
		}
		return value.Int(li % ri), nil
	}
}

func (n *BinaryExpr) IsConstant() bool { return false }

// IsCompilable requires both operands to be compilable with statically
// numeric exit descriptors. A DescAny operand (for example a variable)
// would leave the int-versus-float decision and the boxing protocol
// unresolved at compile time, so such trees stay on the interpreter.
func (n *BinaryExpr) IsCompilable() bool {
	if !n.left.IsCompilable() || !n.right.IsCompilable() {
		return false
	}
	return staticNumeric(n.left.ExitDescriptor()) && staticNumeric(n.right.ExitDescriptor())
}

func (n *BinaryExpr) ExitDescriptor() value.Descriptor {
	if n.op.comparison() {
		return value.DescBool
	}
	ld, rd := n.left.ExitDescriptor(), n.right.ExitDescriptor()
	if ld == value.DescInt && rd == value.DescInt {
		return value.DescInt
	}
	if staticNumeric(ld) && staticNumeric(rd) {
		return value.DescFloat
	}
	return value.DescAny
}

func (n *BinaryExpr) Emit(flow *vm.Flow) {
	if !n.IsCompilable() {
		panic("ast: Emit on non-compilable binary expression")
	}
	n.left.Emit(flow)
	n.right.Emit(flow)
	flow.Asm().Emit(n.op.vmOp(), 0)
	flow.PushDescriptor(n.ExitDescriptor())
}

func (n *BinaryExpr) String() string {
	return "(" + n.left.String() + n.op.String() + n.right.String() + ")"
}

// Numeric helpers shared by the interpreter path.

func staticNumeric(d value.Descriptor) bool {
	return d == value.DescInt || d == value.DescFloat
}

func isNumeric(v value.Value) bool {
	switch v.Raw().(type) {
	case int64, float64:
		return true
	}
	return false
}

// asInt returns the int payload, or reports that the value is a float.
func asInt(v value.Value) (int64, bool) {
	switch x := v.Raw().(type) {
	case int64:
		return x, false
	default:
		return 0, true
	}
}

func asFloat(v value.Value) float64 {
	switch x := v.Raw().(type) {
	case int64:
		return float64(x)
	case float64:
		return x
	}
	return 0
}

// numericCompare returns -1, 0 or 1 ordering two numeric values, promoting
// to float when the types differ.
func numericCompare(left, right value.Value) int {
	li, lok := left.Raw().(int64)
	ri, rok := right.Raw().(int64)
	if lok && rok {
		switch {
		case li < ri:
			return -1
		case li > ri:
			return 1
		}
		return 0
	}
	lf, rf := asFloat(left), asFloat(right)
	switch {
	case lf < rf:
		return -1
	case lf > rf:
		return 1
	}
	return 0
}
