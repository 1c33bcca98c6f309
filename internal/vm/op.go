// Package vm implements the stack machine that compiled expressions run on,
// together with the assembler and code-generation context used to produce
// its programs.
//
// The machine is deliberately small: programs are straight-line instruction
// sequences (expressions have no control flow), the operand stack holds
// either raw unboxed primitives or boxed reference values, and the only
// allocation primitive is "new list". Temporary locals exist solely so that
// nested list construction at different scope depths cannot alias each
// other's in-progress collection.
package vm

import "fmt"

// Opcode identifies a machine instruction.
type Opcode uint8

const (
	// OpConst pushes constant pool entry Arg. Constants with a primitive
	// descriptor are pushed unboxed; everything else is pushed as a
	// reference.
	OpConst Opcode = iota

	// OpNewList allocates a new mutable list (Arg is a capacity hint) and
	// pushes a reference to it.
	OpNewList

	// OpDup duplicates the top of the stack.
	OpDup

	// OpPop discards the top of the stack.
	OpPop

	// OpStoreLocal pops the top into local slot Arg.
	OpStoreLocal

	// OpLoadLocal pushes local slot Arg.
	OpLoadLocal

	// OpLoadVar resolves name pool entry Arg through the activation and
	// pushes the result as a reference.
	OpLoadVar

	// OpAppend pops an element reference and a list reference, appends the
	// element, and pushes the boolean append result. The element must have
	// been boxed: lists store references only.
	OpAppend

	// OpBox converts an unboxed primitive on top of the stack into its
	// boxed reference form.
	OpBox

	// Arithmetic. Operands are numeric; an int pair yields an int, any
	// float operand promotes the result to float.
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod

	// Comparisons push an unboxed bool. Equality accepts any scalar pair;
	// ordering requires numeric operands.
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

func (op Opcode) String() string {
	switch op {
	case OpConst:
		return "const"
	case OpNewList:
		return "newlist"
	case OpDup:
		return "dup"
	case OpPop:
		return "pop"
	case OpStoreLocal:
		return "store"
	case OpLoadLocal:
		return "load"
	case OpLoadVar:
		return "loadvar"
	case OpAppend:
		return "append"
	case OpBox:
		return "box"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpMod:
		return "mod"
	case OpEq:
		return "eq"
	case OpNe:
		return "ne"
	case OpLt:
		return "lt"
	case OpLe:
		return "le"
	case OpGt:
		return "gt"
	case OpGe:
		return "ge"
	default:
		return fmt.Sprintf("op(%d)", uint8(op))
	}
}

// hasArg reports whether the opcode's Arg field is meaningful.
func (op Opcode) hasArg() bool {
	switch op {
	case OpConst, OpNewList, OpStoreLocal, OpLoadLocal, OpLoadVar:
		return true
	default:
		return false
	}
}

// Instr is a single instruction. Arg indexes the constant pool, the name
// pool, or a local slot depending on the opcode.
type Instr struct {
	Op  Opcode
	Arg int
}

func (i Instr) String() string {
	if i.Op.hasArg() {
		return fmt.Sprintf("%s %d", i.Op, i.Arg)
	}
	return i.Op.String()
}
