package vm

import (
	"fmt"

	"github.com/quill-lang/quill/internal/value"
)

// slotKind discriminates operand-stack slots. Primitives live on the stack
// in raw form until an OpBox converts them; references hold a boxed Value.
type slotKind uint8

const (
	slotRef slotKind = iota
	slotInt
	slotFloat
	slotBool
)

type slot struct {
	kind slotKind
	i    int64
	f    float64
	b    bool
	ref  value.Value
}

// refSlot wraps an already-boxed value.
func refSlot(v value.Value) slot {
	return slot{kind: slotRef, ref: v}
}

// constSlot pushes a constant in the form its descriptor dictates:
// primitives unboxed, everything else as a reference.
func constSlot(v value.Value) slot {
	switch v.Desc() {
	case value.DescInt:
		return slot{kind: slotInt, i: v.Raw().(int64)}
	case value.DescFloat:
		return slot{kind: slotFloat, f: v.Raw().(float64)}
	case value.DescBool:
		return slot{kind: slotBool, b: v.Raw().(bool)}
	default:
		return refSlot(v)
	}
}

// box converts a slot to its boxed value form.
func (s slot) box() value.Value {
	switch s.kind {
	case slotInt:
		return value.Int(s.i)
	case slotFloat:
		return value.Float(s.f)
	case slotBool:
		return value.Bool(s.b)
	default:
		return s.ref
	}
}

// number extracts a numeric payload from a slot, unwrapping boxed values.
// isFloat reports which of i and f is meaningful.
func (s slot) number() (i int64, f float64, isFloat, ok bool) {
	switch s.kind {
	case slotInt:
		return s.i, 0, false, true
	case slotFloat:
		return 0, s.f, true, true
	case slotRef:
		switch x := s.ref.Raw().(type) {
		case int64:
			return x, 0, false, true
		case float64:
			return 0, x, true, true
		}
	}
	return 0, 0, false, false
}

// Machine executes programs. A Machine holds only per-run scratch state;
// create one per concurrent execution.
type Machine struct {
	stack  []slot
	locals []slot
}

// NewMachine returns a machine with a small preallocated stack.
func NewMachine() *Machine {
	return &Machine{stack: make([]slot, 0, 16)}
}

// Run executes p against act and returns the expression result. The result
// is always boxed; callers see the same Value shapes the interpreter
// produces.
func (m *Machine) Run(p *Program, act Activation) (value.Value, error) {
	m.stack = m.stack[:0]
	if cap(m.locals) < p.NumLocals {
		m.locals = make([]slot, p.NumLocals)
	} else {
		m.locals = m.locals[:p.NumLocals]
		for i := range m.locals {
			m.locals[i] = slot{}
		}
	}

	for pc, instr := range p.Code {
		switch instr.Op {
		case OpConst:
			m.push(constSlot(p.Consts[instr.Arg]))

		case OpNewList:
			m.push(refSlot(value.ListVal(value.NewList(instr.Arg))))

		case OpDup:
			m.push(m.top())

		case OpPop:
			m.pop()

		case OpStoreLocal:
			m.locals[instr.Arg] = m.pop()

		case OpLoadLocal:
			m.push(m.locals[instr.Arg])

		case OpLoadVar:
			v, err := act.ResolveVar(p.Names[instr.Arg])
			if err != nil {
				return value.Value{}, err
			}
			m.push(refSlot(v))

		case OpAppend:
			elem := m.pop()
			if elem.kind != slotRef {
				// Emission must box primitives before the append; reaching
				// here means the compiler broke its own protocol.
				panic(fmt.Sprintf("vm: unboxed %v reaches append at pc %d", elem.kind, pc))
			}
			lst := m.pop().ref.AsList()
			if lst == nil {
				panic(fmt.Sprintf("vm: append target is not a list at pc %d", pc))
			}
			m.push(slot{kind: slotBool, b: lst.Append(elem.ref)})

		case OpBox:
			m.push(refSlot(m.pop().box()))

		case OpAdd, OpSub, OpMul, OpDiv, OpMod:
			if err := m.arith(instr.Op, pc); err != nil {
				return value.Value{}, err
			}

		case OpEq, OpNe:
			right := m.pop()
			left := m.pop()
			eq := equalSlots(left, right)
			if instr.Op == OpNe {
				eq = !eq
			}
			m.push(slot{kind: slotBool, b: eq})

		case OpLt, OpLe, OpGt, OpGe:
			if err := m.compare(instr.Op, pc); err != nil {
				return value.Value{}, err
			}

		default:
			panic(fmt.Sprintf("vm: unknown opcode %s at pc %d", instr.Op, pc))
		}
	}

	if len(m.stack) != 1 {
		panic(fmt.Sprintf("vm: program left %d operands on the stack", len(m.stack)))
	}
	return m.pop().box(), nil
}

// arith pops two operands and pushes the arithmetic result, promoting to
// float when either operand is a float.
func (m *Machine) arith(op Opcode, pc int) error {
	right := m.pop()
	left := m.pop()

	li, lf, lFloat, lok := left.number()
	ri, rf, rFloat, rok := right.number()
	if !lok || !rok {
		return &Error{PC: pc, Message: fmt.Sprintf("%s on non-numeric operand", op)}
	}

	if lFloat || rFloat {
		if !lFloat {
			lf = float64(li)
		}
		if !rFloat {
			rf = float64(ri)
		}
		var out float64
		switch op {
		case OpAdd:
			out = lf + rf
		case OpSub:
			out = lf - rf
		case OpMul:
			out = lf * rf
		case OpDiv:
			out = lf / rf
		case OpMod:
			return &Error{PC: pc, Message: "mod on float operand"}
		}
		m.push(slot{kind: slotFloat, f: out})
		return nil
	}

	var out int64
	switch op {
	case OpAdd:
		out = li + ri
	case OpSub:
		out = li - ri
	case OpMul:
		out = li * ri
	case OpDiv:
		if ri == 0 {
			return &Error{PC: pc, Message: "division by zero"}
		}
		out = li / ri
	case OpMod:
		if ri == 0 {
			return &Error{PC: pc, Message: "division by zero"}
		}
		out = li % ri
	}
	m.push(slot{kind: slotInt, i: out})
	return nil
}

// compare pops two numeric operands and pushes an unboxed bool.
func (m *Machine) compare(op Opcode, pc int) error {
	right := m.pop()
	left := m.pop()

	li, lf, lFloat, lok := left.number()
	ri, rf, rFloat, rok := right.number()
	if !lok || !rok {
		return &Error{PC: pc, Message: fmt.Sprintf("%s on non-numeric operand", op)}
	}

	var out bool
	if lFloat || rFloat {
		if !lFloat {
			lf = float64(li)
		}
		if !rFloat {
			rf = float64(ri)
		}
		switch op {
		case OpLt:
			out = lf < rf
		case OpLe:
			out = lf <= rf
		case OpGt:
			out = lf > rf
		case OpGe:
			out = lf >= rf
		}
	} else {
		switch op {
		case OpLt:
			out = li < ri
		case OpLe:
			out = li <= ri
		case OpGt:
			out = li > ri
		case OpGe:
			out = li >= ri
		}
	}
	m.push(slot{kind: slotBool, b: out})
	return nil
}

// equalSlots implements == over slots, comparing numerics numerically and
// everything else through boxed value equality.
func equalSlots(left, right slot) bool {
	li, lf, lFloat, lok := left.number()
	ri, rf, rFloat, rok := right.number()
	if lok && rok {
		if lFloat || rFloat {
			if !lFloat {
				lf = float64(li)
			}
			if !rFloat {
				rf = float64(ri)
			}
			return lf == rf
		}
		return li == ri
	}
	return left.box().Equal(right.box())
}

func (m *Machine) push(s slot) {
	m.stack = append(m.stack, s)
}

func (m *Machine) pop() slot {
	s := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return s
}

func (m *Machine) top() slot {
	return m.stack[len(m.stack)-1]
}
