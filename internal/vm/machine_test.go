package vm

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/quill-lang/quill/internal/value"
)

// mapActivation backs variable resolution with a plain map.
type mapActivation map[string]value.Value

func (m mapActivation) ResolveVar(name string) (value.Value, error) {
	v, ok := m[name]
	if !ok {
		return value.Value{}, fmt.Errorf("unbound %q", name)
	}
	return v, nil
}

// assemble is a tiny test DSL: each step is an opcode with an optional
// constant or name to intern.
type step struct {
	op    Opcode
	arg   int
	konst *value.Value
	name  string
}

func konst(v value.Value) step { return step{op: OpConst, konst: &v} }

func assemble(steps ...step) *Program {
	asm := NewAssembler()
	for _, s := range steps {
		switch {
		case s.konst != nil:
			asm.Emit(OpConst, asm.Const(*s.konst))
		case s.name != "":
			asm.Emit(s.op, asm.Name(s.name))
		default:
			asm.Emit(s.op, s.arg)
		}
		if s.op == OpStoreLocal || s.op == OpLoadLocal {
			asm.ReserveLocal(s.arg)
		}
	}
	return asm.Finish()
}

func TestMachineArithmetic(t *testing.T) {
	tests := []struct {
		name  string
		op    Opcode
		left  value.Value
		right value.Value
		want  value.Value
	}{
		{"int add", OpAdd, value.Int(2), value.Int(3), value.Int(5)},
		{"int div truncates", OpDiv, value.Int(7), value.Int(2), value.Int(3)},
		{"int mod", OpMod, value.Int(7), value.Int(3), value.Int(1)},
		{"float promotion", OpAdd, value.Int(1), value.Float(0.5), value.Float(1.5)},
		{"float mul", OpMul, value.Float(1.5), value.Float(2), value.Float(3)},
		{"lt", OpLt, value.Int(1), value.Int(2), value.Bool(true)},
		{"ge mixed", OpGe, value.Float(2), value.Int(2), value.Bool(true)},
		{"eq numeric", OpEq, value.Int(1), value.Float(1), value.Bool(true)},
		{"ne strings", OpNe, value.Str("a"), value.Str("b"), value.Bool(true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := assemble(konst(tt.left), konst(tt.right), step{op: tt.op})
			out, err := NewMachine().Run(p, nil)
			if err != nil {
				t.Fatal(err)
			}
			if !out.Equal(tt.want) {
				t.Errorf("got %s, want %s", out, tt.want)
			}
		})
	}
}

func TestMachineErrors(t *testing.T) {
	tests := []struct {
		name   string
		prog   *Program
		substr string
	}{
		{
			"division by zero",
			assemble(konst(value.Int(1)), konst(value.Int(0)), step{op: OpDiv}),
			"division by zero",
		},
		{
			"mod by zero",
			assemble(konst(value.Int(1)), konst(value.Int(0)), step{op: OpMod}),
			"division by zero",
		},
		{
			"mod on float",
			assemble(konst(value.Float(1)), konst(value.Int(2)), step{op: OpMod}),
			"mod on float",
		},
		{
			"add on string",
			assemble(konst(value.Str("a")), konst(value.Int(1)), step{op: OpAdd}),
			"non-numeric",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMachine().Run(tt.prog, nil)
			if err == nil {
				t.Fatal("expected an error")
			}
			var vmErr *Error
			if !errors.As(err, &vmErr) {
				t.Fatalf("err should be *Error, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("error %q should mention %q", err, tt.substr)
			}
		})
	}
}

func TestMachineLoadVar(t *testing.T) {
	act := mapActivation{"x": value.Int(9)}
	p := assemble(step{op: OpLoadVar, name: "x"})

	out, err := NewMachine().Run(p, act)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Equal(value.Int(9)) {
		t.Errorf("got %s, want 9", out)
	}

	_, err = NewMachine().Run(assemble(step{op: OpLoadVar, name: "y"}), act)
	if err == nil || !strings.Contains(err.Error(), `unbound "y"`) {
		t.Errorf("resolution failure should propagate, got %v", err)
	}
}

// The canonical list-building sequence: allocate, park the reference in a
// local, and per element box, append, pop, reload.
func TestMachineBuildsList(t *testing.T) {
	p := assemble(
		step{op: OpNewList, arg: 2},
		step{op: OpDup},
		step{op: OpStoreLocal, arg: 0},
		konst(value.Int(1)),
		step{op: OpBox},
		step{op: OpAppend},
		step{op: OpPop},
		step{op: OpLoadLocal, arg: 0},
		konst(value.Str("s")),
		step{op: OpAppend},
		step{op: OpPop},
		step{op: OpLoadLocal, arg: 0},
	)

	out, err := NewMachine().Run(p, nil)
	if err != nil {
		t.Fatal(err)
	}

	want := value.ListVal(value.ListOf(value.Int(1), value.Str("s")))
	if !out.Equal(want) {
		t.Errorf("got %s, want %s", out, want)
	}
	if out.AsList().Frozen() {
		t.Error("machine-built lists are mutable")
	}
}

// Appending an unboxed primitive is a compiler protocol violation, caught by
// a panic rather than an error.
func TestMachineAppendRequiresBoxedElement(t *testing.T) {
	p := assemble(
		step{op: OpNewList, arg: 1},
		step{op: OpDup},
		step{op: OpStoreLocal, arg: 0},
		konst(value.Int(1)), // unboxed: no OpBox before the append
		step{op: OpAppend},
	)

	defer func() {
		if recover() == nil {
			t.Error("append of an unboxed primitive should panic")
		}
	}()
	NewMachine().Run(p, nil)
}

func TestMachineResultIsAlwaysBoxed(t *testing.T) {
	p := assemble(konst(value.Int(2)), konst(value.Int(3)), step{op: OpMul})
	out, err := NewMachine().Run(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Desc() != value.DescInt {
		t.Errorf("Desc = %s, want int", out.Desc())
	}
	if _, ok := out.Raw().(int64); !ok {
		t.Errorf("Raw should be int64, got %T", out.Raw())
	}
}

func TestMachineIsReusable(t *testing.T) {
	m := NewMachine()
	p := assemble(konst(value.Int(1)), konst(value.Int(2)), step{op: OpAdd})

	for i := 0; i < 3; i++ {
		out, err := m.Run(p, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !out.Equal(value.Int(3)) {
			t.Fatalf("run %d: got %s", i, out)
		}
	}
}

func TestAssemblerInterning(t *testing.T) {
	asm := NewAssembler()

	a := asm.Const(value.Int(1))
	b := asm.Const(value.Int(1))
	c := asm.Const(value.Int(2))
	if a != b {
		t.Error("equal scalar constants should share a pool slot")
	}
	if a == c {
		t.Error("distinct constants must not share a pool slot")
	}

	if asm.Name("x") != asm.Name("x") {
		t.Error("names should intern")
	}

	asm.ReserveLocal(1)
	asm.ReserveLocal(0)
	if p := asm.Finish(); p.NumLocals != 2 {
		t.Errorf("NumLocals = %d, want 2", p.NumLocals)
	}
}
