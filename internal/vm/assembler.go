package vm

import "github.com/quill-lang/quill/internal/value"

// Assembler accumulates instructions and pools while a tree is being
// compiled. It is write-only during emission; Finish seals the result into
// an immutable Program.
type Assembler struct {
	code      []Instr
	consts    []value.Value
	names     []string
	numLocals int
}

// NewAssembler returns an empty assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Emit appends an instruction and returns its pc.
func (a *Assembler) Emit(op Opcode, arg int) int {
	a.code = append(a.code, Instr{Op: op, Arg: arg})
	return len(a.code) - 1
}

// Const interns v in the constant pool and returns its index. Scalar
// constants are deduplicated by value; folded list constants by identity of
// their payload, which is what reference-stable caching hands us anyway.
func (a *Assembler) Const(v value.Value) int {
	for i, existing := range a.consts {
		if l := v.AsList(); l != nil {
			if existing.AsList() == l {
				return i
			}
			continue
		}
		if existing.Desc() == v.Desc() && existing.Raw() == v.Raw() {
			return i
		}
	}
	a.consts = append(a.consts, v)
	return len(a.consts) - 1
}

// Name interns a variable name and returns its index.
func (a *Assembler) Name(name string) int {
	for i, existing := range a.names {
		if existing == name {
			return i
		}
	}
	a.names = append(a.names, name)
	return len(a.names) - 1
}

// ReserveLocal ensures the program has at least slot+1 temporary slots.
func (a *Assembler) ReserveLocal(slot int) {
	if slot+1 > a.numLocals {
		a.numLocals = slot + 1
	}
}

// Finish seals the assembled code into a Program.
func (a *Assembler) Finish() *Program {
	return &Program{
		Code:      a.code,
		Consts:    a.consts,
		Names:     a.names,
		NumLocals: a.numLocals,
	}
}
