package vm

import (
	"fmt"
	"strings"

	"github.com/quill-lang/quill/internal/value"
)

// Program is an immutable compiled expression. A program is compiled once
// and may then be executed concurrently; per-run state lives entirely in
// the Machine and the Activation.
type Program struct {
	// Code is the straight-line instruction sequence. Execution runs it top
	// to bottom and the expression result is whatever remains on the stack.
	Code []Instr

	// Consts is the constant pool referenced by OpConst.
	Consts []value.Value

	// Names is the variable-name pool referenced by OpLoadVar.
	Names []string

	// NumLocals is the number of temporary slots the program needs, one per
	// list-construction scope depth it reaches.
	NumLocals int
}

// String disassembles the program, one instruction per line.
func (p *Program) String() string {
	var sb strings.Builder
	for pc, instr := range p.Code {
		fmt.Fprintf(&sb, "%3d  %s", pc, instr)
		switch instr.Op {
		case OpConst:
			fmt.Fprintf(&sb, "  ; %s", p.Consts[instr.Arg])
		case OpLoadVar:
			fmt.Fprintf(&sb, "  ; %s", p.Names[instr.Arg])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Activation supplies the per-run environment to compiled code. The
// evaluation context used by the interpreter implements it, so one context
// serves both execution paths.
type Activation interface {
	// ResolveVar returns the value bound to name, or an error if the name
	// is unbound.
	ResolveVar(name string) (value.Value, error)
}

// Error is a runtime failure inside compiled code, carrying the pc of the
// failing instruction.
type Error struct {
	PC      int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("vm: pc %d: %s", e.PC, e.Message)
}
