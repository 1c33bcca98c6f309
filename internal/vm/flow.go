package vm

import "github.com/quill-lang/quill/internal/value"

// Flow is the code-generation context threaded through node emission. It
// wraps the assembler and tracks two pieces of compiler knowledge:
//
//   - a per-scope stack of operand descriptors, so a parent node can ask
//     what static type the most recently emitted child left on the operand
//     stack and box it if it is primitive;
//   - the current compilation-scope depth, which selects the temporary
//     local slot a list constructor may use. A nested list emitted inside
//     a child scope gets a deeper depth and therefore a distinct slot, so
//     it cannot clobber the enclosing list's working reference.
//
// Scope enter/exit calls must be strictly nested. A Flow is used by exactly
// one compilation at a time; the engine serializes compilation per
// expression.
type Flow struct {
	asm    *Assembler
	scopes [][]value.Descriptor
	depth  int
}

// NewFlow returns a Flow with a fresh assembler and a single root scope.
func NewFlow() *Flow {
	return &Flow{
		asm:    NewAssembler(),
		scopes: [][]value.Descriptor{nil},
	}
}

// Asm exposes the underlying assembler for instruction emission.
func (f *Flow) Asm() *Assembler {
	return f.asm
}

// EnterScope opens a nested compilation scope before emitting a child.
func (f *Flow) EnterScope() {
	f.depth++
	f.scopes = append(f.scopes, nil)
}

// ExitScope closes the current scope, discarding its descriptors.
func (f *Flow) ExitScope() {
	if f.depth == 0 {
		panic("vm: ExitScope without matching EnterScope")
	}
	f.depth--
	f.scopes = f.scopes[:len(f.scopes)-1]
}

// ScopeSlot returns the temporary local slot belonging to the current scope
// depth and reserves it in the program being assembled.
func (f *Flow) ScopeSlot() int {
	f.asm.ReserveLocal(f.depth)
	return f.depth
}

// PushDescriptor records the static type the just-emitted code leaves on
// the operand stack.
func (f *Flow) PushDescriptor(d value.Descriptor) {
	top := len(f.scopes) - 1
	f.scopes[top] = append(f.scopes[top], d)
}

// LastDescriptor returns the most recently pushed descriptor in the current
// scope, or value.DescAny if nothing has been recorded yet.
func (f *Flow) LastDescriptor() value.Descriptor {
	top := f.scopes[len(f.scopes)-1]
	if len(top) == 0 {
		return value.DescAny
	}
	return top[len(top)-1]
}

// BoxIfNeeded emits a box conversion when the last emitted result is an
// unboxed primitive, and rewrites its descriptor to the boxed form. Called
// by collection constructors before consuming a child's result.
func (f *Flow) BoxIfNeeded() {
	if !f.LastDescriptor().Primitive() {
		return
	}
	f.asm.Emit(OpBox, 0)
	top := len(f.scopes) - 1
	f.scopes[top][len(f.scopes[top])-1] = value.DescAny
}

// Finish seals the emission into a Program. All nested scopes must have
// been exited.
func (f *Flow) Finish() *Program {
	if f.depth != 0 {
		panic("vm: Finish with unclosed compilation scope")
	}
	return f.asm.Finish()
}
