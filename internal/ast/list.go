package ast

import (
	"strings"

	"github.com/quill-lang/quill/internal/lexer"
	"github.com/quill-lang/quill/internal/value"
	"github.com/quill-lang/quill/internal/vm"
)

// ListNode is an inline list literal, e.g. {1,2,3} or {1,{2,3}}.
//
// At construction the node runs a one-shot folding analysis over its
// children: if every element is a scalar literal or a list that itself
// folded, the whole list is a compile-time constant and the folded value is
// cached. Evaluating a folded list returns the same frozen value object on
// every call, which avoids rebuilding structurally identical collections in
// expression-heavy workloads where literals are evaluated many times
// against different contexts.
type ListNode struct {
	pos   lexer.Position
	elems []Node

	// constant is the folded value, present iff the list is constant. The
	// payload is a deep-frozen list; nested folded lists are shared with
	// the child nodes that produced them, never recomputed.
	constant *value.Value
}

// NewListNode builds the node and runs the folding analysis. The element
// slice is owned by the node afterwards and must not be modified.
func NewListNode(pos lexer.Position, elems []Node) *ListNode {
	n := &ListNode{pos: pos, elems: elems}
	n.checkConstant()
	return n
}

// checkConstant decides constancy from the direct children only: literals
// contribute their value, constant sublists contribute their already-folded
// value. Each node therefore looks at its own children once and the
// analysis is linear in the size of the tree. An empty list is constant.
func (n *ListNode) checkConstant() {
	for _, elem := range n.elems {
		switch e := elem.(type) {
		case *Literal:
			// always foldable
		case *ListNode:
			if !e.IsConstant() {
				return
			}
		default:
			// Variables, calls and operators disqualify the whole list.
			return
		}
	}

	folded := value.NewList(len(n.elems))
	for _, elem := range n.elems {
		switch e := elem.(type) {
		case *Literal:
			folded.Append(e.Value())
		case *ListNode:
			folded.Append(value.ListVal(e.ConstantValue()))
		}
	}
	v := value.ListVal(folded.Freeze())
	n.constant = &v
}

func (n *ListNode) Pos() lexer.Position { return n.pos }

func (n *ListNode) Children() []Node { return n.elems }

// IsConstant reports whether the folding analysis produced a value.
func (n *ListNode) IsConstant() bool { return n.constant != nil }

// ConstantValue returns the folded list. Only valid when IsConstant; the
// result is frozen and must be treated as read-only.
func (n *ListNode) ConstantValue() *value.List {
	return n.constant.AsList()
}

// Eval returns the cached folded value when the list is constant — an O(1)
// operation that evaluates no children. Otherwise it evaluates each child
// left to right against ctx and collects the results into a fresh mutable
// list. The first child error aborts the whole node: children after the
// failing one are not evaluated and no partial list escapes.
func (n *ListNode) Eval(ctx *EvalContext) (value.Value, error) {
	if n.constant != nil {
		return *n.constant, nil
	}

	out := value.NewList(len(n.elems))
	for _, elem := range n.elems {
		v, err := elem.Eval(ctx)
		if err != nil {
			return value.Value{}, err
		}
		out.Append(v)
	}
	return value.ListVal(out), nil
}

// IsCompilable: a constant list always compiles (its elements are literals
// or folded sublists). A non-constant list compiles only if every element,
// including the first, is itself compilable, since emission generates each
// element's code in turn.
func (n *ListNode) IsCompilable() bool {
	if n.IsConstant() {
		return true
	}
	if len(n.elems) == 0 {
		return true
	}
	for _, elem := range n.elems {
		if !elem.IsCompilable() {
			return false
		}
	}
	return true
}

func (n *ListNode) ExitDescriptor() value.Descriptor { return value.DescList }

// Emit generates code that leaves a newly built mutable list on the operand
// stack:
//
//	newlist            allocate, push reference
//	dup                keep one copy alive across the appends
//	store <slot>       working reference parks in this scope's temporary
//	-- per element --
//	  <element code>   emitted inside a nested scope
//	  box              only when the element result is primitive
//	  append           consumes element and list, pushes bool
//	  pop              discard the append result
//	  load <slot>      reload the list for the next element
//
// The temporary slot is indexed by the current scope depth, so a nested
// list literal compiled inside an element occupies a deeper slot and cannot
// overwrite this list's working reference.
func (n *ListNode) Emit(flow *vm.Flow) {
	if !n.IsCompilable() {
		panic("ast: Emit on non-compilable list literal")
	}

	asm := flow.Asm()
	asm.Emit(vm.OpNewList, len(n.elems))
	asm.Emit(vm.OpDup, 0)
	slot := flow.ScopeSlot()
	asm.Emit(vm.OpStoreLocal, slot)

	for _, elem := range n.elems {
		flow.EnterScope()
		elem.Emit(flow)
		flow.BoxIfNeeded()
		flow.ExitScope()
		asm.Emit(vm.OpAppend, 0)
		asm.Emit(vm.OpPop, 0)
		asm.Emit(vm.OpLoadLocal, slot)
	}

	flow.PushDescriptor(value.DescList)
}

// String renders canonical list syntax: comma-separated elements inside
// braces, no spaces. This matches the source form, not the display form of
// the resulting collection (which uses square brackets), so canonical text
// re-parses to an equivalent node.
func (n *ListNode) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, elem := range n.elems {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(elem.String())
	}
	sb.WriteByte('}')
	return sb.String()
}
