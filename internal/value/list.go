package value

import "strings"

// List is the ordered collection produced by list-literal expressions.
//
// A list starts mutable: the compiled and interpreted paths both build their
// results by appending elements in order. Freezing flips the list (and every
// nested list reachable from it) into a read-only snapshot; folded constants
// are only ever exposed frozen, so a caller holding a cached result cannot
// corrupt it through any reference it was handed.
type List struct {
	elems  []Value
	frozen bool
}

// NewList returns an empty mutable list with room for n elements.
func NewList(n int) *List {
	return &List{elems: make([]Value, 0, n)}
}

// ListOf builds a mutable list from the given elements.
func ListOf(elems ...Value) *List {
	l := NewList(len(elems))
	l.elems = append(l.elems, elems...)
	return l
}

// Append adds v at the end and returns true, mirroring the add protocol of
// the target collection (compiled code discards the result). Appending to a
// frozen list is a contract violation, not a recoverable condition: only
// freshly allocated lists ever reach an append site.
func (l *List) Append(v Value) bool {
	if l.frozen {
		panic("value: append to frozen list")
	}
	l.elems = append(l.elems, v)
	return true
}

// Len returns the number of elements.
func (l *List) Len() int { return len(l.elems) }

// At returns the element at index i.
func (l *List) At(i int) Value { return l.elems[i] }

// Freeze marks the list and all nested lists read-only and returns l.
// Freezing is idempotent.
func (l *List) Freeze() *List {
	if l.frozen {
		return l
	}
	l.frozen = true
	for _, e := range l.elems {
		if nested := e.AsList(); nested != nil {
			nested.Freeze()
		}
	}
	return l
}

// Frozen reports whether the list has been frozen.
func (l *List) Frozen() bool { return l.frozen }

// Equal compares two lists element-wise. A nil list is only equal to
// another nil list.
func (l *List) Equal(other *List) bool {
	if l == nil || other == nil {
		return l == other
	}
	if len(l.elems) != len(other.elems) {
		return false
	}
	for i, e := range l.elems {
		if !e.Equal(other.elems[i]) {
			return false
		}
	}
	return true
}

// String renders the list as "[e1, e2, ...]" for display.
func (l *List) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range l.elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
