// Package value defines the runtime value model shared by the tree-walking
// evaluator and the compiled execution path.
//
// A Value pairs a payload with a Descriptor describing its declared type.
// The descriptor is advisory metadata used by the compiler to decide when a
// result must be boxed before it can be stored in a reference-only
// collection; it is not enforced at runtime.
package value

import (
	"fmt"
	"strconv"
)

// Descriptor identifies the static type a value (or a node's compiled code)
// is declared to produce. DescAny means "unknown, treat as reference".
type Descriptor uint8

const (
	DescAny Descriptor = iota
	DescNull
	DescBool
	DescInt
	DescFloat
	DescString
	DescList
)

// Primitive reports whether the descriptor names an unboxed machine type.
// Primitive results live on the operand stack in raw form and must be boxed
// before they can be appended to a list, which stores references only.
func (d Descriptor) Primitive() bool {
	return d == DescBool || d == DescInt || d == DescFloat
}

func (d Descriptor) String() string {
	switch d {
	case DescNull:
		return "null"
	case DescBool:
		return "bool"
	case DescInt:
		return "int"
	case DescFloat:
		return "float"
	case DescString:
		return "string"
	case DescList:
		return "list"
	default:
		return "any"
	}
}

// Value is an evaluation result together with its declared descriptor.
//
// The payload is one of: nil, bool, int64, float64, string, *List.
// Value itself is a small value type; payloads other than *List are
// immutable, and *List payloads enforce their own freeze discipline.
type Value struct {
	val  any
	desc Descriptor
}

// Constructors. Each tags the payload with its natural descriptor.

func Null() Value {
	return Value{nil, DescNull}
}

func Bool(b bool) Value {
	return Value{b, DescBool}
}

func Int(i int64) Value {
	return Value{i, DescInt}
}

func Float(f float64) Value {
	return Value{f, DescFloat}
}

func Str(s string) Value {
	return Value{s, DescString}
}

func ListVal(l *List) Value {
	return Value{l, DescList}
}

// Of wraps an arbitrary payload, inferring the descriptor from its dynamic
// type. Unknown payload types get DescAny.
func Of(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(x)
	case int64:
		return Int(x)
	case float64:
		return Float(x)
	case string:
		return Str(x)
	case *List:
		return ListVal(x)
	default:
		return Value{v, DescAny}
	}
}

// Raw returns the underlying payload.
func (v Value) Raw() any { return v.val }

// Desc returns the declared descriptor.
func (v Value) Desc() Descriptor { return v.desc }

// IsNull reports whether the payload is absent.
func (v Value) IsNull() bool { return v.val == nil }

// AsList returns the payload as a list, or nil if it is not one.
func (v Value) AsList() *List {
	l, _ := v.val.(*List)
	return l
}

// Equal compares two values by payload. Lists compare element-wise; the
// frozen flag is ignored, so a folded constant compares equal to a freshly
// built list with the same elements.
func (v Value) Equal(other Value) bool {
	if l := v.AsList(); l != nil {
		return l.Equal(other.AsList())
	}
	return v.val == other.val
}

// String renders the value for display. Note that list display uses square
// brackets and ", " separators; this intentionally does not match the
// canonical source form of a list literal, which uses braces.
func (v Value) String() string {
	switch x := v.val.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return strconv.Quote(x)
	case *List:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}
