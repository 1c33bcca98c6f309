package value

import "testing"

func TestDescriptorPrimitive(t *testing.T) {
	tests := []struct {
		desc      Descriptor
		primitive bool
	}{
		{DescInt, true},
		{DescFloat, true},
		{DescBool, true},
		{DescAny, false},
		{DescNull, false},
		{DescString, false},
		{DescList, false},
	}

	for _, tt := range tests {
		if got := tt.desc.Primitive(); got != tt.primitive {
			t.Errorf("%s.Primitive() = %v, want %v", tt.desc, got, tt.primitive)
		}
	}
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name  string
		left  Value
		right Value
		equal bool
	}{
		{"ints", Int(3), Int(3), true},
		{"different ints", Int(3), Int(4), false},
		{"strings", Str("a"), Str("a"), true},
		{"nulls", Null(), Null(), true},
		{"bool vs int", Bool(true), Int(1), false},
		{"lists elementwise", ListVal(ListOf(Int(1), Int(2))), ListVal(ListOf(Int(1), Int(2))), true},
		{"lists different length", ListVal(ListOf(Int(1))), ListVal(ListOf(Int(1), Int(2))), false},
		{"nested lists", ListVal(ListOf(Int(1), ListVal(ListOf(Int(2))))), ListVal(ListOf(Int(1), ListVal(ListOf(Int(2))))), true},
		{"list vs scalar", ListVal(ListOf(Int(1))), Int(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.left.Equal(tt.right); got != tt.equal {
				t.Errorf("Equal = %v, want %v", got, tt.equal)
			}
		})
	}
}

func TestFrozenListComparesEqualToMutable(t *testing.T) {
	frozen := ListOf(Int(1), Int(2)).Freeze()
	mutable := ListOf(Int(1), Int(2))

	if !frozen.Equal(mutable) {
		t.Error("frozen flag must not affect equality")
	}
}

func TestListAppend(t *testing.T) {
	l := NewList(0)
	if !l.Append(Int(1)) {
		t.Error("Append should report true")
	}
	l.Append(Int(2))

	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2", l.Len())
	}
	if !l.At(1).Equal(Int(2)) {
		t.Errorf("At(1) = %s, want 2", l.At(1))
	}
}

func TestFreezeIsDeep(t *testing.T) {
	inner := ListOf(Int(2), Int(3))
	outer := ListOf(Int(1), ListVal(inner))

	outer.Freeze()

	if !outer.Frozen() {
		t.Error("outer list should be frozen")
	}
	if !inner.Frozen() {
		t.Error("nested list should be frozen too")
	}
}

func TestAppendToFrozenListPanics(t *testing.T) {
	l := ListOf(Int(1)).Freeze()

	defer func() {
		if recover() == nil {
			t.Error("append to a frozen list should panic")
		}
	}()
	l.Append(Int(2))
}

func TestListDisplayUsesBrackets(t *testing.T) {
	// Display form is square brackets with spaces; canonical source form of
	// a literal is braces without spaces. They must not be confusable.
	l := ListOf(Int(1), ListVal(ListOf(Int(2), Int(3))))

	if got, want := l.String(), "[1, [2, 3]]"; got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		val  Value
		want string
	}{
		{Null(), "null"},
		{Bool(true), "true"},
		{Int(-7), "-7"},
		{Float(2.5), "2.5"},
		{Str("hi"), `"hi"`},
		{ListVal(ListOf()), "[]"},
	}

	for _, tt := range tests {
		if got := tt.val.String(); got != tt.want {
			t.Errorf("String = %q, want %q", got, tt.want)
		}
	}
}

func TestOfInfersDescriptor(t *testing.T) {
	tests := []struct {
		payload any
		want    Descriptor
	}{
		{nil, DescNull},
		{true, DescBool},
		{int64(1), DescInt},
		{1.5, DescFloat},
		{"s", DescString},
		{NewList(0), DescList},
	}

	for _, tt := range tests {
		if got := Of(tt.payload).Desc(); got != tt.want {
			t.Errorf("Of(%v).Desc() = %s, want %s", tt.payload, got, tt.want)
		}
	}
}
