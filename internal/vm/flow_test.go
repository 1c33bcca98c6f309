package vm

import (
	"testing"

	"github.com/quill-lang/quill/internal/value"
)

func TestFlowScopeSlots(t *testing.T) {
	flow := NewFlow()

	if got := flow.ScopeSlot(); got != 0 {
		t.Errorf("root slot = %d, want 0", got)
	}

	flow.EnterScope()
	if got := flow.ScopeSlot(); got != 1 {
		t.Errorf("nested slot = %d, want 1", got)
	}
	flow.EnterScope()
	if got := flow.ScopeSlot(); got != 2 {
		t.Errorf("doubly nested slot = %d, want 2", got)
	}
	flow.ExitScope()

	// Re-entering at the same depth reuses the slot; the lifetimes cannot
	// overlap.
	flow.EnterScope()
	if got := flow.ScopeSlot(); got != 2 {
		t.Errorf("sibling scope slot = %d, want 2", got)
	}
	flow.ExitScope()
	flow.ExitScope()

	if p := flow.Finish(); p.NumLocals != 3 {
		t.Errorf("NumLocals = %d, want 3", p.NumLocals)
	}
}

func TestFlowDescriptorsAreScoped(t *testing.T) {
	flow := NewFlow()
	flow.PushDescriptor(value.DescList)

	flow.EnterScope()
	if got := flow.LastDescriptor(); got != value.DescAny {
		t.Errorf("fresh scope should report any, got %s", got)
	}
	flow.PushDescriptor(value.DescInt)
	if got := flow.LastDescriptor(); got != value.DescInt {
		t.Errorf("LastDescriptor = %s, want int", got)
	}
	flow.ExitScope()

	// The child's descriptors are gone; the parent's remain.
	if got := flow.LastDescriptor(); got != value.DescList {
		t.Errorf("after exit LastDescriptor = %s, want list", got)
	}
}

func TestBoxIfNeeded(t *testing.T) {
	tests := []struct {
		desc  value.Descriptor
		boxes bool
	}{
		{value.DescInt, true},
		{value.DescFloat, true},
		{value.DescBool, true},
		{value.DescAny, false},
		{value.DescString, false},
		{value.DescList, false},
		{value.DescNull, false},
	}

	for _, tt := range tests {
		flow := NewFlow()
		flow.PushDescriptor(tt.desc)
		flow.BoxIfNeeded()

		p := flow.Finish()
		boxed := len(p.Code) == 1 && p.Code[0].Op == OpBox
		if boxed != tt.boxes {
			t.Errorf("%s: boxed = %v, want %v", tt.desc, boxed, tt.boxes)
		}
		if tt.boxes {
			if got := flow.LastDescriptor(); got != value.DescAny {
				t.Errorf("%s: descriptor after boxing = %s, want any", tt.desc, got)
			}
		}
	}
}

func TestFlowPanicsOnScopeMisuse(t *testing.T) {
	t.Run("exit without enter", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("ExitScope at root should panic")
			}
		}()
		NewFlow().ExitScope()
	})

	t.Run("finish with open scope", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("Finish with an open scope should panic")
			}
		}()
		flow := NewFlow()
		flow.EnterScope()
		flow.Finish()
	})
}
