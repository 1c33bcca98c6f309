// Package ast defines the expression tree evaluated and compiled by the
// engine.
//
// Every expression construct is a node struct behind the single Node
// interface. A node is built once by the parser, is structurally immutable
// afterwards, and may then be evaluated or compiled any number of times.
// Because trees never change after construction, concurrent interpreted
// evaluation of one tree is safe as long as each goroutine supplies its own
// EvalContext; the only shared state a node carries is its read-only folded
// constant.
//
// Operations on expressions dispatch through the interface methods directly
// rather than through a visitor: the set of node kinds is closed, and each
// kind owns all three of its behaviors (interpret, analyze, emit), which
// must stay consistent with each other.
package ast

import (
	"fmt"

	"github.com/quill-lang/quill/internal/lexer"
	"github.com/quill-lang/quill/internal/value"
	"github.com/quill-lang/quill/internal/vm"
)

// Node is the contract every expression construct implements.
type Node interface {
	// Pos returns the node's position in the source, for diagnostics.
	Pos() lexer.Position

	// Children returns the node's ordered children. The returned slice is
	// owned by the node and must not be modified.
	Children() []Node

	// Eval evaluates the node against ctx and returns its value. Child
	// evaluation proceeds strictly left to right; the first child error
	// aborts the node and propagates unchanged.
	Eval(ctx *EvalContext) (value.Value, error)

	// IsConstant reports whether the node produces the same value on every
	// evaluation with no side effects. Decided once at construction.
	IsConstant() bool

	// IsCompilable reports whether Emit can produce machine code whose
	// execution is equivalent to Eval.
	IsCompilable() bool

	// Emit appends the node's code to flow and records the node's exit
	// descriptor via flow.PushDescriptor. Calling Emit when IsCompilable is
	// false means the compile/interpret dispatch above this node is broken;
	// implementations panic rather than return an error.
	Emit(flow *vm.Flow)

	// ExitDescriptor is the static type the node's compiled code leaves on
	// the operand stack, or value.DescAny when not statically known.
	ExitDescriptor() value.Descriptor

	// String returns canonical source text that re-parses to an equivalent
	// node.
	String() string
}

// EvalError is the typed failure signal for interpreted evaluation:
// unresolved names, type mismatches, division by zero. Aggregate nodes do
// not catch or translate it; it propagates from the failing child to the
// expression root.
type EvalError struct {
	Pos     lexer.Position
	Message string
}

func (e *EvalError) Error() string {
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + e.Message
	}
	return e.Message
}

// evalErrorf is a shorthand used by node implementations.
func evalErrorf(pos lexer.Position, format string, args ...any) *EvalError {
	return &EvalError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}
