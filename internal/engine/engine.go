// Package engine is the front door of the expression language: it parses
// source into a tree and evaluates it, transparently switching from the
// tree-walking interpreter to compiled machine code once an expression
// proves hot.
package engine

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/parser"
	"github.com/quill-lang/quill/internal/value"
	"github.com/quill-lang/quill/internal/vm"
)

// ErrNotCompilable is returned by an explicit Compile of an expression that
// contains non-compilable nodes (for example a function call).
var ErrNotCompilable = errors.New("engine: expression is not compilable")

// Expression is a parsed expression ready for repeated evaluation.
//
// The tree is immutable, so one Expression may be evaluated concurrently as
// long as each goroutine brings its own context. Compilation happens at
// most once, under a lock; after that every evaluation runs the program.
type Expression struct {
	src  string
	root ast.Node
	cfg  Config

	hits      atomic.Int32
	prog      atomic.Pointer[vm.Program]
	compileMu sync.Mutex
}

// Parse parses source with the default configuration.
func Parse(source string) (*Expression, error) {
	return ParseWithConfig(source, DefaultConfig())
}

// ParseWithConfig parses source under cfg. In immediate mode a compilable
// expression is compiled before this returns.
func ParseWithConfig(source string, cfg Config) (*Expression, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	root, err := parser.Parse(source, "<expr>")
	if err != nil {
		return nil, err
	}

	e := &Expression{src: source, root: root, cfg: cfg}
	if cfg.Mode == ModeImmediate && root.IsCompilable() {
		e.compile()
	}
	return e, nil
}

// Root exposes the expression tree.
func (e *Expression) Root() ast.Node { return e.root }

// Source returns the original source text.
func (e *Expression) Source() string { return e.src }

// String returns the canonical text of the parsed tree.
func (e *Expression) String() string { return e.root.String() }

// IsCompiled reports whether evaluations currently run compiled code.
func (e *Expression) IsCompiled() bool { return e.prog.Load() != nil }

// Eval evaluates the expression against ctx. In mixed mode the expression
// is interpreted until it reaches the compile threshold; evaluations after
// the switch execute the compiled program against the same context.
func (e *Expression) Eval(ctx *ast.EvalContext) (value.Value, error) {
	if p := e.prog.Load(); p != nil {
		return vm.NewMachine().Run(p, ctx)
	}

	out, err := e.root.Eval(ctx)
	if err != nil {
		return value.Value{}, err
	}

	if e.cfg.Mode == ModeMixed && e.hits.Add(1) >= int32(e.cfg.CompileThreshold) && e.root.IsCompilable() {
		e.compile()
	}
	return out, nil
}

// Compile compiles the expression now, regardless of mode or hit count.
func (e *Expression) Compile() error {
	if !e.root.IsCompilable() {
		return ErrNotCompilable
	}
	e.compile()
	return nil
}

// Program returns the compiled program, or nil before compilation.
func (e *Expression) Program() *vm.Program { return e.prog.Load() }

// compile emits the tree once. Emission mutates shared code-generation
// state (descriptor stack, scope counter), so it runs under a lock and the
// result is published atomically; callers racing past the threshold all
// end up with the same program.
func (e *Expression) compile() {
	e.compileMu.Lock()
	defer e.compileMu.Unlock()
	if e.prog.Load() != nil {
		return
	}

	flow := vm.NewFlow()
	e.root.Emit(flow)
	e.prog.Store(flow.Finish())
}
