// Package lexer provides lexical analysis for quill expression source.
// It turns raw expression text into a stream of tokens for the parser.
package lexer

import "strconv"

// Position is a location in expression source.
//
// Positions travel with every token and every AST node so that evaluation
// and parse errors can point at the exact offending spot. Line and Column
// are 1-based to match how editors display locations; Offset is the 0-based
// byte offset, which is what code indexes by.
type Position struct {
	// Filename is the name of the source, or a synthetic name such as
	// "<expr>" for strings handed to the engine directly.
	Filename string

	// Line is the 1-based line number.
	Line int

	// Column is the 1-based column, counted in runes rather than bytes so
	// that multi-byte source still reports sensible columns.
	Column int

	// Offset is the 0-based byte offset from the start of the source.
	Offset int
}

// String renders the position in the conventional file:line:column form.
func (p Position) String() string {
	return p.Filename + ":" + strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// IsValid reports whether the position carries real location information.
// The zero Position is invalid.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Before reports whether p precedes other in the source. Offset is the
// source of truth; line and column are derived from it.
func (p Position) Before(other Position) bool {
	return p.Offset < other.Offset
}
