package parser

import "github.com/quill-lang/quill/internal/lexer"

// Precedence levels for the expression grammar, lowest first. The Pratt
// loop keeps consuming infix operators while their precedence is at least
// the level it was asked to parse.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecEquality   // ==, !=
	PrecComparison // <, <=, >, >=
	PrecTerm       // +, -
	PrecFactor     // *, /, %
	PrecPrimary    // literals, identifiers, grouping, lists, calls
)

// getPrecedence returns the infix precedence of a token, or PrecNone for
// tokens that cannot continue an expression.
func getPrecedence(tokenType lexer.TokenType) Precedence {
	switch tokenType {
	case lexer.TokenEqual, lexer.TokenNotEqual:
		return PrecEquality
	case lexer.TokenLess, lexer.TokenLessEqual,
		lexer.TokenGreater, lexer.TokenGreaterEqual:
		return PrecComparison
	case lexer.TokenPlus, lexer.TokenMinus:
		return PrecTerm
	case lexer.TokenStar, lexer.TokenSlash, lexer.TokenPercent:
		return PrecFactor
	default:
		return PrecNone
	}
}
