package lexer

// TokenType identifies the lexical class of a token. An int-based enum keeps
// comparisons cheap and lets the parser switch directly on the type.
type TokenType int

const (
	// TokenEOF marks the end of input. Using a token rather than an error
	// keeps the parser loop free of end-of-input special cases and gives
	// "unexpected end of expression" errors a position.
	TokenEOF TokenType = iota

	// TokenInvalid represents a lexical error; the details are in Lexeme.
	TokenInvalid

	// Literals. Integer and float literals are distinct token types because
	// the value model distinguishes them: 1 and 1.0 are different values.
	TokenInt
	TokenFloat
	TokenString

	// Keyword literals.
	TokenTrue
	TokenFalse
	TokenNull

	// TokenIdentifier is a variable or function name.
	TokenIdentifier

	// Arithmetic operators.
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent

	// Comparison operators.
	TokenEqual
	TokenNotEqual
	TokenLess
	TokenLessEqual
	TokenGreater
	TokenGreaterEqual

	// TokenAssign is a bare '='. The expression grammar itself has no
	// assignment; the token exists so that "=" lexes cleanly and the parser
	// can report a precise error instead of an invalid-character one.
	TokenAssign

	// Delimiters. Braces delimit inline list literals.
	TokenLeftBrace
	TokenRightBrace
	TokenLeftParen
	TokenRightParen
	TokenComma
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "end of expression"
	case TokenInvalid:
		return "invalid token"
	case TokenInt:
		return "integer literal"
	case TokenFloat:
		return "float literal"
	case TokenString:
		return "string literal"
	case TokenTrue:
		return "'true'"
	case TokenFalse:
		return "'false'"
	case TokenNull:
		return "'null'"
	case TokenIdentifier:
		return "identifier"
	case TokenPlus:
		return "'+'"
	case TokenMinus:
		return "'-'"
	case TokenStar:
		return "'*'"
	case TokenSlash:
		return "'/'"
	case TokenPercent:
		return "'%'"
	case TokenEqual:
		return "'=='"
	case TokenNotEqual:
		return "'!='"
	case TokenLess:
		return "'<'"
	case TokenLessEqual:
		return "'<='"
	case TokenGreater:
		return "'>'"
	case TokenGreaterEqual:
		return "'>='"
	case TokenAssign:
		return "'='"
	case TokenLeftBrace:
		return "'{'"
	case TokenRightBrace:
		return "'}'"
	case TokenLeftParen:
		return "'('"
	case TokenRightParen:
		return "')'"
	case TokenComma:
		return "','"
	default:
		return "unknown token"
	}
}

// Token is a single lexical unit with its source location.
type Token struct {
	Type     TokenType
	Lexeme   string
	Position Position
}
