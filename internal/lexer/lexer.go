package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Lexer scans expression source into tokens.
//
// The whole source is held in memory: expressions are short, lookahead
// becomes trivial, and positions can always be recomputed from offsets.
type Lexer struct {
	source   string
	filename string

	// start is the byte offset of the token currently being scanned;
	// current is the byte offset being examined.
	start   int
	current int

	// line and lineStart track the current line so columns can be derived
	// on demand as current - lineStart, counted in runes.
	line      int
	lineStart int
}

// New creates a Lexer for the given source. The filename is only used in
// positions and may be synthetic (for example "<expr>").
func New(source, filename string) *Lexer {
	return &Lexer{
		source:   source,
		filename: filename,
		line:     1,
	}
}

// NextToken returns the next token. Lexical errors are reported both as an
// error and as a TokenInvalid token so the caller can keep its position.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()
	l.start = l.current

	if l.isAtEnd() {
		return l.makeToken(TokenEOF, ""), nil
	}

	ch, _ := l.advance()

	switch {
	case isLetter(ch):
		return l.scanIdentifier(), nil
	case isDigit(ch):
		return l.scanNumber()
	}

	switch ch {
	case '"':
		return l.scanString()
	case '{':
		return l.makeToken(TokenLeftBrace, "{"), nil
	case '}':
		return l.makeToken(TokenRightBrace, "}"), nil
	case '(':
		return l.makeToken(TokenLeftParen, "("), nil
	case ')':
		return l.makeToken(TokenRightParen, ")"), nil
	case ',':
		return l.makeToken(TokenComma, ","), nil
	case '+':
		return l.makeToken(TokenPlus, "+"), nil
	case '-':
		return l.makeToken(TokenMinus, "-"), nil
	case '*':
		return l.makeToken(TokenStar, "*"), nil
	case '/':
		return l.makeToken(TokenSlash, "/"), nil
	case '%':
		return l.makeToken(TokenPercent, "%"), nil
	case '=':
		if l.match('=') {
			return l.makeToken(TokenEqual, "=="), nil
		}
		return l.makeToken(TokenAssign, "="), nil
	case '!':
		if l.match('=') {
			return l.makeToken(TokenNotEqual, "!="), nil
		}
		return l.makeToken(TokenInvalid, "!"), l.error("unexpected character '!'")
	case '<':
		if l.match('=') {
			return l.makeToken(TokenLessEqual, "<="), nil
		}
		return l.makeToken(TokenLess, "<"), nil
	case '>':
		if l.match('=') {
			return l.makeToken(TokenGreaterEqual, ">="), nil
		}
		return l.makeToken(TokenGreater, ">"), nil
	}

	return l.makeToken(TokenInvalid, string(ch)), l.error(fmt.Sprintf("unexpected character %q", ch))
}

// scanIdentifier scans an identifier or keyword literal. The first letter
// has already been consumed.
func (l *Lexer) scanIdentifier() Token {
	for isLetter(l.peek()) || isDigit(l.peek()) {
		l.advance()
	}

	lexeme := l.source[l.start:l.current]
	switch lexeme {
	case "true":
		return l.makeToken(TokenTrue, lexeme)
	case "false":
		return l.makeToken(TokenFalse, lexeme)
	case "null":
		return l.makeToken(TokenNull, lexeme)
	}
	return l.makeToken(TokenIdentifier, lexeme)
}

// scanNumber scans an integer or float literal. The first digit has already
// been consumed. A '.' followed by a digit switches to a float; the lexeme
// keeps the raw text and the parser converts it.
func (l *Lexer) scanNumber() (Token, error) {
	for isDigit(l.peek()) {
		l.advance()
	}

	isFloat := false
	if l.peek() == '.' && isDigit(l.peekNext()) {
		isFloat = true
		l.advance() // consume '.'
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	// Exponent part: 1e9, 2.5e-3
	if l.peek() == 'e' || l.peek() == 'E' {
		next := l.peekNext()
		if isDigit(next) || next == '+' || next == '-' {
			isFloat = true
			l.advance() // consume 'e'
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			if !isDigit(l.peek()) {
				return l.makeToken(TokenInvalid, l.source[l.start:l.current]),
					l.error("malformed exponent in number literal")
			}
			for isDigit(l.peek()) {
				l.advance()
			}
		}
	}

	lexeme := l.source[l.start:l.current]
	if isFloat {
		return l.makeToken(TokenFloat, lexeme), nil
	}
	return l.makeToken(TokenInt, lexeme), nil
}

// scanString scans a double-quoted string literal. The opening quote has
// already been consumed. The returned lexeme is the decoded content, not
// the raw source; canonical rendering re-quotes it.
func (l *Lexer) scanString() (Token, error) {
	var decoded []byte
	for {
		if l.isAtEnd() {
			return l.makeToken(TokenInvalid, string(decoded)), l.error("unterminated string literal")
		}
		ch, _ := l.advance()
		switch ch {
		case '"':
			return l.makeToken(TokenString, string(decoded)), nil
		case '\n':
			return l.makeToken(TokenInvalid, string(decoded)), l.error("newline in string literal")
		case '\\':
			if l.isAtEnd() {
				return l.makeToken(TokenInvalid, string(decoded)), l.error("unterminated string literal")
			}
			esc, _ := l.advance()
			switch esc {
			case '"':
				decoded = append(decoded, '"')
			case '\\':
				decoded = append(decoded, '\\')
			case 'n':
				decoded = append(decoded, '\n')
			case 't':
				decoded = append(decoded, '\t')
			case 'r':
				decoded = append(decoded, '\r')
			default:
				return l.makeToken(TokenInvalid, string(decoded)),
					l.error(fmt.Sprintf("unknown escape sequence '\\%c'", esc))
			}
		default:
			decoded = utf8.AppendRune(decoded, ch)
		}
	}
}

// skipWhitespace advances past spaces, tabs and newlines, updating line
// tracking as it goes. The expression grammar has no comments.
func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		switch l.peek() {
		case ' ', '\t', '\r':
			l.advance()
		case '\n':
			l.advance()
			l.line++
			l.lineStart = l.current
		default:
			return
		}
	}
}

// advance consumes and returns the next rune.
func (l *Lexer) advance() (rune, int) {
	ch, size := utf8.DecodeRuneInString(l.source[l.current:])
	l.current += size
	return ch, size
}

// peek returns the next rune without consuming it, or 0 at end of input.
func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(l.source[l.current:])
	return ch
}

// peekNext returns the rune after the next one, or 0 if there is none.
func (l *Lexer) peekNext() rune {
	if l.isAtEnd() {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.source[l.current:])
	if l.current+size >= len(l.source) {
		return 0
	}
	ch, _ := utf8.DecodeRuneInString(l.source[l.current+size:])
	return ch
}

// match consumes the next rune if it equals expected.
func (l *Lexer) match(expected rune) bool {
	if l.peek() != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// makeToken builds a token whose position points at the token start.
func (l *Lexer) makeToken(tokenType TokenType, lexeme string) Token {
	return Token{
		Type:     tokenType,
		Lexeme:   lexeme,
		Position: l.startPosition(),
	}
}

// startPosition computes the position of the current token's first byte.
func (l *Lexer) startPosition() Position {
	return Position{
		Filename: l.filename,
		Line:     l.line,
		Column:   utf8.RuneCountInString(l.source[l.lineStart:l.start]) + 1,
		Offset:   l.start,
	}
}

func (l *Lexer) error(message string) error {
	return fmt.Errorf("%s: %s", l.startPosition().String(), message)
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
