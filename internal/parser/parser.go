// Package parser turns quill expression source into an AST.
//
// The grammar is expressions only — there are no statements — so the whole
// parser is the Pratt core: parsePrefix handles tokens that can begin an
// expression (literals, identifiers, '{' lists, '(' grouping), parseInfix
// extends a finished operand with binary operators, and parsePrecedence
// drives the two by operator precedence.
package parser

import (
	"fmt"
	"strconv"

	"github.com/quill-lang/quill/internal/ast"
	"github.com/quill-lang/quill/internal/lexer"
	"github.com/quill-lang/quill/internal/value"
)

// Parser holds the token cursor. Parsing is single pass with one token of
// lookahead.
type Parser struct {
	lexer    *lexer.Lexer
	current  lexer.Token
	previous lexer.Token
}

// Parse parses a complete expression from source. Trailing tokens after
// the expression are an error: the input is one expression, not a program.
func Parse(source, filename string) (ast.Node, error) {
	p := &Parser{lexer: lexer.New(source, filename)}
	if err := p.advance(); err != nil {
		return nil, err
	}

	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.current.Type != lexer.TokenEOF {
		return nil, p.errorf("unexpected %s after expression", p.current.Type)
	}
	return node, nil
}

func (p *Parser) parseExpression() (ast.Node, error) {
	return p.parsePrecedence(PrecEquality)
}

// parsePrecedence parses an expression whose operators all bind at least as
// tightly as the given level. This is the core Pratt loop.
func (p *Parser) parsePrecedence(precedence Precedence) (ast.Node, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for precedence <= getPrecedence(p.current.Type) {
		left, err = p.parseInfix(left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

// parsePrefix parses a token that can begin an expression.
func (p *Parser) parsePrefix() (ast.Node, error) {
	switch p.current.Type {
	case lexer.TokenInt:
		return p.parseIntLiteral()
	case lexer.TokenFloat:
		return p.parseFloatLiteral()
	case lexer.TokenString:
		return p.parseStringLiteral()
	case lexer.TokenTrue, lexer.TokenFalse:
		return p.parseBoolLiteral()
	case lexer.TokenNull:
		return p.parseNullLiteral()
	case lexer.TokenIdentifier:
		return p.parseIdentifier()
	case lexer.TokenLeftBrace:
		return p.parseListLiteral()
	case lexer.TokenLeftParen:
		return p.parseGrouping()
	case lexer.TokenMinus:
		return p.parseNegation()
	default:
		return nil, p.errorf("expected expression, got %s", p.current.Type)
	}
}

// parseInfix extends left with a binary operator.
func (p *Parser) parseInfix(left ast.Node) (ast.Node, error) {
	operator := p.current
	op, ok := binOpFor(operator.Type)
	if !ok {
		return nil, p.errorf("unexpected %s in expression", operator.Type)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	// Binary operators are left-associative: parse the right side at one
	// level tighter so equal-precedence operators group leftwards.
	right, err := p.parsePrecedence(getPrecedence(operator.Type) + 1)
	if err != nil {
		return nil, err
	}
	return ast.NewBinaryExpr(operator.Position, op, left, right), nil
}

func binOpFor(tokenType lexer.TokenType) (ast.BinOp, bool) {
	switch tokenType {
	case lexer.TokenPlus:
		return ast.OpAdd, true
	case lexer.TokenMinus:
		return ast.OpSub, true
	case lexer.TokenStar:
		return ast.OpMul, true
	case lexer.TokenSlash:
		return ast.OpDiv, true
	case lexer.TokenPercent:
		return ast.OpMod, true
	case lexer.TokenEqual:
		return ast.OpEq, true
	case lexer.TokenNotEqual:
		return ast.OpNe, true
	case lexer.TokenLess:
		return ast.OpLt, true
	case lexer.TokenLessEqual:
		return ast.OpLe, true
	case lexer.TokenGreater:
		return ast.OpGt, true
	case lexer.TokenGreaterEqual:
		return ast.OpGe, true
	default:
		return 0, false
	}
}

// Literal parsing. Lexemes arrive pre-validated from the lexer, so the
// conversions here only fail on range errors.

func (p *Parser) parseIntLiteral() (ast.Node, error) {
	token := p.current
	if err := p.advance(); err != nil {
		return nil, err
	}
	n, err := strconv.ParseInt(token.Lexeme, 10, 64)
	if err != nil {
		return nil, p.errorAt(token, "integer literal out of range")
	}
	return ast.NewLiteral(token.Position, value.Int(n)), nil
}

func (p *Parser) parseFloatLiteral() (ast.Node, error) {
	token := p.current
	if err := p.advance(); err != nil {
		return nil, err
	}
	f, err := strconv.ParseFloat(token.Lexeme, 64)
	if err != nil {
		return nil, p.errorAt(token, "malformed float literal")
	}
	return ast.NewLiteral(token.Position, value.Float(f)), nil
}

func (p *Parser) parseStringLiteral() (ast.Node, error) {
	token := p.current
	if err := p.advance(); err != nil {
		return nil, err
	}
	return ast.NewLiteral(token.Position, value.Str(token.Lexeme)), nil
}

func (p *Parser) parseBoolLiteral() (ast.Node, error) {
	token := p.current
	if err := p.advance(); err != nil {
		return nil, err
	}
	return ast.NewLiteral(token.Position, value.Bool(token.Type == lexer.TokenTrue)), nil
}

func (p *Parser) parseNullLiteral() (ast.Node, error) {
	token := p.current
	if err := p.advance(); err != nil {
		return nil, err
	}
	return ast.NewLiteral(token.Position, value.Null()), nil
}

// parseIdentifier parses a variable reference, or a function call when the
// name is immediately followed by '('.
func (p *Parser) parseIdentifier() (ast.Node, error) {
	token := p.current
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.current.Type != lexer.TokenLeftParen {
		return ast.NewVariableRef(token.Position, token.Lexeme), nil
	}
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}

	args := make([]ast.Node, 0)
	if p.current.Type != lexer.TokenRightParen {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.current.Type != lexer.TokenComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.consume(lexer.TokenRightParen, "expected ')' after arguments"); err != nil {
		return nil, err
	}
	return ast.NewCallExpr(token.Position, token.Lexeme, args), nil
}

// parseListLiteral parses {e1,e2,...}. The empty list {} is legal.
func (p *Parser) parseListLiteral() (ast.Node, error) {
	brace := p.current
	if err := p.advance(); err != nil { // consume '{'
		return nil, err
	}

	elems := make([]ast.Node, 0)
	if p.current.Type != lexer.TokenRightBrace {
		for {
			elem, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
			if p.current.Type != lexer.TokenComma {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
	}
	if err := p.consume(lexer.TokenRightBrace, "expected '}' after list elements"); err != nil {
		return nil, err
	}
	return ast.NewListNode(brace.Position, elems), nil
}

// parseGrouping parses a parenthesized expression. Grouping leaves no node
// behind: precedence is already fixed in the tree shape, and binary nodes
// re-parenthesize themselves in canonical text.
func (p *Parser) parseGrouping() (ast.Node, error) {
	if err := p.advance(); err != nil { // consume '('
		return nil, err
	}
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.consume(lexer.TokenRightParen, "expected ')' after expression"); err != nil {
		return nil, err
	}
	return node, nil
}

// parseNegation parses unary minus. A minus directly before a numeric
// literal folds into the literal, so {-1,2} stays a constant list; anything
// else becomes 0-operand arithmetic.
func (p *Parser) parseNegation() (ast.Node, error) {
	minus := p.current
	if err := p.advance(); err != nil {
		return nil, err
	}

	switch p.current.Type {
	case lexer.TokenInt:
		token := p.current
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt("-"+token.Lexeme, 10, 64)
		if err != nil {
			return nil, p.errorAt(token, "integer literal out of range")
		}
		return ast.NewLiteral(minus.Position, value.Int(n)), nil
	case lexer.TokenFloat:
		token := p.current
		if err := p.advance(); err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(token.Lexeme, 64)
		if err != nil {
			return nil, p.errorAt(token, "malformed float literal")
		}
		return ast.NewLiteral(minus.Position, value.Float(-f)), nil
	}

	operand, err := p.parsePrecedence(PrecPrimary)
	if err != nil {
		return nil, err
	}
	zero := ast.NewLiteral(minus.Position, value.Int(0))
	return ast.NewBinaryExpr(minus.Position, ast.OpSub, zero, operand), nil
}

// Cursor helpers.

func (p *Parser) advance() error {
	p.previous = p.current
	token, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.current = token
	return nil
}

func (p *Parser) consume(tokenType lexer.TokenType, message string) error {
	if p.current.Type != tokenType {
		return p.errorf("%s, got %s", message, p.current.Type)
	}
	return p.advance()
}

func (p *Parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%s: %s", p.current.Position.String(), fmt.Sprintf(format, args...))
}

func (p *Parser) errorAt(token lexer.Token, message string) error {
	return fmt.Errorf("%s: %s", token.Position.String(), message)
}
