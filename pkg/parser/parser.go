// Package parser turns a token stream into a syntax tree. Expressions
// are parsed with precedence climbing; the parser stops at the first
// error it encounters.
package parser

import (
	"fmt"

	"giulio/interpreter-go/pkg/ast"
	"giulio/interpreter-go/pkg/lexer"
	"giulio/interpreter-go/pkg/token"
)

// Error is a syntax error with the position it was detected at.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Binding powers, lowest to highest.
const (
	precLowest = iota
	precOr
	precAnd
	precEquals
	precLessGreater
	precSum
	precProduct
	precPrefix
	precCall
	precIndex
)

var precedences = map[token.Type]int{
	token.OR:       precOr,
	token.AND:      precAnd,
	token.EQ:       precEquals,
	token.NOT_EQ:   precEquals,
	token.LT:       precLessGreater,
	token.GT:       precLessGreater,
	token.LT_EQ:    precLessGreater,
	token.GT_EQ:    precLessGreater,
	token.PLUS:     precSum,
	token.MINUS:    precSum,
	token.ASTERISK: precProduct,
	token.SLASH:    precProduct,
	token.PERCENT:  precProduct,
	token.LPAREN:   precCall,
	token.DOT:      precCall,
	token.LBRACKET: precIndex,
}

// Parser consumes a token stream produced by the lexer.
type Parser struct {
	tokens []token.Token
	pos    int

	cur  token.Token
	peek token.Token
}

// New builds a parser over an already-lexed token stream. The stream
// must end with an EOF token, as Tokenize guarantees.
func New(tokens []token.Token) *Parser {
	p := &Parser{tokens: tokens}
	p.cur = p.tokenAt(0)
	p.peek = p.tokenAt(1)
	return p
}

// Parse lexes and parses source in one step.
func Parse(source string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return New(tokens).ParseProgram()
}

// ParseProgram parses the whole token stream as a program.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	program := &ast.Program{}
	for p.cur.Type != token.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		program.Statements = append(program.Statements, stmt)
	}
	return program, nil
}

func (p *Parser) tokenAt(i int) token.Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) advance() {
	p.pos++
	p.cur = p.tokenAt(p.pos)
	p.peek = p.tokenAt(p.pos + 1)
}

// expect consumes the current token if it has the wanted type and
// errors otherwise.
func (p *Parser) expect(t token.Type) (token.Token, error) {
	if p.cur.Type != t {
		return token.Token{}, p.errorf("expected %s, found %s", t, describe(p.cur))
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.cur.Type]; ok {
		return prec
	}
	return precLowest
}

func (p *Parser) errorf(format string, args ...any) error {
	return &Error{Pos: p.cur.Pos, Message: fmt.Sprintf(format, args...)}
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.IDENT, token.INT:
		return tok.Literal
	case token.STRING:
		return fmt.Sprintf("%q", tok.Literal)
	default:
		return fmt.Sprintf("'%s'", tok.Type)
	}
}
