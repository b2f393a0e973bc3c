// Package token defines the lexical tokens of the giu language.
package token

import "fmt"

// Type identifies the lexical category of a token.
type Type int

const (
	ILLEGAL Type = iota
	EOF

	// Literals and identifiers.
	IDENT
	INT
	STRING

	// Operators.
	ASSIGN
	PLUS
	MINUS
	ASTERISK
	SLASH
	PERCENT
	BANG
	EQ
	NOT_EQ
	LT
	GT
	LT_EQ
	GT_EQ
	AND
	OR

	// Punctuation.
	COMMA
	SEMICOLON
	COLON
	DOT
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET

	// Keywords.
	LET
	FUNCTION
	STRUCT
	IF
	ELSE
	WHILE
	FOR
	IN
	BREAK
	CONTINUE
	RETURN
	IMPORT
	NULL
	TRUE
	FALSE
	THIS
)

var names = map[Type]string{
	ILLEGAL:   "ILLEGAL",
	EOF:       "EOF",
	IDENT:     "IDENT",
	INT:       "INT",
	STRING:    "STRING",
	ASSIGN:    "=",
	PLUS:      "+",
	MINUS:     "-",
	ASTERISK:  "*",
	SLASH:     "/",
	PERCENT:   "%",
	BANG:      "!",
	EQ:        "==",
	NOT_EQ:    "!=",
	LT:        "<",
	GT:        ">",
	LT_EQ:     "<=",
	GT_EQ:     ">=",
	AND:       "&&",
	OR:        "||",
	COMMA:     ",",
	SEMICOLON: ";",
	COLON:     ":",
	DOT:       ".",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
	LET:       "let",
	FUNCTION:  "fn",
	STRUCT:    "struct",
	IF:        "if",
	ELSE:      "else",
	WHILE:     "while",
	FOR:       "for",
	IN:        "in",
	BREAK:     "break",
	CONTINUE:  "continue",
	RETURN:    "return",
	IMPORT:    "import",
	NULL:      "null",
	TRUE:      "true",
	FALSE:     "false",
	THIS:      "this",
}

func (t Type) String() string {
	if name, ok := names[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Position locates a token in its source file. Lines and columns are
// 1-based.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a lexical unit produced by the lexer.
type Token struct {
	Type    Type
	Literal string
	Pos     Position
}

var keywords = map[string]Type{
	"let":      LET,
	"fn":       FUNCTION,
	"struct":   STRUCT,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"break":    BREAK,
	"continue": CONTINUE,
	"return":   RETURN,
	"import":   IMPORT,
	"null":     NULL,
	"true":     TRUE,
	"false":    FALSE,
	"this":     THIS,
}

// LookupIdent maps an identifier lexeme to its keyword type, or IDENT
// when the lexeme is not reserved.
func LookupIdent(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}
