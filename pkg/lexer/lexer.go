// Package lexer turns giu source text into a stream of positioned tokens.
package lexer

import (
	"fmt"
	"strings"

	"giulio/interpreter-go/pkg/token"
)

// Error is a lexical error carrying the offending source position.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Lexer scans source text one token at a time. A single character of
// lookahead is enough for every token except two-character operators,
// which peek one further.
type Lexer struct {
	source  string
	pos     int // offset of the current character
	readPos int // offset after the current character
	ch      byte
	line    int
	column  int
}

// New returns a lexer positioned at the start of source.
func New(source string) *Lexer {
	l := &Lexer{source: source, line: 1, column: 0}
	l.readChar()
	return l
}

// Tokenize scans the whole input, ending with an EOF token. It stops at
// the first lexical error.
func Tokenize(source string) ([]token.Token, error) {
	l := New(source)
	var tokens []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

// NextToken scans and returns the next token.
func (l *Lexer) NextToken() (token.Token, error) {
	l.skipWhitespaceAndComments()

	pos := token.Position{Line: l.line, Column: l.column}

	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, Literal: "", Pos: pos}, nil
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.EQ, Literal: "==", Pos: pos}, nil
		}
		l.readChar()
		return token.Token{Type: token.ASSIGN, Literal: "=", Pos: pos}, nil
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.NOT_EQ, Literal: "!=", Pos: pos}, nil
		}
		l.readChar()
		return token.Token{Type: token.BANG, Literal: "!", Pos: pos}, nil
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.LT_EQ, Literal: "<=", Pos: pos}, nil
		}
		l.readChar()
		return token.Token{Type: token.LT, Literal: "<", Pos: pos}, nil
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.GT_EQ, Literal: ">=", Pos: pos}, nil
		}
		l.readChar()
		return token.Token{Type: token.GT, Literal: ">", Pos: pos}, nil
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.AND, Literal: "&&", Pos: pos}, nil
		}
		l.readChar()
		return token.Token{}, &Error{Pos: pos, Message: "unexpected character '&'"}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.OR, Literal: "||", Pos: pos}, nil
		}
		l.readChar()
		return token.Token{}, &Error{Pos: pos, Message: "unexpected character '|'"}
	case '+':
		l.readChar()
		return token.Token{Type: token.PLUS, Literal: "+", Pos: pos}, nil
	case '-':
		l.readChar()
		return token.Token{Type: token.MINUS, Literal: "-", Pos: pos}, nil
	case '*':
		l.readChar()
		return token.Token{Type: token.ASTERISK, Literal: "*", Pos: pos}, nil
	case '/':
		l.readChar()
		return token.Token{Type: token.SLASH, Literal: "/", Pos: pos}, nil
	case '%':
		l.readChar()
		return token.Token{Type: token.PERCENT, Literal: "%", Pos: pos}, nil
	case ',':
		l.readChar()
		return token.Token{Type: token.COMMA, Literal: ",", Pos: pos}, nil
	case ';':
		l.readChar()
		return token.Token{Type: token.SEMICOLON, Literal: ";", Pos: pos}, nil
	case ':':
		l.readChar()
		return token.Token{Type: token.COLON, Literal: ":", Pos: pos}, nil
	case '.':
		l.readChar()
		return token.Token{Type: token.DOT, Literal: ".", Pos: pos}, nil
	case '(':
		l.readChar()
		return token.Token{Type: token.LPAREN, Literal: "(", Pos: pos}, nil
	case ')':
		l.readChar()
		return token.Token{Type: token.RPAREN, Literal: ")", Pos: pos}, nil
	case '{':
		l.readChar()
		return token.Token{Type: token.LBRACE, Literal: "{", Pos: pos}, nil
	case '}':
		l.readChar()
		return token.Token{Type: token.RBRACE, Literal: "}", Pos: pos}, nil
	case '[':
		l.readChar()
		return token.Token{Type: token.LBRACKET, Literal: "[", Pos: pos}, nil
	case ']':
		l.readChar()
		return token.Token{Type: token.RBRACKET, Literal: "]", Pos: pos}, nil
	case '"':
		return l.readString(pos)
	}

	if isLetter(l.ch) {
		literal := l.readIdentifier()
		return token.Token{Type: token.LookupIdent(literal), Literal: literal, Pos: pos}, nil
	}
	if isDigit(l.ch) {
		literal := l.readNumber()
		return token.Token{Type: token.INT, Literal: literal, Pos: pos}, nil
	}

	ch := l.ch
	l.readChar()
	return token.Token{}, &Error{Pos: pos, Message: fmt.Sprintf("unexpected character %q", string(ch))}
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPos >= len(l.source) {
		l.ch = 0
	} else {
		l.ch = l.source[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.source) {
		return 0
	}
	return l.source[l.readPos]
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.source[start:l.pos]
}

// readNumber scans a run of decimal digits. Range checking is the
// parser's job: a literal wider than 64 bits is still a valid token.
func (l *Lexer) readNumber() string {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.source[start:l.pos]
}

func (l *Lexer) readString(pos token.Position) (token.Token, error) {
	l.readChar() // opening quote
	var b strings.Builder
	for {
		switch l.ch {
		case '"':
			l.readChar()
			return token.Token{Type: token.STRING, Literal: b.String(), Pos: pos}, nil
		case 0, '\n':
			return token.Token{}, &Error{Pos: pos, Message: "unterminated string literal"}
		case '\\':
			l.readChar()
			switch l.ch {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				escPos := token.Position{Line: l.line, Column: l.column}
				return token.Token{}, &Error{Pos: escPos, Message: fmt.Sprintf("invalid escape sequence '\\%s'", string(l.ch))}
			}
			l.readChar()
		default:
			b.WriteByte(l.ch)
			l.readChar()
		}
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
