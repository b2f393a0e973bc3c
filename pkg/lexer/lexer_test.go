package lexer

import (
	"testing"

	"giulio/interpreter-go/pkg/token"
)

func TestNextTokenBasics(t *testing.T) {
	input := `let five = 5;
let add = fn(a, b) { a + b };
if (five >= 5 && five != 6) { five = five % 2; }
`
	expected := []struct {
		typ     token.Type
		literal string
	}{
		{token.LET, "let"},
		{token.IDENT, "five"},
		{token.ASSIGN, "="},
		{token.INT, "5"},
		{token.SEMICOLON, ";"},
		{token.LET, "let"},
		{token.IDENT, "add"},
		{token.ASSIGN, "="},
		{token.FUNCTION, "fn"},
		{token.LPAREN, "("},
		{token.IDENT, "a"},
		{token.COMMA, ","},
		{token.IDENT, "b"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.IDENT, "a"},
		{token.PLUS, "+"},
		{token.IDENT, "b"},
		{token.RBRACE, "}"},
		{token.SEMICOLON, ";"},
		{token.IF, "if"},
		{token.LPAREN, "("},
		{token.IDENT, "five"},
		{token.GT_EQ, ">="},
		{token.INT, "5"},
		{token.AND, "&&"},
		{token.IDENT, "five"},
		{token.NOT_EQ, "!="},
		{token.INT, "6"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.IDENT, "five"},
		{token.ASSIGN, "="},
		{token.IDENT, "five"},
		{token.PERCENT, "%"},
		{token.INT, "2"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, want := range expected {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("token %d: unexpected error: %v", i, err)
		}
		if tok.Type != want.typ {
			t.Fatalf("token %d: type = %v, want %v (literal %q)", i, tok.Type, want.typ, tok.Literal)
		}
		if tok.Literal != want.literal {
			t.Fatalf("token %d: literal = %q, want %q", i, tok.Literal, want.literal)
		}
	}
}

func TestPositions(t *testing.T) {
	input := "let x = 1;\n  x = 2;"
	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	// "x" on line 2 sits at column 3 after two spaces.
	var second *token.Token
	for i := range tokens {
		if tokens[i].Pos.Line == 2 && tokens[i].Literal == "x" {
			second = &tokens[i]
			break
		}
	}
	if second == nil {
		t.Fatalf("no x token found on line 2: %v", tokens)
	}
	if second.Pos.Column != 3 {
		t.Fatalf("column = %d, want 3", second.Pos.Column)
	}
}

func TestStringEscapes(t *testing.T) {
	tokens, err := Tokenize(`"a\n\t\"b\\"`)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if tokens[0].Type != token.STRING {
		t.Fatalf("type = %v, want STRING", tokens[0].Type)
	}
	if tokens[0].Literal != "a\n\t\"b\\" {
		t.Fatalf("literal = %q", tokens[0].Literal)
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	tokens, err := Tokenize("// leading\nlet x = 1; // trailing\n// end")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(tokens) != 6 {
		t.Fatalf("got %d tokens, want 6: %v", len(tokens), tokens)
	}
	if tokens[0].Type != token.LET || tokens[0].Pos.Line != 2 {
		t.Fatalf("first token = %+v", tokens[0])
	}
}

func TestHugeIntegerStaysLexable(t *testing.T) {
	tokens, err := Tokenize("99999999999999999999999999;")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if tokens[0].Type != token.INT {
		t.Fatalf("type = %v, want INT", tokens[0].Type)
	}
	if tokens[0].Literal != "99999999999999999999999999" {
		t.Fatalf("literal = %q", tokens[0].Literal)
	}
}

func TestUnterminatedString(t *testing.T) {
	_, err := Tokenize(`let s = "oops`)
	if err == nil {
		t.Fatalf("expected error for unterminated string")
	}
	lexErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if lexErr.Pos.Line != 1 {
		t.Fatalf("error line = %d, want 1", lexErr.Pos.Line)
	}
}

func TestUnexpectedCharacter(t *testing.T) {
	_, err := Tokenize("let a = 1 # 2;")
	if err == nil {
		t.Fatalf("expected error for unexpected character")
	}
	lexErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if lexErr.Pos.Column != 11 {
		t.Fatalf("error column = %d, want 11", lexErr.Pos.Column)
	}
}
