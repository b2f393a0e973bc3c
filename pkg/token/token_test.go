package token

import "testing"

func TestLookupIdent(t *testing.T) {
	cases := []struct {
		lexeme string
		want   Type
	}{
		{"let", LET},
		{"fn", FUNCTION},
		{"struct", STRUCT},
		{"this", THIS},
		{"in", IN},
		{"continue", CONTINUE},
		{"letter", IDENT},
		{"Fn", IDENT},
		{"_private", IDENT},
	}
	for _, tc := range cases {
		if got := LookupIdent(tc.lexeme); got != tc.want {
			t.Fatalf("LookupIdent(%q) = %v, want %v", tc.lexeme, got, tc.want)
		}
	}
}

func TestPositionString(t *testing.T) {
	pos := Position{Line: 3, Column: 14}
	if got := pos.String(); got != "3:14" {
		t.Fatalf("Position.String() = %q, want %q", got, "3:14")
	}
}

func TestTypeString(t *testing.T) {
	if got := PERCENT.String(); got != "%" {
		t.Fatalf("PERCENT.String() = %q", got)
	}
	if got := EOF.String(); got != "EOF" {
		t.Fatalf("EOF.String() = %q", got)
	}
}
