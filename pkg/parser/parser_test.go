package parser

import (
	"testing"

	"giulio/interpreter-go/pkg/ast"
	"giulio/interpreter-go/pkg/token"
)

func parseProgram(t *testing.T, source string) *ast.Program {
	t.Helper()
	program, err := Parse(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return program
}

func singleExpression(t *testing.T, source string) ast.Expression {
	t.Helper()
	program := parseProgram(t, source)
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}
	stmt, ok := program.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected expression statement, got %T", program.Statements[0])
	}
	return stmt.Expr
}

func TestLetStatement(t *testing.T) {
	program := parseProgram(t, "let answer = 42;")
	stmt, ok := program.Statements[0].(*ast.LetStatement)
	if !ok {
		t.Fatalf("expected let statement, got %T", program.Statements[0])
	}
	if stmt.Name != "answer" {
		t.Fatalf("expected name answer, got %q", stmt.Name)
	}
	lit, ok := stmt.Value.(*ast.IntegerLiteral)
	if !ok || lit.Value != 42 {
		t.Fatalf("expected integer literal 42, got %#v", stmt.Value)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	// 1 + 2 * 3 groups the product under the sum.
	expr := singleExpression(t, "1 + 2 * 3;")
	sum, ok := expr.(*ast.InfixExpression)
	if !ok || sum.Operator != token.PLUS {
		t.Fatalf("expected top-level +, got %#v", expr)
	}
	product, ok := sum.Right.(*ast.InfixExpression)
	if !ok || product.Operator != token.ASTERISK {
		t.Fatalf("expected * on the right, got %#v", sum.Right)
	}
}

func TestComparisonBindsTighterThanLogical(t *testing.T) {
	expr := singleExpression(t, "a < b && c == d;")
	and, ok := expr.(*ast.InfixExpression)
	if !ok || and.Operator != token.AND {
		t.Fatalf("expected top-level &&, got %#v", expr)
	}
	if lt, ok := and.Left.(*ast.InfixExpression); !ok || lt.Operator != token.LT {
		t.Fatalf("expected < on the left, got %#v", and.Left)
	}
	if eq, ok := and.Right.(*ast.InfixExpression); !ok || eq.Operator != token.EQ {
		t.Fatalf("expected == on the right, got %#v", and.Right)
	}
}

func TestPrefixBindsTighterThanProduct(t *testing.T) {
	expr := singleExpression(t, "-a * b;")
	product, ok := expr.(*ast.InfixExpression)
	if !ok || product.Operator != token.ASTERISK {
		t.Fatalf("expected top-level *, got %#v", expr)
	}
	if _, ok := product.Left.(*ast.PrefixExpression); !ok {
		t.Fatalf("expected prefix on the left, got %#v", product.Left)
	}
}

func TestPrefixCoversCall(t *testing.T) {
	expr := singleExpression(t, "-f(x);")
	prefix, ok := expr.(*ast.PrefixExpression)
	if !ok || prefix.Operator != token.MINUS {
		t.Fatalf("expected top-level prefix -, got %#v", expr)
	}
	if _, ok := prefix.Right.(*ast.CallExpression); !ok {
		t.Fatalf("expected call under the prefix, got %#v", prefix.Right)
	}
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	expr := singleExpression(t, "(1 + 2) * 3;")
	product, ok := expr.(*ast.InfixExpression)
	if !ok || product.Operator != token.ASTERISK {
		t.Fatalf("expected top-level *, got %#v", expr)
	}
	if sum, ok := product.Left.(*ast.InfixExpression); !ok || sum.Operator != token.PLUS {
		t.Fatalf("expected + on the left, got %#v", product.Left)
	}
}

func TestCallMemberIndexChain(t *testing.T) {
	expr := singleExpression(t, "obj.items[0].name();")
	call, ok := expr.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expected call, got %#v", expr)
	}
	member, ok := call.Callee.(*ast.MemberExpression)
	if !ok || member.Field != "name" {
		t.Fatalf("expected member access .name, got %#v", call.Callee)
	}
	index, ok := member.Object.(*ast.IndexExpression)
	if !ok {
		t.Fatalf("expected index under the member, got %#v", member.Object)
	}
	inner, ok := index.Target.(*ast.MemberExpression)
	if !ok || inner.Field != "items" {
		t.Fatalf("expected member access .items, got %#v", index.Target)
	}
}

func TestBigIntegerLiteral(t *testing.T) {
	expr := singleExpression(t, "99999999999999999999999999;")
	lit, ok := expr.(*ast.BigIntegerLiteral)
	if !ok {
		t.Fatalf("expected wide integer literal, got %#v", expr)
	}
	if lit.Value.String() != "99999999999999999999999999" {
		t.Fatalf("wrong literal value: %s", lit.Value)
	}
}

func TestAssignmentForms(t *testing.T) {
	program := parseProgram(t, `
		x = 1;
		p.name = "Ada";
		arr[0] = 2;
	`)
	if len(program.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(program.Statements))
	}
	if _, ok := program.Statements[0].(*ast.AssignStatement); !ok {
		t.Fatalf("expected variable assignment, got %T", program.Statements[0])
	}
	member, ok := program.Statements[1].(*ast.MemberAssignStatement)
	if !ok || member.Field != "name" {
		t.Fatalf("expected member assignment, got %#v", program.Statements[1])
	}
	if _, ok := program.Statements[2].(*ast.IndexAssignStatement); !ok {
		t.Fatalf("expected index assignment, got %T", program.Statements[2])
	}
}

func TestInvalidAssignmentTarget(t *testing.T) {
	if _, err := Parse("1 + 2 = 3;"); err == nil {
		t.Fatal("expected an error for a non-assignable target")
	}
}

func TestFunctionStatementAndLiteral(t *testing.T) {
	program := parseProgram(t, `
		fn add(a, b) { return a + b; }
		let double = fn(x) { return x * 2; };
	`)
	named, ok := program.Statements[0].(*ast.FunctionStatement)
	if !ok {
		t.Fatalf("expected function statement, got %T", program.Statements[0])
	}
	if named.Name != "add" || len(named.Params) != 2 {
		t.Fatalf("unexpected function header: %#v", named)
	}
	let, ok := program.Statements[1].(*ast.LetStatement)
	if !ok {
		t.Fatalf("expected let statement, got %T", program.Statements[1])
	}
	if _, ok := let.Value.(*ast.FunctionLiteral); !ok {
		t.Fatalf("expected function literal, got %T", let.Value)
	}
}

func TestStructStatementSplitsFieldsAndMethods(t *testing.T) {
	program := parseProgram(t, `
		struct Person {
			name: "unknown",
			age: 0,
			greet: fn() { return "hi"; }
		}
	`)
	stmt, ok := program.Statements[0].(*ast.StructStatement)
	if !ok {
		t.Fatalf("expected struct statement, got %T", program.Statements[0])
	}
	if len(stmt.Fields) != 2 || stmt.Fields[0].Name != "name" || stmt.Fields[1].Name != "age" {
		t.Fatalf("unexpected fields: %#v", stmt.Fields)
	}
	if len(stmt.Methods) != 1 || stmt.Methods[0].Name != "greet" {
		t.Fatalf("unexpected methods: %#v", stmt.Methods)
	}
}

func TestStructLiteral(t *testing.T) {
	expr := singleExpression(t, `Person { name: "Ada" };`)
	lit, ok := expr.(*ast.StructLiteral)
	if !ok {
		t.Fatalf("expected struct literal, got %#v", expr)
	}
	if lit.Name != "Person" || len(lit.Fields) != 1 || lit.Fields[0].Name != "name" {
		t.Fatalf("unexpected struct literal: %#v", lit)
	}
}

func TestIfElseChain(t *testing.T) {
	expr := singleExpression(t, "if (a) { 1; } else if (b) { 2; } else { 3; }")
	ifExpr, ok := expr.(*ast.IfExpression)
	if !ok {
		t.Fatalf("expected if expression, got %#v", expr)
	}
	if ifExpr.Alternative == nil || len(ifExpr.Alternative.Statements) != 1 {
		t.Fatalf("expected a single-statement alternative, got %#v", ifExpr.Alternative)
	}
	nested, ok := ifExpr.Alternative.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected nested expression statement, got %T", ifExpr.Alternative.Statements[0])
	}
	if _, ok := nested.Expr.(*ast.IfExpression); !ok {
		t.Fatalf("expected nested if, got %#v", nested.Expr)
	}
}

func TestForVariants(t *testing.T) {
	program := parseProgram(t, `
		for (x in items) { print(x); }
		for (let i = 0; i < 10; i = i + 1) { print(i); }
		for (i = 0; i < 10; i = i + 1) { print(i); }
	`)
	if len(program.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(program.Statements))
	}
	first := program.Statements[0].(*ast.ExpressionStatement)
	forIn, ok := first.Expr.(*ast.ForInExpression)
	if !ok || forIn.Ident != "x" {
		t.Fatalf("expected for-in over x, got %#v", first.Expr)
	}
	second := program.Statements[1].(*ast.ExpressionStatement)
	cFor, ok := second.Expr.(*ast.ForExpression)
	if !ok {
		t.Fatalf("expected c-style for, got %#v", second.Expr)
	}
	if _, ok := cFor.Init.(*ast.LetStatement); !ok {
		t.Fatalf("expected let initializer, got %T", cFor.Init)
	}
	third := program.Statements[2].(*ast.ExpressionStatement)
	cFor2, ok := third.Expr.(*ast.ForExpression)
	if !ok {
		t.Fatalf("expected c-style for, got %#v", third.Expr)
	}
	if _, ok := cFor2.Init.(*ast.AssignStatement); !ok {
		t.Fatalf("expected assignment initializer, got %T", cFor2.Init)
	}
}

func TestImportForms(t *testing.T) {
	program := parseProgram(t, `
		import std.math;
		import utils.strings.{shout, whisper};
	`)
	whole, ok := program.Statements[0].(*ast.ImportStatement)
	if !ok {
		t.Fatalf("expected import, got %T", program.Statements[0])
	}
	if len(whole.Path) != 2 || whole.Path[0] != "std" || whole.Path[1] != "math" || whole.Names != nil {
		t.Fatalf("unexpected import: %#v", whole)
	}
	selective := program.Statements[1].(*ast.ImportStatement)
	if len(selective.Path) != 2 || len(selective.Names) != 2 || selective.Names[1] != "whisper" {
		t.Fatalf("unexpected selective import: %#v", selective)
	}
}

func TestHashMapLiteral(t *testing.T) {
	expr := singleExpression(t, `{"a": 1, 2: "b"};`)
	hash, ok := expr.(*ast.HashMapLiteral)
	if !ok {
		t.Fatalf("expected hash map literal, got %#v", expr)
	}
	if len(hash.Pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(hash.Pairs))
	}
}

func TestBlockExpressionsSkipSemicolon(t *testing.T) {
	program := parseProgram(t, `
		while (x) { x = x - 1; }
		let y = 1;
	`)
	if len(program.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(program.Statements))
	}
}

func TestMissingSemicolonIsAnError(t *testing.T) {
	if _, err := Parse("let x = 1"); err == nil {
		t.Fatal("expected an error for a missing ';'")
	}
	if _, err := Parse("f(1) g(2);"); err == nil {
		t.Fatal("expected an error between adjacent expressions")
	}
}

func TestBlockTailExpressionSkipsSemicolon(t *testing.T) {
	parseProgram(t, `let add = fn(a, b) { a + b };`)
	parseProgram(t, `let v = if (x) { 1 } else { 2 };`)
	parseProgram(t, `fn f() { g(); h() }`)
	if _, err := Parse("fn f() { a b; }"); err == nil {
		t.Fatal("only the tail expression may omit ';'")
	}
}

func TestErrorsCarryPositions(t *testing.T) {
	_, err := Parse("let = 1;")
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected parser error, got %v", err)
	}
	if perr.Pos.Line != 1 || perr.Pos.Column != 5 {
		t.Fatalf("unexpected position %s", perr.Pos)
	}
}
