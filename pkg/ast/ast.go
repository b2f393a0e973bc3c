// Package ast declares the syntax tree produced by the parser. Nodes
// are immutable once built; the evaluator walks them without copying.
package ast

import (
	"math/big"

	"giulio/interpreter-go/pkg/token"
)

// Node is implemented by every syntax tree node.
type Node interface {
	NodeType() string
	Position() token.Position
}

// Statement nodes appear at statement position inside a program or block.
type Statement interface {
	Node
	statementNode()
}

// Expression nodes produce a value when evaluated.
type Expression interface {
	Node
	expressionNode()
}

// Program is a parsed source file: a sequence of top-level statements.
type Program struct {
	Statements []Statement
}

// Block is a brace-delimited statement list.
type Block struct {
	Pos        token.Position
	Statements []Statement
}

//-----------------------------------------------------------------------------
// Statements
//-----------------------------------------------------------------------------

// LetStatement introduces a new binding in the current scope.
type LetStatement struct {
	Pos   token.Position
	Name  string
	Value Expression
}

// AssignStatement rebinds an existing variable.
type AssignStatement struct {
	Pos   token.Position
	Name  string
	Value Expression
}

// MemberAssignStatement writes through obj.field.
type MemberAssignStatement struct {
	Pos    token.Position
	Object Expression
	Field  string
	Value  Expression
}

// IndexAssignStatement writes through target[index].
type IndexAssignStatement struct {
	Pos    token.Position
	Target Expression
	Index  Expression
	Value  Expression
}

// FunctionStatement is the named form `fn name(params) { body }`.
type FunctionStatement struct {
	Pos    token.Position
	Name   string
	Params []string
	Body   *Block
}

// ReturnStatement exits the enclosing function with a value.
type ReturnStatement struct {
	Pos   token.Position
	Value Expression
}

// StructStatement declares a struct: field defaults plus a method table.
type StructStatement struct {
	Pos     token.Position
	Name    string
	Fields  []StructField
	Methods []StructMethod
}

// StructField is a field name with its default value expression.
type StructField struct {
	Name  string
	Value Expression
}

// StructMethod is a method name with its function literal.
type StructMethod struct {
	Name     string
	Function *FunctionLiteral
}

// ImportStatement loads a module. Names is nil for `import a.b;` and
// holds the selected exports for `import a.b.{x, y};`.
type ImportStatement struct {
	Pos   token.Position
	Path  []string
	Names []string
}

// BreakStatement exits the innermost loop.
type BreakStatement struct {
	Pos token.Position
}

// ContinueStatement skips to the next loop iteration.
type ContinueStatement struct {
	Pos token.Position
}

// ExpressionStatement wraps an expression used at statement position.
type ExpressionStatement struct {
	Pos  token.Position
	Expr Expression
}

func (s *LetStatement) statementNode()          {}
func (s *AssignStatement) statementNode()       {}
func (s *MemberAssignStatement) statementNode() {}
func (s *IndexAssignStatement) statementNode()  {}
func (s *FunctionStatement) statementNode()     {}
func (s *ReturnStatement) statementNode()       {}
func (s *StructStatement) statementNode()       {}
func (s *ImportStatement) statementNode()       {}
func (s *BreakStatement) statementNode()        {}
func (s *ContinueStatement) statementNode()     {}
func (s *ExpressionStatement) statementNode()   {}

func (s *LetStatement) NodeType() string          { return "LetStatement" }
func (s *AssignStatement) NodeType() string       { return "AssignStatement" }
func (s *MemberAssignStatement) NodeType() string { return "MemberAssignStatement" }
func (s *IndexAssignStatement) NodeType() string  { return "IndexAssignStatement" }
func (s *FunctionStatement) NodeType() string     { return "FunctionStatement" }
func (s *ReturnStatement) NodeType() string       { return "ReturnStatement" }
func (s *StructStatement) NodeType() string       { return "StructStatement" }
func (s *ImportStatement) NodeType() string       { return "ImportStatement" }
func (s *BreakStatement) NodeType() string        { return "BreakStatement" }
func (s *ContinueStatement) NodeType() string     { return "ContinueStatement" }
func (s *ExpressionStatement) NodeType() string   { return "ExpressionStatement" }

func (s *LetStatement) Position() token.Position          { return s.Pos }
func (s *AssignStatement) Position() token.Position       { return s.Pos }
func (s *MemberAssignStatement) Position() token.Position { return s.Pos }
func (s *IndexAssignStatement) Position() token.Position  { return s.Pos }
func (s *FunctionStatement) Position() token.Position     { return s.Pos }
func (s *ReturnStatement) Position() token.Position       { return s.Pos }
func (s *StructStatement) Position() token.Position       { return s.Pos }
func (s *ImportStatement) Position() token.Position       { return s.Pos }
func (s *BreakStatement) Position() token.Position        { return s.Pos }
func (s *ContinueStatement) Position() token.Position     { return s.Pos }
func (s *ExpressionStatement) Position() token.Position   { return s.Pos }

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

// Identifier references a binding by name.
type Identifier struct {
	Pos  token.Position
	Name string
}

// IntegerLiteral is a fixed-width integer literal.
type IntegerLiteral struct {
	Pos   token.Position
	Value int64
}

// BigIntegerLiteral is a decimal literal too wide for 64 bits.
type BigIntegerLiteral struct {
	Pos   token.Position
	Value *big.Int
}

// StringLiteral is a double-quoted string with escapes resolved.
type StringLiteral struct {
	Pos   token.Position
	Value string
}

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Pos   token.Position
	Value bool
}

// NullLiteral is the `null` keyword.
type NullLiteral struct {
	Pos token.Position
}

// ThisExpression references the receiver inside a struct method.
type ThisExpression struct {
	Pos token.Position
}

// PrefixExpression applies a unary operator: !x, -x, +x.
type PrefixExpression struct {
	Pos      token.Position
	Operator token.Type
	Right    Expression
}

// InfixExpression applies a binary operator.
type InfixExpression struct {
	Pos      token.Position
	Operator token.Type
	Left     Expression
	Right    Expression
}

// IfExpression is a conditional; Alternative is nil without an else arm.
type IfExpression struct {
	Pos         token.Position
	Condition   Expression
	Consequence *Block
	Alternative *Block
}

// WhileExpression loops while the condition holds.
type WhileExpression struct {
	Pos       token.Position
	Condition Expression
	Body      *Block
}

// ForInExpression iterates the elements of an array or the characters
// of a string.
type ForInExpression struct {
	Pos      token.Position
	Ident    string
	Iterable Expression
	Body     *Block
}

// ForExpression is the C-style loop. Init, Condition, and Update are
// each optional.
type ForExpression struct {
	Pos       token.Position
	Init      Statement
	Condition Expression
	Update    Statement
	Body      *Block
}

// FunctionLiteral is the anonymous `fn(params) { body }` form.
type FunctionLiteral struct {
	Pos    token.Position
	Params []string
	Body   *Block
}

// CallExpression invokes a callee with positional arguments.
type CallExpression struct {
	Pos       token.Position
	Callee    Expression
	Arguments []Expression
}

// IndexExpression reads target[index].
type IndexExpression struct {
	Pos    token.Position
	Target Expression
	Index  Expression
}

// MemberExpression reads object.field.
type MemberExpression struct {
	Pos    token.Position
	Object Expression
	Field  string
}

// ArrayLiteral builds an array from element expressions.
type ArrayLiteral struct {
	Pos      token.Position
	Elements []Expression
}

// HashMapLiteral builds a hash map from key/value expression pairs.
type HashMapLiteral struct {
	Pos   token.Position
	Pairs []HashPair
}

// HashPair is one key/value entry of a hash map literal.
type HashPair struct {
	Key   Expression
	Value Expression
}

// StructLiteral instantiates a struct: `Name { field: value, ... }`.
type StructLiteral struct {
	Pos    token.Position
	Name   string
	Fields []StructField
}

func (e *Identifier) expressionNode()        {}
func (e *IntegerLiteral) expressionNode()    {}
func (e *BigIntegerLiteral) expressionNode() {}
func (e *StringLiteral) expressionNode()     {}
func (e *BooleanLiteral) expressionNode()    {}
func (e *NullLiteral) expressionNode()       {}
func (e *ThisExpression) expressionNode()    {}
func (e *PrefixExpression) expressionNode()  {}
func (e *InfixExpression) expressionNode()   {}
func (e *IfExpression) expressionNode()      {}
func (e *WhileExpression) expressionNode()   {}
func (e *ForInExpression) expressionNode()   {}
func (e *ForExpression) expressionNode()     {}
func (e *FunctionLiteral) expressionNode()   {}
func (e *CallExpression) expressionNode()    {}
func (e *IndexExpression) expressionNode()   {}
func (e *MemberExpression) expressionNode()  {}
func (e *ArrayLiteral) expressionNode()      {}
func (e *HashMapLiteral) expressionNode()    {}
func (e *StructLiteral) expressionNode()     {}

func (e *Identifier) NodeType() string        { return "Identifier" }
func (e *IntegerLiteral) NodeType() string    { return "IntegerLiteral" }
func (e *BigIntegerLiteral) NodeType() string { return "BigIntegerLiteral" }
func (e *StringLiteral) NodeType() string     { return "StringLiteral" }
func (e *BooleanLiteral) NodeType() string    { return "BooleanLiteral" }
func (e *NullLiteral) NodeType() string       { return "NullLiteral" }
func (e *ThisExpression) NodeType() string    { return "ThisExpression" }
func (e *PrefixExpression) NodeType() string  { return "PrefixExpression" }
func (e *InfixExpression) NodeType() string   { return "InfixExpression" }
func (e *IfExpression) NodeType() string      { return "IfExpression" }
func (e *WhileExpression) NodeType() string   { return "WhileExpression" }
func (e *ForInExpression) NodeType() string   { return "ForInExpression" }
func (e *ForExpression) NodeType() string     { return "ForExpression" }
func (e *FunctionLiteral) NodeType() string   { return "FunctionLiteral" }
func (e *CallExpression) NodeType() string    { return "CallExpression" }
func (e *IndexExpression) NodeType() string   { return "IndexExpression" }
func (e *MemberExpression) NodeType() string  { return "MemberExpression" }
func (e *ArrayLiteral) NodeType() string      { return "ArrayLiteral" }
func (e *HashMapLiteral) NodeType() string    { return "HashMapLiteral" }
func (e *StructLiteral) NodeType() string     { return "StructLiteral" }

func (e *Identifier) Position() token.Position        { return e.Pos }
func (e *IntegerLiteral) Position() token.Position    { return e.Pos }
func (e *BigIntegerLiteral) Position() token.Position { return e.Pos }
func (e *StringLiteral) Position() token.Position     { return e.Pos }
func (e *BooleanLiteral) Position() token.Position    { return e.Pos }
func (e *NullLiteral) Position() token.Position       { return e.Pos }
func (e *ThisExpression) Position() token.Position    { return e.Pos }
func (e *PrefixExpression) Position() token.Position  { return e.Pos }
func (e *InfixExpression) Position() token.Position   { return e.Pos }
func (e *IfExpression) Position() token.Position      { return e.Pos }
func (e *WhileExpression) Position() token.Position   { return e.Pos }
func (e *ForInExpression) Position() token.Position   { return e.Pos }
func (e *ForExpression) Position() token.Position     { return e.Pos }
func (e *FunctionLiteral) Position() token.Position   { return e.Pos }
func (e *CallExpression) Position() token.Position    { return e.Pos }
func (e *IndexExpression) Position() token.Position   { return e.Pos }
func (e *MemberExpression) Position() token.Position  { return e.Pos }
func (e *ArrayLiteral) Position() token.Position      { return e.Pos }
func (e *HashMapLiteral) Position() token.Position    { return e.Pos }
func (e *StructLiteral) Position() token.Position     { return e.Pos }

// EndsWithBlock reports whether the expression's textual form ends in a
// closing brace, which makes the statement terminator optional.
func EndsWithBlock(expr Expression) bool {
	switch expr.(type) {
	case *IfExpression, *WhileExpression, *ForInExpression, *ForExpression, *FunctionLiteral:
		return true
	default:
		return false
	}
}
