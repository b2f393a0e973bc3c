package parser

import (
	"math/big"
	"strconv"

	"giulio/interpreter-go/pkg/ast"
	"giulio/interpreter-go/pkg/token"
)

func (p *Parser) parseExpression(minPrec int) (ast.Expression, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for {
		prec := p.curPrecedence()
		if prec <= minPrec {
			return left, nil
		}
		switch p.cur.Type {
		case token.LPAREN:
			left, err = p.parseCall(left)
		case token.DOT:
			left, err = p.parseMember(left)
		case token.LBRACKET:
			left, err = p.parseIndex(left)
		default:
			left, err = p.parseInfix(left, prec)
		}
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parsePrefix() (ast.Expression, error) {
	switch p.cur.Type {
	case token.BANG, token.MINUS, token.PLUS:
		pos := p.cur.Pos
		op := p.cur.Type
		p.advance()
		right, err := p.parseExpression(precPrefix)
		if err != nil {
			return nil, err
		}
		return &ast.PrefixExpression{Pos: pos, Operator: op, Right: right}, nil
	default:
		return p.parseAtom()
	}
}

func (p *Parser) parseInfix(left ast.Expression, prec int) (ast.Expression, error) {
	pos := p.cur.Pos
	op := p.cur.Type
	p.advance()
	right, err := p.parseExpression(prec)
	if err != nil {
		return nil, err
	}
	return &ast.InfixExpression{Pos: pos, Operator: op, Left: left, Right: right}, nil
}

func (p *Parser) parseAtom() (ast.Expression, error) {
	switch p.cur.Type {
	case token.IDENT:
		if p.peek.Type == token.LBRACE {
			return p.parseStructLiteral()
		}
		expr := &ast.Identifier{Pos: p.cur.Pos, Name: p.cur.Literal}
		p.advance()
		return expr, nil
	case token.INT:
		return p.parseIntegerLiteral()
	case token.STRING:
		expr := &ast.StringLiteral{Pos: p.cur.Pos, Value: p.cur.Literal}
		p.advance()
		return expr, nil
	case token.TRUE, token.FALSE:
		expr := &ast.BooleanLiteral{Pos: p.cur.Pos, Value: p.cur.Type == token.TRUE}
		p.advance()
		return expr, nil
	case token.NULL:
		expr := &ast.NullLiteral{Pos: p.cur.Pos}
		p.advance()
		return expr, nil
	case token.THIS:
		expr := &ast.ThisExpression{Pos: p.cur.Pos}
		p.advance()
		return expr, nil
	case token.LPAREN:
		p.advance()
		expr, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseHashMapLiteral()
	case token.FUNCTION:
		return p.parseFunctionLiteral()
	case token.IF:
		return p.parseIfExpression()
	case token.WHILE:
		return p.parseWhileExpression()
	case token.FOR:
		return p.parseForExpression()
	default:
		return nil, p.errorf("unexpected %s", describe(p.cur))
	}
}

func (p *Parser) parseIntegerLiteral() (ast.Expression, error) {
	pos := p.cur.Pos
	lit := p.cur.Literal
	p.advance()
	if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return &ast.IntegerLiteral{Pos: pos, Value: n}, nil
	}
	wide, ok := new(big.Int).SetString(lit, 10)
	if !ok {
		return nil, &Error{Pos: pos, Message: "invalid integer literal " + lit}
	}
	return &ast.BigIntegerLiteral{Pos: pos, Value: wide}, nil
}

func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	pos := p.cur.Pos
	p.advance()
	expr := &ast.ArrayLiteral{Pos: pos}
	for p.cur.Type != token.RBRACKET {
		elem, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		expr.Elements = append(expr.Elements, elem)
		if p.cur.Type == token.COMMA {
			p.advance()
		} else if p.cur.Type != token.RBRACKET {
			return nil, p.errorf("expected ',' or ']' in array literal, found %s", describe(p.cur))
		}
	}
	p.advance()
	return expr, nil
}

func (p *Parser) parseHashMapLiteral() (ast.Expression, error) {
	pos := p.cur.Pos
	p.advance()
	expr := &ast.HashMapLiteral{Pos: pos}
	for p.cur.Type != token.RBRACE {
		key, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		value, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		expr.Pairs = append(expr.Pairs, ast.HashPair{Key: key, Value: value})
		if p.cur.Type == token.COMMA {
			p.advance()
		} else if p.cur.Type != token.RBRACE {
			return nil, p.errorf("expected ',' or '}' in hash map literal, found %s", describe(p.cur))
		}
	}
	p.advance()
	return expr, nil
}

func (p *Parser) parseStructLiteral() (ast.Expression, error) {
	pos := p.cur.Pos
	name := p.cur.Literal
	p.advance()
	p.advance()
	expr := &ast.StructLiteral{Pos: pos, Name: name}
	for p.cur.Type != token.RBRACE {
		field, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		value, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		expr.Fields = append(expr.Fields, ast.StructField{Name: field.Literal, Value: value})
		if p.cur.Type == token.COMMA {
			p.advance()
		} else if p.cur.Type != token.RBRACE {
			return nil, p.errorf("expected ',' or '}' in struct literal, found %s", describe(p.cur))
		}
	}
	p.advance()
	return expr, nil
}

func (p *Parser) parseFunctionLiteral() (ast.Expression, error) {
	pos := p.cur.Pos
	p.advance()
	params, err := p.parseParameterList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionLiteral{Pos: pos, Params: params, Body: body}, nil
}

func (p *Parser) parseParameterList() ([]string, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []string
	for p.cur.Type != token.RPAREN {
		name, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, name.Literal)
		if p.cur.Type == token.COMMA {
			p.advance()
		} else if p.cur.Type != token.RPAREN {
			return nil, p.errorf("expected ',' or ')' in parameter list, found %s", describe(p.cur))
		}
	}
	p.advance()
	return params, nil
}

func (p *Parser) parseIfExpression() (ast.Expression, error) {
	pos := p.cur.Pos
	p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	consequence, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	expr := &ast.IfExpression{Pos: pos, Condition: cond, Consequence: consequence}
	if p.cur.Type == token.ELSE {
		p.advance()
		if p.cur.Type == token.IF {
			nested, err := p.parseIfExpression()
			if err != nil {
				return nil, err
			}
			expr.Alternative = &ast.Block{
				Pos:        nested.Position(),
				Statements: []ast.Statement{&ast.ExpressionStatement{Pos: nested.Position(), Expr: nested}},
			}
			return expr, nil
		}
		expr.Alternative, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) parseWhileExpression() (ast.Expression, error) {
	pos := p.cur.Pos
	p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileExpression{Pos: pos, Condition: cond, Body: body}, nil
}

// parseForExpression handles both loop forms. After the opening paren,
// `let` or an identifier followed by `=` starts the C-style header;
// an identifier followed by `in` starts iteration.
func (p *Parser) parseForExpression() (ast.Expression, error) {
	pos := p.cur.Pos
	p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	if p.cur.Type == token.IDENT && p.peek.Type == token.IN {
		ident := p.cur.Literal
		p.advance()
		p.advance()
		iterable, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ast.ForInExpression{Pos: pos, Ident: ident, Iterable: iterable, Body: body}, nil
	}
	return p.parseCStyleFor(pos)
}

func (p *Parser) parseCStyleFor(pos token.Position) (ast.Expression, error) {
	expr := &ast.ForExpression{Pos: pos}
	var err error
	if p.cur.Type != token.SEMICOLON {
		expr.Init, err = p.parseForClause()
		if err != nil {
			return nil, err
		}
	} else {
		p.advance()
	}
	if p.cur.Type != token.SEMICOLON {
		expr.Condition, err = p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	if p.cur.Type != token.RPAREN {
		expr.Update, err = p.parseForUpdate()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	expr.Body, err = p.parseBlock()
	if err != nil {
		return nil, err
	}
	return expr, nil
}

// parseForClause parses the init clause of a C-style loop, consuming
// the trailing semicolon.
func (p *Parser) parseForClause() (ast.Statement, error) {
	if p.cur.Type == token.LET {
		return p.parseLetStatement()
	}
	if p.cur.Type == token.IDENT && p.peek.Type == token.ASSIGN {
		return p.parseAssignStatement()
	}
	return nil, p.errorf("expected loop initializer, found %s", describe(p.cur))
}

// parseForUpdate parses the update clause, which has no terminator.
func (p *Parser) parseForUpdate() (ast.Statement, error) {
	pos := p.cur.Pos
	if p.cur.Type == token.IDENT && p.peek.Type == token.ASSIGN {
		name := p.cur.Literal
		p.advance()
		p.advance()
		value, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		return &ast.AssignStatement{Pos: pos, Name: name, Value: value}, nil
	}
	expr, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if p.cur.Type == token.ASSIGN {
		p.advance()
		value, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		switch target := expr.(type) {
		case *ast.MemberExpression:
			return &ast.MemberAssignStatement{Pos: pos, Object: target.Object, Field: target.Field, Value: value}, nil
		case *ast.IndexExpression:
			return &ast.IndexAssignStatement{Pos: pos, Target: target.Target, Index: target.Index, Value: value}, nil
		default:
			return nil, &Error{Pos: pos, Message: "invalid assignment target"}
		}
	}
	return &ast.ExpressionStatement{Pos: pos, Expr: expr}, nil
}

func (p *Parser) parseCall(callee ast.Expression) (ast.Expression, error) {
	pos := p.cur.Pos
	p.advance()
	expr := &ast.CallExpression{Pos: pos, Callee: callee}
	for p.cur.Type != token.RPAREN {
		arg, err := p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
		expr.Arguments = append(expr.Arguments, arg)
		if p.cur.Type == token.COMMA {
			p.advance()
		} else if p.cur.Type != token.RPAREN {
			return nil, p.errorf("expected ',' or ')' in argument list, found %s", describe(p.cur))
		}
	}
	p.advance()
	return expr, nil
}

func (p *Parser) parseMember(object ast.Expression) (ast.Expression, error) {
	pos := p.cur.Pos
	p.advance()
	field, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	return &ast.MemberExpression{Pos: pos, Object: object, Field: field.Literal}, nil
}

func (p *Parser) parseIndex(target ast.Expression) (ast.Expression, error) {
	pos := p.cur.Pos
	p.advance()
	index, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.IndexExpression{Pos: pos, Target: target, Index: index}, nil
}
