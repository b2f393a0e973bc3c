package parser

import (
	"giulio/interpreter-go/pkg/ast"
	"giulio/interpreter-go/pkg/token"
)

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur.Type {
	case token.LET:
		return p.parseLetStatement()
	case token.FUNCTION:
		if p.peek.Type == token.IDENT {
			return p.parseFunctionStatement()
		}
		return p.parseExpressionStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.STRUCT:
		return p.parseStructStatement()
	case token.IMPORT:
		return p.parseImportStatement()
	case token.BREAK:
		pos := p.cur.Pos
		p.advance()
		if _, err := p.expect(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.BreakStatement{Pos: pos}, nil
	case token.CONTINUE:
		pos := p.cur.Pos
		p.advance()
		if _, err := p.expect(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.ContinueStatement{Pos: pos}, nil
	case token.IDENT:
		if p.peek.Type == token.ASSIGN {
			return p.parseAssignStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLetStatement() (ast.Statement, error) {
	pos := p.cur.Pos
	p.advance()
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.LetStatement{Pos: pos, Name: name.Literal, Value: value}, nil
}

func (p *Parser) parseAssignStatement() (ast.Statement, error) {
	pos := p.cur.Pos
	name := p.cur.Literal
	p.advance()
	p.advance()
	value, err := p.parseExpression(precLowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.AssignStatement{Pos: pos, Name: name, Value: value}, nil
}

func (p *Parser) parseFunctionStatement() (ast.Statement, error) {
	pos := p.cur.Pos
	p.advance()
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParameterList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if p.cur.Type == token.SEMICOLON {
		p.advance()
	}
	return &ast.FunctionStatement{Pos: pos, Name: name.Literal, Params: params, Body: body}, nil
}

func (p *Parser) parseReturnStatement() (ast.Statement, error) {
	pos := p.cur.Pos
	p.advance()
	var value ast.Expression
	if p.cur.Type != token.SEMICOLON {
		var err error
		value, err = p.parseExpression(precLowest)
		if err != nil {
			return nil, err
		}
	}
	if p.cur.Type == token.SEMICOLON {
		p.advance()
	}
	return &ast.ReturnStatement{Pos: pos, Value: value}, nil
}

// parseStructStatement reads a struct declaration. Entries whose value
// is a function literal become methods; everything else is a field with
// a default value.
func (p *Parser) parseStructStatement() (ast.Statement, error) {
	pos := p.cur.Pos
	p.advance()
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	stmt := &ast.StructStatement{Pos: pos, Name: name.Literal}
	for p.cur.Type != token.RBRACE {
		entry, err := p.expect(token.IDENT)
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
		if fn, ok := value.(*ast.FunctionLiteral); ok {
			stmt.Methods = append(stmt.Methods, ast.StructMethod{Name: entry.Literal, Function: fn})
		} else {
			stmt.Fields = append(stmt.Fields, ast.StructField{Name: entry.Literal, Value: value})
		}
		if p.cur.Type == token.COMMA {
			p.advance()
		} else if p.cur.Type != token.RBRACE {
			return nil, p.errorf("expected ',' or '}' in struct body, found %s", describe(p.cur))
		}
	}
	p.advance()
	if p.cur.Type == token.SEMICOLON {
		p.advance()
	}
	return stmt, nil
}

// parseImportStatement reads `import a.b.c;` or `import a.b.{x, y};`.
func (p *Parser) parseImportStatement() (ast.Statement, error) {
	pos := p.cur.Pos
	p.advance()
	stmt := &ast.ImportStatement{Pos: pos}
	seg, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	stmt.Path = append(stmt.Path, seg.Literal)
	for p.cur.Type == token.DOT {
		p.advance()
		if p.cur.Type == token.LBRACE {
			p.advance()
			for {
				name, err := p.expect(token.IDENT)
				if err != nil {
					return nil, err
				}
				stmt.Names = append(stmt.Names, name.Literal)
				if p.cur.Type != token.COMMA {
					break
				}
				p.advance()
			}
			if _, err := p.expect(token.RBRACE); err != nil {
				return nil, err
			}
			break
		}
		seg, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		stmt.Path = append(stmt.Path, seg.Literal)
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseExpressionStatement parses an expression at statement position.
// A trailing member or index assignment turns it into an assignment
// statement. The terminating semicolon is optional when the expression
// ends in a block, or when the expression is a block's tail (the next
// token closes the enclosing block).
func (p *Parser) parseExpressionStatement() (ast.Statement, error) {
	pos := p.cur.Pos
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
		var stmt ast.Statement
		switch target := expr.(type) {
		case *ast.MemberExpression:
			stmt = &ast.MemberAssignStatement{Pos: pos, Object: target.Object, Field: target.Field, Value: value}
		case *ast.IndexExpression:
			stmt = &ast.IndexAssignStatement{Pos: pos, Target: target.Target, Index: target.Index, Value: value}
		default:
			return nil, &Error{Pos: pos, Message: "invalid assignment target"}
		}
		if _, err := p.expect(token.SEMICOLON); err != nil {
			return nil, err
		}
		return stmt, nil
	}
	if p.cur.Type == token.SEMICOLON {
		p.advance()
	} else if p.cur.Type != token.RBRACE && !ast.EndsWithBlock(expr) {
		return nil, p.errorf("expected ';' after expression, found %s", describe(p.cur))
	}
	return &ast.ExpressionStatement{Pos: pos, Expr: expr}, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	pos := p.cur.Pos
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	block := &ast.Block{Pos: pos}
	for p.cur.Type != token.RBRACE {
		if p.cur.Type == token.EOF {
			return nil, p.errorf("unexpected end of input, expected '}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	p.advance()
	return block, nil
}
