package parser

import (
	"strconv"

	"github.com/wch1125/proviso/ast"
	"github.com/wch1125/proviso/lexer"
)

// parseExpression is the entry point for expression parsing. Precedence,
// loosest to tightest per spec §4.A: comparison, OR, AND, +/-, */, unary,
// primary.
func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseComparison()
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	start := p.cur()
	left, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	op, ok := compareOpFor(p.cur().Kind)
	if !ok {
		return left, nil
	}
	p.advance()
	right, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	return &ast.Comparison{baseSpan(p, start), op, left, right}, nil
}

func compareOpFor(k lexer.Kind) (ast.CompareOp, bool) {
	switch k {
	case lexer.LtEq:
		return ast.OpLE, true
	case lexer.GtEq:
		return ast.OpGE, true
	case lexer.Lt:
		return ast.OpLT, true
	case lexer.Gt:
		return ast.OpGT, true
	case lexer.Assign:
		return ast.OpEQ, true
	case lexer.NotEq:
		return ast.OpNE, true
	}
	return "", false
}

func (p *Parser) parseLogicalOr() (ast.Expression, error) {
	start := p.cur()
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("OR") {
		p.advance()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{baseSpan(p, start), ast.OpOr, left, right}
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (ast.Expression, error) {
	start := p.cur()
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("AND") {
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{baseSpan(p, start), ast.OpAnd, left, right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	start := p.cur()
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.Plus || p.cur().Kind == lexer.Minus {
		op := ast.OpAdd
		if p.cur().Kind == lexer.Minus {
			op = ast.OpSub
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{baseSpan(p, start), op, left, right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	start := p.cur()
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.Star || p.cur().Kind == lexer.Slash || p.cur().Kind == lexer.Percent {
		var op ast.BinaryOp
		switch p.cur().Kind {
		case lexer.Star:
			op = ast.OpMul
		case lexer.Slash:
			op = ast.OpDiv
		case lexer.Percent:
			op = ast.OpMod
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{baseSpan(p, start), op, left, right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	start := p.cur()
	if p.cur().Kind == lexer.Minus {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{baseSpan(p, start), ast.OpNeg, operand}, nil
	}
	if p.isKeyword("NOT") {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{baseSpan(p, start), ast.OpNot, operand}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	start := p.cur()
	tok := p.cur()

	switch tok.Kind {
	case lexer.LParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expectKind(lexer.RParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil

	case lexer.Number:
		p.advance()
		v, _ := strconv.ParseFloat(tok.Text, 64)
		return &ast.Number{baseSpan(p, start), v}, nil

	case lexer.Currency:
		p.advance()
		v, _ := strconv.ParseFloat(tok.Text, 64)
		return &ast.Currency{baseSpan(p, start), v}, nil

	case lexer.Percentage:
		p.advance()
		v, _ := strconv.ParseFloat(tok.Text, 64)
		return &ast.Percentage{baseSpan(p, start), v}, nil

	case lexer.RatioLit:
		p.advance()
		v, _ := strconv.ParseFloat(tok.Text, 64)
		return &ast.Ratio{baseSpan(p, start), v}, nil

	case lexer.DateLit:
		p.advance()
		return &ast.DateLiteral{baseSpan(p, start), tok.Text}, nil

	case lexer.String:
		p.advance()
		return &ast.StringLiteral{baseSpan(p, start), tok.Text}, nil

	case lexer.Ident:
		p.advance()
		if p.cur().Kind == lexer.LParen {
			return p.parseFunctionCallTail(start, tok.Text)
		}
		return &ast.Identifier{baseSpan(p, start), tok.Text}, nil

	case lexer.Keyword:
		// Built-in functions and TRAILING are written as uppercase
		// identifiers that the lexer classifies as keywords only when
		// the word also names a statement keyword; most built-ins
		// (AVAILABLE, GreaterOf, …) lex as plain identifiers. TRAILING
		// is the one keyword usable inside an expression.
		if tok.Text == "TRAILING" {
			return p.parseTrailing(start)
		}
		return nil, p.errorf(tok, "unexpected keyword %q in expression", tok.Text)

	default:
		return nil, p.errorf(tok, "unexpected token %q in expression", tok.Text)
	}
}

func (p *Parser) parseFunctionCallTail(start lexer.Token, name string) (ast.Expression, error) {
	if _, err := p.expectKind(lexer.LParen, "'('"); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for p.cur().Kind != lexer.RParen {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.cur().Kind == lexer.Comma {
			p.advance()
		}
	}
	if _, err := p.expectKind(lexer.RParen, "')'"); err != nil {
		return nil, err
	}
	return &ast.FunctionCall{baseSpan(p, start), name, args}, nil
}

func (p *Parser) parseTrailing(start lexer.Token) (ast.Expression, error) {
	p.advance() // TRAILING
	countTok, err := p.expectKind(lexer.Number, "a period count")
	if err != nil {
		return nil, err
	}
	count, _ := strconv.Atoi(countTok.Text)
	unitTok := p.advance()
	unit := ast.TrailingUnit(unitTok.Text)
	if _, err := p.expectKind(lexer.LParen, "'('"); err != nil {
		return nil, err
	}
	inner, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKind(lexer.RParen, "')'"); err != nil {
		return nil, err
	}
	return &ast.Trailing{baseSpan(p, start), count, unit, inner}, nil
}

// baseSpan builds an ast.Span running from start to the parser's current
// position, for embedding as the first field of a node literal.
func baseSpan(p *Parser, start lexer.Token) ast.Span {
	return p.span(start)
}
