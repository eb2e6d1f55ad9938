// Package parser implements the ProViso recursive-descent parser: source
// text in, a typed ast.Program out, or a single *SyntaxError pinpointing
// the first offending token. Parse is pure: the same input string always
// produces byte-identical output.
package parser

import (
	"fmt"

	"github.com/wch1125/proviso/ast"
	"github.com/wch1125/proviso/lexer"
)

// Parser holds the full pre-lexed token stream for one source string and
// a cursor into it.
type Parser struct {
	toks []lexer.Token
	pos  int
}

// Parse tokenizes and parses src into a Program, or returns the first
// SyntaxError encountered.
func Parse(src string) (*ast.Program, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	return p.parseProgram()
}

func tokenize(src string) ([]lexer.Token, error) {
	lx := lexer.New(src)
	var toks []lexer.Token
	for {
		tok, err := lx.Next()
		if err != nil {
			le := err.(*lexer.Error)
			return nil, &SyntaxError{Message: le.Message, Line: le.Line, Column: le.Column, OffsetStart: le.OffsetStart, OffsetEnd: le.OffsetEnd}
		}
		toks = append(toks, tok)
		if tok.Kind == lexer.EOF {
			break
		}
	}
	return toks, nil
}

func (p *Parser) cur() lexer.Token {
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) span(start lexer.Token) ast.Span {
	end := p.toks[p.pos]
	return ast.Span{Line: start.Line, Column: start.Column, OffsetStart: start.Start, OffsetEnd: end.Start}
}

func (p *Parser) errorf(tok lexer.Token, format string, args ...interface{}) error {
	return &SyntaxError{
		Message:     fmt.Sprintf(format, args...),
		Line:        tok.Line,
		Column:      tok.Column,
		OffsetStart: tok.Start,
		OffsetEnd:   tok.End,
	}
}

func (p *Parser) isKeyword(text string) bool {
	return p.cur().Kind == lexer.Keyword && p.cur().Text == text
}

func (p *Parser) expectKeyword(text string) (lexer.Token, error) {
	if !p.isKeyword(text) {
		return lexer.Token{}, p.errorf(p.cur(), "expected %q, found %q", text, p.cur().Text)
	}
	return p.advance(), nil
}

func (p *Parser) expectKind(k lexer.Kind, what string) (lexer.Token, error) {
	if p.cur().Kind != k {
		return lexer.Token{}, p.errorf(p.cur(), "expected %s, found %q", what, p.cur().Text)
	}
	return p.advance(), nil
}

func (p *Parser) atEOF() bool {
	return p.cur().Kind == lexer.EOF
}

// statementKeywords are the keywords that begin a new top-level
// statement; a clause-parsing loop stops when it sees one of these (or
// EOF), since it means the current statement has ended.
var statementKeywords = map[string]bool{
	"DEFINE": true, "COVENANT": true, "BASKET": true, "CONDITION": true,
	"PROHIBIT": true, "EVENT": true, "PHASE": true, "TRANSITION": true,
	"MILESTONE": true, "TECHNICAL_MILESTONE": true, "REGULATORY_REQUIREMENT": true,
	"PERFORMANCE_GUARANTEE": true, "DEGRADATION_SCHEDULE": true, "SEASONAL_ADJUSTMENT": true,
	"TAX_EQUITY_STRUCTURE": true, "TAX_CREDIT": true, "DEPRECIATION": true,
	"FLIP_EVENT": true, "RESERVE": true, "WATERFALL": true,
	"CONDITIONS_PRECEDENT": true, "AMENDMENT": true, "LOAD": true,
}

func (p *Parser) atStatementBoundary() bool {
	if p.atEOF() {
		return true
	}
	return p.cur().Kind == lexer.Keyword && statementKeywords[p.cur().Text]
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for !p.atEOF() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	tok := p.cur()
	if tok.Kind != lexer.Keyword {
		return nil, p.errorf(tok, "expected a statement keyword, found %q", tok.Text)
	}
	switch tok.Text {
	case "DEFINE":
		return p.parseDefine()
	case "COVENANT":
		return p.parseCovenant()
	case "BASKET":
		return p.parseBasket()
	case "CONDITION":
		return p.parseCondition()
	case "PROHIBIT":
		return p.parseProhibit()
	case "EVENT":
		return p.parseEvent()
	case "PHASE":
		return p.parsePhase()
	case "TRANSITION":
		return p.parseTransition()
	case "MILESTONE":
		return p.parseMilestone()
	case "TECHNICAL_MILESTONE":
		return p.parseTechnicalMilestone()
	case "REGULATORY_REQUIREMENT":
		return p.parseRegulatoryRequirement()
	case "PERFORMANCE_GUARANTEE":
		return p.parsePerformanceGuarantee()
	case "DEGRADATION_SCHEDULE":
		return p.parseDegradationSchedule()
	case "SEASONAL_ADJUSTMENT":
		return p.parseSeasonalAdjustment()
	case "TAX_EQUITY_STRUCTURE":
		return p.parseTaxEquityStructure()
	case "TAX_CREDIT":
		return p.parseTaxCredit()
	case "DEPRECIATION":
		return p.parseDepreciation()
	case "FLIP_EVENT":
		return p.parseFlipEvent()
	case "RESERVE":
		return p.parseReserve()
	case "WATERFALL":
		return p.parseWaterfall()
	case "CONDITIONS_PRECEDENT":
		return p.parseConditionsPrecedent()
	case "AMENDMENT":
		return p.parseAmendment()
	case "LOAD":
		return p.parseLoad()
	default:
		return nil, p.errorf(tok, "unexpected keyword %q at statement position", tok.Text)
	}
}

// parseNameIdent consumes an identifier used as an element name.
func (p *Parser) parseNameIdent() (string, lexer.Token, error) {
	tok := p.cur()
	if tok.Kind != lexer.Ident {
		return "", tok, p.errorf(tok, "expected a name, found %q", tok.Text)
	}
	p.advance()
	return tok.Text, tok, nil
}

func (p *Parser) parseStringList() ([]string, error) {
	if _, err := p.expectKind(lexer.LBracket, "'['"); err != nil {
		return nil, err
	}
	var out []string
	for p.cur().Kind != lexer.RBracket {
		tok, err := p.expectKind(lexer.String, "a string")
		if err != nil {
			return nil, err
		}
		out = append(out, tok.Text)
		if p.cur().Kind == lexer.Comma {
			p.advance()
		}
	}
	p.advance() // ']'
	return out, nil
}

func (p *Parser) parseIdentList() ([]string, error) {
	if _, err := p.expectKind(lexer.LBracket, "'['"); err != nil {
		return nil, err
	}
	var out []string
	for p.cur().Kind != lexer.RBracket {
		tok := p.advance()
		out = append(out, tok.Text)
		if p.cur().Kind == lexer.Comma {
			p.advance()
		}
	}
	p.advance() // ']'
	return out, nil
}
