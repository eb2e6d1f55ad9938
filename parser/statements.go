package parser

import (
	"strconv"
	"strings"

	"github.com/wch1125/proviso/ast"
	"github.com/wch1125/proviso/lexer"
)

func (p *Parser) parseDefine() (ast.Statement, error) {
	start := p.cur()
	p.advance() // DEFINE
	name, _, err := p.parseNameIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKind(lexer.Assign, "'='"); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	var mods ast.DefineModifiers
loop:
	for {
		switch {
		case p.isKeyword("EXCLUDING"):
			p.advance()
			names, err := p.parseIdentList()
			if err != nil {
				return nil, err
			}
			mods.Excluding = names
		case p.isKeyword("CAP"):
			p.advance()
			capExpr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			mods.Cap = capExpr
		case p.isKeyword("TRAILING"):
			p.advance()
			countTok, err := p.expectKind(lexer.Number, "a period count")
			if err != nil {
				return nil, err
			}
			count, _ := strconv.Atoi(countTok.Text)
			unitTok := p.advance()
			mods.Trailing = &ast.TrailingModifier{Count: count, Unit: ast.TrailingUnit(unitTok.Text)}
		default:
			break loop
		}
	}
	return &ast.Define{Span: baseSpan(p, start), Name: name, Expression: expr, Modifiers: mods}, nil
}

func (p *Parser) parseCovenant() (ast.Statement, error) {
	start := p.cur()
	p.advance() // COVENANT
	name, _, err := p.parseNameIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("REQUIRES"); err != nil {
		return nil, err
	}
	requires, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	baseCompare, _ := requires.(*ast.Comparison)

	var tiers []ast.CovenantTier
	for p.isKeyword("UNTIL") {
		p.advance()
		dateTok, err := p.expectKind(lexer.DateLit, "a date")
		if err != nil {
			return nil, err
		}
		if p.cur().Kind == lexer.Comma {
			p.advance()
		}
		if _, err := p.expectKeyword("THEN"); err != nil {
			return nil, err
		}
		tierStart := p.cur()
		var tierExpr ast.Expression
		if op, ok := compareOpFor(p.cur().Kind); ok && baseCompare != nil {
			p.advance()
			right, err := p.parseLogicalOr()
			if err != nil {
				return nil, err
			}
			tierExpr = &ast.Comparison{Span: baseSpan(p, tierStart), Op: op, Left: baseCompare.Left, Right: right}
		} else {
			tierExpr, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		}
		tiers = append(tiers, ast.CovenantTier{UntilDate: dateTok.Text, Requires: tierExpr})
	}

	cov := &ast.Covenant{Name: name, Requires: requires, Tiers: tiers}
	for {
		switch {
		case p.isKeyword("TESTED"):
			p.advance()
			tok := p.advance()
			cov.Tested = strings.ToLower(tok.Text)
		case p.isKeyword("CURE"):
			p.advance()
			spec, err := p.parseCureSpec()
			if err != nil {
				return nil, err
			}
			cov.Cure = spec
		case p.isKeyword("BREACH"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return nil, err
			}
			cov.Breach = tok.Text
		default:
			cov.Span = baseSpan(p, start)
			return cov, nil
		}
	}
}

func (p *Parser) parseCureSpec() (*ast.CureSpec, error) {
	mechTok, err := p.expectKind(lexer.Ident, "a cure mechanism name")
	if err != nil {
		return nil, err
	}
	spec := &ast.CureSpec{Mechanism: mechTok.Text}
	for {
		switch {
		case p.isKeyword("MAX_USES"):
			p.advance()
			tok, err := p.expectKind(lexer.Number, "a count")
			if err != nil {
				return nil, err
			}
			n, _ := strconv.Atoi(tok.Text)
			spec.MaxUses = n
		case p.isKeyword("OVER"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return nil, err
			}
			spec.OverPeriod = tok.Text
		case p.isKeyword("MAX_AMOUNT"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			spec.MaxAmount = e
		case p.isKeyword("CURE_PERIOD"):
			p.advance()
			tok, err := p.expectKind(lexer.Number, "a count")
			if err != nil {
				return nil, err
			}
			n, _ := strconv.Atoi(tok.Text)
			unitTok := p.advance()
			spec.CurePeriod = &ast.CurePeriod{Unit: unitTok.Text, Amount: n}
		default:
			return spec, nil
		}
	}
}

func (p *Parser) parseBasket() (ast.Statement, error) {
	start := p.cur()
	p.advance() // BASKET
	name, _, err := p.parseNameIdent()
	if err != nil {
		return nil, err
	}
	b := &ast.Basket{Name: name}
	for {
		switch {
		case p.isKeyword("CAPACITY"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			b.Capacity = e
		case p.isKeyword("FLOOR"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			b.Floor = e
		case p.isKeyword("PLUS"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			b.Plus = append(b.Plus, e)
		case p.isKeyword("BUILDS_FROM"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			b.BuildsFrom = e
		case p.isKeyword("STARTING"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			b.Starting = e
		case p.isKeyword("MAXIMUM"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			b.Maximum = e
		case p.isKeyword("SUBJECT_TO"):
			p.advance()
			names, err := p.parseIdentList()
			if err != nil {
				return nil, err
			}
			b.SubjectTo = names
		default:
			b.Span = baseSpan(p, start)
			return b, nil
		}
	}
}

func (p *Parser) parseCondition() (ast.Statement, error) {
	start := p.cur()
	p.advance() // CONDITION
	name, _, err := p.parseNameIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKind(lexer.Assign, "'='"); err != nil {
		return nil, err
	}
	e, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.Condition{Span: baseSpan(p, start), Name: name, Expression: e}, nil
}

func (p *Parser) parseProhibit() (ast.Statement, error) {
	start := p.cur()
	p.advance() // PROHIBIT
	targetTok, err := p.expectKind(lexer.Ident, "a prohibited action name")
	if err != nil {
		return nil, err
	}
	pr := &ast.Prohibit{Target: targetTok.Text}
	for p.isKeyword("EXCEPT") {
		p.advance()
		if _, err := p.expectKeyword("WHEN"); err != nil {
			return nil, err
		}
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		conds := []ast.Expression{e}
		for p.cur().Kind == lexer.Comma {
			p.advance()
			e2, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			conds = append(conds, e2)
		}
		pr.Exceptions = append(pr.Exceptions, ast.ExceptWhen{Conditions: conds})
	}
	pr.Span = baseSpan(p, start)
	return pr, nil
}

func (p *Parser) parseEvent() (ast.Statement, error) {
	start := p.cur()
	p.advance() // EVENT
	name, _, err := p.parseNameIdent()
	if err != nil {
		return nil, err
	}
	return &ast.Event{Span: baseSpan(p, start), Name: name}, nil
}

func (p *Parser) parsePhase() (ast.Statement, error) {
	start := p.cur()
	p.advance() // PHASE
	name, _, err := p.parseNameIdent()
	if err != nil {
		return nil, err
	}
	ph := &ast.Phase{Name: name}
	for {
		switch {
		case p.isKeyword("FROM"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return nil, err
			}
			ph.From = tok.Text
		case p.isKeyword("UNTIL"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return nil, err
			}
			ph.Until = tok.Text
		case p.isKeyword("SUSPENDS"):
			p.advance()
			names, err := p.parseIdentList()
			if err != nil {
				return nil, err
			}
			ph.CovenantsSuspended = names
		case p.isKeyword("ACTIVE"):
			p.advance()
			names, err := p.parseIdentList()
			if err != nil {
				return nil, err
			}
			ph.CovenantsActive = names
		case p.isKeyword("REQUIRED"):
			p.advance()
			names, err := p.parseIdentList()
			if err != nil {
				return nil, err
			}
			ph.RequiredCovenants = names
		default:
			ph.Span = baseSpan(p, start)
			return ph, nil
		}
	}
}

// parseTransitionCondition parses the `WHEN`/`REQUIRES` clause shared by
// Transition and Milestone: an ALL_OF/ANY_OF name list, or a bare
// expression.
func (p *Parser) parseTransitionCondition() (ast.TransitionCondition, error) {
	switch {
	case p.isKeyword("ALL_OF"):
		p.advance()
		names, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		return ast.AllOf{Names: names}, nil
	case p.isKeyword("ANY_OF"):
		p.advance()
		names, err := p.parseIdentList()
		if err != nil {
			return nil, err
		}
		return ast.AnyOf{Names: names}, nil
	default:
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return ast.ExprCondition{Expr: e}, nil
	}
}

func (p *Parser) parseTransition() (ast.Statement, error) {
	start := p.cur()
	p.advance() // TRANSITION
	name, _, err := p.parseNameIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("WHEN"); err != nil {
		return nil, err
	}
	cond, err := p.parseTransitionCondition()
	if err != nil {
		return nil, err
	}
	return &ast.Transition{Span: baseSpan(p, start), Name: name, When: cond}, nil
}

func (p *Parser) parseMilestone() (ast.Statement, error) {
	start := p.cur()
	p.advance() // MILESTONE
	name, _, err := p.parseNameIdent()
	if err != nil {
		return nil, err
	}
	m := &ast.Milestone{Name: name}
	for {
		switch {
		case p.isKeyword("TARGET_DATE"):
			p.advance()
			tok, err := p.expectKind(lexer.DateLit, "a date")
			if err != nil {
				return nil, err
			}
			m.TargetDate = tok.Text
		case p.isKeyword("LONGSTOP_DATE"):
			p.advance()
			tok, err := p.expectKind(lexer.DateLit, "a date")
			if err != nil {
				return nil, err
			}
			m.LongstopDate = tok.Text
		case p.isKeyword("TRIGGERS"):
			p.advance()
			names, err := p.parseIdentList()
			if err != nil {
				return nil, err
			}
			m.Triggers = names
		case p.isKeyword("REQUIRES"):
			p.advance()
			cond, err := p.parseTransitionCondition()
			if err != nil {
				return nil, err
			}
			m.Requires = cond
		default:
			m.Span = baseSpan(p, start)
			return m, nil
		}
	}
}

func (p *Parser) parseTechnicalMilestone() (ast.Statement, error) {
	start := p.cur()
	p.advance() // TECHNICAL_MILESTONE
	name, _, err := p.parseNameIdent()
	if err != nil {
		return nil, err
	}
	tm := &ast.TechnicalMilestone{Milestone: ast.Milestone{Name: name}}
	for {
		switch {
		case p.isKeyword("TARGET_DATE"):
			p.advance()
			tok, err := p.expectKind(lexer.DateLit, "a date")
			if err != nil {
				return nil, err
			}
			tm.Milestone.TargetDate = tok.Text
		case p.isKeyword("LONGSTOP_DATE"):
			p.advance()
			tok, err := p.expectKind(lexer.DateLit, "a date")
			if err != nil {
				return nil, err
			}
			tm.Milestone.LongstopDate = tok.Text
		case p.isKeyword("TRIGGERS"):
			p.advance()
			names, err := p.parseIdentList()
			if err != nil {
				return nil, err
			}
			tm.Milestone.Triggers = names
		case p.isKeyword("REQUIRES"):
			p.advance()
			cond, err := p.parseTransitionCondition()
			if err != nil {
				return nil, err
			}
			tm.Milestone.Requires = cond
		case p.isKeyword("MEASUREMENT"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return nil, err
			}
			tm.Measurement = tok.Text
		case p.isKeyword("TARGET_VALUE"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			tm.TargetValue = e
		case p.isKeyword("CURRENT_VALUE"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			tm.CurrentValue = e
		case p.isKeyword("PROGRESS_METRIC"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return nil, err
			}
			tm.ProgressMetric = tok.Text
		default:
			tm.Span = baseSpan(p, start)
			return tm, nil
		}
	}
}

func (p *Parser) parseRegulatoryRequirement() (ast.Statement, error) {
	start := p.cur()
	p.advance() // REGULATORY_REQUIREMENT
	name, _, err := p.parseNameIdent()
	if err != nil {
		return nil, err
	}
	rr := &ast.RegulatoryRequirement{Name: name, Status: "pending"}
	for {
		switch {
		case p.isKeyword("AGENCY"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return nil, err
			}
			rr.Agency = tok.Text
		case p.isKeyword("REQUIREMENT_TYPE"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return nil, err
			}
			rr.RequirementType = tok.Text
		case p.isKeyword("DESCRIPTION"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return nil, err
			}
			rr.Description = tok.Text
		case p.isKeyword("REQUIRED_FOR"):
			p.advance()
			names, err := p.parseIdentList()
			if err != nil {
				return nil, err
			}
			rr.RequiredFor = names
		case p.isKeyword("STATUS"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return nil, err
			}
			rr.Status = tok.Text
		case p.isKeyword("APPROVAL_DATE"):
			p.advance()
			tok, err := p.expectKind(lexer.DateLit, "a date")
			if err != nil {
				return nil, err
			}
			rr.ApprovalDate = tok.Text
		case p.isKeyword("SATISFIES"):
			p.advance()
			names, err := p.parseIdentList()
			if err != nil {
				return nil, err
			}
			rr.Satisfies = names
		default:
			rr.Span = baseSpan(p, start)
			return rr, nil
		}
	}
}

func (p *Parser) parsePerformanceGuarantee() (ast.Statement, error) {
	start := p.cur()
	p.advance() // PERFORMANCE_GUARANTEE
	name, _, err := p.parseNameIdent()
	if err != nil {
		return nil, err
	}
	pg := &ast.PerformanceGuarantee{Name: name}
	for {
		switch {
		case p.isKeyword("METRIC"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return nil, err
			}
			pg.Metric = tok.Text
		case p.isKeyword("P50"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			pg.P50 = e
		case p.isKeyword("P75"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			pg.P75 = e
		case p.isKeyword("P90"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			pg.P90 = e
		case p.isKeyword("P99"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			pg.P99 = e
		case p.isKeyword("ACTUAL_VALUE"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			pg.ActualValue = e
		case p.isKeyword("SHORTFALL_RATE"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			pg.ShortfallRate = e
		case p.isKeyword("GUARANTEE_PERIOD"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return nil, err
			}
			pg.GuaranteePeriod = tok.Text
		case p.isKeyword("INSURANCE_COVERAGE"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			pg.InsuranceCoverage = e
		default:
			pg.Span = baseSpan(p, start)
			return pg, nil
		}
	}
}

func (p *Parser) parseDegradationSchedule() (ast.Statement, error) {
	start := p.cur()
	p.advance() // DEGRADATION_SCHEDULE
	name, _, err := p.parseNameIdent()
	if err != nil {
		return nil, err
	}
	ds := &ast.DegradationSchedule{Name: name}
	for {
		switch {
		case p.isKeyword("BASIS"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			ds.Basis = e
		case p.isKeyword("STAGE"):
			p.advance()
			if _, err := p.expectKeyword("AFTER_YEARS"); err != nil {
				return nil, err
			}
			yearsTok, err := p.expectKind(lexer.Number, "a year count")
			if err != nil {
				return nil, err
			}
			years, _ := strconv.Atoi(yearsTok.Text)
			if _, err := p.expectKeyword("FACTOR"); err != nil {
				return nil, err
			}
			factor, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			ds.Stages = append(ds.Stages, ast.DegradationStage{AfterYears: years, Factor: factor})
		default:
			ds.Span = baseSpan(p, start)
			return ds, nil
		}
	}
}

func (p *Parser) parseSeasonalAdjustment() (ast.Statement, error) {
	start := p.cur()
	p.advance() // SEASONAL_ADJUSTMENT
	name, _, err := p.parseNameIdent()
	if err != nil {
		return nil, err
	}
	sa := &ast.SeasonalAdjustment{Name: name, Adjustments: map[string]ast.Expression{}}
	for {
		switch {
		case p.isKeyword("BASIS"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			sa.Basis = e
		case p.isKeyword("PERIOD"):
			p.advance()
			labelTok, err := p.expectKind(lexer.String, "a period label")
			if err != nil {
				return nil, err
			}
			if _, err := p.expectKeyword("FACTOR"); err != nil {
				return nil, err
			}
			factor, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			sa.Adjustments[labelTok.Text] = factor
		default:
			sa.Span = baseSpan(p, start)
			return sa, nil
		}
	}
}

func (p *Parser) parseTaxEquityStructure() (ast.Statement, error) {
	start := p.cur()
	p.advance() // TAX_EQUITY_STRUCTURE
	name, _, err := p.parseNameIdent()
	if err != nil {
		return nil, err
	}
	tes := &ast.TaxEquityStructure{Name: name}
	for {
		switch {
		case p.isKeyword("STRUCTURE_TYPE"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return nil, err
			}
			tes.StructureType = tok.Text
		case p.isKeyword("SATISFIES"):
			p.advance()
			names, err := p.parseIdentList()
			if err != nil {
				return nil, err
			}
			tes.Satisfies = names
		default:
			tes.Span = baseSpan(p, start)
			return tes, nil
		}
	}
}

func (p *Parser) parseTaxCredit() (ast.Statement, error) {
	start := p.cur()
	p.advance() // TAX_CREDIT
	name, _, err := p.parseNameIdent()
	if err != nil {
		return nil, err
	}
	tc := &ast.TaxCredit{Name: name}
	for {
		switch {
		case p.isKeyword("CREDIT_TYPE"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return nil, err
			}
			tc.CreditType = tok.Text
		case p.isKeyword("AMOUNT"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			tc.Amount = e
		case p.isKeyword("SATISFIES"):
			p.advance()
			names, err := p.parseIdentList()
			if err != nil {
				return nil, err
			}
			tc.Satisfies = names
		default:
			tc.Span = baseSpan(p, start)
			return tc, nil
		}
	}
}

func (p *Parser) parseDepreciation() (ast.Statement, error) {
	start := p.cur()
	p.advance() // DEPRECIATION
	name, _, err := p.parseNameIdent()
	if err != nil {
		return nil, err
	}
	d := &ast.Depreciation{Name: name}
	for {
		switch {
		case p.isKeyword("METHOD"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return nil, err
			}
			d.Method = tok.Text
		case p.isKeyword("USEFUL_LIFE"):
			p.advance()
			tok, err := p.expectKind(lexer.Number, "a year count")
			if err != nil {
				return nil, err
			}
			n, _ := strconv.Atoi(tok.Text)
			d.UsefulLife = n
		case p.isKeyword("BASIS"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			d.Basis = e
		default:
			d.Span = baseSpan(p, start)
			return d, nil
		}
	}
}

func (p *Parser) parseFlipEvent() (ast.Statement, error) {
	start := p.cur()
	p.advance() // FLIP_EVENT
	name, _, err := p.parseNameIdent()
	if err != nil {
		return nil, err
	}
	fe := &ast.FlipEvent{Name: name}
	for {
		switch {
		case p.isKeyword("TRIGGER_CONDITION"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			fe.TriggerCondition = e
		case p.isKeyword("PRE_FLIP_ALLOCATION"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			fe.PreFlipAllocation = e
		case p.isKeyword("POST_FLIP_ALLOCATION"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			fe.PostFlipAllocation = e
		default:
			fe.Span = baseSpan(p, start)
			return fe, nil
		}
	}
}

func (p *Parser) parseReserve() (ast.Statement, error) {
	start := p.cur()
	p.advance() // RESERVE
	name, _, err := p.parseNameIdent()
	if err != nil {
		return nil, err
	}
	r := &ast.Reserve{Name: name}
	for {
		switch {
		case p.isKeyword("TARGET"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			r.Target = e
		case p.isKeyword("MINIMUM"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			r.Minimum = e
		case p.isKeyword("FUNDED_BY"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return nil, err
			}
			r.FundedBy = tok.Text
		case p.isKeyword("RELEASED_FOR"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return nil, err
			}
			r.ReleasedFor = tok.Text
		default:
			r.Span = baseSpan(p, start)
			return r, nil
		}
	}
}

func (p *Parser) parseWaterfall() (ast.Statement, error) {
	start := p.cur()
	p.advance() // WATERFALL
	name, _, err := p.parseNameIdent()
	if err != nil {
		return nil, err
	}
	w := &ast.Waterfall{Name: name}
	for p.isKeyword("TIER") {
		p.advance()
		tier, err := p.parseWaterfallTier()
		if err != nil {
			return nil, err
		}
		w.Tiers = append(w.Tiers, tier)
	}
	w.Span = baseSpan(p, start)
	return w, nil
}

func (p *Parser) parseWaterfallTier() (ast.WaterfallTier, error) {
	var tier ast.WaterfallTier
	if _, err := p.expectKeyword("PRIORITY"); err != nil {
		return tier, err
	}
	priTok, err := p.expectKind(lexer.Number, "a priority number")
	if err != nil {
		return tier, err
	}
	tier.Priority, _ = strconv.Atoi(priTok.Text)
	for {
		switch {
		case p.isKeyword("GATE"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return tier, err
			}
			tier.Condition = e
		case p.isKeyword("PAY_TO"):
			p.advance()
			tok, err := p.parseNameOrIdent()
			if err != nil {
				return tier, err
			}
			tier.PayTo = tok
		case p.isKeyword("PAY"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return tier, err
			}
			tier.PayAmount = e
		case p.isKeyword("UNTIL"):
			p.advance()
			e, err := p.parseExpression()
			if err != nil {
				return tier, err
			}
			tier.Until = e
		case p.isKeyword("SHORTFALL"):
			p.advance()
			tok, err := p.parseNameOrIdent()
			if err != nil {
				return tier, err
			}
			tier.Shortfall = tok
		default:
			return tier, nil
		}
	}
}

// parseNameOrIdent consumes a bare identifier used as a reference to
// another named element (a reserve or basket name), without creating a
// statement.
func (p *Parser) parseNameOrIdent() (string, error) {
	tok, err := p.expectKind(lexer.Ident, "a name")
	if err != nil {
		return "", err
	}
	return tok.Text, nil
}

func (p *Parser) parseConditionsPrecedent() (ast.Statement, error) {
	start := p.cur()
	p.advance() // CONDITIONS_PRECEDENT
	name, _, err := p.parseNameIdent()
	if err != nil {
		return nil, err
	}
	cp := &ast.ConditionsPrecedent{Name: name}
	for {
		switch {
		case p.isKeyword("SECTION"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return nil, err
			}
			cp.Section = tok.Text
		case p.isKeyword("ITEM"):
			p.advance()
			item, err := p.parseCPItem()
			if err != nil {
				return nil, err
			}
			cp.Conditions = append(cp.Conditions, item)
		default:
			cp.Span = baseSpan(p, start)
			return cp, nil
		}
	}
}

func (p *Parser) parseCPItem() (ast.CPItem, error) {
	item := ast.CPItem{Status: "pending"}
	name, _, err := p.parseNameIdent()
	if err != nil {
		return item, err
	}
	item.Name = name
	for {
		switch {
		case p.isKeyword("DESCRIPTION"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return item, err
			}
			item.Description = tok.Text
		case p.isKeyword("RESPONSIBLE"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return item, err
			}
			item.Responsible = tok.Text
		case p.isKeyword("SATISFIES"):
			p.advance()
			names, err := p.parseIdentList()
			if err != nil {
				return item, err
			}
			item.Satisfies = names
		case p.isKeyword("STATUS"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return item, err
			}
			item.Status = tok.Text
		default:
			return item, nil
		}
	}
}

func (p *Parser) parseAmendment() (ast.Statement, error) {
	start := p.cur()
	p.advance() // AMENDMENT
	numTok, err := p.expectKind(lexer.Number, "an amendment number")
	if err != nil {
		return nil, err
	}
	num, _ := strconv.Atoi(numTok.Text)
	am := &ast.Amendment{Number: num}
	for {
		switch {
		case p.isKeyword("EFFECTIVE"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return nil, err
			}
			am.Effective = tok.Text
		case p.isKeyword("DESCRIPTION"):
			p.advance()
			tok, err := p.expectKind(lexer.String, "a string")
			if err != nil {
				return nil, err
			}
			am.Description = tok.Text
		case p.isKeyword("REPLACE"):
			p.advance()
			kind := p.advance().Text
			name, _, err := p.parseNameIdent()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectKeyword("WITH"); err != nil {
				return nil, err
			}
			replacement, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			am.Directives = append(am.Directives, ast.Replace{Type: kind, Name: name, Replacement: replacement})
		case p.isKeyword("ADD"):
			p.advance()
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			am.Directives = append(am.Directives, ast.Add{Stmt: stmt})
		case p.isKeyword("DELETE"):
			p.advance()
			kind := p.advance().Text
			name, _, err := p.parseNameIdent()
			if err != nil {
				return nil, err
			}
			am.Directives = append(am.Directives, ast.Delete{Type: kind, Name: name})
		case p.isKeyword("MODIFY"):
			p.advance()
			kind := p.advance().Text
			name, _, err := p.parseNameIdent()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectKeyword("SET"); err != nil {
				return nil, err
			}
			var mods []ast.ModField
			for {
				fieldTok := p.advance()
				field := strings.ToLower(fieldTok.Text)
				if field == "tested" {
					if _, err := p.expectKind(lexer.Assign, "'='"); err != nil {
						return nil, err
					}
					tok := p.advance()
					mods = append(mods, ast.ModField{Field: field, Text: strings.ToLower(tok.Text)})
				} else {
					if _, err := p.expectKind(lexer.Assign, "'='"); err != nil {
						return nil, err
					}
					e, err := p.parseExpression()
					if err != nil {
						return nil, err
					}
					mods = append(mods, ast.ModField{Field: field, Value: e})
				}
				if p.cur().Kind == lexer.Comma {
					p.advance()
					continue
				}
				break
			}
			am.Directives = append(am.Directives, ast.Modify{Type: kind, Name: name, Modifications: mods})
		default:
			am.Span = baseSpan(p, start)
			return am, nil
		}
	}
}

func (p *Parser) parseLoad() (ast.Statement, error) {
	start := p.cur()
	p.advance() // LOAD
	ld := &ast.Load{}
	if p.isKeyword("INLINE") {
		p.advance()
		tok, err := p.expectKind(lexer.String, "an inline data string")
		if err != nil {
			return nil, err
		}
		ld.Data = tok.Text
	} else {
		tok, err := p.expectKind(lexer.String, "a data source path")
		if err != nil {
			return nil, err
		}
		ld.Source = tok.Text
	}
	ld.Span = baseSpan(p, start)
	return ld, nil
}
