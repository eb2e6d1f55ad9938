package prose

import (
	"fmt"
	"strings"

	"github.com/wch1125/proviso/ast"
)

func renderDefine(d *ast.Define) string {
	body := fmt.Sprintf(`"%s" means %s.`, d.Name, exprString(d.Expression))
	if len(d.Modifiers.Excluding) > 0 {
		body += fmt.Sprintf(" Such term excludes %s.", strings.Join(d.Modifiers.Excluding, ", "))
	}
	if d.Modifiers.Cap != nil {
		body += fmt.Sprintf(" Such term shall not exceed %s.", exprString(d.Modifiers.Cap))
	}
	if d.Modifiers.Trailing != nil {
		body += fmt.Sprintf(" Measured on a trailing %d-%s basis.", d.Modifiers.Trailing.Count, d.Modifiers.Trailing.Unit)
	}
	return body
}

func renderConditionsPrecedent(cp *ast.ConditionsPrecedent) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Prior to the closing referenced by "%s", the following conditions shall be satisfied:`, cp.Name)
	for _, item := range cp.Conditions {
		fmt.Fprintf(&b, " (i) %s", item.Name)
		if item.Description != "" {
			fmt.Fprintf(&b, " — %s", item.Description)
		}
		if item.Responsible != "" {
			fmt.Fprintf(&b, ", the responsibility of %s", item.Responsible)
		}
		b.WriteString(";")
	}
	return strings.TrimSuffix(b.String(), ";") + "."
}

func renderPhase(p *ast.Phase) string {
	body := fmt.Sprintf(`The "%s" phase`, p.Name)
	if p.From != "" {
		body += fmt.Sprintf(" commences upon %s", p.From)
	} else {
		body += " is the initial phase of the project"
	}
	if p.Until != "" {
		body += fmt.Sprintf(" and continues until %s", p.Until)
	}
	body += "."
	if len(p.CovenantsSuspended) > 0 {
		body += fmt.Sprintf(" The following covenants are suspended during this phase: %s.", strings.Join(p.CovenantsSuspended, ", "))
	}
	if len(p.CovenantsActive) > 0 {
		body += fmt.Sprintf(" The following covenants are active during this phase: %s.", strings.Join(p.CovenantsActive, ", "))
	}
	if len(p.RequiredCovenants) > 0 {
		body += fmt.Sprintf(" The following covenants are required as a condition of entry: %s.", strings.Join(p.RequiredCovenants, ", "))
	}
	return body
}

func renderMilestone(m *ast.Milestone) string {
	body := fmt.Sprintf(`"%s" shall be achieved`, m.Name)
	if m.TargetDate != "" {
		body += fmt.Sprintf(" on or before %s", m.TargetDate)
	}
	if m.LongstopDate != "" {
		body += fmt.Sprintf(", and in no event later than %s", m.LongstopDate)
	}
	body += "."
	if m.Requires != nil {
		body += fmt.Sprintf(" Achievement requires %s.", transitionConditionString(m.Requires))
	}
	if len(m.Triggers) > 0 {
		body += fmt.Sprintf(" Achievement satisfies: %s.", strings.Join(m.Triggers, ", "))
	}
	return body
}

func renderBasket(b *ast.Basket) string {
	switch {
	case b.BuildsFrom != nil:
		body := fmt.Sprintf(`The "%s" basket builds from %s`, b.Name, exprString(b.BuildsFrom))
		if b.Starting != nil {
			body += fmt.Sprintf(", beginning at a starting capacity of %s", exprString(b.Starting))
		}
		if b.Maximum != nil {
			body += fmt.Sprintf(", and shall not exceed a maximum capacity of %s", exprString(b.Maximum))
		}
		return body + "."
	case b.Floor != nil:
		body := fmt.Sprintf(`The "%s" basket has a floor of %s`, b.Name, exprString(b.Floor))
		for _, p := range b.Plus {
			body += fmt.Sprintf(" plus %s", exprString(p))
		}
		return body + "."
	default:
		body := fmt.Sprintf(`The "%s" basket has a fixed capacity of %s`, b.Name, exprString(b.Capacity))
		if len(b.SubjectTo) > 0 {
			body += fmt.Sprintf(", subject to %s", strings.Join(b.SubjectTo, ", "))
		}
		return body + "."
	}
}

func renderCovenant(c *ast.Covenant) string {
	body := fmt.Sprintf(`The Borrower shall maintain "%s" such that %s`, c.Name, exprString(c.Requires))
	for _, tier := range c.Tiers {
		body += fmt.Sprintf(", until %s, thereafter %s", tier.UntilDate, exprString(tier.Requires))
	}
	body += "."
	if c.Tested != "" {
		body += fmt.Sprintf(" Compliance is tested %s.", c.Tested)
	}
	if c.Cure != nil {
		body += fmt.Sprintf(" A breach may be cured by %s", c.Cure.Mechanism)
		if c.Cure.MaxUses > 0 {
			body += fmt.Sprintf(", not more than %d time(s)", c.Cure.MaxUses)
		}
		if c.Cure.MaxAmount != nil {
			body += fmt.Sprintf(", in an amount not to exceed %s", exprString(c.Cure.MaxAmount))
		}
		body += "."
	}
	return body
}

func renderReserve(r *ast.Reserve) string {
	body := fmt.Sprintf(`The "%s" reserve account`, r.Name)
	if r.Target != nil {
		body += fmt.Sprintf(" shall be funded to a target balance of %s", exprString(r.Target))
	}
	if r.Minimum != nil {
		body += fmt.Sprintf(" and maintained at no less than %s", exprString(r.Minimum))
	}
	body += "."
	if r.FundedBy != "" {
		body += fmt.Sprintf(" It is funded by %s.", r.FundedBy)
	}
	if r.ReleasedFor != "" {
		body += fmt.Sprintf(" Released funds may be applied to %s.", r.ReleasedFor)
	}
	return body
}

func renderWaterfall(w *ast.Waterfall) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Available cash subject to the "%s" waterfall shall be applied in the following order of priority:`, w.Name)
	for _, tier := range w.Tiers {
		fmt.Fprintf(&b, " (%d)", tier.Priority)
		switch {
		case tier.PayAmount != nil:
			fmt.Fprintf(&b, " pay %s", exprString(tier.PayAmount))
		case tier.PayTo != "":
			fmt.Fprintf(&b, " fund %s", tier.PayTo)
			if tier.Until != nil {
				fmt.Fprintf(&b, " until %s", exprString(tier.Until))
			}
		}
		if tier.Condition != nil {
			fmt.Fprintf(&b, ", if %s", exprString(tier.Condition))
		}
		if tier.Shortfall != "" {
			fmt.Fprintf(&b, ", drawing on %s in the event of a shortfall", tier.Shortfall)
		}
		b.WriteString(";")
	}
	return strings.TrimSuffix(b.String(), ";") + "."
}
