package engine

import "github.com/wch1125/proviso/ast"

// ReserveStatus is the result of GetReserveStatus, spec §4.J.
type ReserveStatus struct {
	Name                string
	Balance             float64
	Target              float64
	Minimum             float64
	AvailableForRelease float64
	BelowMinimum        bool
}

func (it *Interpreter) GetReserveStatus(name string) (ReserveStatus, error) {
	r, ok := it.tables.reserves[name]
	if !ok {
		return ReserveStatus{}, unknownSymbol("reserve", name)
	}
	balance := it.state.reserveBalances[name]

	target := 0.0
	if r.Target != nil {
		v, err := it.Eval(r.Target)
		if err != nil {
			return ReserveStatus{}, err
		}
		target = v
	}
	minimum := 0.0
	if r.Minimum != nil {
		v, err := it.Eval(r.Minimum)
		if err != nil {
			return ReserveStatus{}, err
		}
		minimum = v
	}

	available := balance - minimum
	if available < 0 {
		available = 0
	}
	return ReserveStatus{Name: name, Balance: balance, Target: target, Minimum: minimum, AvailableForRelease: available, BelowMinimum: balance < minimum}, nil
}

// FundReserve credits amount to the named reserve, spec §3.3 (mutating
// command enumerated in §5).
func (it *Interpreter) FundReserve(name string, amount float64) error {
	if _, ok := it.tables.reserves[name]; !ok {
		return unknownSymbol("reserve", name)
	}
	it.state.reserveBalances[name] += amount
	return nil
}

// SetReserveBalance overwrites a reserve's stored balance directly.
func (it *Interpreter) SetReserveBalance(name string, balance float64) error {
	if _, ok := it.tables.reserves[name]; !ok {
		return unknownSymbol("reserve", name)
	}
	it.state.reserveBalances[name] = balance
	return nil
}

// DrawFromReserve draws min(requested, availableForRelease), debiting
// the balance by the amount actually drawn, spec §4.J / invariant 3.
func (it *Interpreter) DrawFromReserve(name string, requested float64) (float64, error) {
	status, err := it.GetReserveStatus(name)
	if err != nil {
		return 0, err
	}
	drawn := requested
	if drawn > status.AvailableForRelease {
		drawn = status.AvailableForRelease
	}
	it.state.reserveBalances[name] -= drawn
	return drawn, nil
}

// WaterfallTierResult is the per-tier outcome of ExecuteWaterfall,
// spec §4.J.
type WaterfallTierResult struct {
	Priority    int
	Requested   float64
	Paid        float64
	Shortfall   float64
	Blocked     bool
	BlockReason string
}

// WaterfallResult is the overall outcome of ExecuteWaterfall. Invariant
// (spec §8): TotalDistributed + Remainder = TotalRevenue.
type WaterfallResult struct {
	TotalRevenue     float64
	TotalDistributed float64
	Remainder        float64
	Tiers            []WaterfallTierResult
}

// ExecuteWaterfall applies priority-ordered waterfall tiers against
// revenue, spec §4.J. Tiers are processed in ascending priority order
// as declared (the parser already stores them in source order and
// priorities are expected to be monotonically increasing; this
// function sorts defensively by Priority to honor the field even if a
// source reorders tiers).
func (it *Interpreter) ExecuteWaterfall(name string, revenue float64) (WaterfallResult, error) {
	wf, ok := it.tables.waterfalls[name]
	if !ok {
		return WaterfallResult{}, unknownSymbol("waterfall", name)
	}

	tiers := make([]ast.WaterfallTier, len(wf.Tiers))
	copy(tiers, wf.Tiers)
	for i := 1; i < len(tiers); i++ {
		for j := i; j > 0 && tiers[j].Priority < tiers[j-1].Priority; j-- {
			tiers[j], tiers[j-1] = tiers[j-1], tiers[j]
		}
	}

	remainder := revenue
	results := make([]WaterfallTierResult, 0, len(tiers))

	for _, tier := range tiers {
		if tier.Condition != nil {
			ok, err := it.EvalBool(tier.Condition)
			if err != nil {
				return WaterfallResult{}, err
			}
			if !ok {
				results = append(results, WaterfallTierResult{Priority: tier.Priority, Blocked: true, BlockReason: "Condition not met"})
				continue
			}
		}

		requested, err := it.waterfallTierRequest(tier)
		if err != nil {
			return WaterfallResult{}, err
		}

		paid := requested
		if paid > remainder {
			paid = remainder
		}
		shortfall := requested - paid

		if shortfall > 0 && tier.Shortfall != "" {
			drawn, err := it.DrawFromReserve(tier.Shortfall, shortfall)
			if err != nil {
				return WaterfallResult{}, err
			}
			paid += drawn
			shortfall -= drawn
		}

		if tier.PayTo != "" && paid > 0 {
			if err := it.FundReserve(tier.PayTo, paid); err != nil {
				return WaterfallResult{}, err
			}
		}
		remainder -= paid

		results = append(results, WaterfallTierResult{Priority: tier.Priority, Requested: requested, Paid: paid, Shortfall: shortfall})
	}

	total := revenue - remainder
	return WaterfallResult{TotalRevenue: revenue, TotalDistributed: total, Remainder: remainder, Tiers: results}, nil
}

// waterfallTierRequest computes a tier's requested amount per §4.J
// step 2.
func (it *Interpreter) waterfallTierRequest(tier ast.WaterfallTier) (float64, error) {
	if tier.PayAmount != nil {
		return it.Eval(tier.PayAmount)
	}
	if tier.PayTo == "" {
		return 0, nil
	}

	status, err := it.GetReserveStatus(tier.PayTo)
	if err != nil {
		return 0, err
	}

	if tier.Until == nil {
		need := status.Target - status.Balance
		if need < 0 {
			need = 0
		}
		return need, nil
	}

	if cmp, ok := tier.Until.(*ast.Comparison); ok {
		targetValue, err := it.Eval(cmp.Right)
		if err != nil {
			return 0, err
		}
		need := targetValue - status.Balance
		if need < 0 {
			need = 0
		}
		return need, nil
	}

	targetValue, err := it.Eval(tier.Until)
	if err != nil {
		return 0, err
	}
	need := targetValue - status.Balance
	if need < 0 {
		need = 0
	}
	return need, nil
}
