package engine

// Status is the aggregate dashboard view returned by GetStatus: the
// single read-only snapshot the TUI and CLI `eval` surface render,
// spec §3.3/§6.
type Status struct {
	CurrentPhase       string
	Covenants          []CovenantResult
	Baskets            []BasketStatus
	Reserves           []ReserveStatus
	Milestones         []MilestoneStatus
	CPChecklists       []CPChecklist
	RegulatoryReadiness RegulatoryChecklist
}

// GetStatus computes a full snapshot of deal health without mutating
// any interpreter state, spec §3.5/§6. Covenants outside their active
// phase are omitted, matching CheckActiveCovenants.
func (it *Interpreter) GetStatus() (Status, error) {
	status := Status{CurrentPhase: it.state.currentPhase}

	covenants, err := it.CheckActiveCovenants()
	if err != nil {
		return Status{}, err
	}
	for _, c := range covenants {
		status.Covenants = append(status.Covenants, c)
	}

	for name := range it.tables.baskets {
		b, err := it.GetBasketStatus(name)
		if err != nil {
			return Status{}, err
		}
		status.Baskets = append(status.Baskets, b)
	}

	for name := range it.tables.reserves {
		r, err := it.GetReserveStatus(name)
		if err != nil {
			return Status{}, err
		}
		status.Reserves = append(status.Reserves, r)
	}

	for name := range it.tables.milestones {
		m, err := it.GetMilestoneStatus(name, "")
		if err != nil {
			return Status{}, err
		}
		status.Milestones = append(status.Milestones, m)
	}

	for name := range it.tables.conditionsPrecedent {
		c, err := it.GetCPChecklist(name)
		if err != nil {
			return Status{}, err
		}
		status.CPChecklists = append(status.CPChecklists, c)
	}

	status.RegulatoryReadiness = it.GetRegulatoryChecklist()

	return status, nil
}
