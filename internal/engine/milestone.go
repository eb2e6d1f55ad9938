package engine

// MilestoneStatusKind enumerates a milestone's lifecycle state, spec
// §4.I.
type MilestoneStatusKind string

const (
	MilestonePending  MilestoneStatusKind = "pending"
	MilestoneAtRisk   MilestoneStatusKind = "at_risk"
	MilestoneBreached MilestoneStatusKind = "breached"
	MilestoneAchieved MilestoneStatusKind = "achieved"
)

// MilestoneStatus is the result of GetMilestoneStatus, spec §4.I.
type MilestoneStatus struct {
	Name         string
	Status       MilestoneStatusKind
	AchievedOn   string
	PrereqsMet   bool
}

// GetMilestoneStatus computes status from asOf vs. targetDate/
// longstopDate and milestoneAchievements, spec §4.I. Dates are
// compared lexically (ISO YYYY-MM-DD sorts correctly as strings).
func (it *Interpreter) GetMilestoneStatus(name string, asOf string) (MilestoneStatus, error) {
	m, ok := it.tables.milestones[name]
	if !ok {
		return MilestoneStatus{}, unknownSymbol("milestone", name)
	}

	prereqsMet := true
	if m.Requires != nil {
		var err error
		prereqsMet, _, err = it.evaluateTransitionCondition(m.Requires)
		if err != nil {
			return MilestoneStatus{}, err
		}
	}

	if achievedOn, ok := it.state.milestoneAchievements[name]; ok {
		return MilestoneStatus{Name: name, Status: MilestoneAchieved, AchievedOn: achievedOn, PrereqsMet: prereqsMet}, nil
	}

	status := MilestoneStatus{Name: name, Status: MilestonePending, PrereqsMet: prereqsMet}
	if asOf == "" {
		return status, nil
	}
	if m.LongstopDate != "" && asOf > m.LongstopDate {
		status.Status = MilestoneBreached
	} else if m.TargetDate != "" && asOf > m.TargetDate {
		status.Status = MilestoneAtRisk
	}
	return status, nil
}

// AchieveMilestone records the achievement date and adds name plus all
// its triggers to satisfiedConditions, spec §4.I.
func (it *Interpreter) AchieveMilestone(name string, date string) error {
	m, ok := it.tables.milestones[name]
	if !ok {
		return unknownSymbol("milestone", name)
	}
	it.state.milestoneAchievements[name] = date
	it.state.satisfiedConditions[name] = true
	for _, trigger := range m.Triggers {
		it.state.satisfiedConditions[trigger] = true
	}
	return nil
}

// TechnicalMilestoneProgress is the computed progress of a technical
// milestone, spec §4.I.
type TechnicalMilestoneProgress struct {
	Name              string
	CurrentValue      float64
	TargetValue       float64
	CompletionPercent float64
	Achieved          bool
}

// IsTechnicalMilestoneAchieved computes current/target values and
// completionPercent, auto-achieving the milestone (firing triggers)
// the first time currentValue >= targetValue is observed, spec §4.I.
func (it *Interpreter) IsTechnicalMilestoneAchieved(name string) (TechnicalMilestoneProgress, error) {
	tm, ok := it.tables.technicalMilestones[name]
	if !ok {
		return TechnicalMilestoneProgress{}, unknownSymbol("technical milestone", name)
	}

	current, err := it.Eval(tm.CurrentValue)
	if err != nil {
		return TechnicalMilestoneProgress{}, err
	}
	target, err := it.Eval(tm.TargetValue)
	if err != nil {
		return TechnicalMilestoneProgress{}, err
	}

	progress := TechnicalMilestoneProgress{Name: name, CurrentValue: current, TargetValue: target}
	if target != 0 {
		progress.CompletionPercent = current / target * 100
	}

	achievedNow := current >= target
	progress.Achieved = it.state.technicalMilestoneAchievements[name] || achievedNow

	if achievedNow && !it.state.technicalMilestoneAchievements[name] {
		it.state.technicalMilestoneAchievements[name] = true
		it.state.satisfiedConditions[name] = true
		for _, trigger := range tm.Triggers {
			it.state.satisfiedConditions[trigger] = true
		}
	}
	return progress, nil
}

// RegulatoryChecklistEntry summarizes one regulatory requirement for
// the aggregated checklist view.
type RegulatoryChecklistEntry struct {
	Name   string
	Status string
}

// RegulatoryChecklist is the aggregated view of §4.I's regulatory
// checklist: one entry per requirement plus counts by status. Per-phase
// readiness is reported separately by IsPhaseRegulatoryReady.
type RegulatoryChecklist struct {
	Entries   []RegulatoryChecklistEntry
	ByStatus  map[string]int
}

func (it *Interpreter) GetRegulatoryChecklist() RegulatoryChecklist {
	checklist := RegulatoryChecklist{ByStatus: map[string]int{}}
	for name, req := range it.tables.regulatoryRequirements {
		status := it.state.regulatoryStatuses[name]
		if status == "" {
			status = req.Status
		}
		checklist.Entries = append(checklist.Entries, RegulatoryChecklistEntry{Name: name, Status: status})
		checklist.ByStatus[status]++
	}
	return checklist
}

// IsPhaseRegulatoryReady reports whether every regulatory requirement
// naming phaseName in RequiredFor has status "approved", spec §4.I.
func (it *Interpreter) IsPhaseRegulatoryReady(phaseName string) bool {
	for name, req := range it.tables.regulatoryRequirements {
		for _, required := range req.RequiredFor {
			if required != phaseName {
				continue
			}
			status := it.state.regulatoryStatuses[name]
			if status == "" {
				status = req.Status
			}
			if status != "approved" {
				return false
			}
		}
	}
	return true
}

// UpdateRegulatoryStatus sets a regulatory requirement's status; an
// approved status satisfies its own name and all its `satisfies`
// entries, mirroring the load-time rule of §4.B.
func (it *Interpreter) UpdateRegulatoryStatus(name string, status string) error {
	req, ok := it.tables.regulatoryRequirements[name]
	if !ok {
		return unknownSymbol("regulatory requirement", name)
	}
	it.state.regulatoryStatuses[name] = status
	if status == "approved" {
		it.state.satisfiedConditions[name] = true
		for _, s := range req.Satisfies {
			it.state.satisfiedConditions[s] = true
		}
	}
	return nil
}
