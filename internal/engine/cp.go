package engine

// CPChecklistEntry is one item's current status within a checklist,
// spec §4.L.
type CPChecklistEntry struct {
	Name        string
	Description string
	Responsible string
	Status      string
}

// CPChecklist is the result of GetCPChecklist: totals by status plus
// per-item detail, spec §4.L.
type CPChecklist struct {
	Name     string
	Entries  []CPChecklistEntry
	ByStatus map[string]int
}

// GetCPChecklist returns totals by status and per-item detail for the
// named checklist, spec §4.L.
func (it *Interpreter) GetCPChecklist(name string) (CPChecklist, error) {
	cp, ok := it.tables.conditionsPrecedent[name]
	if !ok {
		return CPChecklist{}, unknownSymbol("conditions precedent", name)
	}
	statuses := it.state.cpStatuses[name]
	checklist := CPChecklist{Name: name, ByStatus: map[string]int{}}
	for _, item := range cp.Conditions {
		status := statuses[item.Name]
		if status == "" {
			status = item.Status
		}
		checklist.Entries = append(checklist.Entries, CPChecklistEntry{
			Name:        item.Name,
			Description: item.Description,
			Responsible: item.Responsible,
			Status:      status,
		})
		checklist.ByStatus[status]++
	}
	return checklist, nil
}

// UpdateCPStatus writes a checklist item's status. When status is
// "satisfied", every string in that item's Satisfies list is added to
// satisfiedConditions — the only edge between the closing workflow and
// the phase/transition machinery, spec §4.L.
func (it *Interpreter) UpdateCPStatus(checklistName, cpName, status string) error {
	cp, ok := it.tables.conditionsPrecedent[checklistName]
	if !ok {
		return unknownSymbol("conditions precedent", checklistName)
	}
	found := -1
	for i, c := range cp.Conditions {
		if c.Name == cpName {
			found = i
			break
		}
	}
	if found < 0 {
		return &MissingTargetError{Type: "CONDITION_ITEM", Name: cpName}
	}

	statuses := it.state.cpStatuses[checklistName]
	if statuses == nil {
		statuses = map[string]string{}
		it.state.cpStatuses[checklistName] = statuses
	}
	statuses[cpName] = status

	if status == "satisfied" {
		for _, s := range cp.Conditions[found].Satisfies {
			it.state.satisfiedConditions[s] = true
		}
	}
	return nil
}
