package engine

import "github.com/wch1125/proviso/ast"

// tables holds the typed symbol tables populated once at load and
// mutated only by applyAmendment, per spec §3.2.
type tables struct {
	definitions            map[string]*ast.Define
	covenants              map[string]*ast.Covenant
	baskets                map[string]*ast.Basket
	conditions             map[string]*ast.Condition
	prohibitions           map[string]*ast.Prohibit
	events                 map[string]*ast.Event
	phases                 map[string]*ast.Phase
	transitions            map[string]*ast.Transition
	milestones             map[string]*ast.Milestone
	technicalMilestones    map[string]*ast.TechnicalMilestone
	regulatoryRequirements map[string]*ast.RegulatoryRequirement
	performanceGuarantees  map[string]*ast.PerformanceGuarantee
	degradationSchedules   map[string]*ast.DegradationSchedule
	seasonalAdjustments    map[string]*ast.SeasonalAdjustment
	taxEquityStructures    map[string]*ast.TaxEquityStructure
	taxCredits             map[string]*ast.TaxCredit
	depreciations          map[string]*ast.Depreciation
	flipEvents             map[string]*ast.FlipEvent
	reserves               map[string]*ast.Reserve
	waterfalls             map[string]*ast.Waterfall
	conditionsPrecedent    map[string]*ast.ConditionsPrecedent
}

func newTables() *tables {
	return &tables{
		definitions:            map[string]*ast.Define{},
		covenants:              map[string]*ast.Covenant{},
		baskets:                map[string]*ast.Basket{},
		conditions:             map[string]*ast.Condition{},
		prohibitions:           map[string]*ast.Prohibit{},
		events:                 map[string]*ast.Event{},
		phases:                 map[string]*ast.Phase{},
		transitions:            map[string]*ast.Transition{},
		milestones:             map[string]*ast.Milestone{},
		technicalMilestones:    map[string]*ast.TechnicalMilestone{},
		regulatoryRequirements: map[string]*ast.RegulatoryRequirement{},
		performanceGuarantees:  map[string]*ast.PerformanceGuarantee{},
		degradationSchedules:   map[string]*ast.DegradationSchedule{},
		seasonalAdjustments:    map[string]*ast.SeasonalAdjustment{},
		taxEquityStructures:    map[string]*ast.TaxEquityStructure{},
		taxCredits:             map[string]*ast.TaxCredit{},
		depreciations:          map[string]*ast.Depreciation{},
		flipEvents:             map[string]*ast.FlipEvent{},
		reserves:               map[string]*ast.Reserve{},
		waterfalls:             map[string]*ast.Waterfall{},
		conditionsPrecedent:    map[string]*ast.ConditionsPrecedent{},
	}
}

// tablesSnapshot is a shallow copy of every table map, sufficient to
// roll back an amendment: Add/Delete/Replace only add or remove map
// entries, and Modify never mutates a table's struct in place (it
// clones-then-replaces), so restoring the map pointers undoes all
// three directive kinds, per §9's transactional note.
type tablesSnapshot struct {
	definitions            map[string]*ast.Define
	covenants              map[string]*ast.Covenant
	baskets                map[string]*ast.Basket
	conditions             map[string]*ast.Condition
	prohibitions           map[string]*ast.Prohibit
	events                 map[string]*ast.Event
	phases                 map[string]*ast.Phase
	transitions            map[string]*ast.Transition
	milestones             map[string]*ast.Milestone
	technicalMilestones    map[string]*ast.TechnicalMilestone
	regulatoryRequirements map[string]*ast.RegulatoryRequirement
	performanceGuarantees  map[string]*ast.PerformanceGuarantee
	degradationSchedules   map[string]*ast.DegradationSchedule
	seasonalAdjustments    map[string]*ast.SeasonalAdjustment
	taxEquityStructures    map[string]*ast.TaxEquityStructure
	taxCredits             map[string]*ast.TaxCredit
	depreciations          map[string]*ast.Depreciation
	flipEvents             map[string]*ast.FlipEvent
	reserves               map[string]*ast.Reserve
	waterfalls             map[string]*ast.Waterfall
	conditionsPrecedent    map[string]*ast.ConditionsPrecedent
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (it *Interpreter) snapshotTables() tablesSnapshot {
	return tablesSnapshot{
		definitions:            cloneMap(it.tables.definitions),
		covenants:              cloneMap(it.tables.covenants),
		baskets:                cloneMap(it.tables.baskets),
		conditions:             cloneMap(it.tables.conditions),
		prohibitions:           cloneMap(it.tables.prohibitions),
		events:                 cloneMap(it.tables.events),
		phases:                 cloneMap(it.tables.phases),
		transitions:            cloneMap(it.tables.transitions),
		milestones:             cloneMap(it.tables.milestones),
		technicalMilestones:    cloneMap(it.tables.technicalMilestones),
		regulatoryRequirements: cloneMap(it.tables.regulatoryRequirements),
		performanceGuarantees:  cloneMap(it.tables.performanceGuarantees),
		degradationSchedules:   cloneMap(it.tables.degradationSchedules),
		seasonalAdjustments:    cloneMap(it.tables.seasonalAdjustments),
		taxEquityStructures:    cloneMap(it.tables.taxEquityStructures),
		taxCredits:             cloneMap(it.tables.taxCredits),
		depreciations:          cloneMap(it.tables.depreciations),
		flipEvents:             cloneMap(it.tables.flipEvents),
		reserves:               cloneMap(it.tables.reserves),
		waterfalls:             cloneMap(it.tables.waterfalls),
		conditionsPrecedent:    cloneMap(it.tables.conditionsPrecedent),
	}
}

func (it *Interpreter) restoreTables(snap tablesSnapshot) {
	it.tables.definitions = snap.definitions
	it.tables.covenants = snap.covenants
	it.tables.baskets = snap.baskets
	it.tables.conditions = snap.conditions
	it.tables.prohibitions = snap.prohibitions
	it.tables.events = snap.events
	it.tables.phases = snap.phases
	it.tables.transitions = snap.transitions
	it.tables.milestones = snap.milestones
	it.tables.technicalMilestones = snap.technicalMilestones
	it.tables.regulatoryRequirements = snap.regulatoryRequirements
	it.tables.performanceGuarantees = snap.performanceGuarantees
	it.tables.degradationSchedules = snap.degradationSchedules
	it.tables.seasonalAdjustments = snap.seasonalAdjustments
	it.tables.taxEquityStructures = snap.taxEquityStructures
	it.tables.taxCredits = snap.taxCredits
	it.tables.depreciations = snap.depreciations
	it.tables.flipEvents = snap.flipEvents
	it.tables.reserves = snap.reserves
	it.tables.waterfalls = snap.waterfalls
	it.tables.conditionsPrecedent = snap.conditionsPrecedent
}

// milestoneLike lets getMilestoneStatus share logic between Milestone
// and TechnicalMilestone without duplicating the target/longstop/
// triggers bookkeeping.
type milestoneLike struct {
	Name         string
	TargetDate   string
	LongstopDate string
	Triggers     []string
	Requires     ast.TransitionCondition
}
