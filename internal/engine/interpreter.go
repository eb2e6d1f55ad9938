// Package engine implements the interpreter / evaluation engine of
// spec §2 components C–L: the symbol loader, expression evaluator,
// covenant checker, basket engine, prohibition/query engine, phase &
// milestone engine, reserve & waterfall engine, cure & amendment
// engine, and conditions-precedent engine.
package engine

import (
	"github.com/wch1125/proviso/ast"
	"github.com/wch1125/proviso/internal/logging"
)

// Interpreter owns one Program's symbol tables and one deal's runtime
// state. It is not safe for concurrent use (spec §5) — an embedder
// wanting parallelism across deals must instantiate one Interpreter
// per deal.
type Interpreter struct {
	program *ast.Program
	tables  *tables
	state   *state
}

// New constructs an Interpreter and loads program into its symbol
// tables per §4.B. It never fails on well-typed input: malformed
// references (e.g. a Phase naming a covenant that does not exist) are
// resolved lazily, at query time, as UnknownSymbolError.
func New(program *ast.Program) *Interpreter {
	it := &Interpreter{
		program: program,
		tables:  newTables(),
		state:   newState(),
	}
	it.load()
	return it
}

// load walks program.statements in order, installing each into its
// table and performing the statement-kind-specific side effects of
// §4.B.
func (it *Interpreter) load() {
	log := logging.Get(logging.CategoryLoader)
	for _, stmt := range it.program.Statements {
		switch s := stmt.(type) {
		case *ast.Define:
			it.installDefine(s, log)
		case *ast.Covenant:
			it.installCovenant(s, log)
		case *ast.Basket:
			it.installBasket(s, log)
		case *ast.Condition:
			it.installCondition(s, log)
		case *ast.Prohibit:
			it.installProhibit(s, log)
		case *ast.Event:
			it.installEvent(s, log)
		case *ast.Phase:
			it.installPhase(s, log)
		case *ast.Transition:
			it.installTransition(s, log)
		case *ast.Milestone:
			it.installMilestone(s, log)
		case *ast.TechnicalMilestone:
			it.installTechnicalMilestone(s, log)
		case *ast.RegulatoryRequirement:
			it.installRegulatoryRequirement(s, log)
		case *ast.PerformanceGuarantee:
			installNamed(it.tables.performanceGuarantees, s.Name, s, "PerformanceGuarantee", log)
		case *ast.DegradationSchedule:
			installNamed(it.tables.degradationSchedules, s.Name, s, "DegradationSchedule", log)
		case *ast.SeasonalAdjustment:
			installNamed(it.tables.seasonalAdjustments, s.Name, s, "SeasonalAdjustment", log)
		case *ast.TaxEquityStructure:
			installNamed(it.tables.taxEquityStructures, s.Name, s, "TaxEquityStructure", log)
		case *ast.TaxCredit:
			it.installTaxCredit(s, log)
		case *ast.Depreciation:
			installNamed(it.tables.depreciations, s.Name, s, "Depreciation", log)
		case *ast.FlipEvent:
			installNamed(it.tables.flipEvents, s.Name, s, "FlipEvent", log)
		case *ast.Reserve:
			it.installReserve(s, log)
		case *ast.Waterfall:
			installNamed(it.tables.waterfalls, s.Name, s, "Waterfall", log)
		case *ast.ConditionsPrecedent:
			it.installConditionsPrecedent(s, log)
		case *ast.Amendment:
			// Recorded in program.Statements only; applied explicitly via
			// ApplyAmendment (§4.K) — never implicitly at load.
		case *ast.Load:
			it.installLoad(s, log)
		}
	}
}

// installNamed is the shared duplicate-name-warning + last-write-wins
// path for statement kinds with no further side effects.
func installNamed[T any](table map[string]T, name string, value T, kind string, log *logging.Logger) {
	if _, dup := table[name]; dup {
		log.Warn("duplicate %s %q; last write wins", kind, name)
	}
	table[name] = value
}

func (it *Interpreter) installDefine(s *ast.Define, log *logging.Logger) {
	installNamed(it.tables.definitions, s.Name, s, "Define", log)
}

func (it *Interpreter) installCovenant(s *ast.Covenant, log *logging.Logger) {
	installNamed(it.tables.covenants, s.Name, s, "Covenant", log)
}

func (it *Interpreter) installBasket(s *ast.Basket, log *logging.Logger) {
	installNamed(it.tables.baskets, s.Name, s, "Basket", log)
}

func (it *Interpreter) installCondition(s *ast.Condition, log *logging.Logger) {
	installNamed(it.tables.conditions, s.Name, s, "Condition", log)
}

func (it *Interpreter) installProhibit(s *ast.Prohibit, log *logging.Logger) {
	installNamed(it.tables.prohibitions, s.Target, s, "Prohibit", log)
}

func (it *Interpreter) installEvent(s *ast.Event, log *logging.Logger) {
	installNamed(it.tables.events, s.Name, s, "Event", log)
}

// installPhase: a Phase with no `from` clause becomes the initial
// currentPhase if none is set yet, per §4.B.
func (it *Interpreter) installPhase(s *ast.Phase, log *logging.Logger) {
	installNamed(it.tables.phases, s.Name, s, "Phase", log)
	if s.From == "" && it.state.currentPhase == "" {
		it.state.currentPhase = s.Name
		it.state.phaseHistory = append(it.state.phaseHistory, PhaseHistoryEntry{Phase: s.Name, EnteredAt: "load"})
	}
}

func (it *Interpreter) installTransition(s *ast.Transition, log *logging.Logger) {
	installNamed(it.tables.transitions, s.Name, s, "Transition", log)
}

func (it *Interpreter) installMilestone(s *ast.Milestone, log *logging.Logger) {
	installNamed(it.tables.milestones, s.Name, s, "Milestone", log)
}

func (it *Interpreter) installTechnicalMilestone(s *ast.TechnicalMilestone, log *logging.Logger) {
	installNamed(it.tables.technicalMilestones, s.Name, s, "TechnicalMilestone", log)
}

// installRegulatoryRequirement: an already-approved requirement
// satisfies its own name and every `satisfies` entry, per §4.B.
func (it *Interpreter) installRegulatoryRequirement(s *ast.RegulatoryRequirement, log *logging.Logger) {
	installNamed(it.tables.regulatoryRequirements, s.Name, s, "RegulatoryRequirement", log)
	it.state.regulatoryStatuses[s.Name] = s.Status
	if s.Status == "approved" {
		it.state.satisfiedConditions[s.Name] = true
		for _, name := range s.Satisfies {
			it.state.satisfiedConditions[name] = true
		}
	}
}

// installTaxCredit: satisfies entries are earned on placement — added
// to satisfiedConditions at load time per §4.B.
func (it *Interpreter) installTaxCredit(s *ast.TaxCredit, log *logging.Logger) {
	installNamed(it.tables.taxCredits, s.Name, s, "TaxCredit", log)
	for _, name := range s.Satisfies {
		it.state.satisfiedConditions[name] = true
	}
}

// installReserve: balances initialize to 0 if not present, per §4.B.
func (it *Interpreter) installReserve(s *ast.Reserve, log *logging.Logger) {
	installNamed(it.tables.reserves, s.Name, s, "Reserve", log)
	if _, ok := it.state.reserveBalances[s.Name]; !ok {
		it.state.reserveBalances[s.Name] = 0
	}
}

// installConditionsPrecedent seeds cpStatuses[checklistName][cp.name]
// per §4.B.
func (it *Interpreter) installConditionsPrecedent(s *ast.ConditionsPrecedent, log *logging.Logger) {
	installNamed(it.tables.conditionsPrecedent, s.Name, s, "ConditionsPrecedent", log)
	statuses := it.state.cpStatuses[s.Name]
	if statuses == nil {
		statuses = map[string]string{}
		it.state.cpStatuses[s.Name] = statuses
	}
	for _, item := range s.Conditions {
		status := item.Status
		if status == "" {
			status = "pending"
		}
		statuses[item.Name] = status
	}
}

// installLoad calls through to §4.D's financial-data loader for
// inline LOAD statements.
func (it *Interpreter) installLoad(s *ast.Load, log *logging.Logger) {
	if s.Data == "" {
		return
	}
	if err := it.LoadFinancialsRaw([]byte(s.Data)); err != nil {
		log.Warn("inline LOAD for %q failed: %v", s.Source, err)
	}
}

// Program returns the loaded AST.
func (it *Interpreter) Program() *ast.Program { return it.program }

func unknownSymbol(kind, name string) error {
	return &UnknownSymbolError{Kind: kind, Name: name}
}
