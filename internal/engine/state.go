package engine

import "github.com/wch1125/proviso/ast"

// PhaseHistoryEntry records one phase transition, spec §3.3.
type PhaseHistoryEntry struct {
	Phase       string
	EnteredAt   string
	TriggeredBy string
}

// BasketLedgerEntry records one basket usage or accumulation event.
type BasketLedgerEntry struct {
	Timestamp   string
	Basket      string
	Amount      float64
	Description string
	EntryType   string // "usage" | "accumulation"
}

// CureAttempt records one applyCure call against a covenant.
type CureAttempt struct {
	Timestamp string
	Amount    float64
	Success   bool
	Reason    string
}

// CureState tracks the cure lifecycle of one covenant, spec §3.3 /
// §4.K.
type CureState struct {
	BreachDate   string
	CureDeadline string
	Status       string // "breached" | "cured"
	Attempts     []CureAttempt
}

// evaluationContext is the single dynamically-scoped binding table
// described in spec §9 ("Evaluation-context bindings for `amount`").
// It is pushed on entry to checkProhibition and popped on every exit
// path.
type evaluationContext struct {
	bindings map[string]float64
}

func newEvaluationContext() *evaluationContext {
	return &evaluationContext{bindings: map[string]float64{}}
}

func (c *evaluationContext) push(name string, value float64) func() {
	_, had := c.bindings[name]
	var prior float64
	if had {
		prior = c.bindings[name]
	}
	c.bindings[name] = value
	return func() {
		if had {
			c.bindings[name] = prior
		} else {
			delete(c.bindings, name)
		}
	}
}

// simpleData is the flat `name -> number` financial snapshot, spec
// §3.3 / §4.C.
type simpleData map[string]float64

// period is one entry of a multi-period financial snapshot.
type period struct {
	Period     string
	PeriodEnd  string
	PeriodType string // "quarterly" | "monthly" | "annual"
	Data       map[string]float64
}

// state is the mutable runtime state owned by one Interpreter, spec
// §3.3. Its shape, not its field names, is the contract; nothing
// outside this package reads it directly.
type state struct {
	simple    simpleData
	periods   []period // nil unless in multi-period mode
	multiMode bool
	evalPeriod string

	satisfiedConditions map[string]bool

	currentPhase string
	phaseHistory []PhaseHistoryEntry

	basketUtilization   map[string]float64
	basketAccumulation  map[string]float64
	basketLedger        []BasketLedgerEntry

	reserveBalances map[string]float64

	cureUsage  map[string]int
	cureStates map[string]*CureState

	eventDefaults map[string]bool

	triggeredFlips                  map[string]bool
	milestoneAchievements           map[string]string // name -> achieved-on date
	technicalMilestoneAchievements  map[string]bool
	regulatoryStatuses              map[string]string
	cpStatuses                      map[string]map[string]string // checklist -> item -> status

	appliedAmendments []*ast.Amendment

	ctx *evaluationContext
}

func newState() *state {
	return &state{
		simple:                         simpleData{},
		satisfiedConditions:            map[string]bool{},
		basketUtilization:              map[string]float64{},
		basketAccumulation:             map[string]float64{},
		reserveBalances:                map[string]float64{},
		cureUsage:                      map[string]int{},
		cureStates:                     map[string]*CureState{},
		eventDefaults:                  map[string]bool{},
		triggeredFlips:                 map[string]bool{},
		milestoneAchievements:          map[string]string{},
		technicalMilestoneAchievements: map[string]bool{},
		regulatoryStatuses:             map[string]string{},
		cpStatuses:                     map[string]map[string]string{},
		ctx:                            newEvaluationContext(),
	}
}
