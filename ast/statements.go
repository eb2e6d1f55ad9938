package ast

// DefineModifiers holds the optional modifiers attached to a Define
// statement: spec §3.1.
type DefineModifiers struct {
	Excluding []string
	Cap       Expression
	Trailing  *TrailingModifier
}

// TrailingModifier is the `trailing` modifier on a Define statement.
type TrailingModifier struct {
	Count int
	Unit  TrailingUnit
}

// Define binds Name to Expression, subject to Modifiers.
type Define struct {
	Span
	Name       string
	Expression Expression
	Modifiers  DefineModifiers
}

func (*Define) statementNode() {}

// CurePeriod is the `curePeriod` field of a CureSpec.
type CurePeriod struct {
	Unit   string // days|months|years
	Amount int
}

// CureSpec is the `CURE` clause attached to a Covenant.
type CureSpec struct {
	Mechanism  string
	MaxUses    int // 0 means unlimited
	OverPeriod string
	MaxAmount  Expression
	CurePeriod *CurePeriod
}

// CovenantTier is one step of a `REQUIRES … UNTIL date, THEN …` schedule.
// A Covenant with no schedule has only its base Requires expression.
type CovenantTier struct {
	UntilDate string
	Requires  Expression
}

// Covenant is a testable condition over financial metrics, spec §3.1.
type Covenant struct {
	Span
	Name     string
	Requires Expression
	Tiers    []CovenantTier
	Tested   string // quarterly|annually|monthly
	Cure     *CureSpec
	Breach   string
}

func (*Covenant) statementNode() {}

// Basket is a permitted-action envelope, spec §3.1 / §4.G.
type Basket struct {
	Span
	Name       string
	Capacity   Expression
	Floor      Expression
	Plus       []Expression
	BuildsFrom Expression
	Starting   Expression
	Maximum    Expression
	SubjectTo  []string
}

func (*Basket) statementNode() {}

// Condition is a named boolean expression usable in transitions,
// prohibitions, and requirements.
type Condition struct {
	Span
	Name       string
	Expression Expression
}

func (*Condition) statementNode() {}

// ExceptWhen is one exception clause of a Prohibit statement; all of its
// Conditions must hold for the exception to apply (spec §4.H step 3).
type ExceptWhen struct {
	Conditions []Expression
}

// Prohibit forbids Target unless one ExceptWhen's conditions all hold.
type Prohibit struct {
	Span
	Target     string
	Exceptions []ExceptWhen
}

func (*Prohibit) statementNode() {}

// Event is a named occurrence that EXISTS() and prohibition/condition
// expressions can reference.
type Event struct {
	Span
	Name string
}

func (*Event) statementNode() {}

// Phase is a named epoch of the deal, spec §3.1 / §4.F.
type Phase struct {
	Span
	Name               string
	From               string
	Until              string
	CovenantsSuspended []string
	CovenantsActive    []string
	RequiredCovenants  []string
}

func (*Phase) statementNode() {}

// TransitionCondition is the discriminated union backing a Transition's
// or Milestone's `when`/`requires` clause: AllOf, AnyOf, or a bare
// expression.
type TransitionCondition interface {
	transitionConditionNode()
}

// AllOf is satisfied iff every named condition is in satisfiedConditions.
type AllOf struct {
	Names []string
}

func (AllOf) transitionConditionNode() {}

// AnyOf is satisfied iff at least one named condition is in
// satisfiedConditions.
type AnyOf struct {
	Names []string
}

func (AnyOf) transitionConditionNode() {}

// ExprCondition wraps a bare boolean expression.
type ExprCondition struct {
	Expr Expression
}

func (ExprCondition) transitionConditionNode() {}

// Transition describes when a phase ends, spec §4.F.
type Transition struct {
	Span
	Name string
	When TransitionCondition
}

func (*Transition) statementNode() {}

// Milestone is a target/longstop-dated checkpoint, spec §3.1 / §4.I.
type Milestone struct {
	Span
	Name         string
	TargetDate   string
	LongstopDate string
	Triggers     []string
	Requires     TransitionCondition // nil if absent
}

func (*Milestone) statementNode() {}

// TechnicalMilestone extends Milestone with a measured progress metric,
// spec §3.1 / §4.I.
type TechnicalMilestone struct {
	Span
	Milestone
	Measurement    string
	TargetValue    Expression
	CurrentValue   Expression
	ProgressMetric string
}

func (*TechnicalMilestone) statementNode() {}

// RegulatoryRequirement tracks a named regulatory approval, spec §3.1 /
// §4.I.
type RegulatoryRequirement struct {
	Span
	Name            string
	Agency          string
	RequirementType string
	Description     string
	RequiredFor     []string
	Status          string // pending|submitted|approved|denied
	ApprovalDate    string
	Satisfies       []string
}

func (*RegulatoryRequirement) statementNode() {}

// PerformanceGuarantee records contractual performance percentile
// commitments (e.g. for availability/output guarantees).
type PerformanceGuarantee struct {
	Span
	Name               string
	Metric             string
	P50, P75, P90, P99 Expression
	ActualValue        Expression
	ShortfallRate      Expression
	GuaranteePeriod    string
	InsuranceCoverage  Expression
}

func (*PerformanceGuarantee) statementNode() {}

// DegradationStage is one step of a DegradationSchedule.
type DegradationStage struct {
	AfterYears int
	Factor     Expression
}

// DegradationSchedule models a metric's expected decline over time
// (e.g. solar panel output degradation) used by performance covenants.
type DegradationSchedule struct {
	Span
	Name   string
	Basis  Expression
	Stages []DegradationStage
}

func (*DegradationSchedule) statementNode() {}

// SeasonalAdjustment scales a metric by month or quarter.
type SeasonalAdjustment struct {
	Span
	Name        string
	Basis       Expression
	Adjustments map[string]Expression // period label -> factor
}

func (*SeasonalAdjustment) statementNode() {}

// TaxEquityStructure names a tax-equity partnership structure (e.g.
// partnership-flip, sale-leaseback, inverted lease).
type TaxEquityStructure struct {
	Span
	Name          string
	StructureType string
	Satisfies     []string
}

func (*TaxEquityStructure) statementNode() {}

// TaxCredit is earned on placement: its Satisfies entries are added to
// satisfiedConditions at load time, spec §4.B.
type TaxCredit struct {
	Span
	Name       string
	CreditType string
	Amount     Expression
	Satisfies  []string
}

func (*TaxCredit) statementNode() {}

// Depreciation names a depreciation schedule component feeding tax-
// equity flip calculations.
type Depreciation struct {
	Span
	Name       string
	Method     string
	UsefulLife int
	Basis      Expression
}

func (*Depreciation) statementNode() {}

// FlipEvent names the point at which tax-equity allocations flip between
// investor and sponsor.
type FlipEvent struct {
	Span
	Name               string
	TriggerCondition   Expression
	PreFlipAllocation  Expression
	PostFlipAllocation Expression
}

func (*FlipEvent) statementNode() {}

// Reserve is a named cash reserve account, spec §3.1 / §4.J.
type Reserve struct {
	Span
	Name       string
	Target     Expression
	Minimum    Expression
	FundedBy   string
	ReleasedFor string
}

func (*Reserve) statementNode() {}

// WaterfallTier is one priority-ordered step of a Waterfall, spec §4.J.
type WaterfallTier struct {
	Priority   int
	Condition  Expression // gate; nil means unconditional
	PayAmount  Expression // mutually exclusive with PayTo
	PayTo      string     // reserve name; mutually exclusive with PayAmount
	Until      Expression // nil, a Comparison, or a bare numeric expression
	Shortfall  string     // reserve to draw from on shortfall
}

// Waterfall is a priority-ordered cash distribution, spec §3.1 / §4.J.
type Waterfall struct {
	Span
	Name  string
	Tiers []WaterfallTier
}

func (*Waterfall) statementNode() {}

// CPItem is one checklist entry of a ConditionsPrecedent statement.
type CPItem struct {
	Name        string
	Description string
	Responsible string
	Satisfies   []string
	Status      string // pending|in_progress|satisfied|waived
}

// ConditionsPrecedent is a named closing checklist, spec §3.1 / §4.L.
type ConditionsPrecedent struct {
	Span
	Name       string
	Section    string
	Conditions []CPItem
}

func (*ConditionsPrecedent) statementNode() {}

// Directive is the discriminated union of Amendment directives, spec
// §4.K.
type Directive interface {
	directiveNode()
}

// Replace deletes the named element and loads Replacement in its place.
type Replace struct {
	Type        string
	Name        string
	Replacement Statement
}

func (Replace) directiveNode() {}

// Add loads Stmt as if it were part of the original program.
type Add struct {
	Stmt Statement
}

func (Add) directiveNode() {}

// Delete removes the named element of the given Type from its table.
type Delete struct {
	Type string
	Name string
}

func (Delete) directiveNode() {}

// ModField is one field assignment within a Modify directive.
type ModField struct {
	Field string
	Value Expression
	Text  string // used instead of Value for non-expression fields (e.g. `tested`)
}

// Modify patches permitted fields of the named element in place, spec
// §4.K.
type Modify struct {
	Type          string
	Name          string
	Modifications []ModField
}

func (Modify) directiveNode() {}

// Amendment is a structured delta applied to the symbol tables after
// initial load, spec §3.1 / §4.K.
type Amendment struct {
	Span
	Number      int
	Effective   string
	Description string
	Directives  []Directive
}

func (*Amendment) statementNode() {}

// Load references inline financial data, spec §3.1 / §4.B. Data holds
// the raw inline payload (JSON or YAML) as written in source.
type Load struct {
	Span
	Source string
	Data   string
}

func (*Load) statementNode() {}
