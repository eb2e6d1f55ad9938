package ast

// TrailingUnit enumerates the period units a Trailing expression can sum over.
type TrailingUnit string

const (
	TrailingQuarters TrailingUnit = "quarters"
	TrailingMonths   TrailingUnit = "months"
	TrailingYears    TrailingUnit = "years"
)

// BinaryOp enumerates arithmetic and logical binary operators.
type BinaryOp string

const (
	OpAdd BinaryOp = "+"
	OpSub BinaryOp = "-"
	OpMul BinaryOp = "*"
	OpDiv BinaryOp = "/"
	OpMod BinaryOp = "%"
	OpAnd BinaryOp = "AND"
	OpOr  BinaryOp = "OR"
)

// UnaryOp enumerates unary operators.
type UnaryOp string

const (
	OpNeg UnaryOp = "-"
	OpNot UnaryOp = "NOT"
)

// CompareOp enumerates comparison operators.
type CompareOp string

const (
	OpLE CompareOp = "<="
	OpGE CompareOp = ">="
	OpLT CompareOp = "<"
	OpGT CompareOp = ">"
	OpEQ CompareOp = "="
	OpNE CompareOp = "!="
)

// Number is a bare numeric literal.
type Number struct {
	Span
	Value float64
}

func (*Number) expressionNode() {}

// Currency is a `$123_456.78`-style literal. Value is stored in whole
// currency units (dollars); the interpreter scales to cents only where a
// specific component needs exact integer arithmetic.
type Currency struct {
	Span
	Value float64
}

func (*Currency) expressionNode() {}

// Percentage is a `12.5%`-style literal. Raw holds the literal percent
// value (12.5); evaluation divides by 100 per spec §4.D.
type Percentage struct {
	Span
	Raw float64
}

func (*Percentage) expressionNode() {}

// Ratio is a `3.25x`-style literal.
type Ratio struct {
	Span
	Value float64
}

func (*Ratio) expressionNode() {}

// DateLiteral is an ISO `YYYY-MM-DD` literal.
type DateLiteral struct {
	Span
	Value string
}

func (*DateLiteral) expressionNode() {}

// StringLiteral is a double-quoted string literal.
type StringLiteral struct {
	Span
	Value string
}

func (*StringLiteral) expressionNode() {}

// Identifier references a definition, a financial-data field, an alias,
// or an evaluation-context binding, resolved per spec §4.D.
type Identifier struct {
	Span
	Name string
}

func (*Identifier) expressionNode() {}

// BinaryExpression applies a BinaryOp to two sub-expressions.
type BinaryExpression struct {
	Span
	Op          BinaryOp
	Left, Right Expression
}

func (*BinaryExpression) expressionNode() {}

// UnaryExpression applies a UnaryOp to one sub-expression.
type UnaryExpression struct {
	Span
	Op      UnaryOp
	Operand Expression
}

func (*UnaryExpression) expressionNode() {}

// Comparison applies a CompareOp to two sub-expressions, producing a
// boolean result.
type Comparison struct {
	Span
	Op          CompareOp
	Left, Right Expression
}

func (*Comparison) expressionNode() {}

// FunctionCall invokes one of the built-in functions named in spec §4.D:
// AVAILABLE, GreaterOf, LesserOf, COMPLIANT, EXISTS, NOT.
type FunctionCall struct {
	Span
	Name string
	Args []Expression
}

func (*FunctionCall) expressionNode() {}

// Trailing sums Expr evaluated once per qualifying period over the last
// Count periods of Unit, per spec §4.D.
type Trailing struct {
	Span
	Count int
	Unit  TrailingUnit
	Expr  Expression
}

func (*Trailing) expressionNode() {}
