package engine

import "fmt"

// UnknownSymbolError is raised when a query names a covenant, basket,
// phase, reserve, waterfall, or other table entry that does not exist.
type UnknownSymbolError struct {
	Kind string
	Name string
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("unknown %s: %q", e.Kind, e.Name)
}

// UndefinedIdentifierError is raised when an expression references an
// identifier that does not resolve through any layer of §4.D's
// resolution order.
type UndefinedIdentifierError struct {
	Name string
}

func (e *UndefinedIdentifierError) Error() string {
	return fmt.Sprintf("undefined identifier: %q", e.Name)
}

// InsufficientCapacityError is raised when useBasket would exceed a
// basket's available capacity.
type InsufficientCapacityError struct {
	Basket    string
	Requested float64
	Available float64
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("insufficient capacity in basket %q: requested %.2f, available %.2f", e.Basket, e.Requested, e.Available)
}

// UnsupportedModificationError is raised when an amendment's Modify
// directive targets a field outside the per-type whitelist.
type UnsupportedModificationError struct {
	Type  string
	Field string
}

func (e *UnsupportedModificationError) Error() string {
	return fmt.Sprintf("unsupported modification: %s.%s", e.Type, e.Field)
}

// MissingTargetError is raised when an amendment's Delete, Modify, or
// Replace directive names an element not present in its table.
type MissingTargetError struct {
	Type string
	Name string
}

func (e *MissingTargetError) Error() string {
	return fmt.Sprintf("missing target for amendment directive: %s %q", e.Type, e.Name)
}

// InvalidPeriodError is raised when SetEvaluationPeriod names a period
// that was not loaded.
type InvalidPeriodError struct {
	Period string
}

func (e *InvalidPeriodError) Error() string {
	return fmt.Sprintf("invalid period: %q is not loaded", e.Period)
}

// NotMultiPeriodError reports a multi-period operation attempted in
// simple mode. The evaluator never returns it: a trailing-window
// expression evaluated against simple financial data logs a warning and
// falls back to a single evaluation. GetComplianceHistory does return
// it when no periods are loaded.
type NotMultiPeriodError struct {
	Identifier string
}

func (e *NotMultiPeriodError) Error() string {
	return fmt.Sprintf("trailing window requested for %q but interpreter is not in multi-period mode", e.Identifier)
}
