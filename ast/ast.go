// Package ast defines the typed syntax tree produced by package parser and
// consumed by packages engine and prose.
package ast

// Span locates a node in the original source text. Concrete node types
// embed Span anonymously so Pos() is promoted automatically and the
// span can also be supplied positionally as a node literal's first field.
type Span struct {
	Line        int
	Column      int
	OffsetStart int
	OffsetEnd   int
}

// Pos implements Node for any type embedding Span.
func (s Span) Pos() Span { return s }

// Program is the root of a parsed ProViso source file: an ordered
// sequence of top-level statements.
type Program struct {
	Statements []Statement
}

// Statement is the discriminated union of top-level ProViso declarations.
// Concrete types implement statementNode so the set is closed to this
// package; callers type-switch on the concrete type.
type Statement interface {
	Node
	statementNode()
}

// Expression is the discriminated union of ProViso value expressions.
type Expression interface {
	Node
	expressionNode()
}

// Node is implemented by every AST entity.
type Node interface {
	Pos() Span
}
