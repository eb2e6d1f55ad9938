package parser

import "fmt"

// SyntaxError is the parser's single error contract: spec §4.A requires
// that a failing parse report at most one error, located precisely
// enough to point to the offending token.
type SyntaxError struct {
	Message     string
	Line        int
	Column      int
	OffsetStart int
	OffsetEnd   int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}
