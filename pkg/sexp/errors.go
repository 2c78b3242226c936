package sexp

import "fmt"

// SyntaxError is reported when the input is not well-formed s-expression
// notation.
type SyntaxError struct {
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

// SlotError is reported when a well-formed s-expression does not have the
// slots its type requires.
type SlotError struct {
	Type string
	Line int
	Msg  string
}

func (e *SlotError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: malformed %s: %s", e.Line, e.Type, e.Msg)
	}
	return fmt.Sprintf("malformed %s: %s", e.Type, e.Msg)
}
