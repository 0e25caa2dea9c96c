// Package parser turns the text of kernel status files into model facts.
// Parsers never perform I/O.
package parser

import "fmt"

// ParseError describes malformed status text. Line is 1-based, 0 when the
// problem is not tied to a line.
type ParseError struct {
	Source string
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parsing %s line %d: %s", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("parsing %s: %s", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
