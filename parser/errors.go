package parser

import "fmt"

// ParseError reports a statement-level syntax problem. The line heuristics
// degrade malformed lines to Comment directives instead of failing, so this
// type is reserved for explicitly constructed fatal cases rather than being
// raised during normal parsing.
type ParseError struct {
	Source  string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("parse error: %s", e.Message)
	}
	return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Message)
}
