package model

import "fmt"

// DiagnosticKind classifies a locally recovered decode problem.
type DiagnosticKind string

const (
	// DiagMalformedLine marks a section line that failed its field-count
	// or length check and was skipped.
	DiagMalformedLine DiagnosticKind = "malformed_line"
	// DiagInvalidSet marks a set record whose score failed the completion rule.
	DiagInvalidSet DiagnosticKind = "invalid_set"
	// DiagUnresolvedPlayer marks a rally-log line whose team/number pair has
	// no roster entry.
	DiagUnresolvedPlayer DiagnosticKind = "unresolved_player"
)

// Diagnostic records one skipped line. Line is 1-based within the file.
type Diagnostic struct {
	Section string
	Line    int
	Kind    DiagnosticKind
	Detail  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d %s: %s", d.Section, d.Line, d.Kind, d.Detail)
}
