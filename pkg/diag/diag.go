// Package diag implements the error taxonomy of spec.md §7: a fatal/
// non-fatal split where non-fatal kinds accumulate as Diagnostics on the
// AnalysisResult and fatal kinds abort the pipeline via a returned error.
//
// The teacher's own code never reaches for a third-party error-wrapping
// library (pkg/errors, go-errors/errors) even though both are transitively
// present via stretchr/testify; every error path in inspector/* and
// analyzer/* is plain fmt.Errorf("...: %w", err). diag follows that idiom.
package diag

import "fmt"

// Kind names one of the six error categories from spec.md §7.
type Kind string

const (
	WalkFailure         Kind = "WalkFailure"
	ParseFailure        Kind = "ParseFailure"
	ResolutionMiss       Kind = "ResolutionMiss"
	IdentifierCollision Kind = "IdentifierCollision"
	ConfigurationError  Kind = "ConfigurationError"
	HelperUnavailable   Kind = "HelperUnavailable"
)

// fatal reports whether a kind aborts the pipeline outright (spec §7
// propagation policy).
func (k Kind) fatal() bool {
	switch k {
	case IdentifierCollision, ConfigurationError:
		return true
	default:
		return false
	}
}

// Fatal reports whether k aborts the pipeline (exported for callers that
// need to branch on it directly, e.g. the pipeline orchestrator).
func (k Kind) Fatal() bool { return k.fatal() }

// Diagnostic is one non-fatal entry accumulated during a run: a skipped
// file, an unresolved reference, or a degraded front-end (spec §6
// "diagnostics").
type Diagnostic struct {
	Kind     Kind
	Path     string
	Line     int
	Frontend string // front-end identity, when relevant (ParseFailure)
	Stage    string // "tokenize" / "parse" / "extract", when relevant
	Message  string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s: %s:%d: %s", d.Kind, d.Path, d.Line, d.Message)
	}
	if d.Path != "" {
		return fmt.Sprintf("%s: %s: %s", d.Kind, d.Path, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// Error wraps a fatal diagnostic so the pipeline can return it as a normal
// Go error while still exposing the structured Kind/Diagnostic to callers
// via errors.As.
type Error struct {
	Diagnostic
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Diagnostic.String(), e.Cause)
	}
	return e.Diagnostic.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// NewFatal builds a fatal *Error for one of the two fatal kinds.
func NewFatal(kind Kind, message string, cause error) *Error {
	return &Error{Diagnostic: Diagnostic{Kind: kind, Message: message}, Cause: cause}
}

// Collector accumulates non-fatal diagnostics across all phases and
// surfaces them on the final AnalysisResult (spec §6).
type Collector struct {
	items []Diagnostic
}

// Add records one diagnostic. It does not filter by kind: the Model Builder
// records IdentifierCollision entries here for collisions it disambiguated.
func (c *Collector) Add(d Diagnostic) {
	c.items = append(c.items, d)
}

// Items returns the diagnostics collected so far, in the order recorded.
func (c *Collector) Items() []Diagnostic { return c.items }

// CountKind returns how many diagnostics of kind k were recorded.
func (c *Collector) CountKind(k Kind) int {
	n := 0
	for _, d := range c.items {
		if d.Kind == k {
			n++
		}
	}
	return n
}
