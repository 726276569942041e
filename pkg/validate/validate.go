// Package validate implements the configuration validation pipeline:
// structural → semantic → reference, aggregated into a single report whose
// verdict gates deployment.
package validate

import (
	"fmt"

	"github.com/homecfg/hagate/pkg/refs"
)

// Validation phases, in pipeline order.
const (
	PhaseStructural = "structural"
	PhaseSemantic   = "semantic"
	PhaseReference  = "reference"
)

// Severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Classification of one reference finding.
type Classification string

const (
	// ClassValid — the reference resolves to an enabled registry entry, a
	// config-defined entity or a builtin.
	ClassValid Classification = "valid"
	// ClassUnknown — nothing in the snapshot or configuration defines the
	// identifier. Hard failure.
	ClassUnknown Classification = "unknown"
	// ClassDisabled — present but disabled. Warning only: disabled entities
	// are a legitimate transient state, not a configuration defect.
	ClassDisabled Classification = "disabled"
	// ClassConsistency — the entity resolves but its registry area/device
	// disagrees with the one named alongside it. Warning only.
	ClassConsistency Classification = "consistency"
)

// Finding is one classified reference.
type Finding struct {
	File           string         `json:"file"`
	Path           string         `json:"path,omitempty"`
	Line           int            `json:"line,omitempty"`
	ID             string         `json:"id"`
	Kind           refs.Kind      `json:"kind"`
	Classification Classification `json:"classification"`
	Detail         string         `json:"detail,omitempty"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s %q is %s", f.File, f.Kind, f.ID, f.Classification)
}

// SyntaxError is one structural or semantic problem in a file.
type SyntaxError struct {
	File     string `json:"file"`
	Line     int    `json:"line,omitempty"`
	Phase    string `json:"phase"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

func (e SyntaxError) String() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: [%s] %s", e.File, e.Line, e.Phase, e.Message)
	}
	return fmt.Sprintf("%s: [%s] %s", e.File, e.Phase, e.Message)
}

func errorf(file string, line int, phase, format string, args ...any) SyntaxError {
	return SyntaxError{File: file, Line: line, Phase: phase, Severity: SeverityError,
		Message: fmt.Sprintf(format, args...)}
}

func warningf(file string, line int, phase, format string, args ...any) SyntaxError {
	return SyntaxError{File: file, Line: line, Phase: phase, Severity: SeverityWarning,
		Message: fmt.Sprintf(format, args...)}
}

// Report aggregates one orchestrator run. It is immutable once returned;
// the verdict is computed here and nowhere else.
type Report struct {
	Verdict           bool          `json:"verdict"` // true = pass
	Files             []string      `json:"files"`
	Findings          []Finding     `json:"findings"`
	SyntaxErrors      []SyntaxError `json:"syntax_errors"`
	Advisories        []string      `json:"advisories,omitempty"`
	RegistryAvailable bool          `json:"registry_available"`
}

// Counts returns the number of findings per classification.
func (r *Report) Counts() map[Classification]int {
	counts := make(map[Classification]int, 4)
	for _, f := range r.Findings {
		counts[f.Classification]++
	}
	return counts
}

// SyntaxErrorCount returns the number of error-severity syntax entries.
// Warnings (e.g. a missing automation alias) do not count.
func (r *Report) SyntaxErrorCount() int {
	n := 0
	for _, e := range r.SyntaxErrors {
		if e.Severity == SeverityError {
			n++
		}
	}
	return n
}

// WarningCount returns disabled + consistency findings plus warning-severity
// syntax entries.
func (r *Report) WarningCount() int {
	counts := r.Counts()
	n := counts[ClassDisabled] + counts[ClassConsistency]
	for _, e := range r.SyntaxErrors {
		if e.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

// finalize computes the verdict: fail iff at least one syntax error exists
// or at least one finding is unknown.
func (r *Report) finalize() {
	counts := r.Counts()
	r.Verdict = r.SyntaxErrorCount() == 0 && counts[ClassUnknown] == 0
}
