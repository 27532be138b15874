package target

import (
	"fmt"
	"strings"
)

// Effect records a target whose operations all succeeded.
type Effect struct {
	Target         ID
	ComponentCount int
}

// Failure records the first error hit while processing a target.
type Failure struct {
	Target  ID
	Message string
}

// AffectedTargets accumulates per-target outcomes. It is append-only.
type AffectedTargets struct {
	Effects []Effect
	Errors  []Failure
}

// RecordSuccess records count completed operations for target. Zero counts
// are not recorded.
func (a *AffectedTargets) RecordSuccess(target ID, count int) {
	if count == 0 {
		return
	}
	a.Effects = append(a.Effects, Effect{Target: target, ComponentCount: count})
}

// RecordError records a failure for target.
func (a *AffectedTargets) RecordError(target ID, message string) {
	a.Errors = append(a.Errors, Failure{Target: target, Message: message})
}

// HasErrors reports whether any failure was recorded.
func (a *AffectedTargets) HasErrors() bool {
	return len(a.Errors) > 0
}

// TotalComponents sums the counts of all recorded effects.
func (a *AffectedTargets) TotalComponents() int {
	total := 0
	for _, e := range a.Effects {
		total += e.ComponentCount
	}
	return total
}

// Targets returns the targets that succeeded, in record order.
func (a *AffectedTargets) Targets() []ID {
	out := make([]ID, 0, len(a.Effects))
	for _, e := range a.Effects {
		out = append(out, e.Target)
	}
	return out
}

// ErrorMessage joins failures as "target: message; target: message".
func (a *AffectedTargets) ErrorMessage() string {
	parts := make([]string, 0, len(a.Errors))
	for _, e := range a.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Target, e.Message))
	}
	return strings.Join(parts, "; ")
}

// Result converts the accumulator into an OperationResult.
func (a *AffectedTargets) Result() OperationResult {
	return OperationResult{
		Success:  !a.HasErrors(),
		Error:    a.ErrorMessage(),
		Affected: *a,
	}
}

// OperationResult is the outcome of a plugin action across targets.
type OperationResult struct {
	Success bool
	// Error aggregates every target failure; empty on success.
	Error    string
	Affected AffectedTargets
}

// Failed builds a result for an action that failed before reaching any
// target.
func Failed(err error) OperationResult {
	return OperationResult{Success: false, Error: err.Error()}
}

// Err returns the aggregated failure as an error, or nil on success.
func (r OperationResult) Err() error {
	if r.Success {
		return nil
	}
	return &AggregateError{Message: r.Error}
}

// AggregateError carries the per-target failures of an OperationResult.
type AggregateError struct {
	Message string
}

func (e *AggregateError) Error() string { return e.Message }
