package calculation

import "errors"

// ErrNoCandidate means a grid search finished without a winner. The zero candidate is
// always evaluated, so this indicates a bug rather than bad input.
var ErrNoCandidate = errors.New("no candidate evaluated")

// PlanError reports a failed optimizer run.
type PlanError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *PlanError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *PlanError) Unwrap() error {
	return e.Cause
}
