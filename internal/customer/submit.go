package customer

import (
	"context"
	"fmt"
)

// Inserter persists a record and returns its assigned ID.
type Inserter interface {
	Insert(ctx context.Context, r Record) (int64, error)
}

// SubmitState is the terminal state of one submit attempt.
type SubmitState string

const (
	StateRejected  SubmitState = "rejected"  // Validation failed, nothing written.
	StateFailed    SubmitState = "failed"    // Insert failed and was rolled back.
	StateSucceeded SubmitState = "succeeded" // Record persisted, form cleared.
)

// Outcome is the result of Submit. Form is the form to display next.
type Outcome struct {
	State   SubmitState
	Form    Form
	ID      int64
	Message string
	Err     error
}

// Submit validates f and, when valid, inserts it through ins.
//
// A rejected form is returned unchanged. A failed insert returns the
// normalized form so the user can retry. A successful insert returns a
// cleared form with the contact method back at its default.
func Submit(ctx context.Context, ins Inserter, f Form) Outcome {
	if err := Validate(f); err != nil {
		return Outcome{State: StateRejected, Form: f, Err: err}
	}

	norm := f.Normalize()
	id, err := ins.Insert(ctx, norm.Record())
	if err != nil {
		return Outcome{
			State: StateFailed,
			Form:  norm,
			Err:   fmt.Errorf("customer: saving %q: %w", norm.Name, err),
		}
	}

	return Outcome{
		State:   StateSucceeded,
		Form:    norm.Reset(),
		ID:      id,
		Message: fmt.Sprintf("Customer '%s' successfully saved!", norm.Name),
	}
}
