package invoices

import (
	"errors"

	"github.com/yourusername/acme-invoices/validation"
)

// ValidationError carries the per-field messages of a rejected form.
type ValidationError struct {
	Errors  validation.Errors
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PersistenceError is a failed store call. Message is safe to show to
// users; Err is the underlying cause and is only logged.
type PersistenceError struct {
	Message string
	Err     error
}

func (e *PersistenceError) Error() string {
	return e.Message
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// State is what a form view shows after a failed mutation.
type State struct {
	Errors  validation.Errors `json:"errors,omitempty"`
	Message string            `json:"message,omitempty"`
}

// StateOf converts a mutation error into form state. Unknown errors get a
// generic message so their details never reach the user.
func StateOf(err error) State {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return State{Errors: verr.Errors, Message: verr.Message}
	}
	var perr *PersistenceError
	if errors.As(err, &perr) {
		return State{Message: perr.Message}
	}
	return State{Message: "Something went wrong."}
}
