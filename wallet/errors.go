package wallet

import (
	"github.com/pkg/errors"
)

// Sentinel errors for the engine's failure taxonomy. Callers classify
// with errors.Is; wrapped context is attached at the failure site.
var (
	// Validation class: the caller's fault, never retried.
	ErrInvalidAddress = errors.New("InvalidAddress")
	ErrInvalidKey     = errors.New("InvalidKey")
	ErrInvalidAmount  = errors.New("InvalidAmount")

	// Business-rule rejections, surfaced verbatim.
	ErrInsufficientBalance = errors.New("InsufficientBalance")
	ErrAccountNotFound     = errors.New("AccountNotFound")

	// StateConflict is a stale previous hash or a concurrent mutation of
	// the account chain. Recovered locally with fresh state, bounded.
	ErrStateConflict = errors.New("StateConflict")

	// External service class: surfaced after the bounded retry budget.
	ErrWorkGeneration    = errors.New("WorkGenerationFailed")
	ErrLedgerUnavailable = errors.New("LedgerUnavailable")

	// SubmissionRejected is a ledger validation error that is not a state
	// conflict. Never retried automatically: the caller's intended
	// balance delta may already be stale.
	ErrSubmissionRejected = errors.New("SubmissionRejected")
)

func IsStateConflict(err error) bool {
	return errors.Is(err, ErrStateConflict)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAddress) || errors.Is(err, ErrInvalidKey) || errors.Is(err, ErrInvalidAmount)
}
