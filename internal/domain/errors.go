package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. Every economy
// operation returns one of these for its expected failure modes; callers
// branch with errors.Is.

var (
	// ErrValidation covers malformed or out-of-range input: a non-positive
	// amount, an unknown task key, an unrecognized category.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientBalance means a balance- or goal-scoped precondition
	// failed: the account (or goal) does not hold enough to cover the amount.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidTransition means an operation was attempted on a state
	// machine already in a terminal or incompatible state, e.g. approving
	// a rejected expense request.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrNotEligible means a domain precondition is unmet, e.g. exchanging
	// a streak below the threshold.
	ErrNotEligible = errors.New("not eligible")

	// ErrConflict means an optimistic-concurrency precondition failed
	// because another writer won the race. Callers should re-fetch and
	// retry or surface a conflict message.
	ErrConflict = errors.New("concurrent modification")
)
