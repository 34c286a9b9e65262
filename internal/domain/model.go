// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of the economy engine — it depends on nothing.
package domain

import "time"

// ─── Account ────────────────────────────────────────────────────────────────

// Account is the ledger owner: a student holding a token balance and a
// count of exchangeable perfect-week streak credits.
//
// Balance is measured in the smallest token unit and is never negative.
// Version is the optimistic-concurrency token: every balance or streak
// mutation increments it, and writers commit only if the version they read
// is still current.
type Account struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Balance     int64     `json:"balance"`
	StreakWeeks int       `json:"streak_weeks"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ─── Transaction ────────────────────────────────────────────────────────────

// TxKind classifies the direction of a ledger entry.
type TxKind string

const (
	TxEarn  TxKind = "EARN"
	TxSpend TxKind = "SPEND"
)

// KindForAmount returns the kind implied by a signed delta.
func KindForAmount(amount int64) TxKind {
	if amount < 0 {
		return TxSpend
	}
	return TxEarn
}

// Transaction is an immutable record of a single signed balance change.
// The transaction log is append-only and is the sole source of truth for
// balance history: at all times an account's balance equals the sum of its
// transaction amounts.
type Transaction struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Amount    int64     `json:"amount"`
	Kind      TxKind    `json:"kind"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}
