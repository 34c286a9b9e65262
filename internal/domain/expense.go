package domain

import "time"

// ─── Expense Approval Workflow Types ────────────────────────────────────────

// ExpenseState is the lifecycle state of a spend proposal.
type ExpenseState string

const (
	ExpensePending  ExpenseState = "PENDING"
	ExpenseApproved ExpenseState = "APPROVED"
	ExpenseRejected ExpenseState = "REJECTED"
)

// Terminal reports whether the state admits no further transitions.
func (s ExpenseState) Terminal() bool {
	return s == ExpenseApproved || s == ExpenseRejected
}

// ExpenseCategory classifies what the student wants the tokens for.
type ExpenseCategory string

const (
	ExpenseNeed ExpenseCategory = "NEED"
	ExpenseWant ExpenseCategory = "WANT"
)

// Valid reports whether c is a recognized expense category.
func (c ExpenseCategory) Valid() bool {
	return c == ExpenseNeed || c == ExpenseWant
}

// Sentiment is optional post-hoc metadata: how the student felt about the
// purchase. Attachable only after approval and never affects balance.
type Sentiment string

const (
	SentimentHappy   Sentiment = "HAPPY"
	SentimentNeutral Sentiment = "NEUTRAL"
	SentimentSad     Sentiment = "SAD"
)

// Valid reports whether s is a recognized sentiment.
func (s Sentiment) Valid() bool {
	return s == SentimentHappy || s == SentimentNeutral || s == SentimentSad
}

// ExpenseRequest is a student's proposal to convert balance into a
// real-world privilege or purchase. No balance is debited until an adult
// approves, and the balance is re-checked at approval time.
type ExpenseRequest struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	Amount      int64           `json:"amount"`
	Description string          `json:"description"`
	Category    ExpenseCategory `json:"category"`
	State       ExpenseState    `json:"state"`
	Sentiment   Sentiment       `json:"sentiment,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
