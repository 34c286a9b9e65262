package domain

import "time"

// ─── Savings Goal Types ─────────────────────────────────────────────────────

// SavingsGoal is an earmarked sub-balance tied to a named target.
// CurrentAmount logically still belongs to the account but is not spendable
// until withdrawn: deposits and withdrawals are transfers between balance
// and goal, never creation or destruction of value.
type SavingsGoal struct {
	ID            string    `json:"id"`
	AccountID     string    `json:"account_id"`
	Title         string    `json:"title"`
	TargetAmount  int64     `json:"target_amount"`
	CurrentAmount int64     `json:"current_amount"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Reached reports whether the goal's earmarked amount meets its target.
func (g *SavingsGoal) Reached() bool {
	return g.CurrentAmount >= g.TargetAmount
}
