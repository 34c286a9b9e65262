package domain

// ─── Store Interface ────────────────────────────────────────────────────────
// Store is the persistence boundary the economy engine requires from its
// infrastructure. Every mutating method is a conditional read-modify-write:
// the precondition (prior boolean, current state, sufficient funds, streak
// threshold) is enforced at write time inside one storage transaction, and
// a lost race surfaces as ErrConflict. Balance mutations and their paired
// ledger entries always commit atomically so the ledger-balance invariant
// holds for every reader.

// Store is implemented by infra/sqlite.
type Store interface {
	// Accounts.
	CreateAccount(a *Account) error
	GetAccount(id string) (*Account, error)
	ListAccounts() ([]Account, error)
	// DeleteAccount removes the account and every dependent row.
	DeleteAccount(id string) error

	// Transaction log.
	Transactions(accountID string, limit int) ([]Transaction, error)
	// LedgerSum returns Σ transaction amounts for the account. It must
	// equal the account balance at all times; the audit surface checks it.
	LedgerSum(accountID string) (int64, error)

	// Weekly task ledger.
	GetOrCreateTaskLog(accountID, weekID string, category TaskCategory, keys []string) (*TaskLog, error)
	GetTaskLog(accountID, weekID string, category TaskCategory) (*TaskLog, error)
	// ToggleTask flips one task boolean, applies delta to the balance and
	// appends the paired ledger entry. Returns changed=false (and performs
	// no writes) when the stored value already equals newValue.
	ToggleTask(accountID, weekID string, category TaskCategory, taskKey string, newValue bool, delta int64, reason string) (changed bool, err error)

	// Quiz redemption pipeline.
	InsertQuizResult(q *QuizResult) error
	GetQuizResult(id string) (*QuizResult, error)
	QuizResultsByState(accountID string, state QuizState) ([]QuizResult, error)
	// CashOutBag atomically moves all IN_BAG results for the account to
	// PENDING and returns how many moved. A concurrent duplicate call
	// finds nothing eligible and returns 0.
	CashOutBag(accountID string) (int, error)
	// ApproveQuizResult transitions PENDING → APPROVED and credits the
	// captured reward with the paired ledger entry.
	ApproveQuizResult(id, reason string) (*QuizResult, error)
	RejectQuizResult(id string) (*QuizResult, error)

	// Expense approval workflow.
	InsertExpenseRequest(e *ExpenseRequest) error
	GetExpenseRequest(id string) (*ExpenseRequest, error)
	ExpensesByAccount(accountID string) ([]ExpenseRequest, error)
	// ApproveExpense re-checks the balance at approval time; on
	// insufficient funds the request stays PENDING.
	ApproveExpense(id, reason string) (*ExpenseRequest, error)
	RejectExpense(id string) (*ExpenseRequest, error)
	// AttachSentiment records post-hoc sentiment; legal only on APPROVED.
	AttachSentiment(id string, s Sentiment) error

	// Savings goal vault.
	InsertGoal(g *SavingsGoal) error
	GetGoal(id string) (*SavingsGoal, error)
	GoalsByAccount(accountID string) ([]SavingsGoal, error)
	UpdateGoalMeta(id, title string, targetAmount int64) error
	// DepositToGoal and WithdrawFromGoal transfer between balance and
	// earmark, logging one ledger entry each; the conserved sum
	// balance + Σ currentAmount never changes through them.
	DepositToGoal(goalID string, amount int64, reason string) (*SavingsGoal, error)
	WithdrawFromGoal(goalID string, amount int64, reason string) (*SavingsGoal, error)
	// DeleteGoal forces a full withdrawal of any earmarked remainder back
	// to the balance before removing the goal.
	DeleteGoal(goalID, reason string) error

	// Streak exchange.
	// RecordPerfectWeek counts a week at most once per (account, week);
	// the second call reports recorded=false.
	RecordPerfectWeek(accountID, weekID string) (recorded bool, err error)
	// ExchangeStreak atomically checks streakWeeks ≥ cost, decrements by
	// cost and credits bonus with the paired ledger entry.
	ExchangeStreak(accountID string, cost int, bonus int64, reason string) (*Account, error)
}
