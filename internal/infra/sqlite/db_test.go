package sqlite

import (
	"testing"

	"github.com/google/uuid"

	"github.com/pocketbank-dev/pocketbank/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// newTestAccount creates an empty account and returns its id.
func newTestAccount(t *testing.T, db *DB) string {
	t.Helper()
	a := &domain.Account{ID: uuid.NewString(), Name: "kid"}
	if err := db.CreateAccount(a); err != nil {
		t.Fatalf("CreateAccount() error: %v", err)
	}
	return a.ID
}

// fundAccount credits amount through the quiz pipeline so the ledger
// invariant holds for the seeded balance.
func fundAccount(t *testing.T, db *DB, accountID string, amount int64) {
	t.Helper()
	q := &domain.QuizResult{
		ID:           uuid.NewString(),
		AccountID:    accountID,
		ChallengeID:  "seed",
		RewardAmount: amount,
		State:        domain.QuizInBag,
	}
	if err := db.InsertQuizResult(q); err != nil {
		t.Fatalf("fund: insert quiz: %v", err)
	}
	if _, err := db.CashOutBag(accountID); err != nil {
		t.Fatalf("fund: cash out: %v", err)
	}
	if _, err := db.ApproveQuizResult(q.ID, "seed funds"); err != nil {
		t.Fatalf("fund: approve: %v", err)
	}
}

// checkLedger asserts balance == Σ transaction amounts for the account.
// Every mutating test calls it after the operation under test.
func checkLedger(t *testing.T, db *DB, accountID string) {
	t.Helper()
	a, err := db.GetAccount(accountID)
	if err != nil {
		t.Fatalf("GetAccount() error: %v", err)
	}
	sum, err := db.LedgerSum(accountID)
	if err != nil {
		t.Fatalf("LedgerSum() error: %v", err)
	}
	if a.Balance != sum {
		t.Fatalf("ledger invariant broken: balance=%d, Σamounts=%d", a.Balance, sum)
	}
}

func TestMigrations_TablesExist(t *testing.T) {
	db := newTestDB(t)

	tables := []string{
		"accounts",
		"transactions",
		"task_logs",
		"task_items",
		"quiz_results",
		"expense_requests",
		"savings_goals",
		"perfect_weeks",
	}

	for _, table := range tables {
		var count int
		err := db.db.QueryRow(
			`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("checking table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("table %s not found in database", table)
		}
	}
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	id := newTestAccount(t, db)
	db.Close()

	// Migrations are idempotent and data survives reopen.
	db2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer db2.Close()
	if _, err := db2.GetAccount(id); err != nil {
		t.Errorf("account lost across reopen: %v", err)
	}
}
