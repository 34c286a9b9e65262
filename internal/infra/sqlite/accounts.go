package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/pocketbank-dev/pocketbank/internal/domain"
)

// ─── Account Operations ─────────────────────────────────────────────────────

// CreateAccount inserts a new account row.
func (db *DB) CreateAccount(a *domain.Account) error {
	now := nowString()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = parseTime(now)
		a.UpdatedAt = a.CreatedAt
	}
	_, err := db.db.Exec(`
		INSERT INTO accounts (id, name, balance, streak_weeks, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.Name, a.Balance, a.StreakWeeks, a.Version, now, now)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetAccount retrieves an account by id.
func (db *DB) GetAccount(id string) (*domain.Account, error) {
	return scanAccount(db.db.QueryRow(`
		SELECT id, name, balance, streak_weeks, version, created_at, updated_at
		FROM accounts WHERE id = ?
	`, id))
}

// ListAccounts returns all accounts ordered by name.
func (db *DB) ListAccounts() ([]domain.Account, error) {
	rows, err := db.db.Query(`
		SELECT id, name, balance, streak_weeks, version, created_at, updated_at
		FROM accounts ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		var a domain.Account
		var created, updated string
		if err := rows.Scan(&a.ID, &a.Name, &a.Balance, &a.StreakWeeks, &a.Version, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.CreatedAt = parseTime(created)
		a.UpdatedAt = parseTime(updated)
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteAccount removes the account and every dependent row. History is
// unrecoverable afterwards, so callers gate this behind explicit intent.
func (db *DB) DeleteAccount(id string) error {
	return db.withTx(func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM task_items WHERE log_id IN (SELECT id FROM task_logs WHERE account_id = ?)`,
			`DELETE FROM task_logs WHERE account_id = ?`,
			`DELETE FROM quiz_results WHERE account_id = ?`,
			`DELETE FROM expense_requests WHERE account_id = ?`,
			`DELETE FROM savings_goals WHERE account_id = ?`,
			`DELETE FROM perfect_weeks WHERE account_id = ?`,
			`DELETE FROM transactions WHERE account_id = ?`,
		} {
			if _, err := tx.Exec(stmt, id); err != nil {
				return fmt.Errorf("cascade delete: %w", err)
			}
		}
		res, err := tx.Exec(`DELETE FROM accounts WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

func scanAccount(row *sql.Row) (*domain.Account, error) {
	var a domain.Account
	var created, updated string
	err := row.Scan(&a.ID, &a.Name, &a.Balance, &a.StreakWeeks, &a.Version, &created, &updated)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	a.CreatedAt = parseTime(created)
	a.UpdatedAt = parseTime(updated)
	return &a, nil
}

// ─── Transaction Log Reads ──────────────────────────────────────────────────

// Transactions returns the account's ledger entries, newest first.
// limit <= 0 returns everything.
func (db *DB) Transactions(accountID string, limit int) ([]domain.Transaction, error) {
	q := `
		SELECT id, account_id, amount, kind, reason, created_at
		FROM transactions WHERE account_id = ?
		ORDER BY created_at DESC, id DESC
	`
	args := []any{accountID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var kind, created string
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Amount, &kind, &t.Reason, &created); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Kind = domain.TxKind(kind)
		t.CreatedAt = parseTime(created)
		out = append(out, t)
	}
	return out, rows.Err()
}

// LedgerSum returns Σ transaction amounts for the account. The audit
// surface compares it against the stored balance.
func (db *DB) LedgerSum(accountID string) (int64, error) {
	var sum int64
	err := db.db.QueryRow(`
		SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE account_id = ?
	`, accountID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("ledger sum: %w", err)
	}
	return sum, nil
}
