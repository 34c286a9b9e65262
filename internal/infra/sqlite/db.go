// Package sqlite persists the economy engine's state.
// One database file holds accounts, the append-only transaction log, weekly
// task logs, quiz results, expense requests, savings goals and perfect-week
// records. Every mutating operation runs as a single SQLite transaction
// whose UPDATE statements carry their precondition in the WHERE clause, so
// a writer that lost a race affects zero rows and the operation reports a
// conflict instead of clobbering newer state.
package sqlite

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"

	"github.com/pocketbank-dev/pocketbank/internal/domain"
)

// DB wraps the SQLite connection and implements domain.Store.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database under dir and applies migrations.
func Open(dir string) (*DB, error) {
	path := filepath.Join(dir, "pocketbank.db")
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", path)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// A single writer connection keeps transactions serialized without
	// SQLITE_BUSY churn; reads are short enough to share it.
	conn.SetMaxOpenConns(1)

	db := &DB{db: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.db.Close()
}

// migrate applies all schema statements. Each is idempotent.
func (db *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := db.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// ─── Transaction Helpers ────────────────────────────────────────────────────

// withTx runs fn inside a transaction, committing on nil and rolling back
// otherwise. Domain errors pass through unwrapped so callers can errors.Is.
func (db *DB) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// applyBalanceDelta adjusts the account balance inside tx. The WHERE clause
// keeps the balance non-negative and bumps the optimistic-concurrency
// version. Zero rows means the account is gone or the delta would overdraw.
func applyBalanceDelta(tx *sql.Tx, accountID string, delta int64) error {
	res, err := tx.Exec(`
		UPDATE accounts
		SET balance = balance + ?, version = version + 1, updated_at = ?
		WHERE id = ? AND balance + ? >= 0
	`, delta, nowString(), accountID, delta)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		if !accountExistsTx(tx, accountID) {
			return domain.ErrNotFound
		}
		return domain.ErrInsufficientBalance
	}
	return nil
}

// appendLedgerEntry writes the transaction-log row paired with a balance
// delta. Always called in the same tx as applyBalanceDelta so the ledger
// invariant holds for every reader.
func appendLedgerEntry(tx *sql.Tx, accountID string, amount int64, reason string) error {
	_, err := tx.Exec(`
		INSERT INTO transactions (id, account_id, amount, kind, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), accountID, amount, string(domain.KindForAmount(amount)), reason, nowString())
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

func accountExistsTx(tx *sql.Tx, accountID string) bool {
	var one int
	err := tx.QueryRow(`SELECT 1 FROM accounts WHERE id = ?`, accountID).Scan(&one)
	return err == nil
}

// ─── Time Encoding ──────────────────────────────────────────────────────────

func nowString() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
