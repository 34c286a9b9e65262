package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/pocketbank-dev/pocketbank/internal/domain"
)

// ─── Weekly Task Ledger Operations ──────────────────────────────────────────

// GetOrCreateTaskLog returns the (account, week, category) log, creating it
// lazily with every key initialized to false. Concurrent first reads of the
// same week race benignly: INSERT OR IGNORE keeps exactly one winner.
func (db *DB) GetOrCreateTaskLog(accountID, weekID string, category domain.TaskCategory, keys []string) (*domain.TaskLog, error) {
	var log *domain.TaskLog
	err := db.withTx(func(tx *sql.Tx) error {
		if !accountExistsTx(tx, accountID) {
			return domain.ErrNotFound
		}

		logID, err := taskLogID(tx, accountID, weekID, category)
		if err == domain.ErrNotFound {
			logID = uuid.NewString()
			if _, err := tx.Exec(`
				INSERT OR IGNORE INTO task_logs (id, account_id, week_id, category, created_at)
				VALUES (?, ?, ?, ?, ?)
			`, logID, accountID, weekID, string(category), nowString()); err != nil {
				return fmt.Errorf("insert task log: %w", err)
			}
			// Another writer may have won the INSERT OR IGNORE.
			logID, err = taskLogID(tx, accountID, weekID, category)
			if err != nil {
				return err
			}
			for _, key := range keys {
				if _, err := tx.Exec(`
					INSERT OR IGNORE INTO task_items (log_id, task_key, done) VALUES (?, ?, 0)
				`, logID, key); err != nil {
					return fmt.Errorf("insert task item: %w", err)
				}
			}
		} else if err != nil {
			return err
		}

		log, err = readTaskLog(tx, logID, accountID, weekID, category)
		return err
	})
	if err != nil {
		return nil, err
	}
	return log, nil
}

// GetTaskLog returns the log if it exists, domain.ErrNotFound otherwise.
func (db *DB) GetTaskLog(accountID, weekID string, category domain.TaskCategory) (*domain.TaskLog, error) {
	var log *domain.TaskLog
	err := db.withTx(func(tx *sql.Tx) error {
		logID, err := taskLogID(tx, accountID, weekID, category)
		if err != nil {
			return err
		}
		log, err = readTaskLog(tx, logID, accountID, weekID, category)
		return err
	})
	if err != nil {
		return nil, err
	}
	return log, nil
}

// ToggleTask flips one task boolean and applies the paired reward delta.
//
// When the stored value already equals newValue the call is a no-op: no
// balance change, no ledger entry, changed=false. That idempotence is what
// keeps duplicated UI events and retries from double-rewarding.
//
// The flip itself is conditional on the prior value, so two opposing
// concurrent toggles cannot both apply their delta — the loser sees
// domain.ErrConflict.
func (db *DB) ToggleTask(accountID, weekID string, category domain.TaskCategory, taskKey string, newValue bool, delta int64, reason string) (bool, error) {
	changed := false
	err := db.withTx(func(tx *sql.Tx) error {
		logID, err := taskLogID(tx, accountID, weekID, category)
		if err != nil {
			return err
		}

		var done bool
		err = tx.QueryRow(`
			SELECT done FROM task_items WHERE log_id = ? AND task_key = ?
		`, logID, taskKey).Scan(&done)
		if err == sql.ErrNoRows {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("read task item: %w", err)
		}

		if done == newValue {
			return nil // idempotent no-op
		}

		res, err := tx.Exec(`
			UPDATE task_items SET done = ? WHERE log_id = ? AND task_key = ? AND done = ?
		`, newValue, logID, taskKey, done)
		if err != nil {
			return fmt.Errorf("update task item: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrConflict
		}

		if err := applyBalanceDelta(tx, accountID, delta); err != nil {
			return err
		}
		if err := appendLedgerEntry(tx, accountID, delta, reason); err != nil {
			return err
		}
		changed = true
		return nil
	})
	return changed, err
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func taskLogID(tx *sql.Tx, accountID, weekID string, category domain.TaskCategory) (string, error) {
	var id string
	err := tx.QueryRow(`
		SELECT id FROM task_logs WHERE account_id = ? AND week_id = ? AND category = ?
	`, accountID, weekID, string(category)).Scan(&id)
	if err == sql.ErrNoRows {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read task log: %w", err)
	}
	return id, nil
}

func readTaskLog(tx *sql.Tx, logID, accountID, weekID string, category domain.TaskCategory) (*domain.TaskLog, error) {
	rows, err := tx.Query(`SELECT task_key, done FROM task_items WHERE log_id = ?`, logID)
	if err != nil {
		return nil, fmt.Errorf("read task items: %w", err)
	}
	defer rows.Close()

	completion := make(map[string]bool)
	for rows.Next() {
		var key string
		var done bool
		if err := rows.Scan(&key, &done); err != nil {
			return nil, fmt.Errorf("scan task item: %w", err)
		}
		completion[key] = done
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.TaskLog{
		ID:         logID,
		AccountID:  accountID,
		WeekID:     weekID,
		Category:   category,
		Completion: completion,
	}, nil
}
