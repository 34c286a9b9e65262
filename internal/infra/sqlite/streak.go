package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/pocketbank-dev/pocketbank/internal/domain"
)

// ─── Streak Operations ──────────────────────────────────────────────────────

// RecordPerfectWeek counts a fully-completed week toward the streak.
// The perfect_weeks primary key makes each (account, week) count at most
// once: the second call reports recorded=false and changes nothing.
func (db *DB) RecordPerfectWeek(accountID, weekID string) (bool, error) {
	recorded := false
	err := db.withTx(func(tx *sql.Tx) error {
		if !accountExistsTx(tx, accountID) {
			return domain.ErrNotFound
		}

		res, err := tx.Exec(`
			INSERT OR IGNORE INTO perfect_weeks (account_id, week_id, recorded_at)
			VALUES (?, ?, ?)
		`, accountID, weekID, nowString())
		if err != nil {
			return fmt.Errorf("record perfect week: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			return nil // already counted
		}

		if _, err := tx.Exec(`
			UPDATE accounts SET streak_weeks = streak_weeks + 1, version = version + 1, updated_at = ?
			WHERE id = ?
		`, nowString(), accountID); err != nil {
			return fmt.Errorf("bump streak: %w", err)
		}
		recorded = true
		return nil
	})
	return recorded, err
}

// ExchangeStreak converts cost accumulated streak credits into a lump
// bonus. The decrement and the credit share one conditional UPDATE whose
// WHERE clause enforces streak_weeks ≥ cost, so two simultaneous exchanges
// can never both succeed on the same credits.
func (db *DB) ExchangeStreak(accountID string, cost int, bonus int64, reason string) (*domain.Account, error) {
	var out *domain.Account
	err := db.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			UPDATE accounts
			SET streak_weeks = streak_weeks - ?, balance = balance + ?, version = version + 1, updated_at = ?
			WHERE id = ? AND streak_weeks >= ?
		`, cost, bonus, nowString(), accountID, cost)
		if err != nil {
			return fmt.Errorf("exchange streak: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			if !accountExistsTx(tx, accountID) {
				return domain.ErrNotFound
			}
			return domain.ErrNotEligible
		}

		if err := appendLedgerEntry(tx, accountID, bonus, reason); err != nil {
			return err
		}

		a, err := scanAccount(tx.QueryRow(`
			SELECT id, name, balance, streak_weeks, version, created_at, updated_at
			FROM accounts WHERE id = ?
		`, accountID))
		if err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
