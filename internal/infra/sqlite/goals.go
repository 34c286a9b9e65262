package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/pocketbank-dev/pocketbank/internal/domain"
)

// ─── Savings Goal Vault Operations ──────────────────────────────────────────
// Deposits and withdrawals are transfers between the spendable balance and
// the goal's earmark. The conserved quantity balance + Σ current_amount
// never changes here — only the four crediting/debiting pipelines move it.

// InsertGoal creates a goal with nothing earmarked yet.
func (db *DB) InsertGoal(g *domain.SavingsGoal) error {
	return db.withTx(func(tx *sql.Tx) error {
		if !accountExistsTx(tx, g.AccountID) {
			return domain.ErrNotFound
		}
		now := nowString()
		if g.CreatedAt.IsZero() {
			g.CreatedAt = parseTime(now)
			g.UpdatedAt = g.CreatedAt
		}
		_, err := tx.Exec(`
			INSERT INTO savings_goals (id, account_id, title, target_amount, current_amount, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, g.ID, g.AccountID, g.Title, g.TargetAmount, g.CurrentAmount, now, now)
		if err != nil {
			return fmt.Errorf("insert goal: %w", err)
		}
		return nil
	})
}

// GetGoal retrieves one goal.
func (db *DB) GetGoal(id string) (*domain.SavingsGoal, error) {
	return scanGoal(db.db.QueryRow(`
		SELECT id, account_id, title, target_amount, current_amount, created_at, updated_at
		FROM savings_goals WHERE id = ?
	`, id))
}

// GoalsByAccount lists an account's goals, oldest first.
func (db *DB) GoalsByAccount(accountID string) ([]domain.SavingsGoal, error) {
	rows, err := db.db.Query(`
		SELECT id, account_id, title, target_amount, current_amount, created_at, updated_at
		FROM savings_goals WHERE account_id = ?
		ORDER BY created_at, id
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []domain.SavingsGoal
	for rows.Next() {
		var g domain.SavingsGoal
		var created, updated string
		if err := rows.Scan(&g.ID, &g.AccountID, &g.Title, &g.TargetAmount, &g.CurrentAmount, &created, &updated); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g.CreatedAt = parseTime(created)
		g.UpdatedAt = parseTime(updated)
		out = append(out, g)
	}
	return out, rows.Err()
}

// UpdateGoalMeta renames a goal or adjusts its target. Metadata only:
// the earmarked amount and the balance are untouched.
func (db *DB) UpdateGoalMeta(id, title string, targetAmount int64) error {
	res, err := db.db.Exec(`
		UPDATE savings_goals SET title = ?, target_amount = ?, updated_at = ? WHERE id = ?
	`, title, targetAmount, nowString(), id)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DepositToGoal moves amount from the spendable balance into the earmark.
// Fails with domain.ErrInsufficientBalance when the balance can't cover it.
func (db *DB) DepositToGoal(goalID string, amount int64, reason string) (*domain.SavingsGoal, error) {
	var out *domain.SavingsGoal
	err := db.withTx(func(tx *sql.Tx) error {
		g, err := goalTx(tx, goalID)
		if err != nil {
			return err
		}

		if err := applyBalanceDelta(tx, g.AccountID, -amount); err != nil {
			return err
		}
		if _, err := tx.Exec(`
			UPDATE savings_goals SET current_amount = current_amount + ?, updated_at = ? WHERE id = ?
		`, amount, nowString(), goalID); err != nil {
			return fmt.Errorf("credit goal: %w", err)
		}
		if err := appendLedgerEntry(tx, g.AccountID, -amount, reason); err != nil {
			return err
		}

		g.CurrentAmount += amount
		out = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// WithdrawFromGoal moves amount from the earmark back to the balance.
// The debit is conditional on the goal still holding enough, so a raced
// withdrawal can't overdraw the earmark.
func (db *DB) WithdrawFromGoal(goalID string, amount int64, reason string) (*domain.SavingsGoal, error) {
	var out *domain.SavingsGoal
	err := db.withTx(func(tx *sql.Tx) error {
		g, err := withdrawTx(tx, goalID, amount, reason)
		if err != nil {
			return err
		}
		out = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteGoal removes a goal, first forcing a full withdrawal of any
// earmarked remainder so no value is destroyed with the goal.
func (db *DB) DeleteGoal(goalID, reason string) error {
	return db.withTx(func(tx *sql.Tx) error {
		g, err := goalTx(tx, goalID)
		if err != nil {
			return err
		}
		if g.CurrentAmount > 0 {
			if _, err := withdrawTx(tx, goalID, g.CurrentAmount, reason); err != nil {
				return err
			}
		}
		res, err := tx.Exec(`DELETE FROM savings_goals WHERE id = ? AND current_amount = 0`, goalID)
		if err != nil {
			return fmt.Errorf("delete goal: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrConflict
		}
		return nil
	})
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// withdrawTx performs the earmark→balance transfer inside tx.
func withdrawTx(tx *sql.Tx, goalID string, amount int64, reason string) (*domain.SavingsGoal, error) {
	g, err := goalTx(tx, goalID)
	if err != nil {
		return nil, err
	}

	res, err := tx.Exec(`
		UPDATE savings_goals SET current_amount = current_amount - ?, updated_at = ?
		WHERE id = ? AND current_amount >= ?
	`, amount, nowString(), goalID, amount)
	if err != nil {
		return nil, fmt.Errorf("debit goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrInsufficientBalance
	}

	if err := applyBalanceDelta(tx, g.AccountID, amount); err != nil {
		return nil, err
	}
	if err := appendLedgerEntry(tx, g.AccountID, amount, reason); err != nil {
		return nil, err
	}

	g.CurrentAmount -= amount
	return g, nil
}

func goalTx(tx *sql.Tx, id string) (*domain.SavingsGoal, error) {
	return scanGoal(tx.QueryRow(`
		SELECT id, account_id, title, target_amount, current_amount, created_at, updated_at
		FROM savings_goals WHERE id = ?
	`, id))
}

func scanGoal(row *sql.Row) (*domain.SavingsGoal, error) {
	var g domain.SavingsGoal
	var created, updated string
	err := row.Scan(&g.ID, &g.AccountID, &g.Title, &g.TargetAmount, &g.CurrentAmount, &created, &updated)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan goal: %w", err)
	}
	g.CreatedAt = parseTime(created)
	g.UpdatedAt = parseTime(updated)
	return &g, nil
}
