package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/pocketbank-dev/pocketbank/internal/domain"
)

// ─── Expense Approval Workflow Operations ───────────────────────────────────

// InsertExpenseRequest creates a PENDING spend proposal. No balance effect
// until an adult approves.
func (db *DB) InsertExpenseRequest(e *domain.ExpenseRequest) error {
	return db.withTx(func(tx *sql.Tx) error {
		if !accountExistsTx(tx, e.AccountID) {
			return domain.ErrNotFound
		}
		now := nowString()
		if e.CreatedAt.IsZero() {
			e.CreatedAt = parseTime(now)
		}
		_, err := tx.Exec(`
			INSERT INTO expense_requests (id, account_id, amount, description, category, state, sentiment, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, e.ID, e.AccountID, e.Amount, e.Description, string(e.Category), string(e.State), string(e.Sentiment), now)
		if err != nil {
			return fmt.Errorf("insert expense request: %w", err)
		}
		return nil
	})
}

// GetExpenseRequest retrieves one workflow row.
func (db *DB) GetExpenseRequest(id string) (*domain.ExpenseRequest, error) {
	return scanExpense(db.db.QueryRow(`
		SELECT id, account_id, amount, description, category, state, sentiment, created_at
		FROM expense_requests WHERE id = ?
	`, id))
}

// ExpensesByAccount lists an account's requests, newest first.
func (db *DB) ExpensesByAccount(accountID string) ([]domain.ExpenseRequest, error) {
	rows, err := db.db.Query(`
		SELECT id, account_id, amount, description, category, state, sentiment, created_at
		FROM expense_requests WHERE account_id = ?
		ORDER BY created_at DESC, id DESC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []domain.ExpenseRequest
	for rows.Next() {
		var e domain.ExpenseRequest
		var category, state, sentiment, created string
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Amount, &e.Description, &category, &state, &sentiment, &created); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.Category = domain.ExpenseCategory(category)
		e.State = domain.ExpenseState(state)
		e.Sentiment = domain.Sentiment(sentiment)
		e.CreatedAt = parseTime(created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// ApproveExpense re-checks the balance at approval time — the balance may
// have been spent elsewhere since the request was filed. On insufficient
// funds the request stays PENDING for the adult to reject or retry later.
// On success the debit, the ledger entry and the state flip commit together.
func (db *DB) ApproveExpense(id, reason string) (*domain.ExpenseRequest, error) {
	var out *domain.ExpenseRequest
	err := db.withTx(func(tx *sql.Tx) error {
		e, err := expenseTx(tx, id)
		if err != nil {
			return err
		}
		if e.State.Terminal() {
			return domain.ErrInvalidTransition
		}

		// Debit first: applyBalanceDelta enforces balance ≥ amount, and
		// its failure rolls the whole transaction back, leaving the
		// request PENDING.
		if err := applyBalanceDelta(tx, e.AccountID, -e.Amount); err != nil {
			return err
		}
		if err := appendLedgerEntry(tx, e.AccountID, -e.Amount, reason); err != nil {
			return err
		}

		res, err := tx.Exec(`
			UPDATE expense_requests SET state = ? WHERE id = ? AND state = ?
		`, string(domain.ExpenseApproved), id, string(domain.ExpensePending))
		if err != nil {
			return fmt.Errorf("approve expense: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrConflict
		}

		e.State = domain.ExpenseApproved
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RejectExpense transitions PENDING → REJECTED. No balance effect.
func (db *DB) RejectExpense(id string) (*domain.ExpenseRequest, error) {
	var out *domain.ExpenseRequest
	err := db.withTx(func(tx *sql.Tx) error {
		e, err := expenseTx(tx, id)
		if err != nil {
			return err
		}
		if e.State.Terminal() {
			return domain.ErrInvalidTransition
		}

		res, err := tx.Exec(`
			UPDATE expense_requests SET state = ? WHERE id = ? AND state = ?
		`, string(domain.ExpenseRejected), id, string(domain.ExpensePending))
		if err != nil {
			return fmt.Errorf("reject expense: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrConflict
		}

		e.State = domain.ExpenseRejected
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AttachSentiment records how the purchase felt, legal only once the
// request is APPROVED. Purely informational: no state or balance effect.
func (db *DB) AttachSentiment(id string, s domain.Sentiment) error {
	return db.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			UPDATE expense_requests SET sentiment = ? WHERE id = ? AND state = ?
		`, string(s), id, string(domain.ExpenseApproved))
		if err != nil {
			return fmt.Errorf("attach sentiment: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			if _, err := expenseTx(tx, id); err != nil {
				return err // not found
			}
			return domain.ErrInvalidTransition
		}
		return nil
	})
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func expenseTx(tx *sql.Tx, id string) (*domain.ExpenseRequest, error) {
	return scanExpense(tx.QueryRow(`
		SELECT id, account_id, amount, description, category, state, sentiment, created_at
		FROM expense_requests WHERE id = ?
	`, id))
}

func scanExpense(row *sql.Row) (*domain.ExpenseRequest, error) {
	var e domain.ExpenseRequest
	var category, state, sentiment, created string
	err := row.Scan(&e.ID, &e.AccountID, &e.Amount, &e.Description, &category, &state, &sentiment, &created)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan expense: %w", err)
	}
	e.Category = domain.ExpenseCategory(category)
	e.State = domain.ExpenseState(state)
	e.Sentiment = domain.Sentiment(sentiment)
	e.CreatedAt = parseTime(created)
	return &e, nil
}
