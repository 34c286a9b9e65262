package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/pocketbank-dev/pocketbank/internal/domain"
)

// ─── Quiz Redemption Pipeline Operations ────────────────────────────────────

// InsertQuizResult creates a captured reward row in IN_BAG. No balance
// effect: the reward is pocketed, not yet real.
func (db *DB) InsertQuizResult(q *domain.QuizResult) error {
	return db.withTx(func(tx *sql.Tx) error {
		if !accountExistsTx(tx, q.AccountID) {
			return domain.ErrNotFound
		}
		now := nowString()
		if q.CapturedAt.IsZero() {
			q.CapturedAt = parseTime(now)
		}
		_, err := tx.Exec(`
			INSERT INTO quiz_results (id, account_id, challenge_id, reward_amount, preview, state, captured_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, q.ID, q.AccountID, q.ChallengeID, q.RewardAmount, q.Preview, string(q.State), now)
		if err != nil {
			return fmt.Errorf("insert quiz result: %w", err)
		}
		return nil
	})
}

// GetQuizResult retrieves one pipeline row.
func (db *DB) GetQuizResult(id string) (*domain.QuizResult, error) {
	return scanQuizResult(db.db.QueryRow(`
		SELECT id, account_id, challenge_id, reward_amount, preview, state, captured_at
		FROM quiz_results WHERE id = ?
	`, id))
}

// QuizResultsByState lists an account's rows in the given state, oldest first.
func (db *DB) QuizResultsByState(accountID string, state domain.QuizState) ([]domain.QuizResult, error) {
	rows, err := db.db.Query(`
		SELECT id, account_id, challenge_id, reward_amount, preview, state, captured_at
		FROM quiz_results WHERE account_id = ? AND state = ?
		ORDER BY captured_at, id
	`, accountID, string(state))
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	defer rows.Close()

	var out []domain.QuizResult
	for rows.Next() {
		var q domain.QuizResult
		var state, captured string
		if err := rows.Scan(&q.ID, &q.AccountID, &q.ChallengeID, &q.RewardAmount, &q.Preview, &state, &captured); err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		q.State = domain.QuizState(state)
		q.CapturedAt = parseTime(captured)
		out = append(out, q)
	}
	return out, rows.Err()
}

// CashOutBag moves all of the account's IN_BAG rows to PENDING in one
// statement and reports how many moved. The state filter makes the batch
// atomic and the call idempotent: a concurrent or repeated call finds no
// eligible rows and returns 0 — an item can never move twice.
func (db *DB) CashOutBag(accountID string) (int, error) {
	res, err := db.db.Exec(`
		UPDATE quiz_results SET state = ? WHERE account_id = ? AND state = ?
	`, string(domain.QuizPending), accountID, string(domain.QuizInBag))
	if err != nil {
		return 0, fmt.Errorf("cash out bag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

// ApproveQuizResult transitions PENDING → APPROVED and credits the captured
// reward, appending the paired ledger entry in the same transaction.
// A row already in a terminal state yields domain.ErrInvalidTransition, so
// a duplicated click cannot double-credit.
func (db *DB) ApproveQuizResult(id, reason string) (*domain.QuizResult, error) {
	var out *domain.QuizResult
	err := db.withTx(func(tx *sql.Tx) error {
		q, err := quizResultTx(tx, id)
		if err != nil {
			return err
		}
		if !q.State.CanTransition(domain.QuizApproved) {
			return domain.ErrInvalidTransition
		}

		res, err := tx.Exec(`
			UPDATE quiz_results SET state = ? WHERE id = ? AND state = ?
		`, string(domain.QuizApproved), id, string(domain.QuizPending))
		if err != nil {
			return fmt.Errorf("approve quiz result: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrConflict
		}

		if err := applyBalanceDelta(tx, q.AccountID, q.RewardAmount); err != nil {
			return err
		}
		if err := appendLedgerEntry(tx, q.AccountID, q.RewardAmount, reason); err != nil {
			return err
		}

		q.State = domain.QuizApproved
		out = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RejectQuizResult transitions PENDING → REJECTED. No balance effect.
func (db *DB) RejectQuizResult(id string) (*domain.QuizResult, error) {
	var out *domain.QuizResult
	err := db.withTx(func(tx *sql.Tx) error {
		q, err := quizResultTx(tx, id)
		if err != nil {
			return err
		}
		if !q.State.CanTransition(domain.QuizRejected) {
			return domain.ErrInvalidTransition
		}

		res, err := tx.Exec(`
			UPDATE quiz_results SET state = ? WHERE id = ? AND state = ?
		`, string(domain.QuizRejected), id, string(domain.QuizPending))
		if err != nil {
			return fmt.Errorf("reject quiz result: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrConflict
		}

		q.State = domain.QuizRejected
		out = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func quizResultTx(tx *sql.Tx, id string) (*domain.QuizResult, error) {
	return scanQuizResult(tx.QueryRow(`
		SELECT id, account_id, challenge_id, reward_amount, preview, state, captured_at
		FROM quiz_results WHERE id = ?
	`, id))
}

func scanQuizResult(row *sql.Row) (*domain.QuizResult, error) {
	var q domain.QuizResult
	var state, captured string
	err := row.Scan(&q.ID, &q.AccountID, &q.ChallengeID, &q.RewardAmount, &q.Preview, &state, &captured)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan quiz result: %w", err)
	}
	q.State = domain.QuizState(state)
	q.CapturedAt = parseTime(captured)
	return &q, nil
}
