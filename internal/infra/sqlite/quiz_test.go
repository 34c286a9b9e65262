package sqlite

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/pocketbank-dev/pocketbank/internal/domain"
)

func captureQuiz(t *testing.T, db *DB, accountID string, reward int64) *domain.QuizResult {
	t.Helper()
	q := &domain.QuizResult{
		ID:           uuid.NewString(),
		AccountID:    accountID,
		ChallengeID:  "math-sprint",
		RewardAmount: reward,
		Preview:      "3 correct answers",
		State:        domain.QuizInBag,
	}
	if err := db.InsertQuizResult(q); err != nil {
		t.Fatalf("InsertQuizResult() error: %v", err)
	}
	return q
}

func TestInsertQuizResult_NoBalanceEffect(t *testing.T) {
	db := newTestDB(t)
	id := newTestAccount(t, db)
	captureQuiz(t, db, id, 10)

	a, _ := db.GetAccount(id)
	if a.Balance != 0 {
		t.Errorf("capture credited balance: %d", a.Balance)
	}
	txs, _ := db.Transactions(id, 0)
	if len(txs) != 0 {
		t.Errorf("capture wrote a transaction: %d rows", len(txs))
	}

	bag, err := db.QuizResultsByState(id, domain.QuizInBag)
	if err != nil {
		t.Fatal(err)
	}
	if len(bag) != 1 {
		t.Fatalf("bag = %d rows, want 1", len(bag))
	}
	if bag[0].Preview != "3 correct answers" {
		t.Errorf("preview = %q", bag[0].Preview)
	}
}

func TestCashOutBag_MovesAllAndIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	id := newTestAccount(t, db)
	captureQuiz(t, db, id, 5)
	captureQuiz(t, db, id, 7)
	captureQuiz(t, db, id, 9)

	n, err := db.CashOutBag(id)
	if err != nil {
		t.Fatalf("CashOutBag() error: %v", err)
	}
	if n != 3 {
		t.Errorf("moved %d rows, want 3", n)
	}

	// Repeated call finds nothing eligible.
	n, err = db.CashOutBag(id)
	if err != nil {
		t.Fatalf("second CashOutBag() error: %v", err)
	}
	if n != 0 {
		t.Errorf("second cash-out moved %d rows, want 0", n)
	}

	pending, _ := db.QuizResultsByState(id, domain.QuizPending)
	if len(pending) != 3 {
		t.Errorf("pending = %d rows, want 3", len(pending))
	}
}

// Two concurrent cash-outs must partition the bag, never duplicate it:
// exactly 3 rows end up PENDING and the reported counts sum to 3.
func TestCashOutBag_Concurrent(t *testing.T) {
	db := newTestDB(t)
	id := newTestAccount(t, db)
	for i := 0; i < 3; i++ {
		captureQuiz(t, db, id, 5)
	}

	counts := make([]int, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			n, err := db.CashOutBag(id)
			if err != nil {
				t.Errorf("concurrent CashOutBag() error: %v", err)
				return
			}
			counts[i] = n
		}(i)
	}
	wg.Wait()

	if counts[0]+counts[1] != 3 {
		t.Errorf("counts %v sum to %d, want 3", counts, counts[0]+counts[1])
	}
	pending, _ := db.QuizResultsByState(id, domain.QuizPending)
	if len(pending) != 3 {
		t.Errorf("pending = %d rows, want exactly 3", len(pending))
	}
	bag, _ := db.QuizResultsByState(id, domain.QuizInBag)
	if len(bag) != 0 {
		t.Errorf("bag not emptied: %d rows", len(bag))
	}
}

func TestApproveQuizResult_Credits(t *testing.T) {
	db := newTestDB(t)
	id := newTestAccount(t, db)
	q := captureQuiz(t, db, id, 12)
	db.CashOutBag(id)

	got, err := db.ApproveQuizResult(q.ID, "quiz math-sprint approved")
	if err != nil {
		t.Fatalf("ApproveQuizResult() error: %v", err)
	}
	if got.State != domain.QuizApproved {
		t.Errorf("state = %s, want APPROVED", got.State)
	}

	a, _ := db.GetAccount(id)
	if a.Balance != 12 {
		t.Errorf("balance = %d, want 12", a.Balance)
	}
	checkLedger(t, db, id)
}

// A settled row settles exactly once: the second approve fails and the
// balance is credited exactly once.
func TestApproveQuizResult_Monotonic(t *testing.T) {
	db := newTestDB(t)
	id := newTestAccount(t, db)
	q := captureQuiz(t, db, id, 12)
	db.CashOutBag(id)
	db.ApproveQuizResult(q.ID, "first")

	_, err := db.ApproveQuizResult(q.ID, "second")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("second approve = %v, want ErrInvalidTransition", err)
	}
	_, err = db.RejectQuizResult(q.ID)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("reject after approve = %v, want ErrInvalidTransition", err)
	}

	a, _ := db.GetAccount(id)
	if a.Balance != 12 {
		t.Errorf("balance = %d, want 12 (single credit)", a.Balance)
	}
	checkLedger(t, db, id)
}

func TestApproveQuizResult_FromBag(t *testing.T) {
	db := newTestDB(t)
	id := newTestAccount(t, db)
	q := captureQuiz(t, db, id, 12)

	// IN_BAG rows are not yet surfaced for review.
	_, err := db.ApproveQuizResult(q.ID, "x")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("approve from IN_BAG = %v, want ErrInvalidTransition", err)
	}
}

func TestRejectQuizResult_NoBalanceEffect(t *testing.T) {
	db := newTestDB(t)
	id := newTestAccount(t, db)
	q := captureQuiz(t, db, id, 12)
	db.CashOutBag(id)

	got, err := db.RejectQuizResult(q.ID)
	if err != nil {
		t.Fatalf("RejectQuizResult() error: %v", err)
	}
	if got.State != domain.QuizRejected {
		t.Errorf("state = %s, want REJECTED", got.State)
	}

	a, _ := db.GetAccount(id)
	if a.Balance != 0 {
		t.Errorf("reject credited balance: %d", a.Balance)
	}
	txs, _ := db.Transactions(id, 0)
	if len(txs) != 0 {
		t.Errorf("reject wrote a transaction: %d rows", len(txs))
	}
}

func TestQuizResult_NotFound(t *testing.T) {
	db := newTestDB(t)
	if _, err := db.GetQuizResult("ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetQuizResult(ghost) = %v, want ErrNotFound", err)
	}
	if _, err := db.ApproveQuizResult("ghost", "x"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("ApproveQuizResult(ghost) = %v, want ErrNotFound", err)
	}
}
