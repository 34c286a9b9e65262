// Package economy implements the virtual-economy engine: weekly task
// rewards, the quiz redemption pipeline, the expense approval workflow, the
// savings goal vault and the streak exchange. It validates input, fixes the
// reward amounts and reason strings, and delegates every state transition to
// the Store, where the precondition is enforced atomically.
package economy

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pocketbank-dev/pocketbank/internal/domain"
	"github.com/pocketbank-dev/pocketbank/internal/infra/observability"
)

// Config fixes the economy's reward constants.
type Config struct {
	SchoolTaskReward int64 `toml:"school_task_reward"`
	HomeTaskReward   int64 `toml:"home_task_reward"`
	StreakCost       int   `toml:"streak_cost"`
	StreakBonus      int64 `toml:"streak_bonus"`
}

// DefaultConfig returns the standard reward schedule.
func DefaultConfig() Config {
	return Config{
		SchoolTaskReward: 5,
		HomeTaskReward:   5,
		StreakCost:       4,
		StreakBonus:      20,
	}
}

// Validate rejects non-positive reward constants.
func (c Config) Validate() error {
	if c.SchoolTaskReward <= 0 || c.HomeTaskReward <= 0 {
		return fmt.Errorf("%w: task rewards must be positive", domain.ErrValidation)
	}
	if c.StreakCost <= 0 || c.StreakBonus <= 0 {
		return fmt.Errorf("%w: streak cost and bonus must be positive", domain.ErrValidation)
	}
	return nil
}

// Service is the economy engine over a Store.
type Service struct {
	cfg   Config
	store domain.Store
}

// New creates the economy service.
func New(cfg Config, store domain.Store) *Service {
	return &Service{cfg: cfg, store: store}
}

// ─── Accounts ───────────────────────────────────────────────────────────────

// CreateAccount registers a new student account with a zero balance.
func (s *Service) CreateAccount(name string) (*domain.Account, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: account name required", domain.ErrValidation)
	}
	a := &domain.Account{ID: uuid.NewString(), Name: name}
	if err := s.store.CreateAccount(a); err != nil {
		return nil, err
	}
	return s.store.GetAccount(a.ID)
}

func (s *Service) GetAccount(id string) (*domain.Account, error) {
	return s.store.GetAccount(id)
}

func (s *Service) ListAccounts() ([]domain.Account, error) {
	return s.store.ListAccounts()
}

func (s *Service) DeleteAccount(id string) error {
	return s.store.DeleteAccount(id)
}

// Transactions returns the account's ledger, newest first.
func (s *Service) Transactions(accountID string, limit int) ([]domain.Transaction, error) {
	return s.store.Transactions(accountID, limit)
}

// Audit recomputes the ledger sum and compares it to the stored balance.
func (s *Service) Audit(accountID string) (balance, sum int64, err error) {
	a, err := s.store.GetAccount(accountID)
	if err != nil {
		return 0, 0, err
	}
	sum, err = s.store.LedgerSum(accountID)
	if err != nil {
		return 0, 0, err
	}
	return a.Balance, sum, nil
}

// ─── Weekly Task Ledger ─────────────────────────────────────────────────────

// CurrentWeek returns the weekID bucket for the current wall-clock time.
func (s *Service) CurrentWeek() string {
	return domain.WeekID(time.Now())
}

// WeekTasks returns the account's completion map for one (week, category),
// creating an all-false log on first access.
func (s *Service) WeekTasks(accountID, weekID string, category domain.TaskCategory) (*domain.TaskLog, error) {
	if !domain.ValidWeekID(weekID) {
		return nil, fmt.Errorf("%w: bad week id %q", domain.ErrValidation, weekID)
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: bad category %q", domain.ErrValidation, category)
	}
	return s.store.GetOrCreateTaskLog(accountID, weekID, category, domain.TaskKeys(category))
}

// rewardFor returns the per-task reward for a category.
func (s *Service) rewardFor(category domain.TaskCategory) int64 {
	if category == domain.CategorySchool {
		return s.cfg.SchoolTaskReward
	}
	return s.cfg.HomeTaskReward
}

// ToggleTask marks a task done or not done. Completing pays the category
// reward; revoking claws it back. Re-sending the stored value is a no-op.
func (s *Service) ToggleTask(accountID, weekID string, category domain.TaskCategory, taskKey string, done bool) (*domain.TaskLog, error) {
	if !domain.ValidWeekID(weekID) {
		return nil, fmt.Errorf("%w: bad week id %q", domain.ErrValidation, weekID)
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: bad category %q", domain.ErrValidation, category)
	}
	if !domain.ValidTaskKey(category, taskKey) {
		return nil, fmt.Errorf("%w: unknown task %q for category %s", domain.ErrValidation, taskKey, category)
	}

	reward := s.rewardFor(category)
	delta := reward
	reason := fmt.Sprintf("task %s completed (%s)", taskKey, weekID)
	if !done {
		delta = -reward
		reason = fmt.Sprintf("task %s revoked (%s)", taskKey, weekID)
	}

	changed, err := s.store.ToggleTask(accountID, weekID, category, taskKey, done, delta, reason)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			observability.WriteConflicts.Inc()
		}
		return nil, err
	}
	if changed {
		kind := string(domain.KindForAmount(delta))
		observability.TransactionsTotal.WithLabelValues(kind).Inc()
		observability.TokensMoved.WithLabelValues(kind).Add(float64(reward))
	}
	return s.store.GetTaskLog(accountID, weekID, category)
}

// ─── Quiz Redemption Pipeline ───────────────────────────────────────────────

// CaptureQuiz records a finished quiz challenge into the account's bag.
// Nothing is credited until the result is cashed out and approved.
func (s *Service) CaptureQuiz(accountID, challengeID string, reward int64, preview string) (*domain.QuizResult, error) {
	if challengeID == "" {
		return nil, fmt.Errorf("%w: challenge id required", domain.ErrValidation)
	}
	if reward <= 0 {
		return nil, fmt.Errorf("%w: reward must be positive", domain.ErrValidation)
	}
	q := &domain.QuizResult{
		ID:           uuid.NewString(),
		AccountID:    accountID,
		ChallengeID:  challengeID,
		RewardAmount: reward,
		Preview:      preview,
		State:        domain.QuizInBag,
	}
	if err := s.store.InsertQuizResult(q); err != nil {
		return nil, err
	}
	return q, nil
}

// CashOutBag submits everything in the bag for adult review.
func (s *Service) CashOutBag(accountID string) (int, error) {
	n, err := s.store.CashOutBag(accountID)
	if err != nil {
		return 0, err
	}
	observability.OpenApprovals.WithLabelValues("quiz").Add(float64(n))
	return n, nil
}

// BagCount returns how many captured results await cash-out.
func (s *Service) BagCount(accountID string) (int, error) {
	bag, err := s.store.QuizResultsByState(accountID, domain.QuizInBag)
	if err != nil {
		return 0, err
	}
	return len(bag), nil
}

// PendingQuizResults lists results awaiting an adult decision, oldest first.
func (s *Service) PendingQuizResults(accountID string) ([]domain.QuizResult, error) {
	return s.store.QuizResultsByState(accountID, domain.QuizPending)
}

// ApproveQuiz settles a pending result and credits its reward.
func (s *Service) ApproveQuiz(id string) (*domain.QuizResult, error) {
	q, err := s.store.GetQuizResult(id)
	if err != nil {
		return nil, err
	}
	reason := fmt.Sprintf("quiz %s approved", q.ChallengeID)
	q, err = s.store.ApproveQuizResult(id, reason)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			observability.WriteConflicts.Inc()
		}
		return nil, err
	}
	observability.ApprovalsTotal.WithLabelValues("quiz").Inc()
	observability.OpenApprovals.WithLabelValues("quiz").Dec()
	observability.TransactionsTotal.WithLabelValues(string(domain.TxEarn)).Inc()
	observability.TokensMoved.WithLabelValues(string(domain.TxEarn)).Add(float64(q.RewardAmount))
	return q, nil
}

// RejectQuiz settles a pending result without crediting anything.
func (s *Service) RejectQuiz(id string) (*domain.QuizResult, error) {
	q, err := s.store.RejectQuizResult(id)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			observability.WriteConflicts.Inc()
		}
		return nil, err
	}
	observability.RejectionsTotal.WithLabelValues("quiz").Inc()
	observability.OpenApprovals.WithLabelValues("quiz").Dec()
	return q, nil
}

// ─── Expense Approval Workflow ──────────────────────────────────────────────

// RequestExpense files a spend proposal. The balance is soft-checked here
// for early feedback; the binding check happens again at approval time.
func (s *Service) RequestExpense(accountID string, amount int64, description string, category domain.ExpenseCategory) (*domain.ExpenseRequest, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: description required", domain.ErrValidation)
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: bad category %q", domain.ErrValidation, category)
	}
	a, err := s.store.GetAccount(accountID)
	if err != nil {
		return nil, err
	}
	if a.Balance < amount {
		return nil, domain.ErrInsufficientBalance
	}

	e := &domain.ExpenseRequest{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Amount:      amount,
		Description: description,
		Category:    category,
		State:       domain.ExpensePending,
	}
	if err := s.store.InsertExpenseRequest(e); err != nil {
		return nil, err
	}
	observability.OpenApprovals.WithLabelValues("expense").Inc()
	return e, nil
}

// Expenses lists the account's requests, newest first.
func (s *Service) Expenses(accountID string) ([]domain.ExpenseRequest, error) {
	return s.store.ExpensesByAccount(accountID)
}

// PendingExpenses lists requests still awaiting a decision.
func (s *Service) PendingExpenses(accountID string) ([]domain.ExpenseRequest, error) {
	all, err := s.store.ExpensesByAccount(accountID)
	if err != nil {
		return nil, err
	}
	var out []domain.ExpenseRequest
	for _, e := range all {
		if e.State == domain.ExpensePending {
			out = append(out, e)
		}
	}
	return out, nil
}

// ApproveExpense debits the account and marks the request approved. Fails
// with InsufficientBalance when the money has since gone elsewhere; the
// request then stays PENDING.
func (s *Service) ApproveExpense(id string) (*domain.ExpenseRequest, error) {
	e, err := s.store.GetExpenseRequest(id)
	if err != nil {
		return nil, err
	}
	reason := fmt.Sprintf("expense %s approved", e.Description)
	e, err = s.store.ApproveExpense(id, reason)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			observability.WriteConflicts.Inc()
		}
		return nil, err
	}
	observability.ApprovalsTotal.WithLabelValues("expense").Inc()
	observability.OpenApprovals.WithLabelValues("expense").Dec()
	observability.TransactionsTotal.WithLabelValues(string(domain.TxSpend)).Inc()
	observability.TokensMoved.WithLabelValues(string(domain.TxSpend)).Add(float64(e.Amount))
	return e, nil
}

// RejectExpense declines a pending request. No balance effect.
func (s *Service) RejectExpense(id string) (*domain.ExpenseRequest, error) {
	e, err := s.store.RejectExpense(id)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			observability.WriteConflicts.Inc()
		}
		return nil, err
	}
	observability.RejectionsTotal.WithLabelValues("expense").Inc()
	observability.OpenApprovals.WithLabelValues("expense").Dec()
	return e, nil
}

// AttachSentiment records how the approved purchase felt.
func (s *Service) AttachSentiment(id string, sentiment domain.Sentiment) error {
	if !sentiment.Valid() {
		return fmt.Errorf("%w: bad sentiment %q", domain.ErrValidation, sentiment)
	}
	return s.store.AttachSentiment(id, sentiment)
}

// ─── Savings Goal Vault ─────────────────────────────────────────────────────

// CreateGoal opens a new savings goal with nothing earmarked.
func (s *Service) CreateGoal(accountID, title string, target int64) (*domain.SavingsGoal, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: goal title required", domain.ErrValidation)
	}
	if target <= 0 {
		return nil, fmt.Errorf("%w: target must be positive", domain.ErrValidation)
	}
	g := &domain.SavingsGoal{
		ID:           uuid.NewString(),
		AccountID:    accountID,
		Title:        title,
		TargetAmount: target,
	}
	if err := s.store.InsertGoal(g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) GetGoal(id string) (*domain.SavingsGoal, error) {
	return s.store.GetGoal(id)
}

func (s *Service) Goals(accountID string) ([]domain.SavingsGoal, error) {
	return s.store.GoalsByAccount(accountID)
}

// UpdateGoal renames a goal or moves its target. Earmark untouched.
func (s *Service) UpdateGoal(id, title string, target int64) (*domain.SavingsGoal, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: goal title required", domain.ErrValidation)
	}
	if target <= 0 {
		return nil, fmt.Errorf("%w: target must be positive", domain.ErrValidation)
	}
	if err := s.store.UpdateGoalMeta(id, title, target); err != nil {
		return nil, err
	}
	return s.store.GetGoal(id)
}

// Deposit moves tokens from the spendable balance into the goal's earmark.
func (s *Service) Deposit(goalID string, amount int64) (*domain.SavingsGoal, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	g, err := s.store.GetGoal(goalID)
	if err != nil {
		return nil, err
	}
	reason := fmt.Sprintf("saved toward %s", g.Title)
	g, err = s.store.DepositToGoal(goalID, amount, reason)
	if err != nil {
		return nil, err
	}
	observability.TransactionsTotal.WithLabelValues(string(domain.TxSpend)).Inc()
	observability.TokensMoved.WithLabelValues(string(domain.TxSpend)).Add(float64(amount))
	return g, nil
}

// Withdraw moves tokens from the earmark back to the spendable balance.
func (s *Service) Withdraw(goalID string, amount int64) (*domain.SavingsGoal, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	g, err := s.store.GetGoal(goalID)
	if err != nil {
		return nil, err
	}
	reason := fmt.Sprintf("withdrawn from %s", g.Title)
	g, err = s.store.WithdrawFromGoal(goalID, amount, reason)
	if err != nil {
		return nil, err
	}
	observability.TransactionsTotal.WithLabelValues(string(domain.TxEarn)).Inc()
	observability.TokensMoved.WithLabelValues(string(domain.TxEarn)).Add(float64(amount))
	return g, nil
}

// DeleteGoal refunds any earmarked remainder and removes the goal.
func (s *Service) DeleteGoal(id string) error {
	g, err := s.store.GetGoal(id)
	if err != nil {
		return err
	}
	reason := fmt.Sprintf("goal %s closed", g.Title)
	return s.store.DeleteGoal(id, reason)
}

// ─── Streak Exchange ────────────────────────────────────────────────────────

// RecordPerfectWeek marks a week as fully completed, counting at most once
// per (account, week) toward the streak.
func (s *Service) RecordPerfectWeek(accountID, weekID string) (bool, error) {
	if !domain.ValidWeekID(weekID) {
		return false, fmt.Errorf("%w: bad week id %q", domain.ErrValidation, weekID)
	}
	recorded, err := s.store.RecordPerfectWeek(accountID, weekID)
	if err != nil {
		return false, err
	}
	if recorded {
		observability.PerfectWeeks.Inc()
	}
	return recorded, nil
}

// ExchangeStreak trades accumulated streak credits for the lump bonus.
func (s *Service) ExchangeStreak(accountID string) (*domain.Account, error) {
	reason := fmt.Sprintf("streak bonus (%d weeks)", s.cfg.StreakCost)
	a, err := s.store.ExchangeStreak(accountID, s.cfg.StreakCost, s.cfg.StreakBonus, reason)
	if err != nil {
		return nil, err
	}
	observability.StreakExchanges.Inc()
	observability.TransactionsTotal.WithLabelValues(string(domain.TxEarn)).Inc()
	observability.TokensMoved.WithLabelValues(string(domain.TxEarn)).Add(float64(s.cfg.StreakBonus))
	return a, nil
}
