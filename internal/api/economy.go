package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pocketbank-dev/pocketbank/internal/domain"
)

// ─── Accounts ───────────────────────────────────────────────────────────────

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	a, err := s.economy.CreateAccount(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.economy.ListAccounts()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"accounts": accounts})
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	a, err := s.economy.GetAccount(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.economy.DeleteAccount(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			writeError(w, domain.ErrValidation)
			return
		}
		limit = n
	}
	txs, err := s.economy.Transactions(chi.URLParam(r, "id"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"transactions": txs})
}

// ─── Weekly Task Ledger ─────────────────────────────────────────────────────

func (s *Server) handleWeekTasks(w http.ResponseWriter, r *http.Request) {
	log, err := s.economy.WeekTasks(
		chi.URLParam(r, "id"),
		chi.URLParam(r, "week"),
		domain.TaskCategory(chi.URLParam(r, "category")),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Task string `json:"task"`
		Done bool   `json:"done"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	log, err := s.economy.ToggleTask(
		chi.URLParam(r, "id"),
		chi.URLParam(r, "week"),
		domain.TaskCategory(chi.URLParam(r, "category")),
		req.Task,
		req.Done,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (s *Server) handlePerfectWeek(w http.ResponseWriter, r *http.Request) {
	recorded, err := s.economy.RecordPerfectWeek(chi.URLParam(r, "id"), chi.URLParam(r, "week"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"recorded": recorded})
}

// ─── Quiz Redemption Pipeline ───────────────────────────────────────────────

func (s *Server) handleCaptureQuiz(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChallengeID string `json:"challenge_id"`
		Reward      int64  `json:"reward"`
		Preview     string `json:"preview"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	q, err := s.economy.CaptureQuiz(chi.URLParam(r, "id"), req.ChallengeID, req.Reward, req.Preview)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (s *Server) handleCashOut(w http.ResponseWriter, r *http.Request) {
	n, err := s.economy.CashOutBag(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"moved": n})
}

func (s *Server) handlePendingQuiz(w http.ResponseWriter, r *http.Request) {
	pending, err := s.economy.PendingQuizResults(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": pending})
}

func (s *Server) handleApproveQuiz(w http.ResponseWriter, r *http.Request) {
	q, err := s.economy.ApproveQuiz(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleRejectQuiz(w http.ResponseWriter, r *http.Request) {
	q, err := s.economy.RejectQuiz(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// ─── Expense Approval Workflow ──────────────────────────────────────────────

func (s *Server) handleRequestExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount      int64  `json:"amount"`
		Description string `json:"description"`
		Category    string `json:"category"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	e, err := s.economy.RequestExpense(
		chi.URLParam(r, "id"), req.Amount, req.Description,
		domain.ExpenseCategory(req.Category),
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	var (
		expenses []domain.ExpenseRequest
		err      error
	)
	if r.URL.Query().Get("state") == "pending" {
		expenses, err = s.economy.PendingExpenses(chi.URLParam(r, "id"))
	} else {
		expenses, err = s.economy.Expenses(chi.URLParam(r, "id"))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"expenses": expenses})
}

func (s *Server) handleApproveExpense(w http.ResponseWriter, r *http.Request) {
	e, err := s.economy.ApproveExpense(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleRejectExpense(w http.ResponseWriter, r *http.Request) {
	e, err := s.economy.RejectExpense(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleSentiment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sentiment string `json:"sentiment"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.economy.AttachSentiment(chi.URLParam(r, "id"), domain.Sentiment(req.Sentiment)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─── Savings Goal Vault ─────────────────────────────────────────────────────

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title  string `json:"title"`
		Target int64  `json:"target"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	g, err := s.economy.CreateGoal(chi.URLParam(r, "id"), req.Title, req.Target)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.economy.Goals(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"goals": goals})
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title  string `json:"title"`
		Target int64  `json:"target"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	g, err := s.economy.UpdateGoal(chi.URLParam(r, "id"), req.Title, req.Target)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.economy.DeleteGoal(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	g, err := s.economy.Deposit(chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int64 `json:"amount"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	g, err := s.economy.Withdraw(chi.URLParam(r, "id"), req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// ─── Streak Exchange ────────────────────────────────────────────────────────

func (s *Server) handleExchangeStreak(w http.ResponseWriter, r *http.Request) {
	a, err := s.economy.ExchangeStreak(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
