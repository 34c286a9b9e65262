// Package api provides the HTTP server for Pocketbank. It exposes the
// economy engine as a small JSON API for the student and parent views.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pocketbank-dev/pocketbank/internal/app/economy"
	"github.com/pocketbank-dev/pocketbank/internal/domain"
)

// Server is the Pocketbank HTTP API server.
type Server struct {
	economy        *economy.Service
	metricsEnabled bool
}

// NewServer creates a new API server over the economy engine.
func NewServer(svc *economy.Service) *Server {
	return &Server{economy: svc}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", s.handleCreateAccount)
			r.Get("/", s.handleListAccounts)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetAccount)
				r.Delete("/", s.handleDeleteAccount)
				r.Get("/transactions", s.handleTransactions)

				r.Get("/weeks/{week}/{category}", s.handleWeekTasks)
				r.Post("/weeks/{week}/{category}/toggle", s.handleToggleTask)
				r.Post("/weeks/{week}/perfect", s.handlePerfectWeek)

				r.Post("/quiz", s.handleCaptureQuiz)
				r.Post("/quiz/cashout", s.handleCashOut)
				r.Get("/quiz/pending", s.handlePendingQuiz)

				r.Post("/expenses", s.handleRequestExpense)
				r.Get("/expenses", s.handleListExpenses)

				r.Post("/goals", s.handleCreateGoal)
				r.Get("/goals", s.handleListGoals)

				r.Post("/streak/exchange", s.handleExchangeStreak)
			})
		})

		r.Route("/quiz/{id}", func(r chi.Router) {
			r.Post("/approve", s.handleApproveQuiz)
			r.Post("/reject", s.handleRejectQuiz)
		})

		r.Route("/expenses/{id}", func(r chi.Router) {
			r.Post("/approve", s.handleApproveExpense)
			r.Post("/reject", s.handleRejectExpense)
			r.Post("/sentiment", s.handleSentiment)
		})

		r.Route("/goals/{id}", func(r chi.Router) {
			r.Put("/", s.handleUpdateGoal)
			r.Delete("/", s.handleDeleteGoal)
			r.Post("/deposit", s.handleDeposit)
			r.Post("/withdraw", s.handleWithdraw)
		})
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// ─── JSON Helpers ───────────────────────────────────────────────────────────

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a domain error onto an HTTP status with a stable code the
// UI can switch on.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "internal"

	switch {
	case errors.Is(err, domain.ErrValidation):
		status, code = http.StatusBadRequest, "validation"
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrInsufficientBalance):
		status, code = http.StatusConflict, "insufficient_balance"
	case errors.Is(err, domain.ErrNotEligible):
		status, code = http.StatusConflict, "not_eligible"
	case errors.Is(err, domain.ErrInvalidTransition):
		status, code = http.StatusConflict, "invalid_transition"
	case errors.Is(err, domain.ErrConflict):
		status, code = http.StatusConflict, "conflict"
	}

	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": err.Error(),
		},
	})
}

// decode parses the request body into v, mapping malformed JSON onto the
// validation error kind.
func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.ErrValidation
	}
	return nil
}
