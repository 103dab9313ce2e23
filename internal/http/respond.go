package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses. Unknown errors become
// opaque 500s so internals never leak to clients.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	body := errorResponse{Error: err.Error()}

	if status == http.StatusInternalServerError {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path, applog.FieldError, err)
		body.Error = "internal error"
	}

	writeJSON(w, status, body)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrClassifierUnavailable):
		return http.StatusServiceUnavailable
	}
	for _, verr := range core.ValidationErrors {
		if errors.Is(err, verr) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

// Wire representations. Timestamps travel as Unix milliseconds; amounts as
// decimal numbers via core.Money.

type accountJSON struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Type      core.AccountType `json:"type"`
	Balance   core.Money       `json:"balance"`
	Currency  string           `json:"currency"`
	CreatedAt int64            `json:"createdAt"`
}

func toAccountJSON(a core.Account) accountJSON {
	return accountJSON{
		ID:        a.ID,
		Name:      a.Name,
		Type:      a.Type,
		Balance:   a.Balance,
		Currency:  a.Currency,
		CreatedAt: a.CreatedAt.UnixMilli(),
	}
}

type transactionJSON struct {
	ID          string               `json:"id"`
	AccountID   string               `json:"accountId"`
	Description string               `json:"description"`
	Amount      core.Money           `json:"amount"`
	Type        core.TransactionType `json:"type"`
	Category    string               `json:"category"`
	CreatedAt   int64                `json:"createdAt"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Description: t.Description,
		Amount:      t.Amount,
		Type:        t.Type,
		Category:    t.Category,
		CreatedAt:   t.CreatedAt.UnixMilli(),
	}
}

type goalJSON struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	TargetAmount  core.Money `json:"targetAmount"`
	CurrentAmount core.Money `json:"currentAmount"`
	Deadline      int64      `json:"deadline"`
	CreatedAt     int64      `json:"createdAt"`
}

func toGoalJSON(g core.Goal) goalJSON {
	return goalJSON{
		ID:            g.ID,
		Name:          g.Name,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Deadline:      g.Deadline.UnixMilli(),
		CreatedAt:     g.CreatedAt.UnixMilli(),
	}
}

type subscriptionJSON struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Amount     core.Money     `json:"amount"`
	Frequency  core.Frequency `json:"frequency"`
	Category   string         `json:"category"`
	NextCharge int64          `json:"nextCharge"`
	LastCharge int64          `json:"lastCharge,omitempty"`
	CreatedAt  int64          `json:"createdAt"`
}

func toSubscriptionJSON(s core.Subscription) subscriptionJSON {
	out := subscriptionJSON{
		ID:         s.ID,
		Name:       s.Name,
		Amount:     s.Amount,
		Frequency:  s.Frequency,
		Category:   s.Category,
		NextCharge: s.NextCharge.UnixMilli(),
		CreatedAt:  s.CreatedAt.UnixMilli(),
	}
	if !s.LastCharge.IsZero() {
		out.LastCharge = s.LastCharge.UnixMilli()
	}
	return out
}

type trendPointJSON struct {
	Date   int64      `json:"date"`
	Amount core.Money `json:"amount"`
}

type overviewJSON struct {
	MonthlyIncome   core.Money       `json:"monthlyIncome"`
	MonthlyExpenses core.Money       `json:"monthlyExpenses"`
	SpendingTrend   []trendPointJSON `json:"spendingTrend"`
}

func toOverviewJSON(ov core.Overview) overviewJSON {
	trend := make([]trendPointJSON, len(ov.SpendingTrend))
	for i, p := range ov.SpendingTrend {
		trend[i] = trendPointJSON{Date: p.Date.UnixMilli(), Amount: p.Amount}
	}
	return overviewJSON{
		MonthlyIncome:   ov.MonthlyIncome,
		MonthlyExpenses: ov.MonthlyExpenses,
		SpendingTrend:   trend,
	}
}
