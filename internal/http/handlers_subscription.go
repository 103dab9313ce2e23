package http

import (
	"net/http"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/core"
)

type createSubscriptionRequest struct {
	Name       string         `json:"name"`
	Amount     core.Money     `json:"amount"`
	Frequency  core.Frequency `json:"frequency"`
	Category   string         `json:"category"`
	NextCharge int64          `json:"nextCharge"`
	LastCharge int64          `json:"lastCharge"`
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	var req createSubscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	sub := core.Subscription{
		Name:      req.Name,
		Amount:    req.Amount,
		Frequency: req.Frequency,
		Category:  req.Category,
	}
	if req.NextCharge > 0 {
		sub.NextCharge = time.UnixMilli(req.NextCharge)
	}
	if req.LastCharge > 0 {
		sub.LastCharge = time.UnixMilli(req.LastCharge)
	}

	created, err := s.finance.CreateSubscription(r.Context(), auth.UserFromContext(r.Context()), sub)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSubscriptionJSON(created))
}

func (s *Server) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.finance.ListSubscriptions(r.Context(), auth.UserFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]subscriptionJSON, len(subs))
	for i, sub := range subs {
		out[i] = toSubscriptionJSON(sub)
	}
	writeJSON(w, http.StatusOK, out)
}
