package http

import (
	"net/http"

	"fintrack/internal/auth"
	"fintrack/internal/core"
)

type createAccountRequest struct {
	Name     string           `json:"name"`
	Type     core.AccountType `json:"type"`
	Balance  core.Money       `json:"balance"`
	Currency string           `json:"currency"`
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	account, err := s.finance.CreateAccount(r.Context(), auth.UserFromContext(r.Context()), core.Account{
		Name:     req.Name,
		Type:     req.Type,
		Balance:  req.Balance,
		Currency: req.Currency,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountJSON(account))
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.finance.ListAccounts(r.Context(), auth.UserFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]accountJSON, len(accounts))
	for i, a := range accounts {
		out[i] = toAccountJSON(a)
	}
	writeJSON(w, http.StatusOK, out)
}
