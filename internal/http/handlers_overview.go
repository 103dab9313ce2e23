package http

import (
	"net/http"

	"fintrack/internal/auth"
)

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserFromContext(r.Context())

	// Anonymous overviews are all-zero and cheap; only cache per user.
	if userID != "" {
		if cached, ok := s.overviewCache.Get(userID); ok {
			writeJSON(w, http.StatusOK, toOverviewJSON(cached))
			return
		}
	}

	overview, err := s.finance.Overview(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if userID != "" {
		s.overviewCache.Set(userID, overview)
	}

	writeJSON(w, http.StatusOK, toOverviewJSON(overview))
}

type categorizeRequest struct {
	Description string `json:"description"`
}

type categorizeResponse struct {
	Category string `json:"category"`
}

func (s *Server) handleCategorize(w http.ResponseWriter, r *http.Request) {
	var req categorizeRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	category, err := s.finance.SuggestCategory(r.Context(), auth.UserFromContext(r.Context()), req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, categorizeResponse{Category: category})
}
