package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

const maxRequestBody = 1 << 20 // 1 MiB

var errBadRequestBody = errors.New("invalid request body")

// decodeJSON parses the request body into dst. Oversized, malformed, or
// trailing-garbage bodies all fail.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxRequestBody)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return errBadRequestBody
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errBadRequestBody
	}
	return nil
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
