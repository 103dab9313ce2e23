package services

import "errors"

// ErrClassifierUnavailable signals that no category backend is configured.
var ErrClassifierUnavailable = errors.New("category classifier is not configured")
