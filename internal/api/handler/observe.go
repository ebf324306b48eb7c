package handler

import (
	"errors"
	"time"

	"github.com/skillbridge/session-gateway/internal/api/metrics"
	"github.com/skillbridge/session-gateway/internal/core/domain"
)

// observe records the outcome of one session operation.
func observe(operation string, start time.Time, err error) {
	metrics.SessionOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	metrics.SessionOperationsTotal.WithLabelValues(operation, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return "duplicate_email"
	case errors.Is(err, domain.ErrUnknownEmail):
		return "unknown_email"
	case errors.Is(err, domain.ErrNotAuthenticated):
		return "not_authenticated"
	case errors.Is(err, domain.ErrInvalidRole):
		return "invalid_role"
	default:
		return "error"
	}
}
