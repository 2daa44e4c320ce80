package domain

import (
	"context"
	"errors"
	"time"
)

// ProviderStatus classifies the outcome of a single provider call
type ProviderStatus string

const (
	StatusSuccess  ProviderStatus = "success"
	StatusEmpty    ProviderStatus = "empty"
	StatusDisabled ProviderStatus = "disabled"
	StatusTimeout  ProviderStatus = "timeout"
	StatusError    ProviderStatus = "error"
)

// ProviderReport records what one provider contributed to a search.
// It never reaches API consumers; it feeds logs and metrics.
type ProviderReport struct {
	Provider string         `json:"provider"`
	Status   ProviderStatus `json:"status"`
	Count    int            `json:"count"`
	Duration time.Duration  `json:"duration"`
	Err      error          `json:"-"`
}

// ClassifyOutcome maps a provider call result onto a ProviderStatus
func ClassifyOutcome(count int, err error) ProviderStatus {
	switch {
	case err == nil && count > 0:
		return StatusSuccess
	case err == nil:
		return StatusEmpty
	case errors.Is(err, ErrProviderDisabled):
		return StatusDisabled
	case errors.Is(err, ErrProviderTimeout), errors.Is(err, context.DeadlineExceeded):
		return StatusTimeout
	default:
		return StatusError
	}
}
