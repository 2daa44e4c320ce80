package domain

import "errors"

var (
	// ErrProductNotFound is returned when a provider does not know a barcode
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache or has expired
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when the cache backend cannot be reached
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrProviderDisabled is returned by adapters that have no credentials configured
	ErrProviderDisabled = errors.New("provider disabled")

	// ErrProviderTimeout is returned when a provider call exceeds its timeout
	ErrProviderTimeout = errors.New("provider request timed out")

	// ErrProviderUnavailable is returned on network failures and non-success statuses
	ErrProviderUnavailable = errors.New("provider request failed")

	// ErrMalformedResponse is returned when a provider payload cannot be decoded
	ErrMalformedResponse = errors.New("malformed provider response")
)
