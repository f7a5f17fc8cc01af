package providers

import (
	"fmt"
	"net/http"

	"github.com/iby-analytics/odds-core/pkg/proxyfetch"
)

// Error taxonomy for provider fetches. Fatal errors abort the current
// provider's fetch immediately; retryable ones let the caller try a narrower
// request. The aggregation facade captures all of them per provider and
// never lets one provider's failure crash the aggregate call.

// MissingCredentialError means no key is configured for the provider.
// User-actionable, never retried.
type MissingCredentialError struct {
	Provider string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("no API key configured for provider %s", e.Provider)
}

// InvalidCredentialError is a 401: the key itself is rejected. Fatal, since
// no other request variant can succeed with the same key.
type InvalidCredentialError struct {
	Provider   string
	StatusCode int
}

func (e *InvalidCredentialError) Error() string {
	return fmt.Sprintf("provider %s rejected credentials (status %d)", e.Provider, e.StatusCode)
}

// RateLimitError is a 429. Fatal for this call; the caller may retry later.
type RateLimitError struct {
	Provider   string
	StatusCode int
	RetryAfter string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter != "" {
		return fmt.Sprintf("provider %s rate limit exceeded (status %d), retry after: %s", e.Provider, e.StatusCode, e.RetryAfter)
	}
	return fmt.Sprintf("provider %s rate limit exceeded (status %d)", e.Provider, e.StatusCode)
}

// UpstreamServerError is a 5xx. Fatal for this call.
type UpstreamServerError struct {
	Provider   string
	StatusCode int
}

func (e *UpstreamServerError) Error() string {
	return fmt.Sprintf("provider %s upstream server error (status %d)", e.Provider, e.StatusCode)
}

// MarketUnavailableError is a 422 or other 4xx: the requested market or
// bookmaker combination is not available for this sport/season phase.
// Retryable by narrowing the request.
type MarketUnavailableError struct {
	Provider   string
	StatusCode int
	Variant    string
}

func (e *MarketUnavailableError) Error() string {
	return fmt.Sprintf("provider %s has no data for %q (status %d)", e.Provider, e.Variant, e.StatusCode)
}

// AllVariantsExhaustedError means every rung of the request-variant ladder
// failed without a definitive fatal classification.
type AllVariantsExhaustedError struct {
	Provider string
	Attempts int
}

func (e *AllVariantsExhaustedError) Error() string {
	return fmt.Sprintf("provider %s: all %d request variants exhausted without a successful response", e.Provider, e.Attempts)
}

// IsFatal reports whether err must short-circuit the variant ladder.
func IsFatal(err error) bool {
	switch err.(type) {
	case *MissingCredentialError, *InvalidCredentialError, *RateLimitError, *UpstreamServerError:
		return true
	default:
		return false
	}
}

// ClassifyStatus maps a non-200 HTTP outcome onto the taxonomy. Returns nil
// for success statuses.
func ClassifyStatus(providerID, variant string, resp *proxyfetch.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return &InvalidCredentialError{Provider: providerID, StatusCode: resp.StatusCode}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{
			Provider:   providerID,
			StatusCode: resp.StatusCode,
			RetryAfter: resp.Header.Get("Retry-After"),
		}
	case resp.StatusCode >= http.StatusInternalServerError:
		return &UpstreamServerError{Provider: providerID, StatusCode: resp.StatusCode}
	default:
		return &MarketUnavailableError{Provider: providerID, StatusCode: resp.StatusCode, Variant: variant}
	}
}
