package taxonomy

import (
	"context"
	"errors"
	"net"
	"strings"
)

// Classify maps any raw error onto a Descriptor. The mapping is total:
// inputs that match no rule come back as KindUnknown, never an error.
func Classify(err error) Descriptor {
	if err == nil {
		return Describe(KindUnknown)
	}

	// Errors that already carry a kind win outright.
	var te *Error
	if errors.As(err, &te) {
		return DescribeCode(te.Kind, te.Code)
	}

	// HTTP responses from the backend.
	var se *StatusError
	if errors.As(err, &se) {
		return FromHTTPStatus(se.Status)
	}

	// Transport-level failures.
	if errors.Is(err, context.DeadlineExceeded) {
		return Describe(KindNetworkTimeout)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return Describe(KindNetworkTimeout)
	}

	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "no such host"),
		strings.Contains(s, "network is unreachable"),
		strings.Contains(s, "network is down"),
		strings.Contains(s, "connection lost"):
		return Describe(KindNetworkUnavailable)
	case strings.Contains(s, "connection refused"),
		strings.Contains(s, "connection reset"),
		strings.Contains(s, "host is down"),
		strings.Contains(s, "no route to host"),
		strings.Contains(s, "broken pipe"):
		return Describe(KindNetworkConnectionFailed)
	case strings.Contains(s, "timeout"), strings.Contains(s, "timed out"):
		return Describe(KindNetworkTimeout)
	case strings.Contains(s, "slow connection"), strings.Contains(s, "degraded"):
		return Describe(KindNetworkSlowConnection)
	case strings.Contains(s, "not authenticated"):
		// Backend-specific phrasing for a dead session.
		return Describe(KindSessionExpired)
	case strings.Contains(s, "rate limit"), strings.Contains(s, "too many requests"):
		return Describe(KindRateLimitExceeded)
	}

	d := Describe(KindUnknown)
	d.Message = err.Error()
	return d
}

// FromHTTPStatus maps an HTTP status code onto a Descriptor.
func FromHTTPStatus(status int) Descriptor {
	switch status {
	case 400:
		return Describe(KindInvalidInput)
	case 401:
		return Describe(KindInvalidCredentials)
	case 403:
		return Describe(KindAccountDisabled)
	case 404:
		return Describe(KindUserNotFound)
	case 409:
		return Describe(KindEmailAlreadyInUse)
	case 422:
		return Describe(KindValidationFailed)
	case 429:
		return Describe(KindRateLimitExceeded)
	case 500:
		return DescribeCode(KindServerError, status)
	case 502, 503:
		return Describe(KindServiceUnavailable)
	case 504:
		return Describe(KindServerOverloaded)
	default:
		if status >= 500 {
			return DescribeCode(KindServerError, status)
		}
		d := DescribeCode(KindUnknown, status)
		return d
	}
}
