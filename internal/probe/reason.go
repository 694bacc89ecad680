package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Failure reasons recorded on inactive results.
const (
	ReasonTimeout           = "timeout"
	ReasonUnsupportedScheme = "unsupported scheme"
	ReasonCancelled         = "cancelled"
	reasonConnectionPrefix  = "connection error"
)

// ErrUnsupportedScheme is returned by probers for URLs they cannot check.
var ErrUnsupportedScheme = errors.New(ReasonUnsupportedScheme)

// StatusError reports a response that arrived but did not indicate success.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d", e.Code)
}

// ClassifyFailure maps a probe error to the reason stored on the result.
func ClassifyFailure(err error) string {
	var statusErr *StatusError
	var netErr net.Error

	switch {
	case err == nil:
		return ""
	case errors.As(err, &statusErr):
		return statusErr.Error()
	case errors.Is(err, ErrUnsupportedScheme):
		return ReasonUnsupportedScheme
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, context.Canceled):
		return ReasonCancelled
	case errors.As(err, &netErr) && netErr.Timeout():
		return ReasonTimeout
	default:
		return fmt.Sprintf("%s: %v", reasonConnectionPrefix, err)
	}
}

// ReasonKind collapses a failure reason into a low-cardinality label:
// "timeout", "status", "connection", "unsupported_scheme", "cancelled" or "other".
func ReasonKind(reason string) string {
	switch {
	case reason == ReasonTimeout:
		return "timeout"
	case reason == ReasonUnsupportedScheme:
		return "unsupported_scheme"
	case reason == ReasonCancelled:
		return "cancelled"
	case strings.HasPrefix(reason, "status "):
		return "status"
	case strings.HasPrefix(reason, reasonConnectionPrefix):
		return "connection"
	default:
		return "other"
	}
}
