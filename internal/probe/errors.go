package probe

import "errors"

var (
	ErrInvalidTimestamp        = errors.New("probe timestamp must not be zero")
	ErrMissingFailureReason    = errors.New("inactive probe must carry a failure reason")
	ErrUnexpectedFailureReason = errors.New("active probe must not carry a failure reason")
)
