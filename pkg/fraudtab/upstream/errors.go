package upstream

import (
	"errors"
	"strings"
)

// ErrUpstreamUnavailable indicates the analysis service could not be reached
// or answered with a failure status.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// ErrUpstreamValidationFailed indicates the service rejected the request (HTTP 422).
var ErrUpstreamValidationFailed = errors.New("upstream validation failed")

// ErrUnsupportedUpload indicates a file type the service does not accept.
var ErrUnsupportedUpload = errors.New("unsupported upload type")

// ValidationDetail is one complaint from a 422 response.
type ValidationDetail struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// ValidationError lists every complaint of a rejected request.
type ValidationError struct {
	Details []ValidationDetail `json:"detail"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		msgs = append(msgs, d.Msg)
	}
	if len(msgs) == 0 {
		return "validation error"
	}
	return "validation error: " + strings.Join(msgs, ", ")
}

// Is makes every ValidationError match ErrUpstreamValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrUpstreamValidationFailed
}

// Messages returns the complaint texts in order.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, len(e.Details))
	for i, d := range e.Details {
		msgs[i] = d.Msg
	}
	return msgs
}
