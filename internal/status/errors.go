package status

import (
	"fmt"

	"github.com/hammamikhairi/intentcast/internal/domain"
)

// FailureKind says which stage of a poll failed.
type FailureKind string

const (
	FailureNetwork FailureKind = "network" // request could not be sent or read
	FailureStatus  FailureKind = "status"  // non-2xx response
	FailureDecode  FailureKind = "decode"  // body is not {"intent": <string>}
)

// PollError is the single error kind a poll can produce. It matches
// domain.ErrPollFailure with errors.Is and unwraps to the underlying cause.
type PollError struct {
	Kind       FailureKind
	StatusCode int // set for FailureStatus
	Err        error
}

func (e *PollError) Error() string {
	if e.Kind == FailureStatus {
		return fmt.Sprintf("poll failed (%s %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("poll failed (%s): %v", e.Kind, e.Err)
}

func (e *PollError) Unwrap() error { return e.Err }

// Is reports whether target is domain.ErrPollFailure.
func (e *PollError) Is(target error) bool { return target == domain.ErrPollFailure }
