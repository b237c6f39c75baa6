package assistant

import (
	"errors"
	"fmt"
)

var (
	ErrService           = errors.New("assistant service error")
	ErrProtocolViolation = errors.New("assistant protocol violation")
	ErrUpstreamFailed    = errors.New("assistant turn failed")
)

// TurnError aborts a turn. Kind is one of the sentinel errors above and can
// be matched with errors.Is.
type TurnError struct {
	Kind   error
	Phase  Phase
	Status TurnStatus
	Err    error
}

func (e *TurnError) Error() string {
	msg := fmt.Sprintf("%v during %s", e.Kind, e.Phase)
	if e.Status != "" {
		msg += fmt.Sprintf(" (status %s)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TurnError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
