package loader

import (
	"github.com/mcncl/jsonview/internal/errors"
	"github.com/mcncl/jsonview/internal/models"
)

// Phase is the position of a Loader in its fetch lifecycle.
type Phase int

const (
	Idle Phase = iota
	Loading
	Success
	Error
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// LoadState is a snapshot of a Loader. Value is set only in Success and Err
// only in Error.
type LoadState struct {
	Phase Phase
	Value models.Value
	Err   error
}

// Terminal reports whether the state ends an activation.
func (s LoadState) Terminal() bool {
	return s.Phase == Success || s.Phase == Error
}

// Message is the short user-facing description of an Error state.
func (s LoadState) Message() string {
	if s.Phase != Error {
		return ""
	}
	return errors.DisplayMessage(s.Err)
}

func (s LoadState) String() string {
	if s.Phase == Error {
		return "error(" + s.Message() + ")"
	}
	return s.Phase.String()
}
