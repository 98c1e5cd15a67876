package fiber

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeViolation marks programmer errors that abort a render cycle:
	// local-state shape changes, key collisions, missing host handles.
	ErrShapeViolation = errors.New("fiber: shape violation")

	// ErrRootFailed is returned by every call on a root after a cycle aborted.
	ErrRootFailed = errors.New("fiber: root failed")

	// ErrCycleInProgress is returned when a synchronous flush is requested
	// from inside a running cycle.
	ErrCycleInProgress = errors.New("fiber: cycle already in progress")
)

type ShapeError struct {
	Node   string
	Reason string
}

func (e *ShapeError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("%s: %s", ErrShapeViolation, e.Reason)
	}
	return fmt.Sprintf("%s in %s: %s", ErrShapeViolation, e.Node, e.Reason)
}

func (e *ShapeError) Unwrap() error { return ErrShapeViolation }

func shapef(format string, args ...any) *ShapeError {
	return &ShapeError{Reason: fmt.Sprintf(format, args...)}
}

// EffectError reports a failing setup or teardown. It never aborts a cycle.
type EffectError struct {
	Component string
	Phase     string
	Err       error
}

func (e *EffectError) Error() string {
	return fmt.Sprintf("fiber: effect %s in %s: %v", e.Phase, e.Component, e.Err)
}

func (e *EffectError) Unwrap() error { return e.Err }
