package history

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by this package matches one of them
// with errors.Is.
var (
	ErrInvalidEventType    = errors.New("invalid event type")
	ErrInvalidEventContent = errors.New("event content should be a JSON object")
	ErrMalformedEvent      = errors.New("malformed event")
	ErrNonEmptyHistory     = errors.New("content already has a history")
	ErrHistoryNotStarted   = errors.New("history does not start with a create event")
	ErrPatchApply          = errors.New("patch does not apply")
	ErrEventNotFound       = errors.New("event not found in history")
	ErrInvalidID           = errors.New("invalid event id")
	ErrContentMismatch     = errors.New("content does not match its history")
)

// MalformedEventError reports which field of an event failed validation.
type MalformedEventError struct {
	Field  string
	Reason string
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed event: %s %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrMalformedEvent) hold.
func (e *MalformedEventError) Is(target error) bool {
	return target == ErrMalformedEvent
}

// PatchApplyError wraps the failure of a patch against its base document:
// a missing target path, a failed test operation or an undecodable patch.
type PatchApplyError struct {
	Err error
}

func (e *PatchApplyError) Error() string {
	return fmt.Sprintf("%v: %v", ErrPatchApply, e.Err)
}

func (e *PatchApplyError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrPatchApply) hold.
func (e *PatchApplyError) Is(target error) bool {
	return target == ErrPatchApply
}

func malformed(field, reason string, args ...any) error {
	return &MalformedEventError{Field: field, Reason: fmt.Sprintf(reason, args...)}
}
