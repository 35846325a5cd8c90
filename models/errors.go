// ABOUTME: Error taxonomy shared by the engines and record stores
// ABOUTME: ValidationError, NotFoundError, and StateError with errors.As support
package models

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed field encountered while validating or
// aggregating records.
type ValidationError struct {
	Entity string
	ID     int64
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	msg := e.Field + ": " + e.Reason
	if e.Value != "" {
		msg = fmt.Sprintf("%s: %s (%q)", e.Field, e.Reason, e.Value)
	}
	if e.Entity != "" {
		if e.ID != 0 {
			return fmt.Sprintf("invalid %s %d: %s", e.Entity, e.ID, msg)
		}
		return fmt.Sprintf("invalid %s: %s", e.Entity, msg)
	}
	return "invalid " + msg
}

// NotFoundError is returned by record stores when an id does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// StateError reports an event that is not legal in the current state.
type StateError struct {
	State string
	Event string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Event, e.State)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsState(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}

// withEntity stamps entity context onto a validation error.
func withEntity(err error, entity string, id int64) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		ve.Entity = entity
		ve.ID = id
	}
	return err
}
