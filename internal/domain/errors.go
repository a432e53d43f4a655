package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRecord = errors.New("invalid record")
	ErrNotFound      = errors.New("not found")
	ErrPersistence   = errors.New("persistence failure")
)

// InvalidRecordError reports the first field that failed validation.
type InvalidRecordError struct {
	Record string
	Field  string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid %s: %s %s", e.Record, e.Field, e.Reason)
}

func (e *InvalidRecordError) Is(target error) bool {
	return target == ErrInvalidRecord
}

func invalid(record, field, reason string) error {
	return &InvalidRecordError{Record: record, Field: field, Reason: reason}
}

// NotFound builds an error matching ErrNotFound for the given record kind.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// PersistenceError wraps a failure reported by the storage collaborator.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// FieldOf returns the violated field of an InvalidRecordError, or "".
func FieldOf(err error) string {
	var ie *InvalidRecordError
	if errors.As(err, &ie) {
		return ie.Field
	}
	return ""
}
