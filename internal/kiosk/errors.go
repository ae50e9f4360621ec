package kiosk

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrNotAuthorizedHere = errors.New("not authorized at this terminal")
)

// BackendError wraps any failure of the data store or the path to it.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// WrapBackend returns nil for a nil err and leaves ErrNotFound untouched.
func WrapBackend(op string, err error) error {
	if err == nil || errors.Is(err, ErrNotFound) {
		return err
	}
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	return &BackendError{Op: op, Err: err}
}

func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}

// ValidationError maps field names to messages. It is raised before any
// backend call is issued.
type ValidationError map[string]string

func (v ValidationError) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, v[f])
	}
	return strings.Join(parts, "; ")
}

// Inline messages shown next to the control that triggered the action.
const (
	MsgEmployeeNotFound = "Employee not found. Please check your ID and try again."
	MsgInvalidPIN       = "Invalid PIN"
	MsgLookupFailed     = "Unable to reach the time clock service. Please try again."
)

// UserMessage maps an error to the short text shown in the kiosk. Not-found
// and not-authorized share one message so the keypad does not reveal which
// ids belong to admin accounts.
func UserMessage(err error) string {
	var ve ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNotAuthorizedHere):
		return MsgEmployeeNotFound
	case errors.As(err, &ve):
		return ve.Error()
	case IsBackendError(err):
		return MsgLookupFailed
	}
	return MsgLookupFailed
}
