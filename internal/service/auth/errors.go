package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Iryna9992004/crm-test-task-1/pkg/validate"
)

// ErrInvalidCredentials covers both unknown email and password mismatch;
// callers cannot tell which one failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError carries every field rule violation of one submission.
type ValidationError struct {
	Violations []validate.Violation
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		messages = append(messages, v.Message)
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// Fields maps field name to violation message for per-field display.
func (e *ValidationError) Fields() map[string]string {
	fields := make(map[string]string, len(e.Violations))
	for _, v := range e.Violations {
		if _, ok := fields[v.Field]; !ok {
			fields[v.Field] = v.Message
		}
	}
	return fields
}

// StorageError wraps a repository failure: the backing store was unreachable
// or rejected the operation.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
