package client

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Iryna9992004/crm-test-task-1/pkg/validate"
)

// FallbackMessage is surfaced when a failure carries no message at all.
const FallbackMessage = "Authentication failed"

// ErrSubmitInFlight is returned when a submit arrives while a previous one is
// still running; the duplicate attempt is ignored.
var ErrSubmitInFlight = errors.New("submission already in flight")

// State of the auth flow. The flow rests at Idle and moves to Submitting for
// the duration of one request; both outcomes return it to Idle.
type State int

const (
	StateIdle State = iota
	StateSubmitting
)

// ValidationError reports client-side rule violations found before any
// request is sent. The same rules run again on the server.
type ValidationError struct {
	Violations []validate.Violation
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		messages = append(messages, v.Message)
	}
	return strings.Join(messages, "; ")
}

// Fields maps field name to violation message for inline display.
func (e *ValidationError) Fields() map[string]string {
	fields := make(map[string]string, len(e.Violations))
	for _, v := range e.Violations {
		if _, ok := fields[v.Field]; !ok {
			fields[v.Field] = v.Message
		}
	}
	return fields
}

// Flow drives one login/register form: it pre-validates input, submits,
// and owns the session's identity state. Identity is written only here.
type Flow struct {
	cli *Client

	mu       sync.Mutex
	state    State
	identity *User
}

// NewFlow returns a Flow with empty identity in the Idle state.
func NewFlow(cli *Client) *Flow {
	return &Flow{cli: cli}
}

// State reports the current flow state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Identity returns the currently authenticated user, if any.
func (f *Flow) Identity() (User, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.identity == nil {
		return User{}, false
	}
	return *f.identity, true
}

// Clear resets the identity, e.g. on logout.
func (f *Flow) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.identity = nil
}

// Login submits a login attempt. On success the identity is updated.
func (f *Flow) Login(ctx context.Context, email, password string) (User, error) {
	if violations := validate.Login(email, password); len(violations) > 0 {
		return User{}, &ValidationError{Violations: violations}
	}
	return f.submit(func() (User, error) {
		return f.cli.Login(ctx, email, password)
	})
}

// Register submits a registration attempt. On success the identity is updated.
func (f *Flow) Register(ctx context.Context, username, email, password, githubKey string) (User, error) {
	if violations := validate.Registration(username, email, password, githubKey); len(violations) > 0 {
		return User{}, &ValidationError{Violations: violations}
	}
	return f.submit(func() (User, error) {
		return f.cli.Register(ctx, username, email, password, githubKey)
	})
}

func (f *Flow) submit(attempt func() (User, error)) (User, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return User{}, ErrSubmitInFlight
	}
	f.state = StateSubmitting
	f.mu.Unlock()

	user, err := attempt()

	f.mu.Lock()
	f.state = StateIdle
	if err == nil {
		stored := user
		f.identity = &stored
	}
	f.mu.Unlock()
	return user, err
}

// Normalize collapses any failure into the single display string the form
// surfaces: the server-supplied message wins, then the failure's own message,
// then the hard-coded fallback.
func Normalize(err error) string {
	if err == nil {
		return FallbackMessage
	}
	var apiErr APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return FallbackMessage
}
