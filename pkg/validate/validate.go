package validate

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Field names accepted by Check.
const (
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldUsername  = "username"
	FieldGitHubKey = "githubKey"
)

const (
	passwordMin  = 6
	passwordMax  = 64
	usernameMin  = 3
	usernameMax  = 32
	githubKeyMin = 10
	githubKeyMax = 128
)

// emailPattern requires a non-empty local part, an @, and a dotted domain.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Violation describes a single field rule failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Check applies the rule set for the named field to a raw value. It returns
// nil when the value is valid. Unknown field names are treated as valid.
func Check(field, value string) *Violation {
	switch field {
	case FieldEmail:
		if value == "" {
			return &Violation{Field: field, Message: "email is required"}
		}
		if !emailPattern.MatchString(value) {
			return &Violation{Field: field, Message: "email must be a valid address"}
		}
	case FieldPassword:
		if value == "" {
			return &Violation{Field: field, Message: "password is required"}
		}
		if v := length(field, value, passwordMin, passwordMax); v != nil {
			return v
		}
	case FieldUsername:
		if value == "" {
			return &Violation{Field: field, Message: "username is required"}
		}
		if v := length(field, value, usernameMin, usernameMax); v != nil {
			return v
		}
	case FieldGitHubKey:
		if value == "" {
			return &Violation{Field: field, Message: "github key is required"}
		}
		if v := length(field, value, githubKeyMin, githubKeyMax); v != nil {
			return v
		}
	}
	return nil
}

// Login collects every violation for a login submission.
func Login(email, password string) []Violation {
	return collect(map[string]string{
		FieldEmail:    email,
		FieldPassword: password,
	}, FieldEmail, FieldPassword)
}

// Registration collects every violation for a registration submission.
func Registration(username, email, password, githubKey string) []Violation {
	return collect(map[string]string{
		FieldUsername:  username,
		FieldEmail:     email,
		FieldPassword:  password,
		FieldGitHubKey: githubKey,
	}, FieldUsername, FieldEmail, FieldPassword, FieldGitHubKey)
}

// collect evaluates fields in a stable order so callers see deterministic output.
func collect(values map[string]string, order ...string) []Violation {
	var violations []Violation
	for _, field := range order {
		if v := Check(field, values[field]); v != nil {
			violations = append(violations, *v)
		}
	}
	return violations
}

func length(field, value string, min, max int) *Violation {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		return &Violation{
			Field:   field,
			Message: fmt.Sprintf("%s must be between %d and %d characters", label(field), min, max),
		}
	}
	return nil
}

func label(field string) string {
	if field == FieldGitHubKey {
		return "github key"
	}
	return field
}
