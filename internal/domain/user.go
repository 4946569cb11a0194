package domain

import "time"

// User represents a stored account. Email uniquely identifies the record;
// the password is persisted exactly as submitted.
type User struct {
	ID        string
	Username  string
	Email     string
	Password  string
	GitHubKey string
	CreatedAt time.Time
}

// Credentials bundles the raw fields of one login or register attempt.
// Username and GitHubKey are only set for registration.
type Credentials struct {
	Email     string
	Password  string
	Username  string
	GitHubKey string
}
