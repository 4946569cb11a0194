package repository

import "errors"

// ErrNotFound indicates an entity was not located. Absence is a valid lookup
// result, not a storage failure.
var ErrNotFound = errors.New("repository: not found")
