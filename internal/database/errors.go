package database

import "errors"

// ErrNotFound is returned when a record does not exist. Callers decide how to
// surface it; repositories never invent a record on a read path, except the
// lazily created user progress singleton.
var ErrNotFound = errors.New("record not found")
