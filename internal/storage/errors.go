package storage

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("storage: not found")

// ErrDuplicateName is returned when a category name (case-insensitive)
// already exists.
var ErrDuplicateName = errors.New("storage: category name already exists")
