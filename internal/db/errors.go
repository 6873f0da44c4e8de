package db

import "errors"

// ErrRunNotFound is returned when updating a run id that does not exist
var ErrRunNotFound = errors.New("analysis run not found")
