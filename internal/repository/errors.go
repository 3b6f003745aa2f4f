package repository

import "errors"

// ErrNotFound is returned when a single-row query finds nothing. The service
// layer translates it into app_errors.ErrNotFound.
var ErrNotFound = errors.New("repository: not found")
