package repository

import "errors"

// ErrNoDatabase is returned when the service runs without a database.
var ErrNoDatabase = errors.New("database not configured")
