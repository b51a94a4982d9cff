package repository

import "errors"

// ErrNotFound is returned when a query for a single entity finds no rows.
// The service layer translates it into the domain-level not-found error, so
// business logic never sees sql.ErrNoRows directly.
var ErrNotFound = errors.New("repository: not found")
