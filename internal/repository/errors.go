// Package repository holds the MySQL-backed stores used by the service.
// The ticket registry itself lives in memory; the database only keeps an
// audit trail of ticket events.
package repository

import "errors"

// ErrInvalidLimit is returned when a listing is requested with a
// non-positive or oversized limit.  Handlers translate it into 400.
var ErrInvalidLimit = errors.New("invalid limit")
