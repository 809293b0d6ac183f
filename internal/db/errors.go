package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound   = errors.New("db: key not found")
	ErrIndexNotFound = errors.New("db: index not found")
)

// Op constants name the failing command for error context.
const (
	OpSearch = "FT.SEARCH"
	OpPing   = "PING"
	OpGet    = "GET"
	OpSet    = "SET"
	OpConn   = "CONN"
	OpQuery  = "QUERY"
	OpScan   = "SCAN"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
