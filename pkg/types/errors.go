package types

import (
	"errors"
	"fmt"
)

// Backend lifecycle errors.
var (
	ErrBackendClosed = errors.New("backend is closed")
	ErrAlreadyOpen   = errors.New("backend is already open")
)

// Data errors.
var (
	ErrUnresolvedReference = errors.New("unresolved seed reference")
	ErrTableUnknown        = errors.New("unknown table")
	ErrReportUnknown       = errors.New("unknown report")
)

// Statement operations recorded on StatementError.
const (
	OpDrop    = "drop"
	OpCreate  = "create"
	OpTrigger = "trigger"
	OpSeed    = "seed"
	OpQuery   = "query"
	OpMutate  = "mutate"
)

// ConnectError reports that the driver could not be opened or the
// connection could not be established.
type ConnectError struct {
	Driver string
	Err    error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Driver, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// StatementError reports a failed DDL, DML, or query statement. Name
// identifies the statement, for example "authors" or "DeleteAuthor".
type StatementError struct {
	Op   string
	Name string
	Err  error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }

// IsDatabaseError reports whether err is a connection or statement failure.
func IsDatabaseError(err error) bool {
	var ce *ConnectError
	var se *StatementError
	return errors.As(err, &ce) || errors.As(err, &se)
}
