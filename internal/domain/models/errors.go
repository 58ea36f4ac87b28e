package models

import (
	"errors"
	"fmt"
)

var (
	// ErrParse marks a ledger table that could not be converted into entities.
	ErrParse = errors.New("ledger parse failed")
	// ErrStoreUnavailable marks a ledger store that cannot be reached.
	ErrStoreUnavailable = errors.New("ledger store unavailable")
	// ErrWriteFailure marks an append the ledger store rejected.
	ErrWriteFailure = errors.New("ledger write failed")
)

// ParseError describes the first cell that stopped a table from loading.
type ParseError struct {
	Table  Table
	Row    int // 1-based data row, header excluded
	Column string
	Value  interface{}
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s row %d column %s (%v): %v", e.Table, e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// WriteFailure wraps an append the store rejected.
type WriteFailure struct {
	Table Table
	Err   error
}

func (e *WriteFailure) Error() string {
	return fmt.Sprintf("append to %s: %v", e.Table, e.Err)
}

func (e *WriteFailure) Unwrap() []error {
	return []error{ErrWriteFailure, e.Err}
}
