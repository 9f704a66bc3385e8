package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Is reports whether any error in err's tree matches target
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// DataLoadError reports a source file that could not be turned into a table:
// missing or unreadable file, missing column, malformed row or invalid cell.
type DataLoadError struct {
	Path   string
	Row    int    // 1-based data row, 0 when the failure is not row specific
	Column string // empty when the failure is not column specific
	Reason string
	Err    error
}

// Error implements the error interface
func (e *DataLoadError) Error() string {
	var b strings.Builder
	b.WriteString("load ")
	b.WriteString(e.Path)
	if e.Row > 0 {
		fmt.Fprintf(&b, ": row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, ": column %s", e.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause
func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// NewDataLoadError creates a file-level load error
func NewDataLoadError(path, reason string, cause error) *DataLoadError {
	return &DataLoadError{Path: path, Reason: reason, Err: cause}
}

// NewRowError creates a load error pinned to a row and column
func NewRowError(path string, row int, column, reason string, cause error) *DataLoadError {
	return &DataLoadError{Path: path, Row: row, Column: column, Reason: reason, Err: cause}
}

// UnknownBandError reports an age-band label outside the fixed enumeration
type UnknownBandError struct {
	Label string
}

// Error implements the error interface
func (e *UnknownBandError) Error() string {
	return fmt.Sprintf("unknown age band %q", e.Label)
}

// EmptyGroupError reports a selection that matched no rows
type EmptyGroupError struct {
	Selection string
}

// Error implements the error interface
func (e *EmptyGroupError) Error() string {
	if e.Selection == "" {
		return "selection matched no rows"
	}
	return fmt.Sprintf("selection %s matched no rows", e.Selection)
}

// IsEmptyGroup reports whether err is or wraps an EmptyGroupError
func IsEmptyGroup(err error) bool {
	var target *EmptyGroupError
	return As(err, &target)
}
