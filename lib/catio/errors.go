package catio

import (
	"errors"
	"fmt"
	"strings"
)

// ErrOutOfOrder is matched (through errors.Is) by both OutOfOrderError and
// UnexpectedAheadError. Either one means a file or a caller broke the
// ascending-ID contract.
var ErrOutOfOrder = errors.New("particle IDs out of order")

// FormatError is returned by Open along with a usable, exhausted Reader when
// the file contains neither a header nor a single data record. Empty files
// are legitimate (some queries match no particles), so this is not fatal.
type FormatError struct {
	Name string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("file %s contains no header and no particle records",
		e.Name)
}

// HeaderMismatchError means a second header line in a file differs from the
// first.
type HeaderMismatchError struct {
	Name           string
	Header, Repeat []string
}

func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("unmatched header lines in file %s: '%s' then '%s'",
		e.Name, strings.Join(e.Header, ", "), strings.Join(e.Repeat, ", "))
}

// OutOfOrderError means that a file contains a repeated or decreasing
// particle ID, or that a caller asked for an ID it has already passed.
type OutOfOrderError struct {
	Name string
	// Prev is the previous ID and ID is the offending one.
	Prev, ID int64
	// Requested is true if the caller, not the file, went backwards.
	Requested bool
}

func (e *OutOfOrderError) Error() string {
	if e.Requested {
		return fmt.Sprintf("requested ID %d from file %s, but IDs up to %d "+
			"have already been consumed", e.ID, e.Name, e.Prev)
	}
	return fmt.Sprintf("repeated or unsorted ID in file %s: new ID %d is "+
		"<= previous ID %d", e.Name, e.ID, e.Prev)
}

func (e *OutOfOrderError) Is(target error) bool { return target == ErrOutOfOrder }

// UnexpectedAheadError means a caller requested an ID larger than the next
// record in the file, so that record would never be returned.
type UnexpectedAheadError struct {
	Name     string
	ID, Next int64
}

func (e *UnexpectedAheadError) Error() string {
	return fmt.Sprintf("requested ID %d is higher than was expected: "+
		"current ID %d in file %s was not requested", e.ID, e.Next, e.Name)
}

func (e *UnexpectedAheadError) Is(target error) bool {
	return target == ErrOutOfOrder
}

// NoHeaderError means a column was looked up by name in a file that never
// had a header.
type NoHeaderError struct {
	Name, Column string
}

func (e *NoHeaderError) Error() string {
	return fmt.Sprintf("file %s has no header to search for column '%s'",
		e.Name, e.Column)
}

// MissingColumnError means a header exists but does not contain a column.
type MissingColumnError struct {
	Name, Column string
	Header       []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column '%s' is not in the header of file %s, which "+
		"has columns %s", e.Column, e.Name, strings.Join(e.Header, ", "))
}
