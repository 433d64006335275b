package enrollment

import (
	"errors"
	"fmt"
)

// InvalidSchoolMessage is the user-facing text of every InvalidSchoolError
const InvalidSchoolMessage = "Please enter a valid school name or code."

// Sentinel errors for errors.Is checks
var (
	ErrShape         = errors.New("enrollment: block shape mismatch")
	ErrInvalidSchool = errors.New("enrollment: invalid school")
	ErrDirectory     = errors.New("enrollment: invalid school directory")
)

// ShapeError reports an input block (or block count) that does not match the array shape.
// Year is -1 when the number of blocks is wrong. Dims is set only when the shape
// itself has an empty axis.
type ShapeError struct {
	Year int
	Want int
	Got  int
	Dims *Dims
}

// Error implements the error interface
func (e *ShapeError) Error() string {
	if e.Dims != nil {
		return fmt.Sprintf("invalid array shape %s: every axis must be positive", e.Dims)
	}
	if e.Year < 0 {
		return fmt.Sprintf("expected %d yearly blocks, got %d", e.Want, e.Got)
	}
	return fmt.Sprintf("block for year index %d has %d cells, expected %d", e.Year, e.Got, e.Want)
}

// Is reports whether target is ErrShape
func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}

// InvalidSchoolError reports a school query that matched nothing.
// Query holds the offending input for logging (nil for an out-of-range index); it is not part of the message.
type InvalidSchoolError struct {
	Query Query
}

// Error implements the error interface
func (e *InvalidSchoolError) Error() string {
	return InvalidSchoolMessage
}

// Is reports whether target is ErrInvalidSchool
func (e *InvalidSchoolError) Is(target error) bool {
	return target == ErrInvalidSchool
}

// DirectoryError reports a malformed school directory
type DirectoryError struct {
	Field   string
	Message string
	Value   interface{}
}

// Error implements the error interface
func (e *DirectoryError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is reports whether target is ErrDirectory
func (e *DirectoryError) Is(target error) bool {
	return target == ErrDirectory
}
