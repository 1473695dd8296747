package types

import (
	"errors"
	"fmt"
	"strings"
)

// Error tag constants.
const (
	TagDivideByZero  = "DivideByZero"
	TagInvalidKind   = "InvalidKind"
	TagInvalidNumber = "InvalidNumber"
)

// DivideByZeroText is the text shown on the display for a failed evaluation.
// Every evaluation failure surfaces with this text, including numeric
// overflow.
const DivideByZeroText = "Can't divide by 0"

// CalcError is an engine error with a message and tags.
type CalcError struct {
	Message string
	Tags    []string
}

// Error implements the error interface.
func (e *CalcError) Error() string {
	return fmt.Sprintf("%s (tags=[%s])", e.Message, strings.Join(e.Tags, ", "))
}

// HasTag returns true if the error has the specified tag.
func (e *CalcError) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// HasTag reports whether err is, or wraps, a CalcError carrying tag.
func HasTag(err error, tag string) bool {
	var ce *CalcError
	if errors.As(err, &ce) {
		return ce.HasTag(tag)
	}
	return false
}

// Common error constructors.

// NewDivideByZeroError creates a DivideByZero error.
func NewDivideByZeroError() *CalcError {
	return &CalcError{Message: DivideByZeroText, Tags: []string{TagDivideByZero}}
}

// NewInvalidKindError creates an InvalidKind error.
func NewInvalidKindError(k Kind) *CalcError {
	return &CalcError{
		Message: fmt.Sprintf("symbol kind must be number | operator | error, got %d", int(k)),
		Tags:    []string{TagInvalidKind},
	}
}

// NewInvalidNumberError creates an InvalidNumber error.
func NewInvalidNumberError(value string) *CalcError {
	return &CalcError{
		Message: fmt.Sprintf("%q is not a number", value),
		Tags:    []string{TagInvalidNumber},
	}
}
