package table

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFieldName indicates a field the row type does not know.
	ErrInvalidFieldName = errors.New("invalid field name")

	// ErrNonRenderableField indicates a field with no display form.
	ErrNonRenderableField = errors.New("non renderable field")
)

// FieldErrorKind classifies a field projection failure.
type FieldErrorKind int

const (
	InvalidFieldName FieldErrorKind = iota
	NonRenderableField
)

// FieldError reports a failed field projection on a row.
type FieldError struct {
	Kind  FieldErrorKind
	Field string
}

// InvalidField returns an InvalidFieldName error for field.
func InvalidField(field string) *FieldError {
	return &FieldError{Kind: InvalidFieldName, Field: field}
}

// NonRenderable returns a NonRenderableField error for field.
func NonRenderable(field string) *FieldError {
	return &FieldError{Kind: NonRenderableField, Field: field}
}

func (e *FieldError) Error() string {
	if e.Kind == NonRenderableField {
		return fmt.Sprintf("could not render field %q for which no representation is defined", e.Field)
	}
	return fmt.Sprintf("invalid field name given: %q", e.Field)
}

// Is maps the error kind onto the package sentinels.
func (e *FieldError) Is(target error) bool {
	switch target {
	case ErrInvalidFieldName:
		return e.Kind == InvalidFieldName
	case ErrNonRenderableField:
		return e.Kind == NonRenderableField
	}
	return false
}

// SortError reports a sort key that could not be extracted for the active
// sort column. The view falls back to unsorted order when it occurs.
type SortError struct {
	Column string
	Field  string
	Row    int
	Err    error
}

func (e *SortError) Error() string {
	return fmt.Sprintf("unable to sort column %q by field %q (row %d): %v", e.Column, e.Field, e.Row, e.Err)
}

func (e *SortError) Unwrap() error {
	return e.Err
}
