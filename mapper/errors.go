package mapper

import (
	"fmt"
	"reflect"
	"strings"
)

// InstantiationError is returned when a target, or a nested target field,
// cannot be constructed.
type InstantiationError struct {
	Type  reflect.Type
	Field string
	Err   error
}

func (e *InstantiationError) Error() string {
	msg := fmt.Sprintf("cannot instantiate %v", e.Type)
	if e.Field != "" {
		msg = fmt.Sprintf("field %s: %s", e.Field, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InstantiationError) Unwrap() error { return e.Err }

// AccessError is returned when a field cannot be read or written, for
// example a binding declared on an unexported field.
type AccessError struct {
	Type  reflect.Type
	Field string
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("field %s of %v is not accessible", e.Field, e.Type)
}

// UnsupportedShapeError is returned when a binding links two shapes the
// engine cannot bridge. The destination is left untouched.
type UnsupportedShapeError struct {
	Field       string
	Source      Shape
	Destination Shape
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("field %s: cannot fill %s from %s", e.Field, e.Destination, e.Source)
}

// TypeMismatchError is returned when a value cannot be stored in a
// destination of a different type.
type TypeMismatchError struct {
	Field       string
	Source      reflect.Type
	Destination reflect.Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("field %s: %v is not assignable to %v", e.Field, e.Source, e.Destination)
}

// CapacityError is returned when a fixed-size array destination is too
// short for the windowed source. The slots that fit are written.
type CapacityError struct {
	Field    string
	Length   int
	Required int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("field %s: array of length %d cannot hold %d elements", e.Field, e.Length, e.Required)
}

// DepthError is returned when recursion exceeds the configured maximum
// depth, which is how cyclic object graphs surface.
type DepthError struct {
	Depth int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("maximum fill depth %d exceeded", e.Depth)
}

// TagError is returned for a malformed binding tag.
type TagError struct {
	Type  reflect.Type
	Field string
	Tag   string
	Msg   string
}

func (e *TagError) Error() string {
	return fmt.Sprintf("invalid binding tag %q on %v.%s: %s", e.Tag, e.Type, e.Field, e.Msg)
}

// PartialFillError lists every failure that was skipped while the fill
// continued: all failures in best-effort mode, unsupported shape pairs in
// strict mode.
type PartialFillError struct {
	Errors []error
}

func (e *PartialFillError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("partial fill, %d failure(s): %s", len(e.Errors), strings.Join(msgs, "; "))
}

func (e *PartialFillError) Unwrap() []error { return e.Errors }
