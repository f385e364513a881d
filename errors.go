package itf

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrorCode categorizes decode failures.
type ErrorCode string

const (
	// CodeMalformedJSON indicates the input is not valid JSON at all.
	CodeMalformedJSON ErrorCode = "MALFORMED_JSON"

	// CodeMissingField indicates a required field is absent.
	CodeMissingField ErrorCode = "MISSING_FIELD"

	// CodeTypeMismatch indicates a value kind the target shape does not
	// accept.
	CodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// CodeArityMismatch indicates a tuple or fixed-size sequence of the
	// wrong length.
	CodeArityMismatch ErrorCode = "ARITY_MISMATCH"

	// CodeInvalidBigInt indicates a #bigint payload that is not a decimal
	// integer literal.
	CodeInvalidBigInt ErrorCode = "INVALID_BIGINT"

	// CodeDuplicateKey indicates a #map payload with two equal keys.
	CodeDuplicateKey ErrorCode = "DUPLICATE_KEY"

	// CodeDuplicateElement indicates a #set payload with two equal
	// elements.
	CodeDuplicateElement ErrorCode = "DUPLICATE_ELEMENT"

	// CodeUnrepresentableValue indicates an #unserializable value reached
	// a target shape that does not tolerate it.
	CodeUnrepresentableValue ErrorCode = "UNREPRESENTABLE_VALUE"

	// CodeNumericOverflow indicates magnitude or precision loss beyond
	// the target's numeric range.
	CodeNumericOverflow ErrorCode = "NUMERIC_OVERFLOW"
)

// Path locates a value within a decoded document, from the root down to
// the failing node. Elements are field names or bracketed indices.
type Path []string

// Field appends a field name, returning a new Path.
func (p Path) Field(name string) Path {
	return append(slices.Clip(p), name)
}

// Index appends a sequence index, returning a new Path.
func (p Path) Index(i int) Path {
	return append(slices.Clip(p), "["+strconv.Itoa(i)+"]")
}

// String renders the path as "states[3].value.x".
func (p Path) String() string {
	var b strings.Builder
	for _, elem := range p {
		if !strings.HasPrefix(elem, "[") && b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(elem)
	}
	return b.String()
}

// DecodeError is the single error type for every decode failure. A
// failure at any depth aborts the whole decode; Path points at the node
// that failed.
type DecodeError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Path locates the failing node from the document root.
	Path Path

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any (e.g. a JSON syntax error).
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("at %s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// CodeOf extracts the ErrorCode from an error, or "" if the error is not
// a DecodeError. Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsCode reports whether err is a DecodeError with the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// newDecodeError creates a DecodeError at the given path.
func newDecodeError(code ErrorCode, path Path, format string, args ...any) *DecodeError {
	return &DecodeError{
		Code:    code,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	}
}

// typeMismatch builds the standard "expected X, found Y" error.
func typeMismatch(path Path, expected string, found Value) *DecodeError {
	return newDecodeError(CodeTypeMismatch, path, "expected %s, found %s", expected, kindName(found))
}

// atPath prefixes a DecodeError's path with the location of the node it
// was produced under. Errors from nested Unmarshaler calls carry paths
// relative to their own subtree; this rebases them onto the document
// root. Non-DecodeError errors are wrapped as-is.
func atPath(err error, path Path) error {
	if err == nil {
		return nil
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return &DecodeError{
			Code:    de.Code,
			Path:    append(slices.Clip(path), de.Path...),
			Message: de.Message,
			Err:     de.Err,
		}
	}
	return &DecodeError{
		Code:    CodeTypeMismatch,
		Path:    path,
		Message: err.Error(),
		Err:     err,
	}
}
