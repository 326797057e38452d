package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies a class of mapping failure.
type ErrorCode string

const (
	// ErrMissingArgument indicates a required input was nil or absent.
	ErrMissingArgument ErrorCode = "missing-argument"
	// ErrFormat indicates the document violates the expected shape.
	ErrFormat ErrorCode = "format-error"
	// ErrLookup indicates an attribute token is not present in its codec table.
	ErrLookup ErrorCode = "lookup-error"
	// ErrUnsupportedConversion indicates tag data that cannot be normalized.
	ErrUnsupportedConversion ErrorCode = "unsupported-conversion"
	// ErrUnsupportedVersion indicates a legacy document revision this mapper refuses.
	ErrUnsupportedVersion ErrorCode = "unsupported-version"
)

// Conversion describes a mapping error with its code and optional element
// path and token context.
//
//nolint:errname // public API name uses the mapper's domain term.
type Conversion struct {
	Code     string
	Message  string
	Path     string
	Actual   string
	Expected []string
}

// Error formats the conversion error for display, including code, message,
// and context.
func (c *Conversion) Error() string {
	if c == nil {
		return "conversion <nil>"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s", c.Code, c.Message))
	if c.Path != "" {
		b.WriteString(fmt.Sprintf(" at %s", c.Path))
	}
	if len(c.Expected) > 0 {
		b.WriteString(fmt.Sprintf(" (expected: %s)", strings.Join(c.Expected, ", ")))
	}
	if c.Actual != "" {
		b.WriteString(fmt.Sprintf(" (actual: %s)", c.Actual))
	}
	return b.String()
}

// NewConversion builds a Conversion with a code, message, and optional path.
func NewConversion(code ErrorCode, msg, path string) *Conversion {
	return &Conversion{Code: string(code), Message: msg, Path: path}
}

// NewConversionf formats a message and builds a Conversion.
func NewConversionf(code ErrorCode, path, format string, args ...any) *Conversion {
	return NewConversion(code, fmt.Sprintf(format, args...), path)
}

// AsConversion extracts a Conversion from an error chain.
func AsConversion(err error) (*Conversion, bool) {
	if err == nil {
		return nil, false
	}
	var c *Conversion
	if errors.As(err, &c) && c != nil {
		return c, true
	}
	return nil, false
}

// HasCode reports whether err carries a Conversion with the given code.
func HasCode(err error, code ErrorCode) bool {
	c, ok := AsConversion(err)
	return ok && c.Code == string(code)
}
