package ogimage

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

// Error codes of the image pipeline.
const (
	// The font asset is absent, unreadable or not a font. Fatal at startup.
	CodeStartupAssetMissing Code = "STARTUP_ASSET_MISSING"
	// The vector stage could not lay out or draw the tree.
	CodeRender Code = "RENDER_ERROR"
	// The raster stage could not decode the vector markup.
	CodeDecode Code = "DECODE_ERROR"
)

// Sentinels for errors.Is. Matching compares codes only.
var (
	ErrStartupAssetMissing = &Error{Code: CodeStartupAssetMissing}
	ErrRender              = &Error{Code: CodeRender}
	ErrDecode              = &Error{Code: CodeDecode}
)

// ErrImageSkipped is returned by a Generator using SkipOnFailure instead
// of the underlying render or decode error.
var ErrImageSkipped = errors.New("ogimage: image skipped")

// Error is a structured pipeline error with a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapError(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// CodeOf extracts the error code from err, or "" when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
