package common

import (
	"errors"
	"testing"
)

func TestAppErrorFormatting(t *testing.T) {
	cause := errors.New("boom")
	e := NewAppError("CONFIG", "bad country code", cause)
	if got := e.Error(); got != "CONFIG: bad country code: boom" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(e, cause) {
		t.Error("AppError must unwrap to its cause")
	}

	bare := NewAppError("CONFIG", "bad country code", nil)
	if got := bare.Error(); got != "CONFIG: bad country code" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "walk") != nil {
		t.Error("wrapping nil must stay nil")
	}
	cause := errors.New("permission denied")
	wrapped := WrapError(cause, "walk source directory")
	if !errors.Is(wrapped, cause) {
		t.Error("wrapped error must unwrap to its cause")
	}
	if wrapped.Error() != "walk source directory: permission denied" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
}
