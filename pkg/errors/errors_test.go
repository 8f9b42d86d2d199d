package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodePackageNotFound, "package %q not found", "foo")

	if err.Code != ErrCodePackageNotFound {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodePackageNotFound)
	}

	if err.Message != `package "foo" not found` {
		t.Errorf("Message = %v, want %v", err.Message, `package "foo" not found`)
	}

	expected := `PACKAGE_NOT_FOUND: package "foo" not found`
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("exit status 101")
	err := Wrap(ErrCodeProvider, cause, "cargo metadata failed")

	if err.Code != ErrCodeProvider {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeProvider)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeCycle, "test"),
			code:     ErrCodeCycle,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeCycle, "test"),
			code:     ErrCodeProvider,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeProvider, New(ErrCodeInvalidManifest, "inner"), "outer"),
			code:     ErrCodeProvider,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("publish: %w", New(ErrCodeCycle, "inner")),
			code:     ErrCodeCycle,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeCycle,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeCycle,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidFeature, "test"),
			expected: ErrCodeInvalidFeature,
		},
		{
			name:     "wrapped usage error",
			err:      fmt.Errorf("examples: %w", Usage("cargo print examples", "unknown flag")),
			expected: ErrCodeUsage,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeNotInPackage, "not in a package"),
			expected: "not in a package",
		},
		{
			name:     "Error with cause",
			err:      Wrap(ErrCodeProvider, errors.New("exit status 101"), "cargo metadata failed"),
			expected: "cargo metadata failed: exit status 101",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUsageError(t *testing.T) {
	t.Run("with reason", func(t *testing.T) {
		err := Usage("cargo print publish", "unexpected argument \"x\"")
		expected := `unexpected argument "x": cargo print publish`
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("without reason", func(t *testing.T) {
		err := Usage("cargo print publish", "")
		if err.Error() != "cargo print publish" {
			t.Errorf("Error() = %v, want %v", err.Error(), "cargo print publish")
		}
	})

	t.Run("code method", func(t *testing.T) {
		err := Usage("x", "")
		if err.Code() != ErrCodeUsage {
			t.Errorf("Code() = %v, want %v", err.Code(), ErrCodeUsage)
		}
	})

	t.Run("detected through wrapping", func(t *testing.T) {
		err := fmt.Errorf("examples: %w", Usage("x", ""))
		if !Is(err, ErrCodeUsage) {
			t.Error("Is(err, ErrCodeUsage) = false, want true")
		}
		if ue, ok := AsUsage(err); !ok || ue.Line != "x" {
			t.Errorf("AsUsage() = %v, %v", ue, ok)
		}
		if _, ok := AsUsage(New(ErrCodeCycle, "x")); ok {
			t.Error("AsUsage() = true for coded error, want false")
		}
	})
}
