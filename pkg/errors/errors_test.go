package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodePathResolution, cause, "resolve failed")

	if err.Code != ErrCodePathResolution {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodePathResolution)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
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
			err:      New(ErrCodeInvalidPath, "test"),
			code:     ErrCodeInvalidPath,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidPath, "test"),
			code:     ErrCodeProbeTimeout,
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeInternal,
			expected: false,
		},
		{
			name:     "wrapped structured error",
			err:      Wrap(ErrCodeProbeFailed, errors.New("exec"), "probe"),
			code:     ErrCodeProbeFailed,
			expected: true,
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
	if code := GetCode(New(ErrCodeArchive, "save failed")); code != ErrCodeArchive {
		t.Errorf("GetCode = %v, want %v", code, ErrCodeArchive)
	}
	if code := GetCode(errors.New("plain")); code != "" {
		t.Errorf("GetCode on plain error = %v, want empty", code)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidPath, "not a directory")
	if msg := UserMessage(err); msg != "not a directory" {
		t.Errorf("UserMessage = %q, want %q", msg, "not a directory")
	}

	plain := errors.New("plain error")
	if msg := UserMessage(plain); msg != "plain error" {
		t.Errorf("UserMessage on plain error = %q, want %q", msg, "plain error")
	}
}

func TestValidateRootDir(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid relative", ".", false},
		{"valid absolute", "/home/user/envs", false},
		{"valid tilde", "~/projects", false},
		{"empty", "", true},
		{"null byte", "/tmp/\x00evil", true},
		{"control character", "/tmp/\x07bell", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRootDir(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRootDir(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}
