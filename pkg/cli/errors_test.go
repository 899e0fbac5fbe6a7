package cli

import (
	"errors"
	"testing"
)

func TestConfigError(t *testing.T) {
	cause := errors.New("bad value")

	tests := []struct {
		name  string
		field string
		want  string
	}{
		{"with field", "audit.backend", "config: audit.backend: bad value"},
		{"without field", "", "config: bad value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewConfigError(tt.field, cause)
			if err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
			}
			if !errors.Is(err, cause) {
				t.Error("errors.Is(err, cause) = false, want true")
			}
		})
	}
}

func TestCommandError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewCommandError("merge", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if err.Error() != "merge: boom" {
		t.Errorf("Error() = %q, want %q", err.Error(), "merge: boom")
	}
}

func TestExitError(t *testing.T) {
	err := NewExitError(1, "policy invalid")
	if err.Code != 1 {
		t.Errorf("err.Code = %d, want 1", err.Code)
	}
	if err.Error() != "policy invalid" {
		t.Errorf("Error() = %q, want %q", err.Error(), "policy invalid")
	}

	var exitErr *ExitError
	if !errors.As(error(err), &exitErr) {
		t.Error("errors.As failed for *ExitError")
	}
}
