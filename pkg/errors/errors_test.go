// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and code lookup

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/switchboard/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "not_found_error",
			code:    errors.ErrNotFound,
			message: "no handler named add",
			wantStr: "[NOT_FOUND] no handler named add",
		},
		{
			name:    "no_match_error",
			code:    errors.ErrNoMatch,
			message: "no rule matched",
			wantStr: "[NO_MATCH] no rule matched",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrDuplicateName, "child %q already attached to %s", "text", "calc")

	want := `child "text" already attached to calc`
	if err.Message != want {
		t.Errorf("Newf() message = %q, want %q", err.Message, want)
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrPluginHook, "plugin logger rejected add")

		if err.Code != errors.ErrPluginHook {
			t.Errorf("Wrap() code = %v, want %v", err.Code, errors.ErrPluginHook)
		}

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}

		wantStr := "[PLUGIN_HOOK] plugin logger rejected add: base error"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		if err := errors.Wrap(nil, errors.ErrInternal, "internal error"); err != nil {
			t.Error("Wrap(nil) should return nil")
		}
		if err := errors.Wrapf(nil, errors.ErrInternal, "internal %s", "error"); err != nil {
			t.Error("Wrapf(nil) should return nil")
		}
	})
}

func TestWithDetails(t *testing.T) {
	err := errors.New(errors.ErrValidation, "invalid arguments").
		WithDetail("handler", "double").
		WithDetails(map[string]interface{}{"field": "x", "index": 0})

	if err.Details["handler"] != "double" {
		t.Errorf("WithDetail() handler = %v, want double", err.Details["handler"])
	}
	if err.Details["field"] != "x" {
		t.Errorf("WithDetails() field = %v, want x", err.Details["field"])
	}
	if got := errors.GetErrorDetails(err)["index"]; got != 0 {
		t.Errorf("GetErrorDetails() index = %v, want 0", got)
	}
	if errors.GetErrorDetails(stderrors.New("plain")) != nil {
		t.Error("GetErrorDetails() should be nil for plain errors")
	}
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrNotFound, "error 1")
	err2 := errors.New(errors.ErrNotFound, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	t.Run("same_code_is_equal", func(t *testing.T) {
		if !err1.Is(err2) {
			t.Error("Is() should return true for same code")
		}
	})

	t.Run("different_code_not_equal", func(t *testing.T) {
		if err1.Is(err3) {
			t.Error("Is() should return false for different codes")
		}
	})

	t.Run("works_with_errors_Is", func(t *testing.T) {
		if !stderrors.Is(err1, err2) {
			t.Error("errors.Is() should work with SwitchboardError")
		}
	})
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{
			name:     "matching_code",
			err:      errors.New(errors.ErrNotFound, "not found"),
			code:     errors.ErrNotFound,
			expected: true,
		},
		{
			name:     "different_code",
			err:      errors.New(errors.ErrNotFound, "not found"),
			code:     errors.ErrInternal,
			expected: false,
		},
		{
			name:     "wrapped_error",
			err:      errors.Wrap(stderrors.New("base"), errors.ErrCapability, "no cursor"),
			code:     errors.ErrCapability,
			expected: true,
		},
		{
			name:     "code_deeper_in_chain",
			err:      errors.Wrap(errors.New(errors.ErrConfigValid, "both print and log"), errors.ErrPluginHook, "decorate failed"),
			code:     errors.ErrConfigValid,
			expected: true,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			code:     errors.ErrNotFound,
			expected: false,
		},
		{
			name:     "nil_error",
			err:      nil,
			code:     errors.ErrNotFound,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected errors.ErrorCode
	}{
		{
			name:     "switchboard_error",
			err:      errors.New(errors.ErrSelfAttachment, "cannot attach calc to itself"),
			expected: errors.ErrSelfAttachment,
		},
		{
			name:     "outermost_code_wins",
			err:      errors.Wrap(errors.New(errors.ErrValidation, "bad"), errors.ErrPluginHook, "hook"),
			expected: errors.ErrPluginHook,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			expected: errors.ErrUnknown,
		},
		{
			name:     "nil_error",
			err:      nil,
			expected: errors.ErrUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestErrorChaining(t *testing.T) {
	rootCause := stderrors.New("root cause")
	hookErr := errors.Wrap(rootCause, errors.ErrConfigValid, "invalid logger mode")
	regErr := errors.Wrap(hookErr, errors.ErrPluginHook, "registration aborted")

	t.Run("top_level_has_correct_code", func(t *testing.T) {
		if errors.GetErrorCode(regErr) != errors.ErrPluginHook {
			t.Error("Top level should have ErrPluginHook code")
		}
	})

	t.Run("can_find_middle_error", func(t *testing.T) {
		var sbErr *errors.SwitchboardError
		if stderrors.As(regErr.Unwrap(), &sbErr) {
			if sbErr.Code != errors.ErrConfigValid {
				t.Error("Middle error should have ErrConfigValid code")
			}
		} else {
			t.Error("Unwrap() should expose the middle error")
		}
	})

	t.Run("can_find_root_cause", func(t *testing.T) {
		if !stderrors.Is(regErr, rootCause) {
			t.Error("Should find root cause with errors.Is")
		}
	})
}
