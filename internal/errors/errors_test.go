package errors

import (
	"context"
	stdErrors "errors"
	"fmt"
	"testing"
)

type classified struct{}

func (classified) Error() string                { return "bad segment" }
func (classified) ErrorCategory() ErrorCategory { return CategoryValidation }

func TestRelocError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *RelocError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("permission denied"), CategoryFileSystem, SeverityFatal, "remove failed"),
			expected: "filesystem (fatal): remove failed: permission denied",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := test.err.Error()
			if result != test.expected {
				t.Errorf("Error() = %q, want %q", result, test.expected)
			}
		})
	}
}

func TestRelocError_WithContext(t *testing.T) {
	err := New(CategoryLayout, SeverityWarning, "relocation failed").
		WithContext("project", "app").
		WithContext("path", "/proj/build/app")

	if err.Context == nil {
		t.Fatal("Context should not be nil")
	}
	if err.Context["project"] != "app" {
		t.Errorf("Context[project] = %v, want app", err.Context["project"])
	}
	if err.Context["path"] != "/proj/build/app" {
		t.Errorf("Context[path] = %v, want /proj/build/app", err.Context["path"])
	}
}

func TestGetCategory(t *testing.T) {
	cleanupErr := CleanupFailed("/proj/build", fmt.Errorf("permission denied"))

	tests := []struct {
		name     string
		err      error
		expected ErrorCategory
	}{
		{"reloc error", cleanupErr, CategoryFileSystem},
		{"wrapped reloc error", fmt.Errorf("task clean: %w", cleanupErr), CategoryFileSystem},
		{"classifier", classified{}, CategoryValidation},
		{"wrapped classifier", fmt.Errorf("relocate: %w", classified{}), CategoryValidation},
		{"joined reloc error", stdErrors.Join(fmt.Errorf("boom"), cleanupErr), CategoryFileSystem},
		{"double wrapped reloc error", fmt.Errorf("retry canceled: %w: %w", context.Canceled, cleanupErr), CategoryFileSystem},
		{"standard error", fmt.Errorf("boom"), CategoryInternal},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := GetCategory(test.err); got != test.expected {
				t.Errorf("GetCategory() = %v, want %v", got, test.expected)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"publish error", PublishError("buildreloc.events", fmt.Errorf("timeout")), true},
		{"cleanup error", CleanupFailed("/x", fmt.Errorf("denied")), false},
		{"standard error", fmt.Errorf("standard error"), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsRetryable(test.err); got != test.expected {
				t.Errorf("IsRetryable() = %v, want %v", got, test.expected)
			}
		})
	}
}

func TestConvenienceFunctions(t *testing.T) {
	t.Run("ConfigNotFound", func(t *testing.T) {
		err := ConfigNotFound("/path/to/buildreloc.yaml")
		if err.Category != CategoryConfig {
			t.Errorf("Category = %v, want %v", err.Category, CategoryConfig)
		}
		if err.Severity != SeverityFatal {
			t.Errorf("Severity = %v, want %v", err.Severity, SeverityFatal)
		}
		if err.Context["path"] != "/path/to/buildreloc.yaml" {
			t.Errorf("Context[path] = %v", err.Context["path"])
		}
	})

	t.Run("CleanupFailed", func(t *testing.T) {
		cause := fmt.Errorf("permission denied")
		err := CleanupFailed("/proj/build", cause)
		if err.Category != CategoryFileSystem {
			t.Errorf("Category = %v, want %v", err.Category, CategoryFileSystem)
		}
		if err.Retryable {
			t.Error("CleanupFailed must not be retryable")
		}
		if !stdErrors.Is(err, cause) {
			t.Errorf("Cause should match wrapped cause: %v", cause)
		}
	})

	t.Run("ValidationFailed", func(t *testing.T) {
		err := ValidationFailed("output.offset", "must not be empty")
		if err.Category != CategoryValidation {
			t.Errorf("Category = %v, want %v", err.Category, CategoryValidation)
		}
		if err.Context["reason"] != "must not be empty" {
			t.Errorf("Context[reason] = %v", err.Context["reason"])
		}
	})
}

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"nil", nil, 0},
		{"validation", ValidationFailed("f", "r"), 2},
		{"classifier", classified{}, 2},
		{"config", ConfigNotFound("x"), 7},
		{"filesystem", CleanupFailed("/x", fmt.Errorf("denied")), 11},
		{"store", StoreError("append", fmt.Errorf("locked")), 8},
		{"internal", InternalError("boom", nil), 10},
		{"plain", fmt.Errorf("plain"), 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := a.ExitCodeFor(test.err); got != test.code {
				t.Errorf("ExitCodeFor() = %d, want %d", got, test.code)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, nil)
	verbose := NewCLIErrorAdapter(true, nil)

	err := CleanupFailed("/proj/build", fmt.Errorf("permission denied"))
	if got := quiet.FormatError(err); got != "filesystem: output directory removal failed" {
		t.Errorf("FormatError() = %q", got)
	}
	if got := verbose.FormatError(err); got != err.Error() {
		t.Errorf("verbose FormatError() = %q", got)
	}
	if got := quiet.FormatError(fmt.Errorf("plain")); got != "Error: plain" {
		t.Errorf("FormatError(plain) = %q", got)
	}
}
