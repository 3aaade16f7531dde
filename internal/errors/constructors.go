package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *RelocError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigRequired(field string) *RelocError {
	return New(CategoryConfig, SeverityFatal, "required configuration missing").
		WithContext("field", field)
}

func ValidationFailed(field, reason string) *RelocError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Layout errors

func LayoutFailed(project string, cause error) *RelocError {
	return Wrap(cause, CategoryLayout, SeverityFatal, "output relocation failed").
		WithContext("project", project)
}

// Cleanup errors

func CleanupFailed(path string, cause error) *RelocError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "output directory removal failed").
		WithContext("path", path)
}

func UnsafeCleanup(path, reason string) *RelocError {
	return New(CategoryValidation, SeverityFatal, "refusing to remove output directory").
		WithContext("path", path).
		WithContext("reason", reason)
}

// Store and notification errors

func StoreError(operation string, cause error) *RelocError {
	return Wrap(cause, CategoryStore, SeverityError, "history store operation failed").
		WithContext("operation", operation)
}

func PublishError(subject string, cause error) *RelocError {
	return WrapRetryable(cause, CategoryNetwork, SeverityWarning, "event publish failed").
		WithContext("subject", subject)
}

// Internal errors

func InternalError(message string, cause error) *RelocError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
