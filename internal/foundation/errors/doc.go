// Package errors provides foundational, type-safe error primitives used across sitegen.
//
// This package contains classified error types and helpers for robust error handling,
// including a fluent builder API for constructing ClassifiedError values with context.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, template, content, filesystem, etc.)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - CLIErrorAdapter: exit code mapping and error presentation for the CLI
//
// Example usage:
//
//	err := errors.WrapError(readErr, errors.CategoryTemplate, "template not readable").
//		Fatal().
//		WithContext("template", name).
//		Build()
package errors
