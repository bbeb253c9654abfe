// Package errors provides structured error types for the cstr library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries a detail message, the offending value,
// and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRender, errors.KindInteriorNul).
//		Detail("NUL byte at position %d", pos).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InteriorNul(errors.PhaseRender, pos)
//	err := errors.InvalidUTF8(errors.PhaseValidate, data)
//
// All errors implement the standard error interface and support errors.Is/As.
// Two *Error values match under errors.Is when Phase and Kind agree, so
// callers can probe outcomes without string comparison.
package errors
