// Package errors provides structured error types for the bitfield compiler.
//
// Errors are categorized by Phase (where in the pipeline the error occurred)
// and Kind (error category). The Error type includes rich context: field
// name, declared type, offending value, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseClassify, errors.KindZeroWidth).
//		Field("flags").
//		DeclType("usize").
//		Detail("platform-sized types require an explicit width").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ZeroWidth("flags", "usize")
//	err := errors.IncompleteLayout(27, 32)
//
// All construction-time errors are fatal to the type being compiled; there
// is no partial or degraded bitfield. Errors implement the standard error
// interface and support errors.Is/As.
package errors
