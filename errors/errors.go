package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the compilation pipeline the error occurred
type Phase string

const (
	PhaseParse    Phase = "parse"    // schema ingestion
	PhaseClassify Phase = "classify" // type classification and width resolution
	PhaseResolve  Phase = "resolve"  // layout resolution
	PhaseAssemble Phase = "assemble" // whole-type assembly
	PhaseAccess   Phase = "access"   // accessor invocation
	PhaseGenerate Phase = "generate" // source generation
)

// Kind categorizes the error
type Kind string

const (
	KindUnsupportedStorage Kind = "unsupported_storage"
	KindZeroWidth          Kind = "zero_width"
	KindWidthOverflow      Kind = "width_overflow"
	KindMissingConversion  Kind = "missing_conversion"
	KindHooksOnPadding     Kind = "hooks_on_padding"
	KindIncompleteLayout   Kind = "incomplete_layout"
	KindExceedsStorage     Kind = "exceeds_storage"
	KindUnknownOption      Kind = "unknown_option"
	KindBoundsViolation    Kind = "bounds_violation"
	KindTypeMismatch       Kind = "type_mismatch"
	KindUnknownField       Kind = "unknown_field"
	KindInvalidData        Kind = "invalid_data"
	KindUnsupported        Kind = "unsupported"
)

// Error is the structured error type used throughout the compiler
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Field    string
	DeclType string
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Field != "" {
		b.WriteString(" at ")
		b.WriteString(e.Field)
	}

	if e.DeclType != "" {
		b.WriteString(": type ")
		b.WriteString(e.DeclType)
	}

	if e.Detail != "" {
		if e.DeclType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Field sets the field name
func (b *Builder) Field(name string) *Builder {
	b.err.Field = name
	return b
}

// DeclType sets the declared type name
func (b *Builder) DeclType(t string) *Builder {
	b.err.DeclType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the compiler's error taxonomy

// UnsupportedStorage reports a storage type that is not a fixed-width
// unsigned integer. Platform-sized types are rejected because their width
// is not statically known.
func UnsupportedStorage(typeName string) *Error {
	return &Error{
		Phase:    PhaseParse,
		Kind:     KindUnsupportedStorage,
		DeclType: typeName,
		Detail:   "storage must be a fixed-width unsigned integer (u8, u16, u32, u64, u128)",
	}
}

// ZeroWidth reports a field that resolved to width 0.
func ZeroWidth(field, declType string) *Error {
	return &Error{
		Phase:    PhaseClassify,
		Kind:     KindZeroWidth,
		Field:    field,
		DeclType: declType,
		Detail:   "custom and platform-sized types require an explicit bit width",
	}
}

// WidthOverflow reports an explicit width wider than the field type.
func WidthOverflow(field, declType string, bits, natural uint32) *Error {
	return &Error{
		Phase:    PhaseClassify,
		Kind:     KindWidthOverflow,
		Field:    field,
		DeclType: declType,
		Detail:   fmt.Sprintf("%d bits overflow the %d-bit field type", bits, natural),
		Value:    bits,
	}
}

// LayoutOverflow reports a field whose bit range runs past the storage.
// The position is reported against the declaration-order cursor, before
// any bit-order mirroring.
func LayoutOverflow(field string, offset, width, total uint32) *Error {
	return &Error{
		Phase: PhaseResolve,
		Kind:  KindWidthOverflow,
		Field: field,
		Detail: fmt.Sprintf("field spans bits %d..%d but storage ends at bit %d",
			offset, offset+width, total),
	}
}

// MissingConversion reports a custom-typed field without conversion hooks.
func MissingConversion(field, declType string) *Error {
	return &Error{
		Phase:    PhaseClassify,
		Kind:     KindMissingConversion,
		Field:    field,
		DeclType: declType,
		Detail:   "custom types require both 'into' and 'from' conversion hooks",
	}
}

// HooksOnPadding reports conversion hooks supplied on a padding field.
func HooksOnPadding(field string) *Error {
	return &Error{
		Phase:  PhaseClassify,
		Kind:   KindHooksOnPadding,
		Field:  field,
		Detail: "'into' and 'from' are not supported on padding",
	}
}

// IncompleteLayout reports fields that do not cover the whole storage.
func IncompleteLayout(covered, total uint32) *Error {
	return &Error{
		Phase: PhaseAssemble,
		Kind:  KindIncompleteLayout,
		Detail: fmt.Sprintf("fields cover %d of %d bits; add a %d-bit padding field (name prefixed with \"_\")",
			covered, total, total-covered),
	}
}

// ExceedsStorage reports fields wider in sum than the storage.
func ExceedsStorage(covered, total uint32) *Error {
	return &Error{
		Phase: PhaseAssemble,
		Kind:  KindExceedsStorage,
		Detail: fmt.Sprintf("fields span %d bits but storage is only %d bits (%d over)",
			covered, total, covered-total),
	}
}

// UnknownOption reports an unrecognized configuration option or value.
func UnknownOption(option, value string) *Error {
	detail := fmt.Sprintf("unknown option %q", option)
	if value != "" {
		detail = fmt.Sprintf("unknown value %q for option %q", value, option)
	}
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindUnknownOption,
		Detail: detail,
	}
}

// BoundsViolation reports a written value that does not fit the field's
// declared width and signedness.
func BoundsViolation(field string, value any, width uint32) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindBoundsViolation,
		Field:  field,
		Detail: fmt.Sprintf("value %v does not fit in %d bits", value, width),
		Value:  value,
	}
}

// TypeMismatch reports a value of the wrong dynamic type passed to an
// accessor.
func TypeMismatch(field, expected string, value any) *Error {
	return &Error{
		Phase:  PhaseAccess,
		Kind:   KindTypeMismatch,
		Field:  field,
		Detail: fmt.Sprintf("expected %s, got %T", expected, value),
		Value:  value,
	}
}

// UnknownField reports access to a field the type does not declare.
func UnknownField(typeName, field string) *Error {
	return &Error{
		Phase:    PhaseAccess,
		Kind:     KindUnknownField,
		Field:    field,
		DeclType: typeName,
		Detail:   "no such field",
	}
}

// ParseFailed wraps a schema file decoding error.
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// InvalidData creates an invalid data error.
func InvalidData(phase Phase, field, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Field:  field,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error.
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}
