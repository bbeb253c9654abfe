package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRender   Phase = "render"   // formatting text into a handle
	PhaseValidate Phase = "validate" // input validation
	PhaseWrite    Phase = "write"    // placement into foreign memory
)

// Kind categorizes the error
type Kind string

const (
	KindFormat       Kind = "format"        // argument text representation failed
	KindInteriorNul  Kind = "interior_nul"  // NUL byte before the terminator
	KindInvalidUTF8  Kind = "invalid_utf8"  // rendered text is not UTF-8
	KindOverflow     Kind = "overflow"      // size exceeds a hard limit
	KindAllocation   Kind = "allocation"    // foreign allocator failure
	KindOutOfBounds  Kind = "out_of_bounds" // memory access outside bounds
	KindInvalidInput Kind = "invalid_input" // malformed caller input
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
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

// Convenience constructors for common error patterns

// InteriorNul creates an interior NUL error for a NUL byte at position pos
func InteriorNul(phase Phase, pos int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInteriorNul,
		Detail: fmt.Sprintf("NUL byte at position %d before the terminator", pos),
		Value:  pos,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error.
// The preview is copied, so data never escapes into the error: callers may
// pass a stack-resident or reusable buffer without forcing it to the heap.
func InvalidUTF8(phase Phase, data []byte) *Error {
	n := len(data)
	if n > 32 {
		n = 32
	}
	preview := append([]byte(nil), data[:n]...)
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// FormatFailed creates a format error for the argument at index i
func FormatFailed(i int, cause error) *Error {
	return &Error{
		Phase:  PhaseRender,
		Kind:   KindFormat,
		Detail: fmt.Sprintf("argument %d has no text representation", i),
		Cause:  cause,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(size uint32, cause error) *Error {
	return &Error{
		Phase:  PhaseWrite,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
		Cause:  cause,
	}
}

// OutOfBounds creates an out of bounds memory access error
func OutOfBounds(offset uint32, length int) *Error {
	return &Error{
		Phase:  PhaseWrite,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("memory access out of bounds: offset=%d, length=%d", offset, length),
	}
}

// Overflow creates an overflow error for a size exceeding max
func Overflow(phase Phase, size uint64, max uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Detail: fmt.Sprintf("size %d exceeds maximum %d", size, max),
		Value:  size,
	}
}
