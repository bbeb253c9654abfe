package cstr

import (
	"bytes"
	"strings"
	"unicode/utf8"
	"unsafe"

	"github.com/wippyai/cstr/errors"
)

// DefaultCapacity is the size in bytes of a CString's inline storage and the
// stack capacity used by Format. It covers the overwhelming majority of
// real-world short strings; anything longer lands on the heap.
const DefaultCapacity = 128

// CString is a NUL-terminated, C-compatible string handle.
//
// The bytes live either in the handle's inline storage (stack variant) or in
// an exact-size heap buffer (heap variant). The two variants expose the same
// accessors; which one a render produced is observable only through Heap().
//
// The inline bytes are embedded by value, so the handle stays valid after the
// render call that produced it returns. Copying a CString copies the inline
// bytes: take Ptr() from the copy you intend to keep alive.
//
// The zero value is the empty C string "".
type CString struct {
	heap []byte
	n    int
	buf  [DefaultCapacity]byte
}

// New creates a CString from plain text with no formatting step.
// Fails if s contains a NUL byte or is not valid UTF-8.
func New(s string) (CString, error) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return CString{}, errors.InteriorNul(errors.PhaseValidate, i)
	}
	if !utf8.ValidString(s) {
		return CString{}, errors.InvalidUTF8(errors.PhaseValidate, []byte(s))
	}
	var cs CString
	if len(s) < DefaultCapacity {
		copy(cs.buf[:], s)
		cs.n = len(s) // buf is zeroed, so the terminator is already in place
		return cs, nil
	}
	h := make([]byte, len(s)+1)
	copy(h, s)
	return CString{heap: h, n: len(s)}, nil
}

// FromBytes creates a CString from a byte sequence that already carries its
// NUL terminator as the last byte, such as a string read back from C memory.
// The bytes are copied; b is not retained.
func FromBytes(b []byte) (CString, error) {
	if len(b) == 0 || b[len(b)-1] != 0 {
		return CString{}, errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Detail("byte sequence of length %d is not NUL-terminated", len(b)).
			Build()
	}
	text := b[:len(b)-1]
	if i := bytes.IndexByte(text, 0); i >= 0 {
		return CString{}, errors.InteriorNul(errors.PhaseValidate, i)
	}
	if !utf8.Valid(text) {
		return CString{}, errors.InvalidUTF8(errors.PhaseValidate, text)
	}
	var cs CString
	if len(b) <= DefaultCapacity {
		copy(cs.buf[:], b)
		cs.n = len(text)
		return cs, nil
	}
	h := make([]byte, len(b))
	copy(h, b)
	return CString{heap: h, n: len(text)}, nil
}

// Bytes returns the full byte sequence including the trailing NUL.
// The slice borrows the handle's storage and stays valid for the handle's
// lifetime; callers must not modify it.
func (s *CString) Bytes() []byte {
	if s.heap != nil {
		return s.heap
	}
	return s.buf[:s.n+1]
}

// String returns the text content without the trailing NUL.
func (s *CString) String() string {
	if s.heap != nil {
		return string(s.heap[:s.n])
	}
	return string(s.buf[:s.n])
}

// Len returns the content length in bytes, excluding the trailing NUL.
func (s *CString) Len() int {
	return s.n
}

// Heap reports whether the bytes live in a heap buffer rather than in the
// handle's inline storage. Inline storage is DefaultCapacity bytes and
// FormatCapacity clamps larger budgets to it, so content longer than
// DefaultCapacity-1 bytes always reports true.
func (s *CString) Heap() bool {
	return s.heap != nil
}

// Ptr returns a pointer to the first byte of the NUL-terminated sequence,
// stable for the handle's lifetime. Intended for cgo and other FFI call
// sites expecting a C string pointer.
func (s *CString) Ptr() *byte {
	if s.heap != nil {
		return &s.heap[0]
	}
	return &s.buf[0]
}

// UnsafePointer returns Ptr as an unsafe.Pointer for call sites that need
// one, such as syscall wrappers.
func (s *CString) UnsafePointer() unsafe.Pointer {
	return unsafe.Pointer(s.Ptr())
}
