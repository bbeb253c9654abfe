package cstr

import (
	"bytes"
	"encoding"
	"fmt"
	"unicode/utf8"

	"github.com/wippyai/cstr/errors"
)

// Format renders the fmt-style template into a CString using the default
// stack capacity. Text that fits in DefaultCapacity-1 bytes stays in the
// handle's inline storage; longer text lands in a heap buffer of exactly
// len(text)+1 bytes.
func Format(format string, args ...any) (CString, error) {
	return FormatCapacity(DefaultCapacity, format, args...)
}

// FormatCapacity renders with a per-call stack budget. Content of up to
// capacity-1 bytes stays inline, leaving one byte for the terminator;
// content of capacity bytes or more falls back to the heap.
//
// Inline storage is fixed at DefaultCapacity, so capacities above it are
// clamped; capacity <= 0 selects the default. For a larger caller-owned
// stack budget use AppendFormat with an array-backed slice.
func FormatCapacity(capacity int, format string, args ...any) (CString, error) {
	if capacity <= 0 || capacity > DefaultCapacity {
		capacity = DefaultCapacity
	}

	args, err := marshalArgs(args)
	if err != nil {
		return CString{}, err
	}

	// Single rendering pass. Appendf writes into the inline array capped at
	// the stack budget; append moves to a heap slice only on overflow.
	var cs CString
	out := fmt.Appendf(cs.buf[:0:capacity], format, args...)
	if err := validateText(out); err != nil {
		return CString{}, err
	}

	if len(out) < capacity {
		// Every intermediate length was at most len(out), so append never
		// left the inline array: out aliases cs.buf.
		cs.n = len(out)
		cs.buf[cs.n] = 0
		return cs, nil
	}

	// Heap fallback: finalize to an exact-size buffer. make zeroes the
	// last byte, which is the terminator.
	h := make([]byte, len(out)+1)
	copy(h, out)
	return CString{heap: h, n: len(out)}, nil
}

// AppendFormat appends the rendered text plus a NUL terminator to dst,
// growing dst as needed, and returns the extended slice. The appended
// region is validated the same way Format validates a render: no interior
// NUL bytes and valid UTF-8. On error dst is returned unchanged.
//
// This is the bring-your-own-buffer entry point: pass a slice backed by a
// local array to control the stack budget directly.
func AppendFormat(dst []byte, format string, args ...any) ([]byte, error) {
	args, err := marshalArgs(args)
	if err != nil {
		return dst, err
	}
	out := fmt.Appendf(dst, format, args...)
	if err := validateText(out[len(dst):]); err != nil {
		return dst, err
	}
	return append(out, 0), nil
}

// marshalArgs resolves arguments whose textual representation is fallible.
// An argument implementing encoding.TextMarshaler, and none of the
// interfaces fmt consults on its own, is marshaled exactly once and
// replaced by its text. A marshal error fails the whole render.
// The caller's slice is never modified.
func marshalArgs(args []any) ([]any, error) {
	out := args
	copied := false
	for i, arg := range args {
		m, ok := arg.(encoding.TextMarshaler)
		if !ok {
			continue
		}
		switch arg.(type) {
		case fmt.Formatter, fmt.Stringer, error:
			continue
		}
		text, err := m.MarshalText()
		if err != nil {
			return nil, errors.FormatFailed(i, err)
		}
		if !copied {
			out = append([]any(nil), args...)
			copied = true
		}
		out[i] = string(text)
	}
	return out, nil
}

func validateText(text []byte) error {
	if i := bytes.IndexByte(text, 0); i >= 0 {
		return errors.InteriorNul(errors.PhaseRender, i)
	}
	if !utf8.Valid(text) {
		return errors.InvalidUTF8(errors.PhaseRender, text)
	}
	return nil
}
