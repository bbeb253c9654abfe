// Package cstr produces NUL-terminated, C-compatible strings from formatted
// text while minimizing heap allocation.
//
// When passing strings across an FFI boundary (cgo, WASM guest memory, raw
// syscalls), the callee expects a pointer to a byte sequence terminated by a
// single NUL byte. Building that sequence with a fresh []byte allocates on
// every call. This package renders formatted text into fixed-size storage
// held inline in the returned handle, and only falls back to an exact-size
// heap buffer when the text does not fit.
//
// # Architecture Overview
//
//	cstr/            Root package: CString handle and the bounded formatter
//	├── errors/      Structured error types (phase/kind taxonomy)
//	├── guestmem/    Placement of C strings into WASM linear memory (wazero)
//	└── cmd/cstrfmt  CLI for inspecting render results
//
// # Quick Start
//
//	s, err := cstr.Format("Pi = %.2f", 3.14159)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(s.String()) // "Pi = 3.14"
//	fmt.Println(s.Heap())   // false: rendered into inline storage
//
//	// FFI consumers take the raw pointer; the bytes are NUL-terminated.
//	ptr := s.Ptr()
//
// # Two-Phase Allocation
//
// Format renders into the handle's inline storage, capped at the requested
// capacity (DefaultCapacity unless FormatCapacity is used):
//
//	┌─────────────────┐
//	│ inline [128]byte │
//	└─────────────────┘
//	      │ text + NUL fits
//	      └─> stack-backed handle, no heap allocation
//
//	      │ does not fit
//	      └─> heap buffer of exactly len(text)+1 bytes
//
// Both outcomes are the same CString type with identical accessors, so
// callers never branch on which path was taken. Arguments are formatted
// exactly once per render regardless of the path.
//
// # Guarantees
//
// For every successfully constructed CString:
//
//   - the byte sequence is valid UTF-8 text followed by exactly one NUL byte
//   - there are no interior NUL bytes; rendering text that contains one
//     fails with an interior_nul error rather than truncating silently
//   - Ptr() is stable and valid for as long as the handle is alive
//
// # Thread Safety
//
// Renders share no state. Concurrent calls from multiple goroutines need no
// synchronization. A CString is immutable after construction and safe to
// read concurrently.
package cstr
