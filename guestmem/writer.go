package guestmem

import (
	"go.uber.org/zap"

	"github.com/wippyai/cstr"
	"github.com/wippyai/cstr/errors"
)

// Writer copies C strings into a guest's linear memory.
type Writer struct {
	mem   Memory
	alloc Allocator
}

// NewWriter creates a Writer over the given memory and allocator.
// The allocator may be nil if only PlaceAt is used.
func NewWriter(mem Memory, alloc Allocator) *Writer {
	return &Writer{mem: mem, alloc: alloc}
}

// Place allocates s.Len()+1 bytes in the guest and writes the full
// NUL-terminated sequence there. Returns the guest address.
func (w *Writer) Place(s *cstr.CString) (uint32, error) {
	return w.PlaceTracked(s, nil)
}

// PlaceTracked is Place with placement tracking for cleanup on error.
// The placement is recorded in list before the write, so a failed write
// still leaves it freeable.
func (w *Writer) PlaceTracked(s *cstr.CString, list *PlacementList) (uint32, error) {
	size, err := placedSize(s)
	if err != nil {
		return 0, err
	}

	addr, err := w.alloc.Alloc(size, 1)
	if err != nil {
		return 0, errors.AllocationFailed(size, err)
	}
	if list != nil {
		list.Add(addr, size)
	}

	if err := w.mem.Write(addr, s.Bytes()); err != nil {
		if list == nil {
			w.alloc.Free(addr, size, 1)
		}
		return 0, errors.New(errors.PhaseWrite, errors.KindOutOfBounds).
			Detail("write %d bytes at %d", size, addr).
			Cause(err).
			Build()
	}

	Logger().Debug("placed C string",
		zap.Uint32("addr", addr),
		zap.Uint32("size", size),
		zap.Bool("heap", s.Heap()))
	return addr, nil
}

// PlaceAt writes the full NUL-terminated sequence at a caller-provided
// guest address, performing no allocation.
func (w *Writer) PlaceAt(s *cstr.CString, addr uint32) error {
	if _, err := placedSize(s); err != nil {
		return err
	}
	if err := w.mem.Write(addr, s.Bytes()); err != nil {
		return errors.New(errors.PhaseWrite, errors.KindOutOfBounds).
			Detail("write %d bytes at %d", s.Len()+1, addr).
			Cause(err).
			Build()
	}
	return nil
}

// PlaceAll writes the strings back to back into one contiguous guest block:
// each string occupies Len()+1 bytes, terminator included. Returns the block
// base address and the offset of each string within the block. On any
// failure the block is freed and a zero base is returned.
//
// This is the layout args_get-style consumers expect: a buffer of packed
// NUL-terminated strings plus a pointer table derived from base+offset.
func (w *Writer) PlaceAll(strs []*cstr.CString) (uint32, []uint32, error) {
	if len(strs) == 0 {
		return 0, nil, nil
	}

	offsets := make([]uint32, len(strs))
	total := uint64(0)
	for i, s := range strs {
		size, err := placedSize(s)
		if err != nil {
			return 0, nil, err
		}
		offsets[i] = uint32(total)
		total += uint64(size)
		if total > MaxCStringSize {
			return 0, nil, errors.Overflow(errors.PhaseWrite, total, MaxCStringSize)
		}
	}

	base, err := w.alloc.Alloc(uint32(total), 1)
	if err != nil {
		return 0, nil, errors.AllocationFailed(uint32(total), err)
	}

	for i, s := range strs {
		if err := w.mem.Write(base+offsets[i], s.Bytes()); err != nil {
			w.alloc.Free(base, uint32(total), 1)
			return 0, nil, errors.New(errors.PhaseWrite, errors.KindOutOfBounds).
				Detail("write string %d at %d", i, base+offsets[i]).
				Cause(err).
				Build()
		}
	}

	Logger().Debug("placed C string block",
		zap.Uint32("base", base),
		zap.Uint64("size", total),
		zap.Int("count", len(strs)))
	return base, offsets, nil
}

// ReadBack reads a placed string back out of guest memory, length bytes of
// content plus the terminator, and revalidates it. Mainly for tests and
// debugging of guest-side mutation.
func (w *Writer) ReadBack(addr uint32, length int) (cstr.CString, error) {
	data, err := w.mem.Read(addr, uint32(length)+1)
	if err != nil {
		return cstr.CString{}, errors.New(errors.PhaseWrite, errors.KindOutOfBounds).
			Detail("read %d bytes at %d", length+1, addr).
			Cause(err).
			Build()
	}
	return cstr.FromBytes(data)
}

func placedSize(s *cstr.CString) (uint32, error) {
	size := uint64(s.Len()) + 1
	if size > MaxCStringSize {
		return 0, errors.Overflow(errors.PhaseWrite, size, MaxCStringSize)
	}
	return uint32(size), nil
}
