package guestmem

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/cstr/errors"
)

// WrapMemory wraps a wazero api.Memory to implement Memory.
func WrapMemory(mem api.Memory) Memory {
	if mem == nil {
		return nil
	}
	return &wazeroMemory{mem: mem}
}

// WrapAllocator wraps a wazero api.Function with the cabi_realloc signature
// (old_ptr, old_size, align, new_size) -> ptr to implement Allocator.
func WrapAllocator(ctx context.Context, fn api.Function) Allocator {
	if fn == nil {
		return nil
	}
	return &wazeroAllocator{ctx: ctx, fn: fn}
}

type wazeroMemory struct {
	mem api.Memory
}

func (m *wazeroMemory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(offset, int(length))
	}
	return data, nil
}

func (m *wazeroMemory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.OutOfBounds(offset, len(data))
	}
	return nil
}

type wazeroAllocator struct {
	ctx context.Context
	fn  api.Function
}

func (a *wazeroAllocator) Alloc(size, align uint32) (uint32, error) {
	results, err := a.fn.Call(a.ctx, 0, 0, uint64(align), uint64(size))
	if err != nil {
		return 0, errors.AllocationFailed(size, err)
	}
	if len(results) == 0 {
		return 0, errors.New(errors.PhaseWrite, errors.KindAllocation).
			Detail("allocator returned no result").
			Build()
	}
	return uint32(results[0]), nil
}

func (a *wazeroAllocator) Free(ptr, size, align uint32) {
	if _, err := a.fn.Call(a.ctx, uint64(ptr), uint64(size), uint64(align), 0); err != nil {
		Logger().Warn("failed to free guest allocation",
			zap.Uint32("ptr", ptr),
			zap.Uint32("size", size))
	}
}

// Compile-time check that the wrappers satisfy the package interfaces
var (
	_ Memory    = (*wazeroMemory)(nil)
	_ Allocator = (*wazeroAllocator)(nil)
)
