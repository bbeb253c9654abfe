// Package guestmem places NUL-terminated strings into WASM linear memory.
//
// A cstr.CString already carries the exact byte sequence a C-convention
// callee expects. This package copies that sequence into a guest's linear
// memory through two small interfaces:
//
//	Memory     - Read/Write on the guest's linear memory
//	Allocator  - Alloc/Free inside the guest (typically cabi_realloc)
//
// Wrap a wazero instance with WrapMemory and WrapAllocator, or provide your
// own implementations for tests and non-wazero hosts.
//
// # Placement
//
//	w := guestmem.NewWriter(mem, alloc)
//	addr, err := w.Place(&s)          // guest pointer to s.Len()+1 bytes
//
// PlaceAt writes at a caller-chosen address instead of allocating. PlaceAll
// lays several strings out in one contiguous block and returns the base
// address plus per-string offsets, the layout args_get-style consumers
// expect.
//
// # Cleanup on error
//
// Tracked operations record each placed string in a PlacementList so a
// failure partway through can free everything already placed:
//
//	list := guestmem.NewPlacementList()
//	addr, err := w.PlaceTracked(&s, list)
//	if err != nil {
//	    list.FreeAndRelease(alloc)
//	    return err
//	}
//
// # Thread Safety
//
// A Writer holds no mutable state and may be shared. A PlacementList is
// not safe for concurrent use.
package guestmem
