package guestmem

// Memory represents a foreign linear memory, such as a WASM guest's.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
}

// Allocator allocates memory inside the foreign linear memory.
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}

// MaxCStringSize caps a single placed string, terminator included.
// Prevents a hostile template/argument pair from exhausting guest memory.
const MaxCStringSize = 1 << 24 // 16 MB
