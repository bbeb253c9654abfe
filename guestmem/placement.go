package guestmem

import "sync"

// Placement records where one C string landed in guest memory: the guest
// address and the placed size, content plus terminator. C strings are plain
// byte sequences, so every placement is byte-aligned.
type Placement struct {
	Addr uint32
	Size uint32
}

// PlacementList collects the placements of a multi-string operation so a
// failure partway through can free every string already placed.
type PlacementList struct {
	placements []Placement
}

var placementListPool = sync.Pool{
	New: func() any {
		return &PlacementList{placements: make([]Placement, 0, 8)}
	},
}

// NewPlacementList returns a list from the pool.
func NewPlacementList() *PlacementList {
	return placementListPool.Get().(*PlacementList)
}

const maxPooledPlacements = 128

// Release returns to pool. Must call after Free(); list invalid after Release.
func (pl *PlacementList) Release() {
	// Only pool small lists to prevent memory bloat
	if cap(pl.placements) > maxPooledPlacements {
		return
	}
	pl.Reset()
	placementListPool.Put(pl)
}

// FreeAndRelease frees every tracked placement and returns the list to the
// pool.
func (pl *PlacementList) FreeAndRelease(allocator Allocator) {
	pl.Free(allocator)
	pl.Release()
}

// Add records a placed string.
func (pl *PlacementList) Add(addr, size uint32) {
	pl.placements = append(pl.placements, Placement{Addr: addr, Size: size})
}

// Free hands every tracked placement back to the allocator.
func (pl *PlacementList) Free(allocator Allocator) {
	if allocator == nil {
		return
	}
	for _, p := range pl.placements {
		if p.Addr != 0 {
			allocator.Free(p.Addr, p.Size, 1)
		}
	}
}

// Reset clears the list without freeing.
func (pl *PlacementList) Reset() {
	pl.placements = pl.placements[:0]
}

// Count returns the number of tracked placements.
func (pl *PlacementList) Count() int {
	return len(pl.placements)
}
