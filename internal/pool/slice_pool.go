package pool

import "sync"

// Latent slice pool. Page compression and decompression both need scratch
// []uint64 slices sized to one page; pooling them keeps the per-page
// allocation count flat.
var uint64SlicePool = sync.Pool{
	New: func() any { return &[]uint64{} },
}

// GetUint64Slice retrieves a latent slice of exactly size elements from the
// pool, allocating a fresh one when the pooled slice is too small.
//
// The caller must invoke the returned cleanup function (typically with
// defer) to return the slice to the pool. Contents are not zeroed.
func GetUint64Slice(size int) ([]uint64, func()) {
	ptr, _ := uint64SlicePool.Get().(*[]uint64)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]uint64, size)
		*ptr = slice
	} else {
		slice = slice[:size]
		*ptr = slice
	}

	return slice, func() { uint64SlicePool.Put(ptr) }
}
