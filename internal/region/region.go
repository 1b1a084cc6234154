// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package region provides a reference-counted byte region and the slice type
// that borrows from it.
//
// Go's garbage collector already frees the backing array once every Slice
// referencing it is unreachable, so Region does not implement manual
// deallocation. What it does provide is the explicit, thread-safe refcount
// spec.md §5 requires ("Segment reference counts must be safe for release
// from any thread that drops the last slice"): callers that need to observe
// "am I the last borrower" (to decide whether a coalesce can reuse storage
// in place, or to assert no slice outlives a Buffer in tests) can do so
// without relying on GC finalizers.
package region

import "sync/atomic"

// Region is a contiguous, reference-counted byte array.
type Region struct {
	data []byte
	refs atomic.Int32
}

// New allocates a fresh Region of the given capacity.
func New(capacity int) *Region {
	r := &Region{data: make([]byte, capacity)}
	r.refs.Store(1)
	return r
}

// Wrap adopts an existing byte slice as a Region without copying.
func Wrap(b []byte) *Region {
	r := &Region{data: b}
	r.refs.Store(1)
	return r
}

// Len returns the full capacity of the region.
func (r *Region) Len() int { return len(r.data) }

// Slice returns a borrowed view [start, start+length) over the region,
// bumping the reference count. It never extends the region's capacity.
func (r *Region) Slice(start, length int) Slice {
	if start < 0 || length < 0 || start+length > len(r.data) {
		panic("region: slice out of range")
	}
	r.refs.Add(1)
	return Slice{region: r, start: start, length: length}
}

// Refs reports the current live-slice count, for diagnostics and tests.
func (r *Region) Refs() int32 { return r.refs.Load() }

// Slice is a (start, length) view over a Region that participates in its
// reference count. The zero Slice is empty and does not reference a Region.
type Slice struct {
	region *Region
	start  int
	length int
}

// Len returns the number of bytes the slice covers.
func (s Slice) Len() int { return s.length }

// Bytes returns the slice's view into the region's backing array. The
// returned slice must not be retained past the lifetime of the Buffer that
// produced it (Go cannot express borrow lifetimes statically; this is a
// documented convention, matching spec.md §9's "slices never extend the
// underlying region's capacity").
func (s Slice) Bytes() []byte {
	if s.region == nil {
		return nil
	}
	return s.region.data[s.start : s.start+s.length]
}

// Sub returns a narrower slice of this slice, sharing the same Region and
// reference count entry (it takes its own reference, like the C++ original's
// DataBuf::slice).
func (s Slice) Sub(start, length int) Slice {
	if length < 0 {
		length = s.length - start
	}
	if start < 0 || start > s.length || length > s.length-start {
		panic("region: sub-slice out of range")
	}
	return s.region.Slice(s.start+start, length)
}

// Release drops this slice's hold on the region's reference count. Go's GC
// still owns actual deallocation. Nothing in this module calls Release, and
// Buffer's Compact and ReadBuf do not consult Region.Refs().
func (s Slice) Release() {
	if s.region != nil {
		s.region.refs.Add(-1)
	}
}
