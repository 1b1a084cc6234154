// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mordor

import (
	"bytes"

	"github.com/zalemwoo/mordor/internal/region"
)

// All -1 means "all readable"/"all writable", the Go analogue of the
// original's size_t(~0) sentinel.
const All int64 = -1

// Buffer is an ordered sequence of segments partitioned into a read prefix
// (readable only), at most one straddling segment (both readable and
// writable), and a write suffix (writable only). It is a direct port of
// the C++ original's Buffer (mordor/common/streams/buffer.cpp), generalized
// from std::list<Data>+const_cast tricks to a slice-backed Go type per
// spec.md §9's design notes: readBuf's coalescing path is a `*Buffer`
// (mutating) method here, not a const method defeated by const_cast.
type Buffer struct {
	segs       []segment
	writeIt    int // index into segs of the first segment with writable space; len(segs) is the "end" sentinel
	readAvail  int
	writeAvail int
}

// NewBuffer returns an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{writeIt: 0}
}

// ReadAvailable returns the total number of readable bytes.
func (b *Buffer) ReadAvailable() int64 {
	b.invariant()
	return int64(b.readAvail)
}

// WriteAvailable returns the total number of writable bytes.
func (b *Buffer) WriteAvailable() int64 {
	b.invariant()
	return int64(b.writeAvail)
}

// Reserve ensures WriteAvailable() >= n, over-allocating (2n - writeAvailable)
// to fight fragmentation, exactly as Buffer::reserve in the original. The
// new segment is prepended (and writeIt retargeted to it) when the buffer
// currently has no readable bytes, else appended (and writeIt retargeted to
// it only if writeIt was at the end sentinel).
func (b *Buffer) Reserve(n int) {
	if int64(b.writeAvail) >= int64(n) {
		return
	}
	newLen := 2*n - b.writeAvail
	s := newSegment(newLen)
	if b.readAvail == 0 {
		b.segs = append([]segment{s}, b.segs...)
		b.writeIt = 0
	} else {
		wasEnd := b.writeIt == len(b.segs)
		b.segs = append(b.segs, s)
		if wasEnd {
			b.writeIt = len(b.segs) - 1
		}
	}
	b.writeAvail += s.length()
	b.invariant()
}

// Produce advances the write cursor across one or more writable segments,
// totalling exactly n bytes. Precondition: n <= WriteAvailable().
func (b *Buffer) Produce(n int) {
	assertf(int64(n) <= int64(b.writeAvail), "mordor: Buffer.Produce: n exceeds writeAvailable")
	b.readAvail += n
	b.writeAvail -= n
	for n > 0 {
		s := &b.segs[b.writeIt]
		toProduce := min(s.writeAvailable(), n)
		s.produce(toProduce)
		n -= toProduce
		if s.writeAvailable() == 0 {
			b.writeIt++
		}
	}
	b.invariant()
}

// Consume retires n readable bytes from the front, dropping segments whose
// readable and writable space both reach zero. Precondition: n <= ReadAvailable().
func (b *Buffer) Consume(n int) {
	assertf(int64(n) <= int64(b.readAvail), "mordor: Buffer.Consume: n exceeds readAvailable")
	b.readAvail -= n
	for n > 0 {
		s := &b.segs[0]
		toConsume := min(s.readAvailable(), n)
		s.consume(toConsume)
		n -= toConsume
		if s.length() == 0 {
			b.segs = b.segs[1:]
			b.writeIt--
		}
	}
	b.invariant()
}

// Clear drops all segments and resets counters.
func (b *Buffer) Clear() {
	b.segs = nil
	b.readAvail = 0
	b.writeAvail = 0
	b.writeIt = 0
	b.invariant()
}

// Compact discards all writable capacity. If the straddling segment has
// readable bytes they are preserved as a readable-only segment; every
// segment from writeIt onward is then dropped.
func (b *Buffer) Compact() {
	b.invariant()
	if b.writeIt < len(b.segs) {
		if b.segs[b.writeIt].readAvailable() > 0 {
			preserved := newSegmentFrom(b.segs[b.writeIt].readSlice())
			head := append([]segment{}, b.segs[:b.writeIt]...)
			head = append(head, preserved)
			b.segs = head
			b.writeIt = len(b.segs)
		} else {
			b.segs = b.segs[:b.writeIt]
			b.writeIt = len(b.segs)
		}
		b.writeAvail = 0
	}
	assertf(b.writeAvail == 0, "mordor: Buffer.Compact: writeAvailable not zero after compact")
}

// Slice is a read-only view borrowed from a Buffer. It must not be
// retained past a mutation of the Buffer that produced it (spec.md §9's
// Open Question about readBufs' constness: resolved here as "read-only
// slice type", not a mutable []byte).
type Slice struct{ s region.Slice }

// Len reports the slice length.
func (r Slice) Len() int { return r.s.Len() }

// Bytes exposes the underlying bytes. Callers must not mutate or retain
// the result past the Buffer's next mutating call.
func (r Slice) Bytes() []byte { return r.s.Bytes() }

// ReadBufs returns read-only slices covering exactly n bytes in order
// (n == All means "all readable"). No underlying storage is allocated; the
// result borrows from the Buffer.
func (b *Buffer) ReadBufs(n int64) []Slice {
	if n == All {
		n = int64(b.readAvail)
	}
	assertf(n <= int64(b.readAvail), "mordor: Buffer.ReadBufs: n exceeds readAvailable")
	result := make([]Slice, 0, len(b.segs))
	remaining := n
	for i := range b.segs {
		toTake := min(int64(b.segs[i].readAvailable()), remaining)
		result = append(result, Slice{b.segs[i].readSlice().Sub(0, int(toTake))})
		remaining -= toTake
		if remaining == 0 {
			break
		}
	}
	assertf(remaining == 0, "mordor: Buffer.ReadBufs: could not satisfy n")
	b.invariant()
	return result
}

// ReadBuf returns a single contiguous slice of n bytes (n == All means "all
// readable"). If the first segment
// already holds n readable bytes, it is returned directly; otherwise all
// readable bytes are coalesced into one segment (reusing the straddling
// segment's writable region when large enough to avoid allocation),
// replacing the segment list. This mutates the Buffer's physical layout
// (never its logical contents), which is why — per spec.md §9's design
// note — it is a `*Buffer` method rather than a value/view method.
func (b *Buffer) ReadBuf(n int64) Slice {
	if n == All {
		n = int64(b.readAvail)
	}
	assertf(n <= int64(b.readAvail), "mordor: Buffer.ReadBuf: n exceeds readAvailable")
	if b.readAvail == 0 {
		return Slice{}
	}
	if int64(b.segs[0].readAvailable()) >= n {
		return Slice{b.segs[0].readSlice().Sub(0, int(n))}
	}
	if b.writeIt < len(b.segs) && b.segs[b.writeIt].writeAvailable() >= b.readAvail {
		w := b.segs[b.writeIt]
		b.copyOutInto(w.writeSlice().Bytes()[:b.readAvail])
		newSeg := newSegmentFrom(w.writeSlice().Sub(0, b.readAvail))
		b.segs = []segment{newSeg}
		b.writeAvail = 0
		b.writeIt = len(b.segs)
		b.invariant()
		return Slice{newSeg.readSlice().Sub(0, int(n))}
	}
	newSeg := newSegment(b.readAvail)
	b.copyOutInto(newSeg.writeSlice().Bytes()[:b.readAvail])
	newSeg.produce(b.readAvail)
	b.segs = []segment{newSeg}
	b.writeAvail = 0
	b.writeIt = len(b.segs)
	b.invariant()
	return Slice{newSeg.readSlice().Sub(0, int(n))}
}

// WriteBufs returns writable slices covering n bytes (n == All means "all
// currently writable"), reserving more space first if needed.
func (b *Buffer) WriteBufs(n int64) []Slice {
	if n == All {
		n = int64(b.writeAvail)
	}
	b.Reserve(int(n))
	result := make([]Slice, 0, len(b.segs)-b.writeIt)
	remaining := n
	i := b.writeIt
	for remaining > 0 {
		s := &b.segs[i]
		toTake := min(int64(s.writeAvailable()), remaining)
		result = append(result, Slice{s.writeSlice().Sub(0, int(toTake))})
		remaining -= toTake
		i++
	}
	b.invariant()
	return result
}

// WriteBuf returns a single contiguous write slice of n bytes: a fast path
// when the current writable segment already holds >= n bytes, else a
// Compact+Reserve to guarantee one segment of capacity >= n. Per spec.md
// §9's design note, this calls Reserve exactly once (the original's double
// reserve(len) in this branch is treated as a typo, not an invariant).
func (b *Buffer) WriteBuf(n int64) Slice {
	if b.writeAvail == 0 {
		b.Reserve(int(n))
		assertf(b.writeIt < len(b.segs) && int64(b.segs[b.writeIt].writeAvailable()) >= n,
			"mordor: Buffer.WriteBuf: reserve did not satisfy n")
		return Slice{b.segs[b.writeIt].writeSlice().Sub(0, int(n))}
	}
	if int64(b.segs[b.writeIt].writeAvailable()) >= n {
		return Slice{b.segs[b.writeIt].writeSlice().Sub(0, int(n))}
	}
	b.Compact()
	b.Reserve(int(n))
	assertf(b.writeIt < len(b.segs) && int64(b.segs[b.writeIt].writeAvailable()) >= n,
		"mordor: Buffer.WriteBuf: reserve did not satisfy n")
	return Slice{b.segs[b.writeIt].writeSlice().Sub(0, int(n))}
}

// CopyInBuffer appends n readable bytes from src by slicing — no byte copy,
// shared ownership of src's storage. If the straddling segment has readable
// bytes it is split first so the "readable precedes writable" invariant is
// preserved across the insertion.
func (b *Buffer) CopyInBuffer(src *Buffer, n int64) {
	if n == All {
		n = int64(src.readAvail)
	}
	assertf(n <= int64(src.readAvail), "mordor: Buffer.CopyInBuffer: n exceeds src.readAvailable")
	b.splitStraddle()

	inserted := make([]segment, 0, len(src.segs))
	remaining := n
	for i := range src.segs {
		toConsume := min(int64(src.segs[i].readAvailable()), remaining)
		if toConsume == 0 {
			break
		}
		inserted = append(inserted, newSegmentFrom(src.segs[i].readSlice().Sub(0, int(toConsume))))
		b.readAvail += int(toConsume)
		remaining -= toConsume
		if remaining == 0 {
			break
		}
	}
	assertf(remaining == 0, "mordor: Buffer.CopyInBuffer: could not satisfy n")
	b.insertBefore(b.writeIt, inserted)
}

// CopyIn appends len(p) bytes by allocating one fresh segment and copying.
func (b *Buffer) CopyIn(p []byte) {
	b.splitStraddle()
	s := newSegment(len(p))
	copy(s.writeSlice().Bytes(), p)
	s.produce(len(p))
	b.readAvail += len(p)
	b.insertBefore(b.writeIt, []segment{s})
}

// CopyInString appends the bytes of s, equivalent to CopyIn([]byte(s)) but
// without the intermediate conversion allocation's extra copy, mirroring the
// original's copyIn(const char*) overload — unified here behind one byte
// source per spec.md §9 ("a single polymorphic bytes-source abstraction").
func (b *Buffer) CopyInString(s string) {
	b.splitStraddle()
	seg := newSegment(len(s))
	copy(seg.writeSlice().Bytes(), s)
	seg.produce(len(s))
	b.readAvail += len(s)
	b.insertBefore(b.writeIt, []segment{seg})
}

// splitStraddle inserts a pure-readable copy of the straddling segment
// before writeIt and drains that segment's readable portion, so callers
// that insert new readable segments via insertBefore(writeIt, ...) never
// break the readable-precedes-writable invariant.
func (b *Buffer) splitStraddle() {
	if b.writeIt < len(b.segs) && b.segs[b.writeIt].readAvailable() != 0 {
		straddle := &b.segs[b.writeIt]
		split := newSegmentFrom(straddle.readSlice())
		head := append([]segment{}, b.segs[:b.writeIt]...)
		head = append(head, split)
		straddle.consume(straddle.readAvailable())
		b.segs = append(head, b.segs[b.writeIt:]...)
		b.writeIt++
	}
}

// insertBefore splices segs into b.segs immediately before index at, then
// advances writeIt by len(segs) (since at == old writeIt and everything
// inserted is purely readable).
func (b *Buffer) insertBefore(at int, segs []segment) {
	if len(segs) == 0 {
		return
	}
	merged := make([]segment, 0, len(b.segs)+len(segs))
	merged = append(merged, b.segs[:at]...)
	merged = append(merged, segs...)
	merged = append(merged, b.segs[at:]...)
	b.segs = merged
	b.writeIt += len(segs)
}

// copyOutInto copies len(dst) readable bytes from the front into dst.
func (b *Buffer) copyOutInto(dst []byte) {
	next := 0
	remaining := len(dst)
	for i := range b.segs {
		if remaining == 0 {
			break
		}
		todo := min(b.segs[i].readAvailable(), remaining)
		copy(dst[next:next+todo], b.segs[i].readSlice().Bytes()[:todo])
		next += todo
		remaining -= todo
	}
	assertf(remaining == 0, "mordor: Buffer.copyOutInto: could not satisfy dst")
}

// CopyOut copies n bytes from the readable prefix into dst (len(dst) >= n).
func (b *Buffer) CopyOut(dst []byte, n int64) {
	assertf(n <= int64(b.readAvail), "mordor: Buffer.CopyOut: n exceeds readAvailable")
	b.copyOutInto(dst[:n])
}

// FindDelimited scans at most limit readable bytes for the first occurrence
// of delim, returning position+1 (the length to and including the
// delimiter) on a hit, or -1 on a miss.
func (b *Buffer) FindDelimited(delim byte, limit int64) int64 {
	if limit == All {
		limit = int64(b.readAvail)
	}
	assertf(limit <= int64(b.readAvail), "mordor: Buffer.FindDelimited: limit exceeds readAvailable")
	var total int64
	for i := range b.segs {
		avail := int64(b.segs[i].readAvailable())
		toScan := avail
		if toScan > limit {
			toScan = limit
		}
		chunk := b.segs[i].readSlice().Bytes()[:toScan]
		if idx := bytes.IndexByte(chunk, delim); idx >= 0 {
			return total + int64(idx) + 1
		}
		total += toScan
		limit -= toScan
		if limit == 0 {
			break
		}
	}
	return -1
}

// invariant verifies the four Buffer invariants of spec.md §3. It panics
// (a programmer-error abort, spec.md §4.1) rather than returning an error,
// matching the original's debug-only assert() calls — callers never see
// this fire against correct usage of the exported API.
func (b *Buffer) invariant() {
	var read, write int
	seenWrite := false
	for i := range b.segs {
		s := b.segs[i]
		assertf(!seenWrite || s.readAvailable() == 0,
			"mordor: Buffer.invariant: readable segment after a write-only segment")
		read += s.readAvailable()
		write += s.writeAvailable()
		if !seenWrite && s.writeAvailable() != 0 {
			seenWrite = true
			assertf(b.writeIt == i, "mordor: Buffer.invariant: writeIt does not point at first writable segment")
		}
	}
	assertf(read == b.readAvail, "mordor: Buffer.invariant: readAvailable counter mismatch")
	assertf(write == b.writeAvail, "mordor: Buffer.invariant: writeAvailable counter mismatch")
	assertf(write != 0 || b.writeIt == len(b.segs), "mordor: Buffer.invariant: writeIt not at end sentinel when writeAvailable is zero")
}
