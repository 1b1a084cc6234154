// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mordor

import "github.com/zalemwoo/mordor/internal/region"

// segment is a contiguous byte region of fixed capacity with a write cursor
// separating readable bytes [0, writeIndex) from writable bytes
// [writeIndex, capacity). It is the Go analogue of the C++ original's
// Buffer::Data / Buffer::DataBuf pair (mordor/common/streams/buffer.cpp):
// writeIndex plays the role of Data::m_writeIndex, and buf is a
// region.Slice standing in for DataBuf's shared_ptr<unsigned char> backing.
type segment struct {
	buf        region.Slice
	writeIndex int
}

// newSegment allocates a fresh segment with the given total capacity.
func newSegment(capacity int) segment {
	r := region.New(capacity)
	return segment{buf: r.Slice(0, capacity)}
}

// newSegmentFrom wraps an existing fully-readable slice as a segment whose
// write cursor already sits at the end (used by compact() and readBuf()'s
// coalesce path, mirroring Data::Data(DataBuf) in the original).
func newSegmentFrom(s region.Slice) segment {
	return segment{buf: s, writeIndex: s.Len()}
}

func (d segment) length() int { return d.buf.Len() }

func (d segment) readAvailable() int { return d.writeIndex }

func (d segment) writeAvailable() int { return d.buf.Len() - d.writeIndex }

// produce advances the write cursor by n bytes. Precondition: n <= writeAvailable().
func (d *segment) produce(n int) {
	if n > d.writeAvailable() {
		panic("mordor: segment.produce: n exceeds writeAvailable")
	}
	d.writeIndex += n
}

// consume retires n readable bytes from the front by reslicing. Precondition:
// n <= readAvailable().
func (d *segment) consume(n int) {
	if n > d.readAvailable() {
		panic("mordor: segment.consume: n exceeds readAvailable")
	}
	d.writeIndex -= n
	d.buf = d.buf.Sub(n, -1)
}

// readSlice returns the readable region of the segment.
func (d segment) readSlice() region.Slice { return d.buf.Sub(0, d.writeIndex) }

// writeSlice returns the writable region of the segment.
func (d segment) writeSlice() region.Slice { return d.buf.Sub(d.writeIndex, -1) }
