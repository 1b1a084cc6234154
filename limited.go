// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mordor

import "io"

// LimitedStream is a FilterStream that caps reads to exactly n bytes total,
// returning io.EOF once that many bytes have been delivered even if the
// parent has more. It is the Body Framer's wrapper for a message body
// delimited by a declared Content-Length with no Transfer-Encoding
// (spec.md §4.7). Grounded in the teacher's internal.go length-prefixed
// framing (fr.length/fr.offset bookkeeping), here tracking remaining bytes
// instead of a wire-parsed frame length.
type LimitedStream struct {
	*FilterStream
	remaining int64
}

// NewLimitedStream wraps parent, permitting at most n more bytes to be read
// through this stream.
func NewLimitedStream(parent Stream, own bool, n int64) *LimitedStream {
	return &LimitedStream{FilterStream: NewFilterStream(parent, own), remaining: n}
}

// Read returns io.EOF once remaining reaches zero, truncating the caller's
// buffer to stay within the declared length, and reports ErrTruncatedBody if
// the parent reaches EOF before remaining does.
func (l *LimitedStream) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.FilterStream.Read(p)
	l.remaining -= int64(n)
	if err == io.EOF && l.remaining > 0 {
		return n, ErrTruncatedBody
	}
	return n, err
}
