// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package mordor provides a zero-copy I/O substrate for protocol parsing and
// framing: a segmented byte buffer, a composable Stream abstraction layered
// on it, and the HTTP/1.x message-body framing logic that binds the two.
//
// Concrete transport streams (sockets, files, TLS, memory), the HTTP wire
// parser, and authentication/tunneling schemes are deliberately out of
// scope: this package consumes an abstract Stream and parsed header
// structures, and is consumed in turn by whatever assembles those.
package mordor

import "io"

// Whence selects the reference point for Stream.Seek, mirroring io.Seeker's
// own constants (kept distinct so callers of this package never need to
// import "io" just to seek a Stream).
type Whence int

const (
	SeekBegin   Whence = iota // offset relative to the start of the stream
	SeekCurrent               // offset relative to the current position
	SeekEnd                   // offset relative to the end of the stream
)

// Stream is the capability interface every layer in this package consumes
// and produces. spec.md describes capabilities as boolean flags on a single
// polymorphic value; the idiomatic Go rendering of "advertises capabilities
// through boolean queries and implements the subset it supports" is a set of
// small single-method interfaces a concrete Stream composes, queried by type
// assertion rather than by a flag struct. A Stream need implement none of
// these beyond Closer — FilterStream's forwarding methods (filter.go), built
// on capabilityOf below, are what let a filter pass a capability through
// only when the parent actually has it.
type Stream interface {
	io.Closer
}

// Reader is the read capability: read(buf, n) in spec.md terms. Read returns
// exactly when it has some data, reaches EOF (0, io.EOF), or fails.
type Reader interface {
	Stream
	Read(p []byte) (n int, err error)
}

// Writer is the write capability. Write may return n < len(p) on a partial
// write; it returns (0, err) only after the stream is closed or fails. The
// caller is expected to loop (spec.md §4.2: "on partial writes, the caller
// loops").
type Writer interface {
	Stream
	Write(p []byte) (n int, err error)
}

// ReadWriter composes Reader and Writer, the common shape for a connection's
// underlying transport stream.
type ReadWriter interface {
	Reader
	Writer
}

// Seeker is the seek capability.
type Seeker interface {
	Stream
	Seek(offset int64, whence Whence) (int64, error)
}

// Sizer is the size capability.
type Sizer interface {
	Stream
	Size() (int64, error)
}

// Truncater is the truncate capability.
type Truncater interface {
	Stream
	Truncate(size int64) error
}

// DelimitedFinder is the optional find-delimited capability. FindDelimited scans at
// most sanityLimit readable bytes for delim and returns the offset to and
// including it (spec.md §4.1's findDelimited), or reports an error per
// throwIfMissing when delim is not found within the limit. A Stream that
// does not implement DelimitedFinder is not broken — BufferedStream
// synthesizes the capability in front of any Reader (spec.md §4.2: "A
// stream that does not support findDelimited must still function").
type DelimitedFinder interface {
	Stream
	FindDelimited(delim byte, sanityLimit int64, throwIfMissing bool) (int64, error)
}

// capabilityOf reports whether s implements capability C, returning the
// asserted value. This is the uniform way every filter in this package
// queries/forwards a capability.
func capabilityOf[C any](s Stream) (c C, ok bool) {
	c, ok = s.(C)
	return c, ok
}
