// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mordor

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// Sentinel errors, grounded in the teacher's errors.go shape (package-level
// errors.New values rather than an error type hierarchy). These are the Go
// expression of spec.md §7's error-kind taxonomy, minus EndOfStream (which
// is io.EOF, not a distinct value — spec.md itself says "orderly EOF; not an
// error, signalled as read returning 0") and ProgrammerError/TransportError
// (the former is a panic from invariant(), the latter is whatever error the
// caller's concrete Stream implementation returns, propagated unchanged).
var (
	// ErrInvalidArgument reports that a Stream lacks the capability an
	// operation needs (e.g. Seek forwarded to a parent that is not a
	// Seeker), or a Write to a closed ChunkedStream. A nil parent is not
	// reported this way: NewFilterStream panics on it.
	ErrInvalidArgument = errors.New("mordor: invalid argument")

	// ErrTooLong reports that a chunk's declared size exceeds ChunkedStream's
	// sanity limit, or that BufferedStream.FindDelimited found no delimiter
	// within its limit.
	ErrTooLong = errors.New("mordor: message too long")

	// ErrMalformedChunk reports that a chunk-size line could not be parsed
	// as hex digits (optionally followed by chunk-extensions), or that a
	// chunk-size or trailer line is longer than the sanity limit.
	ErrMalformedChunk = errors.New("mordor: malformed chunk")

	// ErrTruncatedBody reports that the underlying stream reached EOF before
	// a declared Content-Length or mid-chunk in a chunked transfer coding.
	ErrTruncatedBody = errors.New("mordor: truncated body")

	// ErrUnknownTransferCoding reports a Transfer-Encoding token the Body
	// Framer does not recognize at all.
	ErrUnknownTransferCoding = errors.New("mordor: unknown transfer coding")

	// ErrUnsupportedTransferCoding reports a recognized Transfer-Encoding
	// token for which no codec is wired (compress/x-compress), or whose
	// gzip/deflate codec could not be constructed over the parent stream.
	ErrUnsupportedTransferCoding = errors.New("mordor: unsupported transfer coding")

	// ErrMissingCloseForDelimitedBody reports a message with no
	// Content-Length and no Transfer-Encoding other than identity whose
	// Connection header does not contain "close" — RFC 2616 §4.4 requires
	// such a body to be delimited by the connection closing.
	ErrMissingCloseForDelimitedBody = errors.New("mordor: response body requires Connection: close")
)

// These are re-exported so callers can check for them without importing iox
// directly, exactly as the teacher's framer.go re-exports iox's sentinels.
var (
	// ErrWouldBlock means "no further progress without waiting". It is an
	// expected, non-failure control-flow signal for non-blocking I/O; any
	// returned byte count still represents real progress.
	ErrWouldBlock = iox.ErrWouldBlock

	// ErrMore means "this completion is usable and more completions will
	// follow". The operation remains active; callers should process the
	// returned bytes and call again.
	ErrMore = iox.ErrMore
)

// assertf panics with a formatted message. It is used only for the four
// Buffer invariants and the preconditions of Buffer operations, which
// spec.md §3/§4.1 calls out as programmer errors that "abort in debug
// builds" — never for recoverable conditions, which return one of the
// sentinels above instead. It is always enabled, not only in debug builds.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
