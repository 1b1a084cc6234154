// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mordor

import (
	"io"
	"strconv"
)

// readChunkState is the ChunkedStream read-side state machine (spec.md §4.6).
type readChunkState int

const (
	awaitingSize readChunkState = iota
	inChunk
	awaitingTrailer
	exhausted
)

// writeChunkState is the ChunkedStream write-side state machine.
type writeChunkState int

const (
	writeReady writeChunkState = iota
	writingChunk
	writeClosed
)

// defaultSanityLimit bounds each chunk-size line and trailer line scanned by
// ChunkedStream, and the largest chunk size it accepts, when
// Options.SanityLimit is left at zero.
const defaultSanityLimit = 4096

// ChunkedStream implements HTTP chunked transfer coding (RFC 2616 §4.4,
// §3.6.1) over a parent Stream, both directions. The read side drives
// parent.FindDelimited across a small state machine; the write side frames
// each Write call as exactly one chunk, never splitting the caller's buffer
// across two chunks (spec.md §4.6).
//
// Grounded in the teacher's internal.go readStream/writeStream: both are
// offset-tracking state machines built on readOnce/writeOnce retry loops
// over a fixed binary frame header. ChunkedStream reuses that *technique*
// (explicit state field, loop-until-progress over the parent) for a
// different wire grammar — hex size line + CRLF instead of a binary
// length-prefix.
type ChunkedStream struct {
	*FilterStream
	opts Options

	rstate    readChunkState
	remaining int64

	wstate writeChunkState
}

// NewChunkedStream wraps parent, which must implement Reader and/or Writer
// as needed, and DelimitedFinder for the read side (typically a
// BufferedStream).
func NewChunkedStream(parent Stream, own bool, opts ...Option) *ChunkedStream {
	return &ChunkedStream{
		FilterStream: NewFilterStream(parent, own),
		opts:         resolveOptions(opts),
	}
}

func (c *ChunkedStream) sanityLimit() int64 {
	if c.opts.SanityLimit > 0 {
		return c.opts.SanityLimit
	}
	return defaultSanityLimit
}

// parseChunkSizeLine parses "hex-size [ ; chunk-ext ]* CRLF" (extensions are
// accepted and discarded; never emitted on write, per spec.md §6).
func parseChunkSizeLine(line []byte) (int64, error) {
	line = trimCRLF(line)
	if i := indexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = trimSpace(line)
	if len(line) == 0 {
		return 0, ErrMalformedChunk
	}
	n, err := strconv.ParseInt(string(line), 16, 64)
	if err != nil || n < 0 {
		return 0, ErrMalformedChunk
	}
	return n, nil
}

func trimCRLF(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

func trimSpace(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}
	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t') {
		b = b[:len(b)-1]
	}
	return b
}

func indexByte(b []byte, c byte) int {
	for i := range b {
		if b[i] == c {
			return i
		}
	}
	return -1
}

// readLine reads one CRLF-terminated line (including the terminator) from
// parent, bounded by the sanity limit, via its DelimitedFinder/Reader pair.
func (c *ChunkedStream) readLine() ([]byte, error) {
	finder, ok := capabilityOf[DelimitedFinder](c.Parent())
	if !ok {
		return nil, ErrInvalidArgument
	}
	reader, ok := capabilityOf[Reader](c.Parent())
	if !ok {
		return nil, ErrInvalidArgument
	}
	n, err := finder.FindDelimited('\n', c.sanityLimit(), true)
	if err != nil {
		if err == ErrTooLong {
			return nil, ErrMalformedChunk
		}
		return nil, err
	}
	if n < 0 {
		return nil, ErrTruncatedBody
	}
	line := make([]byte, n)
	if _, err := io.ReadFull(reader, line); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrTruncatedBody
		}
		return nil, err
	}
	return line, nil
}

// discardCRLF consumes exactly the two-byte CRLF that follows each chunk's
// data and the size line terminator already consumed by readLine.
func (c *ChunkedStream) discardCRLF() error {
	reader, ok := capabilityOf[Reader](c.Parent())
	if !ok {
		return ErrInvalidArgument
	}
	var crlf [2]byte
	if _, err := io.ReadFull(reader, crlf[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return ErrTruncatedBody
		}
		return err
	}
	return nil
}

// Read drives the read-side state machine, returning up to len(p) bytes of
// decoded chunk payload (spec.md §4.6). After the terminating zero-length
// chunk and its trailer have been consumed, Read returns (0, nil) on that
// call and on every later one; it does not return io.EOF.
func (c *ChunkedStream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		switch c.rstate {
		case awaitingSize:
			line, err := c.readLine()
			if err != nil {
				return 0, err
			}
			size, err := parseChunkSizeLine(line)
			if err != nil {
				return 0, err
			}
			if size > c.sanityLimit() {
				return 0, ErrTooLong
			}
			if size == 0 {
				c.rstate = awaitingTrailer
				continue
			}
			c.remaining = size
			c.rstate = inChunk
		case inChunk:
			want := int64(len(p))
			if want > c.remaining {
				want = c.remaining
			}
			reader, ok := capabilityOf[Reader](c.Parent())
			if !ok {
				return 0, ErrInvalidArgument
			}
			n, err := reader.Read(p[:want])
			if n > 0 {
				c.remaining -= int64(n)
				if c.remaining == 0 {
					if err := c.discardCRLF(); err != nil {
						return n, err
					}
					c.rstate = awaitingSize
				}
				return n, nil
			}
			if err == ErrWouldBlock {
				return 0, ErrWouldBlock
			}
			if err == io.EOF {
				return 0, ErrTruncatedBody
			}
			return 0, err
		case awaitingTrailer:
			for {
				line, err := c.readLine()
				if err != nil {
					return 0, err
				}
				trimmed := trimCRLF(line)
				if len(trimmed) == 0 {
					c.rstate = exhausted
					break
				}
				if c.opts.TrailerSink != nil {
					if i := indexByte(trimmed, ':'); i >= 0 {
						key := string(trimSpace(trimmed[:i]))
						val := string(trimSpace(trimmed[i+1:]))
						c.opts.TrailerSink(key, val)
					}
				}
			}
			return 0, nil
		case exhausted:
			return 0, nil
		}
	}
}

// Write frames p as exactly one chunk: "hex(len) CRLF" + p + "CRLF". Never
// splits the caller's buffer across chunks (spec.md §4.6).
func (c *ChunkedStream) Write(p []byte) (int, error) {
	if c.wstate == writeClosed {
		return 0, ErrInvalidArgument
	}
	writer, ok := capabilityOf[Writer](c.Parent())
	if !ok {
		return 0, ErrInvalidArgument
	}
	if len(p) == 0 {
		return 0, nil
	}
	c.wstate = writingChunk
	header := strconv.FormatInt(int64(len(p)), 16) + "\r\n"
	if _, err := writer.Write([]byte(header)); err != nil {
		return 0, err
	}
	n, err := writer.Write(p)
	if err != nil {
		return n, err
	}
	if _, err := writer.Write([]byte("\r\n")); err != nil {
		return n, err
	}
	c.wstate = writeReady
	return n, nil
}

// Close writes the terminating zero-length chunk (no trailers) and marks
// the stream closed. Idempotent: a second Close is a no-op.
func (c *ChunkedStream) Close() error {
	if c.wstate == writeClosed {
		return nil
	}
	if writer, ok := capabilityOf[Writer](c.Parent()); ok {
		if _, err := writer.Write([]byte("0\r\n\r\n")); err != nil {
			return err
		}
	}
	c.wstate = writeClosed
	return c.FilterStream.Close()
}
