// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mordor

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedStreamReadsFullBufferAcrossUnderflows(t *testing.T) {
	parent := &stingyReader{data: []byte("hello world")}
	bs := NewBufferedStream(parent, true, WithReadAhead(4))

	out := make([]byte, 11)
	n, err := bs.Read(out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(out[:n]))
}

// stingyReader returns at most one byte per Read call, regardless of the
// caller's buffer size, so AllowPartialReads' early-return behavior is
// observable without depending on the backing transport's own chunking.
type stingyReader struct {
	data []byte
}

func (s *stingyReader) Read(p []byte) (int, error) {
	if len(s.data) == 0 {
		return 0, io.EOF
	}
	p[0] = s.data[0]
	s.data = s.data[1:]
	return 1, nil
}

func (s *stingyReader) Close() error { return nil }

func TestBufferedStreamAllowPartialReadsReturnsEarly(t *testing.T) {
	parent := &stingyReader{data: []byte("hello world")}
	bs := NewBufferedStream(parent, true, WithReadAhead(4), WithAllowPartialReads(true))

	out := make([]byte, 11)
	n, err := bs.Read(out)
	require.NoError(t, err)
	assert.Less(t, n, 11)
}

func TestBufferedStreamFindDelimitedRefillsFromParent(t *testing.T) {
	parent := newMemStream("abc,def")
	bs := NewBufferedStream(parent, true, WithReadAhead(2))

	n, err := bs.FindDelimited(',', All, true)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
}

func TestBufferedStreamFindDelimitedMissingReportsError(t *testing.T) {
	parent := newMemStream("no-delimiter")
	bs := NewBufferedStream(parent, true, WithReadAhead(4))

	_, err := bs.FindDelimited(',', 4, true)
	assert.Error(t, err)
}

func TestBufferedStreamSeekDiscardsBuffer(t *testing.T) {
	parent := newMemStream("abc")
	bs := NewBufferedStream(parent, true)

	// prime the internal buffer
	small := make([]byte, 1)
	_, _ = bs.Read(small)

	_, err := bs.Seek(0, SeekBegin)
	assert.ErrorIs(t, err, ErrInvalidArgument) // memStream has no Seeker; forwarding fails, but the buffer is still cleared.
	assert.Equal(t, int64(0), bs.b.ReadAvailable())
}

func TestBufferedStreamReadReturnsEOFWhenParentExhausted(t *testing.T) {
	parent := newMemStream("ab")
	bs := NewBufferedStream(parent, true)

	out := make([]byte, 10)
	n, err := bs.Read(out)
	require.NoError(t, err)
	assert.Equal(t, "ab", string(out[:n]))

	n2, err2 := bs.Read(out)
	assert.Equal(t, 0, n2)
	assert.Equal(t, io.EOF, err2)
}
