// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mordor

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyStreamFiresOnEOFOnce(t *testing.T) {
	parent := newMemStream("")
	calls := 0
	n := NewNotifyStream(parent, true, func() { calls++ }, nil, nil)

	buf := make([]byte, 4)
	_, err := n.Read(buf)
	require.ErrorIs(t, err, io.EOF)
	_, err = n.Read(buf)
	require.ErrorIs(t, err, io.EOF)

	assert.Equal(t, 1, calls)
}

func TestNotifyStreamFiresOnCloseOnce(t *testing.T) {
	parent := newMemStream("")
	calls := 0
	n := NewNotifyStream(parent, true, nil, func() { calls++ }, nil)

	require.NoError(t, n.Close())
	require.NoError(t, n.Close())
	assert.Equal(t, 1, calls)
}

func TestNotifyStreamFiresOnExceptionOnce(t *testing.T) {
	boom := errors.New("boom")
	failing := &failingStream{err: boom}
	var got error
	n := NewNotifyStream(failing, true, nil, nil, func(e error) { got = e })

	buf := make([]byte, 4)
	_, err := n.Read(buf)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, got, boom)

	got = nil
	_, _ = n.Read(buf)
	assert.Nil(t, got) // cleared after first firing
}

// failingStream always fails Read with err.
type failingStream struct {
	err error
}

func (f *failingStream) Read(p []byte) (int, error)  { return 0, f.err }
func (f *failingStream) Write(p []byte) (int, error) { return 0, f.err }
func (f *failingStream) Close() error                { return nil }
