// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mordor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterStreamForwardsReadWrite(t *testing.T) {
	parent := newMemStream("payload")
	f := NewFilterStream(parent, true)

	buf := make([]byte, 7)
	n, err := f.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(buf[:n]))

	_, err = f.Write([]byte("out"))
	require.NoError(t, err)
	assert.Equal(t, "out", parent.written())
}

func TestFilterStreamOwnedCloseDestroysParent(t *testing.T) {
	parent := newMemStream("")
	f := NewFilterStream(parent, true)
	require.NoError(t, f.Close())
	assert.True(t, parent.closed)
}

func TestFilterStreamBorrowedCloseLeavesParentOpen(t *testing.T) {
	parent := newMemStream("")
	f := NewFilterStream(parent, false)
	require.NoError(t, f.Close())
	assert.False(t, parent.closed)
}

func TestFilterStreamRejectsNilParent(t *testing.T) {
	assert.Panics(t, func() { NewFilterStream(nil, true) })
}

func TestFilterStreamMissingCapabilityIsInvalidArgument(t *testing.T) {
	parent := newMemStream("x")
	f := NewFilterStream(parent, false)
	_, err := f.Seek(0, SeekBegin)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
