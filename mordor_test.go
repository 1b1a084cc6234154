// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mordor

import (
	"bytes"
	"io"
)

// memStream is a minimal in-memory Stream backing the test suite: a
// bytes.Buffer for reads plus a separate bytes.Buffer capturing writes, with
// a closed flag. It implements Reader, Writer, and Closer; tests that need
// Seeker/Sizer/DelimitedFinder wrap it in BufferedStream, which synthesizes
// DelimitedFinder, or compose additional fakes locally.
type memStream struct {
	r      *bytes.Reader
	w      bytes.Buffer
	closed bool
}

func newMemStream(data string) *memStream {
	return &memStream{r: bytes.NewReader([]byte(data))}
}

func (m *memStream) Read(p []byte) (int, error) {
	if m.r.Len() == 0 {
		return 0, io.EOF
	}
	return m.r.Read(p)
}

func (m *memStream) Write(p []byte) (int, error) {
	return m.w.Write(p)
}

func (m *memStream) Close() error {
	m.closed = true
	return nil
}

func (m *memStream) written() string { return m.w.String() }
