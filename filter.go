// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mordor

// FilterStream forwards every capability to a parent Stream, owned or
// borrowed. Per spec.md §9's design guidance ("express ownership as a
// two-variant value... not a raw owning pointer"), ownership is a plain bool
// fixed at construction rather than a manually-managed pointer: Close
// destroys (propagates Close to) the parent iff own is true.
//
// Subclasses in this package (BufferedStream, NotifyStream, ChunkedStream)
// embed *FilterStream and override the subset of capabilities they
// transform, exactly as the teacher's Reader/Writer/ReadWriter wrap a
// *framer and override Read/Write/WriteTo/ReadFrom while leaving everything
// else to the embedded type.
type FilterStream struct {
	parent Stream
	own    bool
}

// NewFilterStream returns a Stream that forwards to parent. If own is true,
// Close destroys the parent; if false (borrowed), Close leaves the parent
// open — this is how the HTTP Body Framer isolates a message body's
// lifetime from the underlying connection (spec.md §4.7: "a non-owning
// FilterStream wrapping the connection stream... so the body stream can be
// dropped without dropping the connection").
func NewFilterStream(parent Stream, own bool) *FilterStream {
	if parent == nil {
		panic("mordor: NewFilterStream: nil parent")
	}
	return &FilterStream{parent: parent, own: own}
}

// Parent returns the wrapped Stream.
func (f *FilterStream) Parent() Stream { return f.parent }

// Owns reports whether Close destroys the parent.
func (f *FilterStream) Owns() bool { return f.own }

// Read forwards to the parent if it implements Reader.
func (f *FilterStream) Read(p []byte) (int, error) {
	r, ok := capabilityOf[Reader](f.parent)
	if !ok {
		return 0, ErrInvalidArgument
	}
	return r.Read(p)
}

// Write forwards to the parent if it implements Writer.
func (f *FilterStream) Write(p []byte) (int, error) {
	w, ok := capabilityOf[Writer](f.parent)
	if !ok {
		return 0, ErrInvalidArgument
	}
	return w.Write(p)
}

// Seek forwards to the parent if it implements Seeker.
func (f *FilterStream) Seek(offset int64, whence Whence) (int64, error) {
	s, ok := capabilityOf[Seeker](f.parent)
	if !ok {
		return 0, ErrInvalidArgument
	}
	return s.Seek(offset, whence)
}

// Size forwards to the parent if it implements Sizer.
func (f *FilterStream) Size() (int64, error) {
	s, ok := capabilityOf[Sizer](f.parent)
	if !ok {
		return 0, ErrInvalidArgument
	}
	return s.Size()
}

// Truncate forwards to the parent if it implements Truncater.
func (f *FilterStream) Truncate(size int64) error {
	t, ok := capabilityOf[Truncater](f.parent)
	if !ok {
		return ErrInvalidArgument
	}
	return t.Truncate(size)
}

// FindDelimited forwards to the parent if it implements DelimitedFinder.
func (f *FilterStream) FindDelimited(delim byte, sanityLimit int64, throwIfMissing bool) (int64, error) {
	d, ok := capabilityOf[DelimitedFinder](f.parent)
	if !ok {
		return 0, ErrInvalidArgument
	}
	return d.FindDelimited(delim, sanityLimit, throwIfMissing)
}

// Close closes the parent iff this FilterStream owns it. Idempotent only in
// the sense the parent's own Close is idempotent; FilterStream adds no
// additional state.
func (f *FilterStream) Close() error {
	if !f.own {
		return nil
	}
	return f.parent.Close()
}
