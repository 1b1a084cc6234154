// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mordor

import (
	"io"

	"go.uber.org/zap"
)

// NotifyStream is a FilterStream that invokes registered callbacks on
// observed lifecycle events: OnEOF when the parent returns 0 bytes on read,
// OnClose when Close is called, OnException when any forwarded operation
// fails. Each callback fires at most once and is cleared immediately after
// invocation so re-entrant calls (e.g. a caller that keeps reading after
// EOF) never fire it twice (spec.md §4.5, DESIGN NOTES: "invocation consumes
// the callback to guarantee at-most-once").
//
// The Body Framer uses this to signal "message body fully consumed"
// (spec.md §4.7's onDone), grounded in the teacher's options.go pattern of
// a small struct of optional callback fields.
type NotifyStream struct {
	*FilterStream
	log *zap.Logger

	onEOF       func()
	onClose     func()
	onException func(error)
}

// NewNotifyStream wraps parent with callback hooks. Any of onEOF, onClose,
// onException may be nil.
func NewNotifyStream(parent Stream, own bool, onEOF, onClose func(), onException func(error), opts ...Option) *NotifyStream {
	o := resolveOptions(opts)
	return &NotifyStream{
		FilterStream: NewFilterStream(parent, own),
		log:          o.Logger,
		onEOF:        onEOF,
		onClose:      onClose,
		onException:  onException,
	}
}

// fireEOF invokes and clears onEOF, if set.
func (n *NotifyStream) fireEOF() {
	if n.onEOF == nil {
		return
	}
	cb := n.onEOF
	n.onEOF = nil
	n.log.Debug("mordor: notify stream observed EOF")
	cb()
}

// fireClose invokes and clears onClose, if set.
func (n *NotifyStream) fireClose() {
	if n.onClose == nil {
		return
	}
	cb := n.onClose
	n.onClose = nil
	n.log.Debug("mordor: notify stream observed close")
	cb()
}

// fireException invokes and clears onException, if set.
func (n *NotifyStream) fireException(err error) {
	if n.onException == nil {
		return
	}
	cb := n.onException
	n.onException = nil
	n.log.Warn("mordor: notify stream observed exception", zap.Error(err))
	cb(err)
}

// Read forwards to the parent, firing onEOF on a 0-byte/io.EOF result and
// onException on any other error.
func (n *NotifyStream) Read(p []byte) (int, error) {
	nr, err := n.FilterStream.Read(p)
	if err != nil && err != ErrWouldBlock && err != ErrMore && err != io.EOF {
		n.fireException(err)
	}
	if nr == 0 && (err == nil || err == io.EOF) {
		n.fireEOF()
	}
	return nr, err
}

// Write forwards to the parent, firing onException on failure.
func (n *NotifyStream) Write(p []byte) (int, error) {
	nw, err := n.FilterStream.Write(p)
	if err != nil && err != ErrWouldBlock && err != ErrMore {
		n.fireException(err)
	}
	return nw, err
}

// Close forwards to the parent (iff owned), firing onClose unconditionally
// and onException if the parent's Close fails.
func (n *NotifyStream) Close() error {
	err := n.FilterStream.Close()
	if err != nil {
		n.fireException(err)
	}
	n.fireClose()
	return err
}
