// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mordor

import "strings"

// Method is the HTTP request method, relevant only for HasMessageBody's
// GET/HEAD/TRACE special case (spec.md §4.7).
type Method string

const (
	MethodGet   Method = "GET"
	MethodHead  Method = "HEAD"
	MethodTrace Method = "TRACE"
)

// InvalidStatus marks the request side: HasMessageBody/GetStream take the
// same (general, entity, method, status) shape for both directions, and
// spec.md §4.2 uses a sentinel status to distinguish a request (no status
// line at all) from a response.
const InvalidStatus = -1

// GeneralHeaders is the subset of RFC 2616 §4.5 General-Header fields the
// Body Framer needs: the ordered Transfer-Encoding token list and the
// Connection token set.
type GeneralHeaders struct {
	// TransferEncoding is the ordered list of coding tokens (lowercased),
	// outermost-applied-last on write per RFC 2616 §3.6 ("applied in the
	// order... listed"). Empty means "identity" / not present.
	TransferEncoding []string
	// Connection holds the lowercased tokens of the Connection header.
	Connection []string
}

// HasConnectionClose reports whether the Connection header names "close".
func (g GeneralHeaders) HasConnectionClose() bool {
	for _, t := range g.Connection {
		if t == "close" {
			return true
		}
	}
	return false
}

// EntityHeaders is the subset of RFC 2616 §4.5 Entity-Header fields the Body
// Framer needs.
type EntityHeaders struct {
	// ContentLength is the declared body length, or -1 if the header is
	// absent.
	ContentLength int64
}

const noContentLength int64 = -1

// HasMessageBody implements RFC 2616 §4.4's body-presence rules exactly
// (spec.md §4.7). status == InvalidStatus selects the request-side rules;
// any other value selects the response-side rules.
func HasMessageBody(general GeneralHeaders, entity EntityHeaders, method Method, status int) bool {
	if status == InvalidStatus {
		switch method {
		case MethodGet, MethodHead, MethodTrace:
			return false
		}
		if entity.ContentLength > 0 {
			return true
		}
		return hasNonIdentityCoding(general.TransferEncoding)
	}

	switch method {
	case MethodHead, MethodTrace:
		return false
	}
	if status >= 100 && status <= 199 {
		return false
	}
	if status == 204 || status == 304 {
		return false
	}
	if hasNonIdentityCoding(general.TransferEncoding) {
		return true
	}
	if entity.ContentLength == 0 {
		return false
	}
	return true
}

func hasNonIdentityCoding(tokens []string) bool {
	for _, t := range tokens {
		if !strings.EqualFold(t, "identity") {
			return true
		}
	}
	return false
}

// GetStream assembles the decode/encode stream chain for a message body
// over conn, per spec.md §4.7. Precondition: HasMessageBody must already
// have reported true. onDone fires at most once: when the body has been
// fully consumed (forRead) or when the returned stream is closed, whichever
// comes first. It is bound through a NotifyStream for a chunked coding, a
// Content-Length body, or a close-delimited body; a chain whose only
// non-identity codings are gzip/x-gzip/deflate has no NotifyStream, and
// onDone does not fire for it. forRead selects decode
// (Transfer-Encoding tokens applied in reverse, per the resolved Open
// Question in SPEC_FULL.md §6) vs encode (tokens applied in declared
// order).
func GetStream(general GeneralHeaders, entity EntityHeaders, method Method, status int, onDone func(), forRead bool, conn Stream, opts ...Option) (Stream, error) {
	var s Stream = NewFilterStream(conn, false)

	if onDone != nil {
		done := onDone
		fired := false
		onDone = func() {
			if !fired {
				fired = true
				done()
			}
		}
	}

	tokens := general.TransferEncoding
	if forRead {
		tokens = reversed(tokens)
	}

	wrapped := false
	for _, tok := range tokens {
		switch {
		case strings.EqualFold(tok, "identity"):
			// no wrapper
		case strings.EqualFold(tok, "chunked"):
			wrapped = true
			cs := NewChunkedStream(s, true, opts...)
			var onEOF, onClose func()
			if onDone != nil {
				onEOF, onClose = onDone, onDone
			}
			s = NewNotifyStream(cs, true, onEOF, onClose, nil, opts...)
		case strings.EqualFold(tok, "gzip"), strings.EqualFold(tok, "x-gzip"):
			wrapped = true
			var cs Stream
			var err error
			if forRead {
				cs, err = NewGzipDecodeStream(s, true)
			} else {
				cs, err = NewGzipEncodeStream(s, true)
			}
			if err != nil {
				return nil, ErrUnsupportedTransferCoding
			}
			s = cs
		case strings.EqualFold(tok, "deflate"):
			wrapped = true
			var cs Stream
			var err error
			if forRead {
				cs, err = NewDeflateDecodeStream(s, true)
			} else {
				cs, err = NewDeflateEncodeStream(s, true)
			}
			if err != nil {
				return nil, ErrUnsupportedTransferCoding
			}
			s = cs
		case strings.EqualFold(tok, "compress"), strings.EqualFold(tok, "x-compress"):
			return nil, ErrUnsupportedTransferCoding
		default:
			return nil, ErrUnknownTransferCoding
		}
	}

	if wrapped {
		return s, nil
	}

	if entity.ContentLength != noContentLength {
		ls := NewLimitedStream(s, true, entity.ContentLength)
		return NewNotifyStream(ls, true, onDone, onDone, nil, opts...), nil
	}

	if !general.HasConnectionClose() {
		return nil, ErrMissingCloseForDelimitedBody
	}
	return NewNotifyStream(s, true, onDone, onDone, nil, opts...), nil
}

func reversed(in []string) []string {
	out := make([]string, len(in))
	for i, t := range in {
		out[len(in)-1-i] = t
	}
	return out
}
