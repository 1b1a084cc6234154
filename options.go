// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mordor

import (
	"runtime"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

// yieldOnce cooperatively yields the goroutine rather than busy-spinning
// while emulating blocking on top of a non-blocking transport. Grounded in
// the teacher's internal.go framer.yieldOnce.
func yieldOnce() { runtime.Gosched() }

// Options configures BufferedStream, ChunkedStream, and the HTTP Body
// Framer. One shared Options/Option pair serves all three, following the
// teacher's options.go convention of a single Options struct consumed
// selectively by each constructor (teacher's framer used one Options struct
// for both its read and write paths; here one serves the whole stream
// stack instead of one struct per concern).
type Options struct {
	// ReadAhead is the minimum chunk BufferedStream requests from its parent
	// on each underflow (spec.md §4.4).
	ReadAhead int

	// AllowPartialReads makes BufferedStream.Read return as soon as any
	// bytes are available after one parent call, rather than looping to
	// fill the caller's buffer (spec.md §4.4).
	AllowPartialReads bool

	// SanityLimit caps the length of each chunk-size line and trailer line
	// ChunkedStream will scan for (spec.md §4.6's SANITY) and the largest
	// chunk size it accepts. It does not cap a body without Content-Length.
	// Zero means "use the built-in default".
	SanityLimit int64

	// RetryDelay controls the cooperative wait policy on ErrWouldBlock:
	//   - negative: nonblocking, return ErrWouldBlock immediately
	//   - zero: yield (runtime.Gosched) and retry
	//   - positive: sleep for the duration and retry
	// Ignored once RetryBackoff is set.
	RetryDelay time.Duration

	// RetryBackoff, if set, supersedes RetryDelay: each retry sleeps for
	// the duration the policy's NextBackOff() returns, stopping (propagating
	// ErrWouldBlock) once it reports backoff.Stop.
	RetryBackoff backoff.BackOff

	// TrailerSink, if set, receives each trailer header ChunkedStream parses
	// after the terminating zero-length chunk (spec.md §4.6).
	TrailerSink func(key, value string)

	// Logger receives structured lifecycle/failure events from NotifyStream
	// and the Body Framer. Defaults to a no-op logger.
	Logger *zap.Logger
}

var defaultOptions = Options{
	ReadAhead:   4096,
	SanityLimit: 0,
	RetryDelay:  0, // default: cooperative yield-and-retry
	Logger:      zap.NewNop(),
}

// Option mutates Options; see the With* constructors below.
type Option func(*Options)

func resolveOptions(opts []Option) Options {
	o := defaultOptions
	for _, fn := range opts {
		fn(&o)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// WithReadAhead sets BufferedStream's minimum underflow request size.
func WithReadAhead(n int) Option {
	return func(o *Options) { o.ReadAhead = n }
}

// WithAllowPartialReads toggles BufferedStream.Read's early-return behavior.
func WithAllowPartialReads(allow bool) Option {
	return func(o *Options) { o.AllowPartialReads = allow }
}

// WithSanityLimit caps chunk-size-line and trailer-line scanning and the
// largest accepted chunk size.
func WithSanityLimit(n int64) Option {
	return func(o *Options) { o.SanityLimit = n }
}

// WithRetryDelay sets the fixed/yield retry policy used on ErrWouldBlock.
func WithRetryDelay(d time.Duration) Option {
	return func(o *Options) { o.RetryDelay = d; o.RetryBackoff = nil }
}

// WithBlock enables cooperative blocking (yield-and-retry) on ErrWouldBlock.
func WithBlock() Option {
	return func(o *Options) { o.RetryDelay = 0; o.RetryBackoff = nil }
}

// WithNonblock forces non-blocking behavior (return ErrWouldBlock immediately).
func WithNonblock() Option {
	return func(o *Options) { o.RetryDelay = -1; o.RetryBackoff = nil }
}

// WithRetryBackoff makes the cooperative wait-and-retry loop follow an
// exponential (or otherwise policy-driven) backoff instead of a fixed delay.
func WithRetryBackoff(b backoff.BackOff) Option {
	return func(o *Options) { o.RetryBackoff = b }
}

// WithTrailerSink registers a callback for trailer headers parsed after a
// chunked body's terminating zero-length chunk.
func WithTrailerSink(fn func(key, value string)) Option {
	return func(o *Options) { o.TrailerSink = fn }
}

// WithLogger attaches structured logging to NotifyStream and the Body Framer.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// waitOnceOnWouldBlock sleeps (or yields) once per the configured retry
// policy and reports whether the caller should retry. Grounded in the
// teacher's internal.go waitOnceOnWouldBlock, generalized to also support a
// backoff.BackOff policy (domain stack, SPEC_FULL.md §3).
func (o *Options) waitOnceOnWouldBlock() bool {
	if o.RetryBackoff != nil {
		d := o.RetryBackoff.NextBackOff()
		if d == backoff.Stop {
			return false
		}
		time.Sleep(d)
		return true
	}
	if o.RetryDelay < 0 {
		return false
	}
	if o.RetryDelay == 0 {
		yieldOnce()
		return true
	}
	time.Sleep(o.RetryDelay)
	return true
}
