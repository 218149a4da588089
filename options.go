// Copyright 2023 The gowch Authors. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package wchisp

import "time"

// Option configures a Session at Open time.
type Option func(*Session)

// WithTimeout sets the per-exchange I/O timeout. A timeout surfaces as a
// TransportError, never as a retry.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithTraceSink routes the raw bytes of every exchange to sink instead of
// the package logger.
func WithTraceSink(sink TraceSink) Option {
	return func(s *Session) {
		s.sink = sink
	}
}
