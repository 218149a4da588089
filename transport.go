// Copyright 2023 The gowch Authors. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package wchisp

import (
	"encoding/hex"
	"time"
)

// Transport is an exclusive, timeout-bounded duplex byte channel to one
// bootloader device. The session owns the transport for its lifetime; no two
// requests are ever outstanding at once.
type Transport interface {
	// Claim prepares the channel for I/O (configuration selection and
	// interface claiming for USB, nothing for serial ports).
	Claim() error

	Write(p []byte, timeout time.Duration) (int, error)

	// Read receives up to len(p) bytes of one response.
	Read(p []byte, timeout time.Duration) (int, error)

	// Close releases the channel. It is idempotent and safe to call after a
	// partially failed Claim.
	Close() error
}

// TraceSink receives the raw bytes of every completed exchange. It exists so
// the protocol core has no hard dependency on a particular output stream.
type TraceSink interface {
	Sent(frame []byte)
	Received(frame []byte)
}

type logrusSink struct{}

func (logrusSink) Sent(frame []byte) {
	logger.Tracef("=> %s", hex.EncodeToString(frame))
}

func (logrusSink) Received(frame []byte) {
	logger.Tracef("<= %s", hex.EncodeToString(frame))
}
