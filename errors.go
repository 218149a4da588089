// Copyright 2023 The gowch Authors. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package wchisp

import (
	"errors"
	"fmt"
)

// ErrNoDataEEPROM is returned by EraseData for chips without a data EEPROM
// region.
var ErrNoDataEEPROM = errors.New("chip doesn't support data EEPROM")

// TransportError wraps an I/O failure or timeout on the underlying transport.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError indicates that the bootloader answered a command with a
// non-ok status byte.
type ProtocolError struct {
	Command string
	Status  byte
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s failed: device returned status 0x%02x", e.Command, e.Status)
}

// FramingError indicates a response too short or malformed to carry a valid
// status and payload.
type FramingError struct {
	Command string
	Length  int
}

func (e *FramingError) Error() string {
	return fmt.Sprintf("%s response of %d bytes is too short", e.Command, e.Length)
}

// ChecksumMismatchError indicates that the checksum the device reported
// during key exchange, or the verification result of a flash chunk, does not
// match the host-side computation.
type ChecksumMismatchError struct {
	Context string
	Want    byte
	Got     byte
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("%s, mismatch: expected 0x%02x, got 0x%02x", e.Context, e.Want, e.Got)
}

// UnsupportedOperationError marks an operation this implementation (or the
// connected chip) does not carry out.
type UnsupportedOperationError struct {
	Op string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation: %s", e.Op)
}

// LookupError is returned when the identification bytes the device reported
// are not present in the chip directory.
type LookupError struct {
	ChipID     byte
	DeviceType byte
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("chip identification failed: unknown chip id 0x%02x (device type 0x%02x)",
		e.ChipID, e.DeviceType)
}
