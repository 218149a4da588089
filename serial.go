// Copyright 2023 The gowch Authors. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package wchisp

import (
	"time"

	"go.bug.st/serial"
)

// serialTransport speaks the same frame protocol over the bootloader's UART
// interface instead of USB bulk endpoints.
type serialTransport struct {
	port serial.Port
}

// OpenSerial opens the bootloader UART at the fixed 115200 8N1 setting.
func OpenSerial(portName string) (Transport, error) {
	mode := &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, err
	}

	logger.Debugf("opened serial port %s", portName)
	return &serialTransport{port: port}, nil
}

// Claim is a no-op, opening the port already grants exclusive access.
func (t *serialTransport) Claim() error { return nil }

func (t *serialTransport) Write(p []byte, timeout time.Duration) (int, error) {
	return t.port.Write(p)
}

func (t *serialTransport) Read(p []byte, timeout time.Duration) (int, error) {
	if err := t.port.SetReadTimeout(timeout); err != nil {
		return 0, err
	}
	return t.port.Read(p)
}

func (t *serialTransport) Close() error {
	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	return err
}
