// Copyright 2023 The gowch Authors. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package wchisp

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeCommand(t *testing.T) {
	frame := encodeCommand(cmdErase, []byte{0x08, 0x00, 0x00, 0x00})

	want := []byte{0xa4, 0x04, 0x00, 0x08, 0x00, 0x00, 0x00}
	if !bytes.Equal(frame, want) {
		t.Errorf("frame = %x, want %x", frame, want)
	}
}

func TestEncodeCommandEmptyPayload(t *testing.T) {
	frame := encodeCommand(cmdProgram, nil)

	want := []byte{0xa5, 0x00, 0x00}
	if !bytes.Equal(frame, want) {
		t.Errorf("frame = %x, want %x", frame, want)
	}
}

func TestDecodeResponse(t *testing.T) {
	raw := []byte{0xa1, 0x00, 0x02, 0x00, 0x52, 0x11}

	status, payload, err := decodeResponse(cmdIdentify, raw)
	if err != nil {
		t.Fatalf("decodeResponse: %v", err)
	}
	if status != statusOK {
		t.Errorf("status = 0x%02x, want 0x00", status)
	}
	if !bytes.Equal(payload, []byte{0x52, 0x11}) {
		t.Errorf("payload = %x, want 5211", payload)
	}
}

func TestDecodeResponseTrailingPadding(t *testing.T) {
	// bulk reads may return a full packet, length field wins
	raw := []byte{0xa3, 0x00, 0x01, 0x00, 0x64, 0xde, 0xad}

	_, payload, err := decodeResponse(cmdIspKey, raw)
	if err != nil {
		t.Fatalf("decodeResponse: %v", err)
	}
	if !bytes.Equal(payload, []byte{0x64}) {
		t.Errorf("payload = %x, want 64", payload)
	}
}

func TestDecodeResponseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"short header", []byte{0xa1, 0x00, 0x01}},
		{"truncated payload", []byte{0xa1, 0x00, 0x04, 0x00, 0x01}},
		{"command echo mismatch", []byte{0xa2, 0x00, 0x00, 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := decodeResponse(cmdIdentify, tt.raw)
			var framingErr *FramingError
			if !errors.As(err, &framingErr) {
				t.Errorf("decodeResponse(%x) = %v, want FramingError", tt.raw, err)
			}
		})
	}
}

func TestDecodeResponseDoesNotMutate(t *testing.T) {
	raw := []byte{0xa7, 0x00, 0x02, 0x00, 0xa5, 0x5a}
	orig := append([]byte{}, raw...)

	if _, _, err := decodeResponse(cmdReadConfig, raw); err != nil {
		t.Fatalf("decodeResponse: %v", err)
	}
	if !bytes.Equal(raw, orig) {
		t.Error("decodeResponse mutated its input")
	}
}

func TestUintHelpers(t *testing.T) {
	buf := appendUint32LE(appendUint16LE(nil, 0x1234), 0xdeadbeef)

	want := []byte{0x34, 0x12, 0xef, 0xbe, 0xad, 0xde}
	if !bytes.Equal(buf, want) {
		t.Fatalf("buf = %x, want %x", buf, want)
	}
	if got := readUint16LE(buf); got != 0x1234 {
		t.Errorf("readUint16LE = 0x%04x, want 0x1234", got)
	}
	if got := readUint32LE(buf[2:]); got != 0xdeadbeef {
		t.Errorf("readUint32LE = 0x%08x, want 0xdeadbeef", got)
	}
}
