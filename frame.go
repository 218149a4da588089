// Copyright 2023 The gowch Authors. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package wchisp

// encodeCommand builds a transport-ready command frame:
// command byte, little-endian u16 payload length, payload.
func encodeCommand(cmd ispCommand, payload []byte) []byte {
	frame := make([]byte, 0, cmdHeaderSize+len(payload))
	frame = append(frame, byte(cmd))
	frame = appendUint16LE(frame, uint16(len(payload)))
	frame = append(frame, payload...)
	return frame
}

// decodeResponse extracts status and payload from a raw response buffer:
// echoed command byte, status byte, little-endian u16 payload length,
// payload. The input is never modified.
func decodeResponse(cmd ispCommand, raw []byte) (status byte, payload []byte, err error) {
	if len(raw) < respHeaderSize {
		return 0, nil, &FramingError{Command: cmd.String(), Length: len(raw)}
	}
	if ispCommand(raw[0]) != cmd {
		return 0, nil, &FramingError{Command: cmd.String(), Length: len(raw)}
	}

	length := int(readUint16LE(raw[2:]))
	if len(raw) < respHeaderSize+length {
		return 0, nil, &FramingError{Command: cmd.String(), Length: len(raw)}
	}

	return raw[1], raw[respHeaderSize : respHeaderSize+length], nil
}

func appendUint16LE(buf []byte, value uint16) []byte {
	return append(buf, byte(value), byte(value>>8))
}

func appendUint32LE(buf []byte, value uint32) []byte {
	return append(buf, byte(value), byte(value>>8), byte(value>>16), byte(value>>24))
}

func readUint16LE(buf []byte) uint16 {
	return uint16(buf[0]) | uint16(buf[1])<<8
}

func readUint32LE(buf []byte) uint32 {
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
}
