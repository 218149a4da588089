// Copyright 2023 The gowch Authors. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package wchisp

// uidChecksum is the wrap-around mod-256 sum of all unique id bytes. The
// bootloader computes the same value on its side during key exchange.
func uidChecksum(uid []byte) byte {
	var sum byte
	for _, b := range uid {
		sum += b
	}
	return sum
}

// deriveKey computes the 8-byte XOR obfuscation key for chunked transfers.
// Bytes 0..6 carry the unique id checksum, byte 7 additionally folds in the
// chip id.
func deriveKey(uid []byte, chipID byte) (key [xorKeySize]byte, checksum byte) {
	checksum = uidChecksum(uid)
	for i := 0; i < xorKeySize-1; i++ {
		key[i] = checksum
	}
	key[xorKeySize-1] = checksum + chipID
	return key, checksum
}

// obfuscateChunk XORs one chunk with the key, cycling by position within the
// chunk. chunkSize is a multiple of xorKeySize, so the per-chunk keystream
// is identical to an absolute-offset keystream; keys_test.go guards the
// invariant.
func obfuscateChunk(chunk []byte, key [xorKeySize]byte) []byte {
	out := make([]byte, len(chunk))
	for i, b := range chunk {
		out[i] = b ^ key[i%xorKeySize]
	}
	return out
}
