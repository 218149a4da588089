// Copyright 2023 The gowch Authors. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package wchisp

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFirmwareBin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.bin")
	want := []byte{0x02, 0x00, 0x2e, 0xff, 0x80}
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatal(err)
	}

	image, err := LoadFirmware(path)
	if err != nil {
		t.Fatalf("LoadFirmware: %v", err)
	}
	if !bytes.Equal(image, want) {
		t.Errorf("image = %x, want %x", image, want)
	}
}

func TestLoadFirmwareHex(t *testing.T) {
	// two records with a 4-byte gap between them
	hex := ":0400000001020304F2\n" +
		":04000800AABBCCDDE6\n" +
		":00000001FF\n"
	path := filepath.Join(t.TempDir(), "app.hex")
	if err := os.WriteFile(path, []byte(hex), 0o644); err != nil {
		t.Fatal(err)
	}

	image, err := LoadFirmware(path)
	if err != nil {
		t.Fatalf("LoadFirmware: %v", err)
	}

	want := []byte{0x01, 0x02, 0x03, 0x04, 0xff, 0xff, 0xff, 0xff, 0xaa, 0xbb, 0xcc, 0xdd}
	if !bytes.Equal(image, want) {
		t.Errorf("image = %x, want %x", image, want)
	}
}

func TestLoadFirmwareHexEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.hex")
	if err := os.WriteFile(path, []byte(":00000001FF\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFirmware(path); err == nil {
		t.Error("LoadFirmware accepted a hex file without data records")
	}
}
