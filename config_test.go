// Copyright 2023 The gowch Authors. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package wchisp

import (
	"errors"
	"testing"
)

func TestConfigUnprotected(t *testing.T) {
	cfg := []byte{0xa5, 0x5a, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	if !configUnprotected(cfg) {
		t.Error("unlock sentinel not recognized")
	}

	cfg[cfgOffRDPR] = 0x00
	if configUnprotected(cfg) {
		t.Error("protected marker reported as unprotected")
	}
}

func TestApplyUnprotect(t *testing.T) {
	cfg := []byte{0x00, 0x13, 0xde, 0xad, 0x0f, 0x00, 0xff, 0x80}

	applyUnprotect(cfg)

	if cfg[cfgOffRDPR] != cfgUnlockSentinel || cfg[cfgOffUser] != cfgUnlockSentinelPair {
		t.Errorf("marker bytes = %02x %02x, want %02x %02x",
			cfg[cfgOffRDPR], cfg[cfgOffUser], cfgUnlockSentinel, cfgUnlockSentinelPair)
	}
	// data bytes stay untouched
	if cfg[2] != 0xde || cfg[3] != 0xad {
		t.Errorf("data bytes modified: %02x %02x", cfg[2], cfg[3])
	}
	for i := cfgOffWRPR; i < cfgOffWRPR+wrprLength; i++ {
		if cfg[i] != 0xff {
			t.Errorf("write protect byte %d = %02x, want ff", i, cfg[i])
		}
	}
}

func TestProtectedSectors(t *testing.T) {
	cfg := []byte{0xa5, 0x5a, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	if got := ProtectedSectors(cfg); got != nil {
		t.Errorf("fully unprotected mask yields sectors %v", got)
	}

	// clear bits 0 and 9
	cfg[cfgOffWRPR] = 0xfe
	cfg[cfgOffWRPR+1] = 0xfd
	got := ProtectedSectors(cfg)
	if len(got) != 2 || got[0] != 0 || got[1] != 9 {
		t.Errorf("ProtectedSectors = %v, want [0 9]", got)
	}

	if got := ProtectedSectors(cfg[:3]); got != nil {
		t.Errorf("short slice yields sectors %v", got)
	}
}

func TestFindChip(t *testing.T) {
	chip, err := FindChip(0x52, 0x11)
	if err != nil {
		t.Fatalf("FindChip: %v", err)
	}
	if chip.Name != "CH552" {
		t.Errorf("name = %q, want CH552", chip.Name)
	}
	if chip.EEPROMSize != 128 {
		t.Errorf("EEPROM size = %d, want 128", chip.EEPROMSize)
	}

	// returned descriptor is a copy, callers cannot poison the directory
	chip.Name = "clobbered"
	again, _ := FindChip(0x52, 0x11)
	if again.Name != "CH552" {
		t.Error("directory entry mutated through returned descriptor")
	}
}

func TestFindChipUnknown(t *testing.T) {
	_, err := FindChip(0x52, 0x77)
	var lookupErr *LookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("FindChip = %v, want LookupError", err)
	}
	if lookupErr.ChipID != 0x52 || lookupErr.DeviceType != 0x77 {
		t.Errorf("LookupError carries %02x/%02x, want 52/77", lookupErr.ChipID, lookupErr.DeviceType)
	}
}
