// Copyright 2023 The gowch Authors. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package wchisp

// ChipDescriptor is the static capability record of one supported chip,
// looked up once per session by the identification bytes the device reports
// and never mutated.
type ChipDescriptor struct {
	ChipID     byte
	DeviceType byte
	Name       string

	FlashSize  uint32 // code flash, bytes
	EEPROMSize uint32 // data EEPROM, bytes, 0 if absent

	// MinEraseSectors is the smallest sector count the bootloader accepts
	// for a code flash erase.
	MinEraseSectors uint32

	SupportsCodeProtect bool
}

func chipKey(chipID, deviceType byte) uint16 {
	return uint16(deviceType)<<8 | uint16(chipID)
}

var supportedChips = map[uint16]ChipDescriptor{
	// CH55x series (device type 0x11)
	chipKey(0x51, 0x11): {0x51, 0x11, "CH551", 10240, 128, 8, false},
	chipKey(0x52, 0x11): {0x52, 0x11, "CH552", 14336, 128, 8, false},
	chipKey(0x54, 0x11): {0x54, 0x11, "CH554", 14336, 128, 8, false},
	chipKey(0x58, 0x11): {0x58, 0x11, "CH558", 32768, 5120, 8, false},
	chipKey(0x59, 0x11): {0x59, 0x11, "CH559", 61440, 1024, 8, false},

	// CH57x BLE series (device type 0x13)
	chipKey(0x73, 0x13): {0x73, 0x13, "CH573", 458752, 32768, 8, false},
	chipKey(0x79, 0x13): {0x79, 0x13, "CH579", 256000, 2048, 8, false},

	// CH32F1 series (device type 0x14)
	chipKey(0x32, 0x14): {0x32, 0x14, "CH32F103C8T6", 65536, 0, 8, true},
	chipKey(0x3f, 0x14): {0x3f, 0x14, "CH32F103R8T6", 65536, 0, 8, true},

	// CH32V1 series (device type 0x15)
	chipKey(0x32, 0x15): {0x32, 0x15, "CH32V103C8T6", 65536, 0, 8, true},
	chipKey(0x3f, 0x15): {0x3f, 0x15, "CH32V103R8T6", 65536, 0, 8, true},

	// CH32V3 series (device type 0x17)
	chipKey(0x30, 0x17): {0x30, 0x17, "CH32V303CBT6", 131072, 0, 8, true},
	chipKey(0x70, 0x17): {0x70, 0x17, "CH32V307VCT6", 262144, 0, 8, true},

	// CH32V2 series (device type 0x19)
	chipKey(0x31, 0x19): {0x31, 0x19, "CH32V203C8T6", 65536, 0, 8, true},
	chipKey(0x81, 0x19): {0x81, 0x19, "CH32V208WBU6", 131072, 0, 8, true},
}

// FindChip looks up a chip descriptor by the two identification bytes from
// the identify response.
func FindChip(chipID, deviceType byte) (*ChipDescriptor, error) {
	if chip, ok := supportedChips[chipKey(chipID, deviceType)]; ok {
		return &chip, nil
	}
	return nil, &LookupError{ChipID: chipID, DeviceType: deviceType}
}
