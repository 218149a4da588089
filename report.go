// Copyright 2023 The gowch Authors. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package wchisp

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// configRegister describes one protect-config byte for human-readable
// reporting. Static reference data, not consulted by the protocol core.
type configRegister struct {
	offset   int
	name     string
	describe func(b byte) string
}

var protectRegisters = []configRegister{
	{cfgOffRDPR, "RDPR", func(b byte) string {
		if b == cfgUnlockSentinel {
			return "read protection disabled"
		}
		return "read protection enabled"
	}},
	{cfgOffUser, "USER", func(b byte) string {
		if b == cfgUnlockSentinelPair {
			return "marker complement set"
		}
		return fmt.Sprintf("0x%02x", b)
	}},
	{2, "DATA0", func(b byte) string { return fmt.Sprintf("0x%02x", b) }},
	{3, "DATA1", func(b byte) string { return fmt.Sprintf("0x%02x", b) }},
}

// RenderConfigReport formats the session state and a raw protect config
// payload as human-readable text.
func RenderConfigReport(chip *ChipDescriptor, uid []byte, btver string, protected bool, cfg []byte) string {
	var b strings.Builder

	fmt.Fprintf(&b, "chip:               %s (id 0x%02x, type 0x%02x)\n",
		chip.Name, chip.ChipID, chip.DeviceType)
	fmt.Fprintf(&b, "code flash:         %d KiB\n", chip.FlashSize/1024)
	if chip.EEPROMSize > 0 {
		fmt.Fprintf(&b, "data EEPROM:        %d bytes\n", chip.EEPROMSize)
	} else {
		fmt.Fprintf(&b, "data EEPROM:        none\n")
	}
	fmt.Fprintf(&b, "unique id:          %s\n", hex.EncodeToString(uid))
	fmt.Fprintf(&b, "bootloader version: %s\n", btver)
	fmt.Fprintf(&b, "flash protected:    %v\n", protected)

	if len(cfg) >= protectConfigLength {
		for _, reg := range protectRegisters {
			fmt.Fprintf(&b, "%-6s 0x%02x  %s\n", reg.name, cfg[reg.offset], reg.describe(cfg[reg.offset]))
		}
		if sectors := ProtectedSectors(cfg); len(sectors) > 0 {
			fmt.Fprintf(&b, "WRPR   write-protected sector groups: %v\n", sectors)
		} else {
			fmt.Fprintf(&b, "WRPR   no sector groups write-protected\n")
		}
	}

	return b.String()
}
