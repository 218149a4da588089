// Copyright 2023 The gowch Authors. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

// protocol constants of the WCH ISP bootloader (v2.x command set)

package wchisp

import "time"

type ispCommand byte

const (
	cmdIdentify    ispCommand = 0xa1
	cmdIspEnd      ispCommand = 0xa2
	cmdIspKey      ispCommand = 0xa3
	cmdErase       ispCommand = 0xa4
	cmdProgram     ispCommand = 0xa5
	cmdVerify      ispCommand = 0xa6
	cmdReadConfig  ispCommand = 0xa7
	cmdWriteConfig ispCommand = 0xa8
	cmdDataErase   ispCommand = 0xa9
)

func (c ispCommand) String() string {
	switch c {
	case cmdIdentify:
		return "identify"
	case cmdIspEnd:
		return "isp_end"
	case cmdIspKey:
		return "isp_key"
	case cmdErase:
		return "erase"
	case cmdProgram:
		return "program"
	case cmdVerify:
		return "verify"
	case cmdReadConfig:
		return "read_config"
	case cmdWriteConfig:
		return "write_config"
	case cmdDataErase:
		return "data_erase"
	}
	return "unknown"
}

// frame layout
const (
	cmdHeaderSize  = 3 // command byte + u16 payload length
	respHeaderSize = 4 // command byte + status byte + u16 payload length

	statusOK = 0x00

	respBufferSize = 64 // one bulk packet
)

// the bootloader answers the identify command only when this magic follows
// the two identification bytes
const identifyMagic = "MCU ISP & WCH.CN"

// configuration bit masks for read_config/write_config
const (
	CfgMaskRDPRUserDataWPR uint16 = 0x07 // RDPR, USER, DATA and WRPR registers
	CfgMaskBTVER           uint16 = 0x08 // bootloader version
	CfgMaskUID             uint16 = 0x10 // chip unique id
	CfgMaskAll             uint16 = 0x1f
)

// layout of the protect-relevant config slice (CfgMaskRDPRUserDataWPR)
const (
	cfgOffRDPR = 0 // read protection marker
	cfgOffUser = 1 // marker complement
	cfgOffWRPR = 4 // write protection mask, one bit per sector group
	wrprLength = 4

	protectConfigLength = 8

	cfgUnlockSentinel     = 0xa5
	cfgUnlockSentinelPair = 0x5a
)

// layout of the full config payload (CfgMaskAll): protect config words,
// then bootloader version, then the chip unique id
const (
	cfgAllBTVEROffset = protectConfigLength
	btverLength       = 4
	cfgAllUIDOffset   = cfgAllBTVEROffset + btverLength
	uidLength         = 8
	cfgAllMinLength   = cfgAllUIDOffset + uidLength
)

// chunked program/verify parameters
const (
	chunkSize     = 56 // multiple of xorKeySize, keeps per-chunk keystreams aligned
	xorKeySize    = 8
	keySeedLength = 30 // zero-filled isp_key parameter block

	ispEndReboot = 0x01 // isp_end parameter: reboot into application firmware
)

// usb identification of the WCH bootloader
const (
	wchProductID = 0x55e0

	usbOutEndpointNum = 2
	usbInEndpointNum  = 2
)

const defaultTimeout = 1000 * time.Millisecond
