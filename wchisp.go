// Copyright 2023 The gowch Authors. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

// Package wchisp is a host-side programmer for the factory ISP bootloader of
// WCH microcontrollers. It identifies the connected chip, manages the code
// flash protection configuration and erases, flashes and verifies firmware
// images over a USB bulk or serial transport.
package wchisp

import (
	"fmt"
	"time"
)

// Session is a programming session with one bootloader device. It owns the
// transport exclusively; every operation is a synchronous request/response
// pair, none are re-entrant, and failures abort the operation without retry.
type Session struct {
	transport Transport
	timeout   time.Duration
	sink      TraceSink

	chip           *ChipDescriptor
	uid            []byte
	btver          [btverLength]byte
	flashProtected bool

	respBuf []byte
}

// Open claims the transport, identifies the connected chip and reads its
// unique id, bootloader version and protection state. The transport is
// closed again if any step fails.
func Open(transport Transport, opts ...Option) (*Session, error) {
	s := &Session{
		transport: transport,
		timeout:   defaultTimeout,
		sink:      logrusSink{},
		respBuf:   make([]byte, respBufferSize),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := transport.Claim(); err != nil {
		transport.Close()
		return nil, &TransportError{Op: "claim", Err: err}
	}

	if err := s.identify(); err != nil {
		transport.Close()
		return nil, err
	}
	if err := s.readDeviceInfo(); err != nil {
		transport.Close()
		return nil, err
	}

	logger.Infof("opened %s: flash %d KiB, bootloader v%s, protected=%v",
		s.chip.Name, s.chip.FlashSize/1024, s.BootloaderVersion(), s.flashProtected)
	return s, nil
}

// Close releases the transport. Idempotent.
func (s *Session) Close() error {
	return s.transport.Close()
}

// Chip returns the descriptor of the identified chip.
func (s *Session) Chip() *ChipDescriptor { return s.chip }

// UID returns a copy of the chip's unique id bytes.
func (s *Session) UID() []byte {
	uid := make([]byte, len(s.uid))
	copy(uid, s.uid)
	return uid
}

// BootloaderVersion renders the 4 raw version bytes in the vendor's
// "major.minor" form, e.g. "02.31".
func (s *Session) BootloaderVersion() string {
	return fmt.Sprintf("%d%d.%d%d", s.btver[0], s.btver[1], s.btver[2], s.btver[3])
}

// BootloaderVersionBytes returns the raw 4-byte bootloader version.
func (s *Session) BootloaderVersionBytes() [btverLength]byte { return s.btver }

// FlashProtected reports whether code flash read/write protection was active
// at the last configuration read.
func (s *Session) FlashProtected() bool { return s.flashProtected }

type response struct {
	status  byte
	payload []byte
}

// transfer is the single send/receive primitive all operations funnel
// through. It writes one command frame, reads one response frame, hands the
// raw bytes of a completed exchange to the trace sink and decodes the
// response.
func (s *Session) transfer(cmd ispCommand, payload []byte) (response, error) {
	frame := encodeCommand(cmd, payload)

	if _, err := s.transport.Write(frame, s.timeout); err != nil {
		return response{}, &TransportError{Op: "write " + cmd.String(), Err: err}
	}

	n, err := s.transport.Read(s.respBuf, s.timeout)
	if err != nil {
		return response{}, &TransportError{Op: "read " + cmd.String(), Err: err}
	}

	s.sink.Sent(frame)
	s.sink.Received(s.respBuf[:n])

	status, data, err := decodeResponse(cmd, s.respBuf[:n])
	if err != nil {
		return response{}, err
	}
	return response{status: status, payload: data}, nil
}

// identify asks the bootloader for its identification bytes and resolves
// them in the chip directory.
func (s *Session) identify() error {
	payload := make([]byte, 2, 2+len(identifyMagic))
	payload = append(payload, identifyMagic...)

	resp, err := s.transfer(cmdIdentify, payload)
	if err != nil {
		return err
	}
	if resp.status != statusOK || len(resp.payload) < 2 {
		return &ProtocolError{Command: "chip identification", Status: resp.status}
	}

	chip, err := FindChip(resp.payload[0], resp.payload[1])
	if err != nil {
		return err
	}

	s.chip = chip
	return nil
}

// readDeviceInfo slices unique id, bootloader version and protection marker
// out of one full configuration read.
func (s *Session) readDeviceInfo() error {
	cfg, err := s.ReadConfig(CfgMaskAll)
	if err != nil {
		return err
	}
	if len(cfg) < cfgAllMinLength {
		return &FramingError{Command: cmdReadConfig.String(), Length: len(cfg)}
	}

	copy(s.btver[:], cfg[cfgAllBTVEROffset:cfgAllBTVEROffset+btverLength])
	s.uid = make([]byte, uidLength)
	copy(s.uid, cfg[cfgAllUIDOffset:cfgAllUIDOffset+uidLength])

	return nil
}

// ReadConfig reads the configuration words selected by mask and returns the
// raw payload. Reads covering the protection registers refresh the session's
// protection flag.
func (s *Session) ReadConfig(mask uint16) ([]byte, error) {
	resp, err := s.transfer(cmdReadConfig, appendUint16LE(nil, mask))
	if err != nil {
		return nil, err
	}
	if resp.status != statusOK {
		return nil, &ProtocolError{Command: "read config", Status: resp.status}
	}

	if mask&CfgMaskRDPRUserDataWPR != 0 && s.chip != nil && len(resp.payload) > cfgOffRDPR {
		s.flashProtected = s.chip.SupportsCodeProtect && !configUnprotected(resp.payload)
	}

	payload := make([]byte, len(resp.payload))
	copy(payload, resp.payload)
	return payload, nil
}

// WriteConfig writes configuration words selected by mask.
func (s *Session) WriteConfig(mask uint16, data []byte) error {
	payload := appendUint16LE(make([]byte, 0, 2+len(data)), mask)
	payload = append(payload, data...)

	resp, err := s.transfer(cmdWriteConfig, payload)
	if err != nil {
		return err
	}
	if resp.status != statusOK {
		return &ProtocolError{Command: "write config", Status: resp.status}
	}
	return nil
}

// Flash programs image into code flash in obfuscated 56-byte chunks,
// terminated by one empty program command. The key is re-derived and
// re-exchanged on every call, mirroring the device side.
func (s *Session) Flash(image []byte) error {
	return s.flashChunks(cmdProgram, image)
}

// Verify replays the chunk sequence of Flash with verify commands and
// reports the first content mismatch.
func (s *Session) Verify(image []byte) error {
	return s.flashChunks(cmdVerify, image)
}

func (s *Session) flashChunks(cmd ispCommand, image []byte) error {
	key, checksum := deriveKey(s.uid, s.chip.ChipID)

	if err := s.exchangeKey(checksum); err != nil {
		return err
	}

	addr := uint32(0)
	for len(image) > 0 {
		n := len(image)
		if n > chunkSize {
			n = chunkSize
		}

		payload := appendUint32LE(make([]byte, 0, 4+n), addr)
		payload = append(payload, obfuscateChunk(image[:n], key)...)

		resp, err := s.transfer(cmd, payload)
		if err != nil {
			return err
		}

		switch cmd {
		case cmdProgram:
			if resp.status != statusOK {
				return &ProtocolError{
					Command: fmt.Sprintf("program at address 0x%04x", addr),
					Status:  resp.status,
				}
			}
		case cmdVerify:
			if resp.status != statusOK {
				return &ProtocolError{Command: "verify response", Status: resp.status}
			}
			if len(resp.payload) > 0 && resp.payload[0] != 0 {
				return &ChecksumMismatchError{
					Context: fmt.Sprintf("verify at address 0x%04x failed", addr),
					Want:    0,
					Got:     resp.payload[0],
				}
			}
		}

		addr += uint32(n)
		image = image[n:]
	}

	if cmd == cmdProgram {
		// empty chunk terminates the program sequence
		resp, err := s.transfer(cmdProgram, appendUint32LE(nil, addr))
		if err != nil {
			return err
		}
		if resp.status != statusOK {
			return &ProtocolError{
				Command: fmt.Sprintf("program at address 0x%04x", addr),
				Status:  resp.status,
			}
		}
	}

	return nil
}

// exchangeKey sends the zero-filled key seed and cross-checks the checksum
// byte the device derived against the local computation. A mismatch is fatal
// for the whole chunk sequence, no chunk is sent afterwards.
func (s *Session) exchangeKey(checksum byte) error {
	resp, err := s.transfer(cmdIspKey, make([]byte, keySeedLength))
	if err != nil {
		return err
	}
	if resp.status != statusOK || len(resp.payload) < 1 {
		return &ProtocolError{Command: "key exchange", Status: resp.status}
	}
	if resp.payload[0] != checksum {
		return &ChecksumMismatchError{
			Context: "key exchange failed",
			Want:    checksum,
			Got:     resp.payload[0],
		}
	}
	return nil
}

// EraseCode erases at least sectors code flash sectors, clamped up to the
// chip's minimum erase granule.
func (s *Session) EraseCode(sectors uint32) error {
	if sectors < s.chip.MinEraseSectors {
		sectors = s.chip.MinEraseSectors
	}

	resp, err := s.transfer(cmdErase, appendUint32LE(nil, sectors))
	if err != nil {
		return err
	}
	if resp.status != statusOK {
		return &ProtocolError{Command: "erase", Status: resp.status}
	}

	logger.Debugf("erased %d sectors", sectors)
	return nil
}

// EraseData would erase the data EEPROM region. The operation is not
// implemented by this programmer; chips without a data EEPROM get the
// capability error instead. No command is sent in either case.
func (s *Session) EraseData(sectors uint32) error {
	if s.chip.EEPROMSize == 0 {
		return ErrNoDataEEPROM
	}
	return &UnsupportedOperationError{Op: "data EEPROM erase"}
}

// UnProtect lifts code flash protection via a read-modify-write of the
// protection configuration. Without force it is a no-op when the chip is
// already unprotected.
func (s *Session) UnProtect(force bool) error {
	if !force && !s.flashProtected {
		return nil
	}

	cfg, err := s.ReadConfig(CfgMaskRDPRUserDataWPR)
	if err != nil {
		return err
	}
	if len(cfg) < protectConfigLength {
		return &FramingError{Command: cmdReadConfig.String(), Length: len(cfg)}
	}

	buf := make([]byte, protectConfigLength)
	copy(buf, cfg)
	applyUnprotect(buf)

	if err := s.WriteConfig(CfgMaskRDPRUserDataWPR, buf); err != nil {
		return err
	}

	s.flashProtected = false
	logger.Info("code flash protection lifted")
	return nil
}

// Reset ends the ISP session and reboots the chip into its application
// firmware.
func (s *Session) Reset() error {
	resp, err := s.transfer(cmdIspEnd, []byte{ispEndReboot})
	if err != nil {
		return err
	}
	if resp.status != statusOK {
		return &ProtocolError{Command: "isp_end", Status: resp.status}
	}
	return nil
}
