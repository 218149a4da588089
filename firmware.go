// Copyright 2023 The gowch Authors. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package wchisp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcinbor85/gohex"
)

// LoadFirmware reads a firmware image from path. Intel HEX files (.hex,
// .ihx) are flattened relative to their lowest segment address with gaps
// filled by 0xff; anything else is taken as a raw binary image.
func LoadFirmware(path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hex", ".ihx":
		return loadIntelHex(path)
	default:
		return os.ReadFile(path)
	}
}

func loadIntelHex(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(file); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	segments := mem.GetDataSegments()
	if len(segments) == 0 {
		return nil, fmt.Errorf("%s contains no data records", path)
	}

	base := segments[0].Address
	end := base
	for _, seg := range segments {
		if seg.Address < base {
			base = seg.Address
		}
		if segEnd := seg.Address + uint32(len(seg.Data)); segEnd > end {
			end = segEnd
		}
	}

	image := make([]byte, end-base)
	for i := range image {
		image[i] = 0xff
	}
	for _, seg := range segments {
		copy(image[seg.Address-base:], seg.Data)
	}

	logger.Debugf("loaded %d bytes from %s (base address 0x%04x)", len(image), path, base)
	return image, nil
}
