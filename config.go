// Copyright 2023 The gowch Authors. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package wchisp

import (
	"github.com/boljen/go-bitmap"
)

// configUnprotected reports whether the read protection marker of a protect
// config slice carries the unlocked sentinel.
func configUnprotected(cfg []byte) bool {
	return cfg[cfgOffRDPR] == cfgUnlockSentinel
}

// applyUnprotect rewrites a protect config slice in place to the fully
// unprotected state: unlock sentinel pair in the marker bytes, all-ones
// write protection mask.
func applyUnprotect(cfg []byte) {
	cfg[cfgOffRDPR] = cfgUnlockSentinel
	cfg[cfgOffUser] = cfgUnlockSentinelPair
	for i := cfgOffWRPR; i < cfgOffWRPR+wrprLength; i++ {
		cfg[i] = 0xff
	}
}

// ProtectedSectors decodes the write protection mask of a protect config
// slice. A cleared bit write-protects the corresponding sector group.
func ProtectedSectors(cfg []byte) []int {
	if len(cfg) < cfgOffWRPR+wrprLength {
		return nil
	}

	mask := bitmap.Bitmap(cfg[cfgOffWRPR : cfgOffWRPR+wrprLength])

	var sectors []int
	for i := 0; i < wrprLength*8; i++ {
		if !mask.Get(i) {
			sectors = append(sectors, i)
		}
	}
	return sectors
}
