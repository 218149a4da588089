// Copyright 2023 The gowch Authors. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package wchisp

import (
	"strings"
	"testing"
)

func TestRenderConfigReport(t *testing.T) {
	chip, err := FindChip(0x52, 0x11)
	if err != nil {
		t.Fatal(err)
	}

	uid := []byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88}
	cfg := []byte{0xa5, 0x5a, 0xff, 0xff, 0xfe, 0xff, 0xff, 0xff}

	report := RenderConfigReport(chip, uid, "02.31", false, cfg)

	for _, want := range []string{
		"CH552",
		"1122334455667788",
		"02.31",
		"read protection disabled",
		"sector groups: [0]",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestRenderConfigReportWithoutConfig(t *testing.T) {
	chip, err := FindChip(0x70, 0x17)
	if err != nil {
		t.Fatal(err)
	}

	report := RenderConfigReport(chip, nil, "02.70", true, nil)
	if !strings.Contains(report, "flash protected:    true") {
		t.Errorf("report missing protection flag:\n%s", report)
	}
	if strings.Contains(report, "RDPR") {
		t.Errorf("register lines rendered without a config payload:\n%s", report)
	}
}
