// Copyright 2023 The gowch Authors. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gowch/wchisp"
)

var flashCmd = &cobra.Command{
	Use:   "flash [image]",
	Short: "Erase, program and verify a firmware image",
	Long: `Loads a firmware image (.hex, .ihx or raw binary), lifts code flash
protection if needed, erases enough sectors to hold it, programs it and
verifies the result, then reboots into the application.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		image, err := wchisp.LoadFirmware(args[0])
		if err != nil {
			return err
		}

		session, cleanup, err := openSession()
		if err != nil {
			return err
		}
		defer cleanup()

		chip := session.Chip()
		if uint32(len(image)) > chip.FlashSize {
			return fmt.Errorf("image of %d bytes exceeds %s flash size of %d bytes",
				len(image), chip.Name, chip.FlashSize)
		}

		if err := session.UnProtect(false); err != nil {
			return err
		}
		if err := session.EraseCode(sectorsFor(len(image))); err != nil {
			return err
		}

		log.Infof("programming %d bytes", len(image))
		if err := session.Flash(image); err != nil {
			return err
		}

		if !flagNoVerify {
			if err := session.Verify(image); err != nil {
				return err
			}
			log.Info("verified OK")
		}

		if flagNoReset {
			return nil
		}
		return session.Reset()
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify [image]",
	Short: "Verify code flash against a firmware image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		image, err := wchisp.LoadFirmware(args[0])
		if err != nil {
			return err
		}

		session, cleanup, err := openSession()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := session.Verify(image); err != nil {
			return err
		}
		log.Infof("%d bytes verified OK", len(image))
		return nil
	},
}

var eraseCmd = &cobra.Command{
	Use:   "erase [sectors]",
	Short: "Erase code flash sectors",
	Long:  "Erases the given number of 1 KiB code flash sectors, clamped up to the chip's minimum erase granule. Without an argument the whole code flash is erased.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, cleanup, err := openSession()
		if err != nil {
			return err
		}
		defer cleanup()

		sectors := sectorsFor(int(session.Chip().FlashSize))
		if len(args) == 1 {
			n, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid sector count %q", args[0])
			}
			sectors = uint32(n)
		}

		if err := session.UnProtect(false); err != nil {
			return err
		}
		return session.EraseCode(sectors)
	},
}

// sectorsFor converts an image length to 1 KiB erase sectors, rounding up.
func sectorsFor(imageLen int) uint32 {
	return uint32((imageLen + 1023) / 1024)
}
