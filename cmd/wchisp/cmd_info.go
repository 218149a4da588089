// Copyright 2023 The gowch Authors. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gowch/wchisp"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Identify the connected chip and show its configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, cleanup, err := openSession()
		if err != nil {
			return err
		}
		defer cleanup()

		cfg, err := session.ReadConfig(wchisp.CfgMaskRDPRUserDataWPR)
		if err != nil {
			return err
		}

		fmt.Print(wchisp.RenderConfigReport(
			session.Chip(), session.UID(), session.BootloaderVersion(),
			session.FlashProtected(), cfg))
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Dump the raw configuration payload",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, cleanup, err := openSession()
		if err != nil {
			return err
		}
		defer cleanup()

		cfg, err := session.ReadConfig(wchisp.CfgMaskAll)
		if err != nil {
			return err
		}

		fmt.Println(hex.EncodeToString(cfg))
		return nil
	},
}

var unprotectCmd = &cobra.Command{
	Use:   "unprotect",
	Short: "Lift code flash read/write protection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, cleanup, err := openSession()
		if err != nil {
			return err
		}
		defer cleanup()

		if !flagForce && !session.FlashProtected() {
			log.Info("code flash already unprotected")
			return nil
		}
		return session.UnProtect(flagForce)
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reboot the chip into its application firmware",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, cleanup, err := openSession()
		if err != nil {
			return err
		}
		defer cleanup()

		return session.Reset()
	},
}
