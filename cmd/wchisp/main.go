// Copyright 2023 The gowch Authors. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/gowch/wchisp"
)

var (
	flagVerbose    bool
	flagSerialPort string
	flagForce      bool
	flagNoVerify   bool
	flagNoReset    bool

	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "wchisp",
	Short: "wchisp programs WCH microcontrollers over their factory ISP bootloader",
	Long: `wchisp talks to the factory ISP bootloader of WCH microcontrollers
(CH55x, CH57x, CH32F/V families) over USB or a serial port to identify the
chip, lift code flash protection and erase, flash and verify firmware.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger()
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Trace raw ISP frames")
	rootCmd.PersistentFlags().StringVarP(&flagSerialPort, "serial-port", "p", "", "Use the bootloader UART on this port instead of USB")
	flashCmd.Flags().BoolVar(&flagNoVerify, "no-verify", false, "Skip verification after programming")
	flashCmd.Flags().BoolVar(&flagNoReset, "no-reset", false, "Stay in the bootloader after programming")
	unprotectCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "Rewrite the protection config even if already unprotected")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(flashCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(eraseCmd)
	rootCmd.AddCommand(unprotectCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(resetCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initLogger() {
	formatter := &prefixed.TextFormatter{
		DisableColors:   false,
		TimestampFormat: "15:04:05.000",
		FullTimestamp:   true,
		ForceFormatting: true,
	}

	log.SetFormatter(formatter)
	if flagVerbose {
		log.SetLevel(logrus.TraceLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	wchisp.SetLogger(log)
}

// openSession opens the configured transport and a programming session on
// it. The returned cleanup releases the session and, for USB, the shared
// context.
func openSession() (*wchisp.Session, func(), error) {
	var (
		transport wchisp.Transport
		err       error
		usb       bool
	)

	if flagSerialPort != "" {
		transport, err = wchisp.OpenSerial(flagSerialPort)
	} else {
		if err = wchisp.InitializeUSB(); err != nil {
			return nil, nil, err
		}
		transport, err = wchisp.OpenUSB()
		usb = true
	}
	if err != nil {
		if usb {
			wchisp.CloseUSB()
		}
		return nil, nil, err
	}

	session, err := wchisp.Open(transport)
	if err != nil {
		if usb {
			wchisp.CloseUSB()
		}
		return nil, nil, err
	}

	cleanup := func() {
		session.Close()
		if usb {
			wchisp.CloseUSB()
		}
	}
	return session, cleanup, nil
}
