// Copyright 2023 The gowch Authors. All rights reserved.
// Use of this source code is governed by a GNU-style
// license that can be found in the LICENSE file.

package wchisp

import (
	"context"
	"errors"
	"time"

	"github.com/google/gousb"
	"github.com/hashicorp/go-multierror"
)

// vendor ids the WCH bootloader enumerates with, product id is always 0x55e0
var wchVendorIDs = []gousb.ID{0x4348, 0x1a86}

var usbCtx *gousb.Context

// InitializeUSB sets up the shared libusb context. Must be called once before
// OpenUSB.
func InitializeUSB() error {
	if usbCtx != nil {
		logger.Warn("usb context already initialized")
		return nil
	}

	usbCtx = gousb.NewContext()
	logger.Debug("initialized libusb context")
	return nil
}

// CloseUSB tears down the shared libusb context. All transports obtained
// from OpenUSB must be closed first.
func CloseUSB() {
	if usbCtx != nil {
		usbCtx.Close()
		usbCtx = nil
	} else {
		logger.Warn("could not close uninitialized usb context")
	}
}

func usbFindDevices() ([]*gousb.Device, error) {
	devices, err := usbCtx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		if desc.Product != wchProductID {
			return false
		}
		for _, vid := range wchVendorIDs {
			if desc.Vendor == vid {
				logger.Infof("found WCH bootloader [%04x:%04x] on bus %03d:%03d",
					uint16(desc.Vendor), uint16(desc.Product), desc.Bus, desc.Address)
				return true
			}
		}
		return false
	})

	if err != nil {
		for _, dev := range devices {
			dev.Close()
		}
		return nil, err
	}
	return devices, nil
}

// usbTransport drives the bootloader over a single bulk OUT/IN endpoint pair.
type usbTransport struct {
	device *gousb.Device
	config *gousb.Config
	intf   *gousb.Interface
	out    *gousb.OutEndpoint
	in     *gousb.InEndpoint
}

// OpenUSB opens the single connected WCH bootloader device. More than one
// connected device is an error, the bootloader exposes no serial number to
// tell them apart.
func OpenUSB() (Transport, error) {
	if usbCtx == nil {
		return nil, errors.New("usb context not initialized, call InitializeUSB first")
	}

	devices, err := usbFindDevices()
	if err != nil {
		return nil, err
	}

	if len(devices) == 0 {
		return nil, errors.New("no WCH bootloader device found, check cable and bootloader mode")
	}
	if len(devices) > 1 {
		for _, dev := range devices {
			dev.Close()
		}
		return nil, errors.New("more than one WCH bootloader connected, attach a single device")
	}

	return &usbTransport{device: devices[0]}, nil
}

func (t *usbTransport) Claim() error {
	var err error

	if err = t.device.SetAutoDetach(true); err != nil {
		return err
	}

	t.config, err = t.device.Config(1)
	if err != nil {
		return err
	}

	t.intf, err = t.config.Interface(0, 0)
	if err != nil {
		return err
	}

	t.out, err = t.intf.OutEndpoint(usbOutEndpointNum)
	if err != nil {
		return err
	}

	t.in, err = t.intf.InEndpoint(usbInEndpointNum)
	if err != nil {
		return err
	}

	logger.Debugf("claimed bulk endpoints out=%d in=%d", usbOutEndpointNum, usbInEndpointNum)
	return nil
}

func (t *usbTransport) Write(p []byte, timeout time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return t.out.WriteContext(ctx, p)
}

func (t *usbTransport) Read(p []byte, timeout time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return t.in.ReadContext(ctx, p)
}

// Close releases the interface, then the configuration, then the device
// handle, in that order. Safe after a partially failed Claim and on repeated
// calls.
func (t *usbTransport) Close() error {
	var result *multierror.Error

	if t.intf != nil {
		t.intf.Close()
		t.intf = nil
	}
	if t.config != nil {
		result = multierror.Append(result, t.config.Close())
		t.config = nil
	}
	if t.device != nil {
		result = multierror.Append(result, t.device.Close())
		t.device = nil
	}

	return result.ErrorOrNil()
}
