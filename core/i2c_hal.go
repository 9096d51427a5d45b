package core

import (
	"errors"

	"tinygo.org/x/drivers"
)

// Bus is the abstract I2C controller the console drives.
// TinyGo's machine.I2C and periph's i2c.Bus both satisfy it.
type Bus = drivers.I2C

// I2CAddress is a 7-bit I2C device address.
type I2CAddress uint8

const (
	// MinScanAddress and MaxScanAddress bound the bus scan (address 0 is general call)
	MinScanAddress I2CAddress = 0x01
	MaxScanAddress I2CAddress = 0x7F
)

// ErrAddressNACK is returned (or wrapped) by bus implementations when the
// addressed device did not acknowledge.
var ErrAddressNACK = errors.New("i2c: address not acknowledged")

// Prober is implemented by buses that need a specific transaction to detect
// a device. Buses without it are probed with a zero-length Tx.
type Prober interface {
	Probe(addr uint16) error
}

// IsAddressNACK reports whether err signals an address NACK.
// Errors may also opt in by implementing AddressNACK() bool.
func IsAddressNACK(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAddressNACK) {
		return true
	}
	var nack interface{ AddressNACK() bool }
	if errors.As(err, &nack) {
		return nack.AddressNACK()
	}
	return false
}

// probe issues the scan transaction for addr
func probe(bus Bus, addr I2CAddress) error {
	if p, ok := bus.(Prober); ok {
		return p.Probe(uint16(addr))
	}
	return bus.Tx(uint16(addr), nil, nil)
}
