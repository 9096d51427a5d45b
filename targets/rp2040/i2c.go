//go:build rp2040 || rp2350

package main

import (
	"machine"
	"strings"

	"github.com/vulcu/terminal-commander/core"
)

// consoleI2C adapts machine.I2C to the console bus, reporting an
// unacknowledged address as core.ErrAddressNACK
type consoleI2C struct {
	bus *machine.I2C
}

// configureI2C initializes I2C0 on its default pins (SDA=GP4, SCL=GP5)
func configureI2C(frequencyHz uint32) (*consoleI2C, error) {
	i2c := machine.I2C0
	err := i2c.Configure(machine.I2CConfig{
		Frequency: frequencyHz,
	})
	if err != nil {
		return nil, err
	}
	return &consoleI2C{bus: i2c}, nil
}

// Tx runs one transaction; the write and read are joined by a restart
func (c *consoleI2C) Tx(addr uint16, w, r []byte) error {
	return classify(c.bus.Tx(addr, w, r))
}

// Probe detects a device with a one byte read; the controller cannot
// issue an address-only transfer
func (c *consoleI2C) Probe(addr uint16) error {
	var buf [1]byte
	return classify(c.bus.Tx(addr, nil, buf[:]))
}

// classify maps the controller's abort errors onto ErrAddressNACK.
// The abort reason is only exposed through the error text.
func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "noack") || strings.Contains(msg, "no ack") || strings.Contains(msg, "nack") {
		return nackError{err}
	}
	return err
}

// nackError keeps the controller's message while satisfying core.IsAddressNACK
type nackError struct {
	err error
}

func (e nackError) Error() string     { return e.err.Error() }
func (e nackError) Unwrap() error     { return e.err }
func (e nackError) AddressNACK() bool { return true }

var _ core.Bus = (*consoleI2C)(nil)
var _ core.Prober = (*consoleI2C)(nil)
