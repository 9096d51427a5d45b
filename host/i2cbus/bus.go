// Package i2cbus exposes a Linux I2C adapter through periph.io as the
// console's bus.
package i2cbus

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/vulcu/terminal-commander/core"
)

// DefaultSpeed is the standard-mode I2C clock
const DefaultSpeed = 100 * physic.KiloHertz

// nackMessages are the errno texts the kernel i2c-dev driver returns when
// the addressed device does not acknowledge. periph formats them with %v,
// so they can only be matched by text.
var nackMessages = []string{
	"remote I/O error",
	"no such device or address",
}

// Bus wraps a periph I2C bus
type Bus struct {
	bus    i2c.Bus
	closer func() error
	logger *zap.Logger
}

// Open initializes periph's host drivers and opens the named bus ("" opens
// the first one). A speed of 0 leaves the adapter's clock unchanged.
func Open(name string, speed physic.Frequency, logger *zap.Logger) (*Bus, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	bc, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %q: %w", name, err)
	}

	b := &Bus{bus: bc, closer: bc.Close, logger: logger}
	if speed > 0 {
		// many adapters fix their clock in the device tree
		if err := bc.SetSpeed(speed); err != nil {
			logger.Warn("i2c speed not applied", zap.String("bus", bc.String()), zap.Stringer("speed", speed), zap.Error(err))
		}
	}

	logger.Info("i2c bus opened", zap.String("bus", bc.String()))
	return b, nil
}

// New wraps an already open periph bus. The caller keeps ownership.
func New(bus i2c.Bus, logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{bus: bus, logger: logger}
}

// Tx performs one write-then-read transaction.
// An unacknowledged address is reported as core.ErrAddressNACK.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	return classify(b.bus.Tx(addr, w, r))
}

// Probe detects a device with a one byte read. i2c-dev skips transactions
// with nothing to transfer, so an empty Tx would always succeed.
func (b *Bus) Probe(addr uint16) error {
	var buf [1]byte
	return classify(b.bus.Tx(addr, nil, buf[:]))
}

// Close releases the bus if it was opened by Open
func (b *Bus) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer()
}

func (b *Bus) String() string {
	return b.bus.String()
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	for _, s := range nackMessages {
		if strings.Contains(msg, s) {
			return fmt.Errorf("%w: %v", core.ErrAddressNACK, err)
		}
	}
	return err
}
