// Package simbus is an in-memory I2C bus for running the console without
// hardware. Devices are register maps with an auto-incrementing register
// pointer, the way most I2C sensors and EEPROMs behave.
package simbus

import (
	"errors"
	"fmt"
	"sync"

	"tinygo.org/x/drivers/tester"

	"github.com/vulcu/terminal-commander/core"
)

var (
	ErrDuplicateDevice = errors.New("simbus: device already present at address")
	ErrInvalidAddress  = errors.New("simbus: address outside the 7-bit range")
	ErrRegisterRange   = errors.New("simbus: register outside the device map")
)

// Device is a simulated register-map peripheral
type Device struct {
	*tester.I2CDevice8

	// pointer is the register the next read or write uses
	pointer uint8
}

// Pointer returns the current register pointer
func (d *Device) Pointer() uint8 {
	return d.pointer
}

func (d *Device) advance() {
	d.pointer++
	if int(d.pointer) >= tester.MaxRegisters {
		d.pointer = 0
	}
}

// Bus routes transactions to simulated devices.
// It is safe for concurrent use.
type Bus struct {
	mu      sync.Mutex
	failer  tester.Failer
	devices map[uint8]*Device
	txCount int
}

// New creates an empty bus. f receives misuse reports from the register
// maps; nil panics instead.
func New(f tester.Failer) *Bus {
	if f == nil {
		f = panicFailer{}
	}
	return &Bus{
		failer:  f,
		devices: make(map[uint8]*Device),
	}
}

// AddDevice attaches a device at addr with all registers zeroed
func (b *Bus) AddDevice(addr uint8) (*Device, error) {
	if addr == 0 || addr > uint8(core.MaxScanAddress) {
		return nil, fmt.Errorf("%w: %#x", ErrInvalidAddress, addr)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.devices[addr]; ok {
		return nil, fmt.Errorf("%w: %#x", ErrDuplicateDevice, addr)
	}
	d := &Device{I2CDevice8: tester.NewI2CDevice8(b.failer, addr)}
	b.devices[addr] = d
	return d, nil
}

// Device returns the device at addr
func (b *Bus) Device(addr uint8) (*Device, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.devices[addr]
	return d, ok
}

// Len returns the number of attached devices
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.devices)
}

// TxCount returns the number of transactions that reached a device
func (b *Bus) TxCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.txCount
}

// Tx writes w starting at the register named by w[0], then reads len(r)
// bytes from the register pointer. Both directions advance the pointer.
// An empty transaction only checks that the device is present.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	d, ok := b.devices[uint8(addr)]
	if !ok || addr > uint16(core.MaxScanAddress) {
		return fmt.Errorf("%w: %#x", core.ErrAddressNACK, addr)
	}
	if d.Err != nil {
		return d.Err
	}
	b.txCount++

	if len(w) > 0 {
		if int(w[0]) >= tester.MaxRegisters {
			return fmt.Errorf("%w: %#x", ErrRegisterRange, w[0])
		}
		d.pointer = w[0]
		for _, v := range w[1:] {
			d.Registers[d.pointer] = v
			d.advance()
		}
	}
	for i := range r {
		r[i] = d.Registers[d.pointer]
		d.advance()
	}
	return nil
}

func (b *Bus) String() string {
	return "simbus"
}

type panicFailer struct{}

func (panicFailer) Fatalf(format string, args ...interface{}) {
	panic(fmt.Sprintf(format, args...))
}
