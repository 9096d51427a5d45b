package serial

import (
	"errors"
	"fmt"
	"io"

	"github.com/tarm/serial"
)

// ErrNilConfig is returned by Open without a configuration
var ErrNilConfig = errors.New("serial config cannot be nil")

// NativePort is a physical or USB CDC device opened through tarm/serial
type NativePort struct {
	port   *serial.Port
	device string
}

// Open opens the device and drops anything the OS buffered before the
// console attached, so a stale half line is not parsed as a command
func Open(cfg *Config) (*NativePort, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	if err := port.Flush(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to flush serial port %s: %w", cfg.Device, err)
	}

	return &NativePort{port: port, device: cfg.Device}, nil
}

// Read reads from the device. tarm/serial reports an expired read timeout
// as (0, io.EOF) on POSIX systems; a device has no end of stream, so that
// is returned as an empty read.
func (p *NativePort) Read(b []byte) (int, error) {
	n, err := p.port.Read(b)
	if n == 0 && errors.Is(err, io.EOF) {
		return 0, nil
	}
	return n, err
}

func (p *NativePort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Close releases the device; a pending Read returns within ReadTimeout
func (p *NativePort) Close() error {
	return p.port.Close()
}

// Flush discards unread input and untransmitted output
func (p *NativePort) Flush() error {
	return p.port.Flush()
}

// Device returns the device path the port was opened with
func (p *NativePort) Device() string {
	return p.device
}
