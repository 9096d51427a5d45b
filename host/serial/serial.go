package serial

import (
	"errors"
	"io"
	"time"
)

// StdioDevice selects the process's own stdin/stdout instead of a device
const StdioDevice = "stdio"

var (
	ErrNoDevice = errors.New("serial device path is empty")
	ErrBadBaud  = errors.New("serial baud rate must be positive")
)

// Port is a byte stream the console can be attached to: a tarm/serial
// device, the process's stdio, or a test fake.
type Port interface {
	io.ReadWriteCloser

	// Flush discards data received but not yet read
	Flush() error
}

// Config describes the channel the console listens on
type Config struct {
	// Device path ("/dev/ttyACM0", "COM3") or StdioDevice
	Device string

	// Baud rate; USB CDC ignores it but it still paces overflow draining
	Baud int

	// ReadTimeout bounds each device read so Close is noticed (0 = blocking)
	ReadTimeout time.Duration
}

// DefaultConfig returns the console's default configuration for device
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100 * time.Millisecond,
	}
}

// Validate checks the fields Open relies on
func (c *Config) Validate() error {
	if c.Device == "" {
		return ErrNoDevice
	}
	if c.Device != StdioDevice && c.Baud <= 0 {
		return ErrBadBaud
	}
	return nil
}

// OpenDevice opens the port cfg names, falling back to stdio for StdioDevice
func OpenDevice(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Device == StdioDevice {
		return Stdio(), nil
	}
	port, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	return port, nil
}
