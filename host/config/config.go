// Package config loads the host console's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vulcu/terminal-commander/core"
	"github.com/vulcu/terminal-commander/host/serial"
)

// DeviceStdio runs the console on the process's own stdin/stdout
const DeviceStdio = serial.StdioDevice

// Bus drivers
const (
	DriverNone   = "none"
	DriverSim    = "sim"
	DriverPeriph = "periph"
)

type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Bus     BusConfig     `yaml:"bus"`
	Console ConsoleConfig `yaml:"console"`
	Log     LogConfig     `yaml:"log"`
}

// ---- SERIAL ----

type SerialConfig struct {
	Device        string `yaml:"device"` // tty path or "stdio"
	Baud          int    `yaml:"baud"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
}

// ---- BUS ----

type BusConfig struct {
	Driver   string `yaml:"driver"` // none, sim or periph
	Name     string `yaml:"name"`   // periph bus name, "" for the first bus
	SpeedKHz int    `yaml:"speed_khz"`

	// Devices populate the simulated bus
	Devices []SimDeviceConfig `yaml:"devices"`
}

type SimDeviceConfig struct {
	Address   uint8           `yaml:"address"`
	Registers map[uint8]uint8 `yaml:"registers"`
}

// ---- CONSOLE ----

type ConsoleConfig struct {
	BufferSize        int     `yaml:"buffer_size"`
	TwoWireBufferSize int     `yaml:"twowire_buffer_size"`
	ErrorMessageSize  int     `yaml:"error_message_size"`
	MaxUserCommands   int     `yaml:"max_user_commands"`
	Delimiter         string  `yaml:"delimiter"`
	LineEnding        string  `yaml:"line_ending"`
	Echo              bool    `yaml:"echo"`
	Prompt            *string `yaml:"prompt"`
	BusDelayUs        int     `yaml:"bus_delay_us"`
	PollIntervalMs    int     `yaml:"poll_interval_ms"`
}

// ---- LOG ----

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`

	// Debug routes the console's internal trace into the log
	Debug bool `yaml:"debug"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Device:        DeviceStdio,
			Baud:          core.DefaultBaudRate,
			ReadTimeoutMs: 100,
		},
		Bus: BusConfig{
			Driver:   DriverSim,
			SpeedKHz: 100,
		},
		Console: ConsoleConfig{
			BufferSize:        core.DefaultBufferSize,
			TwoWireBufferSize: core.DefaultTwoWireBufferSize,
			ErrorMessageSize:  core.DefaultBufferSize,
			MaxUserCommands:   core.DefaultMaxUserCommands,
			Delimiter:         string(rune(core.DefaultDelimiter)),
			LineEnding:        string(rune(core.DefaultLineEnding)),
			BusDelayUs:        int(core.DefaultBusDelay / time.Microsecond),
			PollIntervalMs:    5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config %s: %w", path, err)
	}
	defer f.Close()

	cfg := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			// empty file
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks configuration correctness.
// It performs declarative validation only and does not mutate cfg.
func Validate(cfg *Config) error {
	if cfg.Serial.Device == "" {
		return errors.New("serial: device is required")
	}
	if cfg.Serial.Device != DeviceStdio && cfg.Serial.Baud <= 0 {
		return fmt.Errorf("serial: baud must be positive, got %d", cfg.Serial.Baud)
	}
	if cfg.Serial.ReadTimeoutMs < 0 {
		return fmt.Errorf("serial: read_timeout_ms must not be negative, got %d", cfg.Serial.ReadTimeoutMs)
	}

	switch cfg.Bus.Driver {
	case DriverNone, DriverPeriph:
		if len(cfg.Bus.Devices) > 0 {
			return fmt.Errorf("bus: devices are only used by the %q driver", DriverSim)
		}
	case DriverSim:
		seen := make(map[uint8]bool)
		for _, d := range cfg.Bus.Devices {
			if d.Address < uint8(core.MinScanAddress) || d.Address > uint8(core.MaxScanAddress) {
				return fmt.Errorf("bus: device address %#x outside the 7-bit range", d.Address)
			}
			if seen[d.Address] {
				return fmt.Errorf("bus: device address %#x listed twice", d.Address)
			}
			seen[d.Address] = true
			for reg := range d.Registers {
				if reg == 0xFF {
					return fmt.Errorf("bus: device %#x register %#x outside the register map", d.Address, reg)
				}
			}
		}
	default:
		return fmt.Errorf("bus: unknown driver %q", cfg.Bus.Driver)
	}
	if cfg.Bus.SpeedKHz < 0 {
		return fmt.Errorf("bus: speed_khz must not be negative, got %d", cfg.Bus.SpeedKHz)
	}

	if cfg.Console.PollIntervalMs <= 0 {
		return fmt.Errorf("console: poll_interval_ms must be positive, got %d", cfg.Console.PollIntervalMs)
	}
	if _, err := cfg.Console.CoreConfig(cfg.Serial.Baud); err != nil {
		return fmt.Errorf("console: %w", err)
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: unknown level %q", cfg.Log.Level)
	}
	return nil
}

// CoreConfig converts the console section into a validated core.Config.
// baud sets the per-character wait used after an overflow.
func (c ConsoleConfig) CoreConfig(baud int) (core.Config, error) {
	delim, err := singleByte("delimiter", c.Delimiter)
	if err != nil {
		return core.Config{}, err
	}
	ending, err := singleByte("line_ending", c.LineEnding)
	if err != nil {
		return core.Config{}, err
	}
	if c.BusDelayUs < 0 {
		return core.Config{}, fmt.Errorf("bus_delay_us must not be negative, got %d", c.BusDelayUs)
	}

	cfg := core.DefaultConfig()
	cfg.BufferSize = c.BufferSize
	cfg.TwoWireBufferSize = c.TwoWireBufferSize
	cfg.ErrorMessageSize = c.ErrorMessageSize
	cfg.MaxUserCommands = c.MaxUserCommands
	cfg.Delimiter = delim
	cfg.LineEnding = ending
	cfg.Echo = c.Echo
	if c.Prompt != nil {
		cfg.Prompt = *c.Prompt
	}
	cfg.CharDelay = core.CharDelayForBaud(baud)
	cfg.BusDelay = time.Duration(c.BusDelayUs) * time.Microsecond

	if err := cfg.Validate(); err != nil {
		return core.Config{}, err
	}
	return cfg, nil
}

// PollInterval returns the service loop period
func (c ConsoleConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

func singleByte(name, s string) (byte, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("%s must be a single byte, got %q", name, s)
	}
	return s[0], nil
}
