package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vulcu/terminal-commander/core"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "termcmd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	cc, err := cfg.Console.CoreConfig(cfg.Serial.Baud)
	require.NoError(t, err)
	require.Equal(t, core.DefaultBufferSize, cc.BufferSize)
	require.Equal(t, byte(' '), cc.Delimiter)
	require.Equal(t, byte('\n'), cc.LineEnding)
	require.Equal(t, core.DefaultPrompt, cc.Prompt)
	require.Equal(t, core.DefaultBusDelay, cc.BusDelay)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
serial:
  device: /dev/ttyACM0
  baud: 9600
bus:
  driver: sim
  devices:
    - address: 0x50
      registers:
        0x00: 0x12
        0x01: 0xff
    - address: 0x68
console:
  delimiter: ","
  line_ending: "\r"
  echo: true
  prompt: ""
  poll_interval_ms: 20
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Validate(cfg))

	require.Equal(t, "/dev/ttyACM0", cfg.Serial.Device)
	require.Equal(t, 100, cfg.Serial.ReadTimeoutMs, "unset keys keep their defaults")
	require.Len(t, cfg.Bus.Devices, 2)
	require.Equal(t, uint8(0x50), cfg.Bus.Devices[0].Address)
	require.Equal(t, uint8(0xff), cfg.Bus.Devices[0].Registers[0x01])
	require.Equal(t, 20*time.Millisecond, cfg.Console.PollInterval())

	cc, err := cfg.Console.CoreConfig(cfg.Serial.Baud)
	require.NoError(t, err)
	require.Equal(t, byte(','), cc.Delimiter)
	require.Equal(t, byte('\r'), cc.LineEnding)
	require.True(t, cc.Echo)
	require.Equal(t, "", cc.Prompt)
	require.Equal(t, core.CharDelayForBaud(9600), cc.CharDelay)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "console:\n  buffer: 12\n"))
	require.ErrorContains(t, err, "field buffer not found")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"no device", func(c *Config) { c.Serial.Device = "" }, "device is required"},
		{"bad baud", func(c *Config) { c.Serial.Device = "/dev/ttyUSB0"; c.Serial.Baud = 0 }, "baud must be positive"},
		{"unknown driver", func(c *Config) { c.Bus.Driver = "spi" }, "unknown driver"},
		{"devices on periph", func(c *Config) {
			c.Bus.Driver = DriverPeriph
			c.Bus.Devices = []SimDeviceConfig{{Address: 0x50}}
		}, "only used by"},
		{"address range", func(c *Config) { c.Bus.Devices = []SimDeviceConfig{{Address: 0x80}} }, "7-bit range"},
		{"duplicate device", func(c *Config) {
			c.Bus.Devices = []SimDeviceConfig{{Address: 0x50}, {Address: 0x50}}
		}, "listed twice"},
		{"register range", func(c *Config) {
			c.Bus.Devices = []SimDeviceConfig{{Address: 0x50, Registers: map[uint8]uint8{0xff: 1}}}
		}, "outside the register map"},
		{"delimiter length", func(c *Config) { c.Console.Delimiter = "ab" }, "single byte"},
		{"letter delimiter", func(c *Config) { c.Console.Delimiter = "x" }, core.ErrDelimiter.Error()},
		{"twowire too large", func(c *Config) { c.Console.TwoWireBufferSize = 100 }, core.ErrTwoWireBufferSize.Error()},
		{"poll interval", func(c *Config) { c.Console.PollIntervalMs = 0 }, "poll_interval_ms"},
		{"log level", func(c *Config) { c.Log.Level = "trace" }, "unknown level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			require.ErrorContains(t, Validate(cfg), tt.errMsg)
		})
	}
}
