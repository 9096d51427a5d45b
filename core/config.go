package core

import (
	"errors"
	"time"
)

const (
	DefaultBufferSize        = 64
	DefaultTwoWireBufferSize = 30
	DefaultMaxUserCommands   = 10
	DefaultDelimiter         = ' '
	DefaultLineEnding        = '\n'
	DefaultBaudRate          = 115200
	DefaultBusDelay          = 50 * time.Microsecond
	DefaultPrompt            = ">> "

	// twoWireBufferWarnSize is the largest transaction (32 data bytes plus
	// address and register) the common Wire-style controllers accept
	twoWireBufferWarnSize = 34

	backspace = 0x08
)

var (
	ErrBufferSize        = errors.New("input buffer size must be positive")
	ErrTwoWireBufferSize = errors.New("TwoWire buffer size must be positive and not exceed the input buffer size")
	ErrErrorMessageSize  = errors.New("error message buffer size must be positive")
	ErrMaxUserCommands   = errors.New("maximum user commands must not be negative")
	ErrDelimiter         = errors.New("command delimiter must not be a letter, digit, NUL or the line ending")
	ErrLineEnding        = errors.New("line ending must not be NUL or backspace")
)

// Config holds the console's fixed sizes and characters.
// It is copied at construction and never changes afterwards.
type Config struct {
	// BufferSize is the input line capacity in bytes
	BufferSize int

	// TwoWireBufferSize bounds the bytes received by one I2C read and the
	// decoded bytes (address and register included) of one write
	TwoWireBufferSize int

	// ErrorMessageSize bounds a rendered error message
	ErrorMessageSize int

	// MaxUserCommands bounds the user command registry
	MaxUserCommands int

	// Delimiter separates the command keyword from its arguments
	Delimiter byte

	// LineEnding terminates a command
	LineEnding byte

	// Echo writes accepted bytes back to the serial channel
	Echo bool

	// Prompt is printed after each processed line
	Prompt string

	// CharDelay is the wait for one more character while resynchronizing after an overflow
	CharDelay time.Duration

	// BusDelay is the settle time around I2C register pointer writes and read requests
	BusDelay time.Duration

	// Sleep performs the busy-waits; defaults to time.Sleep
	Sleep func(time.Duration)
}

// DefaultConfig returns the stock console configuration
func DefaultConfig() Config {
	return Config{
		BufferSize:        DefaultBufferSize,
		TwoWireBufferSize: DefaultTwoWireBufferSize,
		ErrorMessageSize:  DefaultBufferSize,
		MaxUserCommands:   DefaultMaxUserCommands,
		Delimiter:         DefaultDelimiter,
		LineEnding:        DefaultLineEnding,
		Prompt:            DefaultPrompt,
		CharDelay:         CharDelayForBaud(DefaultBaudRate),
		BusDelay:          DefaultBusDelay,
		Sleep:             time.Sleep,
	}
}

// CharDelayForBaud returns the time one 10-bit serial frame takes at baud
func CharDelayForBaud(baud int) time.Duration {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	return time.Duration(10*int64(time.Second)/int64(baud)) + time.Microsecond
}

// Validate checks the configuration for sizes and characters the console cannot work with
func (c *Config) Validate() error {
	if c.BufferSize <= 0 {
		return ErrBufferSize
	}
	if c.TwoWireBufferSize <= 0 || c.TwoWireBufferSize > c.BufferSize {
		return ErrTwoWireBufferSize
	}
	if c.ErrorMessageSize <= 0 {
		return ErrErrorMessageSize
	}
	if c.MaxUserCommands < 0 {
		return ErrMaxUserCommands
	}
	if c.LineEnding == 0 || c.LineEnding == backspace {
		return ErrLineEnding
	}
	if c.Delimiter == 0 || c.Delimiter == c.LineEnding || isLetter(c.Delimiter) || isDigit(c.Delimiter) {
		return ErrDelimiter
	}
	if c.TwoWireBufferSize > twoWireBufferWarnSize {
		DebugLog(DebugConsole, "TwoWire buffer of "+itoa(c.TwoWireBufferSize)+
			" bytes exceeds what most I2C controllers transfer in one transaction")
	}
	return nil
}

// withDefaults fills zero values that have a safe default
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.ErrorMessageSize == 0 {
		c.ErrorMessageSize = def.ErrorMessageSize
	}
	if c.Delimiter == 0 {
		c.Delimiter = def.Delimiter
	}
	if c.LineEnding == 0 {
		c.LineEnding = def.LineEnding
	}
	if c.Sleep == nil {
		c.Sleep = def.Sleep
	}
	return c
}
