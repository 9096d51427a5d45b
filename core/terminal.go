// Package core implements the line-oriented serial console: it accumulates bytes
// from a serial channel, validates and tokenizes each line, and dispatches it
// to a user command or to the built-in I2C verbs.
package core

import (
	"bytes"
	"errors"

	"github.com/vulcu/terminal-commander/protocol"
)

// Protocol identifies what a processed line was dispatched to
type Protocol uint8

const (
	ProtocolInvalid Protocol = iota
	ProtocolI2CRead
	ProtocolI2CWrite
	ProtocolI2CScan
	ProtocolUser
)

func (p Protocol) String() string {
	switch p {
	case ProtocolI2CRead:
		return "i2c_read"
	case ProtocolI2CWrite:
		return "i2c_write"
	case ProtocolI2CScan:
		return "i2c_scan"
	case ProtocolUser:
		return "user"
	}
	return "invalid"
}

var (
	verbI2C  = []byte("i2c")
	verbScan = []byte("scan")
)

// ErrNilSerial is returned by NewTerminal without a serial channel
var ErrNilSerial = errors.New("terminal requires a serial channel")

// Stats counts what the service loop has processed
type Stats struct {
	Lines        uint32
	Errors       uint32
	Overflows    uint32
	UserCommands uint32
	Transactions uint32
}

// Terminal is one console instance. It exclusively owns its serial channel
// and bus while Service runs and must only be driven from one goroutine.
type Terminal struct {
	serial Serial
	bus    Bus
	cfg    Config

	input     *InputBuffer
	data      *protocol.LineBuffer
	hex       []byte
	twowire   []byte
	found     []I2CAddress
	regBuf    [1]byte
	out       []byte
	lastError *ErrorState
	commands  *CommandRegistry

	echo       bool
	discarding bool

	reported ErrorKind
	result   I2CTransactionResult
	stats    Stats
}

// NewTerminal creates a console reading from serial and driving bus.
// bus may be nil, in which case the I2C verbs report a bus error.
func NewTerminal(serial Serial, bus Bus, cfg Config) (*Terminal, error) {
	if serial == nil {
		return nil, ErrNilSerial
	}

	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Terminal{
		serial:    serial,
		bus:       bus,
		cfg:       cfg,
		input:     NewInputBuffer(cfg.BufferSize, cfg.LineEnding),
		data:      protocol.NewLineBuffer(cfg.BufferSize),
		hex:       make([]byte, (cfg.BufferSize+1)/2),
		twowire:   make([]byte, cfg.TwoWireBufferSize),
		found:     make([]I2CAddress, 0, int(MaxScanAddress)),
		out:       make([]byte, 0, cfg.BufferSize),
		lastError: NewErrorState(cfg.ErrorMessageSize),
		commands:  NewCommandRegistry(cfg.MaxUserCommands),
		echo:      cfg.Echo,
	}, nil
}

// Init writes the initial prompt
func (t *Terminal) Init() {
	t.print("\n")
	t.prompt()
}

// OnCommand registers a user command. It must be called before the first Service.
func (t *Terminal) OnCommand(name string, handler CommandHandler) error {
	return t.commands.Register(name, handler)
}

// Commands returns the user command registry
func (t *Terminal) Commands() *CommandRegistry {
	return t.commands
}

// SetEcho enables or disables echoing input back to the serial channel
func (t *Terminal) SetEcho(enable bool) {
	t.echo = enable
}

// Echo reports whether input echo is enabled
func (t *Terminal) Echo() bool {
	return t.echo
}

// Config returns the configuration the terminal was built with
func (t *Terminal) Config() Config {
	return t.cfg
}

// Stats returns the service counters
func (t *Terminal) Stats() Stats {
	return t.stats
}

// LastError returns the fault reported for the most recent line, or NoError
func (t *Terminal) LastError() ErrorKind {
	return t.reported
}

// LastResult returns the I2C transaction of the most recent line.
// Its Data aliases terminal buffers and is valid until the next line.
func (t *Terminal) LastResult() I2CTransactionResult {
	return t.result
}

// Service drains the bytes currently available on the serial channel and
// runs every line completed by them. It never blocks waiting for input
// except for the short per-character waits used to resynchronize after an
// overflow.
func (t *Terminal) Service() {
	t.commands.Seal()

	if t.discarding && !t.discardLine() {
		return
	}

	for t.serial.Buffered() > 0 {
		c, err := t.serial.ReadByte()
		if err != nil {
			DebugLog(DebugConsole, "serial read failed: "+err.Error())
			return
		}

		t.accept(c)

		switch t.input.State() {
		case InputOverflow:
			t.handleOverflow()
			if t.discarding {
				return
			}
		case InputComplete:
			t.processLine()
		}
	}
}

// accept feeds one byte to the accumulator, handling backspace and echo
func (t *Terminal) accept(c byte) {
	if c == backspace {
		if t.input.Previous() && t.echo {
			// VT100 destructive backspace
			t.print("\b \b")
		}
		return
	}

	if t.echo {
		t.out = append(t.out[:0], c)
		t.write(t.out)
	}
	t.input.Next(c)
}

// handleOverflow reports the overflow and discards the rest of the line
func (t *Terminal) handleOverflow() {
	t.stats.Overflows++
	t.discarding = true

	// wait for the next character in case the line is still being transmitted
	t.cfg.Sleep(t.cfg.CharDelay)
	t.discardLine()

	t.result = I2CTransactionResult{}
	t.lastError.Set(InvalidSerialCmdLength)
	t.report()
	t.input.Reset()
	t.prompt()
}

// discardLine drops bytes up to and including the line ending.
// Returns false if the line ending has not arrived yet.
func (t *Terminal) discardLine() bool {
	for t.serial.Buffered() > 0 {
		c, err := t.serial.ReadByte()
		if err != nil {
			return false
		}
		if c == t.cfg.LineEnding {
			t.discarding = false
			return true
		}
		// wait to see if another character will arrive
		t.cfg.Sleep(t.cfg.CharDelay)
	}
	return false
}

// processLine runs the parse/dispatch/report pipeline for a complete line
func (t *Terminal) processLine() {
	t.stats.Lines++
	t.result = I2CTransactionResult{}
	t.reported = NoError

	t.serialCommandProcessor()

	if t.lastError.Flag {
		t.report()
	}

	// clear the input buffer and reset serial logic
	t.input.Reset()
	t.prompt()
}

func (t *Terminal) serialCommandProcessor() {
	raw := t.input.Bytes()

	// check validity of incoming buffer data before parsing
	n, kind := validate(raw, t.cfg.Delimiter, t.cfg.LineEnding)
	if kind != NoError {
		t.lastError.Set(kind)
		return
	}

	cmd, kind := tokenize(t.data, raw[:n], t.cfg.Delimiter)
	if kind != NoError {
		t.lastError.Set(kind)
		return
	}

	// user commands take precedence over the built-in verbs
	if t.runUserCommand(&cmd) {
		return
	}

	proto, kind := matchProtocol(cmd.Data)
	switch proto {
	case ProtocolI2CRead:
		t.readTwoWire(&cmd)
	case ProtocolI2CWrite:
		t.writeTwoWire(&cmd)
	case ProtocolI2CScan:
		t.scanTwoWireBus(&cmd)
	default:
		t.lastError.Set(kind)
	}
}

// runUserCommand dispatches cmd to the registry. Returns false if no user
// command matched.
func (t *Terminal) runUserCommand(cmd *ParsedCommand) bool {
	handled, err := t.commands.Dispatch(cmd.Keyword(), cmd.UserArgs())
	if !handled {
		return false
	}

	t.stats.UserCommands++
	t.result.Protocol = ProtocolUser
	if err != nil {
		var kind ErrorKind
		if errors.As(err, &kind) {
			t.lastError.Set(kind)
		} else {
			t.lastError.SetDetail(UserCommandFailed, err.Error())
		}
	}
	return true
}

// matchProtocol identifies a built-in verb from the first 3-4 bytes of the
// whitespace-free line, ignoring case
func matchProtocol(data []byte) (Protocol, ErrorKind) {
	if len(data) >= len(verbI2C) && bytes.EqualFold(data[:len(verbI2C)], verbI2C) {
		if len(data) > len(verbI2C) {
			switch toUpper(data[len(verbI2C)]) {
			case 'R':
				return ProtocolI2CRead, NoError
			case 'W':
				return ProtocolI2CWrite, NoError
			}
		}
		return ProtocolInvalid, UnrecognizedI2CTransType
	}

	if len(data) >= len(verbScan) && bytes.EqualFold(data[:len(verbScan)], verbScan) {
		return ProtocolI2CScan, NoError
	}

	// no terminal or user-defined command was identified
	return ProtocolInvalid, UnrecognizedProtocol
}

// report writes the live fault to the serial channel and clears it
func (t *Terminal) report() {
	t.reported = t.lastError.Kind
	t.stats.Errors++
	t.write(t.lastError.Message())
	DebugLog(DebugConsole, "line rejected: "+t.lastError.Kind.String())
	t.lastError.Clear()
}

func (t *Terminal) prompt() {
	if t.cfg.Prompt != "" {
		t.print(t.cfg.Prompt)
	}
}

func (t *Terminal) print(s string) {
	t.out = append(t.out[:0], s...)
	t.write(t.out)
}

func (t *Terminal) write(p []byte) {
	if len(p) == 0 {
		return
	}
	if _, err := t.serial.Write(p); err != nil {
		DebugLog(DebugConsole, "serial write failed: "+err.Error())
	}
}
