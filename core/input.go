package core

import "github.com/vulcu/terminal-commander/protocol"

// InputState is the accumulator state for the current line
type InputState uint8

const (
	InputIdle InputState = iota
	InputAccumulating
	InputComplete
	InputOverflow
)

func (s InputState) String() string {
	switch s {
	case InputIdle:
		return "idle"
	case InputAccumulating:
		return "accumulating"
	case InputComplete:
		return "complete"
	case InputOverflow:
		return "overflow"
	}
	return "unknown"
}

// InputBuffer accumulates one console line from the serial channel
type InputBuffer struct {
	line       *protocol.LineBuffer
	lineEnding byte
	complete   bool
	overflow   bool
}

// NewInputBuffer creates an accumulator holding at most capacity bytes per line
func NewInputBuffer(capacity int, lineEnding byte) *InputBuffer {
	return &InputBuffer{
		line:       protocol.NewLineBuffer(capacity),
		lineEnding: lineEnding,
	}
}

// Next consumes one byte. Returns true if the byte was stored.
// Bytes are ignored once the line is complete or has overflowed.
func (in *InputBuffer) Next(c byte) bool {
	if in.complete || in.overflow {
		return false
	}

	if c == in.lineEnding {
		in.complete = true
		return false
	}

	if !in.line.Push(c) {
		in.overflow = true
		return false
	}
	return true
}

// Previous deletes the most recent byte (backspace).
// Returns true if a byte was removed.
func (in *InputBuffer) Previous() bool {
	if in.complete || in.overflow {
		return false
	}
	return in.line.Pop()
}

// State returns the accumulator state; overflow wins over complete
func (in *InputBuffer) State() InputState {
	switch {
	case in.overflow:
		return InputOverflow
	case in.complete:
		return InputComplete
	case in.line.Len() > 0:
		return InputAccumulating
	}
	return InputIdle
}

// Complete reports whether the line ending was seen
func (in *InputBuffer) Complete() bool {
	return in.complete && !in.overflow
}

// Overflow reports whether the line exceeded the buffer
func (in *InputBuffer) Overflow() bool {
	return in.overflow
}

// Len returns the number of stored bytes
func (in *InputBuffer) Len() int {
	return in.line.Len()
}

// Bytes returns the stored line without the terminator
func (in *InputBuffer) Bytes() []byte {
	return in.line.Bytes()
}

// Reset clears the buffer, cursor and both flags
func (in *InputBuffer) Reset() {
	in.line.Reset()
	in.complete = false
	in.overflow = false
}
