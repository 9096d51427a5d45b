package core

import (
	"bytes"

	"github.com/vulcu/terminal-commander/protocol"
)

// ParsedCommand is the tokenized form of one console line.
// Data and the raw line are owned by the Terminal and are only valid until
// the next line is processed.
type ParsedCommand struct {
	// Data is the line with whitespace removed
	Data []byte

	// CmdLen is the keyword length at the start of Data
	CmdLen int

	// ArgsStart is the offset in the raw line just past the first
	// delimiter, or -1 when the line had none
	ArgsStart int

	raw []byte
}

// Keyword returns the command keyword
func (p *ParsedCommand) Keyword() []byte {
	return p.Data[:p.CmdLen]
}

// Payload returns the whitespace-free argument bytes following the keyword
func (p *ParsedCommand) Payload() []byte {
	return p.Data[p.CmdLen:]
}

// ArgsLen returns the payload length
func (p *ParsedCommand) ArgsLen() int {
	return len(p.Data) - p.CmdLen
}

// HasDelimiter reports whether a delimiter separated keyword and arguments
func (p *ParsedCommand) HasDelimiter() bool {
	return p.ArgsStart >= 0
}

// Reclassify makes the first n bytes of Data the keyword, whatever the
// delimiter position was. Built-in verbs use it to accept "i2cr5010".
func (p *ParsedCommand) Reclassify(n int) {
	if n > len(p.Data) {
		n = len(p.Data)
	}
	p.CmdLen = n
}

// UserArgs returns the raw argument view after the first delimiter with
// leading and trailing whitespace removed. Inner spacing is preserved.
func (p *ParsedCommand) UserArgs() []byte {
	if p.ArgsStart < 0 || p.ArgsStart > len(p.raw) {
		return nil
	}
	return bytes.TrimFunc(p.raw[p.ArgsStart:], func(r rune) bool {
		return r == 0 || (r < 0x80 && isSpace(byte(r)))
	})
}

// isAllowedInput reports whether c may appear in a command line
func isAllowedInput(c byte) bool {
	switch {
	case isLetter(c), isDigit(c), isSpace(c):
		return true
	case c == '-', c == '.', c == ',', c == ';':
		return true
	}
	return false
}

// validate scans raw for characters outside the permitted set before any
// parsing happens. It returns the content length (a NUL byte ends the
// content) or the first fault.
func validate(raw []byte, delim, lineEnding byte) (int, ErrorKind) {
	n := 0
	for ; n < len(raw); n++ {
		c := raw[n]
		if c == 0 {
			break
		}
		if isAllowedInput(c) || c == delim || c == lineEnding {
			continue
		}
		return n, UnrecognizedInput
	}

	if n == 0 {
		return 0, NoInput
	}
	return n, NoError
}

// tokenize copies raw into dst without whitespace and records where the
// keyword ends. The first delimiter after at least one keyword byte is the
// boundary; later delimiters are dropped when they are whitespace and kept
// as payload otherwise.
func tokenize(dst *protocol.LineBuffer, raw []byte, delim byte) (ParsedCommand, ErrorKind) {
	dst.Reset()
	cmd := ParsedCommand{ArgsStart: -1, CmdLen: -1, raw: raw}

	for i, c := range raw {
		if c == 0 {
			break
		}
		if c == delim {
			if cmd.ArgsStart < 0 && dst.Len() != 0 {
				cmd.ArgsStart = i + 1
				cmd.CmdLen = dst.Len()
				continue
			}
			if !isSpace(c) {
				dst.Push(c)
			}
			continue
		}
		if !isSpace(c) {
			dst.Push(c)
		}
	}

	cmd.Data = dst.Bytes()
	if len(cmd.Data) == 0 {
		return cmd, NoInput
	}
	if cmd.CmdLen < 0 {
		cmd.CmdLen = len(cmd.Data)
	}
	return cmd, NoError
}
