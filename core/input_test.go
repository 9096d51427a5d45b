package core

import (
	"testing"

	"github.com/vulcu/terminal-commander/protocol"
)

func TestInputBuffer(t *testing.T) {
	in := NewInputBuffer(4, '\n')

	if in.State() != InputIdle {
		t.Errorf("Expected idle, got %v", in.State())
	}

	for _, c := range []byte("ab") {
		if !in.Next(c) {
			t.Errorf("Expected %q to be stored", c)
		}
	}
	if in.State() != InputAccumulating {
		t.Errorf("Expected accumulating, got %v", in.State())
	}

	if !in.Previous() {
		t.Error("Expected backspace to remove a byte")
	}
	in.Next('c')
	in.Next('\n')

	if !in.Complete() || in.State() != InputComplete {
		t.Errorf("Expected complete, got %v", in.State())
	}
	if string(in.Bytes()) != "ac" {
		t.Errorf("Expected 'ac', got %q", in.Bytes())
	}

	// bytes after the terminator are ignored until reset
	if in.Next('x') || in.Previous() {
		t.Error("Expected input to be ignored after completion")
	}

	in.Reset()
	if in.Len() != 0 || in.Complete() || in.Overflow() {
		t.Error("Reset did not clear the buffer")
	}
}

func TestInputBufferOverflow(t *testing.T) {
	in := NewInputBuffer(4, '\n')

	for _, c := range []byte("abcd") {
		in.Next(c)
	}
	if in.Overflow() {
		t.Fatal("A full buffer is not an overflow")
	}

	in.Next('e')
	if !in.Overflow() || in.State() != InputOverflow {
		t.Errorf("Expected overflow, got %v", in.State())
	}

	in.Next('\n')
	if in.Complete() {
		t.Error("Overflow must win over completion")
	}
}

func TestInputBufferBackspaceEmpty(t *testing.T) {
	in := NewInputBuffer(4, '\r')
	if in.Previous() {
		t.Error("Expected backspace on empty line to do nothing")
	}
	in.Next('\n')
	if in.Complete() {
		t.Error("Only the configured line ending completes a line")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		kind ErrorKind
	}{
		{"i2cr 50 10", 10, NoError},
		{"led on;off,1.5-2", 16, NoError},
		{"", 0, NoInput},
		{"\x00abc", 0, NoInput},
		{"ab\x00cd", 2, NoError},
		{"ab#", 2, UnrecognizedInput},
		{"tab\there", 8, NoError},
	}

	for _, tt := range tests {
		n, kind := validate([]byte(tt.in), ' ', '\n')
		if kind != tt.kind {
			t.Errorf("validate(%q) kind = %v, expected %v", tt.in, kind, tt.kind)
		}
		if kind == NoError && n != tt.n {
			t.Errorf("validate(%q) n = %d, expected %d", tt.in, n, tt.n)
		}
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in       string
		data     string
		keyword  string
		args     string
		hasDelim bool
	}{
		{"i2cw 50 00 ff", "i2cw5000ff", "i2cw", "50 00 ff", true},
		{"i2cr5010", "i2cr5010", "i2cr5010", "", false},
		{"  scan  ", "scan", "scan", "", true},
		{"mycustom hello", "mycustomhello", "mycustom", "hello", true},
		{"cmd \t a b \r", "cmdab", "cmd", "a b", true},
	}

	for _, tt := range tests {
		buf := protocol.NewLineBuffer(DefaultBufferSize)
		cmd, kind := tokenize(buf, []byte(tt.in), ' ')
		if kind != NoError {
			t.Errorf("tokenize(%q) failed: %v", tt.in, kind)
			continue
		}
		if string(cmd.Data) != tt.data {
			t.Errorf("tokenize(%q) data = %q, expected %q", tt.in, cmd.Data, tt.data)
		}
		if string(cmd.Keyword()) != tt.keyword {
			t.Errorf("tokenize(%q) keyword = %q, expected %q", tt.in, cmd.Keyword(), tt.keyword)
		}
		if string(cmd.UserArgs()) != tt.args {
			t.Errorf("tokenize(%q) args = %q, expected %q", tt.in, cmd.UserArgs(), tt.args)
		}
		if cmd.HasDelimiter() != tt.hasDelim {
			t.Errorf("tokenize(%q) delimiter = %v, expected %v", tt.in, cmd.HasDelimiter(), tt.hasDelim)
		}
	}
}

func TestTokenizeEmpty(t *testing.T) {
	buf := protocol.NewLineBuffer(8)
	if _, kind := tokenize(buf, []byte(" \t "), ' '); kind != NoInput {
		t.Errorf("Expected NoInput, got %v", kind)
	}
}

func TestReclassify(t *testing.T) {
	buf := protocol.NewLineBuffer(DefaultBufferSize)
	cmd, _ := tokenize(buf, []byte("i2cr5010"), ' ')

	cmd.Reclassify(4)
	if string(cmd.Keyword()) != "i2cr" || string(cmd.Payload()) != "5010" {
		t.Errorf("Unexpected split %q / %q", cmd.Keyword(), cmd.Payload())
	}
	if cmd.ArgsLen() != 4 {
		t.Errorf("Expected ArgsLen 4, got %d", cmd.ArgsLen())
	}

	cmd, _ = tokenize(buf, []byte("i2c"), ' ')
	cmd.Reclassify(4)
	if cmd.ArgsLen() != 0 {
		t.Errorf("Expected ArgsLen 0 for short line, got %d", cmd.ArgsLen())
	}
}
