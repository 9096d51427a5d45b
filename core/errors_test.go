package core

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorStateFirstFaultWins(t *testing.T) {
	e := NewErrorState(DefaultBufferSize)

	if !e.Set(InvalidHexValuePair) {
		t.Fatal("Expected first Set to succeed")
	}
	if e.Set(UnrecognizedProtocol) {
		t.Error("Expected second Set to be ignored")
	}
	if e.Kind != InvalidHexValuePair {
		t.Errorf("Expected InvalidHexValuePair, got %v", e.Kind)
	}
	if string(e.Message()) != InvalidHexValuePair.Message() {
		t.Errorf("Unexpected message %q", e.Message())
	}

	e.Clear()
	if e.Flag || e.Kind != NoError {
		t.Error("Clear did not drop the fault")
	}
	if !e.Set(NoInput) {
		t.Error("Expected Set after Clear to succeed")
	}
}

func TestErrorStateWarning(t *testing.T) {
	e := NewErrorState(DefaultBufferSize)
	e.Warn(TwoWireAddressNACK)
	if !e.Flag || !e.Warning {
		t.Errorf("Expected flagged warning, got flag=%v warning=%v", e.Flag, e.Warning)
	}
	e.Clear()
	if e.Warning {
		t.Error("Clear did not drop the warning")
	}
}

func TestErrorStateTruncation(t *testing.T) {
	e := NewErrorState(16)
	e.Set(InvalidSerialCmdLength)

	msg := string(e.Message())
	if len(msg) != 15 {
		t.Errorf("Expected message of 15 bytes, got %d (%q)", len(msg), msg)
	}
	if !strings.HasSuffix(msg, "\n") {
		t.Errorf("Truncated message must keep its newline, got %q", msg)
	}

	e.Reset()
	if len(e.Message()) != 0 {
		t.Error("Reset did not clear the message")
	}
}

func TestErrorStateDetail(t *testing.T) {
	e := NewErrorState(DefaultBufferSize)
	e.SetDetail(UserCommandFailed, "duty out of range")
	if got := string(e.Message()); got != "Error: duty out of range\n" {
		t.Errorf("Unexpected detail message %q", got)
	}
}

func TestErrorKindMessages(t *testing.T) {
	for k := NoError; k < errorKindCount; k++ {
		if k.Message() == "" {
			t.Errorf("%v has no message", k)
		}
		if strings.HasPrefix(k.String(), "ErrorKind(") {
			t.Errorf("Kind %d has no name", k)
		}
	}

	if ErrorKind(200).String() != "ErrorKind(200)" {
		t.Errorf("Unexpected name for unknown kind: %s", ErrorKind(200).String())
	}
	if InvalidSerialCmdLength.Error() != "Error: Serial Command Length Exceeds Limit" {
		t.Errorf("Unexpected error text %q", InvalidSerialCmdLength.Error())
	}

	var err error = InvalidTwoWireCharacter
	var kind ErrorKind
	if !errors.As(err, &kind) || kind != InvalidTwoWireCharacter {
		t.Error("ErrorKind did not round trip through error")
	}
}
