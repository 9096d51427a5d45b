package core

import (
	"errors"
	"testing"
)

func TestCommandRegistry(t *testing.T) {
	registry := NewCommandRegistry(4)

	// Register a command
	var called bool
	var gotArgs []byte
	handler := func(args []byte) error {
		called = true
		gotArgs = append(gotArgs[:0], args...)
		return nil
	}

	if err := registry.Register("test_command", handler); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Verify command can be retrieved
	cmd, ok := registry.Lookup([]byte("test_command"))
	if !ok {
		t.Fatal("Failed to retrieve registered command")
	}
	if cmd.Name != "test_command" {
		t.Errorf("Expected command name 'test_command', got '%s'", cmd.Name)
	}

	// Test dispatch
	handled, err := registry.Dispatch([]byte("test_command"), []byte("hello"))
	if err != nil {
		t.Errorf("Dispatch failed: %v", err)
	}
	if !handled || !called {
		t.Error("Command handler was not called")
	}
	if string(gotArgs) != "hello" {
		t.Errorf("Expected args 'hello', got '%s'", gotArgs)
	}

	// Test unknown command
	handled, _ = registry.Dispatch([]byte("test_comman"), nil)
	if handled {
		t.Error("Expected prefix of a command name not to match")
	}
}

func TestCommandRegistryMultiple(t *testing.T) {
	registry := NewCommandRegistry(4)

	for _, name := range []string{"command1", "command2", "command3"} {
		if err := registry.Register(name, func(args []byte) error { return nil }); err != nil {
			t.Fatalf("Register %s failed: %v", name, err)
		}
	}
	if registry.Count() != 3 {
		t.Errorf("Expected 3 commands, got %d", registry.Count())
	}

	dict := registry.Dictionary()
	if dict != "command1\ncommand2\ncommand3\n" {
		t.Errorf("Unexpected dictionary %q", dict)
	}
}

func TestCommandRegistryLimits(t *testing.T) {
	registry := NewCommandRegistry(1)

	if err := registry.Register("", nil); !errors.Is(err, ErrEmptyCommandName) {
		t.Errorf("Expected ErrEmptyCommandName, got %v", err)
	}
	if err := registry.Register("two words", nil); !errors.Is(err, ErrInvalidCommand) {
		t.Errorf("Expected ErrInvalidCommand, got %v", err)
	}
	if err := registry.Register("led", nil); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := registry.Register("led", nil); !errors.Is(err, ErrDuplicateCommand) {
		t.Errorf("Expected ErrDuplicateCommand, got %v", err)
	}
	if err := registry.Register("fan", nil); !errors.Is(err, ErrRegistryFull) {
		t.Errorf("Expected ErrRegistryFull, got %v", err)
	}

	registry.Seal()
	if err := registry.Register("x", nil); !errors.Is(err, ErrRegistrySealed) {
		t.Errorf("Expected ErrRegistrySealed, got %v", err)
	}
}

func TestCommandRegistryNilHandler(t *testing.T) {
	registry := NewCommandRegistry(2)
	registry.Register("ghost", nil)

	handled, err := registry.Dispatch([]byte("ghost"), nil)
	if !handled {
		t.Fatal("Expected nil handler to be matched")
	}
	if err != UndefinedUserFunctionPtr {
		t.Errorf("Expected UndefinedUserFunctionPtr, got %v", err)
	}
}

func TestCommandRegistryZeroCapacity(t *testing.T) {
	registry := NewCommandRegistry(0)
	if err := registry.Register("a", nil); !errors.Is(err, ErrRegistryFull) {
		t.Errorf("Expected zero capacity registry to reject commands, got %v", err)
	}
	if registry.Capacity() != 0 {
		t.Errorf("Expected capacity 0, got %d", registry.Capacity())
	}
}
