package core

import (
	"bytes"
	"errors"
)

// CommandHandler handles a user command.
// args is the trimmed argument text following the keyword; it is empty when
// no argument was given and is only valid for the duration of the call.
// A returned error is reported on the console.
type CommandHandler func(args []byte) error

// Command represents a registered user command
type Command struct {
	Name    string
	Handler CommandHandler
}

var (
	ErrRegistryFull     = errors.New("user command registry is full")
	ErrEmptyCommandName = errors.New("user command name is empty")
	ErrDuplicateCommand = errors.New("user command already registered")
	ErrRegistrySealed   = errors.New("user commands must be registered before the service loop starts")
	ErrInvalidCommand   = errors.New("user command name contains characters the console rejects")
)

// CommandRegistry holds user commands in registration order.
// Registration is append-only and closes once the service loop starts.
type CommandRegistry struct {
	commands   []Command
	capacity   int
	sealed     bool
	dictionary string
}

// NewCommandRegistry creates a registry holding at most capacity commands
func NewCommandRegistry(capacity int) *CommandRegistry {
	return &CommandRegistry{
		commands: make([]Command, 0, capacity),
		capacity: capacity,
	}
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(name string, handler CommandHandler) error {
	if r.sealed {
		return ErrRegistrySealed
	}
	if name == "" {
		return ErrEmptyCommandName
	}
	for i := 0; i < len(name); i++ {
		if isSpace(name[i]) || !isAllowedInput(name[i]) {
			return ErrInvalidCommand
		}
	}

	// Check if already registered
	if _, exists := r.Lookup([]byte(name)); exists {
		return ErrDuplicateCommand
	}

	if len(r.commands) >= r.capacity {
		return ErrRegistryFull
	}

	r.commands = append(r.commands, Command{Name: name, Handler: handler})

	// Rebuild dictionary
	r.rebuildDictionary()

	return nil
}

// Lookup finds the first command whose name equals keyword exactly
func (r *CommandRegistry) Lookup(keyword []byte) (*Command, bool) {
	for i := range r.commands {
		if bytes.Equal(keyword, []byte(r.commands[i].Name)) {
			return &r.commands[i], true
		}
	}
	return nil, false
}

// Count returns the number of registered commands
func (r *CommandRegistry) Count() int {
	return len(r.commands)
}

// Capacity returns the maximum number of commands
func (r *CommandRegistry) Capacity() int {
	return r.capacity
}

// Seal closes the registry to further registration
func (r *CommandRegistry) Seal() {
	r.sealed = true
}

// Sealed reports whether registration is closed
func (r *CommandRegistry) Sealed() bool {
	return r.sealed
}

// Dispatch runs the handler registered for keyword.
// handled is false when no command matched.
func (r *CommandRegistry) Dispatch(keyword, args []byte) (handled bool, err error) {
	cmd, ok := r.Lookup(keyword)
	if !ok {
		return false, nil
	}
	if cmd.Handler == nil {
		return true, UndefinedUserFunctionPtr
	}
	return true, cmd.Handler(args)
}

// Dictionary returns the registered command names, one per line
func (r *CommandRegistry) Dictionary() string {
	return r.dictionary
}

// rebuildDictionary rebuilds the dictionary string
func (r *CommandRegistry) rebuildDictionary() {
	dict := ""
	for i := range r.commands {
		dict += r.commands[i].Name + "\n"
	}
	r.dictionary = dict
}
