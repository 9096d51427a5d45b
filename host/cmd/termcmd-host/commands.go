package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vulcu/terminal-commander/core"
)

var (
	errEchoUsage = errors.New("usage: echo on|off")
	errNoArgs    = errors.New("command takes no arguments")
)

// builtinHelp lists the verbs the console handles itself
const builtinHelp = "i2cr <addr><reg>[00...]\ni2cw <addr><reg><data>...\nscan\n"

// registerHostCommands adds the host's user commands. Output goes to w,
// the same channel the console writes to.
func registerHostCommands(term *core.Terminal, w io.Writer, started time.Time) error {
	commands := []struct {
		name    string
		handler core.CommandHandler
	}{
		{"help", func(args []byte) error {
			fmt.Fprint(w, builtinHelp)
			fmt.Fprint(w, term.Commands().Dictionary())
			return nil
		}},
		{"echo", func(args []byte) error {
			switch {
			case bytes.EqualFold(args, []byte("on")):
				term.SetEcho(true)
			case bytes.EqualFold(args, []byte("off")):
				term.SetEcho(false)
			case len(args) == 0:
				fmt.Fprintf(w, "Echo: %s\n", onOff(term.Echo()))
			default:
				return errEchoUsage
			}
			return nil
		}},
		{"uptime", func(args []byte) error {
			if len(args) != 0 {
				return errNoArgs
			}
			fmt.Fprintf(w, "Uptime: %s\n", time.Since(started).Truncate(time.Second))
			return nil
		}},
		{"stats", func(args []byte) error {
			if len(args) != 0 {
				return errNoArgs
			}
			st := term.Stats()
			fmt.Fprintf(w, "Lines: %d\nErrors: %d\nOverflows: %d\nUser commands: %d\nI2C transactions: %d\n",
				st.Lines, st.Errors, st.Overflows, st.UserCommands, st.Transactions)
			return nil
		}},
	}

	for _, c := range commands {
		if err := term.OnCommand(c.name, c.handler); err != nil {
			return fmt.Errorf("failed to register %q: %w", c.name, err)
		}
	}
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
