//go:build rp2040 || rp2350

package main

import (
	"bytes"
	"errors"
	"machine"

	"github.com/vulcu/terminal-commander/core"
)

var errLEDUsage = errors.New("usage: led on|off|toggle")

// registerBoardCommands adds the firmware's user commands
func registerBoardCommands(term *core.Terminal, serial *consoleSerial) error {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	err := term.OnCommand("led", func(args []byte) error {
		switch {
		case bytes.EqualFold(args, []byte("on")):
			led.High()
		case bytes.EqualFold(args, []byte("off")):
			led.Low()
		case bytes.EqualFold(args, []byte("toggle")):
			led.Set(!led.Get())
		default:
			return errLEDUsage
		}
		core.DebugLog(core.DebugBoard, "led "+string(args))
		return nil
	})
	if err != nil {
		return err
	}

	err = term.OnCommand("uptime", func(args []byte) error {
		var buf [32]byte
		serial.Write(appendUptime(buf[:0], uptimeMicros()))
		return nil
	})
	if err != nil {
		return err
	}

	return registerAccelCommand(term, serial)
}
