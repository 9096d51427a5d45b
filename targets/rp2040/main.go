//go:build rp2040 || rp2350

package main

import (
	"machine"
	"time"

	"github.com/vulcu/terminal-commander/core"
)

const (
	i2cFrequency = 100 * machine.KHz

	// servicePeriod bounds how long a received byte waits for the console
	servicePeriod = time.Millisecond
)

func main() {
	// CRITICAL: Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitDebugUART()

	serial := newConsoleSerial()

	var bus core.Bus
	i2c, err := configureI2C(i2cFrequency)
	if err != nil {
		// the console still runs; I2C verbs report a bus error
		core.DebugLog(core.DebugBoard, "I2C0 configure failed: "+err.Error())
	} else {
		bus = i2c
	}

	term, err := core.NewTerminal(serial, bus, core.DefaultConfig())
	if err != nil {
		core.DebugLog(core.DebugBoard, "console setup failed: "+err.Error())
		return
	}
	if err := registerBoardCommands(term, serial); err != nil {
		core.DebugLog(core.DebugBoard, "command registration failed: "+err.Error())
	}

	// give the USB host time to open the port before the first prompt
	time.Sleep(500 * time.Millisecond)
	term.Init()

	for {
		term.Service()
		time.Sleep(servicePeriod)
	}
}
