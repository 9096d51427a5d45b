//go:build rp2040 || rp2350

package main

import (
	"machine"

	"github.com/vulcu/terminal-commander/core"
)

// debugUART carries the console's internal trace so it never mixes with
// console output
var debugUART *machine.UART

// InitDebugUART sends core debug output to UART1 on its default pins at 115200 baud
func InitDebugUART() {
	debugUART = machine.UART1

	err := debugUART.Configure(machine.UARTConfig{
		BaudRate: 115200,
	})
	if err != nil {
		return
	}

	core.SetDebugWriter(func(s string) {
		debugUART.Write([]byte(s))
		debugUART.Write([]byte("\r\n"))
	})
	core.SetDebugEnabled(true)
	core.InitAsyncDebug()

	core.DebugAsync("=== terminal-commander debug UART ===")
}
