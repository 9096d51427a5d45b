//go:build rp2040 || rp2350

package main

import "machine"

// consoleSerial adds io.Reader to machine.Serial (USB CDC or UART0,
// depending on the board's serial setting)
type consoleSerial struct {
	machine.Serialer
}

func newConsoleSerial() *consoleSerial {
	machine.Serial.Configure(machine.UARTConfig{})
	return &consoleSerial{Serialer: machine.Serial}
}

// Read copies the bytes already received without blocking
func (s *consoleSerial) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) && s.Buffered() > 0 {
		c, err := s.ReadByte()
		if err != nil {
			return n, err
		}
		p[n] = c
		n++
	}
	return n, nil
}
