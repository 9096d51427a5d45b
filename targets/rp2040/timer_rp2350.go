//go:build rp2350

package main

// RP2350 TIMER0 at 0x400B0000
const (
	timerRawHighAddr = 0x400B0000 + 0x24
	timerRawLowAddr  = 0x400B0000 + 0x28
)
