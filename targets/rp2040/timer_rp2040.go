//go:build rp2040

package main

// RP2040 TIMER at 0x40054000
const (
	timerRawHighAddr = 0x40054000 + 0x24
	timerRawLowAddr  = 0x40054000 + 0x28
)
