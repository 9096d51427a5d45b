//go:build rp2040 || rp2350

package main

import (
	"runtime/volatile"
	"strconv"
	"unsafe"
)

// Free-running 1 MHz timer, counting since reset. Only the timer base
// differs per chip, see timer_rp2040.go and timer_rp2350.go.
var (
	timeRawHigh = (*volatile.Register32)(unsafe.Pointer(uintptr(timerRawHighAddr)))
	timeRawLow  = (*volatile.Register32)(unsafe.Pointer(uintptr(timerRawLowAddr)))
)

// uptimeMicros reads the 64-bit timer. High is re-read so a carry between
// the two halves is never observed.
func uptimeMicros() uint64 {
	for {
		hi := timeRawHigh.Get()
		lo := timeRawLow.Get()
		if timeRawHigh.Get() == hi {
			return uint64(hi)<<32 | uint64(lo)
		}
	}
}

// appendUptime renders us as "Uptime: H:MM:SS.mmm"
func appendUptime(dst []byte, us uint64) []byte {
	ms := us / 1000
	secs := ms / 1000
	mins := secs / 60

	dst = append(dst, "Uptime: "...)
	dst = strconv.AppendUint(dst, mins/60, 10)
	dst = append(dst, ':')
	dst = appendPadded(dst, mins%60, 2)
	dst = append(dst, ':')
	dst = appendPadded(dst, secs%60, 2)
	dst = append(dst, '.')
	dst = appendPadded(dst, ms%1000, 3)
	return append(dst, '\n')
}

func appendPadded(dst []byte, v uint64, width int) []byte {
	var buf [20]byte
	digits := strconv.AppendUint(buf[:0], v, 10)
	for i := len(digits); i < width; i++ {
		dst = append(dst, '0')
	}
	return append(dst, digits...)
}
