package core

import (
	"io"

	"tinygo.org/x/drivers"
)

// Serial is the byte channel the console reads commands from and writes
// results to. TinyGo's machine.Serial (UART or USB CDC) satisfies it.
type Serial interface {
	drivers.UART
	io.ByteReader
}
