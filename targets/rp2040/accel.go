//go:build rp2040 || rp2350

package main

import (
	"machine"
	"strconv"

	"github.com/vulcu/terminal-commander/core"

	"tinygo.org/x/drivers/adxl345"
)

// registerAccelCommand adds "accel", which prints one raw X/Y/Z sample
// from an ADXL345 at its default address (0x53) on the console's I2C0.
func registerAccelCommand(term *core.Terminal, serial *consoleSerial) error {
	var sensor *adxl345.Device

	return term.OnCommand("accel", func(args []byte) error {
		if sensor == nil {
			dev := adxl345.New(machine.I2C0)
			dev.Configure()
			dev.SetRange(adxl345.RANGE_16G)
			sensor = &dev
		}

		x, y, z := sensor.ReadRawAcceleration()
		out := make([]byte, 0, 48)
		out = append(out, "Accel X: "...)
		out = strconv.AppendInt(out, int64(x), 10)
		out = append(out, " Y: "...)
		out = strconv.AppendInt(out, int64(y), 10)
		out = append(out, " Z: "...)
		out = strconv.AppendInt(out, int64(z), 10)
		out = append(out, '\n')
		serial.Write(out)
		return nil
	})
}
