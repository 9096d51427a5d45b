package simbus

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/vulcu/terminal-commander/core"
)

func TestWriteThenRead(t *testing.T) {
	c := qt.New(t)
	bus := New(c)
	d, err := bus.AddDevice(0x50)
	c.Assert(err, qt.IsNil)

	err = bus.Tx(0x50, []byte{0x09, 0xbe, 0xad}, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(d.Registers[9], qt.Equals, uint8(0xbe))
	c.Assert(d.Registers[10], qt.Equals, uint8(0xad))
	c.Assert(d.Pointer(), qt.Equals, uint8(11))

	buf := make([]byte, 2)
	err = bus.Tx(0x50, []byte{0x09}, nil)
	c.Assert(err, qt.IsNil)
	err = bus.Tx(0x50, nil, buf)
	c.Assert(err, qt.IsNil)
	c.Assert(buf, qt.DeepEquals, []byte{0xbe, 0xad})
	c.Assert(bus.TxCount(), qt.Equals, 3)
}

func TestPointerWraps(t *testing.T) {
	c := qt.New(t)
	bus := New(c)
	d, _ := bus.AddDevice(0x20)
	d.Registers[0xfe] = 0x11
	d.Registers[0x00] = 0x22

	buf := make([]byte, 2)
	c.Assert(bus.Tx(0x20, []byte{0xfe}, buf), qt.IsNil)
	c.Assert(buf, qt.DeepEquals, []byte{0x11, 0x22})

	err := bus.Tx(0x20, []byte{0xff}, nil)
	c.Assert(errors.Is(err, ErrRegisterRange), qt.IsTrue)
}

func TestMissingDeviceNACKs(t *testing.T) {
	c := qt.New(t)
	bus := New(c)

	err := bus.Tx(0x42, nil, nil)
	c.Assert(core.IsAddressNACK(err), qt.IsTrue)
}

func TestDeviceError(t *testing.T) {
	c := qt.New(t)
	bus := New(c)
	d, _ := bus.AddDevice(0x10)
	d.Err = errors.New("bus stuck low")

	err := bus.Tx(0x10, []byte{0x00}, nil)
	c.Assert(err, qt.ErrorMatches, "bus stuck low")
	c.Assert(core.IsAddressNACK(err), qt.IsFalse)
}

func TestAddDevice(t *testing.T) {
	c := qt.New(t)
	bus := New(c)

	_, err := bus.AddDevice(0x3c)
	c.Assert(err, qt.IsNil)
	_, err = bus.AddDevice(0x3c)
	c.Assert(errors.Is(err, ErrDuplicateDevice), qt.IsTrue)
	_, err = bus.AddDevice(0x80)
	c.Assert(errors.Is(err, ErrInvalidAddress), qt.IsTrue)
	_, err = bus.AddDevice(0x00)
	c.Assert(errors.Is(err, ErrInvalidAddress), qt.IsTrue)

	_, ok := bus.Device(0x3c)
	c.Assert(ok, qt.IsTrue)
	c.Assert(bus.Len(), qt.Equals, 1)
}

func TestConsoleScan(t *testing.T) {
	c := qt.New(t)
	bus := New(c)
	bus.AddDevice(0x3c)
	bus.AddDevice(0x68)

	serial := &fakeSerial{in: []byte("scan\ni2cw 68 6b 00\ni2cr 68 6b 00\n")}
	cfg := core.DefaultConfig()
	cfg.Prompt = ""
	term, err := core.NewTerminal(serial, bus, cfg)
	c.Assert(err, qt.IsNil)

	term.Service()
	c.Assert(string(serial.out), qt.Equals, "Scanning for available I2C devices...\n"+
		"I2C device found at Address: 0x3C\n"+
		"I2C device found at Address: 0x68\n"+
		"Scan complete, 2 devices found!\n"+
		"I2C Write\nAddress: 0x68\nRegister: 0x6B\nWrite Data: 0x00\n"+
		"I2C Read\nAddress: 0x68\nRegister: 0x6B\nRead Data: 0x00 0x00\n")
	c.Assert(term.Stats().Errors, qt.Equals, uint32(0))
}

type fakeSerial struct {
	in  []byte
	out []byte
}

func (s *fakeSerial) Read(p []byte) (int, error) {
	n := copy(p, s.in)
	s.in = s.in[n:]
	return n, nil
}

func (s *fakeSerial) ReadByte() (byte, error) {
	if len(s.in) == 0 {
		return 0, errors.New("empty")
	}
	b := s.in[0]
	s.in = s.in[1:]
	return b, nil
}

func (s *fakeSerial) Write(p []byte) (int, error) {
	s.out = append(s.out, p...)
	return len(p), nil
}

func (s *fakeSerial) Buffered() int {
	return len(s.in)
}
