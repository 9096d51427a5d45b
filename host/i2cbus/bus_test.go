package i2cbus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/i2c/i2ctest"

	"github.com/vulcu/terminal-commander/core"
)

// nackBus fails every transaction the way the kernel reports a missing device
type nackBus struct {
	i2ctest.Playback
	err error
}

func (n *nackBus) Tx(addr uint16, w, r []byte) error {
	return n.err
}

func TestBusTx(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x50, W: []byte{0x10}},
			{Addr: 0x50, R: []byte{0xAB}},
		},
		DontPanic: true,
	}
	b := New(pb, nil)

	require.NoError(t, b.Tx(0x50, []byte{0x10}, nil))

	r := make([]byte, 1)
	require.NoError(t, b.Tx(0x50, nil, r))
	require.Equal(t, byte(0xAB), r[0])
	require.NoError(t, pb.Close())
	require.NoError(t, b.Close())
	require.Equal(t, "playback", b.String())
}

func TestBusProbe(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops:       []i2ctest.IO{{Addr: 0x3C, R: []byte{0x00}}},
		DontPanic: true,
	}
	b := New(pb, nil)

	require.NoError(t, b.Probe(0x3C))
	require.NoError(t, pb.Close())
}

func TestBusNACK(t *testing.T) {
	tests := []struct {
		err  error
		nack bool
	}{
		{errors.New("sysfs-i2c: remote I/O error"), true},
		{errors.New("sysfs-i2c: no such device or address"), true},
		{errors.New("sysfs-i2c: connection timed out"), false},
	}

	for _, tt := range tests {
		b := New(&nackBus{err: tt.err}, nil)
		err := b.Tx(0x20, []byte{0x00}, nil)
		require.Error(t, err)
		require.Equal(t, tt.nack, core.IsAddressNACK(err), tt.err.Error())
		require.ErrorContains(t, err, tt.err.Error())
	}
}

func TestTerminalOverPeriph(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x50, W: []byte{0x00, 0xFF}},
		},
		DontPanic: true,
	}
	serial := &lineSerial{in: []byte("i2cw 50 00 ff\n")}
	cfg := core.DefaultConfig()
	cfg.Prompt = ""
	term, err := core.NewTerminal(serial, New(pb, nil), cfg)
	require.NoError(t, err)

	term.Service()
	require.Equal(t, core.NoError, term.LastError())
	require.Equal(t, "I2C Write\nAddress: 0x50\nRegister: 0x00\nWrite Data: 0xFF\n", string(serial.out))
	require.NoError(t, pb.Close())
}

type lineSerial struct {
	in  []byte
	out []byte
}

func (s *lineSerial) Read(p []byte) (int, error) {
	n := copy(p, s.in)
	s.in = s.in[n:]
	return n, nil
}

func (s *lineSerial) ReadByte() (byte, error) {
	if len(s.in) == 0 {
		return 0, errors.New("empty")
	}
	c := s.in[0]
	s.in = s.in[1:]
	return c, nil
}

func (s *lineSerial) Write(p []byte) (int, error) {
	s.out = append(s.out, p...)
	return len(p), nil
}

func (s *lineSerial) Buffered() int {
	return len(s.in)
}
