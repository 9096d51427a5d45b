package serial

import (
	"io"
	"os"
)

// StdioPort is a Port over an input and an output stream, used to run the
// console in a local terminal instead of on a device
type StdioPort struct {
	in  io.Reader
	out io.Writer
}

// Stdio returns a Port reading the process's stdin and writing its stdout
func Stdio() *StdioPort {
	return NewStdioPort(os.Stdin, os.Stdout)
}

// NewStdioPort creates a Port from separate streams
func NewStdioPort(in io.Reader, out io.Writer) *StdioPort {
	return &StdioPort{in: in, out: out}
}

func (p *StdioPort) Read(b []byte) (int, error) {
	return p.in.Read(b)
}

func (p *StdioPort) Write(b []byte) (int, error) {
	return p.out.Write(b)
}

// Close closes the input stream when it is closable so a pending Read returns.
// The output stream is left open.
func (p *StdioPort) Close() error {
	if c, ok := p.in.(io.Closer); ok && p.in != os.Stdin {
		return c.Close()
	}
	return nil
}

// Flush is a no-op; streams carry no device buffers
func (p *StdioPort) Flush() error {
	return nil
}
