package serial

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/vulcu/terminal-commander/protocol"
)

// ErrBufferEmpty is returned by ReadByte when no byte is buffered
var ErrBufferEmpty = errors.New("serial input buffer is empty")

// DefaultInputBufferSize is the FIFO capacity used by NewBufferedPort
const DefaultInputBufferSize = 512

// BufferedPort adapts a blocking io.ReadWriter to the console's
// non-blocking serial channel. A background reader moves incoming bytes
// into a FIFO so Buffered and ReadByte never block.
type BufferedPort struct {
	// Serial I/O
	port io.ReadWriter

	// Buffers
	inputBuffer *protocol.FifoBuffer
	dropped     int

	// Signalled when bytes arrive
	readyChan chan struct{}

	// Mutex for thread-safe operations
	writeMutex sync.Mutex
	readMutex  sync.Mutex

	// Read loop result
	err error

	// Stop channel for graceful shutdown
	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once
}

// NewBufferedPort creates a BufferedPort with the default FIFO size and
// starts its background reader
func NewBufferedPort(port io.ReadWriter) *BufferedPort {
	return NewBufferedPortSize(port, DefaultInputBufferSize)
}

// NewBufferedPortSize creates a BufferedPort whose FIFO holds size-1 bytes
func NewBufferedPortSize(port io.ReadWriter, size int) *BufferedPort {
	p := &BufferedPort{
		port:        port,
		inputBuffer: protocol.NewFifoBuffer(size),
		readyChan:   make(chan struct{}, 1),
		stopChan:    make(chan struct{}),
		doneChan:    make(chan struct{}),
	}

	// Start background reader
	go p.readLoop()

	return p
}

// readLoop continuously reads from the port into the input buffer
func (p *BufferedPort) readLoop() {
	defer close(p.doneChan)

	buffer := make([]byte, 256)

	for {
		select {
		case <-p.stopChan:
			return
		default:
		}

		n, err := p.port.Read(buffer)
		if n > 0 {
			p.readMutex.Lock()
			written := p.inputBuffer.Write(buffer[:n])
			p.dropped += n - written
			p.readMutex.Unlock()

			p.notify()
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				p.readMutex.Lock()
				p.err = err
				p.readMutex.Unlock()
				p.notify()
				return
			}
			// transient error, back off and retry
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (p *BufferedPort) notify() {
	select {
	case p.readyChan <- struct{}{}:
	default:
	}
}

// Ready is signalled whenever new input arrives or the reader stops
func (p *BufferedPort) Ready() <-chan struct{} {
	return p.readyChan
}

// Done is closed once the background reader has exited
func (p *BufferedPort) Done() <-chan struct{} {
	return p.doneChan
}

// Err returns the error that stopped the background reader, if any
func (p *BufferedPort) Err() error {
	p.readMutex.Lock()
	defer p.readMutex.Unlock()
	return p.err
}

// Buffered returns the number of bytes ready to read
func (p *BufferedPort) Buffered() int {
	p.readMutex.Lock()
	defer p.readMutex.Unlock()
	return p.inputBuffer.Available()
}

// Dropped returns the number of bytes lost to a full input buffer
func (p *BufferedPort) Dropped() int {
	p.readMutex.Lock()
	defer p.readMutex.Unlock()
	return p.dropped
}

// ReadByte pops one buffered byte without blocking
func (p *BufferedPort) ReadByte() (byte, error) {
	p.readMutex.Lock()
	defer p.readMutex.Unlock()

	b, ok := p.inputBuffer.ReadByte()
	if !ok {
		return 0, ErrBufferEmpty
	}
	return b, nil
}

// Read copies buffered bytes without blocking
func (p *BufferedPort) Read(b []byte) (int, error) {
	p.readMutex.Lock()
	defer p.readMutex.Unlock()
	return p.inputBuffer.Read(b), nil
}

// Write sends data to the port
func (p *BufferedPort) Write(b []byte) (int, error) {
	p.writeMutex.Lock()
	defer p.writeMutex.Unlock()

	n, err := p.port.Write(b)
	if err != nil {
		return n, err
	}
	if n != len(b) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// Close stops the reader and closes the port if it is closable.
// The reader exits once its pending Read returns.
func (p *BufferedPort) Close() error {
	var err error
	p.stopOnce.Do(func() {
		close(p.stopChan)
		if c, ok := p.port.(io.Closer); ok {
			err = c.Close()
		}
	})
	return err
}
