package protocol

// LineBuffer is a fixed-capacity byte arena with a write cursor.
// Callers get bounded sub-views instead of raw offsets into the storage.
type LineBuffer struct {
	buf []byte
	pos int
}

// NewLineBuffer creates a LineBuffer with the given capacity
func NewLineBuffer(capacity int) *LineBuffer {
	return &LineBuffer{buf: make([]byte, capacity)}
}

// Push stores b at the cursor and advances it.
// Returns false without storing when the buffer is full.
func (l *LineBuffer) Push(b byte) bool {
	if l.pos >= len(l.buf) {
		return false
	}
	l.buf[l.pos] = b
	l.pos++
	return true
}

// Pop removes the last stored byte and zeroes its slot.
// Returns false when the buffer is empty.
func (l *LineBuffer) Pop() bool {
	if l.pos == 0 {
		return false
	}
	l.pos--
	l.buf[l.pos] = 0
	return true
}

// Len returns the cursor position
func (l *LineBuffer) Len() int {
	return l.pos
}

// Cap returns the fixed capacity
func (l *LineBuffer) Cap() int {
	return len(l.buf)
}

// Full reports whether the cursor has reached capacity
func (l *LineBuffer) Full() bool {
	return l.pos >= len(l.buf)
}

// Bytes returns the stored bytes. The slice aliases the buffer.
func (l *LineBuffer) Bytes() []byte {
	return l.buf[:l.pos]
}

// View returns stored bytes [off, off+n), clamped to what has been written
func (l *LineBuffer) View(off, n int) []byte {
	if off < 0 || off > l.pos {
		return nil
	}
	end := off + n
	if n < 0 || end > l.pos {
		end = l.pos
	}
	return l.buf[off:end]
}

// Reset zeroes the storage and rewinds the cursor
func (l *LineBuffer) Reset() {
	for i := range l.buf {
		l.buf[i] = 0
	}
	l.pos = 0
}

// FifoBuffer is a circular buffer for serial I/O
type FifoBuffer struct {
	buf   []byte
	read  int
	write int
	size  int
}

// NewFifoBuffer creates a new FifoBuffer with the specified capacity
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{
		buf:  make([]byte, capacity),
		size: capacity,
	}
}

// Write appends data to the FIFO buffer
func (f *FifoBuffer) Write(data []byte) int {
	written := 0
	for _, b := range data {
		nextWrite := (f.write + 1) % f.size
		if nextWrite == f.read {
			// Buffer full
			break
		}
		f.buf[f.write] = b
		f.write = nextWrite
		written++
	}
	return written
}

// Read reads up to len(data) bytes from the FIFO buffer
func (f *FifoBuffer) Read(data []byte) int {
	read := 0
	for i := range data {
		if f.read == f.write {
			// Buffer empty
			break
		}
		data[i] = f.buf[f.read]
		f.read = (f.read + 1) % f.size
		read++
	}
	return read
}

// ReadByte pops a single byte. ok is false when the buffer is empty.
func (f *FifoBuffer) ReadByte() (b byte, ok bool) {
	if f.read == f.write {
		return 0, false
	}
	b = f.buf[f.read]
	f.read = (f.read + 1) % f.size
	return b, true
}

// Available returns the number of bytes available for reading
func (f *FifoBuffer) Available() int {
	if f.write >= f.read {
		return f.write - f.read
	}
	return f.size - f.read + f.write
}

// Free returns the number of bytes available for writing
func (f *FifoBuffer) Free() int {
	return f.size - f.Available() - 1
}

// Pop removes n bytes from the front
func (f *FifoBuffer) Pop(n int) {
	for i := 0; i < n && f.read != f.write; i++ {
		f.read = (f.read + 1) % f.size
	}
}

// IsEmpty returns true if the buffer is empty
func (f *FifoBuffer) IsEmpty() bool {
	return f.read == f.write
}

// Reset clears the buffer
func (f *FifoBuffer) Reset() {
	f.read = 0
	f.write = 0
}
