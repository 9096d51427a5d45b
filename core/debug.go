package core

import "sync/atomic"

// DebugWriter receives one formatted debug line at a time
type DebugWriter func(string)

// DebugSource tags a debug line with the console stage that produced it
type DebugSource uint8

const (
	DebugConsole DebugSource = iota
	DebugI2C
	DebugBoard
)

var debugTags = [...]string{
	DebugConsole: "[CONSOLE] ",
	DebugI2C:     "[I2C] ",
	DebugBoard:   "[BOARD] ",
}

func (s DebugSource) tag() string {
	if int(s) < len(debugTags) {
		return debugTags[s]
	}
	return "[?] "
}

// debugQueueSize bounds the async queue; lines beyond it are dropped
const debugQueueSize = 16

var (
	debugWriter  atomic.Pointer[DebugWriter]
	debugEnabled atomic.Bool
	debugDropped atomic.Uint32

	// nil until InitAsyncDebug
	debugChan chan string
)

// SetDebugWriter installs the platform debug sink: a UART on the board,
// the zap logger on a host. nil restores the no-op sink.
func SetDebugWriter(writer DebugWriter) {
	if writer == nil {
		debugWriter.Store(nil)
		return
	}
	debugWriter.Store(&writer)
}

// SetDebugEnabled turns debug output on or off
func SetDebugEnabled(enabled bool) {
	debugEnabled.Store(enabled)
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled.Load()
}

// DebugDropped returns how many async lines were lost to a full queue
func DebugDropped() uint32 {
	return debugDropped.Load()
}

// InitAsyncDebug starts the goroutine that drains DebugAsync lines.
// Call it once, after SetDebugWriter.
func InitAsyncDebug() {
	debugChan = make(chan string, debugQueueSize)
	go func() {
		for msg := range debugChan {
			emitDebug(msg)
		}
	}()
}

func emitDebug(msg string) {
	if w := debugWriter.Load(); w != nil {
		(*w)(msg)
	}
}

// DebugPrintln writes msg synchronously when debug output is enabled
func DebugPrintln(msg string) {
	if debugEnabled.Load() {
		emitDebug(msg)
	}
}

// DebugLog writes msg prefixed with the tag of src
func DebugLog(src DebugSource, msg string) {
	if debugEnabled.Load() {
		emitDebug(src.tag() + msg)
	}
}

// DebugAsync queues msg without blocking. Falls back to DebugPrintln
// before InitAsyncDebug; drops the line when the queue is full.
func DebugAsync(msg string) {
	if !debugEnabled.Load() {
		return
	}
	if debugChan == nil {
		emitDebug(msg)
		return
	}
	select {
	case debugChan <- msg:
	default:
		debugDropped.Add(1)
	}
}
