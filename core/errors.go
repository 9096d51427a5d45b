package core

// ErrorKind identifies a fault detected while processing one console line.
// Every kind aborts only the current line.
type ErrorKind uint8

const (
	NoError ErrorKind = iota
	NoInput
	UndefinedUserFunctionPtr
	UnrecognizedInput
	InvalidSerialCmdLength
	IncomingTwoWireReadLength
	InvalidTwoWireCharacter
	InvalidTwoWireCmdLength
	InvalidTwoWireWriteData
	InvalidHexValuePair
	UnrecognizedProtocol
	UnrecognizedI2CTransType
	TwoWireAddressNACK
	TwoWireBusError
	UserCommandFailed
	InvalidTwoWireAddress

	errorKindCount
)

// errorMessages is indexed by ErrorKind
var errorMessages = [errorKindCount]string{
	NoError:                   "No Error\n",
	NoInput:                   "Error: No Input\n",
	UndefinedUserFunctionPtr:  "Error: USER function is not defined (null pointer)\n",
	UnrecognizedInput:         "Error: Unrecognized Input Character\n",
	InvalidSerialCmdLength:    "\nError: Serial Command Length Exceeds Limit\n",
	IncomingTwoWireReadLength: "Error: Incoming TwoWire Data Exceeds Read Buffer\n",
	InvalidTwoWireCharacter:   "Error: Invalid TwoWire Command Character\n",
	InvalidTwoWireCmdLength:   "Error: TwoWire Command requires Address and Register\n",
	InvalidTwoWireWriteData:   "Error: No data provided for write to I2C registers\n",
	InvalidHexValuePair:       "Error: Commands must be in hex value pairs\n",
	UnrecognizedProtocol:      "Error: Unrecognized Protocol\n",
	UnrecognizedI2CTransType:  "Error: Unrecognized I2C transaction type\n",
	TwoWireAddressNACK:        "Error: I2C device did not acknowledge address\n",
	TwoWireBusError:           "Error: I2C bus transaction failed\n",
	UserCommandFailed:         "Error: USER command failed\n",
	InvalidTwoWireAddress:     "Error: I2C address must be 7-bit (00 to 7F)\n",
}

var errorNames = [errorKindCount]string{
	NoError:                   "NoError",
	NoInput:                   "NoInput",
	UndefinedUserFunctionPtr:  "UndefinedUserFunctionPtr",
	UnrecognizedInput:         "UnrecognizedInput",
	InvalidSerialCmdLength:    "InvalidSerialCmdLength",
	IncomingTwoWireReadLength: "IncomingTwoWireReadLength",
	InvalidTwoWireCharacter:   "InvalidTwoWireCharacter",
	InvalidTwoWireCmdLength:   "InvalidTwoWireCmdLength",
	InvalidTwoWireWriteData:   "InvalidTwoWireWriteData",
	InvalidHexValuePair:       "InvalidHexValuePair",
	UnrecognizedProtocol:      "UnrecognizedProtocol",
	UnrecognizedI2CTransType:  "UnrecognizedI2CTransType",
	TwoWireAddressNACK:        "TwoWireAddressNACK",
	TwoWireBusError:           "TwoWireBusError",
	UserCommandFailed:         "UserCommandFailed",
	InvalidTwoWireAddress:     "InvalidTwoWireAddress",
}

// Message returns the console text for the kind, including the trailing newline
func (k ErrorKind) Message() string {
	if k >= errorKindCount {
		return errorMessages[NoError]
	}
	return errorMessages[k]
}

// String returns the kind's identifier
func (k ErrorKind) String() string {
	if k >= errorKindCount {
		return "ErrorKind(" + itoa(int(k)) + ")"
	}
	return errorNames[k]
}

// Error implements error so a kind can travel through ordinary error returns
func (k ErrorKind) Error() string {
	return trimNewlines(k.Message())
}

// ErrorState holds the fault for the line being processed.
// Only the first fault is kept until Clear.
type ErrorState struct {
	Flag    bool
	Warning bool
	Kind    ErrorKind

	message []byte
	size    int
}

// NewErrorState creates an ErrorState whose rendered message never exceeds size-1 bytes
func NewErrorState(size int) *ErrorState {
	return &ErrorState{
		message: make([]byte, 0, size),
		size:    size,
	}
}

// Set records kind unless a fault is already live.
// Returns false when an earlier fault won.
func (e *ErrorState) Set(kind ErrorKind) bool {
	return e.set(kind, "")
}

// Warn records kind as a recoverable warning
func (e *ErrorState) Warn(kind ErrorKind) bool {
	if !e.set(kind, "") {
		return false
	}
	e.Warning = true
	return true
}

// SetDetail records kind with a free-form detail replacing the table text
func (e *ErrorState) SetDetail(kind ErrorKind, detail string) bool {
	return e.set(kind, detail)
}

func (e *ErrorState) set(kind ErrorKind, detail string) bool {
	if e.Flag {
		return false
	}
	e.Flag = true
	e.Kind = kind
	if detail == "" {
		e.render(kind.Message())
	} else {
		e.render("Error: " + detail + "\n")
	}
	return true
}

// render copies msg into the fixed message buffer, keeping the final newline
func (e *ErrorState) render(msg string) {
	e.message = e.message[:0]
	limit := e.size - 1
	if limit <= 0 {
		return
	}
	if len(msg) > limit {
		msg = msg[:limit-1] + "\n"
	}
	e.message = append(e.message, msg...)
}

// Message returns the rendered text of the live fault
func (e *ErrorState) Message() []byte {
	return e.message
}

// Clear drops the live fault but keeps the last rendered message
func (e *ErrorState) Clear() {
	e.Flag = false
	e.Warning = false
	e.Kind = NoError
}

// Reset clears the fault and the rendered message
func (e *ErrorState) Reset() {
	e.Clear()
	e.message = e.message[:0]
}
