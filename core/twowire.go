package core

import "github.com/vulcu/terminal-commander/protocol"

// twoWireVerbLen is the length of "i2cr", "i2cw" and "scan"
const twoWireVerbLen = 4

// I2CTransactionResult describes the I2C activity of one console line
type I2CTransactionResult struct {
	Protocol Protocol
	Address  I2CAddress
	Register uint8

	// Data holds the bytes read or written
	Data []byte

	// Found lists responding addresses after a scan
	Found []I2CAddress

	// Err is the bus error that aborted the transaction, if any
	Err error
}

// parseTwoWireData decodes the hex payload following a four byte verb into
// t.hex. Returns the number of decoded bytes.
func (t *Terminal) parseTwoWireData(cmd *ParsedCommand) (int, bool) {
	cmd.Reclassify(twoWireVerbLen)

	n, err := protocol.DecodeHex(t.hex, cmd.Payload())
	switch err {
	case nil:
		return n, true
	case protocol.ErrInvalidHexChar:
		t.lastError.Set(InvalidTwoWireCharacter)
	case protocol.ErrOddHexDigits:
		t.lastError.Set(InvalidHexValuePair)
	default:
		t.lastError.Set(InvalidTwoWireCmdLength)
	}
	return 0, false
}

// readTwoWire handles "i2cr <addr><reg>[<pad>...]": sets the register
// pointer then reads one byte per padding pair
func (t *Terminal) readTwoWire(cmd *ParsedCommand) {
	if _, ok := t.parseTwoWireData(cmd); !ok {
		return
	}

	addr, ok := t.twoWireAddress()
	if !ok {
		return
	}
	reg := t.hex[1]
	t.result = I2CTransactionResult{Protocol: ProtocolI2CRead, Address: addr, Register: reg}

	t.print("I2C Read\n")
	t.printTwoWireAddress("Address: ", addr)
	t.printTwoWireRegister(reg)

	readLen := cmd.ArgsLen()/2 - 1
	if readLen > len(t.twowire) {
		t.lastError.Set(IncomingTwoWireReadLength)
		return
	}
	if t.bus == nil {
		t.lastError.Set(TwoWireBusError)
		return
	}

	t.regBuf[0] = reg
	if err := t.bus.Tx(uint16(addr), t.regBuf[:], nil); err != nil {
		// no ACK on the pointer write, skip the read
		t.twoWireFailed(err)
		return
	}
	t.cfg.Sleep(t.cfg.BusDelay)

	data := t.twowire[:readLen]
	err := t.bus.Tx(uint16(addr), nil, data)
	t.cfg.Sleep(t.cfg.BusDelay)
	if err != nil {
		t.twoWireFailed(err)
		return
	}

	t.stats.Transactions++
	t.result.Data = data

	t.out = append(t.out[:0], "Read Data:"...)
	if len(data) == 0 {
		t.out = append(t.out, " No Data Received"...)
	}
	for _, b := range data {
		t.out = append(t.out, ' ')
		t.out = appendHex0x(t.out, b)
	}
	t.out = append(t.out, '\n')
	t.write(t.out)
}

// writeTwoWire handles "i2cw <addr><reg><data>...": writes the register
// followed by the data bytes in one transaction
func (t *Terminal) writeTwoWire(cmd *ParsedCommand) {
	n, ok := t.parseTwoWireData(cmd)
	if !ok {
		return
	}

	// at least one data byte after address and register
	if cmd.ArgsLen() < 6 {
		t.lastError.Set(InvalidTwoWireWriteData)
		return
	}
	if n > len(t.twowire) {
		t.lastError.Set(InvalidTwoWireCmdLength)
		return
	}

	addr, ok := t.twoWireAddress()
	if !ok {
		return
	}
	reg := t.hex[1]
	t.result = I2CTransactionResult{Protocol: ProtocolI2CWrite, Address: addr, Register: reg}

	t.print("I2C Write\n")
	t.printTwoWireAddress("Address: ", addr)
	t.printTwoWireRegister(reg)

	if t.bus == nil {
		t.lastError.Set(TwoWireBusError)
		return
	}

	w := t.twowire[:n-1]
	w[0] = reg
	copy(w[1:], t.hex[2:n])
	if err := t.bus.Tx(uint16(addr), w, nil); err != nil {
		t.twoWireFailed(err)
		return
	}

	t.stats.Transactions++
	t.result.Data = w[1:]

	t.out = append(t.out[:0], "Write Data:"...)
	for _, b := range w[1:] {
		t.out = append(t.out, ' ')
		t.out = appendHex0x(t.out, b)
	}
	t.out = append(t.out, '\n')
	t.write(t.out)
}

// scanTwoWireBus probes every 7-bit address and lists the responders
func (t *Terminal) scanTwoWireBus(cmd *ParsedCommand) {
	cmd.Reclassify(twoWireVerbLen)
	if cmd.ArgsLen() > 0 {
		t.lastError.Set(UnrecognizedProtocol)
		return
	}
	if t.bus == nil {
		t.lastError.Set(TwoWireBusError)
		return
	}

	t.print("Scanning for available I2C devices...\n")

	t.found = t.found[:0]
	for addr := I2CAddress(MinScanAddress); addr <= MaxScanAddress; addr++ {
		err := probe(t.bus, addr)
		switch {
		case err == nil:
			t.found = append(t.found, addr)
			t.printTwoWireAddress("I2C device found at Address: ", addr)
		case IsAddressNACK(err):
		default:
			DebugLog(DebugI2C, "probe "+hex0x(byte(addr))+": "+err.Error())
			t.printTwoWireAddress("Unknown error at Address: ", addr)
		}
	}
	t.stats.Transactions++
	t.result = I2CTransactionResult{Protocol: ProtocolI2CScan, Found: t.found}

	if len(t.found) == 0 {
		t.print("No I2C devices found :(\n")
		return
	}
	t.print("Scan complete, " + itoa(len(t.found)) + " devices found!\n")
}

// twoWireAddress returns the decoded 7-bit address. An 8-bit form such as
// an EEPROM's "a0" is rejected rather than masked onto another device.
func (t *Terminal) twoWireAddress() (I2CAddress, bool) {
	if t.hex[0] > byte(MaxScanAddress) {
		t.lastError.Set(InvalidTwoWireAddress)
		return 0, false
	}
	return I2CAddress(t.hex[0]), true
}

// twoWireFailed records a bus error; an address NACK is only a warning
func (t *Terminal) twoWireFailed(err error) {
	t.result.Err = err
	if IsAddressNACK(err) {
		t.lastError.Warn(TwoWireAddressNACK)
		return
	}
	DebugLog(DebugI2C, hex0x(byte(t.result.Address))+": "+err.Error())
	t.lastError.Set(TwoWireBusError)
}

func (t *Terminal) printTwoWireAddress(label string, addr I2CAddress) {
	t.out = append(t.out[:0], label...)
	t.out = appendHex0x(t.out, byte(addr))
	t.out = append(t.out, '\n')
	t.write(t.out)
}

func (t *Terminal) printTwoWireRegister(reg uint8) {
	t.out = append(t.out[:0], "Register: "...)
	t.out = appendHex0x(t.out, reg)
	t.out = append(t.out, '\n')
	t.write(t.out)
}
