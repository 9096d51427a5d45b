package protocol

import "errors"

var (
	ErrInvalidHexChar = errors.New("invalid hex character")
	ErrHexTooShort    = errors.New("hex payload requires address and register")
	ErrHexTooLong     = errors.New("hex payload exceeds buffer")
	ErrOddHexDigits   = errors.New("hex digits must be in pairs")
)

// MinHexDigits is the shortest payload accepted by DecodeHex
const MinHexDigits = 3

const hexDigits = "0123456789ABCDEF"

// HexNibble converts one ASCII hex digit to its 4-bit value.
// Lower-case letters are folded to upper case first.
func HexNibble(c byte) (byte, bool) {
	if c >= 'a' && c <= 'f' {
		c -= 'a' - 'A'
	}
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// IsHexDigit reports whether c is an ASCII hex digit in either case
func IsHexDigit(c byte) bool {
	_, ok := HexNibble(c)
	return ok
}

// DecodeHex packs ASCII hex digit pairs from src into dst and returns the
// number of bytes written.
//
// Every character is checked before the length rules are applied, so a
// payload with a bad character always reports ErrInvalidHexChar. Payloads
// shorter than MinHexDigits fail with ErrHexTooShort, payloads that do not
// fit dst with ErrHexTooLong, and an odd digit count with ErrOddHexDigits.
func DecodeHex(dst, src []byte) (int, error) {
	for _, c := range src {
		if !IsHexDigit(c) {
			return 0, ErrInvalidHexChar
		}
	}
	if len(src) < MinHexDigits {
		return 0, ErrHexTooShort
	}
	if (len(src)+1)/2 > len(dst) {
		return 0, ErrHexTooLong
	}
	if len(src)%2 != 0 {
		return 0, ErrOddHexDigits
	}

	n := 0
	for i := 0; i < len(src); i += 2 {
		hi, _ := HexNibble(src[i])
		lo, _ := HexNibble(src[i+1])
		dst[n] = hi<<4 | lo
		n++
	}
	return n, nil
}

// EncodeHex writes two upper-case hex digits per byte of src into dst and
// returns the number of digits written. dst must hold 2*len(src) bytes.
func EncodeHex(dst, src []byte) int {
	for i, b := range src {
		dst[2*i] = hexDigits[b>>4]
		dst[2*i+1] = hexDigits[b&0x0F]
	}
	return 2 * len(src)
}

// AppendHexByte appends b as two zero-padded upper-case hex digits
func AppendHexByte(dst []byte, b byte) []byte {
	return append(dst, hexDigits[b>>4], hexDigits[b&0x0F])
}
