package binstr

import (
	"fmt"
	"strings"
)

// nibbles maps each 4-bit group to its hex digit.
var nibbles = map[string]byte{
	"0000": '0', "0001": '1', "0010": '2', "0011": '3',
	"0100": '4', "0101": '5', "0110": '6', "0111": '7',
	"1000": '8', "1001": '9', "1010": 'A', "1011": 'B',
	"1100": 'C', "1101": 'D', "1110": 'E', "1111": 'F',
}

// ToHex renders bits four at a time, most significant group first. The length of bits must be a multiple of four.
// Ex. a 32-bit word renders as 8 upper-case digits.
func ToHex(bits string) (string, error) {
	if len(bits) == 0 || len(bits)%4 != 0 {
		return "", fmt.Errorf("%w: length %d is not a multiple of 4", ErrInvalidBits, len(bits))
	}
	var b strings.Builder
	b.Grow(len(bits) / 4)
	for i := 0; i < len(bits); i += 4 {
		digit, ok := nibbles[bits[i:i+4]]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrInvalidBits, bits)
		}
		b.WriteByte(digit)
	}
	return b.String(), nil
}

// AddrToHex renders a word address as 4 hex digits via its 16-bit unsigned form.
func AddrToHex(address int) (string, error) {
	bits, err := Unsigned(int64(address), 16)
	if err != nil {
		return "", err
	}
	return ToHex(bits)
}
