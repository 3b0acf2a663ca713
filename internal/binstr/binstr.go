// Package binstr implements the fixed-width binary string arithmetic used by the encoder: two's complement fields,
// sub-range extraction and nibble based hex rendering.
//
// Fields are strings of '0' and '1' with the most significant bit first. Ex. Signed(-1, 16) is "1111111111111111".
package binstr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxWidth is the widest field any TMIPS encoding uses: a full instruction or data word.
const MaxWidth = 32

// ErrInvalidBits is returned when a bit string contains characters other than '0' and '1', or has an unusable length.
var ErrInvalidBits = errors.New("invalid bit string")

// RangeError is returned when a value cannot be represented in a field of Width bits.
type RangeError struct {
	Value int64
	Width int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%d does not fit in %d bits", e.Value, e.Width)
}

// LiteralError is returned when a numeric token is not a decimal integer.
type LiteralError struct {
	Literal string
	cause   error
}

func (e *LiteralError) Error() string {
	return fmt.Sprintf("invalid literal %q: %v", e.Literal, e.cause)
}

func (e *LiteralError) Unwrap() error {
	return e.cause
}

// Signed returns the width-bit two's complement representation of value.
//
// The magnitude is written right-justified, then negative values are bit-inverted and incremented with carry
// propagation from the least significant bit. Accepted values are [-2^(width-1), 2^width-1]: positive values may use
// the whole field as an unsigned magnitude, ex. "ori $t0, $t0, 65535".
func Signed(value int64, width int) (string, error) {
	if err := checkWidth(width); err != nil {
		return "", err
	}
	min, max := -(int64(1) << (width - 1)), int64(1)<<width-1
	if value < min || value > max {
		return "", &RangeError{Value: value, Width: width}
	}

	negative := value < 0
	magnitude := value
	if negative {
		magnitude = -magnitude
	}
	bits := magnitudeBits(uint64(magnitude), width)
	if negative {
		invert(bits)
		addOne(bits)
	}
	return string(bits), nil
}

// Unsigned returns the width-bit unsigned representation of value, used for register numbers and addresses.
func Unsigned(value int64, width int) (string, error) {
	if err := checkWidth(width); err != nil {
		return "", err
	}
	if value < 0 || value > int64(1)<<width-1 {
		return "", &RangeError{Value: value, Width: width}
	}
	return string(magnitudeBits(uint64(value), width)), nil
}

// ParseSigned parses a signed decimal token and encodes it with Signed.
//
// Note: An empty token encodes zero, as a missing operand always has.
func ParseSigned(token string, width int) (string, error) {
	v, err := ParseDecimal(token)
	if err != nil {
		return "", err
	}
	return Signed(v, width)
}

// ParseDecimal parses a signed decimal token, surrounded by optional whitespace. An empty token is zero.
func ParseDecimal(token string) (int64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, &LiteralError{Literal: token, cause: unwrapNumError(err)}
	}
	return v, nil
}

// LeadingInt parses the signed decimal integer prefix of token, ignoring anything after it. A token without digits
// is zero. Ex. "4096:1" is 4096 and "abc" is 0.
func LeadingInt(token string) (int64, error) {
	token = strings.TrimSpace(token)
	end := 0
	if end < len(token) && (token[end] == '-' || token[end] == '+') {
		end++
	}
	digits := end
	for end < len(token) && token[end] >= '0' && token[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, nil
	}
	v, err := strconv.ParseInt(token[:end], 10, 64)
	if err != nil {
		return 0, &LiteralError{Literal: token, cause: unwrapNumError(err)}
	}
	return v, nil
}

// Decode interprets bits as a two's complement number. Ex. "1111111111111111" is -1.
func Decode(bits string) (int64, error) {
	if err := checkBits(bits); err != nil {
		return 0, err
	}
	if err := checkWidth(len(bits)); err != nil {
		return 0, err
	}
	var v int64
	for i := 0; i < len(bits); i++ {
		v = v<<1 | int64(bits[i]-'0')
	}
	if bits[0] == '1' {
		v -= int64(1) << len(bits)
	}
	return v, nil
}

// SubRange returns the inclusive bit range [low, high] of the 32-bit two's complement form of value, right-justified
// in a 16-bit field. Bit 0 is the least significant. Ex. SubRange(v, 31, 16) is the upper half of v.
func SubRange(value int64, high, low int) (string, error) {
	if low < 0 || high < low || high >= MaxWidth || high-low+1 > 16 {
		return "", fmt.Errorf("invalid bit range [%d:%d]", high, low)
	}
	full, err := Signed(value, MaxWidth)
	if err != nil {
		return "", err
	}
	part := full[MaxWidth-1-high : MaxWidth-low]
	return strings.Repeat("0", 16-len(part)) + part, nil
}

func magnitudeBits(v uint64, width int) []byte {
	bits := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		bits[i] = byte('0' + v%2)
		v /= 2
	}
	return bits
}

func invert(bits []byte) {
	for i, b := range bits {
		if b == '1' {
			bits[i] = '0'
		} else {
			bits[i] = '1'
		}
	}
}

// addOne increments bits in place. A carry out of the most significant bit is discarded.
func addOne(bits []byte) {
	for i := len(bits) - 1; i >= 0; i-- {
		if bits[i] == '0' {
			bits[i] = '1'
			return
		}
		bits[i] = '0'
	}
}

func checkWidth(width int) error {
	if width < 1 || width > MaxWidth {
		return fmt.Errorf("unsupported field width %d", width)
	}
	return nil
}

func checkBits(bits string) error {
	if bits == "" {
		return ErrInvalidBits
	}
	for i := 0; i < len(bits); i++ {
		if bits[i] != '0' && bits[i] != '1' {
			return fmt.Errorf("%w: %q", ErrInvalidBits, bits)
		}
	}
	return nil
}

// unwrapNumError drops the strconv prefix, which repeats the literal.
func unwrapNumError(err error) error {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return numErr.Err
	}
	return err
}
