package isa

import (
	"fmt"
	"strings"

	"github.com/tmips/tmipsasm/internal/binstr"
)

// OperandError is returned when an operand cannot be decoded.
type OperandError struct {
	Operand string
	Reason  string
}

func (e *OperandError) Error() string {
	return fmt.Sprintf("invalid operand %q: %s", e.Operand, e.Reason)
}

// Register decodes a register token into its number: "$0" is 0, "$tN" is N+8 and "$sN" is N+16. Numbers after the
// class letter are read like atoi, so "$t" is 8.
//
// The second result is false when the token is not a register in range [0, 31]. Such tokens decode to zero.
func Register(token string) (uint8, bool) {
	token = strings.TrimSpace(token)
	if token == "$0" {
		return 0, true
	}
	if len(token) < 2 || token[0] != '$' {
		return 0, false
	}
	var offset int64
	switch token[1] {
	case 't':
		offset = 8
	case 's':
		offset = 16
	default:
		return 0, false
	}
	n, err := binstr.LeadingInt(token[2:])
	if err != nil {
		return 0, false
	}
	n += offset
	if n < 0 || n > 31 {
		return 0, false
	}
	return uint8(n), true
}

// registerBits returns the 5-bit field of a register token. Unrecognized tokens are zero, or an OperandError when
// strict.
func registerBits(token string, strict bool) (string, error) {
	n, ok := Register(token)
	if !ok && strict {
		return "", &OperandError{Operand: strings.TrimSpace(token), Reason: "unknown register"}
	}
	return binstr.Unsigned(int64(n), 5)
}

// shiftBits returns the 5-bit shift amount of sll. A decimal token is the amount, while a register-style token is
// decoded like any register.
func shiftBits(token string, strict bool) (string, error) {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(token, "$") {
		return registerBits(token, strict)
	}
	n, err := binstr.ParseDecimal(token)
	if err != nil {
		return "", err
	}
	return binstr.Unsigned(n, 5)
}
