// Package isa defines the TMIPS instruction formats, the opcode table and the encoding of instructions into 32-bit
// words.
//
// Instruction fields are bit strings, most significant bit first, as produced by package binstr. Branch and jump
// targets are parsed as deferred operands and bound to an address once every label is known.
package isa

import (
	"errors"
	"fmt"
	"math"

	"github.com/tmips/tmipsasm/internal/binstr"
)

// Format is the encoding layout of an instruction.
type Format uint8

const (
	// FormatR is opcode(6) | rs1(5) | rs2(5) | rt(5) | shift(5) | 000000.
	FormatR Format = iota
	// FormatI is opcode(6) | rs1(5) | rt(5) | immediate(16).
	FormatI
	// FormatJ is opcode(6) | 00000 | 00000 | address(16).
	FormatJ
)

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case FormatR:
		return "R"
	case FormatI:
		return "I"
	case FormatJ:
		return "J"
	}
	return fmt.Sprintf("<unknown=%d>", f)
}

const (
	zeroReg   = "00000"
	zeroFunct = "000000"
	zeroImm   = "0000000000000000"
)

// ErrUnresolved is returned when encoding an instruction whose target was never bound. See Instruction.Resolve
var ErrUnresolved = errors.New("unresolved symbol")

// Operand is the 16-bit field of an I or J format instruction. It is either an immediate, already encoded when the
// statement was parsed, or a deferred reference to a label.
//
// Note: A deferred operand may name the empty string if the source omitted the target. It still fails to resolve.
type Operand struct {
	bits     string
	symbol   string
	deferred bool
}

// Immediate returns a resolved operand holding bits.
func Immediate(bits string) Operand {
	return Operand{bits: bits}
}

// Deferred returns an operand resolved later from the address of symbol.
func Deferred(symbol string) Operand {
	return Operand{symbol: symbol, deferred: true}
}

// Resolved returns true if Bits is usable.
func (o Operand) Resolved() bool {
	return !o.deferred
}

// Bits returns the 16-bit field, or empty if not resolved.
func (o Operand) Bits() string {
	return o.bits
}

// Symbol returns the label a deferred operand targets.
func (o Operand) Symbol() string {
	return o.symbol
}

// Instruction is a single encoded word of the text section.
type Instruction struct {
	// Address is the word index of this instruction.
	Address int
	// Line is the source line this instruction was parsed from. Both halves of an "la" share it.
	Line int
	// Label is the label defined on the source line, if any.
	Label string

	Format Format
	// Name is the source mnemonic. Ex. "add", or "la" for both halves of its expansion.
	Name string
	// Opcode is the 6-bit opcode field.
	Opcode string

	Rs1, Rs2, Rt, Shift string
	Imm                 Operand

	// Binary is the 32-bit word, set by Encode.
	Binary string
	// Hex is Binary as 8 hex digits, set by Encode.
	Hex string
}

func newInstruction(address, line int, label, name string, op opcode) *Instruction {
	return &Instruction{
		Address: address,
		Line:    line,
		Label:   label,
		Format:  op.format,
		Name:    name,
		Opcode:  op.bits,
		Rs1:     zeroReg,
		Rs2:     zeroReg,
		Rt:      zeroReg,
		Shift:   zeroReg,
		Imm:     Immediate(zeroImm),
	}
}

// Encoded returns true once Encode succeeded.
func (in *Instruction) Encoded() bool {
	return in.Binary != ""
}

// Resolve binds a deferred operand to the address of its target. The address must fit a 16-bit signed field.
func (in *Instruction) Resolve(address int) error {
	if address < 0 || address > math.MaxInt16 {
		return &binstr.RangeError{Value: int64(address), Width: 16}
	}
	bits, err := binstr.Signed(int64(address), 16)
	if err != nil {
		return err
	}
	in.Imm = Immediate(bits)
	return nil
}

// Encode assembles the fields into Binary and Hex.
func (in *Instruction) Encode() error {
	var bin string
	switch in.Format {
	case FormatR:
		bin = in.Opcode + in.Rs1 + in.Rs2 + in.Rt + in.Shift + zeroFunct
	case FormatI, FormatJ:
		if !in.Imm.Resolved() {
			return fmt.Errorf("%w: %s", ErrUnresolved, in.Imm.Symbol())
		}
		if in.Format == FormatJ {
			bin = in.Opcode + zeroReg + zeroReg + in.Imm.Bits()
		} else {
			bin = in.Opcode + in.Rs1 + in.Rt + in.Imm.Bits()
		}
	default:
		return fmt.Errorf("BUG: unhandled format %s", in.Format)
	}
	if len(bin) != binstr.MaxWidth {
		return fmt.Errorf("BUG: %s encoded to %d bits", in.Name, len(bin))
	}
	hex, err := binstr.ToHex(bin)
	if err != nil {
		return err
	}
	in.Binary, in.Hex = bin, hex
	return nil
}
