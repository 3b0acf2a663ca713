package isa

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tmips/tmipsasm/internal/binstr"
)

// ErrIllegalOpcode is returned by Encoder.Build when a statement's mnemonic is not in the opcode table.
var ErrIllegalOpcode = errors.New("illegal opcode")

// PseudoLoadAddress is the mnemonic of the only pseudo-instruction, which expands to a lui and ori pair.
const PseudoLoadAddress = "la"

const (
	opcodeLui = "001111"
	opcodeOri = "001101"
)

// Statement is a text section line split into its parts. Name is empty for a line holding only a label.
type Statement struct {
	Line  int
	Label string
	Name  string
	Args  []string
}

// arg returns the i-th argument, or empty if the statement has fewer.
func (s *Statement) arg(i int) string {
	if i < len(s.Args) {
		return s.Args[i]
	}
	return ""
}

// ParseStatement splits a cleaned text section line into label, mnemonic and comma separated arguments.
//
// A label is the text before the first ':' when that text contains no whitespace. Ex. "loop: add $t0, $t0, $t1" and
// "loop:add $t0,$t0,$t1" both have the label "loop".
func ParseStatement(line int, text string) Statement {
	st := Statement{Line: line}
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, ':'); i >= 0 && !strings.ContainsAny(text[:i], " \t") {
		st.Label = text[:i]
		text = strings.TrimSpace(text[i+1:])
	}
	if text == "" {
		return st
	}
	name, rest := text, ""
	if j := strings.IndexAny(text, " \t"); j >= 0 {
		name, rest = text[:j], strings.TrimSpace(text[j+1:])
	}
	st.Name = name
	if rest != "" {
		for _, a := range strings.Split(rest, ",") {
			st.Args = append(st.Args, strings.TrimSpace(a))
		}
	}
	return st
}

// NeedsLookahead returns true if the mnemonic consumes the following source line.
func NeedsLookahead(name string) bool {
	return name == PseudoLoadAddress
}

// IsOpcode returns true if name is a mnemonic Build accepts.
func IsOpcode(name string) bool {
	_, ok := opcodes[name]
	return ok || name == PseudoLoadAddress
}

// opcode is an entry of the opcode table. parse fills the operand fields of a new instruction.
type opcode struct {
	format Format
	bits   string
	parse  func(e *Encoder, in *Instruction, st *Statement) error
}

var opcodes = map[string]opcode{
	"add":  {format: FormatR, bits: "100000", parse: (*Encoder).parseThreeRegister},
	"nor":  {format: FormatR, bits: "100111", parse: (*Encoder).parseThreeRegister},
	"sll":  {format: FormatR, bits: "000000", parse: (*Encoder).parseShift},
	"addi": {format: FormatI, bits: "001000", parse: (*Encoder).parseImmediate},
	"ori":  {format: FormatI, bits: opcodeOri, parse: (*Encoder).parseImmediate},
	"lui":  {format: FormatI, bits: opcodeLui, parse: (*Encoder).parseUpperImmediate},
	"sw":   {format: FormatI, bits: "101011", parse: (*Encoder).parseMemory},
	"lw":   {format: FormatI, bits: "100011", parse: (*Encoder).parseMemory},
	"bne":  {format: FormatI, bits: "000110", parse: (*Encoder).parseBranch},
	"j":    {format: FormatJ, bits: "000010", parse: (*Encoder).parseJump},
}

// Encoder builds instructions from statements.
type Encoder struct {
	strict bool
}

// NewEncoder returns an Encoder. When strictRegisters is true, a token that is not a register fails with an
// OperandError instead of decoding to register zero.
func NewEncoder(strictRegisters bool) *Encoder {
	return &Encoder{strict: strictRegisters}
}

// Build returns the instructions of st, the first at address. Operand fields are encoded, but Binary is not set
// until Instruction.Encode.
//
// lookahead is the raw text of the line after st, read only when NeedsLookahead(st.Name).
func (e *Encoder) Build(st *Statement, address int, lookahead string) ([]*Instruction, error) {
	if st.Name == PseudoLoadAddress {
		return e.buildLoadAddress(st, address, lookahead)
	}
	op, ok := opcodes[st.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrIllegalOpcode, st.Name)
	}
	in := newInstruction(address, st.Line, st.Label, st.Name, op)
	if err := op.parse(e, in, st); err != nil {
		return nil, err
	}
	return []*Instruction{in}, nil
}

// buildLoadAddress expands "la $reg, label" into "lui $reg, hi" and "ori $reg, $reg, lo", where hi and lo are the
// halves of the literal in the third whitespace separated token of the lookahead line.
func (e *Encoder) buildLoadAddress(st *Statement, address int, lookahead string) ([]*Instruction, error) {
	reg, err := e.register(st.arg(0))
	if err != nil {
		return nil, err
	}
	var literal string
	if fields := strings.Fields(lookahead); len(fields) >= 3 {
		literal = fields[2]
	}
	value, err := binstr.LeadingInt(literal)
	if err != nil {
		return nil, err
	}
	hi, err := binstr.SubRange(value, 31, 16)
	if err != nil {
		return nil, err
	}
	lo, err := binstr.SubRange(value, 15, 0)
	if err != nil {
		return nil, err
	}

	upper := newInstruction(address, st.Line, st.Label, st.Name, opcode{format: FormatI, bits: opcodeLui})
	upper.Rt, upper.Imm = reg, Immediate(hi)
	lower := newInstruction(address+1, st.Line, st.Label, st.Name, opcode{format: FormatI, bits: opcodeOri})
	lower.Rt, lower.Rs1, lower.Imm = reg, reg, Immediate(lo)
	return []*Instruction{upper, lower}, nil
}

func (e *Encoder) register(token string) (string, error) {
	return registerBits(token, e.strict)
}

// registers decodes tokens into consecutive field pointers, stopping at the first error.
func (e *Encoder) registers(tokens []string, fields ...*string) (err error) {
	for i, f := range fields {
		if *f, err = e.register(tokens[i]); err != nil {
			return
		}
	}
	return
}

func (e *Encoder) parseThreeRegister(in *Instruction, st *Statement) error {
	return e.registers([]string{st.arg(0), st.arg(1), st.arg(2)}, &in.Rt, &in.Rs1, &in.Rs2)
}

func (e *Encoder) parseShift(in *Instruction, st *Statement) (err error) {
	if err = e.registers([]string{st.arg(0), st.arg(1)}, &in.Rt, &in.Rs1); err != nil {
		return
	}
	in.Shift, err = shiftBits(st.arg(2), e.strict)
	return
}

func (e *Encoder) parseImmediate(in *Instruction, st *Statement) error {
	if err := e.registers([]string{st.arg(0), st.arg(1)}, &in.Rt, &in.Rs1); err != nil {
		return err
	}
	return e.immediate(in, st.arg(2))
}

func (e *Encoder) parseUpperImmediate(in *Instruction, st *Statement) (err error) {
	if in.Rt, err = e.register(st.arg(0)); err != nil {
		return
	}
	return e.immediate(in, st.arg(1))
}

// parseMemory decodes "rt, imm(rs1)". A missing "(rs1)" is $0 unless strict.
func (e *Encoder) parseMemory(in *Instruction, st *Statement) (err error) {
	if in.Rt, err = e.register(st.arg(0)); err != nil {
		return
	}
	operand := st.arg(1)
	imm, rest, ok := strings.Cut(operand, "(")
	if !ok && e.strict {
		return &OperandError{Operand: operand, Reason: "expected imm(reg)"}
	}
	base, _, _ := strings.Cut(rest, ")")
	if in.Rs1, err = e.register(base); err != nil {
		return
	}
	return e.immediate(in, imm)
}

func (e *Encoder) parseBranch(in *Instruction, st *Statement) error {
	if err := e.registers([]string{st.arg(0), st.arg(1)}, &in.Rt, &in.Rs1); err != nil {
		return err
	}
	in.Imm = Deferred(st.arg(2))
	return nil
}

func (e *Encoder) parseJump(in *Instruction, st *Statement) error {
	in.Imm = Deferred(st.arg(0))
	return nil
}

func (e *Encoder) immediate(in *Instruction, token string) error {
	bits, err := binstr.ParseSigned(token, 16)
	if err != nil {
		return err
	}
	in.Imm = Immediate(bits)
	return nil
}
