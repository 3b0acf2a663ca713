// Package assembler is the two-pass TMIPS assembler.
//
// The first pass reads the source once, registering labels and building instructions and data words. Branch and jump
// targets are left deferred. The second pass resolves them against the symbol table and encodes every instruction.
//
// Recoverable errors, such as an illegal opcode, are collected into Program.Diagnostics and assembly continues.
// Anything else stops assembly with a FatalError.
package assembler

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/golang/glog"
	"github.com/tmips/tmipsasm/internal/binstr"
	"github.com/tmips/tmipsasm/internal/dataseg"
	"github.com/tmips/tmipsasm/internal/diag"
	"github.com/tmips/tmipsasm/internal/isa"
	"github.com/tmips/tmipsasm/internal/logging"
	"github.com/tmips/tmipsasm/internal/source"
	"github.com/tmips/tmipsasm/internal/symtab"
)

const (
	// DirectiveText starts the text section.
	DirectiveText = ".text"
	// DirectiveData starts the data section.
	DirectiveData = ".data"

	// MaxAddress is the highest word address of a program.
	MaxAddress = dataseg.MaxAddress
)

// phase is the section being read. Phases only advance.
type phase uint8

const (
	// phasePreamble is everything before DirectiveText, which is ignored.
	phasePreamble phase = iota
	phaseText
	phaseData
)

func (p phase) String() string {
	switch p {
	case phasePreamble:
		return "preamble"
	case phaseText:
		return "text"
	case phaseData:
		return "data"
	}
	return fmt.Sprintf("<unknown=%d>", p)
}

// Program is the result of assembly.
type Program struct {
	// Source is the raw text of every line read, in order.
	Source []string
	// Instructions is the text section in address order, including any left unencoded by an undefined symbol.
	Instructions []*isa.Instruction
	// Data is the data section in address order. Addresses continue after the last instruction.
	Data []dataseg.Word
	// Symbols holds every label of both sections.
	Symbols *symtab.Table
	// Diagnostics holds the recoverable errors in line order.
	Diagnostics *diag.Ledger
}

// HasErrors returns true if any diagnostic was recorded. An object listing must not be written in this case.
func (p *Program) HasErrors() bool {
	return p.Diagnostics.Len() > 0
}

// Encoded returns the instructions that were encoded, in address order.
func (p *Program) Encoded() []*isa.Instruction {
	ret := make([]*isa.Instruction, 0, len(p.Instructions))
	for _, in := range p.Instructions {
		if in.Encoded() {
			ret = append(ret, in)
		}
	}
	return ret
}

// address returns the next free word address.
func (p *Program) address() int {
	return len(p.Instructions) + len(p.Data)
}

// Assemble reads TMIPS assembly from r and returns the assembled program. A nil cfg is NewConfig.
//
// The error is non-nil only for conditions that stop assembly, as a *FatalError. Illegal opcodes and undefined or
// multiply defined symbols are instead recorded in Program.Diagnostics. See Program.HasErrors
func Assemble(r io.Reader, cfg *Config) (*Program, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	a := &assembler{
		src:    source.NewReader(r, cfg.maxLineLength),
		enc:    isa.NewEncoder(cfg.strictRegisters),
		tracer: logging.NewTracer(cfg.trace),
		prog: &Program{
			Symbols:     symtab.New(),
			Diagnostics: &diag.Ledger{},
		},
	}

	glog.V(1).Infof("Beginning pass %d", 1)
	if err := a.firstPass(); err != nil {
		return nil, err
	}
	glog.V(1).Infof("Beginning pass %d", 2)
	if err := a.secondPass(); err != nil {
		return nil, err
	}
	a.prog.Source = a.src.Lines()
	glog.V(1).Infof("Assembled %d instructions and %d data words with %d diagnostics",
		len(a.prog.Instructions), len(a.prog.Data), a.prog.Diagnostics.Len())
	return a.prog, nil
}

// assembler holds the state of one Assemble call.
type assembler struct {
	src    *source.Reader
	enc    *isa.Encoder
	tracer logging.Tracer
	phase  phase
	prog   *Program
}

func (a *assembler) firstPass() error {
	for {
		line, ok := a.src.Next()
		if !ok {
			break
		}
		text, ok := source.Clean(line.Text)
		a.tracer.Tracef(logging.LogScopeSource, "line %d: %s in %s", line.Number, source.Classify(line.Text), a.phase)
		if !ok {
			continue
		}
		if a.advance(line.Number, text) {
			continue
		}

		var err error
		switch a.phase {
		case phasePreamble:
		case phaseText:
			err = a.text(line.Number, text)
		case phaseData:
			err = a.data(line.Number, text)
		}
		if err != nil {
			return &FatalError{Line: line.Number, Context: text, cause: err}
		}
	}
	if err := a.src.Err(); err != nil {
		return &FatalError{Line: a.src.Number() + 1, cause: err}
	}
	return nil
}

// advance returns true if text is a section directive. Only DirectiveText leaves the preamble, and a directive that
// would move back to an earlier section is ignored.
func (a *assembler) advance(lineNumber int, text string) bool {
	var next phase
	switch firstField(text) {
	case DirectiveText:
		next = phaseText
	case DirectiveData:
		next = phaseData
	default:
		return false
	}
	if a.phase == phasePreamble && next != phaseText {
		a.tracer.Tracef(logging.LogScopeSource, "line %d: ignoring %s before %s", lineNumber, text, DirectiveText)
		return true
	}
	if next <= a.phase {
		glog.Warningf("line %d: ignoring %s in the %s section", lineNumber, text, a.phase)
		return true
	}
	a.tracer.Tracef(logging.LogScopeSource, "line %d: entering the %s section", lineNumber, next)
	a.phase = next
	return true
}

func (a *assembler) text(lineNumber int, text string) error {
	st := isa.ParseStatement(lineNumber, text)
	address := len(a.prog.Instructions)
	if st.Label != "" {
		a.define(lineNumber, st.Label, address)
	}
	if st.Name == "" {
		return nil
	}

	var lookahead string
	if isa.NeedsLookahead(st.Name) {
		if next, ok := a.src.Next(); ok {
			lookahead = next.Text
			a.tracer.Tracef(logging.LogScopeSource, "line %d: consumed by %s on line %d", next.Number, st.Name, lineNumber)
		} else if err := a.src.Err(); err != nil {
			return err
		} else {
			glog.Warningf("line %d: %s has no following line to read its literal from", lineNumber, st.Name)
		}
	}

	ins, err := a.enc.Build(&st, address, lookahead)
	if errors.Is(err, isa.ErrIllegalOpcode) {
		a.prog.Diagnostics.Add(diag.Diagnostic{Kind: diag.IllegalOpcode, Line: lineNumber, Detail: st.Name})
		return nil
	} else if err != nil {
		return err
	}
	if last := address + len(ins) - 1; last > MaxAddress {
		return &binstr.RangeError{Value: int64(last), Width: 16}
	}
	a.prog.Instructions = append(a.prog.Instructions, ins...)
	return nil
}

func (a *assembler) data(lineNumber int, text string) error {
	d := dataseg.ParseDirective(lineNumber, text)
	address := a.prog.address()
	if d.Label != "" {
		a.define(lineNumber, d.Label, address)
	}
	if d.Name == "" {
		return nil
	}
	if !d.Known() {
		glog.Warningf("line %d: ignoring unknown data directive %s", lineNumber, d.Name)
		return nil
	}

	words, err := d.Expand(address)
	if err != nil {
		return err
	}
	for _, w := range words {
		a.tracer.Detailf(logging.LogScopeData, "0x%04X: %s (line %d)", w.Address, w.Hex, w.Line)
	}
	a.prog.Data = append(a.prog.Data, words...)
	return nil
}

// define registers a label, recording a diagnostic when it already exists. The first definition is kept.
func (a *assembler) define(lineNumber int, label string, address int) {
	if err := a.prog.Symbols.Insert(label, address); err != nil {
		a.tracer.Tracef(logging.LogScopeSymbols, "line %d: %v", lineNumber, err)
		a.prog.Diagnostics.Add(diag.Diagnostic{Kind: diag.MultiplyDefinedSymbol, Line: lineNumber, Detail: label})
		return
	}
	a.tracer.Tracef(logging.LogScopeSymbols, "line %d: %s = %d", lineNumber, label, address)
}

func (a *assembler) secondPass() error {
	for _, in := range a.prog.Instructions {
		if !in.Imm.Resolved() {
			target := in.Imm.Symbol()
			address, ok := a.prog.Symbols.Lookup(target)
			if !ok {
				a.tracer.Tracef(logging.LogScopeSymbols, "line %d: %s is undefined", in.Line, target)
				a.prog.Diagnostics.Add(diag.Diagnostic{Kind: diag.UndefinedSymbol, Line: in.Line, Detail: target})
				continue
			}
			if err := in.Resolve(address); err != nil {
				return &FatalError{Line: in.Line, Context: in.Name + " " + target, cause: err}
			}
		}
		if err := in.Encode(); err != nil {
			return &FatalError{Line: in.Line, Context: in.Name, cause: err}
		}
		a.tracer.Detailf(logging.LogScopeEncode, "0x%04X: %s %s (line %d)", in.Address, in.Hex, in.Name, in.Line)
	}
	return nil
}

func firstField(text string) string {
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		return text[:i]
	}
	return text
}
