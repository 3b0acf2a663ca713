// Package diag collects the recoverable errors of an assembly run, ordered by source line.
package diag

import (
	"fmt"
	"sort"
)

// Kind is the class of a Diagnostic.
type Kind uint8

const (
	// IllegalOpcode is an unrecognized instruction mnemonic. The statement produces no instruction.
	IllegalOpcode Kind = iota
	// UndefinedSymbol is a branch or jump target that no label defines. The instruction is dropped.
	UndefinedSymbol
	// MultiplyDefinedSymbol is a label defined more than once. The first definition is kept.
	MultiplyDefinedSymbol
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case IllegalOpcode:
		return "illegal opcode"
	case UndefinedSymbol:
		return "undefined symbol"
	case MultiplyDefinedSymbol:
		return "multiply defined symbol"
	}
	return fmt.Sprintf("<unknown=%d>", k)
}

// Message is the sentence used for this kind in the per-line section of an error report, or empty if the kind is only
// listed by name.
func (k Kind) Message() string {
	switch k {
	case IllegalOpcode:
		return "Illegal opcode."
	case UndefinedSymbol:
		return "Undefined symbol used."
	}
	return ""
}

// Diagnostic is a recoverable error found at a source line. Detail is the offending opcode or symbol name.
type Diagnostic struct {
	Kind   Kind
	Line   int
	Detail string
}

// String implements fmt.Stringer.
func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s %s", d.Line, d.Kind, d.Detail)
}

// Ledger is a sequence of diagnostics kept sorted ascending by Line. Diagnostics on the same line stay in the order
// they were added.
type Ledger struct {
	entries []Diagnostic
}

// Add inserts d after every entry with a line less than or equal to d.Line.
func (l *Ledger) Add(d Diagnostic) {
	i := sort.Search(len(l.entries), func(i int) bool {
		return l.entries[i].Line > d.Line
	})
	l.entries = append(l.entries, Diagnostic{})
	copy(l.entries[i+1:], l.entries[i:])
	l.entries[i] = d
}

// Len returns the count of diagnostics.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns all diagnostics in line order. Do not modify the result.
func (l *Ledger) Entries() []Diagnostic {
	return l.entries
}

// Of returns the diagnostics of the given kind in line order.
func (l *Ledger) Of(kind Kind) (ret []Diagnostic) {
	for _, d := range l.entries {
		if d.Kind == kind {
			ret = append(ret, d)
		}
	}
	return
}

// Has returns true if any diagnostic is of the given kind.
func (l *Ledger) Has(kind Kind) bool {
	for _, d := range l.entries {
		if d.Kind == kind {
			return true
		}
	}
	return false
}
