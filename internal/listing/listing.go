// Package listing renders an assembled program as an object listing or, if it has diagnostics, an error report.
package listing

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tmips/tmipsasm/internal/assembler"
	"github.com/tmips/tmipsasm/internal/binstr"
	"github.com/tmips/tmipsasm/internal/diag"
)

// Write writes the object listing of prog, or its error report if prog.HasErrors.
func Write(w io.Writer, prog *assembler.Program) error {
	if prog.HasErrors() {
		return WriteErrors(w, prog)
	}
	return WriteObject(w, prog)
}

// WriteObject writes one "0x0000AAAA:\t0xWWWWWWWW" line per encoded instruction, then per data word, where AAAA is the
// hex address and WWWWWWWW the hex word.
func WriteObject(w io.Writer, prog *assembler.Program) error {
	bw := bufio.NewWriter(w)
	for _, in := range prog.Encoded() {
		if err := writeWord(bw, in.Address, in.Hex); err != nil {
			return err
		}
	}
	for _, d := range prog.Data {
		if err := writeWord(bw, d.Address, d.Hex); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeWord(w io.Writer, address int, hex string) error {
	addr, err := binstr.AddrToHex(address)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "0x0000%s:\t0x%s\n", addr, hex)
	return err
}

// WriteErrors writes the numbered source, then the diagnostics of each line, then the names of multiply defined and
// undefined symbols.
func WriteErrors(w io.Writer, prog *assembler.Program) error {
	bw := bufio.NewWriter(w)
	for i, line := range prog.Source {
		fmt.Fprintf(bw, "%2d   %s\n", i+1, line)
	}

	bw.WriteString("\nErrors detected:\n\n")
	for _, d := range prog.Diagnostics.Entries() {
		if msg := d.Kind.Message(); msg != "" {
			fmt.Fprintf(bw, "  line %2d:  %s\n", d.Line, msg)
		}
	}
	bw.WriteString("\n")

	writeNames(bw, "Multiply defined symbol(s):", prog.Diagnostics.Of(diag.MultiplyDefinedSymbol))
	bw.WriteString("\n")
	writeNames(bw, "Undefined symbol(s):", prog.Diagnostics.Of(diag.UndefinedSymbol))
	return bw.Flush()
}

func writeNames(w *bufio.Writer, heading string, ds []diag.Diagnostic) {
	if len(ds) == 0 {
		return
	}
	w.WriteString(heading)
	w.WriteString("\n\n")
	for _, d := range ds {
		fmt.Fprintf(w, "  %s\n", d.Detail)
	}
}
