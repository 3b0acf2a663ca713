// Package dataseg expands data section directives into 32-bit words.
package dataseg

import (
	"strings"

	"github.com/tmips/tmipsasm/internal/binstr"
)

const (
	// DirectiveWord is ".word value:count", count words holding value.
	DirectiveWord = ".word"
	// DirectiveReserve is ".resw count", count zero words.
	DirectiveReserve = ".resw"

	// MaxAddress is the highest word address of the data section.
	MaxAddress = 1<<16 - 1
)

// Word is a single word of the data section.
type Word struct {
	// Address is the word index, continuing after the last instruction.
	Address int
	Line    int
	Label   string
	// Binary is the 32-bit two's complement value.
	Binary string
	// Hex is Binary as 8 hex digits.
	Hex string
}

// Directive is a data section line split into its parts.
type Directive struct {
	Line int
	// Label is the first token with any trailing colon removed, or empty when the line starts with a directive.
	Label string
	Name  string
	// Args is the remainder of the line after Name.
	Args string
}

// ParseDirective splits a cleaned data section line. Ex. "buf: .resw 4" has the label "buf", name ".resw" and args
// "4".
func ParseDirective(line int, text string) Directive {
	d := Directive{Line: line}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return d
	}
	if !strings.HasPrefix(fields[0], ".") {
		d.Label = strings.TrimSuffix(fields[0], ":")
		fields = fields[1:]
	}
	if len(fields) > 0 {
		d.Name = fields[0]
		d.Args = strings.Join(fields[1:], " ")
	}
	return d
}

// Known returns true if Expand appends words for this directive.
func (d *Directive) Known() bool {
	return d.Name == DirectiveWord || d.Name == DirectiveReserve
}

// Expand returns the words of d, the first at address. Unknown directives return no words.
func (d *Directive) Expand(address int) ([]Word, error) {
	var value, count int64
	var err error
	switch d.Name {
	case DirectiveWord:
		valueToken, countToken, hasCount := strings.Cut(d.Args, ":")
		if value, err = binstr.ParseDecimal(valueToken); err != nil {
			return nil, err
		}
		count = 1
		if hasCount {
			if count, err = binstr.ParseDecimal(countToken); err != nil {
				return nil, err
			}
		}
	case DirectiveReserve:
		if count, err = binstr.ParseDecimal(d.Args); err != nil {
			return nil, err
		}
	default:
		return nil, nil
	}
	if count < 0 {
		return nil, &binstr.RangeError{Value: count, Width: binstr.MaxWidth}
	}
	// Listing addresses are 16 bits.
	if last := int64(address) + count - 1; last > MaxAddress {
		return nil, &binstr.RangeError{Value: last, Width: 16}
	}

	bin, err := binstr.Signed(value, binstr.MaxWidth)
	if err != nil {
		return nil, err
	}
	hex, err := binstr.ToHex(bin)
	if err != nil {
		return nil, err
	}
	var words []Word
	for i := int64(0); i < count; i++ {
		words = append(words, Word{
			Address: address + int(i),
			Line:    d.Line,
			Label:   d.Label,
			Binary:  bin,
			Hex:     hex,
		})
	}
	return words, nil
}
