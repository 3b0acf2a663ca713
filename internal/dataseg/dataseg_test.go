package dataseg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tmips/tmipsasm/internal/binstr"
)

func TestParseDirective(t *testing.T) {
	tests := []struct {
		input    string
		expected Directive
	}{
		{input: "x: .word 5:2", expected: Directive{Line: 3, Label: "x", Name: ".word", Args: "5:2"}},
		{input: "x .word 5", expected: Directive{Line: 3, Label: "x", Name: ".word", Args: "5"}},
		{input: "buf:\t.resw\t4", expected: Directive{Line: 3, Label: "buf", Name: ".resw", Args: "4"}},
		{input: ".resw 2", expected: Directive{Line: 3, Name: ".resw", Args: "2"}},
		{input: "only:", expected: Directive{Line: 3, Label: "only"}},
		{input: "", expected: Directive{Line: 3}},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.input, func(t *testing.T) {
			require.Equal(t, tc.expected, ParseDirective(3, tc.input))
		})
	}
}

func TestDirective_Expand(t *testing.T) {
	tests := []struct {
		input    string
		expected []Word
	}{
		{
			input: "x: .word 5:2",
			expected: []Word{
				{Address: 10, Line: 1, Label: "x", Binary: "00000000000000000000000000000101", Hex: "00000005"},
				{Address: 11, Line: 1, Label: "x", Binary: "00000000000000000000000000000101", Hex: "00000005"},
			},
		},
		{
			input: "neg: .word -1",
			expected: []Word{
				{Address: 10, Line: 1, Label: "neg", Binary: "11111111111111111111111111111111", Hex: "FFFFFFFF"},
			},
		},
		{
			input: "buf: .resw 3",
			expected: []Word{
				{Address: 10, Line: 1, Label: "buf", Binary: "00000000000000000000000000000000", Hex: "00000000"},
				{Address: 11, Line: 1, Label: "buf", Binary: "00000000000000000000000000000000", Hex: "00000000"},
				{Address: 12, Line: 1, Label: "buf", Binary: "00000000000000000000000000000000", Hex: "00000000"},
			},
		},
		{input: "none: .word 7:0"},
		{input: "skip: .asciiz hello"},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.input, func(t *testing.T) {
			d := ParseDirective(1, tc.input)
			words, err := d.Expand(10)
			require.NoError(t, err)
			require.Equal(t, tc.expected, words)
		})
	}
}

func TestDirective_Expand_Errors(t *testing.T) {
	tests := []struct {
		input       string
		expectedErr string
	}{
		{input: "x: .word 4294967296", expectedErr: "4294967296 does not fit in 32 bits"},
		{input: "x: .word ten:1", expectedErr: `invalid literal "ten": invalid syntax`},
		{input: "x: .word 1:many", expectedErr: `invalid literal "many": invalid syntax`},
		{input: "x: .resw -1", expectedErr: "-1 does not fit in 32 bits"},
		{input: "x: .resw 65536", expectedErr: "65536 does not fit in 16 bits"},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.input, func(t *testing.T) {
			d := ParseDirective(1, tc.input)
			_, err := d.Expand(1)
			require.EqualError(t, err, tc.expectedErr)
		})
	}
}

func TestDirective_Expand_RangeErrorType(t *testing.T) {
	d := ParseDirective(1, "x: .resw -2")
	_, err := d.Expand(0)
	var rangeErr *binstr.RangeError
	require.True(t, errors.As(err, &rangeErr))
	require.Equal(t, int64(-2), rangeErr.Value)
}

func TestDirective_Known(t *testing.T) {
	for _, input := range []string{"a: .word 1", "b: .resw 1"} {
		d := ParseDirective(1, input)
		require.True(t, d.Known(), input)
	}
	d := ParseDirective(1, "c: .space 4")
	require.False(t, d.Known())
}
