package binstr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSigned(t *testing.T) {
	for _, tt := range []struct {
		name     string
		value    int64
		width    int
		expected string
	}{
		{name: "zero", value: 0, width: 16, expected: "0000000000000000"},
		{name: "five", value: 5, width: 16, expected: "0000000000000101"},
		{name: "minus one", value: -1, width: 16, expected: "1111111111111111"},
		{name: "minus two", value: -2, width: 16, expected: "1111111111111110"},
		{name: "most negative 16", value: -32768, width: 16, expected: "1000000000000000"},
		{name: "largest unsigned 16", value: 65535, width: 16, expected: "1111111111111111"},
		{name: "minus one 32", value: -1, width: 32, expected: "11111111111111111111111111111111"},
		{name: "register width", value: 17, width: 5, expected: "10001"},
	} {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			actual, err := Signed(tc.value, tc.width)
			require.NoError(t, err)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestSigned_Range(t *testing.T) {
	for _, tt := range []struct {
		value int64
		width int
	}{
		{value: 65536, width: 16},
		{value: -32769, width: 16},
		{value: 1 << 32, width: 32},
		{value: -(1 << 31) - 1, width: 32},
	} {
		_, err := Signed(tt.value, tt.width)
		var rangeErr *RangeError
		require.True(t, errors.As(err, &rangeErr), "%d in %d bits", tt.value, tt.width)
		require.Equal(t, tt.value, rangeErr.Value)
		require.Equal(t, tt.width, rangeErr.Width)
	}

	_, err := Signed(0, 33)
	require.EqualError(t, err, "unsupported field width 33")
}

func TestDecode(t *testing.T) {
	for _, v := range []int64{-32768, -1, 0, 1, 5, 32767} {
		bits, err := Signed(v, 16)
		require.NoError(t, err)
		actual, err := Decode(bits)
		require.NoError(t, err)
		require.Equal(t, v, actual)
	}

	_, err := Decode("10x1")
	require.ErrorIs(t, err, ErrInvalidBits)
}

func TestUnsigned(t *testing.T) {
	bits, err := Unsigned(8, 5)
	require.NoError(t, err)
	require.Equal(t, "01000", bits)

	_, err = Unsigned(32, 5)
	require.EqualError(t, err, "32 does not fit in 5 bits")

	_, err = Unsigned(-1, 16)
	require.Error(t, err)
}

func TestParseSigned(t *testing.T) {
	bits, err := ParseSigned(" -4 ", 16)
	require.NoError(t, err)
	require.Equal(t, "1111111111111100", bits)

	bits, err = ParseSigned("", 16)
	require.NoError(t, err)
	require.Equal(t, "0000000000000000", bits)

	_, err = ParseSigned("ten", 16)
	require.EqualError(t, err, `invalid literal "ten": invalid syntax`)

	_, err = ParseSigned("70000", 16)
	require.EqualError(t, err, "70000 does not fit in 16 bits")
}

func TestLeadingInt(t *testing.T) {
	for _, tt := range []struct {
		input    string
		expected int64
	}{
		{input: "4096", expected: 4096},
		{input: "4096:1", expected: 4096},
		{input: "-12abc", expected: -12},
		{input: "abc", expected: 0},
		{input: "", expected: 0},
		{input: "-", expected: 0},
	} {
		actual, err := LeadingInt(tt.input)
		require.NoError(t, err, tt.input)
		require.Equal(t, tt.expected, actual, tt.input)
	}

	_, err := LeadingInt("99999999999999999999")
	require.Error(t, err)
}

func TestSubRange(t *testing.T) {
	upper, err := SubRange(0x12345678, 31, 16)
	require.NoError(t, err)
	require.Equal(t, "0001001000110100", upper)

	lower, err := SubRange(0x12345678, 15, 0)
	require.NoError(t, err)
	require.Equal(t, "0101011001111000", lower)

	narrow, err := SubRange(0xff, 3, 0)
	require.NoError(t, err)
	require.Equal(t, "0000000000001111", narrow)

	neg, err := SubRange(-1, 31, 16)
	require.NoError(t, err)
	require.Equal(t, "1111111111111111", neg)

	_, err = SubRange(1, 31, 0)
	require.EqualError(t, err, "invalid bit range [31:0]")
}

func TestToHex(t *testing.T) {
	for _, tt := range []struct {
		bits, expected string
	}{
		{bits: "00000000000000000000000000000000", expected: "00000000"},
		{bits: "11111111111111111111111111111111", expected: "FFFFFFFF"},
		{bits: "00010010001101000101011001111000", expected: "12345678"},
		{bits: "1010101111001101", expected: "ABCD"},
	} {
		actual, err := ToHex(tt.bits)
		require.NoError(t, err)
		require.Equal(t, tt.expected, actual)
	}

	_, err := ToHex("101")
	require.ErrorIs(t, err, ErrInvalidBits)

	_, err = ToHex("10a1")
	require.ErrorIs(t, err, ErrInvalidBits)
}

func TestAddrToHex(t *testing.T) {
	hex, err := AddrToHex(0)
	require.NoError(t, err)
	require.Equal(t, "0000", hex)

	hex, err = AddrToHex(27)
	require.NoError(t, err)
	require.Equal(t, "001B", hex)

	_, err = AddrToHex(1 << 16)
	require.Error(t, err)
}
