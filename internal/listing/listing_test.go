package listing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tmips/tmipsasm/internal/assembler"
)

func assemble(t *testing.T, src string) *assembler.Program {
	prog, err := assembler.Assemble(strings.NewReader(src), nil)
	require.NoError(t, err)
	return prog
}

func TestWrite_Object(t *testing.T) {
	prog := assemble(t, `.text
	j end
end: add $t0, $s1, $s2
.data
x: .word -1:2
buf: .resw 1
`)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, prog))
	require.Equal(t, "0x00000000:\t0x08000001\n"+
		"0x00000001:\t0x82324000\n"+
		"0x00000002:\t0xFFFFFFFF\n"+
		"0x00000003:\t0xFFFFFFFF\n"+
		"0x00000004:\t0x00000000\n", buf.String())
}

func TestWrite_Errors(t *testing.T) {
	prog := assemble(t, `.text
L: j missing
mul $t0, $t0, $t0
L: add $t0, $t0, $t0
j gone
`)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, prog))
	require.Equal(t, ` 1   .text
 2   L: j missing
 3   mul $t0, $t0, $t0
 4   L: add $t0, $t0, $t0
 5   j gone

Errors detected:

  line  2:  Undefined symbol used.
  line  3:  Illegal opcode.
  line  5:  Undefined symbol used.

Multiply defined symbol(s):

  L

Undefined symbol(s):

  missing
  gone
`, buf.String())
}

func TestWriteErrors_OnlyIllegalOpcode(t *testing.T) {
	prog := assemble(t, ".text\nsub $t0, $t0, $t0\n")
	var buf bytes.Buffer
	require.NoError(t, WriteErrors(&buf, prog))
	require.Equal(t, ` 1   .text
 2   sub $t0, $t0, $t0

Errors detected:

  line  2:  Illegal opcode.


`, buf.String())
}

func TestWriteObject_Empty(t *testing.T) {
	prog := assemble(t, "")
	var buf bytes.Buffer
	require.NoError(t, WriteObject(&buf, prog))
	require.Equal(t, "", buf.String())
}
