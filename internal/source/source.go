// Package source reads TMIPS assembly line by line and classifies lines before they reach the assembler.
package source

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// CommentMarker starts a comment that runs to the end of the line.
const CommentMarker = '#'

// DefaultMaxLineLength bounds a single source line in bytes.
const DefaultMaxLineLength = 4096

// Kind classifies a raw source line.
type Kind uint8

const (
	// KindBlank is a line of only spaces, tabs and line terminators.
	KindBlank Kind = iota
	// KindComment is a line whose first non-blank character is CommentMarker.
	KindComment
	// KindCode is anything else, possibly with an inline comment.
	KindCode
)

func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindComment:
		return "comment"
	case KindCode:
		return "code"
	}
	return fmt.Sprintf("<unknown=%d>", k)
}

// IsBlank returns true if line has nothing but spaces, tabs and line terminators.
func IsBlank(line string) bool {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}

// HasComment returns true if CommentMarker occurs anywhere in line.
func HasComment(line string) bool {
	return strings.IndexByte(line, CommentMarker) != -1
}

// IsComment returns true if the first character other than a space or tab is CommentMarker.
func IsComment(line string) bool {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ', '\t':
		case CommentMarker:
			return true
		default:
			return false
		}
	}
	return false
}

// StripComment truncates line at the first CommentMarker.
func StripComment(line string) string {
	if i := strings.IndexByte(line, CommentMarker); i != -1 {
		return line[:i]
	}
	return line
}

// Trim removes leading and trailing whitespace.
func Trim(line string) string {
	return strings.TrimSpace(line)
}

// Classify returns the Kind of line.
func Classify(line string) Kind {
	switch {
	case IsBlank(line):
		return KindBlank
	case IsComment(line):
		return KindComment
	default:
		return KindCode
	}
}

// Clean returns the statement text of line with any inline comment and surrounding whitespace removed, or false if
// the line is blank or a full comment.
//
// Note: A line such as "   # note" is a comment, while "add $t0, $t1, $t2 # note" is code with an inline comment.
func Clean(line string) (string, bool) {
	if Classify(line) != KindCode {
		return "", false
	}
	text := Trim(StripComment(line))
	return text, text != ""
}

// Line is a raw source line. Number is 1-based.
type Line struct {
	Number int
	Text   string
}

// Reader yields numbered source lines and retains their raw text for the error report.
type Reader struct {
	scanner *bufio.Scanner
	number  int
	raw     []string
}

// NewReader returns a Reader over r that fails with bufio.ErrTooLong on lines longer than maxLineLength bytes. A
// non-positive maxLineLength means DefaultMaxLineLength.
func NewReader(r io.Reader, maxLineLength int) *Reader {
	if maxLineLength <= 0 {
		maxLineLength = DefaultMaxLineLength
	}
	// The scanner needs room for a "\r\n" terminator, which is stripped.
	size := maxLineLength + 2
	initial := 256
	if initial > size {
		initial = size
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, initial), size)
	return &Reader{scanner: s}
}

// Next returns the next line, or false on EOF or error. Check Err after false.
func (r *Reader) Next() (Line, bool) {
	if !r.scanner.Scan() {
		return Line{}, false
	}
	r.number++
	text := strings.TrimSuffix(r.scanner.Text(), "\r")
	r.raw = append(r.raw, text)
	return Line{Number: r.number, Text: text}, true
}

// Err returns the first non-EOF error encountered.
func (r *Reader) Err() error {
	return r.scanner.Err()
}

// Number returns the number of the last line returned by Next.
func (r *Reader) Number() int {
	return r.number
}

// Lines returns the raw text of every line read so far, without line terminators.
func (r *Reader) Lines() []string {
	return r.raw
}
