package assembler

import "fmt"

// FatalError is an error that stops assembly, such as a read failure or a literal that does not fit its field.
type FatalError struct {
	// Line is the 1-based source line of the error.
	Line int
	// Context is the statement being assembled, if any. Ex. "addi $t0, $t0, 70000"
	Context string
	cause   error
}

func (e *FatalError) Error() string {
	if e.Context == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.cause)
	}
	return fmt.Sprintf("line %d: %v in %q", e.Line, e.cause, e.Context)
}

func (e *FatalError) Unwrap() error {
	return e.cause
}
