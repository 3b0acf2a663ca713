package assembler

import (
	"github.com/tmips/tmipsasm/internal/logging"
	"github.com/tmips/tmipsasm/internal/source"
)

// Config controls assembly behavior, with the default implementation as NewConfig.
type Config struct {
	strictRegisters bool
	maxLineLength   int
	trace           logging.LogScopes
}

// defaultConfig helps avoid copy/pasting the wrong defaults.
var defaultConfig = &Config{
	maxLineLength: source.DefaultMaxLineLength,
	trace:         logging.LogScopeNone,
}

// clone ensures all fields are copied.
func (c *Config) clone() *Config {
	return &Config{
		strictRegisters: c.strictRegisters,
		maxLineLength:   c.maxLineLength,
		trace:           c.trace,
	}
}

// NewConfig returns the default assembly behavior: unknown registers decode to zero, lines are at most
// source.DefaultMaxLineLength bytes and nothing is traced.
func NewConfig() *Config {
	return defaultConfig.clone()
}

// WithStrictRegisters fails assembly with an isa.OperandError when a register operand is not "$0", "$tN" or "$sN".
// Defaults to false, which decodes such operands as register zero.
func (c *Config) WithStrictRegisters(strict bool) *Config {
	ret := c.clone()
	ret.strictRegisters = strict
	return ret
}

// WithMaxLineLength bounds the byte length of a source line. Longer lines fail assembly with bufio.ErrTooLong.
// Defaults to source.DefaultMaxLineLength if not positive.
func (c *Config) WithMaxLineLength(maxLineLength int) *Config {
	if maxLineLength <= 0 {
		maxLineLength = source.DefaultMaxLineLength
	}
	ret := c.clone()
	ret.maxLineLength = maxLineLength
	return ret
}

// WithTrace enables glog traces for the given scopes. Traces are only written when glog verbosity is at least 1.
func (c *Config) WithTrace(scopes logging.LogScopes) *Config {
	ret := c.clone()
	ret.trace = scopes
	return ret
}
