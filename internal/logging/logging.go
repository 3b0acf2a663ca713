// Package logging includes the trace scopes of an assembly run. This is in an independent package to avoid
// dependency cycles.
//
// Traces are written with glog at verbosity 1 or higher, so a scope must be enabled and glog must be run with -v.
package logging

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang/glog"
)

type LogScopes uint64

const (
	LogScopeNone             = LogScopes(0)
	LogScopeSource LogScopes = 1 << iota
	LogScopeSymbols
	LogScopeEncode
	LogScopeData
	LogScopeAll = LogScopes(0xffffffffffffffff)
)

// ErrUnknownScope is returned by ParseScopes for a name that is not a log scope.
var ErrUnknownScope = errors.New("not a log scope")

func scopeName(s LogScopes) string {
	switch s {
	case LogScopeSource:
		return "source"
	case LogScopeSymbols:
		return "symbols"
	case LogScopeEncode:
		return "encode"
	case LogScopeData:
		return "data"
	default:
		return fmt.Sprintf("<unknown=%d>", s)
	}
}

// IsEnabled returns true if the scope (or group of scopes) is enabled.
func (f LogScopes) IsEnabled(scope LogScopes) bool {
	return f&scope != 0
}

// String implements fmt.Stringer by returning each enabled log scope.
func (f LogScopes) String() string {
	if f == LogScopeAll {
		return "all"
	}
	var builder strings.Builder
	for i := 0; i <= 63; i++ {
		target := LogScopes(1 << i)
		if f.IsEnabled(target) {
			if builder.Len() > 0 {
				builder.WriteByte('|')
			}
			builder.WriteString(scopeName(target))
		}
	}
	return builder.String()
}

// ParseScopes parses a comma-separated list of scope names, ex. "source,encode". "all" enables every scope.
func ParseScopes(input string) (LogScopes, error) {
	var f LogScopes
	for _, s := range strings.Split(input, ",") {
		switch strings.TrimSpace(s) {
		case "":
			continue
		case "all":
			f = LogScopeAll
		case "source":
			f |= LogScopeSource
		case "symbols":
			f |= LogScopeSymbols
		case "encode":
			f |= LogScopeEncode
		case "data":
			f |= LogScopeData
		default:
			return LogScopeNone, fmt.Errorf("%w: %q", ErrUnknownScope, s)
		}
	}
	return f, nil
}

// Tracer writes verbose glog lines for the enabled scopes.
type Tracer struct {
	scopes LogScopes
}

// NewTracer returns a Tracer for the given scopes.
func NewTracer(scopes LogScopes) Tracer {
	return Tracer{scopes: scopes}
}

// Enabled returns true if a trace of scope at the given glog verbosity would be written.
func (t Tracer) Enabled(scope LogScopes, level glog.Level) bool {
	return t.scopes.IsEnabled(scope) && bool(glog.V(level))
}

// Tracef writes a verbosity 1 trace line in scope.
func (t Tracer) Tracef(scope LogScopes, format string, args ...interface{}) {
	if t.Enabled(scope, 1) {
		glog.InfoDepth(1, scopeName(scope)+": "+fmt.Sprintf(format, args...))
	}
}

// Detailf writes a verbosity 2 trace line in scope, used once per emitted word.
func (t Tracer) Detailf(scope LogScopes, format string, args ...interface{}) {
	if t.Enabled(scope, 2) {
		glog.InfoDepth(1, scopeName(scope)+": "+fmt.Sprintf(format, args...))
	}
}
