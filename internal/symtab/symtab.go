// Package symtab implements the label table shared by both assembler passes.
//
// Labels are partitioned into a fixed number of buckets by a polynomial string hash. Each bucket keeps its symbols in
// insertion order. The first definition of a name is authoritative: redefinitions are rejected without changing it.
package symtab

import (
	"errors"
	"fmt"
)

const (
	// DefaultBuckets is the bucket count of every assembly run.
	DefaultBuckets = 13

	// base is the multiplier of the polynomial hash.
	base = 127
)

// ErrAlreadyDefined is wrapped by AlreadyDefinedError.
var ErrAlreadyDefined = errors.New("symbol already defined")

// AlreadyDefinedError is returned by Table.Insert when Name was defined before. Address is the authoritative one.
type AlreadyDefinedError struct {
	Name    string
	Address int
}

func (e *AlreadyDefinedError) Error() string {
	return fmt.Sprintf("%s: %s at address %d", ErrAlreadyDefined, e.Name, e.Address)
}

func (e *AlreadyDefinedError) Unwrap() error {
	return ErrAlreadyDefined
}

// Symbol is a label bound to a word address.
type Symbol struct {
	Name    string
	Address int
}

// Table maps label names to addresses. The zero value is not usable: use New.
type Table struct {
	buckets [][]Symbol
	count   int
}

// New returns an empty table with DefaultBuckets buckets.
func New() *Table {
	return NewWithBuckets(DefaultBuckets)
}

// NewWithBuckets returns an empty table with n buckets. This panics if n is less than 2.
func NewWithBuckets(n int) *Table {
	if n < 2 {
		panic(fmt.Sprintf("BUG: bucket count %d < 2", n))
	}
	return &Table{buckets: make([][]Symbol, n)}
}

// Hash returns the bucket of name in a table of size buckets, in the range [0, buckets).
//
// Each byte is folded in as h = |base*h + b| mod buckets, where b is signed. Bytes 0x80 and above are negative.
func Hash(name string, buckets int) int {
	h := 0
	for i := 0; i < len(name); i++ {
		v := base*h + int(int8(name[i]))
		if v < 0 {
			v = -v
		}
		h = v % buckets
	}
	return h
}

// Insert binds name to address unless name is already bound, in which case this returns an AlreadyDefinedError and
// leaves the table unchanged.
func (t *Table) Insert(name string, address int) error {
	b := Hash(name, len(t.buckets))
	for _, s := range t.buckets[b] {
		if s.Name == name {
			return &AlreadyDefinedError{Name: name, Address: s.Address}
		}
	}
	t.buckets[b] = append(t.buckets[b], Symbol{Name: name, Address: address})
	t.count++
	return nil
}

// Lookup returns the address bound to name, or false if it was never inserted.
func (t *Table) Lookup(name string) (address int, ok bool) {
	for _, s := range t.buckets[Hash(name, len(t.buckets))] {
		if s.Name == name {
			return s.Address, true
		}
	}
	return 0, false
}

// Len returns the count of distinct symbols.
func (t *Table) Len() int {
	return t.count
}

// Buckets returns the fixed bucket count.
func (t *Table) Buckets() int {
	return len(t.buckets)
}

// Symbols returns all symbols in bucket order, then insertion order within each bucket.
func (t *Table) Symbols() []Symbol {
	ret := make([]Symbol, 0, t.count)
	for _, b := range t.buckets {
		ret = append(ret, b...)
	}
	return ret
}
