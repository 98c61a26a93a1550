// SPDX-License-Identifier: MPL-2.0

// Package cliscan is a table-driven command-line scanner.
//
// A Table declares every recognized option once: its names, its arity and a
// caller-defined tag. Parse tokenizes an argument vector a single time with
// pflag and returns immutable Tokens: the recognized options in command-line
// order, the positional arguments that follow them, and the parse error, if
// any. Callers walk the options with one or more independent Cursors, which
// makes multi-pass resolution over the same input cheap and side-effect free.
//
// Scanning stops at the first positional argument or at "--", so everything
// after it is returned verbatim by Rest.
package cliscan

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/pflag"
	"golang.org/x/exp/slices"
)

// Arity describes how an option consumes its value.
const (
	// ArgNone is a boolean switch. "--flag=false" is accepted.
	ArgNone Arity = iota
	// ArgCount is a repeatable switch; each occurrence is one event.
	ArgCount
	// ArgInt takes a mandatory integer value.
	ArgInt
	// ArgString takes a mandatory string value.
	ArgString
	// ArgOptional takes an optional string value ("--flag" or "--flag=value").
	ArgOptional
)

// countIncrement is the value pflag passes to a counted switch.
const countIncrement = "+1"

// ErrNoValue is returned when a value is attached to a counted switch.
var ErrNoValue = errors.New("option does not take a value")

type (
	// Arity describes how an option consumes its value.
	Arity int

	// Option declares one recognized command-line option.
	Option[T comparable] struct {
		// Long is the option name without dashes, e.g. "nprocs".
		Long string
		// Short is the single-letter alias, or "" for none.
		Short string
		Arity Arity
		// Tag identifies the option to the caller.
		Tag T
		// ArgName names the value in usage output.
		ArgName string
		// Implied is the value used when an ArgOptional option has none.
		Implied string
		Help    string
	}

	// Group is a titled section of the option table.
	Group[T comparable] struct {
		Title   string
		Options []Option[T]
	}

	// Table is the complete, ordered option table.
	Table[T comparable] []Group[T]

	// Event is one recognized option occurrence.
	Event[T comparable] struct {
		Option Option[T]
		// Value is the raw value. Switches carry "true"/"false", counted
		// switches carry "+1" and integers are already known to parse.
		Value string
	}

	// Tokens is the immutable result of scanning one argument vector.
	Tokens[T comparable] struct {
		events []Event[T]
		rest   []string
		err    error
	}

	// Cursor walks the events of a Tokens value. Cursors are independent.
	Cursor[T comparable] struct {
		events []Event[T]
		pos    int
	}

	// recorder is the pflag.Value bound to every option. It validates the
	// value for the option's arity and appends an Event.
	recorder[T comparable] struct {
		opt    Option[T]
		events *[]Event[T]
		last   string
	}
)

// Parse tokenizes argv against table. It never fails: a parse error is kept
// in the returned Tokens together with the events recognized before it.
func Parse[T comparable](name string, table Table[T], argv []string) Tokens[T] {
	var events []Event[T]

	fs := newFlagSet(name)
	for _, group := range table {
		for _, opt := range group.Options {
			register(fs, &recorder[T]{opt: opt, events: &events})
		}
	}

	err := fs.Parse(argv)

	var rest []string
	if err == nil {
		rest = slices.Clone(fs.Args())
	}
	return Tokens[T]{events: events, rest: rest, err: err}
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(false)
	fs.SortFlags = false
	fs.Usage = func() {}
	return fs
}

func register[T comparable](fs *pflag.FlagSet, rec *recorder[T]) {
	f := fs.VarPF(rec, rec.opt.Long, rec.opt.Short, rec.opt.Help)
	switch rec.opt.Arity {
	case ArgNone:
		f.NoOptDefVal = "true"
	case ArgCount:
		f.NoOptDefVal = countIncrement
	case ArgOptional:
		f.NoOptDefVal = rec.opt.Implied
	}
}

// Err returns the scan error, or nil when the whole vector was understood.
func (t Tokens[T]) Err() error { return t.err }

// Len returns the number of recognized option occurrences.
func (t Tokens[T]) Len() int { return len(t.events) }

// Rest returns the positional arguments after the options. It is nil when
// the scan failed.
func (t Tokens[T]) Rest() []string { return slices.Clone(t.rest) }

// Cursor returns a new cursor positioned before the first event.
func (t Tokens[T]) Cursor() *Cursor[T] {
	return &Cursor[T]{events: t.events}
}

// Next returns the next event, or false when the cursor is exhausted.
func (c *Cursor[T]) Next() (Event[T], bool) {
	if c.pos >= len(c.events) {
		return Event[T]{}, false
	}
	ev := c.events[c.pos]
	c.pos++
	return ev, true
}

// Reset rewinds the cursor to the first event.
func (c *Cursor[T]) Reset() { c.pos = 0 }

// Int returns the value of an ArgInt event.
func (e Event[T]) Int() int {
	n, _ := strconv.Atoi(e.Value)
	return n
}

// Bool returns the value of an ArgNone event.
func (e Event[T]) Bool() bool {
	b, _ := strconv.ParseBool(e.Value)
	return b
}

// Name returns the long option name with its dashes, for messages.
func (e Event[T]) Name() string { return "--" + e.Option.Long }

func (r *recorder[T]) String() string { return r.last }

func (r *recorder[T]) Set(value string) error {
	switch r.opt.Arity {
	case ArgNone:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		value = strconv.FormatBool(b)
	case ArgCount:
		if value != countIncrement {
			return ErrNoValue
		}
	case ArgInt:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("%q is not an integer", value)
		}
	}

	r.last = value
	*r.events = append(*r.events, Event[T]{Option: r.opt, Value: value})
	return nil
}

func (r *recorder[T]) Type() string {
	switch r.opt.Arity {
	case ArgNone:
		return "bool"
	case ArgCount:
		return "count"
	}
	if r.opt.ArgName != "" {
		return r.opt.ArgName
	}
	if r.opt.Arity == ArgInt {
		return "int"
	}
	return "string"
}
