// Package errors implements pfind's error taxonomy: a small, closed set of
// error kinds, each classified as fatal or recoverable, plus a stack-aware
// wrapper for the fatal path that reaches main.
package errors

import (
	"fmt"
	"strings"

	goerrors "github.com/go-errors/errors"
)

// New creates a plain stack-carrying error, for callers (tests, workers)
// that just need an opaque error value rather than one of the classified
// kinds below.
func New(msg string) error {
	return goerrors.New(msg)
}

// Classified is implemented by every error kind in this package. A Classified
// error knows whether it should abort the process (Fatal) or simply be
// dropped / reported per-entry and the run continued.
type Classified interface {
	error
	Fatal() bool
}

// UnknownSpecifierError is raised when a unit or attribute alias can't be
// resolved (size unit, time unit, file-type tag). Offset is
// the byte position of the unresolvable alias in the original input.
type UnknownSpecifierError struct {
	Specifier string
	Offset    int
}

func (e *UnknownSpecifierError) Error() string {
	return fmt.Sprintf("unknown unit specifier: %s", e.Specifier)
}

func (e *UnknownSpecifierError) Fatal() bool { return true }

// UnknownCommandError is reserved for future subcommand dispatch.
type UnknownCommandError struct {
	Command string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command: %s", e.Command)
}

func (e *UnknownCommandError) Fatal() bool { return true }

// WrongTokenTypeError is raised when a token doesn't match what the grammar
// position expects, e.g. a user/group name that fails to resolve. Offset is
// the byte position in the original input where the offending token starts.
type WrongTokenTypeError struct {
	Detail string
	Offset int
}

func (e *WrongTokenTypeError) Error() string {
	return fmt.Sprintf("wrong token type: %s", e.Detail)
}

func (e *WrongTokenTypeError) Fatal() bool { return true }

// ParseFailureError wraps a low-level lexer/parser failure. Offset is the
// byte position in the original input where parsing stopped.
type ParseFailureError struct {
	Detail string
	Offset int
}

func (e *ParseFailureError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Detail)
}

func (e *ParseFailureError) Fatal() bool { return true }

// SomeTokensNotParsedError is raised when the parser succeeds but leaves
// non-whitespace input unconsumed. Offset is where the unconsumed remainder
// begins.
type SomeTokensNotParsedError struct {
	Remainder string
	Offset    int
}

func (e *SomeTokensNotParsedError) Error() string {
	return fmt.Sprintf("some tokens were not parsed: %q", e.Remainder)
}

func (e *SomeTokensNotParsedError) Fatal() bool { return true }

// IOError wraps any I/O failure encountered while evaluating a filter against
// an entry, including read timeouts. Non-fatal: the run continues.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error at %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Fatal() bool { return false }

// IgnoreError wraps a traversal error surfaced by the directory walker.
type IgnoreError struct {
	Path string
	Err  error
}

func (e *IgnoreError) Error() string {
	return fmt.Sprintf("traversal error at %s: %v", e.Path, e.Err)
}

func (e *IgnoreError) Unwrap() error { return e.Err }

func (e *IgnoreError) Fatal() bool { return false }

// NotAFileError is raised when the Size filter is applied to a non-regular
// entry.
type NotAFileError struct {
	Path string
}

func (e *NotAFileError) Error() string {
	return fmt.Sprintf("not a file: %s", e.Path)
}

func (e *NotAFileError) Fatal() bool { return false }

// SolverError is reserved for SAT-driven evaluation planning. Nothing
// raises it today; it exists so the taxonomy stays complete and future
// planner code has somewhere to put solver failures.
type SolverError struct {
	Statement string
	Err       error
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("solver error: %v, statement: %s", e.Err, e.Statement)
}

func (e *SolverError) Fatal() bool { return true }

// MultiError accumulates zero or more errors collected from independent
// workers (e.g. the worker pool's task results) into a single error value.
// A nil *MultiError is valid and behaves as the empty accumulator.
type MultiError struct {
	Errors []error
}

// Append adds every non-nil err in errs to m, allocating m if necessary, and
// returns the (possibly new) accumulator.
func (m *MultiError) Append(errs ...error) *MultiError {
	for _, err := range errs {
		if err == nil {
			continue
		}

		if m == nil {
			m = &MultiError{}
		}

		m.Errors = append(m.Errors, err)
	}

	return m
}

func (m *MultiError) Error() string {
	if m == nil || len(m.Errors) == 0 {
		return ""
	}

	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}

	msgs := make([]string, len(m.Errors))
	for i, err := range m.Errors {
		msgs[i] = err.Error()
	}

	return fmt.Sprintf("%d errors occurred: %s", len(m.Errors), strings.Join(msgs, "; "))
}

// ErrorOrNil returns m as an error if it carries at least one entry, or nil
// otherwise — including when m itself is nil.
func (m *MultiError) ErrorOrNil() error {
	if m == nil || len(m.Errors) == 0 {
		return nil
	}

	return m
}

// WithStack wraps a fatal error with a captured stack trace for top-level
// reporting in main. Non-fatal errors are returned unwrapped, since they're
// never printed with a trace.
func WithStack(err error) error {
	if err == nil {
		return nil
	}

	if c, ok := err.(Classified); ok && !c.Fatal() {
		return err
	}

	return goerrors.Wrap(err, 1)
}

// IsFatal reports whether err should abort the process. Unclassified errors
// (e.g. plain stdlib errors reaching the top level unexpectedly) are treated
// as fatal: an unclassified error reaching the top level is a bug, and the
// process fails closed rather than guessing it was recoverable.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var c Classified
	if asClassified(err, &c) {
		return c.Fatal()
	}

	return true
}

func asClassified(err error, target *Classified) bool {
	for err != nil {
		if c, ok := err.(Classified); ok {
			*target = c
			return true
		}

		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}

		err = u.Unwrap()
	}

	return false
}
