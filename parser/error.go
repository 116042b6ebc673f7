package parser

import (
	"errors"
	"fmt"
)

// ErrorKind classifies front-end failures by the layer that produced them.
type ErrorKind int

const (
	// ErrLex covers malformed lexical input, currently only number
	// literals the float parser rejects.
	ErrLex ErrorKind = iota
	// ErrParse covers unexpected tokens, unterminated groups, and missing
	// punctuation.
	ErrParse
	// ErrSemantic covers failures found while lowering a well-formed tree:
	// unknown variables, unknown functions, arity mismatches, and
	// operators with no lowering.
	ErrSemantic
)

func (k ErrorKind) String() string {
	switch k {
	case ErrLex:
		return "lex"
	case ErrParse:
		return "parse"
	case ErrSemantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// Error represents a front-end failure with classification metadata.
type Error struct {
	Err        error
	Kind       ErrorKind
	Incomplete bool
}

func (e *Error) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func lexErrorf(pos Position, format string, args ...interface{}) error {
	return &Error{
		Err:  positionedErrorf(pos, format, args...),
		Kind: ErrLex,
	}
}

func parseErrorf(pos Position, format string, args ...interface{}) error {
	return &Error{
		Err:  positionedErrorf(pos, format, args...),
		Kind: ErrParse,
	}
}

func incompleteErrorf(pos Position, format string, args ...interface{}) error {
	return &Error{
		Err:        positionedErrorf(pos, format, args...),
		Kind:       ErrParse,
		Incomplete: true,
	}
}

func semanticErrorf(pos Position, format string, args ...interface{}) error {
	return &Error{
		Err:  positionedErrorf(pos, format, args...),
		Kind: ErrSemantic,
	}
}

func positionedErrorf(pos Position, format string, args ...interface{}) error {
	return fmt.Errorf("%d:%d: %s", pos.Line, pos.Column, fmt.Sprintf(format, args...))
}

// IsIncomplete reports whether the error means the input ended in the
// middle of a form; more input could still complete it.
func IsIncomplete(err error) bool {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Incomplete
	}
	return false
}

// KindOf extracts the classification of a front-end error.
func KindOf(err error) (ErrorKind, bool) {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind, true
	}
	return 0, false
}
