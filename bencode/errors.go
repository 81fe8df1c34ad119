package bencode

import (
	"errors"
	"fmt"
)

var (
	ErrUnrecognizedTag  = errors.New("unrecognized tag")
	ErrMalformedInteger = errors.New("malformed integer")
	ErrMalformedLength  = errors.New("malformed byte string length")
	ErrTruncatedInput   = errors.New("truncated input")
	ErrNonStringKey     = errors.New("dictionary key is not a byte string")
	ErrDuplicateKey     = errors.New("duplicate dictionary key")
	ErrNestingTooDeep   = errors.New("nesting too deep")
	ErrTrailingData     = errors.New("trailing data after value")
	ErrNilValue         = errors.New("cannot encode nil value")
)

// SyntaxError describes where in the input decoding failed. Err is one of the
// package sentinels so callers can match with errors.Is.
type SyntaxError struct {
	Offset int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("bencode: %v at offset %d", e.Err, e.Offset)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func syntaxErr(offset int, err error) error {
	return &SyntaxError{Offset: offset, Err: err}
}
