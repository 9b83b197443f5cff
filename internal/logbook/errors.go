package logbook

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingData matches any MissingDataError.
	ErrMissingData = errors.New("missing logbook data")

	// ErrIO matches any IOError.
	ErrIO = errors.New("logbook output failed")

	// ErrInvalidData matches any InvalidDataError.
	ErrInvalidData = errors.New("invalid logbook data")

	// ErrUnknownFormat is returned for an unsupported output format.
	ErrUnknownFormat = errors.New("unknown output format")
)

// MissingDataError reports a required weekday or header field that is absent.
type MissingDataError struct {
	Field string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingData.Error(), e.Field)
}

func (e *MissingDataError) Unwrap() error { return ErrMissingData }

// InvalidDataError reports a header field whose value cannot be used.
type InvalidDataError struct {
	Field  string
	Reason string
}

func (e *InvalidDataError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidData.Error(), e.Field, e.Reason)
}

func (e *InvalidDataError) Unwrap() error { return ErrInvalidData }

// IOError reports a failure creating the output directory or writing the file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() []error { return []error{ErrIO, e.Err} }
