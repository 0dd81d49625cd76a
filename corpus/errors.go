package corpus

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedLine is a field count or integer field error on an
	// annotation line.
	ErrMalformedLine = errors.New("malformed annotation line")

	// ErrMissingSideFile is returned when a required side file can not be
	// read.
	ErrMissingSideFile = errors.New("missing side file")

	// ErrParseCountMismatch is returned when a document has a different
	// number of parse trees and POS-tagged sentences.
	ErrParseCountMismatch = errors.New("parse and POS sentence counts differ")

	// ErrDependencyCountMismatch marks a document whose dependency data was
	// disabled. The loader logs it; it does not abort the load.
	ErrDependencyCountMismatch = errors.New("dependency and POS sentence counts differ")

	// ErrMentionOutOfRange is returned for a mention whose sentence offset
	// or token indexes fall outside the document.
	ErrMentionOutOfRange = errors.New("mention out of range")
)

// LineError reports a failure on one line of the annotation file.
type LineError struct {
	Path string
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v: %q", e.Path, e.Line, e.Err, e.Text)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// DocError reports a failure loading the side files of a document.
type DocError struct {
	Title string
	Path  string
	Err   error
}

func (e *DocError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("document %s: %v", e.Title, e.Err)
	}
	return fmt.Sprintf("document %s (%s): %v", e.Title, e.Path, e.Err)
}

func (e *DocError) Unwrap() error {
	return e.Err
}
