// Package errs classifies pipeline failures so entry points can report where a
// run stopped. Every failure is fatal; the kind only says which side of the
// pipeline produced it.
package errs

import (
	"errors"
	"fmt"
)

// Kind is the failure class of a pipeline error.
type Kind string

const (
	KindUnknown          Kind = "unknown"
	KindConfig           Kind = "config"
	KindSourceRead       Kind = "source_read"
	KindDestinationWrite Kind = "destination_write"
	KindQuery            Kind = "query"
	KindData             Kind = "data"
	KindExport           Kind = "export"
)

// Error wraps an underlying error with a Kind and a short operation label.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap returns nil when err is nil. An error that already carries a Kind is
// re-labelled only if it was unknown.
func Wrap(kind Kind, err error, op string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && e.Kind != KindUnknown {
		if op == "" {
			return err
		}
		return &Error{Kind: e.Kind, Op: op, Err: err}
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf builds a classified error from a format string.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf reports the outermost classified kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err was classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
