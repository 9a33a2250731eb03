// Package errors provides error wrapping with slog annotations and source locations.
//
// It re-exports the standard library helpers so that callers only need one errors import.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

// callerSkip skips runtime.Callers and the constructor frame so that the
// recorded source location points at the caller of Wrap or NewSentinel.
const callerSkip = 2

// AnnotatedError is an error carrying a message, optional slog annotations,
// and the source location where it was created.
type AnnotatedError struct {
	msg   string
	err   error
	attrs []slog.Attr
	pc    uintptr
}

// NewSentinel creates a sentinel error that records its creation site.
func NewSentinel(msg string) error {
	return &AnnotatedError{
		msg:   msg,
		err:   nil,
		attrs: nil,
		pc:    caller(),
	}
}

// Wrap annotates err with a message and optional [slog.Attr] annotations.
//
// The resulting error message is "msg: err". The annotations are surfaced in
// logs through [SlogError].
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &AnnotatedError{
		msg:   msg,
		err:   err,
		attrs: attrs,
		pc:    caller(),
	}
}

func caller() uintptr {
	var pcs [1]uintptr
	runtime.Callers(callerSkip+1, pcs[:])
	return pcs[0]
}

// Error implements the error interface.
func (e *AnnotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

// Unwrap supports [errors.Is] and [errors.As].
func (e *AnnotatedError) Unwrap() error {
	return e.err
}

// source resolves the recorded program counter to a "file:line" string.
func (e *AnnotatedError) source() string {
	if e.pc == 0 {
		return ""
	}
	frames := runtime.CallersFrames([]uintptr{e.pc})
	frame, _ := frames.Next()
	if frame.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
}

// SlogError converts err into a [slog.Attr] for structured logging.
//
// The attribute contains the error message, the source location of the
// outermost annotated error, and all annotations collected from the error chain.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}

	attrs := []any{slog.String("message", err.Error())}

	var annotated *AnnotatedError
	if errors.As(err, &annotated) {
		if src := annotated.source(); src != "" {
			attrs = append(attrs, slog.String("source", src))
		}
	}

	if annotations := collectAnnotations(err); len(annotations) > 0 {
		args := make([]any, 0, len(annotations))
		for _, a := range annotations {
			args = append(args, a)
		}
		attrs = append(attrs, slog.Group("annotations", args...))
	}

	return slog.Group("error", attrs...)
}

// collectAnnotations walks the error chain gathering annotations from every
// annotated error, outermost first.
func collectAnnotations(err error) []slog.Attr {
	var annotations []slog.Attr
	for err != nil {
		var annotated *AnnotatedError
		if !errors.As(err, &annotated) {
			break
		}
		annotations = append(annotations, annotated.attrs...)
		err = annotated.Unwrap()
	}
	return annotations
}

// DecoratePanic converts a recovered panic value into an annotated error whose
// source location points at the panic site. Returns nil when p is nil.
func DecoratePanic(p any) error {
	if p == nil {
		return nil
	}

	var pcs [32]uintptr
	n := runtime.Callers(1, pcs[:])

	// Walk past the runtime panic machinery. The first non-runtime frame after
	// runtime.gopanic is the function that panicked.
	var pc uintptr
	seenGopanic := false
	for _, candidate := range pcs[:n] {
		frames := runtime.CallersFrames([]uintptr{candidate})
		frame, _ := frames.Next()
		if strings.HasPrefix(frame.Function, "runtime.") {
			if frame.Function == "runtime.gopanic" {
				seenGopanic = true
			}
			continue
		}
		if seenGopanic {
			pc = candidate
			break
		}
	}

	return &AnnotatedError{
		msg:   fmt.Sprintf("panic: %v", p),
		err:   nil,
		attrs: nil,
		pc:    pc,
	}
}

// New re-exports [errors.New].
func New(text string) error {
	return errors.New(text)
}

// Is re-exports [errors.Is].
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As re-exports [errors.As].
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap re-exports [errors.Unwrap].
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join re-exports [errors.Join].
func Join(errs ...error) error {
	return errors.Join(errs...)
}
