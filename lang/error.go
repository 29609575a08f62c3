package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Kind classifies an [Error] for programmatic handling.
type Kind int

// Error kinds.
const (
	KindInvalidToken Kind = iota
	KindSyntax
	KindParser
	KindUndefinedVariable
	KindType
	KindAssert
	KindInvalidOperation
	KindArgument
	KindIO
	KindRecursion
)

var kindName = [...]string{
	KindInvalidToken:      "InvalidToken",
	KindSyntax:            "SyntaxError",
	KindParser:            "ParserError",
	KindUndefinedVariable: "UndefinedVariable",
	KindType:              "TypeError",
	KindAssert:            "AssertError",
	KindInvalidOperation:  "InvalidOperation",
	KindArgument:          "ArgumentError",
	KindIO:                "IOError",
	KindRecursion:         "RecursionError",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindName) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindName[k]
}

// Predefined errors (sentinel values), one per [Kind].
//
// Sentinels carry no message or position; use [Error.At] and [Error.Msgf]
// to derive a concrete error. [errors.Is] matches any error of the same kind.
var (
	ErrInvalidToken      = NewError(KindInvalidToken)
	ErrSyntax            = NewError(KindSyntax)
	ErrParser            = NewError(KindParser)
	ErrUndefinedVariable = NewError(KindUndefinedVariable)
	ErrType              = NewError(KindType)
	ErrAssert            = NewError(KindAssert)
	ErrInvalidOperation  = NewError(KindInvalidOperation)
	ErrArgument          = NewError(KindArgument)
	ErrIO                = NewError(KindIO)
	ErrRecursion         = NewError(KindRecursion)
)

// Error is a tokenizer, parser, or runtime failure with a source position.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	kind       Kind
	msg        string
	pos        Position
	err        error       // Wrapped error (for errors.Unwrap)
	attrs      []slog.Attr // Attributes for structured logging
	incomplete bool        // input ended where more was expected
}

// NewError creates a new Error of the given kind.
func NewError(kind Kind) *Error {
	return &Error{kind: kind}
}

// WrapError converts err into an *Error, returning it unchanged if it already
// is one. Foreign errors are classified as [KindIO].
func WrapError(err error) *Error {
	if err == nil {
		return nil
	}

	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{kind: KindIO, err: err}
}

// Kind returns the error classification.
func (e *Error) Kind() Kind { return e.kind }

// Pos returns the source position the error refers to.
func (e *Error) Pos() Position { return e.pos }

// Message returns the error message without kind or position.
func (e *Error) Message() string { return e.msg }

// Error implements the error interface.
//
// The format is "<kind>: <msg> at <position>[: <cause>]".
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.kind.String())

	if e.msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.msg)
	}

	if e.pos.IsInternal() {
		sb.WriteString(" ")
	} else {
		sb.WriteString(" at ")
	}

	sb.WriteString(e.pos.String())

	if e.err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error of the same kind. A target with a
// message must also match the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.kind == e.kind && (t.msg == "" || t.msg == e.msg)
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	attrs = append(attrs, slog.String("kind", e.kind.String()))

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	attrs = append(attrs, slog.String("pos", e.pos.String()))

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

func (e *Error) clone() *Error {
	c := *e

	return &c
}

// At returns a copy of e located at pos.
func (e *Error) At(pos Position) *Error {
	c := e.clone()
	c.pos = pos

	return c
}

// Msg returns a copy of e with the given message.
func (e *Error) Msg(msg string) *Error {
	c := e.clone()
	c.msg = msg

	return c
}

// Msgf returns a copy of e with a formatted message.
func (e *Error) Msgf(format string, args ...any) *Error {
	return e.Msg(fmt.Sprintf(format, args...))
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	c := e.clone()
	c.attrs = newAttrs

	return c
}

func (e *Error) incompleteInput() *Error {
	c := e.clone()
	c.incomplete = true

	return c
}

// IsIncomplete reports whether err was caused by input ending early, such as
// an unclosed brace or string. Interactive hosts use it to request more input.
func IsIncomplete(err error) bool {
	var ee *Error

	return errors.As(err, &ee) && ee.incomplete
}

// Snippet renders the source line that e refers to with a caret under the
// offending column. It returns "" when the position is internal or outside
// of source.
func (e *Error) Snippet(source string) string {
	if e.pos.IsInternal() {
		return ""
	}

	lines := strings.Split(source, "\n")
	if e.pos.Line < 1 || e.pos.Line > len(lines) {
		return ""
	}

	var sb strings.Builder

	num := strconv.Itoa(e.pos.Line)

	sb.WriteString("  ")
	sb.WriteString(num)
	sb.WriteString(" | ")
	sb.WriteString(strings.TrimRight(lines[e.pos.Line-1], "\r"))
	sb.WriteByte('\n')

	// 2 leading spaces + " | "
	sb.WriteString(strings.Repeat(" ", len(num)+5))

	if e.pos.Column > 1 {
		sb.WriteString(strings.Repeat(" ", e.pos.Column-1))
	}

	sb.WriteString("^\n")

	return sb.String()
}
