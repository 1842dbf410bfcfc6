package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Sentinel errors. Every error returned by this package matches one of
// these with [errors.Is].
var (
	// ErrLex reports a malformed token or an unterminated string.
	ErrLex = NewError("lexical error")
	// ErrParse reports an unbalanced list or an unexpected end of input.
	ErrParse = NewError("parse error")
	// ErrEval reports special form misuse, an unknown symbol or procedure,
	// or a non-callable list head.
	ErrEval = NewError("evaluation error")
	// ErrBinding reports a builtin or lambda failing on its own semantics,
	// such as an operand of the wrong type.
	ErrBinding = NewError("binding error")
	// ErrArgumentCount reports a call with the wrong number of arguments.
	// The concrete error is always an [*ArgumentCountError].
	ErrArgumentCount = NewError("argument count mismatch")
	// ErrReadInput reports a failure reading script text.
	ErrReadInput = NewError("failed to read input")
	// ErrAssert reports a failed assert or assert-eq.
	ErrAssert = NewError("assertion failed")
)

// Error is an error with an optional cause and structured logging
// attributes. Errors derived from a sentinel with [Error.With],
// [Error.Wrap], or [Error.Wrapf] match that sentinel with [errors.Is].
type Error struct {
	base  *Error
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError converts err into an *Error, returning it unchanged if it
// already is one.
func WrapError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	return &Error{err: err}
}

// Error renders "msg: detail: cause", omitting empty parts. Attributes
// are rendered as key=value pairs in the detail.
func (e *Error) Error() string {
	part := make([]string, 0, 3)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if len(e.attrs) > 0 {
		kv := make([]string, 0, len(e.attrs))
		for _, a := range e.attrs {
			kv = append(kv, a.Key+"="+attrString(a.Value))
		}

		part = append(part, strings.Join(kv, " "))
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

func attrString(v slog.Value) string {
	if v.Kind() == slog.KindString {
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"=") {
			return strconv.Quote(s)
		}

		return s
	}

	return v.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e == t || (e.base != nil && e.base == t)
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	attrs = append(attrs, e.attrs...)

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(attrs...)
}

// Attrs returns the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr { return e.attrs }

func (e *Error) derive() *Error {
	base := e.base
	if base == nil {
		base = e
	}

	return &Error{base: base, msg: e.msg, err: e.err, attrs: e.attrs}
}

// Wrap returns a copy of e with err as its cause.
func (e *Error) Wrap(err error) *Error {
	d := e.derive()
	d.err = err

	return d
}

// Wrapf returns a copy of e with a formatted cause.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	d := e.derive()
	d.attrs = make([]slog.Attr, 0, len(e.attrs)+len(attrs))
	d.attrs = append(append(d.attrs, e.attrs...), attrs...)

	return d
}

// WithPosition returns a copy of e annotated with a source position.
func (e *Error) WithPosition(pos Position) *Error {
	return e.With(slog.Int("line", pos.Line), slog.Int("column", pos.Column))
}

// ArgumentCountError reports a call with the wrong number of arguments.
// It matches [ErrArgumentCount] with [errors.Is].
type ArgumentCountError struct {
	// Name is the procedure called, empty for anonymous lambdas.
	Name     string
	Expected int
	Actual   int
	// AtLeast is set when the procedure is variadic and Expected is the
	// minimum count.
	AtLeast bool
}

func (e *ArgumentCountError) Error() string {
	var sb strings.Builder

	sb.WriteString(ErrArgumentCount.msg)

	if e.Name != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Name)
	}

	sb.WriteString(": expected ")

	if e.AtLeast {
		sb.WriteString("at least ")
	}

	sb.WriteString(strconv.Itoa(e.Expected))
	sb.WriteString(", got ")
	sb.WriteString(strconv.Itoa(e.Actual))

	return sb.String()
}

// Is matches [ErrArgumentCount].
func (e *ArgumentCountError) Is(target error) bool { return target == ErrArgumentCount }

// LogValue implements slog.LogValuer.
func (e *ArgumentCountError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrArgumentCount.msg),
		slog.String("name", e.Name),
		slog.Int("expected", e.Expected),
		slog.Int("actual", e.Actual),
		slog.Bool("at_least", e.AtLeast),
	)
}

// Position is a location in source text. Line and Column are 1-based;
// Column counts runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}
