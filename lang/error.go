package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Every failure reported by the interpreter is an [*Error] derived from one
// of these, so callers can classify it with [errors.Is] and then keep using
// the same [Interpreter] for the next statement.
var (
	// Parse failures.
	ErrParse              = NewError("parse error")
	ErrUnexpectedChar     = NewError("unexpected character")
	ErrUnterminated       = NewError("unterminated literal")
	ErrExpected           = NewError("missing token")
	ErrInvalidTarget      = NewError("invalid assignment target")
	ErrMisplacedVariadic  = NewError("variadic marker must precede the last parameter")
	ErrInvalidNumber      = NewError("invalid number literal")
	ErrInvalidChar        = NewError("char literal must be exactly one character")
	ErrReadInput          = NewError("failed to read input")
	ErrVariableNotFound   = NewError("variable not found")
	ErrContainerNotFound  = NewError("container not found")
	ErrKeyNotFound        = NewError("key not found")
	ErrMemberNotFound     = NewError("member not found")
	ErrStaticContext      = NewError("instance member accessed from static context")
	ErrNullDereference    = NewError("null dereference")
	ErrReadOnly           = NewError("member is read-only")
	ErrTypeNotFound       = NewError("type not found")
	ErrNotCallable        = NewError("cannot call non-function value")
	ErrArity              = NewError("arity mismatch")
	ErrMaxDepth           = NewError("maximum call depth exceeded")
	ErrNoMatchingMethod   = NewError("no matching method")
	ErrNoMatchingCtor     = NewError("no matching constructor")
	ErrHostFailure        = NewError("host interop failed")
	ErrInvalidValue       = NewError("invalid value")
	ErrUnsupportedNative  = NewError("unsupported native value")
	ErrInvalidInstruction = NewError("invalid instruction")
)

// Errors returned across the [Interop] boundary by host adapters.
var (
	// ErrNotFound reports that a host type has no member with a given name.
	ErrNotFound = NewError("not found")
	// ErrTypeMismatch reports that arguments do not fit a member's
	// parameters. Constructor resolution skips candidates failing with it.
	ErrTypeMismatch = NewError("type mismatch")
)

// Position identifies a location in source text. Line and Column are 1-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Error is the single recoverable error kind of the interpreter.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	kind   *Error      // sentinel this error derives from
	msg    string      // sentinel message
	err    error       // wrapped error (for errors.Unwrap)
	attrs  []slog.Attr // context for messages and structured logging
	pos    *Position   // source position, for parse errors
	source string      // source text, for snippets
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.kind = e

	return e
}

// WrapError converts err into an Error. An Error already in the chain of err
// is returned as is; any other error is wrapped by [ErrHostFailure].
func WrapError(err error) *Error {
	if err == nil {
		return nil
	}

	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return ErrHostFailure.Wrap(err)
}

// Error implements the error interface.
//
// The message is built as "<msg>[ at <line:col>][ (<k>=<v>, ...)][: <err>]".
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if e.pos != nil {
		sb.WriteString(" at ")
		sb.WriteString(e.pos.String())
	}

	if len(e.attrs) > 0 {
		sb.WriteString(" (")

		for i, a := range e.attrs {
			if i > 0 {
				sb.WriteString(", ")
			}

			sb.WriteString(a.Key)
			sb.WriteByte('=')
			sb.WriteString(a.Value.String())
		}

		sb.WriteByte(')')
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.kind != nil && t.kind == e.kind
}

// Position returns the source position of a parse error.
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)
	attrs = append(attrs, slog.String("error", e.msg))

	if e.pos != nil {
		attrs = append(attrs, slog.String("position", e.pos.String()))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// With adds attributes to the error for messages and structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = append(c.attrs[:len(c.attrs):len(c.attrs)], attrs...)

	return c
}

// WithPosition records the source position of a parse error.
func (e *Error) WithPosition(pos Position) *Error {
	c := e.clone()
	c.pos = &pos

	return c
}

// WithSource attaches the source text so [Error.Snippet] can render the
// offending line.
func (e *Error) WithSource(source string) *Error {
	c := e.clone()
	c.source = source

	return c
}

func (e *Error) clone() *Error {
	c := *e

	return &c
}

// Snippet renders the source line containing the error position with a caret
// under the offending column. It returns "" if no position or source is known.
//
//	  3 | x = 'ab';
//	          ^
func (e *Error) Snippet() string {
	if e.pos == nil || e.source == "" {
		return ""
	}

	lines := strings.Split(e.source, "\n")
	if e.pos.Line < 1 || e.pos.Line > len(lines) {
		return ""
	}

	num := strconv.Itoa(e.pos.Line)
	line := strings.TrimRight(lines[e.pos.Line-1], "\r")

	// 2 leading spaces + " | " (3 chars)
	pad := strings.Repeat(" ", len(num)+5+max(e.pos.Column-1, 0))

	return fmt.Sprintf("  %s | %s\n%s^\n", num, line, pad)
}
