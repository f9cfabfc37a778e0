package stdlib

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/hostscript/host"
	"github.com/ardnew/hostscript/lang"
)

// Prefix is the package path of every type in the library.
const Prefix = "host"

// Caller calls script closures from host code. [*lang.Interpreter]
// implements it.
type Caller interface {
	Call(ctx context.Context, fn lang.Value, args ...lang.Value) (lang.Value, error)
}

// library holds the settings shared by the types of one [Register] call.
type library struct {
	ctx    context.Context
	out    io.Writer
	caller Caller
	getenv func(string) (string, bool)
	dict   *host.Type
}

// Option configures the library installed by [Register].
type Option func(*library)

// WithOutput sets the writer used by host.System.print. The default is
// os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(l *library) {
		if w != nil {
			l.out = w
		}
	}
}

// WithCaller sets the interpreter used to call closures passed to host
// methods.
func WithCaller(c Caller) Option {
	return func(l *library) { l.caller = c }
}

// WithContext sets the context passed to closures called by host methods.
func WithContext(ctx context.Context) Option {
	return func(l *library) {
		if ctx != nil {
			l.ctx = ctx
		}
	}
}

// WithLookupEnv sets the function used by host.System.getenv. The default is
// os.LookupEnv.
func WithLookupEnv(fn func(string) (string, bool)) Option {
	return func(l *library) {
		if fn != nil {
			l.getenv = fn
		}
	}
}

// Register installs the standard host types into reg and binds strings to
// host.String.
func Register(reg *host.Registry, opts ...Option) error {
	l := &library{
		ctx:    context.Background(),
		out:    os.Stdout,
		getenv: os.LookupEnv,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	types := []*host.Type{
		l.stringType(),
		l.builderType(),
		l.mapType(),
		l.seqType(),
		l.mathType(),
		l.systemType(),
		l.pointType(),
		l.exprType(),
		l.pathListType(),
		l.pathType(),
		l.fileType(),
	}

	if err := reg.Register(types...); err != nil {
		return err
	}

	return reg.Bind(lang.KindStr, name("String"))
}

// name returns the full name of a library type.
func name(s string) string { return Prefix + "." + s }

// call calls fn through the configured caller.
func (l *library) call(fn lang.Value, args ...lang.Value) (lang.Value, error) {
	if l.caller == nil {
		return nil, ErrNoCaller
	}

	return l.caller.Call(l.ctx, fn, args...)
}

// static adapts a function of the arguments alone to a [host.Func].
func static(fn func(args []lang.Value) (lang.Value, error)) host.Func {
	return func(_ lang.Value, args []lang.Value) (lang.Value, error) {
		return fn(args)
	}
}

// index converts a script index to an int in [0, n).
func index(v lang.Value, n int) (int, error) {
	i := int64(v.(lang.Int64))
	if i < 0 || i >= int64(n) {
		return 0, ErrIndex.With(
			slog.Int64("index", i),
			slog.Int("length", n))
	}

	return int(i), nil
}

var (
	anyParam  = lang.Param(lang.KindAny)
	strParam  = lang.Param(lang.KindStr)
	charParam = lang.Param(lang.KindChar)
	intParam  = lang.Param(lang.KindInt64)
	f64Param  = lang.Param(lang.KindFloat64)
	seqParam  = lang.Param(lang.KindSeq)
	fnParam   = lang.Param(lang.KindClosure)
)

func params(p ...lang.ParamType) []lang.ParamType { return p }

func kindAttr(v lang.Value) slog.Attr {
	return slog.String("kind", v.Kind().String())
}
