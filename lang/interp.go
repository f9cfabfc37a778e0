package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/hostscript/log"
)

// DefaultMaxDepth is the default limit on nested closure calls.
const DefaultMaxDepth = 2048

// Interpreter executes programs against an [Environment] and an [Interop].
//
// An Interpreter is not safe for concurrent use. Each statement runs to
// completion before the next begins; a failed statement leaves the
// Interpreter ready for the next one.
type Interpreter struct {
	env      *Environment
	interop  Interop
	logger   log.Logger
	cache    bool
	strict   bool
	maxDepth int
}

// Option configures an [Interpreter].
type Option func(*Interpreter)

// WithInterop sets the host type system reached by type references and
// member access. Without one, no host types resolve.
func WithInterop(interop Interop) Option {
	return func(in *Interpreter) {
		if interop == nil {
			interop = noInterop{}
		}

		in.interop = interop
	}
}

// WithLogger sets the logger used to trace parsing and evaluation.
func WithLogger(logger log.Logger) Option {
	return func(in *Interpreter) { in.logger = logger }
}

// WithEnvironment sets the environment holding variable bindings.
func WithEnvironment(env *Environment) Option {
	return func(in *Interpreter) {
		if env != nil {
			in.env = env
		}
	}
}

// WithCache sets whether [Interpreter.Exec] consults the parse cache.
// It is enabled by default.
func WithCache(enabled bool) Option {
	return func(in *Interpreter) { in.cache = enabled }
}

// WithStrictReturn makes a closure whose body ends without a return
// statement yield [NoValue]. By default it yields the value of the last
// statement executed.
func WithStrictReturn() Option {
	return func(in *Interpreter) { in.strict = true }
}

// WithMaxDepth limits the nesting of closure calls.
func WithMaxDepth(depth int) Option {
	return func(in *Interpreter) {
		if depth > 0 {
			in.maxDepth = depth
		}
	}
}

// New returns a new Interpreter with a fresh [Environment].
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		env:      NewEnvironment(),
		interop:  noInterop{},
		cache:    true,
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(in)
		}
	}

	return in
}

// Environment returns the bindings of the session.
func (in *Interpreter) Environment() *Environment { return in.env }

// Interop returns the host type system of the session.
func (in *Interpreter) Interop() Interop { return in.interop }

// Logger returns the logger of the session.
func (in *Interpreter) Logger() log.Logger { return in.logger }

// Parse parses src using the parse cache if it is enabled.
func (in *Interpreter) Parse(ctx context.Context, src string) (*Program, error) {
	if in.cache {
		return ParseCached(ctx, src, WithParseLogger(in.logger))
	}

	return ParseString(ctx, src, WithParseLogger(in.logger))
}

// Exec parses and runs one or more statements. It returns the value of the
// last statement.
func (in *Interpreter) Exec(ctx context.Context, src string) (Value, error) {
	prog, err := in.Parse(ctx, src)
	if err != nil {
		return nil, err
	}

	return in.Run(ctx, prog)
}

// Run executes the statements of prog in order and returns the value of the
// last one. A top-level return statement yields its value as the statement
// result. Execution stops at the first failing statement; side effects of
// earlier statements, and of the failing statement up to the point of
// failure, are kept.
func (in *Interpreter) Run(ctx context.Context, prog *Program) (Value, error) {
	var result Value = NoValue{}

	for i, stmt := range prog.Statements {
		in.logger.TraceContext(ctx, "exec statement",
			slog.Int("index", i),
			slog.String("position", stmt.Pos().String()))

		out, err := in.exec(ctx, stmt)
		if err != nil {
			return nil, err
		}

		result = out.Value
	}

	return result, nil
}

// Reset discards every binding and frame of the session.
func (in *Interpreter) Reset() { in.env.Reset() }
