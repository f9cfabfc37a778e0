package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/hostscript/host"
	"github.com/ardnew/hostscript/host/stdlib"
	"github.com/ardnew/hostscript/lang"
	"github.com/ardnew/hostscript/log"
)

// Session holds the interpreter flags shared by every executing command.
type Session struct {
	Strict   bool `help:"Closures yield a value only through an explicit return."`
	MaxDepth int  `default:"2048" help:"Maximum closure call depth."`
	Cache    bool `default:"true" help:"Reuse parse results of identical source text." negatable:""`
}

// open starts an interpreter whose host output goes to out and runs the
// prelude scripts stored in ctx.
func (s Session) open(ctx context.Context, out io.Writer) (*lang.Interpreter, *host.Registry, error) {
	logger := log.Default()

	reg := host.NewRegistry(host.WithLogger(logger))

	opts := []lang.Option{
		lang.WithInterop(reg),
		lang.WithLogger(logger),
		lang.WithCache(s.Cache),
		lang.WithMaxDepth(s.MaxDepth),
	}

	if s.Strict {
		opts = append(opts, lang.WithStrictReturn())
	}

	in := lang.New(opts...)

	err := stdlib.Register(reg,
		stdlib.WithOutput(out),
		stdlib.WithCaller(in),
		stdlib.WithContext(ctx))
	if err != nil {
		return nil, nil, ErrSession.Wrap(err)
	}

	if err := prelude(ctx, in); err != nil {
		return nil, nil, err
	}

	return in, reg, nil
}

// prelude runs each source file stored in ctx by [WithSourceFiles].
func prelude(ctx context.Context, in *lang.Interpreter) error {
	srcs := sourceFilesFrom(ctx)
	if srcs == nil {
		return nil
	}

	for name, r := range srcs.All() {
		in.Logger().DebugContext(ctx, "prelude", slog.String("source", name))

		if _, err := runReader(ctx, in, r); err != nil {
			return ErrPrelude.Wrap(err).With(slog.String("source", name))
		}
	}

	return nil
}

// runReader parses all of r and runs it in the session of in.
func runReader(ctx context.Context, in *lang.Interpreter, r io.Reader) (lang.Value, error) {
	prog, err := lang.ParseReader(ctx, r, lang.WithParseLogger(in.Logger()))
	if err != nil {
		return nil, err
	}

	return in.Run(ctx, prog)
}

// openSource opens the named script, or stdin for "-".
func openSource(name string) (io.ReadCloser, error) {
	if name == stdinSource {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, ErrReadSource.Wrap(err).With(slog.String("source", name))
	}

	return f, nil
}

// display writes the printable form of v to w, if it has one.
func display(w io.Writer, v lang.Value) error {
	s, ok := lang.Display(v)
	if !ok {
		return nil
	}

	_, err := io.WriteString(w, s+"\n")

	return err
}

func stdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}

	return w
}
