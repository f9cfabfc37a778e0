package cmd

import (
	"context"
	"io"
	"log/slog"
)

// Run executes script files in one session, in order.
type Run struct {
	Session `embed:""`

	Quiet bool     `help:"Do not print the value of each script." short:"q"`
	Files []string `arg:""                                        help:"Script file(s) or '-' for stdin." name:"file" type:"existingfile"`

	out io.Writer
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out := stdout(r.out)

	in, _, err := r.open(ctx, out)
	if err != nil {
		return err
	}

	for _, name := range r.Files {
		src, err := openSource(name)
		if err != nil {
			return err
		}

		v, err := runReader(ctx, in, src)
		src.Close()

		if err != nil {
			return ErrExec.Wrap(err).With(slog.String("source", name))
		}

		if r.Quiet {
			continue
		}

		if err := display(out, v); err != nil {
			return err
		}
	}

	return nil
}
