package cmd

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Eval executes statements given on the command line.
type Eval struct {
	Session `embed:""`

	Statements []string `arg:"" help:"Statements to execute, joined with spaces." name:"statement"`

	out io.Writer
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out := stdout(e.out)

	in, _, err := e.open(ctx, out)
	if err != nil {
		return err
	}

	src := strings.Join(e.Statements, " ")

	v, err := in.Exec(ctx, src)
	if err != nil {
		return ErrExec.Wrap(err).With(slog.String("source", src))
	}

	return display(out, v)
}
