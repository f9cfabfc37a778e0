package cmd

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/ardnew/hostscript/cli/cmd/repl"
	"github.com/ardnew/hostscript/log"
)

// baseHistory is the name of the console history file in the cache directory.
const baseHistory = "history.utf8"

// Repl starts the interactive console.
type Repl struct {
	Session `embed:""`

	History bool `default:"true" help:"Persist input history in the cache directory." negatable:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	// Script output is flushed above the prompt after each statement.
	var out bytes.Buffer

	in, reg, err := r.open(ctx, &out)
	if err != nil {
		return err
	}

	opts := []repl.Option{
		repl.WithRegistry(reg),
		repl.WithOutput(&out),
		repl.WithLogger(log.Default()),
		repl.WithReset(func(ctx context.Context) error {
			return prelude(ctx, in)
		}),
	}

	if ktx := kongContextFrom(ctx); r.History && ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok {
			opts = append(opts, repl.WithHistory(filepath.Join(dir, baseHistory)))
		}
	}

	return repl.Run(ctx, in, opts...)
}
