package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/hostscript/lang"
)

// Fmt parses a program and prints it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as native syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
}

// FormatSource is the input of every fmt subcommand.
type FormatSource struct {
	Indent int    `default:"2" help:"Indent width for formatted output." short:"i"`
	Source string `arg:""      default:"-"                               help:"Source input file or '-' for stdin." name:"source"`

	out io.Writer
}

// format parses the source and writes it with write.
func (f *FormatSource) format(
	ctx context.Context,
	name string,
	write func(*lang.Program, context.Context, io.Writer, int) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := openSource(f.Source)
	if err != nil {
		return err
	}
	defer src.Close()

	prog, err := lang.ParseReader(ctx, src)
	if err != nil {
		return ErrFormat.Wrap(err).With(
			slog.String("format", name),
			slog.String("source", f.Source))
	}

	return write(prog, ctx, stdout(f.out), f.Indent)
}

// Native formats input as native syntax.
type Native struct {
	FormatSource `embed:""`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) error {
	return f.format(ctx, "native", (*lang.Program).Format)
}

// JSON formats input as a JSON document of the syntax tree.
type JSON struct {
	FormatSource `embed:""`
}

// Run executes the json command.
func (f *JSON) Run(ctx context.Context) error {
	return f.format(ctx, "json", (*lang.Program).FormatJSON)
}

// YAML formats input as a YAML document of the syntax tree.
type YAML struct {
	FormatSource `embed:""`
}

// Run executes the yaml command.
func (f *YAML) Run(ctx context.Context) error {
	return f.format(ctx, "yaml", (*lang.Program).FormatYAML)
}
