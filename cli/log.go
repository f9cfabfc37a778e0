package cli

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/hostscript/log"
)

// logFormat configures the logger format as a side effect of parsing via
// encoding.TextUnmarshaler, so that errors raised while kong is still parsing
// are already formatted as requested.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the logger level as a side effect of parsing.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"warn"    enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"text"    enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                         help:"Set timestamp format."`
	Caller     bool      `default:"false"                           help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                            help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	var levels, formats []string

	for s := range log.Levels() {
		levels = append(levels, s)
	}

	for s := range log.Formats() {
		formats = append(formats, s)
	}

	return kong.Vars{
		"logLevelEnum":  strings.Join(levels, ","),
		"logFormatEnum": strings.Join(formats, ","),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

// start applies every parsed logger flag and returns a function logging the
// final configuration once the command is underway.
func (f *logConfig) start(ctx context.Context) func() {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	return func() {
		log.TraceContext(ctx, "logger configuration",
			slog.String("level", string(f.Level)),
			slog.String("format", string(f.Format)),
			slog.String("time", f.TimeLayout),
			slog.Bool("caller", f.Caller),
			slog.Bool("pretty", f.Pretty),
		)
	}
}

// scan performs an early pass over command-line arguments to extract and
// apply logger configuration before kong begins parsing. Boolean flags never
// reach an encoding.TextUnmarshaler, so they are only honored early here.
func (f *logConfig) scan(args []string) {
	boolFlag := map[string]func(bool){
		"log-pretty": func(v bool) {
			f.Pretty = v
			log.Config(log.WithPretty(v))
		},
		"log-caller": func(v bool) {
			f.Caller = v
			log.Config(log.WithCaller(v))
		},
	}

	textFlag := map[string]func([]byte) error{
		"log-level":  f.Level.UnmarshalText,
		"log-format": f.Format.UnmarshalText,
	}

	for i := 0; i < len(args); i++ {
		arg, ok := strings.CutPrefix(args[i], "--")
		if !ok {
			continue
		}

		if arg == "" {
			// "--" ends flag parsing.
			return
		}

		name, value, assigned := strings.Cut(arg, "=")

		if set, ok := textFlag[name]; ok {
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				value = args[i+1]
				i++
			}

			_ = set([]byte(value))

			continue
		}

		negate := false
		if n, ok := strings.CutPrefix(name, "no-"); ok {
			name, negate = n, true
		}

		set, ok := boolFlag[name]
		if !ok {
			continue
		}

		v := true

		if assigned {
			b, err := strconv.ParseBool(value)
			if err != nil {
				continue
			}

			v = b
		}

		set(v != negate)
	}
}
