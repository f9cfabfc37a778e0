//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/hostscript/log"
	"github.com/ardnew/hostscript/profile"
)

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Profile a run of the selected command." placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}" help:"Directory receiving profile output."                        type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(cacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: "pprof", Title: "Profiling (pprof)"}
}

func (f pprofConfig) attrs() []slog.Attr {
	return []slog.Attr{slog.String("mode", f.Mode), slog.String("dir", f.Dir)}
}

// config returns the profiler configuration. Output for each mode goes to
// its own subdirectory, so consecutive runs in different modes do not
// overwrite each other.
func (f pprofConfig) config() profile.Config {
	var cfg profile.Config

	for _, opt := range []func(profile.Config) profile.Config{
		profile.WithMode(f.Mode),
		profile.WithPath(filepath.Join(f.Dir, f.Mode)),
		profile.WithQuiet(true),
	} {
		cfg = opt(cfg)
	}

	return cfg
}

// start begins profiling in the selected mode, if any, and returns the
// function that writes the profile.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	log.DebugContext(ctx, "profiling", f.attrs()...)

	profiler := f.config().Start()

	return func() {
		profiler.Stop()
		log.DebugContext(ctx, "profile written", f.attrs()...)
	}
}
