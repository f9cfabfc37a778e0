// Package profile provides optional runtime profiling for hostscript.
//
// Profiling is backed by [github.com/pkg/profile] and compiled in only with
// the pprof build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Config.Start] returns a no-op and [Modes] is empty.
//
// Supported modes with the tag: allocs, block, clock, cpu, goroutine, heap,
// mem, mutex, thread, trace.
//
// A [Config] is built from functional options and started once:
//
//	var cfg profile.Config = func() (string, string, bool) { return "", "", false }
//	cfg = profile.WithMode("cpu")(cfg)
//	cfg = profile.WithPath(dir)(cfg)
//	defer cfg.Start().Stop()
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
