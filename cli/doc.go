// Package cli contains the command line interface for hostscript.
//
// # Usage
//
// Without a command, hostscript starts the interactive console:
//
//	hostscript [flags] [repl]
//	hostscript run script.hs other.hs
//	hostscript eval 'x = 2;' '.host.Math.max(x, 3);'
//	hostscript fmt json script.hs
//	hostscript init --format=yaml
//
// Every command accepts --source (-s) to run prelude scripts into the session
// first. A prelude named "-" is read from stdin after all other files.
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the user
// configuration directory. The YAML loader accepts nested keys:
//
//	log:
//	  level: debug
//	max-depth: 64
//
// The init command writes the current flag values as a new configuration
// file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o hostscript .
//
// Then --pprof-mode selects a profile and --pprof-dir its output directory.
package cli
