// Package cmd implements the hostscript subcommands: the interactive console
// (repl), script execution (run, eval), program formatting (fmt), and
// configuration file generation (init).
//
// Every executing command opens a [Session]: a host registry populated with
// the standard host library, an interpreter, and the prelude scripts named
// by the global --source flag.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path of
	// the configuration files, without extension.
	ConfigIdentifier = "config"
)
