// Package log provides a small leveled logging interface built on
// [log/slog].
//
// A [Logger] is configured once with functional options and is then
// immutable, so it may be copied freely and shared between goroutines.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON))
//	logger.Info("session started", slog.String("source", path))
//
// The zero Logger discards all messages. Library packages accept a Logger
// through an option and log unconditionally, leaving the decision of what to
// keep to the program that configured it.
//
// # Levels
//
// In addition to the four slog levels the package defines [LevelTrace],
// used for step-by-step diagnostics such as interpreter frame activity.
//
// # Package-level logger
//
// Functions such as [Info] and [ErrorContext] write to a process-wide logger
// that [Config] reconfigures in place. The command-line front end uses it
// for its own messages.
package log
