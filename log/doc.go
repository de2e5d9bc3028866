// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured at creation time with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithCallsite(true))
//
//	logger.Info("program compiled", slog.Int("statements", 3))
//
// Attributes given to [Logger.With] are included in every subsequent message.
// Each level has a context-aware variant ([Logger.InfoContext], ...); the
// context-unaware variants use [DefaultContextProvider].
//
// Five levels are defined. [LevelTrace] sits below [LevelDebug] and is used for
// per-statement interpreter events. Output is either [FormatText] or
// [FormatJSON], optionally colorized for terminals with [WithPretty].
//
// The zero [Logger] discards everything.
//
// Package-level functions write through a default logger that the CLI
// reconfigures with [Config] as flags are parsed.
package log
