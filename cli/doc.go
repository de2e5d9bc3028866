// Package cli contains the command line interface for tinct.
//
// # Usage
//
//	tinct [flags] [run] [file ...]
//	tinct tokens [file]
//	tinct ast [--format=tree|source|yaml|json|spew] [file]
//	tinct check file ...
//	tinct repl [file ...]
//	tinct init [--force]
//
// Run is the default command, so "tinct script.tinct" evaluates a script.
// Every command reads standard input when no file is given. Scripts named
// with the global --source flag are evaluated first, into the same scope.
//
// # Configuration
//
// Flag defaults are read from a tinct script in the user configuration
// directory (for example ~/.config/tinct/config). The script is evaluated
// and the dictionary bound to "config" supplies flag values by name:
//
//	config = {"log_level": "debug", "sub": true}
//
// A JSON file at the same path with a ".json" suffix is also consulted.
// Command-line flags override both. Use "tinct init" to write a
// configuration script containing the current flag values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-callsite: Include source location of log calls
//   - --log-pretty: Colorize log output
//
// Trace level logs every evaluated statement and function call.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/tinct/pprof)
package cli
