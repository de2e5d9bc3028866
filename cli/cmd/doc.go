// Package cmd implements the tinct subcommands.
//
// Scripts are named files or standard input ("-"). The run, check and repl
// commands read any scripts given with the global --source flag first, and
// run and repl evaluate all of their scripts in one scope, so definitions in
// earlier scripts are visible to later ones.
package cmd

// Kong variable identifiers set by the cli package.
var (
	// CacheIdentifier names the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier names the configuration script path. It is also the
	// name of the dictionary the configuration script defines.
	ConfigIdentifier = "config"

	// HistoryIdentifier names the REPL history file.
	HistoryIdentifier = "history"
)
