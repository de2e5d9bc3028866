package cli

import (
	"os"
	"path/filepath"

	"github.com/ardnew/tinct/pkg"
)

// baseConfig is the base name of the configuration script and the name of
// the dictionary it defines.
const baseConfig = "config"

// baseHistory is the base name of the REPL history file.
const baseHistory = "history"

var defaultDirMode os.FileMode = 0o700

// configPath joins the configuration directory with elem.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// historyPath returns the REPL history file in the cache directory.
func historyPath() string {
	return filepath.Join(pkg.CacheDir(), baseHistory)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
