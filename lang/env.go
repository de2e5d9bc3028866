package lang

// This file defines the host environment available to expressions evaluated
// with EvalHost. The environment is lazily initialized once per process and
// cloned on every access so callers may mutate the returned map without
// affecting the shared copy.

import (
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/ardnew/mung"
	"github.com/expr-lang/expr"
)

//nolint:gochecknoglobals
var (
	hostEnvOnce sync.Once
	hostEnv     map[string]any
)

// makeHostEnv returns a clone of the process-scoped host environment,
// including env() bound to the current process environment.
func makeHostEnv() map[string]any {
	hostEnvOnce.Do(func() {
		hostEnv = map[string]any{
			"platform": map[string]any{
				"os":   runtime.GOOS,
				"arch": runtime.GOARCH,
			},
			"hostname": getHostname(),

			"cwd": getCwd,

			"file": map[string]any{
				"exists":    fileExists,
				"isDir":     fileIsDir,
				"isRegular": fileIsRegular,
			},

			"path": map[string]any{
				"abs": pathAbs,
				"cat": pathCat,
				"rel": pathRel,
			},

			// PATH-like list manipulation.
			"mung": map[string]any{
				"prefix":   mungPrefix,
				"prefixif": mungPrefixIf,
			},
		}
	})

	env := maps.Clone(hostEnv)
	env["env"] = envFunc(processEnv())

	return env
}

// HostEnvKeys returns the top-level names available to [EvalHost].
func HostEnvKeys() []string {
	return sortedKeys(makeHostEnv())
}

// EvalHost evaluates an expr-lang expression against the host environment
// and returns its Go value, suitable for [Scope.Bind].
//
//	tinct run --set 'home=env("HOME")' --set 'bin=path.cat(cwd(), "bin")'
func EvalHost(expression string) (any, error) {
	env := makeHostEnv()

	program, err := expr.Compile(expression, expr.Env(env))
	if err != nil {
		return nil, ErrHostBinding.Wrap(err)
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return nil, ErrHostBinding.Wrap(err)
	}

	return out, nil
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}

	return hostname
}

func getCwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return pathAbs(".")
	}

	return cwd
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.IsDir()
}

func fileIsRegular(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular()
}

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

func pathCat(elem ...string) string {
	return filepath.Join(elem...)
}

func pathRel(from, to string) string {
	p, err := filepath.Rel(pathAbs(from), pathAbs(to))
	if err != nil {
		return pathCat(from, to)
	}

	return p
}

// mungPrefix prepends prefix to the list, removing duplicates.
func mungPrefix(list string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}

// mungPrefixIf is mungPrefix keeping only the items accepted by predicate.
func mungPrefixIf(
	list string,
	predicate func(string) bool,
	prefix ...string,
) string {
	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(predicate),
	).String()
}

// processEnv returns the process environment as a map.
func processEnv() map[string]string {
	environ := os.Environ()
	result := make(map[string]string, len(environ))

	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if ok {
			result[key] = value
		}
	}

	return result
}

func envFunc(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}
