package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tinct/lang"
	"github.com/ardnew/tinct/log"
)

// resolve returns a [kong.ConfigurationLoader] for configuration scripts
// written in tinct.
//
// The script is evaluated in a fresh scope with log output discarded, and the
// dictionary bound to name supplies flag values:
//
//	config = {
//	  "log_level": "debug",
//	  "log_format": "json",
//	  "log_pretty": false
//	}
//
// Keys may use the flag's hyphenated name or the same name with
// underscores. Command-line flags override config values. A script that
// fails to compile or evaluate is logged and treated as empty.
func resolve(ctx context.Context, name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		prog, err := lang.CompileReader(ctx, r)
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration",
				slog.String("name", name), slog.Any("error", err))

			return config{}, nil
		}

		scope := lang.NewScope()

		_, err = prog.Run(ctx, scope, lang.WithOutput(io.Discard))
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration",
				slog.String("name", name), slog.Any("error", err))

			return config{}, nil
		}

		v, ok := scope.Lookup(name)
		if !ok {
			return config{}, nil
		}

		m, ok := lang.ToValue(v).(map[string]any)
		if !ok {
			log.WarnContext(ctx, "configuration is not a dictionary",
				slog.String("name", name))

			return config{}, nil
		}

		return makeConfig(m), nil
	}
}

// config implements [kong.Resolver] over an evaluated configuration script.
type config map[string]any

// makeConfig converts numbers to strings, which kong parses per flag type.
func makeConfig(m map[string]any) config {
	c := make(config, len(m))

	for key, value := range m {
		switch v := value.(type) {
		case int64:
			c[key] = strconv.FormatInt(v, 10)
		case float64:
			c[key] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			c[key] = v
		}
	}

	return c
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil //nolint:nilnil
}
