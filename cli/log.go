package cli

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tinct/log"
)

// logFormat configures the logger format as a side effect of parsing via
// encoding.TextUnmarshaler, so that parse errors already use it.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the logger level as a side effect of parsing.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevelDefault}"  enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"${logFormatDefault}" enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                                     help:"Set timestamp format."`
	Callsite   bool      `default:"false"                                       help:"Include source location of log calls." negatable:""`
	Pretty     bool      `default:"true"                                        help:"Enable colorized pretty printing."     negatable:""`
}

func (*logConfig) vars() kong.Vars {
	var levels, formats []string

	for l := range log.Levels() {
		levels = append(levels, l)
	}

	for f := range log.Formats() {
		formats = append(formats, f)
	}

	return kong.Vars{
		"logLevelEnum":     strings.Join(levels, ","),
		"logLevelDefault":  log.DefaultLevel.String(),
		"logFormatEnum":    strings.Join(formats, ","),
		"logFormatDefault": log.DefaultFormat.String(),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

// start applies every parsed logger setting. The returned func logs the
// shutdown of the logger at debug level.
func (f *logConfig) start(ctx context.Context) (stop func()) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCallsite(f.Callsite),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("callsite", f.Callsite),
		slog.Bool("pretty", f.Pretty),
	)

	return func() { log.TraceContext(ctx, "logger stopped") }
}

// scan applies logger flags found in args before kong begins parsing, so the
// logger is configured regardless of flag position. logLevel and logFormat
// also configure themselves during parsing, but boolean flags do not.
func (f *logConfig) scan(args []string) {
	const (
		on  = "--log-"
		off = "--no-log-"
	)

	// value returns the flag's explicit or following argument.
	value := func(i *int, v string, assigned bool) string {
		if !assigned && *i+1 < len(args) && !strings.HasPrefix(args[*i+1], "-") {
			*i++

			return args[*i]
		}

		return v
	}

	// flag returns the boolean value of a flag, negated for the --no- form.
	flag := func(v string, assigned, negate bool) (bool, bool) {
		b := true

		if assigned {
			var err error

			b, err = strconv.ParseBool(v)
			if err != nil {
				return false, false
			}
		}

		return b != negate, true
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return
		}

		var negate bool

		switch {
		case strings.HasPrefix(arg, off):
			negate = true
			arg = strings.TrimPrefix(arg, off)
		case strings.HasPrefix(arg, on):
			arg = strings.TrimPrefix(arg, on)
		default:
			continue
		}

		name, v, assigned := strings.Cut(arg, "=")

		switch name {
		case "level":
			if !negate {
				_ = f.Level.UnmarshalText([]byte(value(&i, v, assigned)))
			}

		case "format":
			if !negate {
				_ = f.Format.UnmarshalText([]byte(value(&i, v, assigned)))
			}

		case "pretty":
			if b, ok := flag(v, assigned, negate); ok {
				f.Pretty = b
				log.Config(log.WithPretty(b))
			}

		case "callsite":
			if b, ok := flag(v, assigned, negate); ok {
				f.Callsite = b
				log.Config(log.WithCallsite(b))
			}
		}
	}
}
