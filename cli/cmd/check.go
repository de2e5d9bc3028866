package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/hashicorp/go-multierror"

	"github.com/ardnew/tinct/lang"
	"github.com/ardnew/tinct/log"
)

// Check compiles scripts without evaluating them and reports every failure.
type Check struct {
	Files []string `arg:"" help:"Script file(s) or '-' for stdin" name:"file" optional:""`

	stdout io.Writer
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	paths := slices.Concat(sourceFilesFrom(ctx), c.Files)
	if len(paths) == 0 {
		paths = []string{stdinSource}
	}

	out := c.stdout
	if out == nil {
		out = os.Stdout
	}

	var result *multierror.Error

	for _, path := range paths {
		srcs, err := openSources([]string{path})
		if err != nil {
			result = multierror.Append(result, err)

			continue
		}

		prog, err := lang.CompileReader(ctx, srcs[0])
		srcs.Close()

		if err != nil {
			result = multierror.Append(result,
				ErrCompile.With(slog.String("source", path)).Wrap(err))

			continue
		}

		log.DebugContext(ctx, "check passed",
			slog.String("source", path),
			slog.Int("statements", len(prog.Statements)))

		if _, err := fmt.Fprintf(out, "%s: ok\n", path); err != nil {
			result = multierror.Append(result,
				ErrWriteOutput.With(slog.String("source", path)).Wrap(err))
		}
	}

	return result.ErrorOrNil()
}
