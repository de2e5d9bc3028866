package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/tinct/lang"
)

// AST prints the parsed statements of a script.
type AST struct {
	Format string `default:"tree" enum:"source,tree,yaml,json,spew" help:"Output format (${enum})" short:"f"`
	Indent int    `default:"2"                                      help:"Indent width"             short:"i"`

	File string `arg:"" default:"-" help:"Script file or '-' for stdin" name:"file"`

	stdout io.Writer
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	format, err := lang.ParseFormat(a.Format)
	if err != nil {
		return ErrFormat.With(slog.String("format", a.Format)).Wrap(err)
	}

	srcs, err := openSources([]string{a.File})
	if err != nil {
		return err
	}
	defer srcs.Close()

	prog, err := lang.CompileReader(ctx, srcs[0])
	if err != nil {
		return ErrCompile.With(slog.String("source", a.File)).Wrap(err)
	}

	out := a.stdout
	if out == nil {
		out = os.Stdout
	}

	if err := prog.Format(ctx, out, format, a.Indent); err != nil {
		return ErrFormat.With(slog.String("format", a.Format)).Wrap(err)
	}

	return nil
}
