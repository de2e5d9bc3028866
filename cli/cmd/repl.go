package cmd

import (
	"context"
	"os"
	"slices"

	"github.com/ardnew/tinct/cli/cmd/repl"
	"github.com/ardnew/tinct/lang"
	"github.com/ardnew/tinct/log"
)

// REPL starts an interactive session in a scope preloaded from scripts.
type REPL struct {
	evalFlags `embed:""`

	History string `default:"${history}" help:"History file" type:"path"`

	Files []string `arg:"" help:"Script file(s) to evaluate before the session" name:"file" optional:""`
}

// Run executes the repl command.
func (r *REPL) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	scope, err := r.scope()
	if err != nil {
		return err
	}

	opts := r.options(os.Stdout)

	if paths := slices.Concat(sourceFilesFrom(ctx), r.Files); len(paths) > 0 {
		srcs, err := openSources(paths)
		if err != nil {
			return err
		}

		_, err = evaluate(ctx, lang.NewInterpreter(scope, opts...), srcs, opts...)
		srcs.Close()

		if err != nil {
			return err
		}
	}

	return repl.Run(ctx, scope, r.History, log.Default(), opts...)
}
