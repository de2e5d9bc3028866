package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/tinct/lang"
	"github.com/ardnew/tinct/log"
)

// Run evaluates scripts in one shared scope and prints the final value.
type Run struct {
	evalFlags `embed:""`

	Watch bool `help:"Evaluate again whenever a script changes"     short:"w"`
	Quiet bool `help:"Do not print the value of the last statement" short:"q"`

	Files []string `arg:"" help:"Script file(s) or '-' for stdin" name:"file" optional:""`

	stdout io.Writer
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	paths := slices.Concat(sourceFilesFrom(ctx), r.Files)
	if len(paths) == 0 {
		paths = []string{stdinSource}
	}

	if r.Watch {
		return r.watch(ctx, paths)
	}

	return r.once(ctx, paths)
}

func (r *Run) output() io.Writer {
	if r.stdout == nil {
		return os.Stdout
	}

	return r.stdout
}

// once evaluates paths into a fresh scope.
func (r *Run) once(ctx context.Context, paths []string) error {
	scope, err := r.scope()
	if err != nil {
		return err
	}

	srcs, err := openSources(paths)
	if err != nil {
		return err
	}
	defer srcs.Close()

	out := r.output()
	opts := r.options(out)

	last, err := evaluate(ctx, lang.NewInterpreter(scope, opts...), srcs, opts...)
	if err != nil {
		return err
	}

	if last != nil && !r.Quiet {
		_, err = fmt.Fprintln(out, lang.Display(last))
	}

	return err
}

// watch evaluates paths, then again after every write to any of them, until
// ctx is cancelled. Evaluation errors are logged rather than returned.
//
// Parent directories are watched instead of the files themselves, so that
// editors which save by renaming a new file into place are followed.
func (r *Run) watch(ctx context.Context, paths []string) error {
	files := make(map[string]struct{}, len(paths))

	for _, path := range paths {
		if path == stdinSource {
			return ErrWatch.Wrap(ErrWatchStdin)
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return ErrWatch.With(slog.String("file", path)).Wrap(err)
		}

		files[abs] = struct{}{}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer w.Close()

	for file := range files {
		if err := w.Add(filepath.Dir(file)); err != nil {
			return ErrWatch.With(slog.String("file", file)).Wrap(err)
		}
	}

	r.rerun(ctx, paths)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if _, watched := files[filepath.Clean(ev.Name)]; !watched {
				continue
			}

			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}

			log.DebugContext(ctx, "script changed",
				slog.String("file", ev.Name),
				slog.String("op", ev.Op.String()))

			r.rerun(ctx, paths)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}

			log.WarnContext(ctx, "watch error", slog.Any("error", err))
		}
	}
}

func (r *Run) rerun(ctx context.Context, paths []string) {
	if err := r.once(ctx, paths); err != nil {
		log.ErrorContext(ctx, "evaluation failed", slog.Any("error", err))
	}
}
