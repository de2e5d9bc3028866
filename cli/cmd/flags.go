package cmd

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/ardnew/tinct/lang"
	"github.com/ardnew/tinct/log"
)

// evalFlags are the evaluation settings shared by commands that run scripts.
type evalFlags struct {
	Set      []string `help:"Bind NAME to the host expression EXPR before evaluation" placeholder:"NAME=EXPR" sep:"none" short:"D"`
	Sub      bool     `help:"Evaluate '-' as subtraction instead of addition"`
	Isolate  bool     `help:"Give each function call its own scope"`
	Strict   bool     `help:"Reject assignment to dictionary keys that do not exist"`
	MaxDepth int      `default:"1000" help:"Limit on nested function calls"`
}

// options returns the interpreter options selected by the flags.
func (f *evalFlags) options(out io.Writer) []lang.Option {
	return []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithOutput(out),
		lang.WithSubtraction(f.Sub),
		lang.WithIsolatedScope(f.Isolate),
		lang.WithNewMemberKeys(!f.Strict),
		lang.WithMaxDepth(f.MaxDepth),
	}
}

// scope returns a new scope holding the --set bindings.
//
// Each binding is NAME=EXPR, where EXPR is a host expression such as
// env("HOME") or path.cat(cwd(), "lib"). Its result is converted to a tinct
// value, so maps become dictionaries.
func (f *evalFlags) scope() (*lang.Scope, error) {
	scope := lang.NewScope()

	for _, set := range f.Set {
		name, expr, ok := strings.Cut(set, "=")

		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, ErrBind.With(slog.String("set", set)).
				Wrap(ErrMissingName)
		}

		v, err := lang.EvalHost(expr)
		if err != nil {
			return nil, ErrBind.With(slog.String("name", name)).Wrap(err)
		}

		if err := scope.Bind(name, v); err != nil {
			return nil, ErrBind.With(slog.String("name", name)).Wrap(err)
		}
	}

	return scope, nil
}

// evaluate compiles and runs each source in order with in, returning the
// value of the last statement of the last source.
func evaluate(ctx context.Context, in *lang.Interpreter, srcs Sources, opts ...lang.Option) (lang.Node, error) {
	var last lang.Node

	for _, src := range srcs {
		prog, err := lang.CompileReader(ctx, src, opts...)
		if err != nil {
			return nil, ErrCompile.With(slog.String("source", src.Name)).Wrap(err)
		}

		log.DebugContext(ctx, "evaluate",
			slog.String("source", src.Name),
			slog.Int("statements", len(prog.Statements)))

		last, err = in.Run(ctx, prog.Statements)
		if err != nil {
			return nil, ErrEvaluate.With(slog.String("source", src.Name)).Wrap(err)
		}
	}

	return last, nil
}
