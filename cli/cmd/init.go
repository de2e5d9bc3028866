package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tinct/lang"
	"github.com/ardnew/tinct/log"
	"github.com/ardnew/tinct/profile"
)

// defaultConfigIndent is the indent width of the generated configuration.
const defaultConfigIndent = 2

// Init writes a configuration script holding the current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// ignoreFlag reports whether a flag is left out of the configuration.
func ignoreFlag(flag *kong.Flag) bool {
	return flag.Hidden || slices.ContainsFunc(
		[]string{"help", "version", "force", profile.Tag},
		func(s string) bool { return strings.HasPrefix(flag.Name, s) },
	)
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	// Compiling the generated statement verifies that it reads back.
	prog, err := lang.Compile(ctx, i.buildConfig(ktx).String())
	if err != nil {
		return ErrWriteConfig.Wrap(err)
	}

	file, err := os.Create(confPath)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	err = prog.Format(ctx, file, lang.FormatSource, defaultConfigIndent)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath))

	return nil
}

// buildConfig returns the assignment of a dictionary holding the value of
// every configurable flag in the application, keyed by flag name.
func (i *Init) buildConfig(ktx *kong.Context) *lang.Assignment {
	dict := new(lang.Dictionary)
	seen := make(map[string]bool)

	var walk func(node *kong.Node)

	walk = func(node *kong.Node) {
		for _, flag := range node.Flags {
			if seen[flag.Name] || ignoreFlag(flag) {
				continue
			}

			seen[flag.Name] = true

			if v := i.flagValue(ktx, flag); v != nil {
				dict.Body = append(dict.Body, lang.Pair{
					Key:   lang.Token{Kind: lang.String, Text: flag.Name},
					Value: v,
				})
			}
		}

		for _, child := range node.Children {
			walk(child)
		}
	}

	walk(ktx.Model.Node)

	return &lang.Assignment{
		Left: &lang.TokenExpr{
			Token: lang.Token{Kind: lang.Symbol, Text: ConfigIdentifier},
		},
		Right: dict,
	}
}

// flagValue returns the value of a flag as a scalar tinct value, or nil if it
// is unset or has no scalar form.
func (*Init) flagValue(ktx *kong.Context, flag *kong.Flag) lang.Node {
	val := ktx.FlagValue(flag)
	if val == nil {
		return nil
	}

	if s, ok := val.(string); ok && s == "" {
		return nil
	}

	v, err := lang.FromValue(val)
	if err != nil {
		// Named types such as enums are stored as their text.
		s := fmt.Sprint(val)
		if s == "" {
			return nil
		}

		return &lang.TokenExpr{Token: lang.Token{Kind: lang.String, Text: s}}
	}

	if _, ok := v.(*lang.TokenExpr); !ok {
		return nil
	}

	return v
}
