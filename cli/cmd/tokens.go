package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/ardnew/tinct/lang"
)

// Tokens prints the token stream of a script as a table.
type Tokens struct {
	File string `arg:"" default:"-" help:"Script file or '-' for stdin" name:"file"`

	stdout io.Writer
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	data, err := readSource(t.File)
	if err != nil {
		return err
	}

	tokens, err := lang.Tokenize(string(data))
	if err != nil {
		return ErrCompile.With(slog.String("source", t.File)).Wrap(err)
	}

	out := t.stdout
	if out == nil {
		out = os.Stdout
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"#", "Kind", "Text"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)

	for i, tok := range tokens {
		table.Append([]string{strconv.Itoa(i), tok.Kind.String(), tok.String()})
	}

	table.Render()

	return nil
}

// readSource reads all of the single script at path.
func readSource(path string) ([]byte, error) {
	srcs, err := openSources([]string{path})
	if err != nil {
		return nil, err
	}
	defer srcs.Close()

	data, err := io.ReadAll(srcs[0])
	if err != nil {
		return nil, ErrOpenSource.With(slog.String("file", path)).Wrap(err)
	}

	return data, nil
}
