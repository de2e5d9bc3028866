package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/ardnew/tinct/lang"
	"github.com/ardnew/tinct/log"
)

const defaultEditor = "vi"

// scopeSource renders every binding in scope as an assignment statement.
func scopeSource(scope *lang.Scope) string {
	var sb strings.Builder

	for _, name := range scope.Names() {
		v, _ := scope.Lookup(name)

		sb.WriteString(name)
		sb.WriteString(" = ")
		sb.WriteString(v.String())
		sb.WriteString(";\n")
	}

	return sb.String()
}

// editScopeCommand implements [tea.ExecCommand] for the edit-evaluate-retry
// loop. It writes the scope as source to a temp file, opens the user's
// editor, and evaluates the result into a new scope. On error the user is
// asked whether to edit again; declining ends the session.
type editScopeCommand struct {
	scope    *lang.Scope
	opts     []lang.Option
	ctxFunc  func() context.Context
	logger   log.Logger
	newScope *lang.Scope
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editScopeCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editScopeCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editScopeCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. An empty file cancels the edit and leaves
// newScope nil.
func (c *editScopeCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp("", "tinct-repl-*.tinct")
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	_, err = f.WriteString(scopeSource(c.scope))
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return err
	}

	for {
		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		if strings.TrimSpace(string(data)) == "" {
			return nil
		}

		scope, evalErr := c.evaluate(ctx, string(data))

		c.logger.TraceContext(ctx, "repl edit attempt",
			slog.Int("source_bytes", len(data)),
			slog.Bool("success", evalErr == nil))

		if evalErr == nil {
			c.newScope = scope

			return nil
		}

		fmt.Fprintf(c.stderr, "\nerror: %s\n", evalErr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// evaluate runs source in a fresh scope, printing log output to stdout.
func (c *editScopeCommand) evaluate(ctx context.Context, source string) (*lang.Scope, error) {
	prog, err := lang.Compile(ctx, source, c.opts...)
	if err != nil {
		return nil, err
	}

	scope := lang.NewScope()

	_, err = prog.Run(ctx, scope, slices.Concat(c.opts, []lang.Option{lang.WithOutput(c.stdout)})...)
	if err != nil {
		return nil, err
	}

	return scope, nil
}

// runEditor opens the file at path in $EDITOR and waits for it to exit.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	// $EDITOR may carry arguments, as in "code --wait".
	args := append(strings.Fields(editor), path)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
