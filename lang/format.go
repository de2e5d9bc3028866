package lang

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/goccy/go-yaml"
)

// Format selects how [Program.Format] renders a program.
type Format int

const (
	// FormatSource renders statements as normalized source text.
	FormatSource Format = iota

	// FormatTree renders an indented outline of the node tree.
	FormatTree

	// FormatYAML renders the node tree as YAML.
	FormatYAML

	// FormatJSON renders the node tree as JSON.
	FormatJSON

	// FormatSpew renders the Go values of the node tree.
	FormatSpew
)

var formatName = map[Format]string{
	FormatSource: "source",
	FormatTree:   "tree",
	FormatYAML:   "yaml",
	FormatJSON:   "json",
	FormatSpew:   "spew",
}

func (f Format) String() string {
	if s, ok := formatName[f]; ok {
		return s
	}

	return "unknown"
}

// Formats returns an iterator over the names of all formats.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for f := FormatSource; f <= FormatSpew; f++ {
			if !yield(f.String()) {
				return
			}
		}
	}
}

// ParseFormat returns the format with the given name.
func ParseFormat(s string) (Format, error) {
	for f, name := range formatName {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return f, nil
		}
	}

	return 0, ErrSyntax.Explain("unknown format %q", s)
}

// Format writes the program to w in the given format. Indent sets the width
// of one nesting level; zero selects a compact rendering where the format
// has one.
func (p *Program) Format(ctx context.Context, w io.Writer, f Format, indent int) error {
	switch f {
	case FormatSource:
		sep := "; "
		if indent > 0 {
			sep = ";\n"
		}

		_, err := fmt.Fprintln(w, joinNodes(p.Statements, sep))

		return err

	case FormatTree:
		if indent < 1 {
			indent = 2
		}

		var sb strings.Builder
		for _, n := range p.Statements {
			writeTree(&sb, n, strings.Repeat(" ", indent), 0)
		}

		_, err := io.WriteString(w, sb.String())

		return err

	case FormatYAML, FormatJSON:
		var opts []yaml.EncodeOption
		if indent > 0 {
			opts = append(opts, yaml.Indent(indent))
		} else {
			opts = append(opts, yaml.Flow(true))
		}

		if f == FormatJSON {
			opts = append(opts, yaml.JSON())
		}

		data, err := yaml.MarshalContext(ctx, p.Describe(), opts...)
		if err != nil {
			return err
		}

		_, err = w.Write(data)

		return err

	case FormatSpew:
		cfg := spew.ConfigState{
			Indent:                  strings.Repeat(" ", max(indent, 1)),
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			DisableMethods:          true,
		}
		cfg.Fdump(w, p.Statements)

		return nil

	default:
		return ErrSyntax.Explain("unknown format %d", int(f))
	}
}

// Describe returns the statement tree as ordered YAML mappings.
func (p *Program) Describe() []yaml.MapSlice {
	out := make([]yaml.MapSlice, len(p.Statements))
	for i, n := range p.Statements {
		out[i] = describe(n)
	}

	return out
}

func describe(n Node) yaml.MapSlice {
	item := func(k string, v any) yaml.MapItem { return yaml.MapItem{Key: k, Value: v} }

	switch n := n.(type) {
	case nil:
		return nil

	case *TokenExpr:
		return yaml.MapSlice{
			item("node", "token"),
			item("kind", n.Token.Kind.String()),
			item("text", n.Token.Text),
		}

	case *MathOp:
		return yaml.MapSlice{
			item("node", "math"),
			item("operator", string(n.Operator)),
			item("left", describe(n.Left)),
			item("right", describe(n.Right)),
		}

	case *Test:
		return yaml.MapSlice{
			item("node", "test"),
			item("operator", string(n.Operator)),
			item("left", describe(n.Left)),
			item("right", describe(n.Right)),
		}

	case *Assignment:
		return yaml.MapSlice{
			item("node", "assignment"),
			item("left", describe(n.Left)),
			item("right", describe(n.Right)),
		}

	case *FunctionExpr:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Text
		}

		body := make([]yaml.MapSlice, len(n.Body))
		for i, s := range n.Body {
			body[i] = describe(s)
		}

		return yaml.MapSlice{
			item("node", "function"),
			item("params", params),
			item("body", body),
		}

	case *FunctionCall:
		args := make([]yaml.MapSlice, len(n.Args))
		for i, a := range n.Args {
			args[i] = describe(a)
		}

		return yaml.MapSlice{
			item("node", "call"),
			item("symbol", n.Symbol),
			item("args", args),
		}

	case *Dictionary:
		entries := make(yaml.MapSlice, len(n.Body))
		for i, p := range n.Body {
			entries[i] = item(p.Key.Text, describe(p.Value))
		}

		return yaml.MapSlice{
			item("node", "dictionary"),
			item("entries", entries),
		}

	case *MemberExpr:
		keys := make([]yaml.MapSlice, len(n.Keys))
		for i, k := range n.Keys {
			keys[i] = describe(k)
		}

		return yaml.MapSlice{
			item("node", "member"),
			item("symbol", n.Symbol.Text),
			item("keys", keys),
		}

	default:
		return yaml.MapSlice{item("node", fmt.Sprintf("%T", n))}
	}
}

// writeTree writes one line per node, children indented below their parent.
func writeTree(sb *strings.Builder, n Node, indent string, depth int) {
	pad := strings.Repeat(indent, depth)

	line := func(format string, args ...any) {
		sb.WriteString(pad)
		fmt.Fprintf(sb, format, args...)
		sb.WriteByte('\n')
	}

	switch n := n.(type) {
	case nil:
		line("(nothing)")

	case *TokenExpr:
		line("%s %s", n.Token.Kind, n.Token)

	case *MathOp:
		line("MathOp %s", n.Operator)
		writeTree(sb, n.Left, indent, depth+1)
		writeTree(sb, n.Right, indent, depth+1)

	case *Test:
		line("Test %s", n.Operator)
		writeTree(sb, n.Left, indent, depth+1)
		writeTree(sb, n.Right, indent, depth+1)

	case *Assignment:
		line("Assignment")
		writeTree(sb, n.Left, indent, depth+1)
		writeTree(sb, n.Right, indent, depth+1)

	case *FunctionExpr:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Text
		}

		line("Function (%s)", strings.Join(params, ", "))

		for _, s := range n.Body {
			writeTree(sb, s, indent, depth+1)
		}

	case *FunctionCall:
		line("Call %s", n.Symbol)

		for _, a := range n.Args {
			writeTree(sb, a, indent, depth+1)
		}

	case *Dictionary:
		line("Dictionary")

		for _, p := range n.Body {
			sb.WriteString(strings.Repeat(indent, depth+1))
			sb.WriteString(p.Key.String())
			sb.WriteString(":\n")
			writeTree(sb, p.Value, indent, depth+2) //nolint:mnd
		}

	case *MemberExpr:
		line("Member %s", n.Symbol.Text)

		for _, k := range n.Keys {
			writeTree(sb, k, indent, depth+1)
		}

	default:
		line("%T", n)
	}
}
