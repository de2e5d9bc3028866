package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/tinct/lang"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall describes the call whose argument list contains the cursor.
type functionCall struct {
	name     string
	argIndex int
	inCall   bool
}

// detectFunctionCall finds the innermost call around byte offset cursor.
//
// Brackets are matched by kind and string literals are skipped. The cursor
// is in a call only when the innermost open bracket is a '(' preceded by a
// name, so the parameter list of a function literal ({(a, b) ...}) and
// grouping parentheses do not count.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	type frame struct {
		open rune
		pos  int
		args int
	}

	var (
		stack []frame
		quote rune
	)

	for i, r := range input[:cursor] {
		if quote != 0 {
			if r == quote {
				quote = 0
			}

			continue
		}

		switch r {
		case '"', '\'':
			quote = r
		case '(', '{', '[':
			stack = append(stack, frame{open: r, pos: i})
		case ')', '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case ',':
			if len(stack) > 0 {
				stack[len(stack)-1].args++
			}
		}
	}

	if len(stack) == 0 {
		return functionCall{}
	}

	top := stack[len(stack)-1]
	if top.open != '(' {
		return functionCall{}
	}

	head := strings.TrimRight(input[:top.pos], " ")
	start := len(head)

	for start > 0 && isIdentRune(rune(head[start-1])) {
		start--
	}

	if start == len(head) {
		return functionCall{}
	}

	return functionCall{name: head[start:], argIndex: top.args, inCall: true}
}

// signature is the name and parameter names of a callable.
// A parameter ending in "..." accepts any number of arguments.
type signature struct {
	name   string
	params []string
}

func (s signature) String() string {
	return s.name + "(" + strings.Join(s.params, ", ") + ")"
}

// parseSignature splits a usage string such as "if(test, then, else?)".
func parseSignature(usage string) signature {
	name, rest, ok := strings.Cut(usage, "(")
	if !ok {
		return signature{name: usage}
	}

	rest = strings.TrimSuffix(rest, ")")
	if rest == "" {
		return signature{name: name}
	}

	return signature{name: name, params: strings.Split(rest, ", ")}
}

// lookupSignature returns the signature of the function called name.
// Built-in functions take precedence, as they do in evaluation.
func lookupSignature(scope *lang.Scope, name string) (signature, bool) {
	if usage, ok := lang.BuiltinSignature(name); ok {
		return parseSignature(usage), true
	}

	if scope == nil {
		return signature{}, false
	}

	v, ok := scope.Lookup(name)
	if !ok {
		return signature{}, false
	}

	fn, ok := v.(*lang.FunctionExpr)
	if !ok {
		return signature{}, false
	}

	sig := signature{name: name, params: make([]string, len(fn.Params))}
	for i, p := range fn.Params {
		sig.params[i] = p.Text
	}

	return sig, true
}

// render returns the signature with the parameter at index arg highlighted.
func (s signature) render(arg int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(s.name))
	b.WriteString(signatureStyle.Render("("))

	for i, p := range s.params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasSuffix(p, "...")

		if arg == i || (variadic && arg > i) {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
