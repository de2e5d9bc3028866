package lang

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// builtin is a host-provided function. It receives its arguments unevaluated.
type builtin func(ctx context.Context, e *evaluator, args []Node, scope *Scope) (Node, error)

// Names of the built-in functions.
const (
	BuiltinLog     = "log"
	BuiltinConcat  = "concat"
	BuiltinDefined = "defined"
	BuiltinIf      = "if"
	BuiltinWhile   = "while"
)

// BuiltinNames returns the names of the built-in functions, which take
// precedence over user functions of the same name.
func BuiltinNames() []string {
	return []string{BuiltinConcat, BuiltinDefined, BuiltinIf, BuiltinLog, BuiltinWhile}
}

// BuiltinSignature returns a short usage string for a built-in function.
func BuiltinSignature(name string) (string, bool) {
	switch name {
	case BuiltinLog:
		return "log(values...)", true
	case BuiltinConcat:
		return "concat(values...)", true
	case BuiltinDefined:
		return "defined(symbol)", true
	case BuiltinIf:
		return "if(test, then, else?)", true
	case BuiltinWhile:
		return "while(test, {() body})", true
	default:
		return "", false
	}
}

func lookupBuiltin(name string) (builtin, bool) {
	switch name {
	case BuiltinLog:
		return builtinLog, true
	case BuiltinConcat:
		return builtinConcat, true
	case BuiltinDefined:
		return builtinDefined, true
	case BuiltinIf:
		return builtinIf, true
	case BuiltinWhile:
		return builtinWhile, true
	default:
		return nil, false
	}
}

func arity(name string, args []Node, minArgs, maxArgs int) error {
	if len(args) >= minArgs && len(args) <= maxArgs {
		return nil
	}

	if minArgs == maxArgs {
		return ErrArity.
			Explain("%s takes %d argument(s), got %d", name, minArgs, len(args))
	}

	return ErrArity.
		Explain("%s takes %d to %d arguments, got %d", name, minArgs, maxArgs, len(args))
}

// builtinLog writes the display text of each argument, space separated.
func builtinLog(ctx context.Context, e *evaluator, args []Node, scope *Scope) (Node, error) {
	text := make([]string, len(args))

	for i, arg := range args {
		v, err := e.eval(ctx, arg, scope)
		if err != nil {
			return nil, err
		}

		text[i] = Display(v)
	}

	if _, err := fmt.Fprintln(e.cfg.output, strings.Join(text, " ")); err != nil {
		return nil, WrapError(err).With(slog.String("builtin", BuiltinLog))
	}

	return nil, nil //nolint:nilnil
}

// builtinConcat joins the text of string and number arguments.
func builtinConcat(ctx context.Context, e *evaluator, args []Node, scope *Scope) (Node, error) {
	var sb strings.Builder

	for _, arg := range args {
		t, err := e.scalar(ctx, arg, scope)
		if err != nil {
			return nil, err
		}

		if t.Kind != String && t.Kind != Number {
			return nil, ErrTypeMismatch.
				Explain("concat accepts only strings and numbers, found %s %s", t.Kind, t)
		}

		sb.WriteString(t.Text)
	}

	return &TokenExpr{Token: Token{Kind: String, Text: sb.String()}}, nil
}

// builtinDefined reports whether a symbol is bound or a member expression
// resolves. Resolution errors are reported as false.
func builtinDefined(ctx context.Context, e *evaluator, args []Node, scope *Scope) (Node, error) {
	if err := arity(BuiltinDefined, args, 1, 1); err != nil {
		return nil, err
	}

	switch arg := args[0].(type) {
	case *TokenExpr:
		if arg.Token.Kind == Symbol {
			_, ok := scope.Lookup(arg.Token.Text)

			return &TokenExpr{Token: Bool(ok)}, nil
		}

	case *MemberExpr:
		_, err := e.memberGet(ctx, arg, scope)

		return &TokenExpr{Token: Bool(err == nil)}, nil
	}

	return nil, ErrAssignmentTarget.
		Explain("defined accepts only a symbol or member expression, found %s", args[0])
}

// builtinIf evaluates the consequent when the test is true and the optional
// alternate otherwise.
func builtinIf(ctx context.Context, e *evaluator, args []Node, scope *Scope) (Node, error) {
	if err := arity(BuiltinIf, args, 2, 3); err != nil { //nolint:mnd
		return nil, err
	}

	test, err := e.truth(ctx, args[0], scope)
	if err != nil {
		return nil, err
	}

	switch {
	case test:
		return e.handle(ctx, args[1], scope)
	case len(args) == 3: //nolint:mnd
		return e.handle(ctx, args[2], scope)
	default:
		return nil, nil //nolint:nilnil
	}
}

// handle runs the body of a function literal, or evaluates any other node.
func (e *evaluator) handle(ctx context.Context, h Node, scope *Scope) (Node, error) {
	fn, ok := h.(*FunctionExpr)
	if !ok {
		return e.eval(ctx, h, scope)
	}

	if len(fn.Body) == 0 {
		return nil, nil //nolint:nilnil
	}

	return e.run(ctx, fn.Body, scope)
}

// truth evaluates a test. Only the Boolean true is true; a test that produces
// nothing, a dictionary, or a function is false.
func (e *evaluator) truth(ctx context.Context, n Node, scope *Scope) (bool, error) {
	v, err := e.eval(ctx, n, scope)
	if err != nil {
		return false, err
	}

	t, ok := v.(*TokenExpr)

	return ok && t.Token.IsTrue(), nil
}

// builtinWhile runs the handler's body as long as the test is true.
func builtinWhile(ctx context.Context, e *evaluator, args []Node, scope *Scope) (Node, error) {
	if err := arity(BuiltinWhile, args, 2, 2); err != nil { //nolint:mnd
		return nil, err
	}

	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		test, err := e.truth(ctx, args[0], scope)
		if err != nil {
			return nil, err
		}

		if !test {
			e.cfg.logger.TraceContext(ctx, "loop done", slog.Int("iterations", n))

			return nil, nil //nolint:nilnil
		}

		// The handler is only checked once the test has passed.
		fn, ok := args[1].(*FunctionExpr)
		if !ok {
			return nil, ErrTypeMismatch.
				Explain("while handler must be a function literal, found %s", args[1])
		}

		if _, err := e.run(ctx, fn.Body, scope); err != nil {
			return nil, err
		}
	}
}
