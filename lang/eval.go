package lang

import (
	"context"
	"log/slog"
	"math"
	"strconv"

	"github.com/ardnew/tinct/log"
)

// Evaluate runs stmts against scope and returns the value of the last
// statement, or nil if it produced nothing. A nil scope is replaced by an
// empty one.
//
// Evaluation stops at the first error. The context is checked before each
// statement and each loop iteration.
func Evaluate(
	ctx context.Context,
	stmts []Node,
	scope *Scope,
	opts ...Option,
) (Node, error) {
	return NewInterpreter(scope, opts...).Run(ctx, stmts)
}

// Interpreter evaluates programs against a scope that persists between runs.
type Interpreter struct {
	scope *Scope
	cfg   *config
}

// NewInterpreter returns an Interpreter bound to scope, or to a new empty
// scope if scope is nil.
func NewInterpreter(scope *Scope, opts ...Option) *Interpreter {
	if scope == nil {
		scope = NewScope()
	}

	return &Interpreter{scope: scope, cfg: makeConfig(opts...)}
}

// Scope returns the interpreter's top-level scope.
func (in *Interpreter) Scope() *Scope { return in.scope }

// Run evaluates stmts; see [Evaluate].
func (in *Interpreter) Run(ctx context.Context, stmts []Node) (Node, error) {
	e := &evaluator{cfg: in.cfg}

	return e.run(ctx, stmts, in.scope)
}

// Eval compiles and runs source.
func (in *Interpreter) Eval(ctx context.Context, source string) (Node, error) {
	cfg := in.cfg

	tokens, err := tokenize(ctx, source, cfg)
	if err != nil {
		return nil, err
	}

	stmts, err := parse(ctx, tokens, cfg)
	if err != nil {
		return nil, err
	}

	return in.Run(ctx, stmts)
}

// evaluator carries per-run state.
type evaluator struct {
	cfg   *config
	depth int
}

// run evaluates a statement list. A bare break ends the list.
func (e *evaluator) run(ctx context.Context, stmts []Node, scope *Scope) (Node, error) {
	var last Node

	for i, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if isBreak(stmt) {
			return nil, nil //nolint:nilnil
		}

		if e.cfg.logger.Enabled(ctx, log.LevelTrace) {
			e.cfg.logger.TraceContext(ctx, "statement",
				slog.Int("index", i),
				slog.Int("depth", e.depth),
				slog.String("node", stmt.String()))
		}

		v, err := e.eval(ctx, stmt, scope)
		if err != nil {
			return nil, err
		}

		last = v
	}

	return last, nil
}

func isBreak(n Node) bool {
	t, ok := n.(*TokenExpr)

	return ok && t.Token.Is(Symbol, Break)
}

func (e *evaluator) eval(ctx context.Context, n Node, scope *Scope) (Node, error) {
	switch n := n.(type) {
	case *Assignment:
		return nil, e.assign(ctx, n, scope)

	case *TokenExpr:
		return e.resolve(n, scope)

	case *FunctionExpr:
		return n, nil

	case *Dictionary:
		return e.dictionary(ctx, n, scope)

	case *MathOp:
		return e.math(ctx, n, scope)

	case *Test:
		return e.test(ctx, n, scope)

	case *FunctionCall:
		return e.call(ctx, n, scope)

	case *MemberExpr:
		return e.memberGet(ctx, n, scope)

	default:
		return nil, ErrSyntax.Explain("cannot evaluate node of type %T", n)
	}
}

// resolve returns the value of a token: literals are their own value,
// symbols are looked up.
func (e *evaluator) resolve(n *TokenExpr, scope *Scope) (Node, error) {
	if n.Token.Kind != Symbol {
		return n, nil
	}

	if n.Token.Text == Break {
		return nil, nil //nolint:nilnil
	}

	v, ok := scope.Lookup(n.Token.Text)
	if !ok {
		return nil, undefined("%s is not defined", n.Token.Text, scope)
	}

	return v, nil
}

// value evaluates n and fails if it produces nothing.
func (e *evaluator) value(ctx context.Context, n Node, scope *Scope) (Node, error) {
	v, err := e.eval(ctx, n, scope)
	if err != nil {
		return nil, err
	}

	if v == nil {
		return nil, ErrTypeMismatch.Explain("%s produces nothing", n)
	}

	return v, nil
}

// scalar evaluates n to a token.
func (e *evaluator) scalar(ctx context.Context, n Node, scope *Scope) (Token, error) {
	v, err := e.value(ctx, n, scope)
	if err != nil {
		return Token{}, err
	}

	t, ok := v.(*TokenExpr)
	if !ok {
		return Token{}, ErrTypeMismatch.
			Explain("%s is %s, not a scalar", n, Display(v))
	}

	return t.Token, nil
}

func (e *evaluator) number(ctx context.Context, n Node, scope *Scope) (float64, error) {
	t, err := e.scalar(ctx, n, scope)
	if err != nil {
		return 0, err
	}

	if t.Kind != Number {
		return 0, ErrTypeMismatch.
			Explain("can only execute numeric operations on numbers, found %s %s", t.Kind, t)
	}

	f, err := strconv.ParseFloat(t.Text, 64)
	if err != nil {
		return 0, ErrTypeMismatch.Wrap(err)
	}

	return f, nil
}

func numberToken(f float64) *TokenExpr {
	return &TokenExpr{Token: Token{
		Kind: Number,
		Text: strconv.FormatFloat(f, 'f', -1, 64),
	}}
}

func (e *evaluator) math(ctx context.Context, n *MathOp, scope *Scope) (Node, error) {
	l, err := e.number(ctx, n.Left, scope)
	if err != nil {
		return nil, err
	}

	r, err := e.number(ctx, n.Right, scope)
	if err != nil {
		return nil, err
	}

	switch n.Operator {
	case Add:
		return numberToken(l + r), nil

	case Subtract:
		if !e.cfg.subtraction {
			return numberToken(l + r), nil
		}

		return numberToken(l - r), nil

	case Multiply:
		return numberToken(l * r), nil

	case Divide:
		if r == 0 {
			return nil, ErrDivideByZero.Explain("%s", n)
		}

		return numberToken(l / r), nil

	case Modulo:
		if r == 0 {
			return nil, ErrDivideByZero.Explain("%s", n)
		}

		return numberToken(math.Mod(l, r)), nil

	case Equal, NotEqual, Greater, Less:
	}

	return nil, ErrSyntax.Explain("unknown arithmetic operator %s", n.Operator)
}

func (e *evaluator) test(ctx context.Context, n *Test, scope *Scope) (Node, error) {
	switch n.Operator {
	case Equal, NotEqual:
		l, err := e.scalar(ctx, n.Left, scope)
		if err != nil {
			return nil, err
		}

		r, err := e.scalar(ctx, n.Right, scope)
		if err != nil {
			return nil, err
		}

		return &TokenExpr{Token: Bool((l == r) == (n.Operator == Equal))}, nil

	case Greater, Less:
		l, err := e.number(ctx, n.Left, scope)
		if err != nil {
			return nil, err
		}

		r, err := e.number(ctx, n.Right, scope)
		if err != nil {
			return nil, err
		}

		if n.Operator == Greater {
			return &TokenExpr{Token: Bool(l > r)}, nil
		}

		return &TokenExpr{Token: Bool(l < r)}, nil

	case Add, Subtract, Multiply, Divide, Modulo:
	}

	return nil, ErrSyntax.Explain("unknown comparison operator %s", n.Operator)
}

// dictionary evaluates a dictionary literal into a new dictionary value.
func (e *evaluator) dictionary(ctx context.Context, n *Dictionary, scope *Scope) (Node, error) {
	d := &Dictionary{Body: make([]Pair, 0, len(n.Body))}

	for _, p := range n.Body {
		v, err := e.eval(ctx, p.Value, scope)
		if err != nil {
			return nil, err
		}

		if v == nil {
			return nil, ErrTypeMismatch.
				Explain("value of dictionary key %s produces nothing", p.Key)
		}

		d.Body = append(d.Body, Pair{Key: p.Key, Value: v})
	}

	return d, nil
}

func (e *evaluator) assign(ctx context.Context, n *Assignment, scope *Scope) error {
	if m, ok := n.Left.(*MemberExpr); ok {
		return e.memberSet(ctx, m, n.Right, scope)
	}

	left, ok := n.Left.(*TokenExpr)
	if !ok || left.Token.Kind != Symbol {
		return ErrAssignmentTarget.
			Explain("cannot assign values to a non-symbol %s", nodeString(n.Left))
	}

	name := left.Token.Text

	v, err := e.assignedValue(ctx, name, n.Right, scope)
	if err != nil {
		return err
	}

	scope.Set(name, v)

	return nil
}

// assignedValue evaluates the right side of an assignment to name.
func (e *evaluator) assignedValue(
	ctx context.Context,
	name string,
	right Node,
	scope *Scope,
) (Node, error) {
	if right == nil {
		return nil, ErrAssignmentTarget.
			Explain("symbol %s does not specify a value to be assigned to it", name)
	}

	v, err := e.eval(ctx, right, scope)
	if err != nil {
		return nil, err
	}

	if v == nil {
		return nil, ErrAssignmentTarget.
			Explain("%s produces nothing, which cannot be assigned to %s", right, name)
	}

	// Reading through a member expression must not alias the stored value.
	if d, ok := v.(*Dictionary); ok {
		if _, member := right.(*MemberExpr); member {
			v = d.Clone()
		}
	}

	return v, nil
}

func (e *evaluator) call(ctx context.Context, n *FunctionCall, scope *Scope) (Node, error) {
	if b, ok := lookupBuiltin(n.Symbol); ok {
		return b(ctx, e, n.Args, scope)
	}

	v, ok := scope.Lookup(n.Symbol)
	if !ok {
		return nil, undefined("function %s is not defined", n.Symbol, scope)
	}

	fn, ok := v.(*FunctionExpr)
	if !ok {
		return nil, ErrNotCallable.
			Explain("%s is not a function", n.Symbol).
			With(slog.String("symbol", n.Symbol))
	}

	return e.invoke(ctx, n.Symbol, fn, n.Args, scope)
}

// invoke calls a user function. Arguments are evaluated in the caller's
// scope and bound to the parameters in the callee's scope, which is the
// caller's scope itself unless calls are isolated.
func (e *evaluator) invoke(
	ctx context.Context,
	name string,
	fn *FunctionExpr,
	args []Node,
	scope *Scope,
) (Node, error) {
	switch {
	case len(args) < len(fn.Params):
		return nil, ErrArity.
			Explain("call to %s is missing parameters: want %d, got %d",
				name, len(fn.Params), len(args))
	case len(args) > len(fn.Params):
		return nil, ErrArity.
			Explain("call to %s has too many parameters: want %d, got %d",
				name, len(fn.Params), len(args))
	}

	if fn.Body == nil {
		return nil, nil //nolint:nilnil
	}

	if e.depth >= e.cfg.maxDepth {
		return nil, ErrMaxDepthExceeded.
			Explain("call to %s exceeds depth %d", name, e.cfg.maxDepth)
	}

	values := make([]Node, len(args))

	for i, arg := range args {
		v, err := e.eval(ctx, arg, scope)
		if err != nil {
			return nil, err
		}

		if v == nil {
			return nil, ErrAssignmentTarget.
				Explain("call to %s has parameter %s that produces nothing",
					name, fn.Params[i].Text)
		}

		values[i] = v
	}

	callee := scope
	if e.cfg.isolated {
		callee = scope.Child()
	}

	for i, p := range fn.Params {
		callee.Set(p.Text, values[i])
	}

	e.cfg.logger.TraceContext(ctx, "call",
		slog.String("function", name),
		slog.Int("args", len(args)),
		slog.Int("depth", e.depth+1))

	e.depth++
	defer func() { e.depth-- }()

	return e.run(ctx, fn.Body, callee)
}

// memberRoot returns the dictionary bound to the member expression's symbol.
func (e *evaluator) memberRoot(m *MemberExpr, scope *Scope) (*Dictionary, error) {
	v, ok := scope.Lookup(m.Symbol.Text)
	if !ok {
		return nil, undefined("%s is not defined", m.Symbol.Text, scope)
	}

	d, ok := v.(*Dictionary)
	if !ok {
		return nil, ErrTypeMismatch.Explain("%s is not a dictionary", m.Symbol.Text)
	}

	return d, nil
}

func (e *evaluator) memberKey(
	ctx context.Context,
	m *MemberExpr,
	key Node,
	scope *Scope,
) (string, error) {
	t, err := e.scalar(ctx, key, scope)
	if err != nil {
		return "", ErrTypeMismatch.
			Explain("key on %s could not be resolved", m.Symbol.Text).
			Wrap(err)
	}

	return t.Text, nil
}

func missingKey(m *MemberExpr, key string) *Error {
	return ErrUndefinedSymbol.
		Explain("key %s on %s is undefined", strconv.Quote(key), m.Symbol.Text).
		With(slog.String("symbol", m.Symbol.Text), slog.String("key", key))
}

func (e *evaluator) memberGet(ctx context.Context, m *MemberExpr, scope *Scope) (Node, error) {
	cur, err := e.memberRoot(m, scope)
	if err != nil {
		return nil, err
	}

	for i, k := range m.Keys {
		key, err := e.memberKey(ctx, m, k, scope)
		if err != nil {
			return nil, err
		}

		v, ok := cur.Lookup(key)
		if !ok {
			return nil, missingKey(m, key)
		}

		last := i == len(m.Keys)-1

		switch v := v.(type) {
		case *TokenExpr:
			if last {
				return v, nil
			}

			return nil, ErrTypeMismatch.
				Explain("%s[%s] is not a dictionary", m.Symbol.Text, strconv.Quote(key))

		case *Dictionary:
			if last {
				return v, nil
			}

			cur = v

		default:
			return nil, ErrTypeMismatch.Explain(
				"could not resolve dictionary value on %s: "+
					"only token literals and dictionaries are valid values",
				m.Symbol.Text)
		}
	}

	return cur, nil
}

func (e *evaluator) memberSet(
	ctx context.Context,
	m *MemberExpr,
	right Node,
	scope *Scope,
) error {
	cur, err := e.memberRoot(m, scope)
	if err != nil {
		return err
	}

	if len(m.Keys) == 0 {
		_, err := e.assignedValue(ctx, m.Symbol.Text, right, scope)

		return err
	}

	var key string

	// The target path is resolved before the value is evaluated.
	for i, k := range m.Keys {
		key, err = e.memberKey(ctx, m, k, scope)
		if err != nil {
			return err
		}

		if i == len(m.Keys)-1 {
			break
		}

		idx := cur.index(key)
		if idx < 0 {
			return missingKey(m, key)
		}

		next, ok := cur.Body[idx].Value.(*Dictionary)
		if !ok {
			return ErrTypeMismatch.
				Explain("%s[%s] is not a dictionary", m.Symbol.Text, strconv.Quote(key))
		}

		cur = next
	}

	if idx := cur.index(key); idx < 0 && !e.cfg.newMemberKeys {
		return missingKey(m, key)
	}

	v, err := e.assignedValue(ctx, m.Symbol.Text, right, scope)
	if err != nil {
		return err
	}

	if idx := cur.index(key); idx >= 0 {
		cur.Body[idx].Value = v

		return nil
	}

	cur.Body = append(cur.Body, Pair{
		Key:   Token{Kind: String, Text: key},
		Value: v,
	})

	return nil
}
