package lang

import (
	"context"
	"log/slog"
)

// Parse splits tokens into statements on ';' outside of braces and parses
// each statement into a single node. Empty statements produce no node.
func Parse(tokens []Token) ([]Node, error) {
	var (
		stmts []Node
		depth int
		start int
	)

	flush := func(end int) error {
		n, err := parseGroup(tokens[start:end])
		if err != nil {
			return err
		}

		if n != nil {
			stmts = append(stmts, n)
		}

		return nil
	}

	for i, tok := range tokens {
		switch {
		case tok.Is(Special, "{"):
			depth++
		case tok.Is(Special, "}"):
			depth--
		case tok.Is(Special, ";") && depth == 0:
			if err := flush(i); err != nil {
				return nil, err
			}

			start = i + 1
		}
	}

	if err := flush(len(tokens)); err != nil {
		return nil, err
	}

	return stmts, nil
}

func parse(ctx context.Context, tokens []Token, cfg *config) ([]Node, error) {
	stmts, err := Parse(tokens)
	if err != nil {
		return nil, err
	}

	cfg.logger.TraceContext(ctx, "parse",
		slog.Int("tokens", len(tokens)),
		slog.Int("statements", len(stmts)))

	return stmts, nil
}

// group parses the tokens of one statement, or of one sub-expression of it.
//
// Tokens are scanned left to right. At most one reader is active at a time;
// while active it consumes every token until it completes a node. Operators
// take the completed node (or the single leading token) as their left operand
// and everything after them as their right operand, so chained operators nest
// to the right regardless of precedence.
type group struct {
	tokens   []Token
	reader   reader
	built    Node
	builtEnd int
}

func parseGroup(tokens []Token) (Node, error) {
	switch len(tokens) {
	case 0:
		return nil, nil //nolint:nilnil

	case 1:
		tok := tokens[0]
		if tok.Kind == Special || tok.Kind == MathOperation {
			return nil, unexpected(tok)
		}

		return &TokenExpr{Token: tok}, nil
	}

	g := &group{tokens: tokens, builtEnd: -1}

	return g.parse()
}

func (g *group) parse() (Node, error) {
	for i, tok := range g.tokens {
		var next *Token
		if i+1 < len(g.tokens) {
			next = &g.tokens[i+1]
		}

		if g.reader != nil {
			n, err := g.reader.feed(tok, next)
			if err != nil {
				return nil, err
			}

			if n != nil {
				g.reader = nil
				g.built = n
				g.builtEnd = i
			}

			continue
		}

		if i == 1 && g.built == nil {
			started, err := g.start(tok, next)
			if err != nil {
				return nil, err
			}

			if started {
				continue
			}
		}

		switch {
		case tok.Kind == MathOperation:
			return g.binary(i, i+1, func(l, r Node) Node {
				return &MathOp{Operator: Operator(tok.Text), Left: l, Right: r}
			})

		case tok.Is(Special, "!"):
			if next == nil || !next.Is(Special, "=") {
				return nil, unexpected(tok)
			}

			return g.test(i, NotEqual)

		case tok.Is(Special, "="):
			if next != nil && next.Is(Special, "=") {
				return g.test(i, Equal)
			}

			return g.assignment(i)

		case tok.Is(Special, ">"):
			return g.test(i, Greater)

		case tok.Is(Special, "<"):
			return g.test(i, Less)

		case i == 0:
			// The leading token waits for whatever follows it.

		default:
			return nil, unexpected(tok)
		}
	}

	if g.reader != nil {
		return nil, ErrSyntax.
			Explain("unterminated %s", g.reader.name()).
			With(slog.String("statement", tokensString(g.tokens)))
	}

	if g.built != nil && g.builtEnd == len(g.tokens)-1 {
		return g.built, nil
	}

	return nil, ErrSyntax.
		Explain("incomplete expression %s", tokensString(g.tokens))
}

// start installs the reader triggered by tok following the leading token.
// It reports whether tok was consumed.
func (g *group) start(tok Token, next *Token) (bool, error) {
	lead := g.tokens[0]

	switch {
	case lead.Kind == Symbol && tok.Is(Special, "["):
		g.reader = &memberReader{symbol: lead}

	case lead.Kind == Symbol && tok.Is(Special, "("):
		g.reader = &callReader{symbol: lead.Text}

	case lead.Is(Special, "{") && tok.Kind == String:
		g.reader = &dictReader{depth: 1}

	case lead.Is(Special, "{") && tok.Is(Special, "("):
		g.reader = &funcReader{depth: 1}

	case lead.Is(Special, "{") && tok.Is(Special, "}"):
		g.built = &Dictionary{}
		g.builtEnd = 1

		return true, nil

	default:
		return false, nil
	}

	n, err := g.reader.feed(tok, next)
	if err != nil {
		return false, err
	}

	if n != nil {
		g.reader = nil
		g.built = n
		g.builtEnd = 1
	}

	return true, nil
}

// leftOperand returns the operand immediately preceding the operator at i.
func (g *group) leftOperand(i int) (Node, error) {
	if g.built != nil && g.builtEnd == i-1 {
		return g.built, nil
	}

	if i == 1 {
		lead := g.tokens[0]
		if lead.Kind != Special && lead.Kind != MathOperation {
			return &TokenExpr{Token: lead}, nil
		}
	}

	return nil, unexpected(g.tokens[i])
}

// binary builds an operator node from the left operand of the operator at i
// and the tokens from rest onward.
func (g *group) binary(i, rest int, build func(l, r Node) Node) (Node, error) {
	left, err := g.leftOperand(i)
	if err != nil {
		return nil, err
	}

	right, err := parseGroup(g.tokens[rest:])
	if err != nil {
		return nil, err
	}

	if right == nil {
		return nil, ErrSyntax.
			Explain("operator %s is missing its right operand", g.tokens[i].Text)
	}

	return build(left, right), nil
}

func (g *group) test(i int, op Operator) (Node, error) {
	rest := i + 1
	if len(op) == 2 { //nolint:mnd
		rest++
	}

	return g.binary(i, rest, func(l, r Node) Node {
		return &Test{Operator: op, Left: l, Right: r}
	})
}

func (g *group) assignment(i int) (Node, error) {
	var left Node

	switch {
	case g.built != nil && g.builtEnd == i-1:
		if _, ok := g.built.(*MemberExpr); !ok {
			return nil, ErrAssignmentTarget.
				Explain("cannot assign to %s", g.built)
		}

		left = g.built

	case i == 1 && g.tokens[0].Kind != Special:
		left = &TokenExpr{Token: g.tokens[0]}

	default:
		return nil, unexpected(g.tokens[i])
	}

	right, err := parseGroup(g.tokens[i+1:])
	if err != nil {
		return nil, err
	}

	return &Assignment{Left: left, Right: right}, nil
}

func unexpected(tok Token) *Error {
	return ErrSyntax.
		Explain("unexpected token %s", tok).
		With(slog.Any("token", tok))
}

func tokensString(tokens []Token) string {
	b := make([]byte, 0, len(tokens)*2) //nolint:mnd

	for i, t := range tokens {
		if i > 0 {
			b = append(b, ' ')
		}

		b = append(b, t.String()...)
	}

	return string(b)
}
