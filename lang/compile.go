package lang

import (
	"context"
	"log/slog"
)

// Program is compiled source. It is never modified after compilation and may
// be shared and run concurrently against distinct scopes.
type Program struct {
	Source     string  `json:"-"          yaml:"-"`
	Tokens     []Token `json:"tokens"     yaml:"tokens"`
	Statements []Node  `json:"statements" yaml:"statements"`
}

// Compile tokenizes and parses source.
func Compile(ctx context.Context, source string, opts ...Option) (*Program, error) {
	return compile(ctx, source, makeConfig(opts...))
}

func compile(ctx context.Context, source string, cfg *config) (*Program, error) {
	tokens, err := tokenize(ctx, source, cfg)
	if err != nil {
		return nil, err
	}

	stmts, err := parse(ctx, tokens, cfg)
	if err != nil {
		return nil, err
	}

	cfg.logger.DebugContext(ctx, "compiled",
		slog.Int("tokens", len(tokens)),
		slog.Int("statements", len(stmts)))

	return &Program{Source: source, Tokens: tokens, Statements: stmts}, nil
}

// Run evaluates the program against scope; see [Evaluate].
func (p *Program) Run(ctx context.Context, scope *Scope, opts ...Option) (Node, error) {
	return Evaluate(ctx, p.Statements, scope, opts...)
}
