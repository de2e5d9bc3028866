package lang

import (
	"context"
	"log/slog"
	"strings"
)

// specials are emitted as single-character [Special] tokens.
const specials = "=()?:{},;[]!><"

// operators are emitted as single-character [MathOperation] tokens.
const operators = "+-*/%"

// lexState identifies which kind of lexeme, if any, is being accumulated.
type lexState int

const (
	lexIdle lexState = iota
	lexNumber
	lexString
	lexSymbol
)

// lexer holds the scanning state for [Tokenize].
type lexer struct {
	tokens []Token
	buf    strings.Builder
	state  lexState
	quote  rune
}

// Tokenize converts source text into an ordered sequence of tokens.
//
// Spaces separate lexemes and are otherwise ignored. Characters that belong to
// no lexeme (newlines, tabs, '.', ...) close any number or symbol being read and
// are dropped. Input that ends inside a string literal returns
// [ErrUnclosedString].
func Tokenize(source string) ([]Token, error) {
	var l lexer

	for _, r := range source {
		l.next(r)
	}

	if l.state == lexString {
		return nil, ErrUnclosedString.
			Explain("string opened with %c is never closed", l.quote).
			With(slog.String("partial", l.buf.String()))
	}

	l.flush()

	return l.tokens, nil
}

func tokenize(ctx context.Context, source string, cfg *config) ([]Token, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}

	cfg.logger.TraceContext(ctx, "tokenize",
		slog.Int("source_bytes", len(source)),
		slog.Int("tokens", len(tokens)))

	return tokens, nil
}

func (l *lexer) next(r rune) {
	if l.state == lexString {
		if r == l.quote {
			l.emit(String)
		} else {
			l.buf.WriteRune(r)
		}

		return
	}

	switch {
	case isDigit(r):
		l.open(lexNumber)
		l.buf.WriteRune(r)

	case isSymbolRune(r):
		l.open(lexSymbol)
		l.buf.WriteRune(r)

	case r == '"' || r == '\'':
		l.flush()
		l.state = lexString
		l.quote = r

	case strings.ContainsRune(specials, r):
		l.flush()
		l.tokens = append(l.tokens, Token{Kind: Special, Text: string(r)})

	case strings.ContainsRune(operators, r):
		l.flush()
		l.tokens = append(l.tokens, Token{Kind: MathOperation, Text: string(r)})

	default:
		l.flush()
	}
}

// open switches to state s, first emitting any different lexeme in progress.
func (l *lexer) open(s lexState) {
	if l.state != s {
		l.flush()
		l.state = s
	}
}

// flush emits the number or symbol being read, if any.
func (l *lexer) flush() {
	switch l.state {
	case lexNumber:
		l.emit(Number)
	case lexSymbol:
		switch text := l.buf.String(); text {
		case True, False:
			l.emit(Boolean)
		default:
			l.emit(Symbol)
		}
	case lexIdle, lexString:
	}
}

func (l *lexer) emit(k Kind) {
	l.tokens = append(l.tokens, Token{Kind: k, Text: l.buf.String()})
	l.buf.Reset()
	l.state = lexIdle
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isSymbolRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}
