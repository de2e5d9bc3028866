package lang

import (
	"log/slog"
	"strconv"
)

// Kind classifies a [Token].
type Kind int

const (
	// Number is a run of decimal digits, or the decimal result of arithmetic.
	Number Kind = iota

	// String is a quoted literal without its quotes.
	String

	// Symbol is an identifier made of letters and underscores.
	Symbol

	// Boolean is the literal true or false.
	Boolean

	// MathOperation is one of + - * / %.
	MathOperation

	// Special is single-character punctuation.
	Special
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Number:
		return "Number"
	case String:
		return "String"
	case Symbol:
		return "Symbol"
	case Boolean:
		return "Boolean"
	case MathOperation:
		return "MathOperation"
	case Special:
		return "Special"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Literal text of the Boolean tokens.
const (
	True  = "true"
	False = "false"
)

// Break is the keyword that ends evaluation of the current statement list.
const Break = "break"

// Token is the smallest lexical unit. Tokens are values; they carry no
// position information.
type Token struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	Text string `json:"text" yaml:"text"`
}

// Bool returns the Boolean token for b.
func Bool(b bool) Token {
	if b {
		return Token{Kind: Boolean, Text: True}
	}

	return Token{Kind: Boolean, Text: False}
}

// IsTrue reports whether t is the Boolean literal true.
func (t Token) IsTrue() bool {
	return t.Kind == Boolean && t.Text == True
}

// Is reports whether t is a token of kind k with the given text.
func (t Token) Is(k Kind, text string) bool {
	return t.Kind == k && t.Text == text
}

// String returns the token as source text. String tokens are quoted.
func (t Token) String() string {
	if t.Kind == String {
		return strconv.Quote(t.Text)
	}

	return t.Text
}

// LogValue implements slog.LogValuer.
func (t Token) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", t.Kind.String()),
		slog.String("text", t.Text),
	)
}
