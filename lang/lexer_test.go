package lang

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func sym(s string) Token { return Token{Kind: Symbol, Text: s} }
func num(s string) Token { return Token{Kind: Number, Text: s} }
func str(s string) Token { return Token{Kind: String, Text: s} }
func spc(s string) Token { return Token{Kind: Special, Text: s} }
func mop(s string) Token { return Token{Kind: MathOperation, Text: s} }

func boolean(b bool) Token { return Bool(b) }

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{"empty", "", nil},
		{"spaces only", "   ", nil},
		{"string", `"Hello!"`, []Token{str("Hello!")}},
		{"empty string", `""`, []Token{str("")}},
		{"number", "120", []Token{num("120")}},
		{
			"assignment",
			"a = 1;",
			[]Token{sym("a"), spc("="), num("1"), spc(";")},
		},
		{
			"operators without spaces",
			"x+1*y",
			[]Token{sym("x"), mop("+"), num("1"), mop("*"), sym("y")},
		},
		{
			"booleans",
			"true false truth",
			[]Token{boolean(true), boolean(false), sym("truth")},
		},
		{
			"number then symbol",
			"12ab",
			[]Token{num("12"), sym("ab")},
		},
		{
			"symbol then number",
			"ab12",
			[]Token{sym("ab"), num("12")},
		},
		{
			"underscore symbol",
			"_snake_case",
			[]Token{sym("_snake_case")},
		},
		{
			"newline separates",
			"a\nb\tc",
			[]Token{sym("a"), sym("b"), sym("c")},
		},
		{
			"no decimal point",
			"3.14",
			[]Token{num("3"), num("14")},
		},
		{
			"operators inside strings",
			`"a + b; c"`,
			[]Token{str("a + b; c")},
		},
		{
			"mixed quotes",
			`'say "hi"' "it's"`,
			[]Token{str(`say "hi"`), str("it's")},
		},
		{
			"not equals",
			"x % 2 != 0",
			[]Token{sym("x"), mop("%"), num("2"), spc("!"), spc("="), num("0")},
		},
		{
			"member",
			`data["0"]`,
			[]Token{sym("data"), spc("["), str("0"), spc("]")},
		},
		{
			"function literal",
			"{(a, b) a - b}",
			[]Token{
				spc("{"), spc("("), sym("a"), spc(","), sym("b"), spc(")"),
				sym("a"), mop("-"), sym("b"), spc("}"),
			},
		},
		{
			"all specials",
			"=()?:{},;[]!><",
			[]Token{
				spc("="), spc("("), spc(")"), spc("?"), spc(":"), spc("{"),
				spc("}"), spc(","), spc(";"), spc("["), spc("]"), spc("!"),
				spc(">"), spc("<"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize(%q) error: %v", tt.input, err)
			}

			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestTokenize_UnclosedString(t *testing.T) {
	for _, input := range []string{`"abc`, `'abc"`, `x = "`, `"a" 'b`} {
		_, err := Tokenize(input)
		if !errors.Is(err, ErrUnclosedString) {
			t.Errorf("Tokenize(%q) error = %v, want ErrUnclosedString", input, err)
		}
	}
}

// Concatenating the token texts reproduces the significant characters of the
// input in order.
func TestTokenize_PreservesOrder(t *testing.T) {
	inputs := []string{
		"a=b+12*(c)",
		"f = {(x, y) x % y}; f(10, 3)",
		`d = {"k": [1]}; d["k"] > 0 != true`,
	}

	for _, input := range inputs {
		tokens, err := Tokenize(input)
		if err != nil {
			t.Fatalf("Tokenize(%q) error: %v", input, err)
		}

		var sb strings.Builder
		for _, tok := range tokens {
			if tok.Kind == String {
				sb.WriteString(`"` + tok.Text + `"`)
			} else {
				sb.WriteString(tok.Text)
			}
		}

		want := strings.ReplaceAll(input, " ", "")
		if got := sb.String(); got != want {
			t.Errorf("reconstructed %q, want %q", got, want)
		}
	}
}

func TestKind_String(t *testing.T) {
	for k, want := range map[Kind]string{
		Number:        "Number",
		String:        "String",
		Symbol:        "Symbol",
		Boolean:       "Boolean",
		MathOperation: "MathOperation",
		Special:       "Special",
		Kind(42):      "Kind(42)",
	} {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}

func BenchmarkTokenize(b *testing.B) {
	src := strings.Repeat(`total = total + item["price"] * 2; `, 50)

	for b.Loop() {
		if _, err := Tokenize(src); err != nil {
			b.Fatal(err)
		}
	}
}
