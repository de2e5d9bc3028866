package lang

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func tok(t Token) *TokenExpr { return &TokenExpr{Token: t} }

func mustParse(t *testing.T, src string) []Node {
	t.Helper()

	tokens, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", src, err)
	}

	stmts, err := Parse(tokens)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}

	return stmts
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Node
	}{
		{
			"string literal",
			`"Hello!"`,
			[]Node{tok(str("Hello!"))},
		},
		{
			"number literal",
			"120",
			[]Node{tok(num("120"))},
		},
		{
			"empty statements",
			";; a ;;",
			[]Node{tok(sym("a"))},
		},
		{
			"assignment",
			"a = 1",
			[]Node{&Assignment{Left: tok(sym("a")), Right: tok(num("1"))}},
		},
		{
			"assignment without value",
			"a =",
			[]Node{&Assignment{Left: tok(sym("a"))}},
		},
		{
			"right nested arithmetic",
			"2 + 2 * 4 / 2",
			[]Node{&MathOp{
				Operator: Add,
				Left:     tok(num("2")),
				Right: &MathOp{
					Operator: Multiply,
					Left:     tok(num("2")),
					Right: &MathOp{
						Operator: Divide,
						Left:     tok(num("4")),
						Right:    tok(num("2")),
					},
				},
			}},
		},
		{
			"equals",
			"a == b",
			[]Node{&Test{Operator: Equal, Left: tok(sym("a")), Right: tok(sym("b"))}},
		},
		{
			"not equals",
			`a != "b"`,
			[]Node{&Test{Operator: NotEqual, Left: tok(sym("a")), Right: tok(str("b"))}},
		},
		{
			"greater with arithmetic",
			"a > 1 + 2",
			[]Node{&Test{
				Operator: Greater,
				Left:     tok(sym("a")),
				Right:    &MathOp{Operator: Add, Left: tok(num("1")), Right: tok(num("2"))},
			}},
		},
		{
			"call without arguments",
			"f()",
			[]Node{&FunctionCall{Symbol: "f"}},
		},
		{
			"nested calls",
			"f(1, g(2, 3), x)",
			[]Node{&FunctionCall{Symbol: "f", Args: []Node{
				tok(num("1")),
				&FunctionCall{Symbol: "g", Args: []Node{tok(num("2")), tok(num("3"))}},
				tok(sym("x")),
			}}},
		},
		{
			"call in arithmetic",
			"f(1) + 2",
			[]Node{&MathOp{
				Operator: Add,
				Left:     &FunctionCall{Symbol: "f", Args: []Node{tok(num("1"))}},
				Right:    tok(num("2")),
			}},
		},
		{
			"call with dictionary argument",
			`f({"a": 1, "b": 2}, 3)`,
			[]Node{&FunctionCall{Symbol: "f", Args: []Node{
				&Dictionary{Body: []Pair{
					{Key: str("a"), Value: tok(num("1"))},
					{Key: str("b"), Value: tok(num("2"))},
				}},
				tok(num("3")),
			}}},
		},
		{
			"function literal",
			"{(a, b) a + b}",
			[]Node{&FunctionExpr{
				Params: []Token{sym("a"), sym("b")},
				Body:   []Node{&MathOp{Operator: Add, Left: tok(sym("a")), Right: tok(sym("b"))}},
			}},
		},
		{
			"function without body",
			"{() }",
			[]Node{&FunctionExpr{}},
		},
		{
			"function with statements",
			"add = {() count = 2; 2 * count}; add(); count",
			[]Node{
				&Assignment{
					Left: tok(sym("add")),
					Right: &FunctionExpr{Body: []Node{
						&Assignment{Left: tok(sym("count")), Right: tok(num("2"))},
						&MathOp{Operator: Multiply, Left: tok(num("2")), Right: tok(sym("count"))},
					}},
				},
				&FunctionCall{Symbol: "add"},
				tok(sym("count")),
			},
		},
		{
			"empty dictionary",
			"{}",
			[]Node{&Dictionary{}},
		},
		{
			"nested dictionary",
			`{"a": 1 + 2, "b": {"c": true},}`,
			[]Node{&Dictionary{Body: []Pair{
				{Key: str("a"), Value: &MathOp{Operator: Add, Left: tok(num("1")), Right: tok(num("2"))}},
				{Key: str("b"), Value: &Dictionary{Body: []Pair{
					{Key: str("c"), Value: tok(boolean(true))},
				}}},
			}}},
		},
		{
			"duplicate keys kept",
			`{"a": 1, "a": 2}`,
			[]Node{&Dictionary{Body: []Pair{
				{Key: str("a"), Value: tok(num("1"))},
				{Key: str("a"), Value: tok(num("2"))},
			}}},
		},
		{
			"dictionary with function value",
			`{"f": {(x) x}}`,
			[]Node{&Dictionary{Body: []Pair{
				{Key: str("f"), Value: &FunctionExpr{
					Params: []Token{sym("x")},
					Body:   []Node{tok(sym("x"))},
				}},
			}}},
		},
		{
			"member read",
			`data["a"][k]`,
			[]Node{&MemberExpr{Symbol: sym("data"), Keys: []Node{tok(str("a")), tok(sym("k"))}}},
		},
		{
			"member key expression",
			`data[f(1)][x[0]]`,
			[]Node{&MemberExpr{Symbol: sym("data"), Keys: []Node{
				&FunctionCall{Symbol: "f", Args: []Node{tok(num("1"))}},
				&MemberExpr{Symbol: sym("x"), Keys: []Node{tok(num("0"))}},
			}}},
		},
		{
			"member write",
			`data["a"]["b"] = 3`,
			[]Node{&Assignment{
				Left:  &MemberExpr{Symbol: sym("data"), Keys: []Node{tok(str("a")), tok(str("b"))}},
				Right: tok(num("3")),
			}},
		},
		{
			"member test",
			`data["a"] == 1`,
			[]Node{&Test{
				Operator: Equal,
				Left:     &MemberExpr{Symbol: sym("data"), Keys: []Node{tok(str("a"))}},
				Right:    tok(num("1")),
			}},
		},
		{
			"if with handlers",
			`if(x > 1, {() "yes"}, {() "no"})`,
			[]Node{&FunctionCall{Symbol: "if", Args: []Node{
				&Test{Operator: Greater, Left: tok(sym("x")), Right: tok(num("1"))},
				&FunctionExpr{Body: []Node{tok(str("yes"))}},
				&FunctionExpr{Body: []Node{tok(str("no"))}},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.src)

			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.src, diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{"= 1", ErrSyntax},
		{"1 +", ErrSyntax},
		{"+ 1", ErrSyntax},
		{"(", ErrSyntax},
		{"a b", ErrSyntax},
		{"a ! b", ErrSyntax},
		{"a >", ErrSyntax},
		{"f(1", ErrSyntax},
		{"data[]", ErrSyntax},
		{`data["a"`, ErrSyntax},
		{`{"a" 1}`, ErrSyntax},
		{`{"a": }`, ErrSyntax},
		{`{"a": 1, 2: 3}`, ErrSyntax},
		{"{(1) 2}", ErrSyntax},
		{"{(a) a", ErrSyntax},
		{"{ 5 }", ErrSyntax},
		{"f(1) = 2", ErrAssignmentTarget},
		{"{(a) a} = 2", ErrAssignmentTarget},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tokens, err := Tokenize(tt.src)
			if err != nil {
				t.Fatalf("Tokenize(%q) error: %v", tt.src, err)
			}

			_, err = Parse(tokens)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.src, err, tt.want)
			}
		})
	}
}

func TestNode_String(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`a = "x"`, `a = "x"`},
		{"f(1,2)", "f(1, 2)"},
		{"{(a,b) a+b}", "{(a, b) a + b}"},
		{"{() }", "{()}"},
		{`{"k":{"n":1}}`, `{"k": {"n": 1}}`},
		{`d["a"][1] == true`, `d["a"][1] == true`},
	}

	for _, tt := range tests {
		stmts := mustParse(t, tt.src)
		if len(stmts) != 1 {
			t.Fatalf("Parse(%q) returned %d statements", tt.src, len(stmts))
		}

		if got := stmts[0].String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
