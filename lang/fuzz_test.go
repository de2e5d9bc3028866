package lang

import (
	"context"
	"testing"
	"time"
)

var fuzzSeeds = []string{
	"",
	`"Hello!"`,
	"a = 1; a + 2 * 3",
	"add = {(a, b) a + b}; add(2, 3)",
	`d = {"a": {"b": 1}}; d["a"]["b"] = 2; d["a"]`,
	`if(x > 1, {() "yes"}, {() "no"})`,
	`i = 0; while(i < 3, {() i = i + 1})`,
	"f(1",
	"{(a) a",
	`'unclosed`,
	"= = ; ; ] [ } {",
}

func FuzzTokenize(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, src string) {
		tokens, err := Tokenize(src)
		if err != nil {
			return
		}

		for _, tok := range tokens {
			if tok.Kind != String && tok.Text == "" {
				t.Fatalf("Tokenize(%q) produced empty %s token", src, tok.Kind)
			}
		}
	})
}

func FuzzEvaluate(f *testing.F) {
	for _, s := range fuzzSeeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, src string) {
		prog, err := Compile(context.Background(), src)
		if err != nil {
			return
		}

		// Loops may not terminate.
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, _ = prog.Run(ctx, NewScope(), WithOutput(nil), WithMaxDepth(16))
	})
}
