package lang

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_Bind(t *testing.T) {
	scope := NewScope()

	require.NoError(t, scope.Bind("cfg", map[string]any{
		"name": "tinct",
		"tags": []any{"a", "b"},
		"n":    3,
		"ok":   true,
		"env":  map[string]string{"HOME": "/home/me"},
	}))

	tests := []struct {
		src  string
		want Token
	}{
		{`cfg["name"]`, str("tinct")},
		{`cfg["tags"][0]`, str("a")},
		{`cfg["tags"][1]`, str("b")},
		{`cfg["n"] + 1`, num("4")},
		{`cfg["ok"] == true`, boolean(true)},
		{`cfg["env"]["HOME"]`, str("/home/me")},
	}

	for _, tt := range tests {
		prog, err := Compile(t.Context(), tt.src)
		require.NoError(t, err, tt.src)

		v, err := prog.Run(t.Context(), scope)
		require.NoError(t, err, tt.src)
		assert.Equal(t, tok(tt.want), v, tt.src)
	}
}

func TestScope_Bind_Errors(t *testing.T) {
	scope := NewScope()

	err := scope.Bind("ch", make(chan int))
	require.ErrorIs(t, err, ErrHostBinding)

	err = scope.Bind("nan", math.NaN())
	require.ErrorIs(t, err, ErrHostBinding)

	err = scope.Bind("deep", map[string]any{"x": []any{struct{}{}}})
	require.ErrorIs(t, err, ErrHostBinding)

	assert.Zero(t, scope.Len())
}

func TestFromValue(t *testing.T) {
	tests := []struct {
		in   any
		want Node
	}{
		{true, tok(boolean(true))},
		{"s", tok(str("s"))},
		{int8(-3), tok(num("-3"))},
		{uint64(math.MaxUint64), tok(num("18446744073709551615"))},
		{1.5, tok(num("1.5"))},
		{float32(2), tok(num("2"))},
		{[]string{"x"}, &Dictionary{Body: []Pair{{Key: str("0"), Value: tok(str("x"))}}}},
		{
			map[string]any{"b": 2, "a": 1},
			&Dictionary{Body: []Pair{
				{Key: str("a"), Value: tok(num("1"))},
				{Key: str("b"), Value: tok(num("2"))},
			}},
		},
	}

	for _, tt := range tests {
		got, err := FromValue(tt.in)
		require.NoError(t, err, "%#v", tt.in)
		assert.Equal(t, tt.want, got, "%#v", tt.in)
	}

	fn := &FunctionExpr{}
	got, err := FromValue(fn)
	require.NoError(t, err)
	assert.Same(t, fn, got)
}

func TestToValue(t *testing.T) {
	v, _, err := eval(t, `{"a": 1, "b": {"c": "x"}, "d": 5 / 2, "e": false, "a": 9}`)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"a": int64(1),
		"b": map[string]any{"c": "x"},
		"d": 2.5,
		"e": false,
	}, ToValue(v))

	assert.Equal(t, FunctionPlaceholder, ToValue(&FunctionExpr{}))
	assert.Nil(t, ToValue(nil))
}
