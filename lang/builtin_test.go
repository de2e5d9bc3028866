package lang

import (
	"bytes"
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_Log(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`log("a", 1, true)`, "a 1 true\n"},
		{"log()", "\n"},
		{`f = {() 1}; log(f)`, "[Function]\n"},
		{`d = {"k": 1}; log(d, d["k"])`, "[Dictionary] 1\n"},
		{"log(log())", "\nnull\n"},
		{"x = 2; log(x * 3)", "6\n"},
	}

	for _, tt := range tests {
		var out bytes.Buffer

		v, _, err := eval(t, tt.src, WithOutput(&out))
		require.NoError(t, err, tt.src)
		assert.Nil(t, v, tt.src)
		assert.Equal(t, tt.want, out.String(), tt.src)
	}

	_, _, err := eval(t, "log(missing)", WithOutput(nil))
	assert.ErrorIs(t, err, ErrUndefinedSymbol)
}

func TestBuiltin_Concat(t *testing.T) {
	assert.Equal(t, str("a1b"), evalToken(t, `concat("a", 1, "b")`))
	assert.Equal(t, str(""), evalToken(t, "concat()"))
	assert.Equal(t, str("n=4"), evalToken(t, `n = 2 * 2; concat("n=", n)`))

	for _, src := range []string{
		"concat(true)",
		`d = {}; concat("a", d)`,
		"concat(log())",
	} {
		_, _, err := eval(t, src, WithOutput(nil))
		assert.ErrorIs(t, err, ErrTypeMismatch, src)
	}
}

func TestBuiltin_Defined(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"x = 1; defined(x)", true},
		{"defined(y)", false},
		{"f = {() 1}; defined(f)", true},
		{`d = {"a": 1}; defined(d["a"])`, true},
		{`d = {"a": 1}; defined(d["b"])`, false},
		{`defined(d["a"])`, false},
		{`d = {"a": 1}; defined(d["a"]["b"])`, false},
	}

	for _, tt := range tests {
		assert.Equal(t, boolean(tt.want), evalToken(t, tt.src), tt.src)
	}

	_, _, err := eval(t, "defined(1)")
	assert.ErrorIs(t, err, ErrAssignmentTarget)

	_, _, err = eval(t, "defined()")
	assert.ErrorIs(t, err, ErrArity)

	_, _, err = eval(t, "defined(a, b)")
	assert.ErrorIs(t, err, ErrArity)
}

func TestBuiltin_If(t *testing.T) {
	assert.Equal(t, num("1"), evalToken(t, `if(true, {() 1}, {() 2})`))
	assert.Equal(t, num("2"), evalToken(t, `if(false, {() 1}, {() 2})`))
	assert.Equal(t, num("2"), evalToken(t, "if(1 > 2, 1, 2)"))

	// Only the Boolean true is true.
	assert.Equal(t, str("no"), evalToken(t, `if(1, {() "yes"}, {() "no"})`))

	// The last statement of the handler is its value.
	assert.Equal(t, num("9"), evalToken(t, `if(true, {() x = 3; x * x})`))

	v, _, err := eval(t, `if(false, {() 1})`)
	require.NoError(t, err)
	assert.Nil(t, v)

	var out bytes.Buffer

	_, _, err = eval(t, `if(false, {() log("then")}, {() log("else")})`, WithOutput(&out))
	require.NoError(t, err)
	assert.Equal(t, "else\n", out.String())
}

// A test that is not a scalar is false.
func TestBuiltin_If_NonScalarTest(t *testing.T) {
	tests := []struct {
		src  string
		want Token
	}{
		{`if(log("x"), 1, 2)`, num("2")},
		{`d = {"a": 1}; if(d, 1, 2)`, num("2")},
		{`f = {() 1}; if(f, 1, 2)`, num("2")},
		{`if("true", 1, 2)`, num("2")},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, evalToken(t, tt.src, WithOutput(nil)), tt.src)
	}

	v, _, err := eval(t, "d = {}; if(d, 1)")
	require.NoError(t, err)
	assert.Nil(t, v)
}

// An empty handler produces nothing.
func TestBuiltin_If_EmptyHandler(t *testing.T) {
	for _, src := range []string{"if(true, {() })", "if(false, 1, {() })"} {
		v, _, err := eval(t, src)
		require.NoError(t, err, src)
		assert.Nil(t, v, src)
	}
}

func TestBuiltin_If_Errors(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{"if(true)", ErrArity},
		{"if(true, 1, 2, 3)", ErrArity},
		{"if(missing, 1)", ErrUndefinedSymbol},
		{`d = {}; if(d["k"], 1)`, ErrUndefinedSymbol},
	}

	for _, tt := range tests {
		_, _, err := eval(t, tt.src)
		assert.ErrorIs(t, err, tt.want, tt.src)
	}
}

func TestBuiltin_While(t *testing.T) {
	var out bytes.Buffer

	v, scope, err := eval(t,
		`i = 0; while(i < 10, {() log(i); i = i + 1})`,
		WithOutput(&out))
	require.NoError(t, err)
	assert.Nil(t, v)

	want := make([]string, 10)
	for i := range want {
		want[i] = string(rune('0' + i))
	}

	assert.Equal(t, strings.Join(want, "\n")+"\n", out.String())

	i, ok := scope.Lookup("i")
	require.True(t, ok)
	assert.Equal(t, tok(num("10")), i)

	// The test is false from the start.
	out.Reset()

	_, _, err = eval(t, `while(false, {() log("never")})`, WithOutput(&out))
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestBuiltin_While_NonScalarTest(t *testing.T) {
	var out bytes.Buffer

	v, _, err := eval(t, `while(log("x"), {() log("body")})`, WithOutput(&out))
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, "x\n", out.String())

	v, _, err = eval(t, `d = {"a": 1}; while(d, {() 1})`)
	require.NoError(t, err)
	assert.Nil(t, v)
}

// The handler is not checked unless the test passes.
func TestBuiltin_While_HandlerCheckedLazily(t *testing.T) {
	for _, src := range []string{"while(false, 1)", "while(false, {() })"} {
		v, _, err := eval(t, src)
		require.NoError(t, err, src)
		assert.Nil(t, v, src)
	}

	assert.Equal(t, num("3"), evalToken(t, "i = 0; while(i < 3, {() i = i + 1; }); i"))
}

// A break in the body ends only the current pass through it.
func TestBuiltin_While_Break(t *testing.T) {
	var out bytes.Buffer

	assert.Equal(t, num("3"), evalToken(t,
		`i = 0; while(i < 3, {() i = i + 1; break; log("x")}); i`,
		WithOutput(&out)))
	assert.Empty(t, out.String())
}

func TestBuiltin_While_Errors(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{"while(true)", ErrArity},
		{"while(true, 1)", ErrTypeMismatch},
		{`while(1 < "a", {() 1})`, ErrTypeMismatch},
		{"while(missing, {() 1})", ErrUndefinedSymbol},
	}

	for _, tt := range tests {
		_, _, err := eval(t, tt.src)
		assert.ErrorIs(t, err, tt.want, tt.src)
	}
}

// cancelWriter cancels its context after a number of writes.
type cancelWriter struct {
	n      atomic.Int32
	after  int32
	cancel context.CancelFunc
}

func (w *cancelWriter) Write(p []byte) (int, error) {
	if w.n.Add(1) >= w.after {
		w.cancel()
	}

	return len(p), nil
}

func TestBuiltin_While_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	w := &cancelWriter{after: 5, cancel: cancel}

	prog, err := Compile(ctx, `while(true, {() log("tick")})`)
	require.NoError(t, err)

	_, err = prog.Run(ctx, NewScope(), WithOutput(w))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(5), w.n.Load())
}

func TestBuiltin_Precedence(t *testing.T) {
	assert.Equal(t, str("a"), evalToken(t, `concat = {(x) "mine"}; concat("a")`))
}

func TestBuiltinNames(t *testing.T) {
	names := BuiltinNames()

	assert.Equal(t, []string{"concat", "defined", "if", "log", "while"}, names)

	for _, name := range names {
		sig, ok := BuiltinSignature(name)
		assert.True(t, ok, name)
		assert.True(t, strings.HasPrefix(sig, name+"("), sig)
	}

	_, ok := BuiltinSignature("nope")
	assert.False(t, ok)
}
