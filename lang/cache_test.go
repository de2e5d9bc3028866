package lang

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileCached_SameProgram(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	const src = "a = 1; a + 2"

	p1, err := CompileCached(t.Context(), src)
	require.NoError(t, err)

	p2, err := CompileCached(t.Context(), src)
	require.NoError(t, err)

	assert.Same(t, p1, p2)
	assert.Equal(t, src, p1.Source)

	p3, err := CompileReader(t.Context(), strings.NewReader(src))
	require.NoError(t, err)
	assert.Same(t, p1, p3)

	ClearCache()

	p4, err := CompileCached(t.Context(), src)
	require.NoError(t, err)
	assert.NotSame(t, p1, p4)
	assert.Equal(t, p1.Statements, p4.Statements)
}

func TestCompileCached_Error(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	for range 2 {
		_, err := CompileCached(t.Context(), `x = "open`)
		assert.ErrorIs(t, err, ErrUnclosedString)
	}
}

func TestCompileReader_ReadError(t *testing.T) {
	boom := errors.New("boom")

	_, err := CompileReader(t.Context(), iotest.ErrReader(boom))
	require.ErrorIs(t, err, ErrReadInput)
	assert.ErrorIs(t, err, boom)
}

func TestCompileCached_Concurrent(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	const src = `d = {"n": 1}; d["n"] * 4`

	var (
		wg    sync.WaitGroup
		progs = make([]*Program, 32)
	)

	for i := range progs {
		wg.Go(func() {
			p, err := CompileCached(t.Context(), src)
			assert.NoError(t, err)

			progs[i] = p
		})
	}

	wg.Wait()

	for _, p := range progs[1:] {
		assert.Same(t, progs[0], p)
	}

	// A shared program runs concurrently against distinct scopes.
	results := make([]Node, len(progs))

	for i, p := range progs {
		wg.Go(func() {
			v, err := p.Run(t.Context(), NewScope())
			assert.NoError(t, err)

			results[i] = v
		})
	}

	wg.Wait()

	for _, v := range results {
		assert.Equal(t, tok(num("4")), v)
	}
}

func BenchmarkCompileCached(b *testing.B) {
	ClearCache()
	b.Cleanup(ClearCache)

	src := strings.Repeat(`total = total + item["price"] * 2; `, 50)

	for b.Loop() {
		if _, err := CompileCached(b.Context(), src); err != nil {
			b.Fatal(err)
		}
	}
}
