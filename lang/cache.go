package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// programCache stores compiled programs keyed by the xxh3 hash of their
// source.
var programCache sync.Map

// cacheEntry compiles its source exactly once.
type cacheEntry struct {
	once sync.Once
	prog *Program
	err  error
}

// CompileReader reads all of r and compiles it. Programs are cached by
// source content, so reading identical input again returns the same
// *Program without reparsing.
func CompileReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	cfg := makeConfig(opts...)

	// Prefetch asynchronously while earlier chunks are consumed.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	cfg.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true))

	return compileCached(ctx, string(data), cfg)
}

// CompileCached compiles source through the process-wide program cache.
func CompileCached(ctx context.Context, source string, opts ...Option) (*Program, error) {
	return compileCached(ctx, source, makeConfig(opts...))
}

func compileCached(ctx context.Context, source string, cfg *config) (*Program, error) {
	hash := xxh3.HashString(source)

	value, hit := programCache.LoadOrStore(hash, new(cacheEntry))

	entry, ok := value.(*cacheEntry)
	if !ok {
		return nil, ErrReadInput.Explain("invalid cache entry type %T", value)
	}

	cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", hit))

	entry.once.Do(func() {
		entry.prog, entry.err = compile(ctx, source, cfg)
	})

	if entry.err != nil {
		return nil, entry.err
	}

	// Hash collisions are possible; never hand back another source's program.
	if entry.prog.Source != source {
		return compile(ctx, source, cfg)
	}

	return entry.prog, nil
}

// ClearCache removes all cached programs.
func ClearCache() {
	programCache.Clear()
}
