package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type sourceFilesKey struct{}

// WithSourceFiles returns a new context.Context carrying the paths of
// scripts that every command evaluates before its own input.
func WithSourceFiles(ctx context.Context, paths []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, paths)
}

// sourceFilesFrom returns the paths stored by [WithSourceFiles].
func sourceFilesFrom(ctx context.Context) []string {
	paths, _ := ctx.Value(sourceFilesKey{}).([]string)

	return paths
}

// stdinSource names standard input in a list of source paths.
const stdinSource = "-"

// Source is one named script input.
type Source struct {
	io.Reader

	Name string
}

// Sources is an ordered list of script inputs.
type Sources []Source

// Close closes every source that is an [io.Closer], except standard input.
func (s Sources) Close() {
	for _, src := range s {
		if c, ok := src.Reader.(io.Closer); ok && src.Reader != os.Stdin {
			_ = c.Close()
		}
	}
}

// fileKey uniquely identifies a file by its device and inode numbers, so
// that a script named twice (through a symlink, or by relative and absolute
// path) is evaluated once.
type fileKey struct {
	dev uint64
	ino uint64
}

// openSources opens the scripts at paths in order.
//
// Duplicate files are opened once, at their first position. Every "-" names
// a single standard input source, which is placed last. Naming standard input
// through its device path counts as "-". A file that cannot be opened is an
// error, and any sources already opened are closed.
func openSources(paths []string) (srcs Sources, err error) {
	seen := make(map[fileKey]struct{})

	defer func() {
		if err != nil {
			srcs.Close()
			srcs = nil
		}
	}()

	var stdinKey fileKey

	if info, err := os.Stdin.Stat(); err == nil {
		stdinKey, _ = makeFileKey(info)
	}

	hasStdin := false

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		f, key, err := openFile(path)
		if err != nil {
			return srcs, ErrOpenSource.With(slog.String("file", path)).Wrap(err)
		}

		if key != (fileKey{}) && key == stdinKey {
			_ = f.Close()
			hasStdin = true

			continue
		}

		if key != (fileKey{}) {
			if _, dup := seen[key]; dup {
				_ = f.Close()

				continue
			}

			seen[key] = struct{}{}
		}

		srcs = append(srcs, Source{Reader: f, Name: path})
	}

	if hasStdin {
		srcs = append(srcs, Source{Reader: os.Stdin, Name: stdinSource})
	}

	return srcs, nil
}

// openFile opens the file at path after resolving symlinks, and returns its
// identity.
func openFile(path string) (*os.File, fileKey, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fileKey{}, err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fileKey{}, err
	}

	f, err := os.Open(resolved)
	if err != nil {
		return nil, fileKey{}, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()

		return nil, fileKey{}, err
	}

	if info.IsDir() {
		_ = f.Close()

		return nil, fileKey{}, ErrIsDirectory
	}

	// The zero key disables deduplication where inodes are unavailable.
	key, _ := makeFileKey(info)

	return f, key, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
