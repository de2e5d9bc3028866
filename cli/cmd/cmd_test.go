package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// writeScript creates a file named name in dir holding content.
func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func sourceNames(srcs Sources) []string {
	names := make([]string, len(srcs))
	for i, src := range srcs {
		names[i] = src.Name
	}

	return names
}

func TestWithSourceFiles(t *testing.T) {
	if got := sourceFilesFrom(context.Background()); got != nil {
		t.Errorf("sourceFilesFrom(empty) = %v, want nil", got)
	}

	want := []string{"a.tinct", "-"}

	got := sourceFilesFrom(WithSourceFiles(context.Background(), want))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sourceFilesFrom() mismatch (-want +got):\n%s", diff)
	}
}

func TestKongContextFrom(t *testing.T) {
	if ktx := kongContextFrom(context.Background()); ktx != nil {
		t.Errorf("kongContextFrom(empty) = %v, want nil", ktx)
	}
}

func TestOpenSources_Order(t *testing.T) {
	dir := t.TempDir()
	a := writeScript(t, dir, "a.tinct", "a = 1")
	b := writeScript(t, dir, "b.tinct", "b = 2")

	srcs, err := openSources([]string{b, a})
	if err != nil {
		t.Fatal(err)
	}
	defer srcs.Close()

	if diff := cmp.Diff([]string{b, a}, sourceNames(srcs)); diff != "" {
		t.Errorf("source order mismatch (-want +got):\n%s", diff)
	}

	data, err := io.ReadAll(srcs[0])
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "b = 2" {
		t.Errorf("first source = %q, want %q", data, "b = 2")
	}
}

func TestOpenSources_Duplicates(t *testing.T) {
	dir := t.TempDir()
	a := writeScript(t, dir, "a.tinct", "a = 1")
	b := writeScript(t, dir, "b.tinct", "b = 2")

	link := filepath.Join(dir, "link.tinct")
	if err := os.Symlink(a, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	t.Chdir(dir)

	srcs, err := openSources([]string{a, "a.tinct", b, link, "./a.tinct"})
	if err != nil {
		t.Fatal(err)
	}
	defer srcs.Close()

	if diff := cmp.Diff([]string{a, b}, sourceNames(srcs)); diff != "" {
		t.Errorf("duplicate sources mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenSources_StdinLast(t *testing.T) {
	dir := t.TempDir()
	a := writeScript(t, dir, "a.tinct", "a = 1")
	b := writeScript(t, dir, "b.tinct", "b = 2")

	srcs, err := openSources([]string{"-", a, "-", b})
	if err != nil {
		t.Fatal(err)
	}
	defer srcs.Close()

	if diff := cmp.Diff([]string{a, b, stdinSource}, sourceNames(srcs)); diff != "" {
		t.Errorf("source order mismatch (-want +got):\n%s", diff)
	}

	if srcs[2].Reader != os.Stdin {
		t.Error("last source is not standard input")
	}
}

func TestOpenSources_Errors(t *testing.T) {
	dir := t.TempDir()
	a := writeScript(t, dir, "a.tinct", "a = 1")

	tests := []struct {
		name  string
		paths []string
		want  error
	}{
		{"missing", []string{a, filepath.Join(dir, "missing.tinct")}, os.ErrNotExist},
		{"directory", []string{dir}, ErrIsDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srcs, err := openSources(tt.paths)
			if srcs != nil {
				t.Errorf("openSources() = %v, want nil on error", sourceNames(srcs))
			}

			if !errors.Is(err, ErrOpenSource) {
				t.Errorf("openSources() error = %v, want %v", err, ErrOpenSource)
			}

			if !errors.Is(err, tt.want) {
				t.Errorf("openSources() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestOpenSources_Empty(t *testing.T) {
	srcs, err := openSources(nil)
	if err != nil || len(srcs) != 0 {
		t.Errorf("openSources(nil) = (%v, %v), want empty", srcs, err)
	}
}

func TestError(t *testing.T) {
	base := NewError("base")
	cause := errors.New("cause")

	err := base.With().Wrap(cause)
	if got := err.Error(); got != "base: cause" {
		t.Errorf("Error() = %q, want %q", got, "base: cause")
	}

	if !errors.Is(err, base) || !errors.Is(err, cause) {
		t.Errorf("%v does not match its sentinel and cause", err)
	}

	if errors.Is(err, ErrCompile) {
		t.Errorf("%v matches an unrelated sentinel", err)
	}

	if got := NewError("").Wrap(cause).Error(); got != "cause" {
		t.Errorf("Error() without message = %q, want %q", got, "cause")
	}
}
