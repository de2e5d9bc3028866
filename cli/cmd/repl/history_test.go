package repl

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseEntry(t *testing.T) {
	tests := []struct {
		line   string
		want   HistoryEntry
		wantOK bool
	}{
		{"E:x = 1", HistoryEntry{Line: "x = 1", Mode: modeEval}, true},
		{"C:list", HistoryEntry{Line: "list", Mode: modeCtrl}, true},
		{"x = 1", HistoryEntry{Line: "x = 1", Mode: modeEval}, true},
		{"  C:quit  ", HistoryEntry{Line: "quit", Mode: modeCtrl}, true},
		{"E:", HistoryEntry{Mode: modeEval}, false},
		{"C:", HistoryEntry{Mode: modeCtrl}, false},
		{"", HistoryEntry{Mode: modeEval}, false},
	}

	for _, tt := range tests {
		got, ok := parseEntry(tt.line)
		if ok != tt.wantOK {
			t.Errorf("parseEntry(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
		}

		if got != tt.want {
			t.Errorf("parseEntry(%q) = %+v, want %+v", tt.line, got, tt.want)
		}

		if ok {
			if back, _ := parseEntry(got.String()); back != got {
				t.Errorf("parseEntry(%q.String()) = %+v, want %+v", tt.line, back, got)
			}
		}
	}
}

func TestHistory_Append(t *testing.T) {
	h := NewHistory("")

	for _, e := range []struct {
		line string
		mode inputMode
	}{
		{"a = 1", modeEval},
		{"list", modeCtrl},
		{"  ", modeEval},
		{"list", modeCtrl},
		{"b = 2", modeEval},
		{"a = 1", modeEval},
		// Same text in another mode is a different entry.
		{"list", modeEval},
	} {
		if err := h.Append(e.line, e.mode); err != nil {
			t.Fatalf("Append(%q): %v", e.line, err)
		}
	}

	want := []HistoryEntry{
		{Line: "list", Mode: modeCtrl},
		{Line: "b = 2", Mode: modeEval},
		{Line: "a = 1", Mode: modeEval},
		{Line: "list", Mode: modeEval},
	}

	if diff := cmp.Diff(want, h.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}

	if h.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", h.Len(), len(want))
	}
}

func TestHistory_Entry(t *testing.T) {
	h := NewHistory("")

	if _, err := h.Entry(0); err != ErrOutOfBounds {
		t.Errorf("Entry(0) on empty history error = %v, want %v", err, ErrOutOfBounds)
	}

	_ = h.Append("x", modeEval)

	e, err := h.Entry(0)
	if err != nil {
		t.Fatalf("Entry(0): %v", err)
	}

	if e.Line != "x" {
		t.Errorf("Entry(0) = %+v, want x", e)
	}

	for _, i := range []int{-1, 1} {
		if _, err := h.Entry(i); err != ErrOutOfBounds {
			t.Errorf("Entry(%d) error = %v, want %v", i, err, ErrOutOfBounds)
		}
	}
}

func TestHistory_Persist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() of missing file: %v", err)
	}

	_ = h.Append("x = 1", modeEval)
	_ = h.Append("list", modeCtrl)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if got, want := string(data), "E:x = 1\nC:list\n"; got != want {
		t.Errorf("history file = %q, want %q", got, want)
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load(): %v", err)
	}

	if diff := cmp.Diff(h.Entries(), loaded.Entries()); diff != "" {
		t.Errorf("loaded entries mismatch (-want +got):\n%s", diff)
	}
}

func TestHistory_Trim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")

	h := NewHistory(path)
	h.max = 3

	for i := range 5 {
		_ = h.Append("x = "+strconv.Itoa(i), modeEval)
	}

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}

	if e, _ := h.Entry(0); e.Line != "x = 2" {
		t.Errorf("oldest entry = %q, want %q", e.Line, "x = 2")
	}
}
