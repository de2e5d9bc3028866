package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"strings"
	"sync"
)

// maxHistory is the number of entries kept in the history file.
const maxHistory = 1000

// Line prefixes recording the mode of each history entry.
const (
	evalPrefix = "E:"
	ctrlPrefix = "C:"
)

// HistoryEntry is one line of input and the mode it was entered in.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// String returns the entry as it is stored in the history file.
func (e HistoryEntry) String() string {
	if e.Mode == modeCtrl {
		return ctrlPrefix + e.Line
	}

	return evalPrefix + e.Line
}

func parseEntry(line string) (HistoryEntry, bool) {
	line = strings.TrimSpace(line)

	if s, ok := strings.CutPrefix(line, ctrlPrefix); ok {
		return HistoryEntry{Line: s, Mode: modeCtrl}, s != ""
	}

	// Lines without a prefix are expressions.
	s, _ := strings.CutPrefix(line, evalPrefix)

	return HistoryEntry{Line: s, Mode: modeEval}, s != ""
}

// History is the REPL input history, persisted to a file. Each line is kept
// once, at its most recent position. An empty path keeps history in memory.
type History struct {
	mu      sync.RWMutex
	path    string
	entries []HistoryEntry
	max     int
}

// NewHistory returns an empty History stored at path.
func NewHistory(path string) *History {
	return &History{path: path, max: maxHistory}
}

// Load replaces the entries with those in the history file. A missing file
// is an empty history.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = nil

	if h.path == "" {
		return nil
	}

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if e, ok := parseEntry(scanner.Text()); ok {
			h.entries = append(h.entries, e)
		}
	}

	h.trim()

	return scanner.Err()
}

// Append records line as the newest entry and saves the history.
func (h *History) Append(line string, mode inputMode) error {
	e := HistoryEntry{Line: strings.TrimSpace(line), Mode: mode}
	if e.Line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == e {
		return nil
	}

	h.entries = append(deleteEntry(h.entries, e), e)
	h.trim()

	return h.save()
}

func deleteEntry(entries []HistoryEntry, e HistoryEntry) []HistoryEntry {
	out := entries[:0]

	for _, x := range entries {
		if x != e {
			out = append(out, x)
		}
	}

	return out
}

// trim drops the oldest entries beyond the limit. h.mu must be held.
func (h *History) trim() {
	if h.max > 0 && len(h.entries) > h.max {
		h.entries = append([]HistoryEntry(nil), h.entries[len(h.entries)-h.max:]...)
	}
}

// save rewrites the history file. h.mu must be held.
func (h *History) save() error {
	if h.path == "" {
		return nil
	}

	var sb strings.Builder

	for _, e := range h.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}

	return os.WriteFile(h.path, []byte(sb.String()), 0o600)
}

// Entry returns the entry at index i, where 0 is the oldest.
func (h *History) Entry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return append([]HistoryEntry(nil), h.entries...)
}
