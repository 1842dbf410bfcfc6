package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

// BaseHistory is the file name of the session history in the cache
// directory.
const BaseHistory = "history.utf8"

// defaultHistoryLimit is the number of entries kept when none is given.
const defaultHistoryLimit = 1000

// inputMode distinguishes script input from session commands.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// prefix returns the marker written before an entry in the history file.
func (m inputMode) prefix() string {
	if m == modeCtrl {
		return "C:"
	}

	return "E:"
}

// HistoryEntry is one line of input and the mode it was entered in.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// History is a bounded, de-duplicated list of input lines persisted to a
// file, one entry per line, oldest first.
type History struct {
	path    string
	limit   int
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory returns a History persisted at path and bounded to limit
// entries. A non-positive limit selects the default. An empty path keeps
// history in memory only.
func NewHistory(path string, limit int) *History {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	return &History{path: path, limit: limit}
}

// Load replaces the in-memory entries with those in the history file.
// A missing file is an empty history.
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
		entry := HistoryEntry{Mode: modeEval}

		line := scanner.Text()
		if s, ok := strings.CutPrefix(line, modeCtrl.prefix()); ok {
			entry = HistoryEntry{Line: s, Mode: modeCtrl}
		} else {
			entry.Line, _ = strings.CutPrefix(line, modeEval.prefix())
		}

		if strings.TrimSpace(entry.Line) != "" {
			h.entries = append(h.entries, entry)
		}
	}

	h.trim()

	return scanner.Err()
}

// Add appends line in the given mode. An earlier identical entry is moved to
// the end instead of repeated.
func (h *History) Add(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	entry := HistoryEntry{Line: line, Mode: mode}

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}

	i := slices.Index(h.entries, entry)
	if i >= 0 {
		h.entries = slices.Delete(h.entries, i, i+1)
	}

	h.entries = append(h.entries, entry)

	if i >= 0 || h.trim() {
		return h.rewrite()
	}

	return h.append(entry)
}

// Entry returns the entry at index i, 0 being the oldest.
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

// Lines returns the lines entered in mode, oldest first.
func (h *History) Lines(mode inputMode) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var lines []string

	for _, e := range h.entries {
		if e.Mode == mode {
			lines = append(lines, e.Line)
		}
	}

	return lines
}

// search walks from index from in direction step (+1 or -1), excluding from
// itself, and returns the first index whose entry satisfies match.
func (h *History) search(from, step int, match func(HistoryEntry) bool) (int, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for i := from + step; i >= 0 && i < len(h.entries); i += step {
		if match == nil || match(h.entries[i]) {
			return i, true
		}
	}

	return 0, false
}

// trim drops the oldest entries beyond the limit and reports whether any
// were dropped. Must be called with h.mu held.
func (h *History) trim() bool {
	if n := len(h.entries) - h.limit; n > 0 {
		h.entries = slices.Delete(h.entries, 0, n)

		return true
	}

	return false
}

// append writes one entry to the end of the file. Must be called with h.mu
// held.
func (h *History) append(e HistoryEntry) error {
	if h.path == "" {
		return nil
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(e.Mode.prefix() + e.Line + "\n")

	return err
}

// rewrite replaces the file with the current entries. Must be called with
// h.mu held.
func (h *History) rewrite() error {
	if h.path == "" {
		return nil
	}

	var sb strings.Builder

	for _, e := range h.entries {
		sb.WriteString(e.Mode.prefix() + e.Line + "\n")
	}

	return os.WriteFile(h.path, []byte(sb.String()), 0o600)
}
