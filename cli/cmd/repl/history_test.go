package repl

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestHistory_Persist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.utf8")

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() missing file error = %v", err)
	}

	for _, e := range []HistoryEntry{
		{"let a = 1", modeEval},
		{"list", modeCtrl},
		{"a + 1", modeEval},
	} {
		if _, err := h.WriteWithMode(e.Line, e.Mode); err != nil {
			t.Fatalf("WriteWithMode(%q) error = %v", e.Line, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if want := "E:let a = 1\nC:list\nE:a + 1\n"; string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}

	reloaded := NewHistory(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !slices.Equal(reloaded.Entries(), h.Entries()) {
		t.Errorf("reloaded = %v, want %v", reloaded.Entries(), h.Entries())
	}

	if got := reloaded.Lines(); !slices.Equal(got, []string{"let a = 1", "a + 1"}) {
		t.Errorf("Lines() = %v", got)
	}
}

func TestHistory_Duplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.utf8")
	h := NewHistory(path)

	for _, line := range []string{"a", "b", "b", "a"} {
		if err := h.Add(line); err != nil {
			t.Fatalf("Add(%q) error = %v", line, err)
		}
	}

	if _, err := h.WriteWithMode("a", modeCtrl); err != nil {
		t.Fatalf("WriteWithMode() error = %v", err)
	}

	want := []HistoryEntry{{"b", modeEval}, {"a", modeEval}, {"a", modeCtrl}}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if got := strings.Count(string(data), "\n"); got != len(want) {
		t.Errorf("file has %d lines, want %d", got, len(want))
	}
}

func TestHistory_Legacy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.utf8")

	if err := os.WriteFile(path, []byte("plain\n\nC:quit\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []HistoryEntry{{"plain", modeEval}, {"quit", modeCtrl}}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}

func TestHistory_GetEntry(t *testing.T) {
	h := NewHistory("")

	if err := h.Add("first\nsecond"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	e, err := h.GetEntry(0)
	if err != nil || e.Line != "first second" {
		t.Errorf("GetEntry(0) = %v, %v; want first second", e, err)
	}

	if _, err := h.GetEntry(1); err != ErrOutOfBounds {
		t.Errorf("GetEntry(1) error = %v, want %v", err, ErrOutOfBounds)
	}
}

func TestDepth(t *testing.T) {
	tests := []struct {
		lines []string
		want  int
	}{
		{[]string{"let a = 1;"}, 0},
		{[]string{"func f(a) {"}, 1},
		{[]string{"func f(a) {", "  if a {"}, 2},
		{[]string{"func f(a) {", "  if a {", "  }"}, 1},
		{[]string{`print("{")`}, 0},
		{[]string{"[1, # ["}, 1},
		{[]string{"}"}, 0},
	}

	for _, tt := range tests {
		if got := depth(tt.lines); got != tt.want {
			t.Errorf("depth(%q) = %d, want %d", tt.lines, got, tt.want)
		}
	}
}
