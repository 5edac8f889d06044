package repl

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestHistory_AddGet(t *testing.T) {
	h := NewHistory("")
	h.Add("list")
	h.Add("stat")
	h.Add("stat")

	if h.Len() != 2 {
		t.Fatalf("Len = %d, want 2", h.Len())
	}
	if h.Get(0) != "stat" || h.Get(1) != "list" {
		t.Errorf("Get(0), Get(1) = %q, %q", h.Get(0), h.Get(1))
	}
	if h.Get(2) != "" || h.Get(-1) != "" {
		t.Error("out of range Get should return empty")
	}
}

func TestHistory_Add_MaxSize(t *testing.T) {
	h := NewHistory("")
	h.maxSize = 3
	for _, cmd := range []string{"a", "b", "c", "d", "e"} {
		h.Add(cmd)
	}
	if got := h.Entries(); !reflect.DeepEqual(got, []string{"c", "d", "e"}) {
		t.Errorf("Entries = %q", got)
	}
}

func TestHistory_SaveLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sub", "history")

	h := NewHistory(file)
	h.Add("create --first-name Ann")
	h.Add("list")
	if err := h.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(file)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("perm = %o, want 600", perm)
	}

	loaded := NewHistory(file)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(loaded.Entries(), h.Entries()) {
		t.Errorf("loaded = %q, want %q", loaded.Entries(), h.Entries())
	}
}

func TestHistory_Load_NonexistentFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "missing"))
	if err := h.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if h.Len() != 0 {
		t.Errorf("Len = %d, want 0", h.Len())
	}
}

func TestHistory_InMemoryOnly(t *testing.T) {
	h := NewHistory("")
	h.Add("stat")
	if err := h.Save(); err != nil {
		t.Errorf("Save: %v", err)
	}
	if err := h.Load(); err != nil {
		t.Errorf("Load: %v", err)
	}
}

func TestDefaultHistoryFile(t *testing.T) {
	if !strings.HasSuffix(DefaultHistoryFile(), filepath.Join(".filecabinet", "history")) {
		t.Errorf("DefaultHistoryFile() = %q", DefaultHistoryFile())
	}
}
