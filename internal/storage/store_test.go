package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if err := s.Set("k", []byte("v1")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set("k", []byte("v2")); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	got, err := s.Get("k")
	if err != nil || string(got) != "v2" {
		t.Fatalf("Get() = %q, %v; want v2", got, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "k.json" {
		t.Fatalf("dir entries = %v, want only k.json", entries)
	}

	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete() of missing key error = %v", err)
	}
	if _, err := s.Get("k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() after delete error = %v", err)
	}
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	for _, key := range []string{"../escape", "a/b", ""} {
		if err := s.Set(key, []byte("x")); err == nil {
			t.Fatalf("Set(%q) expected error", key)
		}
	}
}
