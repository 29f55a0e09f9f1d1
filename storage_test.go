package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSlotWriteRead(t *testing.T) {
	s := newSlot(filepath.Join(t.TempDir(), "data.json"))

	if _, err := s.Read(); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Read() on empty slot error = %v, want os.ErrNotExist", err)
	}

	for _, want := range []string{`{"first":1}`, `{"second":2}`, ""} {
		if err := s.Write([]byte(want)); err != nil {
			t.Fatalf("Write(%q) error = %v", want, err)
		}
		got, err := s.Read()
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if string(got) != want {
			t.Errorf("Read() = %q, want %q", got, want)
		}
	}
}

func TestSlotWriteIsReadable(t *testing.T) {
	s := newSlot(filepath.Join(t.TempDir(), "data.json"))
	if err := s.Write([]byte(`{}`)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o644 {
		t.Errorf("mode = %o, want 644", perm)
	}
}

func TestSlotWriteMissingDir(t *testing.T) {
	s := newSlot(filepath.Join(t.TempDir(), "nope", "data.json"))
	if err := s.Write([]byte(`{}`)); err == nil {
		t.Fatal("Write() into missing directory succeeded")
	}
}
