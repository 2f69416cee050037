package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherDebouncesWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watched.txt")
	if err := os.WriteFile(path, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(50 * time.Millisecond)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := w.Add(path); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	// A burst of writes should collapse into a single change.
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("burst"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case ch := <-w.Changes():
		if ch.Removed {
			t.Error("change flagged as removal for a write")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change delivered")
	}

	// The quiet period should have swallowed the rest of the burst.
	select {
	case ch := <-w.Changes():
		t.Errorf("unexpected second change: %+v", ch)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherReportsRemoval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doomed.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := w.Add(path); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	select {
	case ch := <-w.Changes():
		if !ch.Removed {
			t.Errorf("change = %+v, want Removed", ch)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no removal change delivered")
	}
}

func TestWatcherAddErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(0)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := w.Add(path); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := w.Add(path); !errors.Is(err, ErrAlreadyWatching) {
		t.Errorf("second Add() error = %v, want ErrAlreadyWatching", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Add(path); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Add() after Close error = %v, want ErrWatcherClosed", err)
	}

	// Close is idempotent.
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
