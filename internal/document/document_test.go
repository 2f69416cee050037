package document

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewDocument(t *testing.T) {
	doc := New("one\r\ntwo\r\n")
	if doc.Contents() != "one\ntwo\n" {
		t.Errorf("Contents = %q, want normalized", doc.Contents())
	}
	if doc.LineEnding() != LineEndingCRLF {
		t.Errorf("LineEnding = %v, want CRLF", doc.LineEnding())
	}
	if doc.IsDirty() {
		t.Error("new document reports dirty")
	}
	if doc.ID() == (New("")).ID() {
		t.Error("documents share an ID")
	}
}

func TestOpenPreservesStyleOnSave(t *testing.T) {
	path := writeFile(t, []byte("alpha\r\nbeta\r\n"))

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if doc.Contents() != "alpha\nbeta\n" {
		t.Errorf("Contents = %q, want normalized", doc.Contents())
	}
	if doc.LineEnding() != LineEndingCRLF {
		t.Errorf("LineEnding = %v, want CRLF", doc.LineEnding())
	}

	doc.SetContents("alpha\nbeta\ngamma\n")
	if !doc.IsDirty() {
		t.Error("IsDirty = false after SetContents")
	}
	if err := doc.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if doc.IsDirty() {
		t.Error("IsDirty = true after Save")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "alpha\r\nbeta\r\ngamma\r\n" {
		t.Errorf("saved bytes = %q, want CRLF restored", data)
	}
}

func TestOpenUTF16RoundTrip(t *testing.T) {
	raw := []byte{0xFF, 0xFE, 'h', 0, 'i', 0, '\n', 0}
	path := writeFile(t, raw)

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if doc.Contents() != "hi\n" {
		t.Errorf("Contents = %q, want %q", doc.Contents(), "hi\n")
	}
	if doc.Encoding() != EncodingUTF16LE {
		t.Errorf("Encoding = %v, want UTF16LE", doc.Encoding())
	}

	doc.SetContents("bye\n")
	if err := doc.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xFF, 0xFE, 'b', 0, 'y', 0, 'e', 0, '\n', 0}
	if string(data) != string(want) {
		t.Errorf("saved bytes = % x, want % x", data, want)
	}
}

func TestApplyEdit(t *testing.T) {
	doc := New("hello world")
	if err := doc.ApplyEdit(6, 11, "there"); err != nil {
		t.Fatalf("ApplyEdit() error = %v", err)
	}
	if doc.Contents() != "hello there" {
		t.Errorf("Contents = %q, want %q", doc.Contents(), "hello there")
	}
	if !doc.IsDirty() {
		t.Error("IsDirty = false after edit")
	}
}

func TestApplyEditRangeValidation(t *testing.T) {
	doc := New("short")
	for _, r := range [][2]int{{-1, 2}, {3, 2}, {0, 6}} {
		if err := doc.ApplyEdit(r[0], r[1], "x"); !errors.Is(err, ErrRangeInvalid) {
			t.Errorf("ApplyEdit(%d, %d) error = %v, want ErrRangeInvalid", r[0], r[1], err)
		}
	}
}

func TestSaveWithoutPath(t *testing.T) {
	doc := New("unsaved")
	if err := doc.Save(); !errors.Is(err, ErrNoPath) {
		t.Errorf("Save() error = %v, want ErrNoPath", err)
	}
}

func TestSaveAsAdoptsPath(t *testing.T) {
	doc := New("content\n")
	path := filepath.Join(t.TempDir(), "new.txt")
	if err := doc.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}
	if doc.Path() != path {
		t.Errorf("Path = %q, want %q", doc.Path(), path)
	}
	if state, err := doc.CheckDiskState(); err != nil || state != DiskUnchanged {
		t.Errorf("CheckDiskState = %v, %v, want DiskUnchanged", state, err)
	}
}

func TestReloadDiscardsChanges(t *testing.T) {
	path := writeFile(t, []byte("original\n"))
	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	doc.SetContents("edited\n")
	if err := doc.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if doc.Contents() != "original\n" {
		t.Errorf("Contents = %q, want reloaded original", doc.Contents())
	}
	if doc.IsDirty() {
		t.Error("IsDirty = true after Reload")
	}
}

func TestCheckDiskState(t *testing.T) {
	path := writeFile(t, []byte("v1\n"))
	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if state, _ := doc.CheckDiskState(); state != DiskUnchanged {
		t.Errorf("state = %v, want DiskUnchanged", state)
	}

	// Back-date the mtime so the rewrite is guaranteed to change the
	// signature even on coarse filesystem clocks.
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("v2 changed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if state, _ := doc.CheckDiskState(); state != DiskModified {
		t.Errorf("state = %v, want DiskModified", state)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if state, _ := doc.CheckDiskState(); state != DiskRemoved {
		t.Errorf("state = %v, want DiskRemoved", state)
	}

	unsaved := New("x")
	if state, _ := unsaved.CheckDiskState(); state != DiskUnchanged {
		t.Errorf("unsaved state = %v, want DiskUnchanged", state)
	}
}
