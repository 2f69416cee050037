// Package document loads, edits, and saves text files while preserving
// their on-disk encoding and line ending style. Contents are held as
// UTF-8 with \n line endings regardless of what the file uses; the
// original form is restored on save.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNoPath is returned by Save when the document has never been
	// associated with a file.
	ErrNoPath = errors.New("document has no file path")
	// ErrInvalidEncoding is returned when file data cannot be decoded.
	ErrInvalidEncoding = errors.New("invalid text encoding")
	// ErrUnrepresentable is returned when contents cannot be encoded
	// in the document's on-disk encoding.
	ErrUnrepresentable = errors.New("contents not representable in target encoding")
	// ErrRangeInvalid is returned by ApplyEdit for out-of-bounds ranges.
	ErrRangeInvalid = errors.New("edit range out of bounds")
)

// DiskState describes what happened to a document's backing file since
// it was last loaded or saved.
type DiskState int

const (
	DiskUnchanged DiskState = iota
	DiskModified
	DiskRemoved
)

// fileSignature is a cheap change detector for the backing file.
type fileSignature struct {
	size    int64
	modTime time.Time
}

func signatureOf(info os.FileInfo) fileSignature {
	return fileSignature{size: info.Size(), modTime: info.ModTime()}
}

// Document is an in-memory text file. It is not safe for concurrent
// use.
type Document struct {
	id         uuid.UUID
	path       string
	contents   string
	lineEnding LineEnding
	encoding   Encoding
	hasBOM     bool
	dirty      bool
	signature  fileSignature
	onDisk     bool
}

// New creates an unsaved document with the given contents. Line
// endings are detected from the contents and normalized away.
func New(contents string) *Document {
	return &Document{
		id:         uuid.New(),
		contents:   normalizeNewlines(contents),
		lineEnding: detectLineEnding(contents),
		encoding:   EncodingUTF8,
	}
}

// Open loads a document from disk, detecting its encoding and line
// ending style.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	text, enc, hasBOM, err := decodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return &Document{
		id:         uuid.New(),
		path:       path,
		contents:   normalizeNewlines(text),
		lineEnding: detectLineEnding(text),
		encoding:   enc,
		hasBOM:     hasBOM,
		signature:  signatureOf(info),
		onDisk:     true,
	}, nil
}

// ID returns the document's stable identifier.
func (d *Document) ID() uuid.UUID { return d.id }

// Path returns the backing file path, empty for unsaved documents.
func (d *Document) Path() string { return d.path }

// Contents returns the normalized (\n-terminated) text.
func (d *Document) Contents() string { return d.contents }

// Encoding returns the on-disk encoding used at save time.
func (d *Document) Encoding() Encoding { return d.encoding }

// LineEnding returns the line ending style restored at save time.
func (d *Document) LineEnding() LineEnding { return d.lineEnding }

// IsDirty reports whether the contents changed since load or save.
func (d *Document) IsDirty() bool { return d.dirty }

// SetContents replaces the full text. The text is normalized; the
// document's line ending style is unchanged.
func (d *Document) SetContents(text string) {
	normalized := normalizeNewlines(text)
	if normalized == d.contents {
		return
	}
	d.contents = normalized
	d.dirty = true
}

// ApplyEdit replaces the byte range [start, end) with replacement.
// Offsets are into the normalized contents.
func (d *Document) ApplyEdit(start, end int, replacement string) error {
	if start < 0 || end < start || end > len(d.contents) {
		return fmt.Errorf("%w: [%d, %d) in %d bytes", ErrRangeInvalid, start, end, len(d.contents))
	}
	d.contents = d.contents[:start] + normalizeNewlines(replacement) + d.contents[end:]
	d.dirty = true
	return nil
}

// Save writes the document back to its file, restoring the original
// encoding, BOM, and line ending style. The write is atomic: data goes
// to a temp file in the same directory, is synced, then renamed over
// the target.
func (d *Document) Save() error {
	if d.path == "" {
		return ErrNoPath
	}
	return d.SaveAs(d.path)
}

// SaveAs writes the document to the given path and adopts it as the
// document's backing file.
func (d *Document) SaveAs(path string) error {
	text := d.contents
	if seq := d.lineEnding.Sequence(); seq != "\n" {
		text = restoreLineEndings(text, seq)
	}
	data, err := encodeText(text, d.encoding, d.hasBOM)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	d.path = path
	d.dirty = false
	d.signature = signatureOf(info)
	d.onDisk = true
	return nil
}

// Reload discards in-memory changes and re-reads the backing file.
func (d *Document) Reload() error {
	if d.path == "" {
		return ErrNoPath
	}
	fresh, err := Open(d.path)
	if err != nil {
		return err
	}
	d.contents = fresh.contents
	d.lineEnding = fresh.lineEnding
	d.encoding = fresh.encoding
	d.hasBOM = fresh.hasBOM
	d.signature = fresh.signature
	d.dirty = false
	d.onDisk = true
	return nil
}

// CheckDiskState reports whether the backing file changed underneath
// the document. Unsaved documents always report DiskUnchanged.
func (d *Document) CheckDiskState() (DiskState, error) {
	if d.path == "" || !d.onDisk {
		return DiskUnchanged, nil
	}
	info, err := os.Stat(d.path)
	if errors.Is(err, os.ErrNotExist) {
		return DiskRemoved, nil
	}
	if err != nil {
		return DiskUnchanged, fmt.Errorf("stat %s: %w", d.path, err)
	}
	if signatureOf(info) != d.signature {
		return DiskModified, nil
	}
	return DiskUnchanged, nil
}

// restoreLineEndings rewrites \n to the document's native sequence.
func restoreLineEndings(text, seq string) string {
	out := make([]byte, 0, len(text)+len(text)/16)
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			out = append(out, seq...)
			continue
		}
		out = append(out, text[i])
	}
	return string(out)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if info, err := os.Stat(path); err == nil {
		// Best effort; a fresh file keeps the temp file's mode.
		_ = os.Chmod(tmpName, info.Mode())
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
