package document

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding identifies the on-disk text encoding of a document. The
// in-memory contents are always Go strings (UTF-8); encoding only
// matters at load and save time.
type Encoding int

const (
	// EncodingUTF8 is the default encoding.
	EncodingUTF8 Encoding = iota
	// EncodingUTF16LE is little-endian UTF-16.
	EncodingUTF16LE
	// EncodingUTF16BE is big-endian UTF-16.
	EncodingUTF16BE
	// EncodingWindows1252 is the single-byte legacy fallback.
	EncodingWindows1252
)

// Name returns the IANA-style name of the encoding.
func (e Encoding) Name() string {
	switch e {
	case EncodingUTF16LE:
		return "utf-16le"
	case EncodingUTF16BE:
		return "utf-16be"
	case EncodingWindows1252:
		return "windows-1252"
	default:
		return "utf-8"
	}
}

// LineEnding specifies the line ending style preserved on save.
// In-memory contents are always normalized to \n.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the escaped representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// detectLineEnding infers the line ending style from the first newline
// sentinel in the text. Texts without newlines default to LF.
func detectLineEnding(text string) LineEnding {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				return LineEndingCRLF
			}
			return LineEndingCR
		case '\n':
			return LineEndingLF
		}
	}
	return LineEndingLF
}

// normalizeNewlines rewrites CRLF and bare CR sequences to \n.
func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodeBytes detects the encoding of raw file data and decodes it to
// a string. Detection order: BOM sniffing, UTF-16 heuristics for
// BOM-less files, valid UTF-8, then the Windows-1252 fallback (which
// accepts any byte sequence).
func decodeBytes(data []byte) (text string, enc Encoding, hasBOM bool, err error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		rest := data[len(bomUTF8):]
		if !utf8.Valid(rest) {
			return "", 0, false, ErrInvalidEncoding
		}
		return string(rest), EncodingUTF8, true, nil

	case bytes.HasPrefix(data, bomUTF16LE):
		text, err = decodeUTF16(data[len(bomUTF16LE):], unicode.LittleEndian)
		return text, EncodingUTF16LE, true, err

	case bytes.HasPrefix(data, bomUTF16BE):
		text, err = decodeUTF16(data[len(bomUTF16BE):], unicode.BigEndian)
		return text, EncodingUTF16BE, true, err
	}

	if looksLikeUTF16(data, unicode.LittleEndian) {
		text, err = decodeUTF16(data, unicode.LittleEndian)
		return text, EncodingUTF16LE, false, err
	}
	if looksLikeUTF16(data, unicode.BigEndian) {
		text, err = decodeUTF16(data, unicode.BigEndian)
		return text, EncodingUTF16BE, false, err
	}

	if utf8.Valid(data) {
		return string(data), EncodingUTF8, false, nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", 0, false, ErrInvalidEncoding
	}
	return string(decoded), EncodingWindows1252, false, nil
}

// encodeText serializes text (already carrying its final line endings)
// into the target encoding, prepending a BOM when requested.
func encodeText(text string, enc Encoding, hasBOM bool) ([]byte, error) {
	switch enc {
	case EncodingUTF16LE:
		return encodeUTF16(text, unicode.LittleEndian, hasBOM)
	case EncodingUTF16BE:
		return encodeUTF16(text, unicode.BigEndian, hasBOM)
	case EncodingWindows1252:
		encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte(text))
		if err != nil {
			return nil, ErrUnrepresentable
		}
		return encoded, nil
	default:
		if hasBOM {
			out := make([]byte, 0, len(bomUTF8)+len(text))
			out = append(out, bomUTF8...)
			return append(out, text...), nil
		}
		return []byte(text), nil
	}
}

func decodeUTF16(data []byte, endian unicode.Endianness) (string, error) {
	if len(data)%2 != 0 {
		return "", ErrInvalidEncoding
	}
	decoded, err := unicode.UTF16(endian, unicode.IgnoreBOM).NewDecoder().Bytes(data)
	if err != nil {
		return "", ErrInvalidEncoding
	}
	return string(decoded), nil
}

func encodeUTF16(text string, endian unicode.Endianness, hasBOM bool) ([]byte, error) {
	bom := unicode.IgnoreBOM
	if hasBOM {
		bom = unicode.ExpectBOM
	}
	encoded, err := unicode.UTF16(endian, bom).NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, ErrUnrepresentable
	}
	return encoded, nil
}

// looksLikeUTF16 heuristically detects BOM-less UTF-16 text: mostly
// ASCII content shows a zero byte in the high half of at least half
// the sampled code units.
func looksLikeUTF16(data []byte, endian unicode.Endianness) bool {
	if len(data) < 2 || len(data)%2 != 0 {
		return false
	}

	sample := data
	if len(sample) > 64 {
		sample = sample[:64]
	}

	zeros, total := 0, 0
	for i := 0; i+1 < len(sample); i += 2 {
		high := sample[i+1]
		if endian == unicode.BigEndian {
			high = sample[i]
		}
		if high == 0 {
			zeros++
		}
		total++
	}
	return total > 0 && zeros*2 >= total
}
