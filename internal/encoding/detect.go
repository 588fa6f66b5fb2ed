// Package encoding normalises uploaded text files to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const (
	CharsetUTF8        = "UTF-8"
	CharsetUTF16LE     = "UTF-16LE"
	CharsetUTF16BE     = "UTF-16BE"
	CharsetWindows1252 = "windows-1252"
	CharsetISO885915   = "ISO-8859-15"
)

const sniffSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// chardet names mapped to the decoder used for them. Plain Latin-1 is read as
// Windows-1252, its superset that spreadsheet exports actually produce.
var legacyDecoders = map[string]struct {
	charset string
	enc     encoding.Encoding
}{
	"ISO-8859-1":   {CharsetWindows1252, charmap.Windows1252},
	"windows-1252": {CharsetWindows1252, charmap.Windows1252},
	"ISO-8859-15":  {CharsetISO885915, charmap.ISO8859_15},
}

// Reader yields UTF-8 text and records the charset it was decoded from.
type Reader struct {
	io.Reader
	Charset string
}

// NewUTF8Reader detects the encoding of r and decodes it to UTF-8.
//
// A BOM wins (UTF-8 BOM is stripped, UTF-16 is decoded). Otherwise valid
// UTF-8 passes through, chardet picks among the supported legacy charsets,
// and anything else is read as Windows-1252.
func NewUTF8Reader(r io.Reader) (*Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return &Reader{Reader: br, Charset: CharsetUTF8}, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return &Reader{Reader: transform.NewReader(br, dec), Charset: CharsetUTF16LE}, nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		dec := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		return &Reader{Reader: transform.NewReader(br, dec), Charset: CharsetUTF16BE}, nil
	case validUTF8Prefix(buf, len(buf) == sniffSize):
		return &Reader{Reader: br, Charset: CharsetUTF8}, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if result.Charset == "UTF-8" {
			return &Reader{Reader: br, Charset: CharsetUTF8}, nil
		}

		if d, ok := legacyDecoders[result.Charset]; ok {
			return &Reader{Reader: transform.NewReader(br, d.enc.NewDecoder()), Charset: d.charset}, nil
		}
	}

	return &Reader{
		Reader:  transform.NewReader(br, charmap.Windows1252.NewDecoder()),
		Charset: CharsetWindows1252,
	}, nil
}

// validUTF8Prefix tolerates a multi-byte rune cut off by a full sniff window.
func validUTF8Prefix(buf []byte, truncated bool) bool {
	if utf8.Valid(buf) {
		return true
	}

	if !truncated {
		return false
	}

	for cut := 1; cut < utf8.UTFMax && cut < len(buf); cut++ {
		if utf8.Valid(buf[:len(buf)-cut]) && !utf8.FullRune(buf[len(buf)-cut:]) {
			return true
		}
	}

	return false
}
