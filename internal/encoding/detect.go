// Package encoding turns uploaded text files into UTF-8.
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
	CharsetISO88599    = "ISO-8859-9"
	CharsetISO885915   = "ISO-8859-15"
)

// sniffSize is how much of the input is inspected before choosing a decoder.
const sniffSize = 4096

var boms = []struct {
	prefix  []byte
	charset string
	decoder encoding.Encoding
}{
	{[]byte{0xEF, 0xBB, 0xBF}, CharsetUTF8, nil},
	{[]byte{0xFF, 0xFE}, CharsetUTF16LE, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	{[]byte{0xFE, 0xFF}, CharsetUTF16BE, unicode.UTF16(unicode.BigEndian, unicode.UseBOM)},
}

// single-byte charsets chardet may report, keyed by its labels.
var legacy = map[string]struct {
	charset string
	decoder encoding.Encoding
}{
	"ISO-8859-1":   {CharsetWindows1252, charmap.Windows1252},
	"windows-1252": {CharsetWindows1252, charmap.Windows1252},
	"ISO-8859-9":   {CharsetISO88599, charmap.ISO8859_9},
	"ISO-8859-15":  {CharsetISO885915, charmap.ISO8859_15},
}

// UTF8Reader wraps r so that it yields UTF-8 and reports the charset it decided on.
//
// A byte order mark wins. Otherwise valid UTF-8 passes through, chardet is asked
// about anything else, and Windows-1252 is the fallback.
func UTF8Reader(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("sniffing encoding: %w", err)
	}

	for _, bom := range boms {
		if !bytes.HasPrefix(head, bom.prefix) {
			continue
		}

		if bom.decoder == nil {
			_, _ = br.Discard(len(bom.prefix))
			return br, bom.charset, nil
		}

		return transform.NewReader(br, bom.decoder.NewDecoder()), bom.charset, nil
	}

	if validUTF8Prefix(head) {
		return br, CharsetUTF8, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		if result.Charset == CharsetUTF8 {
			return br, CharsetUTF8, nil
		}

		if l, ok := legacy[result.Charset]; ok {
			return transform.NewReader(br, l.decoder.NewDecoder()), l.charset, nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), CharsetWindows1252, nil
}

// validUTF8Prefix is utf8.Valid that tolerates a rune cut off by the sniff window.
func validUTF8Prefix(b []byte) bool {
	if utf8.Valid(b) {
		return true
	}

	if len(b) < sniffSize {
		return false
	}

	for cut := 1; cut < utf8.UTFMax && cut < len(b); cut++ {
		if utf8.Valid(b[:len(b)-cut]) {
			return true
		}
	}

	return false
}
