package css

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}

	// @charset must be the very first thing in the file and use double quotes
	charsetRule = regexp.MustCompile(`^@charset "([^"]*)";`)
)

// DecodeCharset converts stylesheet to UTF-8 following byte order mark or
// @charset rule. It returns converted data and name of the original
// encoding. When encoding changes leading @charset rule is replaced to
// declare UTF-8.
func DecodeCharset(data []byte) ([]byte, string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], "utf-8", nil
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), data, "utf-16be")
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data, "utf-16le")
	}

	m := charsetRule.FindSubmatch(data)
	if m == nil {
		return data, "utf-8", nil
	}
	label := strings.ToLower(strings.TrimSpace(string(m[1])))

	// labels are the same as for HTML documents
	enc, name := charset.Lookup(label)
	if enc == nil {
		return nil, label, fmt.Errorf("unsupported @charset %q", label)
	}
	if enc == unicode.UTF8 {
		return data, name, nil
	}
	return decodeWith(enc, data, name)
}

func decodeWith(enc encoding.Encoding, data []byte, name string) ([]byte, string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, name, fmt.Errorf("unable to decode stylesheet from %s: %w", name, err)
	}
	if m := charsetRule.FindIndex(out); m != nil {
		out = append([]byte(`@charset "UTF-8";`), out[m[1]:]...)
	}
	return out, name, nil
}
