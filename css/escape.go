package css

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Escape serializes raw text as a CSS identifier following
// https://drafts.csswg.org/cssom/#serialize-an-identifier.
// Result may be used verbatim as selector or identifier text.
func Escape(raw string) string {
	if raw == "-" {
		return `\-`
	}

	var b strings.Builder
	b.Grow(len(raw) + 4)
	for i := 0; i < len(raw); {
		r, w := utf8.DecodeRuneInString(raw[i:])
		switch {
		case r == 0:
			b.WriteRune(utf8.RuneError)
		case r >= 0x01 && r <= 0x1F, r == 0x7F,
			i == 0 && isDigit(r),
			i == 1 && isDigit(r) && raw[0] == '-':
			writeHexEscape(&b, r)
		case r == '-' || r == '_' || r >= 0x80 || isDigit(r) ||
			r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z':
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
		i += w
	}
	return b.String()
}

// Unescape decodes CSS escape sequences. It is the left inverse of Escape:
// Unescape(Escape(s)) == s for any s without NUL characters.
func Unescape(escaped string) string {
	if !strings.ContainsRune(escaped, '\\') {
		return escaped
	}

	var b strings.Builder
	b.Grow(len(escaped))
	for i := 0; i < len(escaped); {
		c := escaped[i]
		if c != '\\' || i+1 == len(escaped) {
			r, w := utf8.DecodeRuneInString(escaped[i:])
			b.WriteRune(r)
			i += w
			continue
		}
		i++ // skip backslash

		j := i
		for j < len(escaped) && j < i+6 && isHexDigit(rune(escaped[j])) {
			j++
		}
		if j == i {
			// escaped literal character
			r, w := utf8.DecodeRuneInString(escaped[i:])
			b.WriteRune(r)
			i += w
			continue
		}

		cp, err := strconv.ParseUint(escaped[i:j], 16, 32)
		if err != nil || cp == 0 || cp > utf8.MaxRune || cp >= 0xD800 && cp <= 0xDFFF {
			b.WriteRune(utf8.RuneError)
		} else {
			b.WriteRune(rune(cp))
		}
		i = j

		// single whitespace terminates hex escape
		if i < len(escaped) {
			switch escaped[i] {
			case '\r':
				i++
				if i < len(escaped) && escaped[i] == '\n' {
					i++
				}
			case ' ', '\t', '\n', '\f':
				i++
			}
		}
	}
	return b.String()
}

func writeHexEscape(b *strings.Builder, r rune) {
	b.WriteByte('\\')
	b.WriteString(strconv.FormatInt(int64(r), 16))
	b.WriteByte(' ')
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isHexDigit(r rune) bool {
	return 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F' || '0' <= r && r <= '9'
}
