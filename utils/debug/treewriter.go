package debug

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"
)

// TreeWriter produces indented human readable dumps for debug reports.
type TreeWriter struct {
	w *strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{
		w: &strings.Builder{},
	}
}

func (tw TreeWriter) String() string {
	return tw.w.String()
}

func (tw TreeWriter) indent(depth int) {
	for range depth {
		tw.w.WriteString("  ")
	}
}

func (tw TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes "label: value" with value quoted so whitespace and
// escapes are visible.
func (tw TreeWriter) TextBlock(depth int, label, value string) {
	tw.indent(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Mapping writes label followed by map entries in natural key order, one
// "key -> value" per line.
func (tw TreeWriter) Mapping(depth int, label string, m map[string]string) {
	tw.Line(depth, "%s (%d)", label, len(m))
	for _, k := range SortedKeys(m) {
		tw.indent(depth + 1)
		tw.w.WriteString(encodeText(k))
		tw.w.WriteString(" -> ")
		tw.w.WriteString(encodeText(m[k]))
		tw.w.WriteByte('\n')
	}
}

// SortedKeys returns map keys in natural order ("a2" before "a10").
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Sort(natural.StringSlice(keys))
	return keys
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
