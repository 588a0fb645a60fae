//go:build !windows

package config

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// CleanFileName removes characters not allowed in file names and leading
// dots, so output stylesheets are never hidden.
func CleanFileName(in string) string {
	if out := strings.TrimLeft(dropRunes(in, ""), "."); len(out) > 0 {
		return out
	}
	return badFileName
}

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
