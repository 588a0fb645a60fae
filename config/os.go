package config

import (
	"os"
	"strings"
)

// replacement for file names which are empty after cleaning
const badFileName = "_bad_file_name_"

func dropRunes(in, bad string) string {
	return strings.Map(func(sym rune) rune {
		if sym == 0 || strings.ContainsRune(bad+string(os.PathSeparator)+string(os.PathListSeparator), sym) {
			return -1
		}
		return sym
	}, in)
}
