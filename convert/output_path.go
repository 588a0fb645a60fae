package convert

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"

	"cssmangle/config"
	"cssmangle/state"
)

// buildOutputPath returns output file path for stylesheet. "src" is path of
// the source relative to the processed location (always including file name).
// Source directory structure is preserved unless NoDirs is requested. Every
// path segment is cleaned and if requested transliterated.
func buildOutputPath(src, dst string, env *state.LocalEnv) string {
	return filepath.Join(determineOutputDir(src, dst, env), buildFileName(src, env))
}

func determineOutputDir(src, dst string, env *state.LocalEnv) string {
	if env.NoDirs {
		return dst
	}
	dir := filepath.Dir(src)
	if dir == "." {
		return dst
	}
	parts := []string{dst}
	for _, segment := range splitPath(dir) {
		parts = append(parts, cleanPathSegment(segment, env))
	}
	return filepath.Join(parts...)
}

func buildFileName(src string, env *state.LocalEnv) string {
	baseName := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return cleanPathSegment(baseName, env) + env.Cfg.Rename.OutputExtension
}

func splitPath(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)

	for head, tail := filepath.Split(path); tail != ""; head, tail = filepath.Split(head) {
		segments = slices.Insert(segments, 0, tail)
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" {
			break
		}
	}
	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if segment == ".." {
		// never leave destination directory
		return "_"
	}
	if env.Cfg.Rename.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
