package renamer

import (
	"fmt"

	"cssmangle/common"
	"cssmangle/utils/hash"
)

// Strategy produces new names for previously unseen values. Implementations
// may keep state, single instance is used for one transformation.
type Strategy interface {
	// NewName returns name for value. taken reports whether candidate name
	// is already used in the target table, strategies which could pick
	// another candidate should avoid such names.
	NewName(value string, taken func(name string) bool) (string, error)
}

// Settings parametrize strategies.
type Settings struct {
	DebugSymbol string
	Prefix      string
	Suffix      string
	Seed        uint32
}

// NewStrategy creates renaming strategy for requested mode.
func NewStrategy(mode common.RenameMode, s Settings) (Strategy, error) {
	switch mode {
	case common.RenameModeHash:
		return &hashStrategy{prefix: s.Prefix, suffix: s.Suffix, seed: s.Seed}, nil
	case common.RenameModeMinimal:
		return &minimalStrategy{prefix: s.Prefix, suffix: s.Suffix}, nil
	case common.RenameModeDebug:
		symbol := s.DebugSymbol
		if symbol == "" {
			symbol = DefaultDebugSymbol
		}
		return &debugStrategy{symbol: symbol, prefix: s.Prefix, suffix: s.Suffix}, nil
	default:
		return nil, fmt.Errorf("unsupported rename mode %s", mode)
	}
}

// DefaultDebugSymbol is used by debug strategy when no symbol is configured.
const DefaultDebugSymbol = "_"

type hashStrategy struct {
	prefix, suffix string
	seed           uint32
}

func (s *hashStrategy) NewName(value string, _ func(string) bool) (string, error) {
	h, err := hash.Sum(value, s.seed)
	if err != nil {
		return "", err
	}
	return s.prefix + forceLowerFirstChar(h) + s.suffix, nil
}

// forceLowerFirstChar makes sure hash could start an identifier.
func forceLowerFirstChar(s string) string {
	if s == "" || 'a' <= s[0] && s[0] <= 'z' {
		return s
	}
	return string(rune('a'+s[0]%26)) + s[1:]
}

// minimalStrategy counter is shared by both tables.
type minimalStrategy struct {
	prefix, suffix string
	counter        int
}

func (s *minimalStrategy) NewName(_ string, taken func(string) bool) (string, error) {
	for {
		name := s.prefix + NumberToLetters(s.counter) + s.suffix
		s.counter++
		if taken == nil || !taken(name) {
			return name, nil
		}
	}
}

type debugStrategy struct {
	symbol, prefix, suffix string
}

func (s *debugStrategy) NewName(value string, _ func(string) bool) (string, error) {
	return s.symbol + s.prefix + value + s.suffix, nil
}
