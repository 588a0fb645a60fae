package renamer

import (
	"fmt"

	"cssmangle/common"
	"cssmangle/css"
)

// Request describes single table lookup.
type Request struct {
	Key   string // original text, escaped to form table key
	Value string // original value as given to strategy
	// Wrap, when set, transforms new name before it is escaped and stored.
	Wrap func(name string) string
}

// Namer looks names up in conversion tables and creates missing entries
// using single strategy for all tables.
type Namer struct {
	tables   *ConversionTables
	strategy Strategy
	used     map[common.TableKind]map[string]bool
	created  int
}

// NewNamer creates namer working on tables. Tables are modified in place.
func NewNamer(tables *ConversionTables, strategy Strategy) *Namer {
	return &Namer{
		tables:   tables,
		strategy: strategy,
		used:     make(map[common.TableKind]map[string]bool),
	}
}

// Created returns number of entries added so far.
func (n *Namer) Created() int {
	return n.created
}

// Name returns stored (escaped) value for request key, creating new entry on
// table miss. Stored values are returned as is, interpreting them is up to
// the caller.
func (n *Namer) Name(kind common.TableKind, req Request) (string, bool, error) {
	table := n.tables.Table(kind)
	key := css.Escape(req.Key)
	if stored, ok := table[key]; ok {
		return stored, false, nil
	}

	store := func(name string) string {
		if req.Wrap != nil {
			name = req.Wrap(name)
		}
		return css.Escape(name)
	}
	used := n.usedValues(kind)

	name, err := n.strategy.NewName(req.Value, func(candidate string) bool {
		return used[store(candidate)]
	})
	if err != nil {
		return "", false, fmt.Errorf("unable to name %q: %w", req.Key, err)
	}

	stored := store(name)
	table[key] = stored
	used[stored] = true
	n.created++
	return stored, true, nil
}

// usedValues returns reverse index of table values, built on first miss.
func (n *Namer) usedValues(kind common.TableKind) map[string]bool {
	if used, ok := n.used[kind]; ok {
		return used
	}
	table := n.tables.Table(kind)
	used := make(map[string]bool, len(table))
	for _, v := range table {
		used[v] = true
	}
	n.used[kind] = used
	return used
}
