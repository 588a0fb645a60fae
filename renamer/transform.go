// Package renamer renames CSS class and id selectors and custom property
// identifiers keeping renaming stable through conversion tables.
package renamer

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"

	"cssmangle/common"
	"cssmangle/css"
)

// Renamer transforms stylesheets. It keeps no state between calls.
type Renamer struct {
	log    *zap.Logger
	parser *css.Parser
}

// New creates renamer.
func New(log *zap.Logger) *Renamer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renamer{
		log:    log.Named("renamer"),
		parser: css.NewParser(log),
	}
}

// Options parametrize single transformation.
type Options struct {
	Mode        common.RenameMode
	DebugSymbol string // debug mode only, "_" when empty
	Prefix      string
	Suffix      string
	Seed        uint32
	Tables      *ConversionTables // initial tables, not modified
	Minify      bool
	Source      string // name of the input for messages
}

// Result of transformation.
type Result struct {
	CSS      []byte
	Tables   *ConversionTables // initial tables with entries created by this run
	Warnings []string
	Created  int // number of new table entries
}

// Transform renames selectors and custom properties of stylesheet data.
func (r *Renamer) Transform(data []byte, opts Options) (*Result, error) {
	strategy, err := NewStrategy(opts.Mode, Settings{
		DebugSymbol: opts.DebugSymbol,
		Prefix:      opts.Prefix,
		Suffix:      opts.Suffix,
		Seed:        opts.Seed,
	})
	if err != nil {
		return nil, err
	}

	tables := opts.Tables.Clone()
	namer := NewNamer(tables, strategy)
	w := newWalker(namer, r.log)

	sheet := r.parser.Parse(data, opts.Source)
	sheet.Minify = opts.Minify

	err = sheet.Visit(css.Visitor{
		Selector: w.walkSelector,
		DashedIdent: func(ident string) (string, error) {
			return renameIdent(namer, r.log, ident)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to rename %s: %w", describe(opts.Source), err)
	}

	var buf bytes.Buffer
	if _, err := sheet.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("unable to write %s: %w", describe(opts.Source), err)
	}

	r.log.Debug("Stylesheet transformed",
		zap.String("source", describe(opts.Source)),
		zap.Stringer("mode", opts.Mode),
		zap.Int("created", namer.Created()),
		zap.Int("warnings", len(sheet.Warnings)))

	return &Result{
		CSS:      buf.Bytes(),
		Tables:   tables,
		Warnings: sheet.Warnings,
		Created:  namer.Created(),
	}, nil
}

func describe(source string) string {
	if source == "" {
		return "stylesheet"
	}
	return source
}
