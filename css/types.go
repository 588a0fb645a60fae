package css

import (
	"io"
	"strings"
)

// Declaration represents single "name: value" pair. Custom property values
// are kept as written (minus surrounding whitespace), other values are
// normalized by the tokenizer.
type Declaration struct {
	Name   string // lowercased property name, or "--name" as written
	Value  string
	Custom bool // custom property (--name)
}

// Rule represents a qualified rule: selectors and a block.
type Rule struct {
	Selectors   SelectorList     // nil when selector text is kept verbatim
	RawSelector string           // normalized selector text as parsed
	Items       []StylesheetItem // declarations and nested at-rules
}

// AtRule represents an @-rule with optional block.
type AtRule struct {
	Name     string           // lowercased name including "@"
	Prelude  string           // normalized text between name and block or semicolon
	Block    bool             // rule has {} block
	Items    []StylesheetItem // parsed block content
	Raw      string           // verbatim block content of at-rules we do not interpret
	RawBlock bool             // block is kept in Raw
}

// StylesheetItem is a single item in a stylesheet or block.
// Exactly one of the fields is non-nil.
type StylesheetItem struct {
	Rule        *Rule
	AtRule      *AtRule
	Declaration *Declaration
	Comment     *string // top level comment including /* */
	Raw         *string // text which could not be parsed, kept verbatim
}

// Stylesheet represents a parsed CSS stylesheet.
type Stylesheet struct {
	Items    []StylesheetItem // All top-level items in source order
	Warnings []string         // Syntax problems, offending text is kept verbatim
	Minify   bool             // WriteTo produces compact output
}

// WriteTo writes the stylesheet to w in source order, implementing io.WriterTo.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	p := &printer{w: w, minify: s.Minify}
	p.items(s.Items, 0, false)
	return p.n, p.err
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

type printer struct {
	w      io.Writer
	n      int64
	err    error
	minify bool
}

func (p *printer) print(parts ...string) {
	for _, s := range parts {
		if p.err != nil {
			return
		}
		n, err := io.WriteString(p.w, s)
		p.n += int64(n)
		p.err = err
	}
}

func (p *printer) indent(depth int) {
	if !p.minify {
		p.print(strings.Repeat("  ", depth))
	}
}

func (p *printer) newline() {
	if !p.minify {
		p.print("\n")
	}
}

func (p *printer) items(items []StylesheetItem, depth int, inBlock bool) {
	for i, item := range items {
		last := i == len(items)-1
		switch {
		case item.Declaration != nil:
			p.declaration(item.Declaration, depth, last)
		case item.Rule != nil:
			p.rule(item.Rule, depth)
		case item.AtRule != nil:
			p.atRule(item.AtRule, depth)
		case item.Comment != nil:
			if p.minify {
				continue
			}
			p.indent(depth)
			p.print(*item.Comment)
			p.newline()
		case item.Raw != nil:
			p.indent(depth)
			p.print(*item.Raw)
			p.newline()
		}

		// Blank line between top level rules
		if !inBlock && !last && item.Declaration == nil && item.Comment == nil {
			p.newline()
		}
	}
}

func (p *printer) declaration(d *Declaration, depth int, last bool) {
	p.indent(depth)
	p.print(d.Name, ":")
	if !p.minify && d.Value != "" {
		p.print(" ")
	}
	p.print(d.Value)
	if !p.minify || !last {
		p.print(";")
	}
	p.newline()
}

func (p *printer) rule(r *Rule, depth int) {
	p.indent(depth)
	if r.Selectors != nil {
		var sb strings.Builder
		if err := writeSelectorList(&sb, r.Selectors, p.minify); err != nil {
			if p.err == nil {
				p.err = err
			}
			return
		}
		p.print(sb.String())
	} else {
		p.print(r.RawSelector)
	}
	p.block(r.Items, depth)
}

func (p *printer) atRule(a *AtRule, depth int) {
	p.indent(depth)
	p.print(a.Name)
	if a.Prelude != "" {
		p.print(" ", a.Prelude)
	}
	switch {
	case !a.Block:
		p.print(";")
		p.newline()
	case a.RawBlock:
		if p.minify {
			p.print("{", strings.TrimSpace(a.Raw), "}")
		} else {
			p.print(" {", a.Raw, "}")
		}
		p.newline()
	default:
		p.block(a.Items, depth)
	}
}

func (p *printer) block(items []StylesheetItem, depth int) {
	if p.minify {
		p.print("{")
	} else {
		p.print(" {")
	}
	p.newline()
	p.items(items, depth+1, true)
	p.indent(depth)
	p.print("}")
	p.newline()
}
