package css

import (
	"fmt"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Visitor receives parts of a stylesheet which may be rewritten. Nil
// callbacks are skipped.
type Visitor struct {
	// Selector returns replacement for a single selector of a rule. Returned
	// list may hold more than one selector.
	Selector func(sel Selector) (SelectorList, error)
	// DashedIdent returns replacement for "--name" identifier (custom
	// property name or reference).
	DashedIdent func(name string) (string, error)
}

// Visit walks stylesheet in document order: rule selectors before rule
// content, declaration names before values. First error stops the walk.
func (s *Stylesheet) Visit(v Visitor) error {
	return visitItems(s.Items, v)
}

func visitItems(items []StylesheetItem, v Visitor) error {
	for _, item := range items {
		var err error
		switch {
		case item.Rule != nil:
			err = visitRule(item.Rule, v)
		case item.AtRule != nil:
			err = visitAtRule(item.AtRule, v)
		case item.Declaration != nil:
			err = visitDeclaration(item.Declaration, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func visitRule(r *Rule, v Visitor) error {
	if r.Selectors != nil && v.Selector != nil {
		list := make(SelectorList, 0, len(r.Selectors))
		for _, sel := range r.Selectors {
			replaced, err := v.Selector(sel)
			if err != nil {
				return err
			}
			list = append(list, replaced...)
		}
		r.Selectors = list
	}
	return visitItems(r.Items, v)
}

func visitAtRule(a *AtRule, v Visitor) error {
	var err error
	if a.Prelude, err = RewriteDashedIdents(a.Prelude, v.DashedIdent); err != nil {
		return fmt.Errorf("%s prelude: %w", a.Name, err)
	}
	if a.RawBlock {
		if a.Raw, err = RewriteDashedIdents(a.Raw, v.DashedIdent); err != nil {
			return fmt.Errorf("%s block: %w", a.Name, err)
		}
		return nil
	}
	return visitItems(a.Items, v)
}

func visitDeclaration(d *Declaration, v Visitor) error {
	if v.DashedIdent == nil {
		return nil
	}
	if isDashedIdent(d.Name) {
		name, err := v.DashedIdent(d.Name)
		if err != nil {
			return fmt.Errorf("property %q: %w", d.Name, err)
		}
		d.Name = name
	}
	value, err := RewriteDashedIdents(d.Value, v.DashedIdent)
	if err != nil {
		return fmt.Errorf("value of %q: %w", d.Name, err)
	}
	d.Value = value
	return nil
}

// RewriteDashedIdents replaces every "--name" token of text with result of
// fn. Everything else is copied verbatim.
func RewriteDashedIdents(text string, fn func(string) (string, error)) (string, error) {
	if fn == nil || !strings.Contains(text, "--") {
		return text, nil
	}

	var sb strings.Builder
	sb.Grow(len(text))
	l := css.NewLexer(parse.NewInputString(text))
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return sb.String(), nil
		case css.CustomPropertyNameToken:
			if name := string(data); isDashedIdent(name) {
				replaced, err := fn(name)
				if err != nil {
					return "", err
				}
				sb.WriteString(replaced)
				continue
			}
		}
		sb.Write(data)
	}
}

// isDashedIdent rejects bare "--".
func isDashedIdent(name string) bool {
	return len(name) > 2 && strings.HasPrefix(name, "--")
}
