package renamer

import (
	"fmt"

	"go.uber.org/zap"

	"cssmangle/common"
	"cssmangle/css"
)

// walker rewrites selectors. It never modifies its input, every call returns
// new nodes.
type walker struct {
	log    *zap.Logger
	namer  *Namer
	parsed map[string]css.SelectorList // stored table value -> parsed selectors
}

func newWalker(namer *Namer, log *zap.Logger) *walker {
	return &walker{
		log:    log,
		namer:  namer,
		parsed: make(map[string]css.SelectorList),
	}
}

// walkList rewrites every selector of the list, concatenating results.
func (w *walker) walkList(list css.SelectorList) (css.SelectorList, error) {
	if list == nil {
		return nil, nil
	}
	out := make(css.SelectorList, 0, len(list))
	for _, sel := range list {
		res, err := w.walkSelector(sel)
		if err != nil {
			return nil, err
		}
		out = append(out, res...)
	}
	return out, nil
}

// walkSelector rewrites single selector. Component which expands into
// several alternatives multiplies the selector, one result per alternative.
func (w *walker) walkSelector(sel css.Selector) (css.SelectorList, error) {
	out := css.SelectorList{make(css.Selector, 0, len(sel))}
	for _, c := range sel {
		alts, err := w.walkComponent(c)
		if err != nil {
			return nil, err
		}
		if len(alts) == 1 {
			for i := range out {
				out[i] = append(out[i], alts[0]...)
			}
			continue
		}
		next := make(css.SelectorList, 0, len(out)*len(alts))
		for _, prefix := range out {
			for _, alt := range alts {
				s := make(css.Selector, 0, len(prefix)+len(alt))
				s = append(s, prefix...)
				next = append(next, append(s, alt...))
			}
		}
		out = next
	}
	return out, nil
}

// walkComponent returns alternatives replacing component c. Result always
// has at least one element.
func (w *walker) walkComponent(c css.Component) (css.SelectorList, error) {
	switch c := c.(type) {
	case css.ClassSelector:
		return w.rename(c, ".", c.Name)
	case css.IDSelector:
		return w.rename(c, "#", c.Name)
	case css.PseudoClass:
		pc, err := w.walkPseudoClass(c)
		if err != nil {
			return nil, err
		}
		return css.SelectorList{{pc}}, nil
	case css.TypeSelector, css.UniversalSelector, css.AttributeSelector, css.Combinator,
		css.NamespaceSelector, css.NestingSelector, css.PseudoElement:
		return css.SelectorList{{c}}, nil
	default:
		w.log.Debug("Unhandled selector component, keeping as is", zap.String("type", fmt.Sprintf("%T", c)))
		return css.SelectorList{{c}}, nil
	}
}

func (w *walker) walkPseudoClass(pc css.PseudoClass) (css.PseudoClass, error) {
	var err error
	switch {
	case pc.Kind.IsNth():
		if pc.Of != nil {
			pc.Of, err = w.walkList(pc.Of)
		}
	case pc.Kind == css.PseudoClassHost:
		if pc.Selectors != nil {
			pc.Selectors, err = w.walkList(pc.Selectors)
		}
	case pc.Kind.HasSelectorList():
		// expansions stay inside, these pseudo-classes take selector lists
		pc.Selectors, err = w.walkList(pc.Selectors)
	default:
		w.log.Debug("Unhandled pseudo-class, keeping as is", zap.String("name", pc.Name))
	}
	if err != nil {
		return pc, fmt.Errorf("unable to rewrite :%s(): %w", pc.Name, err)
	}
	return pc, nil
}

// rename looks class or id up in selector table and returns parsed stored
// value.
func (w *walker) rename(c css.Component, sigil, name string) (css.SelectorList, error) {
	text, err := css.StringifyComponent(c)
	if err != nil {
		return nil, err
	}
	stored, created, err := w.namer.Name(common.TableKindSelector, Request{
		Key:   text,
		Value: name,
		Wrap: func(newName string) string {
			return sigil + css.Escape(newName)
		},
	})
	if err != nil {
		return nil, err
	}
	if created {
		w.log.Debug("New selector", zap.String("from", text), zap.String("to", stored))
	}

	if list, ok := w.parsed[stored]; ok {
		return list, nil
	}
	list, err := css.ParseSelectorList(css.Unescape(stored))
	if err != nil {
		return nil, fmt.Errorf("stored value %q for %q is not a selector: %w", stored, text, err)
	}
	w.parsed[stored] = list
	return list, nil
}
