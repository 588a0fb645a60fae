package css

import (
	"fmt"
	"strings"
)

// Component is a single part of a compound or complex selector. The set of
// implementations is closed, see the types below.
type Component interface {
	component()
}

// TypeSelector matches elements by tag name (e.g. "div").
type TypeSelector struct {
	Name string
}

// UniversalSelector is "*".
type UniversalSelector struct{}

// IDSelector is "#name". Name is kept unescaped.
type IDSelector struct {
	Name string
}

// ClassSelector is ".name". Name is kept unescaped.
type ClassSelector struct {
	Name string
}

// AttributeSelector keeps normalized text between brackets, it is never
// interpreted.
type AttributeSelector struct {
	Raw string
}

// CombinatorKind enumerates selector combinators.
type CombinatorKind int

const (
	CombinatorDescendant CombinatorKind = iota // "a b"
	CombinatorChild                            // "a > b"
	CombinatorNextSibling                      // "a + b"
	CombinatorLaterSibling                     // "a ~ b"
	CombinatorColumn                           // "a || b"
)

var combinatorText = [...]string{
	CombinatorDescendant:   " ",
	CombinatorChild:        ">",
	CombinatorNextSibling:  "+",
	CombinatorLaterSibling: "~",
	CombinatorColumn:       "||",
}

// String returns compact CSS representation of the combinator.
func (k CombinatorKind) String() string {
	if int(k) < len(combinatorText) {
		return combinatorText[k]
	}
	return ""
}

// Combinator separates compound selectors.
type Combinator struct {
	Kind CombinatorKind
}

// NamespaceSelector is the "prefix|" part of "prefix|name". Prefix may be
// empty ("|div") or "*" ("*|div").
type NamespaceSelector struct {
	Prefix string
}

// NestingSelector is "&".
type NestingSelector struct{}

// PseudoClassKind classifies pseudo-classes by what their arguments hold.
type PseudoClassKind int

const (
	PseudoClassOther        PseudoClassKind = iota // no arguments or opaque arguments
	PseudoClassNthChild                            // :nth-child(An+B [of S])
	PseudoClassNthLastChild                        // :nth-last-child(An+B [of S])
	PseudoClassNot                                 // :not(S)
	PseudoClassWhere                               // :where(S)
	PseudoClassIs                                  // :is(S)
	PseudoClassAny                                 // :any(S), :-webkit-any(S), :-moz-any(S), :matches(S)
	PseudoClassHas                                 // :has(S)
	PseudoClassHost                                // :host or :host(S)
)

// PseudoClassKindOf returns kind of pseudo-class by its lowercased name.
func PseudoClassKindOf(name string) PseudoClassKind {
	switch name {
	case "nth-child":
		return PseudoClassNthChild
	case "nth-last-child":
		return PseudoClassNthLastChild
	case "not":
		return PseudoClassNot
	case "where":
		return PseudoClassWhere
	case "is":
		return PseudoClassIs
	case "any", "-webkit-any", "-moz-any", "matches", "-webkit-matches":
		return PseudoClassAny
	case "has":
		return PseudoClassHas
	case "host":
		return PseudoClassHost
	default:
		return PseudoClassOther
	}
}

// HasSelectorList reports whether pseudo-class of this kind holds a list of
// nested selectors in Selectors.
func (k PseudoClassKind) HasSelectorList() bool {
	switch k {
	case PseudoClassNot, PseudoClassWhere, PseudoClassIs, PseudoClassAny, PseudoClassHas, PseudoClassHost:
		return true
	}
	return false
}

// IsNth reports whether pseudo-class of this kind may carry "of S" list.
func (k PseudoClassKind) IsNth() bool {
	return k == PseudoClassNthChild || k == PseudoClassNthLastChild
}

// PseudoClass is ":name" or ":name(...)".
type PseudoClass struct {
	Name       string // lowercased, without colon
	Kind       PseudoClassKind
	Functional bool         // has parenthesized arguments
	Args       string       // opaque arguments, for nth kinds the An+B part
	Selectors  SelectorList // nested selectors for list kinds
	Of         SelectorList // "of S" part of nth kinds
}

// PseudoElement is "::name" or "::name(...)". Arguments are opaque.
type PseudoElement struct {
	Name       string
	Functional bool
	Args       string
}

func (TypeSelector) component()      {}
func (UniversalSelector) component() {}
func (IDSelector) component()        {}
func (ClassSelector) component()     {}
func (AttributeSelector) component() {}
func (Combinator) component()        {}
func (NamespaceSelector) component() {}
func (NestingSelector) component()   {}
func (PseudoClass) component()       {}
func (PseudoElement) component()     {}

// Selector is an ordered sequence of components as they appear in the text.
type Selector []Component

// SelectorList is a comma separated list of selectors.
type SelectorList []Selector

// UnknownComponentError is returned when component cannot be turned into
// text. It means parser and printer disagree on the grammar.
type UnknownComponentError struct {
	Component Component
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("no textual form for selector component %T (%+v)", e.Component, e.Component)
}

// StringifyComponent returns canonical CSS text of a single component.
func StringifyComponent(c Component) (string, error) {
	var sb strings.Builder
	if err := writeComponent(&sb, c, true); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// StringifySelector returns canonical (compact) CSS text of the selector.
func StringifySelector(sel Selector) (string, error) {
	var sb strings.Builder
	if err := writeSelector(&sb, sel, true); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// StringifySelectorList returns canonical (compact) CSS text of the list.
func StringifySelectorList(list SelectorList) (string, error) {
	var sb strings.Builder
	if err := writeSelectorList(&sb, list, true); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeSelectorList(sb *strings.Builder, list SelectorList, compact bool) error {
	for i, sel := range list {
		if i > 0 {
			sb.WriteByte(',')
			if !compact {
				sb.WriteByte(' ')
			}
		}
		if err := writeSelector(sb, sel, compact); err != nil {
			return err
		}
	}
	return nil
}

func writeSelector(sb *strings.Builder, sel Selector, compact bool) error {
	for i, c := range sel {
		if comb, ok := c.(Combinator); ok && i == 0 && !compact {
			// leading combinator of relative selector, :has(> .a)
			sb.WriteString(comb.Kind.String())
			sb.WriteByte(' ')
			continue
		}
		if err := writeComponent(sb, c, compact); err != nil {
			return err
		}
	}
	return nil
}

func writeComponent(sb *strings.Builder, c Component, compact bool) error {
	switch v := c.(type) {
	case TypeSelector:
		sb.WriteString(Escape(v.Name))
	case UniversalSelector:
		sb.WriteByte('*')
	case IDSelector:
		sb.WriteByte('#')
		sb.WriteString(Escape(v.Name))
	case ClassSelector:
		sb.WriteByte('.')
		sb.WriteString(Escape(v.Name))
	case AttributeSelector:
		sb.WriteByte('[')
		sb.WriteString(v.Raw)
		sb.WriteByte(']')
	case Combinator:
		if v.Kind == CombinatorDescendant || compact {
			sb.WriteString(v.Kind.String())
		} else {
			sb.WriteByte(' ')
			sb.WriteString(v.Kind.String())
			sb.WriteByte(' ')
		}
	case NamespaceSelector:
		sb.WriteString(v.Prefix)
		sb.WriteByte('|')
	case NestingSelector:
		sb.WriteByte('&')
	case PseudoClass:
		sb.WriteByte(':')
		sb.WriteString(v.Name)
		if !v.Functional {
			return nil
		}
		sb.WriteByte('(')
		switch {
		case v.Kind.HasSelectorList():
			if err := writeSelectorList(sb, v.Selectors, compact); err != nil {
				return err
			}
		case v.Kind.IsNth():
			sb.WriteString(v.Args)
			if len(v.Of) > 0 {
				sb.WriteString(" of ")
				if err := writeSelectorList(sb, v.Of, compact); err != nil {
					return err
				}
			}
		default:
			sb.WriteString(v.Args)
		}
		sb.WriteByte(')')
	case PseudoElement:
		sb.WriteString("::")
		sb.WriteString(v.Name)
		if v.Functional {
			sb.WriteByte('(')
			sb.WriteString(v.Args)
			sb.WriteByte(')')
		}
	default:
		return &UnknownComponentError{Component: c}
	}
	return nil
}
