package css

import (
	"errors"
	"fmt"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ParseSelectorList parses selector list text (e.g. ".a > .b:not(.c), #d")
// into components. Class and id names are unescaped.
func ParseSelectorList(text string) (SelectorList, error) {
	return parseSelectorTokens(lexSelector(text))
}

// lexSelector tokenizes text dropping comments and collapsing whitespace.
func lexSelector(text string) []css.Token {
	l := css.NewLexer(parse.NewInputString(text))
	var tokens []css.Token
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return trimWhitespace(tokens)
		case css.CommentToken:
			continue
		case css.WhitespaceToken:
			if len(tokens) > 0 && tokens[len(tokens)-1].TokenType == css.WhitespaceToken {
				continue
			}
			data = wsBytes
		default:
			data = parse.Copy(data)
		}
		tokens = append(tokens, css.Token{TokenType: tt, Data: data})
	}
}

var wsBytes = []byte(" ")

func trimWhitespace(tokens []css.Token) []css.Token {
	for len(tokens) > 0 && tokens[0].TokenType == css.WhitespaceToken {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && tokens[len(tokens)-1].TokenType == css.WhitespaceToken {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

func parseSelectorTokens(tokens []css.Token) (SelectorList, error) {
	p := &selectorParser{tokens: trimWhitespace(tokens)}
	list, err := p.parseList(false)
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.TokenType != css.ErrorToken {
		return nil, fmt.Errorf("unexpected %s in selector", t)
	}
	return list, nil
}

type selectorParser struct {
	tokens []css.Token
	index  int
}

var eofToken = css.Token{TokenType: css.ErrorToken}

func (p *selectorParser) next() css.Token {
	if p.index >= len(p.tokens) {
		p.index++
		return eofToken
	}
	t := p.tokens[p.index]
	p.index++
	return t
}

func (p *selectorParser) peek() css.Token {
	t := p.next()
	p.index--
	return t
}


func (p *selectorParser) skipWhitespace() bool {
	skipped := false
	for p.peek().TokenType == css.WhitespaceToken {
		p.next()
		skipped = true
	}
	return skipped
}

// parseList parses comma separated selectors. Relative lists (":has()") may
// start each selector with a combinator.
func (p *selectorParser) parseList(relative bool) (SelectorList, error) {
	var list SelectorList
	for {
		sel, err := p.parseComplex(relative)
		if err != nil {
			return nil, err
		}
		list = append(list, sel)
		p.skipWhitespace()
		if p.peek().TokenType != css.CommaToken {
			return list, nil
		}
		p.next()
	}
}

func (p *selectorParser) parseComplex(relative bool) (Selector, error) {
	var sel Selector

	p.skipWhitespace()
	if relative {
		if kind, ok := combinatorOf(p.peek()); ok {
			p.next()
			p.skipWhitespace()
			sel = append(sel, Combinator{Kind: kind})
		}
	}

	compound, err := p.parseCompound()
	if err != nil {
		return nil, err
	}
	if len(compound) == 0 {
		return nil, fmt.Errorf("expected selector, got %s", p.peek())
	}
	sel = append(sel, compound...)

	for {
		space := p.skipWhitespace()
		t := p.peek()
		kind, ok := combinatorOf(t)
		switch {
		case ok:
			p.next()
			p.skipWhitespace()
		case space && startsCompound(t):
			kind = CombinatorDescendant
		default:
			return sel, nil
		}

		compound, err := p.parseCompound()
		if err != nil {
			return nil, err
		}
		if len(compound) == 0 {
			return nil, fmt.Errorf("expected selector after combinator %q, got %s", kind.String(), p.peek())
		}
		sel = append(sel, Combinator{Kind: kind})
		sel = append(sel, compound...)
	}
}

func combinatorOf(t css.Token) (CombinatorKind, bool) {
	switch {
	case t.TokenType == css.ColumnToken:
		return CombinatorColumn, true
	case t.TokenType != css.DelimToken || len(t.Data) != 1:
		return 0, false
	}
	switch t.Data[0] {
	case '>':
		return CombinatorChild, true
	case '+':
		return CombinatorNextSibling, true
	case '~':
		return CombinatorLaterSibling, true
	}
	return 0, false
}

func isDelim(t css.Token, c byte) bool {
	return t.TokenType == css.DelimToken && len(t.Data) == 1 && t.Data[0] == c
}

func startsCompound(t css.Token) bool {
	switch t.TokenType {
	case css.IdentToken, css.HashToken, css.LeftBracketToken, css.ColonToken:
		return true
	case css.DelimToken:
		return isDelim(t, '.') || isDelim(t, '*') || isDelim(t, '&') || isDelim(t, '|')
	}
	return false
}

func (p *selectorParser) parseCompound() (Selector, error) {
	var sel Selector
	for {
		t := p.peek()
		switch {
		case t.TokenType == css.IdentToken:
			p.next()
			if p.namespaceFollows() {
				p.next()
				sel = append(sel, NamespaceSelector{Prefix: string(t.Data)})
				continue
			}
			sel = append(sel, TypeSelector{Name: Unescape(string(t.Data))})

		case isDelim(t, '*'):
			p.next()
			if p.namespaceFollows() {
				p.next()
				sel = append(sel, NamespaceSelector{Prefix: "*"})
				continue
			}
			sel = append(sel, UniversalSelector{})

		case isDelim(t, '|'):
			p.next()
			sel = append(sel, NamespaceSelector{})

		case isDelim(t, '&'):
			p.next()
			sel = append(sel, NestingSelector{})

		case isDelim(t, '.'):
			p.next()
			name := p.next()
			if name.TokenType != css.IdentToken && name.TokenType != css.CustomPropertyNameToken {
				return nil, fmt.Errorf("expected class name, got %s", name)
			}
			sel = append(sel, ClassSelector{Name: Unescape(string(name.Data))})

		case t.TokenType == css.HashToken:
			p.next()
			sel = append(sel, IDSelector{Name: Unescape(string(t.Data[1:]))})

		case t.TokenType == css.LeftBracketToken:
			p.next()
			attr, err := p.parseAttribute()
			if err != nil {
				return nil, err
			}
			sel = append(sel, attr)

		case t.TokenType == css.ColonToken:
			p.next()
			c, err := p.parsePseudo()
			if err != nil {
				return nil, err
			}
			sel = append(sel, c)

		default:
			return sel, nil
		}
	}
}

// namespaceFollows checks for "|" which is not part of "|=" or "||".
func (p *selectorParser) namespaceFollows() bool {
	return isDelim(p.peek(), '|')
}

func (p *selectorParser) parseAttribute() (Component, error) {
	var inner []css.Token
	for {
		t := p.next()
		switch t.TokenType {
		case css.ErrorToken:
			return nil, errors.New("unterminated attribute selector")
		case css.RightBracketToken:
			if len(inner) == 0 {
				return nil, errors.New("empty attribute selector")
			}
			return AttributeSelector{Raw: joinAttributeTokens(inner)}, nil
		case css.WhitespaceToken:
			continue
		}
		inner = append(inner, t)
	}
}

// joinAttributeTokens drops whitespace, keeping a separator only where two
// words would otherwise merge ([a=b i]).
func joinAttributeTokens(tokens []css.Token) string {
	var sb strings.Builder
	for i, t := range tokens {
		if i > 0 && isWordToken(tokens[i-1]) && isWordToken(t) {
			sb.WriteByte(' ')
		}
		sb.Write(t.Data)
	}
	return sb.String()
}

func isWordToken(t css.Token) bool {
	switch t.TokenType {
	case css.IdentToken, css.CustomPropertyNameToken, css.NumberToken, css.DimensionToken, css.StringToken:
		return true
	}
	return false
}

func (p *selectorParser) parsePseudo() (Component, error) {
	element := false
	if p.peek().TokenType == css.ColonToken {
		p.next()
		element = true
	}

	t := p.next()
	switch t.TokenType {
	case css.IdentToken:
		name := strings.ToLower(string(t.Data))
		if element {
			return PseudoElement{Name: name}, nil
		}
		return PseudoClass{Name: name, Kind: PseudoClassKindOf(name)}, nil
	case css.FunctionToken:
	default:
		return nil, fmt.Errorf("expected pseudo-class name, got %s", t)
	}

	name := strings.ToLower(strings.TrimSuffix(string(t.Data), "("))
	args, err := p.functionArguments()
	if err != nil {
		return nil, fmt.Errorf("pseudo %q: %w", name, err)
	}
	if element {
		return PseudoElement{Name: name, Functional: true, Args: joinTokens(args)}, nil
	}

	pc := PseudoClass{Name: name, Kind: PseudoClassKindOf(name), Functional: true}
	switch {
	case pc.Kind.HasSelectorList():
		sub := &selectorParser{tokens: trimWhitespace(args)}
		if pc.Selectors, err = sub.parseList(pc.Kind == PseudoClassHas); err != nil {
			return nil, fmt.Errorf(":%s(): %w", name, err)
		}
		if t := sub.peek(); t.TokenType != css.ErrorToken {
			return nil, fmt.Errorf(":%s(): unexpected %s", name, t)
		}
	case pc.Kind.IsNth():
		nth, of := splitNthArguments(args)
		pc.Args = joinTokens(nth)
		if of != nil {
			sub := &selectorParser{tokens: trimWhitespace(of)}
			if pc.Of, err = sub.parseList(false); err != nil {
				return nil, fmt.Errorf(":%s() of: %w", name, err)
			}
			if t := sub.peek(); t.TokenType != css.ErrorToken {
				return nil, fmt.Errorf(":%s() of: unexpected %s", name, t)
			}
		}
	default:
		pc.Args = joinTokens(args)
	}
	return pc, nil
}

// functionArguments consumes tokens up to the matching right parenthesis.
func (p *selectorParser) functionArguments() ([]css.Token, error) {
	var args []css.Token
	for level := 1; ; {
		t := p.next()
		switch t.TokenType {
		case css.ErrorToken:
			return nil, errors.New("unterminated function arguments")
		case css.FunctionToken, css.LeftParenthesisToken:
			level++
		case css.RightParenthesisToken:
			level--
			if level == 0 {
				return args, nil
			}
		}
		args = append(args, t)
	}
}

// splitNthArguments separates "An+B" from optional "of S" part.
func splitNthArguments(args []css.Token) (nth, of []css.Token) {
	for i, t := range args {
		if t.TokenType == css.IdentToken && strings.EqualFold(string(t.Data), "of") {
			return args[:i], args[i+1:]
		}
	}
	return args, nil
}

func joinTokens(tokens []css.Token) string {
	var sb strings.Builder
	for _, t := range trimWhitespace(tokens) {
		sb.Write(t.Data)
	}
	return sb.String()
}
