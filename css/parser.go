package css

import (
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS stylesheets into a tree which could be printed back.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// block content kinds of at-rules
type blockKind int

const (
	blockRules blockKind = iota
	blockDeclarations
	blockRaw
)

// At-rules with rule lists the tokenizer does not recognize, their blocks
// are re-parsed as stylesheets.
var nestedRuleLists = map[string]bool{
	"@container":      true,
	"@scope":          true,
	"@starting-style": true,
}

// At-rules with declaration blocks the tokenizer does not recognize.
var nestedDeclarationLists = map[string]bool{
	"@property":            true,
	"@counter-style":       true,
	"@font-palette-values": true,
	"@viewport":            true,
}

// Parse parses CSS text into a Stylesheet. Syntax problems never stop
// parsing: they are recorded in Warnings and offending text is kept.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{
		Items:    make([]StylesheetItem, 0),
		Warnings: make([]string, 0),
	}

	// Log parsing start with source identifier if provided
	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	sheet.Items = p.parseText(data, false, false, sheet)
	return sheet
}

func (p *Parser) parseText(data []byte, inline, verbatim bool, sheet *Stylesheet) []StylesheetItem {
	parser := css.NewParser(parse.NewInputBytes(data), inline)
	items, _ := p.parseItems(parser, verbatim, sheet)
	return items
}

// parseItems consumes grammar until the end of current block or input. It
// reports whether input is exhausted.
func (p *Parser) parseItems(parser *css.Parser, verbatim bool, sheet *Stylesheet) ([]StylesheetItem, bool) {
	items := make([]StylesheetItem, 0)
	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if !parser.HasParseError() {
				if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
					p.warn(sheet, err.Error())
				}
				return items, true
			}
			p.warn(sheet, parser.Err().Error())
			if raw := strings.TrimSpace(joinValues(parser.Values())); raw != "" {
				items = append(items, StylesheetItem{Raw: &raw})
			}

		case css.EndRulesetGrammar, css.EndAtRuleGrammar:
			return items, false

		case css.CommentGrammar:
			comment := string(data)
			items = append(items, StylesheetItem{Comment: &comment})

		case css.TokenGrammar:
			// CDO/CDC at top level
			raw := string(data)
			items = append(items, StylesheetItem{Raw: &raw})

		case css.DeclarationGrammar:
			items = append(items, StylesheetItem{Declaration: &Declaration{
				Name:  string(data),
				Value: joinValues(parser.Values()),
			}})

		case css.CustomPropertyGrammar:
			var value string
			if values := parser.Values(); len(values) > 0 {
				value = strings.TrimSpace(string(values[0].Data))
			}
			items = append(items, StylesheetItem{Declaration: &Declaration{
				Name:   string(data),
				Value:  value,
				Custom: true,
			}})

		case css.AtRuleGrammar:
			items = append(items, StylesheetItem{AtRule: &AtRule{
				Name:    string(data),
				Prelude: joinValues(parser.Values()),
			}})

		case css.BeginAtRuleGrammar:
			rule, eof := p.parseAtRuleBlock(parser, string(data), sheet)
			items = append(items, StylesheetItem{AtRule: rule})
			if eof {
				return items, true
			}

		case css.BeginRulesetGrammar, css.QualifiedRuleGrammar:
			rule := &Rule{RawSelector: joinValues(parser.Values())}
			if !verbatim {
				p.parseRuleSelectors(rule, parser.Values(), sheet)
			}
			if gt == css.QualifiedRuleGrammar {
				items = append(items, StylesheetItem{Rule: rule})
				continue
			}
			var eof bool
			rule.Items, eof = p.parseItems(parser, false, sheet)
			items = append(items, StylesheetItem{Rule: rule})
			if eof {
				return items, true
			}
		}
	}
}

func (p *Parser) parseRuleSelectors(rule *Rule, values []css.Token, sheet *Stylesheet) {
	list, err := parseSelectorTokens(values)
	if err != nil {
		p.warn(sheet, "unable to parse selector \""+rule.RawSelector+"\": "+err.Error())
		return
	}
	rule.Selectors = list
}

func (p *Parser) parseAtRuleBlock(parser *css.Parser, name string, sheet *Stylesheet) (*AtRule, bool) {
	rule := &AtRule{
		Name:    name,
		Prelude: joinValues(parser.Values()),
		Block:   true,
	}

	var eof bool
	switch atRuleBlockKind(name) {
	case blockRaw:
		var sb strings.Builder
		for {
			gt, _, data := parser.Next()
			if gt == css.EndAtRuleGrammar {
				break
			}
			if gt == css.ErrorGrammar && !parser.HasParseError() {
				eof = true
				break
			}
			sb.Write(data)
		}
		raw := sb.String()

		switch {
		case nestedRuleLists[unprefixed(name)]:
			rule.Items = p.parseText([]byte(raw), false, false, sheet)
		case nestedDeclarationLists[unprefixed(name)]:
			rule.Items = p.parseText([]byte(raw), true, false, sheet)
		default:
			rule.Raw, rule.RawBlock = raw, true
			p.log.Debug("Keeping @-rule block verbatim", zap.String("rule", name))
		}

	default:
		// keyframe selectors ("from", "50%") are not selectors
		verbatim := strings.HasSuffix(name, "keyframes")
		rule.Items, eof = p.parseItems(parser, verbatim, sheet)
	}
	return rule, eof
}

// atRuleBlockKind mirrors how tokenizer treats at-rule blocks.
func atRuleBlockKind(name string) blockKind {
	switch unprefixed(name) {
	case "@font-face", "@page":
		return blockDeclarations
	case "@document", "@keyframes", "@layer", "@media", "@supports":
		return blockRules
	default:
		return blockRaw
	}
}

// unprefixed strips vendor prefix: "@-webkit-keyframes" -> "@keyframes".
func unprefixed(name string) string {
	if strings.HasPrefix(name, "@-") {
		if i := strings.IndexByte(name[2:], '-'); i != -1 {
			return "@" + name[i+3:]
		}
	}
	return name
}

func (p *Parser) warn(sheet *Stylesheet, msg string) {
	sheet.Warnings = append(sheet.Warnings, msg)
	p.log.Debug("CSS parse problem", zap.String("details", msg))
}

// joinValues returns normalized text of grammar values.
func joinValues(tokens []css.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		sb.Write(t.Data)
	}
	return strings.TrimSpace(sb.String())
}
