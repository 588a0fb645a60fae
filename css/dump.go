package css

import (
	"cssmangle/utils/debug"
)

// Dump returns human readable tree of the stylesheet for debug reports.
func (s *Stylesheet) Dump() string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "stylesheet items=%d warnings=%d", len(s.Items), len(s.Warnings))
	dumpItems(tw, 1, s.Items)
	for _, w := range s.Warnings {
		tw.TextBlock(1, "warning", w)
	}
	return tw.String()
}

func dumpItems(tw *debug.TreeWriter, depth int, items []StylesheetItem) {
	for _, item := range items {
		switch {
		case item.Rule != nil:
			tw.Line(depth, "rule")
			if item.Rule.Selectors == nil {
				tw.TextBlock(depth+1, "verbatim", item.Rule.RawSelector)
			}
			for _, sel := range item.Rule.Selectors {
				text, err := StringifySelector(sel)
				if err != nil {
					text = err.Error()
				}
				tw.TextBlock(depth+1, "selector", text)
			}
			dumpItems(tw, depth+1, item.Rule.Items)
		case item.AtRule != nil:
			tw.Line(depth, "%s", item.AtRule.Name)
			if item.AtRule.Prelude != "" {
				tw.TextBlock(depth+1, "prelude", item.AtRule.Prelude)
			}
			if item.AtRule.RawBlock {
				tw.TextBlock(depth+1, "raw", item.AtRule.Raw)
			}
			dumpItems(tw, depth+1, item.AtRule.Items)
		case item.Declaration != nil:
			tw.TextBlock(depth, item.Declaration.Name, item.Declaration.Value)
		case item.Comment != nil:
			tw.TextBlock(depth, "comment", *item.Comment)
		case item.Raw != nil:
			tw.TextBlock(depth, "raw", *item.Raw)
		}
	}
}
