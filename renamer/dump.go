package renamer

import (
	"cssmangle/common"
	"cssmangle/utils/debug"
)

// Dump returns human readable representation of conversion tables with keys
// in natural order.
func (t *ConversionTables) Dump() string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "conversion tables entries=%d", t.Len())
	for _, kind := range []common.TableKind{common.TableKindSelector, common.TableKindIdent} {
		tw.Mapping(1, kind.Key(), t.Table(kind))
	}
	return tw.String()
}
