package renamer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"cssmangle/common"
	"cssmangle/css"
)

// renameIdent renames dashed identifier using ident table. Custom
// properties are never expanded, stored value is used as is.
func renameIdent(namer *Namer, log *zap.Logger, ident string) (string, error) {
	name, ok := strings.CutPrefix(ident, "--")
	if !ok {
		return "", fmt.Errorf("not a dashed identifier %q", ident)
	}
	name = css.Unescape(name)

	stored, created, err := namer.Name(common.TableKindIdent, Request{Key: name, Value: name})
	if err != nil {
		return "", err
	}
	if created {
		log.Debug("New identifier", zap.String("from", ident), zap.String("to", "--"+stored))
	}
	return "--" + stored, nil
}
