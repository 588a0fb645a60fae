// Enums shared by configuration, command line and renaming engine live in
// their own package so the engine does not depend on program configuration.
package common

// Specification of requested renaming strategy.
// ENUM(hash, minimal, debug)
type RenameMode int

// Specification of conversion table.
// ENUM(selector, ident)
type TableKind int

// Key returns name of the table in persisted JSON.
func (k TableKind) Key() string {
	return k.String()
}
