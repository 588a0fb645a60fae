package renamer

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/multierr"

	"cssmangle/common"
	"cssmangle/css"
)

//go:embed tables.schema.json
var tablesSchema []byte

// Table maps escaped original names to escaped replacements.
type Table map[string]string

// ConversionTables is persisted state of renaming. Selector table keys are
// escaped canonical selector text (`\.name`, `\#name`), values are escaped
// selector text. Ident table keys are escaped custom property names without
// leading "--", values are escaped replacement names.
type ConversionTables struct {
	Selector Table `json:"selector"`
	Ident    Table `json:"ident"`
}

// NewConversionTables returns empty tables.
func NewConversionTables() *ConversionTables {
	return &ConversionTables{Selector: Table{}, Ident: Table{}}
}

// Table returns table of requested kind.
func (t *ConversionTables) Table(kind common.TableKind) Table {
	if kind == common.TableKindIdent {
		return t.Ident
	}
	return t.Selector
}

// Clone returns deep copy of tables with missing tables replaced by empty ones.
func (t *ConversionTables) Clone() *ConversionTables {
	out := NewConversionTables()
	if t == nil {
		return out
	}
	maps.Copy(out.Selector, t.Selector)
	maps.Copy(out.Ident, t.Ident)
	return out
}

// Len returns total number of entries.
func (t *ConversionTables) Len() int {
	return len(t.Selector) + len(t.Ident)
}

// TableError describes conversion tables which could not be used.
type TableError struct {
	Source string
	Err    error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("bad conversion tables %s: %v", e.Source, e.Err)
}

func (e *TableError) Unwrap() error {
	return e.Err
}

// ReadTables decodes and validates conversion tables. Source names data in
// errors.
func ReadTables(r io.Reader, source string) (*ConversionTables, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &TableError{Source: source, Err: err}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(tablesSchema),
		gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &TableError{Source: source, Err: err}
	}
	if !result.Valid() {
		var errs error
		for _, verr := range result.Errors() {
			errs = multierr.Append(errs, fmt.Errorf("%s: %s", verr.Field(), verr.Description()))
		}
		return nil, &TableError{Source: source, Err: errs}
	}

	tables := NewConversionTables()
	if err := json.Unmarshal(data, tables); err != nil {
		return nil, &TableError{Source: source, Err: err}
	}
	if err := tables.Validate(); err != nil {
		return nil, &TableError{Source: source, Err: err}
	}
	return tables, nil
}

// LoadTables reads conversion tables from file.
func LoadTables(path string) (*ConversionTables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &TableError{Source: path, Err: err}
	}
	defer f.Close()
	return ReadTables(f, path)
}

// Validate checks table entries. Selector keys must denote a single class or
// id selector: only atoms are replaced, never combinations. Selector values
// must parse as selector list. Ident values must be plain identifiers.
func (t *ConversionTables) Validate() error {
	var errs error
	for key, value := range t.Selector {
		list, err := css.ParseSelectorList(css.Unescape(key))
		if err != nil || len(list) != 1 || len(list[0]) != 1 || !isRenameable(list[0][0]) {
			errs = multierr.Append(errs, fmt.Errorf("selector key %q must be a single class or id selector", key))
		}
		if _, err := css.ParseSelectorList(css.Unescape(value)); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("selector value %q for key %q: %w", value, key, err))
		}
	}
	for key, value := range t.Ident {
		if strings.HasPrefix(key, "--") {
			errs = multierr.Append(errs, fmt.Errorf("ident key %q must not include leading dashes", key))
		}
		if css.Escape(css.Unescape(value)) != value {
			errs = multierr.Append(errs, fmt.Errorf("ident value %q for key %q is not an escaped identifier", value, key))
		}
	}
	return errs
}

func isRenameable(c css.Component) bool {
	switch c.(type) {
	case css.ClassSelector, css.IDSelector:
		return true
	}
	return false
}

// WriteTo writes tables as indented JSON, implementing io.WriterTo.
func (t *ConversionTables) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t.Clone()); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

// SaveTables writes tables to file replacing it.
func SaveTables(path string, t *ConversionTables) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create tables file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if _, err = t.WriteTo(f); err != nil {
		return fmt.Errorf("unable to write tables file: %w", err)
	}
	return nil
}

// ErrNoTables is returned by LoadTablesIfExists along with empty tables when
// file does not exist.
var ErrNoTables = errors.New("conversion tables file does not exist")

// LoadTablesIfExists returns empty tables when file does not exist.
func LoadTablesIfExists(path string) (*ConversionTables, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return NewConversionTables(), ErrNoTables
	}
	return LoadTables(path)
}
