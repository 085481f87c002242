package postgres

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrNothingToUpdate = errors.New("nothing to update")

// Field is a tri-state update value: never added to the map (omitted),
// added as FieldNull (overwrite with NULL), or added as FieldValue.
// Omitted and explicit null are different things: omitted leaves the
// stored value alone.
type Field struct {
	present bool
	value   any
}

func FieldValue(v any) Field {
	return Field{present: true, value: v}
}

func FieldNull() Field {
	return Field{present: true}
}

// PartialUpdate maps external (camelCase) field names to the values the
// caller actually supplied.
type PartialUpdate map[string]Field

// SQLFields translates external names to column names and drops fields
// the caller never set. The second return reports whether anything
// survived the filtering.
func (p PartialUpdate) SQLFields() (map[string]any, bool) {
	out := make(map[string]any, len(p))

	for name, f := range p {
		if !f.present {
			continue
		}
		out[toSnakeCase(name)] = f.value
	}

	return out, len(out) > 0
}

// SetClause renders the SET body of an UPDATE with positional args
// starting at startPos. Columns are sorted so the statement text is
// stable for a given field set.
func (p PartialUpdate) SetClause(startPos int) (string, []any, error) {
	fields, ok := p.SQLFields()

	if !ok {
		return "", nil, ErrNothingToUpdate
	}

	cols := make([]string, 0, len(fields))

	for col := range fields {
		cols = append(cols, col)
	}

	sort.Strings(cols)

	parts := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))

	for i, col := range cols {
		parts = append(parts, fmt.Sprintf("%s = $%d", col, startPos+i))
		args = append(args, fields[col])
	}

	return strings.Join(parts, ", "), args, nil
}

func toSnakeCase(name string) string {
	var b strings.Builder

	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
			b.WriteByte(byte(r) - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}
