package table

import (
	"sort"
	"strings"
)

// Field is a logical column the engines depend on
type Field string

// Schema maps each logical field to acceptable column-name tokens, in
// priority order. A column matches a token when its name equals the token
// or contains it.
type Schema map[Field][]string

// Binding is a resolved Schema: logical field → physical column
type Binding map[Field]string

// Resolve binds every field of the schema against the table's columns.
// Exact matches win over substring matches; among substring matches the
// first token in priority order, then the first column in table order wins.
// Unresolvable fields are simply absent from the binding.
func (s Schema) Resolve(t *Table) Binding {
	b := make(Binding, len(s))
	if t == nil {
		return b
	}

	for field, tokens := range s {
		if col, ok := resolveField(t.Columns, tokens); ok {
			b[field] = col
		}
	}
	return b
}

func resolveField(columns, tokens []string) (string, bool) {
	for _, token := range tokens {
		for _, col := range columns {
			if col == token {
				return col, true
			}
		}
	}
	for _, token := range tokens {
		for _, col := range columns {
			if strings.Contains(col, token) {
				return col, true
			}
		}
	}
	return "", false
}

// Has reports whether the field was bound
func (b Binding) Has(f Field) bool {
	_, ok := b[f]
	return ok
}

// Missing lists the schema fields that did not bind
func (b Binding) Missing(s Schema) []Field {
	var out []Field
	for f := range s {
		if !b.Has(f) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Float reads a bound numeric field from a record
func (b Binding) Float(r Record, f Field) (float64, bool) {
	col, ok := b[f]
	if !ok {
		return 0, false
	}
	return r.Float(col)
}

// Int reads a bound integer field from a record
func (b Binding) Int(r Record, f Field) (int64, bool) {
	col, ok := b[f]
	if !ok {
		return 0, false
	}
	return r.Int(col)
}

// String reads a bound text field from a record
func (b Binding) String(r Record, f Field) (string, bool) {
	col, ok := b[f]
	if !ok {
		return "", false
	}
	return r.String(col)
}
