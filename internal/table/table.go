// Package table is the column-oriented exchange format between upstream
// fetchers and the ranking engines. Column names are whatever the upstream
// calls them; consumers negotiate a Schema against them instead of indexing
// by literal names.
package table

import (
	"math"
	"strconv"
	"strings"
)

// Record is one row keyed by physical column name.
// Values are float64, int64, string or nil.
type Record map[string]any

// Table is an ordered set of records sharing one column list
type Table struct {
	Columns []string
	Records []Record
}

// New creates an empty table with the given columns
func New(columns ...string) *Table {
	return &Table{Columns: columns}
}

// Append adds a record. Keys not in Columns are kept but not listed.
func (t *Table) Append(rec Record) {
	t.Records = append(t.Records, rec)
}

// Len returns the number of records; nil tables are empty
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Empty reports whether the table has no records
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// HasColumn reports whether a physical column exists
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Float reads a numeric cell. Strings are parsed leniently ("1,234", "5.2%").
func (r Record) Float(col string) (float64, bool) {
	switch v := r[col].(type) {
	case float64:
		if math.IsNaN(v) {
			return 0, false
		}
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		return parseNumber(v)
	default:
		return 0, false
	}
}

// Int reads an integer cell, truncating floats
func (r Record) Int(col string) (int64, bool) {
	switch v := r[col].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	default:
		f, ok := r.Float(col)
		if !ok {
			return 0, false
		}
		return int64(f), true
	}
}

// String reads a cell as text
func (r Record) String(col string) (string, bool) {
	switch v := r[col].(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case int:
		return strconv.Itoa(v), true
	default:
		return "", false
	}
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
