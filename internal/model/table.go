package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// SymbolColumn is the join key shared by every snapshot table.
const SymbolColumn = "SEMBOL"

var (
	ErrMissingColumn = errors.New("column not found")
	ErrNullValue     = errors.New("null value")
	ErrMalformed     = errors.New("malformed number")
)

var nullTokens = map[string]bool{
	"":     true,
	"nan":  true,
	"NaN":  true,
	"NAN":  true,
	"null": true,
	"NULL": true,
	"NA":   true,
	"N/A":  true,
	"#N/A": true,
	"None": true,
	"<NA>": true,
	"-":    true,
}

// Table is a symbol-keyed snapshot table. Duplicate header names are
// disambiguated as NAME, NAME.1, NAME.2 so that repeated broker columns
// stay addressable.
type Table struct {
	Name   string
	Header []string
	rows   [][]string
	cols   map[string]int
	bySym  map[string]int
}

// NewTable builds a table from a raw header and records. Short records are
// padded, long records are truncated to the header width.
func NewTable(name string, header []string, records [][]string) (*Table, error) {
	t := &Table{
		Name:   name,
		Header: dedupeHeader(header),
		cols:   make(map[string]int, len(header)),
		bySym:  make(map[string]int, len(records)),
	}
	for i, h := range t.Header {
		t.cols[h] = i
	}
	symIdx, ok := t.cols[SymbolColumn]
	if !ok {
		return nil, fmt.Errorf("table %s: %s: %w", name, SymbolColumn, ErrMissingColumn)
	}

	t.rows = make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(t.Header))
		copy(row, rec)
		sym := strings.TrimSpace(row[symIdx])
		if sym == "" {
			continue
		}
		row[symIdx] = sym
		if _, dup := t.bySym[sym]; !dup {
			t.bySym[sym] = len(t.rows)
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func dedupeHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	taken := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		name := h
		for taken[name] {
			seen[h]++
			name = fmt.Sprintf("%s.%d", h, seen[h])
		}
		taken[name] = true
		out[i] = name
	}
	return out
}

// Len returns the number of symbol rows.
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether the column exists.
func (t *Table) Has(col string) bool {
	_, ok := t.cols[col]
	return ok
}

// Row returns the i-th row in file order.
func (t *Table) Row(i int) Row { return Row{t: t, idx: i} }

// Lookup returns the first row for symbol.
func (t *Table) Lookup(symbol string) (Row, bool) {
	if t == nil {
		return Row{}, false
	}
	i, ok := t.bySym[symbol]
	if !ok {
		return Row{}, false
	}
	return Row{t: t, idx: i}, true
}

// Row is a view over one table record. The zero Row behaves like a record
// whose columns are all absent, which is what a left join needs.
type Row struct {
	t   *Table
	idx int
}

// Valid reports whether the row is backed by a table.
func (r Row) Valid() bool { return r.t != nil }

func (r Row) Symbol() string {
	s, _ := r.String(SymbolColumn)
	return s
}

// String returns the trimmed raw cell.
func (r Row) String(col string) (string, bool) {
	if r.t == nil {
		return "", false
	}
	i, ok := r.t.cols[col]
	if !ok {
		return "", false
	}
	return strings.TrimSpace(r.t.rows[r.idx][i]), true
}

// Float parses a numeric cell. It distinguishes an absent column
// (ErrMissingColumn), an empty cell (ErrNullValue) and a cell that is not a
// number (ErrMalformed).
func (r Row) Float(col string) (float64, error) {
	s, ok := r.String(col)
	if !ok {
		return 0, fmt.Errorf("%s: %w", col, ErrMissingColumn)
	}
	if nullTokens[s] {
		return 0, fmt.Errorf("%s: %w", col, ErrNullValue)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", col, s, ErrMalformed)
	}
	return v, nil
}

// Decimal is Float for depth cells, kept exact.
func (r Row) Decimal(col string) (decimal.Decimal, error) {
	s, ok := r.String(col)
	if !ok {
		return decimal.Zero, fmt.Errorf("%s: %w", col, ErrMissingColumn)
	}
	if nullTokens[s] {
		return decimal.Zero, fmt.Errorf("%s: %w", col, ErrNullValue)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s=%q: %w", col, s, ErrMalformed)
	}
	return d, nil
}
