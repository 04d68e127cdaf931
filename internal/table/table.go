// Package table holds the decoded form of one spreadsheet sheet.
package table

import (
	"math"
	"strconv"
	"strings"
)

// SitesSheet is the reserved sheet holding fixed site locations. It is drawn on
// every map and never charted.
const SitesSheet = "sites"

// IsSites reports whether name is the reserved sites sheet.
func IsSites(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), SitesSheet)
}

// Kind is the type of a Cell.
type Kind uint8

const (
	Empty Kind = iota
	Number
	Text
)

// Cell is a single spreadsheet value.
type Cell struct {
	Kind Kind
	Num  float64
	Str  string
}

// NumberCell returns a numeric cell.
func NumberCell(f float64) Cell { return Cell{Kind: Number, Num: f} }

// TextCell returns a string cell.
func TextCell(s string) Cell { return Cell{Kind: Text, Str: s} }

// ParseCell classifies a raw spreadsheet string. Surrounding whitespace is
// ignored; values that parse as a finite float64 become numbers.
func ParseCell(raw string) Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Cell{}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return NumberCell(f)
	}
	return TextCell(s)
}

// String renders the cell the way it appears on chart axes. Hover lookups
// compare against this form.
func (c Cell) String() string {
	switch c.Kind {
	case Number:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case Text:
		return c.Str
	}
	return ""
}

// Float returns the numeric value of the cell, if it has one.
func (c Cell) Float() (float64, bool) {
	if c.Kind != Number {
		return 0, false
	}
	return c.Num, true
}

// Table is an ordered set of named columns and rows.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

// Sheet is a named Table.
type Sheet struct {
	Name  string
	Table Table
}

// Keys locates the identifier, longitude and latitude columns. A missing
// column is reported as -1.
type Keys struct {
	ID  int
	Lon int
	Lat int
}

var (
	idAliases  = []string{"pointid", "point", "id", "name", "site", "sitename", "pci"}
	lonAliases = []string{"longitude", "lon", "lng", "long", "x"}
	latAliases = []string{"latitude", "lat", "y"}
)

func normalize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '\t':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(name)))
}

func (t *Table) find(aliases []string, skip ...int) int {
	for _, alias := range aliases {
		for i, col := range t.Columns {
			if containsInt(skip, i) {
				continue
			}
			if normalize(col) == alias {
				return i
			}
		}
	}
	return -1
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// Keys resolves the key columns by name. When no identifier alias matches,
// the first column not used for coordinates is the identifier.
func (t *Table) Keys() Keys {
	k := Keys{ID: -1}
	k.Lon = t.find(lonAliases)
	k.Lat = t.find(latAliases, k.Lon)
	k.ID = t.find(idAliases, k.Lon, k.Lat)
	if k.ID == -1 {
		for i := range t.Columns {
			if i != k.Lon && i != k.Lat {
				k.ID = i
				break
			}
		}
	}
	return k
}

// SignalColumns returns the indices of every column that is not a key column,
// in column order.
func (t *Table) SignalColumns() []int {
	k := t.Keys()
	var out []int
	for i := range t.Columns {
		if i == k.ID || i == k.Lon || i == k.Lat {
			continue
		}
		out = append(out, i)
	}
	return out
}

// ColumnIndex returns the index of the named column or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// At returns the cell at row r, column c. Short rows read as empty.
func (t *Table) At(r, c int) Cell {
	if r < 0 || r >= len(t.Rows) || c < 0 || c >= len(t.Rows[r]) {
		return Cell{}
	}
	return t.Rows[r][c]
}

// ID returns the identifier of row r as rendered on the chart axis.
func (t *Table) ID(r int) string {
	return t.At(r, t.Keys().ID).String()
}

// Coords returns the longitude and latitude of row r.
func (t *Table) Coords(r int) (lon, lat float64, ok bool) {
	k := t.Keys()
	lon, okLon := t.At(r, k.Lon).Float()
	lat, okLat := t.At(r, k.Lat).Float()
	return lon, lat, okLon && okLat
}

// Lookup finds the first row whose identifier renders to id.
func (t *Table) Lookup(id string) (int, bool) {
	if id == "" {
		return -1, false
	}
	col := t.Keys().ID
	if col < 0 {
		return -1, false
	}
	for r := range t.Rows {
		if t.At(r, col).String() == id {
			return r, true
		}
	}
	return -1, false
}

// Equal reports value equality including column and row order.
func (t *Table) Equal(o *Table) bool {
	if len(t.Columns) != len(o.Columns) || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != o.Columns[i] {
			return false
		}
	}
	for r := range t.Rows {
		if len(t.Rows[r]) != len(o.Rows[r]) {
			return false
		}
		for c := range t.Rows[r] {
			if t.Rows[r][c] != o.Rows[r][c] {
				return false
			}
		}
	}
	return true
}
