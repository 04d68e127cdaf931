// Package chart builds the line chart and point map shown for each sheet.
package chart

import "signalmap/internal/table"

// Series is one line of a LineChart. A nil value is a gap.
type Series struct {
	Name   string
	Values []*float64
}

// LineChart plots every signal column of a sheet against the point ids.
type LineChart struct {
	Sheet      string
	Categories []string
	Series     []Series
}

// BuildLine draws one series per signal column. When columns is given only
// those columns are drawn, in that order; names the table lacks are skipped.
func BuildLine(sheet string, t *table.Table, columns ...string) LineChart {
	lc := LineChart{Sheet: sheet}
	if t == nil {
		return lc
	}
	keys := t.Keys()
	lc.Categories = make([]string, len(t.Rows))
	for r := range t.Rows {
		lc.Categories[r] = t.At(r, keys.ID).String()
	}

	var cols []int
	if len(columns) == 0 {
		cols = t.SignalColumns()
	} else {
		for _, name := range columns {
			if i := t.ColumnIndex(name); i >= 0 && i != keys.ID && i != keys.Lon && i != keys.Lat {
				cols = append(cols, i)
			}
		}
	}

	for _, c := range cols {
		s := Series{Name: t.Columns[c], Values: make([]*float64, len(t.Rows))}
		for r := range t.Rows {
			if v, ok := t.At(r, c).Float(); ok {
				v := v
				s.Values[r] = &v
			}
		}
		lc.Series = append(lc.Series, s)
	}
	return lc
}
