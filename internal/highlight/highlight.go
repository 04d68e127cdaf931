// Package highlight links hovering a point on a sheet's line chart to that
// sheet's map.
package highlight

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"signalmap/internal/chart"
	"signalmap/internal/session"
	"signalmap/internal/table"
)

// Hover is one hover event from a line chart. A nil X clears the hover.
type Hover struct {
	X *string
}

// At returns a hover over the category x.
func At(x string) Hover { return Hover{X: &x} }

// Cleared is the hover-clear event.
var Cleared = Hover{}

// Selection is the per-sheet highlight state. The zero value is Unselected.
type Selection struct {
	Selected bool
	Marker   chart.Marker
}

// Resolve maps a hover onto t. An absent x, an id missing from the table, or
// a matched row without coordinates all leave the sheet Unselected.
func Resolve(t *table.Table, h Hover) Selection {
	if t == nil || h.X == nil {
		return Selection{}
	}
	r, ok := t.Lookup(*h.X)
	if !ok {
		return Selection{}
	}
	lon, lat, ok := t.Coords(r)
	if !ok {
		return Selection{}
	}
	return Selection{Selected: true, Marker: chart.Marker{ID: *h.X, Lon: lon, Lat: lat}}
}

// Render recomputes the map of sheet from its own table, the sites overlay and
// the hover. It returns false when the session has no such sheet.
func Render(sess session.Session, sheet string, h Hover) (chart.MapView, bool) {
	if table.IsSites(sheet) {
		return chart.MapView{}, false
	}
	t, ok := sess.Sheet(sheet)
	if !ok {
		return chart.MapView{}, false
	}
	var selected *chart.Marker
	if sel := Resolve(t, h); sel.Selected {
		selected = &sel.Marker
	}
	return chart.BuildMap(sheet, t, sess.Sites(), selected), true
}

// Batch recomputes the map of every sheet named in hovers. Sheets are
// independent and are computed concurrently; unknown sheets are left out of
// the result.
func Batch(ctx context.Context, sess session.Session, hovers map[string]Hover) (map[string]chart.MapView, error) {
	var (
		mu  sync.Mutex
		out = make(map[string]chart.MapView, len(hovers))
	)
	g, ctx := errgroup.WithContext(ctx)
	for sheet, h := range hovers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			view, ok := Render(sess, sheet, h)
			if !ok {
				return nil
			}
			mu.Lock()
			out[sheet] = view
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Pair wires one sheet's line chart (the hover input) to its map (the
// output). DOM ids are derived from the sheet key.
type Pair struct {
	Sheet  string
	LineID string
	MapID  string
}

var unsafeID = regexp.MustCompile(`[^a-z0-9]+`)

func domKey(sheet string) string {
	key := strings.Trim(unsafeID.ReplaceAllString(strings.ToLower(sheet), "-"), "-")
	if key == "" {
		key = "sheet"
	}
	return key
}

// Pairs lists the hover/map pairs of every chart sheet of sess, in upload
// order. Ids stay unique even when two sheet names slug the same.
func Pairs(sess session.Session) []Pair {
	names := sess.ChartSheets()
	pairs := make([]Pair, 0, len(names))
	used := make(map[string]bool, len(names))
	for _, name := range names {
		base := domKey(name)
		key := base
		for n := 2; used[key]; n++ {
			key = fmt.Sprintf("%s-%d", base, n)
		}
		used[key] = true
		pairs = append(pairs, Pair{Sheet: name, LineID: "line-" + key, MapID: "map-" + key})
	}
	return pairs
}
