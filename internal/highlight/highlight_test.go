package highlight

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalmap/internal/chart"
	"signalmap/internal/session"
	"signalmap/internal/table"
)

func scenario(extra ...table.Sheet) session.Session {
	sheets := []table.Sheet{
		{Name: "ss-rsrp", Table: table.Table{
			Columns: []string{"Point ID", "Longitude", "Latitude", "ss-rsrp"},
			Rows: [][]table.Cell{
				{table.TextCell("P1"), table.NumberCell(10.0), table.NumberCell(50.0), table.NumberCell(-80)},
				{table.TextCell("P2"), table.NumberCell(10.1), table.NumberCell(50.1), table.NumberCell(-85)},
			},
		}},
		{Name: "sites", Table: table.Table{
			Columns: []string{"Site", "Longitude", "Latitude"},
			Rows:    [][]table.Cell{{table.TextCell("SiteA"), table.NumberCell(10.05), table.NumberCell(50.05)}},
		}},
	}
	return session.New("drive-test.xlsx", 0, time.Time{}, append(sheets, extra...))
}

func sinrSheet() table.Sheet {
	return table.Sheet{Name: "ss-sinr", Table: table.Table{
		Columns: []string{"Point ID", "Longitude", "Latitude", "ss-sinr"},
		Rows: [][]table.Cell{
			{table.TextCell("Q1"), table.NumberCell(11.0), table.NumberCell(51.0), table.NumberCell(12)},
			{table.TextCell("P1"), table.NumberCell(11.5), table.NumberCell(51.5), table.NumberCell(3)},
		},
	}}
}

func TestResolve(t *testing.T) {
	tbl, _ := scenario().Sheet("ss-rsrp")

	tests := []struct {
		name  string
		hover Hover
		want  Selection
	}{
		{"present", At("P1"), Selection{Selected: true, Marker: chart.Marker{ID: "P1", Lon: 10.0, Lat: 50.0}}},
		{"absent", At("P3"), Selection{}},
		{"empty x", At(""), Selection{}},
		{"cleared", Cleared, Selection{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tbl, tt.hover))
		})
	}
}

func TestResolveRowWithoutCoords(t *testing.T) {
	tbl := &table.Table{
		Columns: []string{"id", "lon", "lat"},
		Rows:    [][]table.Cell{{table.TextCell("A"), {}, table.NumberCell(2)}},
	}
	assert.False(t, Resolve(tbl, At("A")).Selected)
}

func TestRenderScenario(t *testing.T) {
	sess := scenario()

	base, ok := Render(sess, "ss-rsrp", Cleared)
	require.True(t, ok)
	meas, _ := base.Layer(chart.RoleMeasurement)
	sites, _ := base.Layer(chart.RoleSite)
	assert.Len(t, meas.Markers, 2)
	assert.Len(t, sites.Markers, 1)
	_, hasSel := base.Layer(chart.RoleSelected)
	assert.False(t, hasSel)

	hovered, ok := Render(sess, "ss-rsrp", At("P1"))
	require.True(t, ok)
	sel, ok := hovered.Layer(chart.RoleSelected)
	require.True(t, ok)
	require.Len(t, sel.Markers, 1)
	assert.Equal(t, 10.0, sel.Markers[0].Lon)
	assert.Equal(t, 50.0, sel.Markers[0].Lat)

	missing, ok := Render(sess, "ss-rsrp", At("P3"))
	require.True(t, ok)
	assert.Equal(t, base, missing)
}

func TestRenderUnknownOrSitesSheet(t *testing.T) {
	_, ok := Render(scenario(), "ss-rsrq", At("P1"))
	assert.False(t, ok)
	_, ok = Render(scenario(), "sites", At("SiteA"))
	assert.False(t, ok)
	_, ok = Render(session.Session{}, "ss-rsrp", Cleared)
	assert.False(t, ok)
}

func TestBatchIsolatesSheets(t *testing.T) {
	sess := scenario(sinrSheet())

	views, err := Batch(context.Background(), sess, map[string]Hover{
		"ss-rsrp": At("P1"),
		"ss-sinr": Cleared,
		"nope":    At("P1"),
	})
	require.NoError(t, err)
	require.Len(t, views, 2)

	sel, ok := views["ss-rsrp"].Layer(chart.RoleSelected)
	require.True(t, ok)
	assert.Equal(t, chart.Marker{ID: "P1", Lon: 10.0, Lat: 50.0}, sel.Markers[0])

	// P1 also exists on ss-sinr; hovering it on ss-rsrp must not reach ss-sinr.
	_, ok = views["ss-sinr"].Layer(chart.RoleSelected)
	assert.False(t, ok)
	alone, _ := Render(sess, "ss-sinr", Cleared)
	assert.Equal(t, alone, views["ss-sinr"])
}

func TestBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Batch(ctx, scenario(), map[string]Hover{"ss-rsrp": At("P1")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPairs(t *testing.T) {
	sess := scenario(sinrSheet(), table.Sheet{Name: "SS RSRP", Table: table.Table{Columns: []string{"id"}}}, table.Sheet{Name: "!!"})

	pairs := Pairs(sess)
	require.Len(t, pairs, 4)
	assert.Equal(t, Pair{Sheet: "ss-rsrp", LineID: "line-ss-rsrp", MapID: "map-ss-rsrp"}, pairs[0])
	assert.Equal(t, Pair{Sheet: "ss-sinr", LineID: "line-ss-sinr", MapID: "map-ss-sinr"}, pairs[1])
	assert.Equal(t, "line-ss-rsrp-2", pairs[2].LineID)
	assert.Equal(t, "map-sheet", pairs[3].MapID)
}

func TestPairsUniqueWhenSuffixIsTaken(t *testing.T) {
	sess := session.New("book.xlsx", 0, time.Time{}, []table.Sheet{
		{Name: "a-2"}, {Name: "a"}, {Name: "a!"}, {Name: "A"},
	})

	pairs := Pairs(sess)
	require.Len(t, pairs, 4)
	var lines []string
	for _, p := range pairs {
		lines = append(lines, p.LineID)
	}
	assert.Equal(t, []string{"line-a-2", "line-a", "line-a-3", "line-a-4"}, lines)

	seen := make(map[string]bool)
	for _, p := range pairs {
		assert.False(t, seen[p.LineID], "duplicate id %s", p.LineID)
		assert.False(t, seen[p.MapID], "duplicate id %s", p.MapID)
		seen[p.LineID], seen[p.MapID] = true, true
	}
}
