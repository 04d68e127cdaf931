package chart

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// AssetsHost serves the echarts runtime referenced by the dashboard page.
const AssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

// Renderable is a go-echarts chart that can be turned into an option object.
type Renderable interface {
	Validate()
	JSON() map[string]interface{}
}

// Options returns the object passed to echarts' setOption in the browser.
func Options(c Renderable) map[string]interface{} {
	c.Validate()
	return c.JSON()
}

// LineOptions renders lc with a shared axis tooltip and one legend entry per
// series.
func LineOptions(lc LineChart, title string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "360px", AssetsHost: AssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "Point"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Level"}),
	)
	line.SetXAxis(lc.Categories)
	for _, s := range lc.Series {
		data := make([]opts.LineData, len(s.Values))
		for i, v := range s.Values {
			if v == nil {
				// echarts draws "-" as a gap
				data[i] = opts.LineData{Value: "-"}
				continue
			}
			data[i] = opts.LineData{Value: *v}
		}
		line.AddSeries(s.Name, data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))
	}
	return line
}

var layerNames = map[Role]string{
	RoleMeasurement: "Measurement points",
	RoleSite:        "Sites",
	RoleSelected:    "Selected point",
}

func layerSeriesOpts(role Role) []charts.SeriesOpts {
	switch role {
	case RoleSite:
		return []charts.SeriesOpts{
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#1f3b73"}),
		}
	case RoleSelected:
		return []charts.SeriesOpts{
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 14}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "red"}),
		}
	}
	return []charts.SeriesOpts{
		charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#9e9e9e"}),
	}
}

// MapOptions renders m as a scatter over longitude/latitude value axes, one
// series per layer.
func MapOptions(m MapView) *charts.Scatter {
	b := m.Bounds()
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "420px", AssetsHost: AssetsHost}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item", Formatter: "{b}"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Longitude", Min: b.MinLon, Max: b.MaxLon, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Latitude", Min: b.MinLat, Max: b.MaxLat, NameLocation: "middle", NameGap: 40}),
	)
	for _, l := range m.Layers {
		data := make([]opts.ScatterData, len(l.Markers))
		for i, mk := range l.Markers {
			data[i] = opts.ScatterData{Name: mk.ID, Value: []interface{}{mk.Lon, mk.Lat}}
			if l.Role == RoleSite {
				data[i].Symbol = "rect"
			}
		}
		sc.AddSeries(layerNames[l.Role], data, layerSeriesOpts(l.Role)...)
	}
	return sc
}
