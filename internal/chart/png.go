package chart

import (
	"fmt"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// WritePNG renders lc as a static PNG image.
func WritePNG(w io.Writer, lc LineChart, title string, width, height vg.Length) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Point"
	p.Y.Label.Text = "Level"
	if len(lc.Categories) > 0 {
		p.NominalX(lc.Categories...)
	}

	for i, s := range lc.Series {
		pts := make(plotter.XYs, 0, len(s.Values))
		for x, v := range s.Values {
			if v == nil {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(x), Y: *v})
		}
		if len(pts) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return fmt.Errorf("series %q: %w", s.Name, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(0)
		p.Add(line, points)
		p.Legend.Add(s.Name, line, points)
	}
	p.Legend.Top = true

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
