/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package chart

import (
	"image/color"
	"math"
	"sort"

	"github.com/dburkart/wizard/pkg/dataset"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

func xys(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	return pts
}

// sortedXYs orders points by x, keeping the original order for ties.
func sortedXYs(xs, ys []float64) plotter.XYs {
	pts := xys(xs, ys)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
	return pts
}

func fade(c color.Color, alpha uint8) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = alpha
	return n
}

func (f *frame) addLegend(p *plot.Plot, s series, thumb plot.Thumbnailer) {
	if f.legend && s.label != "" {
		p.Legend.Add(s.label, thumb)
	}
}

// swatch is a legend entry for plotters that have no thumbnail of their own.
func swatch(c color.Color) plot.Thumbnailer {
	s, _ := plotter.NewScatter(plotter.XYs{})
	s.GlyphStyle.Color = c
	s.GlyphStyle.Shape = draw.BoxGlyph{}
	return s
}

func drawScatter(p *plot.Plot, ds *dataset.Dataset, f *frame) error {
	f.x.decorate(&p.X)
	f.y.decorate(&p.Y)

	for _, s := range f.series(ds) {
		xs, ys := f.points(ds, s.rows)
		if len(xs) == 0 {
			continue
		}

		sc, err := plotter.NewScatter(xys(xs, ys))
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = f.palette.color(s.label)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}

		p.Add(sc)
		f.addLegend(p, s, sc)
	}

	return nil
}

func drawLine(p *plot.Plot, ds *dataset.Dataset, f *frame) error {
	f.x.decorate(&p.X)
	f.y.decorate(&p.Y)

	for _, s := range f.series(ds) {
		xs, ys := f.points(ds, s.rows)
		if len(xs) == 0 {
			continue
		}

		l, err := plotter.NewLine(sortedXYs(xs, ys))
		if err != nil {
			return err
		}
		l.LineStyle.Color = f.palette.color(s.label)
		l.LineStyle.Width = vg.Points(1.5)

		p.Add(l)
		f.addLegend(p, s, l)
	}

	return nil
}

// drawArea stacks one filled line per colour group. Groups are stacked in
// order, so each layer starts where the previous one left off at the same x.
func drawArea(p *plot.Plot, ds *dataset.Dataset, f *frame) error {
	f.x.decorate(&p.X)
	p.Y.Label.Text = f.enc.Y

	base := map[float64]float64{}
	var layers []*plotter.Line
	var groups []series

	for _, s := range f.series(ds) {
		xs, ys := f.points(ds, s.rows)
		if len(xs) == 0 {
			continue
		}

		pts := sortedXYs(xs, ys)
		for i := range pts {
			pts[i].Y += base[pts[i].X]
		}
		for _, pt := range pts {
			base[pt.X] = pt.Y
		}

		l, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		c := f.palette.color(s.label)
		l.LineStyle.Color = c
		l.FillColor = fade(c, 160)

		layers = append(layers, l)
		groups = append(groups, s)
	}

	// Top layers first so the lower ones stay visible.
	for i := len(layers) - 1; i >= 0; i-- {
		p.Add(layers[i])
	}
	for i, l := range layers {
		f.addLegend(p, groups[i], l)
	}

	return nil
}

// categoryTotals sums the numeric y of the given rows per x category.
func (f *frame) categoryTotals(ds *dataset.Dataset, rows []int) (plotter.Values, bool) {
	xc, _ := ds.Column(f.enc.X)
	yc, _ := ds.Column(f.enc.Y)

	totals := make(plotter.Values, len(f.xcats.labels))
	found := false
	for _, r := range rows {
		x, ok := f.xcats.value(xc.Values[r])
		if !ok {
			continue
		}
		y, ok := dataset.AsFloat(yc.Values[r])
		if !ok {
			continue
		}
		totals[int(x)] += y
		found = true
	}
	return totals, found
}

func barWidth(n int) vg.Length {
	if n == 0 {
		return vg.Points(20)
	}
	return vg.Points(math.Max(4, math.Min(40, 500/float64(n))))
}

// drawBar draws one bar per x category, summing y. Colour groups are
// stacked on top of each other.
func drawBar(p *plot.Plot, ds *dataset.Dataset, f *frame) error {
	f.xcats.decorate(&p.X)
	p.Y.Label.Text = f.enc.Y

	if len(f.xcats.labels) == 0 {
		return nil
	}

	var below *plotter.BarChart
	for _, s := range f.series(ds) {
		totals, ok := f.categoryTotals(ds, s.rows)
		if !ok {
			continue
		}

		b, err := plotter.NewBarChart(totals, barWidth(len(totals)))
		if err != nil {
			return err
		}
		c := f.palette.color(s.label)
		b.Color = c
		b.LineStyle.Width = 0
		if below != nil {
			b.StackOn(below)
		}
		below = b

		p.Add(b)
		f.addLegend(p, s, b)
	}

	return nil
}

func bins(n int) int {
	b := int(math.Ceil(math.Sqrt(float64(n))))
	switch {
	case b < 1:
		return 1
	case b > 50:
		return 50
	}
	return b
}

// drawHistogram bins x and sums y in each bin, or counts rows when y is
// not numeric. Categorical x falls back to one bar per category.
func drawHistogram(p *plot.Plot, ds *dataset.Dataset, f *frame) error {
	if f.x.scale == nominal {
		return drawBar(p, ds, f)
	}

	f.x.decorate(&p.X)
	p.Y.Label.Text = "sum of " + f.enc.Y

	xc, _ := ds.Column(f.enc.X)
	yc, _ := ds.Column(f.enc.Y)

	for _, s := range f.series(ds) {
		var pts plotter.XYs
		for _, r := range s.rows {
			x, ok := f.x.value(xc.Values[r])
			if !ok {
				continue
			}
			w, ok := dataset.AsFloat(yc.Values[r])
			if !ok {
				w = 1
			}
			pts = append(pts, plotter.XY{X: x, Y: w})
		}
		if len(pts) == 0 {
			continue
		}

		h, err := plotter.NewHistogram(pts, bins(len(pts)))
		if err != nil {
			return err
		}
		c := f.palette.color(s.label)
		h.FillColor = fade(c, 180)
		h.LineStyle.Color = c

		p.Add(h)
		f.addLegend(p, s, h)
	}

	return nil
}

// drawBox draws one box of y per x category, with colour groups side by
// side within a category.
func drawBox(p *plot.Plot, ds *dataset.Dataset, f *frame) error {
	f.xcats.decorate(&p.X)
	p.Y.Label.Text = f.enc.Y

	xc, _ := ds.Column(f.enc.X)
	yc, _ := ds.Column(f.enc.Y)

	groups := f.series(ds)
	n := float64(len(groups))
	width := vg.Points(math.Max(4, 30/math.Max(n, 1)))

	for g, s := range groups {
		byCat := make([]plotter.Values, len(f.xcats.labels))
		for _, r := range s.rows {
			x, ok := f.xcats.value(xc.Values[r])
			if !ok {
				continue
			}
			y, ok := dataset.AsFloat(yc.Values[r])
			if !ok {
				continue
			}
			byCat[int(x)] = append(byCat[int(x)], y)
		}

		c := f.palette.color(s.label)
		offset := (float64(g) - (n-1)/2) * (0.8 / n)
		drawn := false

		for i, vals := range byCat {
			if len(vals) == 0 {
				continue
			}
			b, err := plotter.NewBoxPlot(width, float64(i)+offset, vals)
			if err != nil {
				return err
			}
			b.BoxStyle.Color = c
			b.MedianStyle.Color = c
			b.WhiskerStyle.Color = c
			b.GlyphStyle.Color = c
			p.Add(b)
			drawn = true
		}

		if drawn {
			f.addLegend(p, s, swatch(c))
		}
	}

	return nil
}

// jitter spreads the points of a strip chart sideways within their
// category. It is derived from the row number so output is reproducible.
func jitter(row int) float64 {
	return (float64((row*7919)%101)/100 - 0.5) * 0.6
}

func drawStrip(p *plot.Plot, ds *dataset.Dataset, f *frame) error {
	f.xcats.decorate(&p.X)
	f.y.decorate(&p.Y)

	xc, _ := ds.Column(f.enc.X)
	yc, _ := ds.Column(f.enc.Y)

	for _, s := range f.series(ds) {
		var pts plotter.XYs
		for _, r := range s.rows {
			x, ok := f.xcats.value(xc.Values[r])
			if !ok {
				continue
			}
			y, ok := f.y.value(yc.Values[r])
			if !ok {
				continue
			}
			pts = append(pts, plotter.XY{X: x + jitter(r), Y: y})
		}
		if len(pts) == 0 {
			continue
		}

		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = f.palette.color(s.label)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}

		p.Add(sc)
		f.addLegend(p, s, sc)
	}

	return nil
}
