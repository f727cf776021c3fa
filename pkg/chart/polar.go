/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package chart

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/dburkart/wizard/pkg/dataset"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Polar charts read x as the angle and y as the radius. Numeric angles are
// degrees counter-clockwise from east; categories are spread evenly around
// the circle.

func (f *frame) theta(v dataset.Value) (float64, bool) {
	if f.x.scale == numeric {
		deg, ok := dataset.AsFloat(v)
		return deg * math.Pi / 180, ok
	}
	i, ok := f.xcats.value(v)
	if !ok || len(f.xcats.labels) == 0 {
		return 0, false
	}
	return i * 2 * math.Pi / float64(len(f.xcats.labels)), true
}

type polarPoint struct {
	theta, r float64
}

func (pp polarPoint) xy() plotter.XY {
	return plotter.XY{X: pp.r * math.Cos(pp.theta), Y: pp.r * math.Sin(pp.theta)}
}

func (f *frame) polarPoints(ds *dataset.Dataset, rows []int) []polarPoint {
	xc, _ := ds.Column(f.enc.X)
	yc, _ := ds.Column(f.enc.Y)

	var pts []polarPoint
	for _, row := range rows {
		t, ok := f.theta(xc.Values[row])
		if !ok {
			continue
		}
		r, ok := dataset.AsFloat(yc.Values[row])
		if !ok {
			continue
		}
		pts = append(pts, polarPoint{theta: t, r: math.Abs(r)})
	}
	return pts
}

var gridStyle = draw.LineStyle{Color: color.Gray{Y: 200}, Width: vg.Points(0.5)}

// polarGrid replaces the cartesian axes with rings and angle labels
// sized for radius rmax.
func (f *frame) polarGrid(p *plot.Plot, rmax float64) error {
	p.HideAxes()
	if rmax <= 0 {
		rmax = 1
	}

	for k := 1; k <= 4; k++ {
		r := rmax * float64(k) / 4
		ring := make(plotter.XYs, 73)
		for i := range ring {
			ring[i] = polarPoint{theta: float64(i) * 2 * math.Pi / 72, r: r}.xy()
		}
		l, err := plotter.NewLine(ring)
		if err != nil {
			return err
		}
		l.LineStyle = gridStyle
		p.Add(l)
	}

	var spokes []polarPoint
	var names []string
	if f.x.scale == numeric {
		for deg := 0; deg < 360; deg += 45 {
			spokes = append(spokes, polarPoint{theta: float64(deg) * math.Pi / 180, r: rmax * 1.08})
			names = append(names, fmt.Sprintf("%d°", deg))
		}
	} else {
		n := float64(len(f.xcats.labels))
		for i, l := range f.xcats.labels {
			spokes = append(spokes, polarPoint{theta: float64(i) * 2 * math.Pi / n, r: rmax * 1.08})
			names = append(names, l)
		}
	}

	for _, s := range spokes {
		l, err := plotter.NewLine(plotter.XYs{{}, polarPoint{theta: s.theta, r: rmax}.xy()})
		if err != nil {
			return err
		}
		l.LineStyle = gridStyle
		p.Add(l)
	}

	if len(spokes) > 0 {
		at := make(plotter.XYs, len(spokes))
		for i, s := range spokes {
			at[i] = s.xy()
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: at, Labels: names})
		if err != nil {
			return err
		}
		p.Add(labels)
	}

	lim := rmax * 1.2
	p.X.Min, p.X.Max = -lim, lim
	p.Y.Min, p.Y.Max = -lim, lim

	return nil
}

func maxRadius(groups [][]polarPoint) float64 {
	rmax := 0.0
	for _, g := range groups {
		for _, pp := range g {
			rmax = math.Max(rmax, pp.r)
		}
	}
	return rmax
}

func drawScatterPolar(p *plot.Plot, ds *dataset.Dataset, f *frame) error {
	return f.drawPolar(p, ds, false)
}

func drawLinePolar(p *plot.Plot, ds *dataset.Dataset, f *frame) error {
	return f.drawPolar(p, ds, true)
}

func (f *frame) drawPolar(p *plot.Plot, ds *dataset.Dataset, lines bool) error {
	groups := f.series(ds)
	pts := make([][]polarPoint, len(groups))
	for i, s := range groups {
		pts[i] = f.polarPoints(ds, s.rows)
	}

	if err := f.polarGrid(p, maxRadius(pts)); err != nil {
		return err
	}

	for i, s := range groups {
		if len(pts[i]) == 0 {
			continue
		}

		if lines {
			sort.SliceStable(pts[i], func(a, b int) bool { return pts[i][a].theta < pts[i][b].theta })
		}
		xy := make(plotter.XYs, len(pts[i]))
		for j, pp := range pts[i] {
			xy[j] = pp.xy()
		}

		c := f.palette.color(s.label)
		var thumb plot.Thumbnailer
		if lines {
			l, err := plotter.NewLine(xy)
			if err != nil {
				return err
			}
			l.LineStyle.Color = c
			l.LineStyle.Width = vg.Points(1.5)
			p.Add(l)
			thumb = l
		} else {
			sc, err := plotter.NewScatter(xy)
			if err != nil {
				return err
			}
			sc.GlyphStyle.Color = c
			sc.GlyphStyle.Shape = draw.CircleGlyph{}
			p.Add(sc)
			thumb = sc
		}
		f.addLegend(p, s, thumb)
	}

	return nil
}

// wedge outlines an annular sector centred on theta.
func wedge(theta, width, r0, r1 float64) plotter.XYs {
	const steps = 12
	var ring plotter.XYs
	for i := 0; i <= steps; i++ {
		t := theta - width/2 + width*float64(i)/steps
		ring = append(ring, polarPoint{theta: t, r: r1}.xy())
	}
	for i := steps; i >= 0; i-- {
		t := theta - width/2 + width*float64(i)/steps
		ring = append(ring, polarPoint{theta: t, r: r0}.xy())
	}
	return ring
}

// drawBarPolar sums the radius per angle category and draws one wedge per
// category, stacking colour groups outwards.
func drawBarPolar(p *plot.Plot, ds *dataset.Dataset, f *frame) error {
	n := len(f.xcats.labels)
	if n == 0 {
		return f.polarGrid(p, 0)
	}

	xc, _ := ds.Column(f.enc.X)
	groups := f.series(ds)
	totals := make([][]float64, len(groups))
	for g, s := range groups {
		t, _ := f.categoryTotals(ds, s.rows)
		totals[g] = t
	}

	// Angle of each category, taken from its first row.
	angles := make([]float64, n)
	known := make([]bool, n)
	for _, v := range xc.Values {
		i, ok := f.xcats.value(v)
		if !ok || known[int(i)] {
			continue
		}
		if t, ok := f.theta(v); ok {
			angles[int(i)], known[int(i)] = t, true
		}
	}

	base := make([]float64, n)
	rmax := 0.0
	for _, t := range totals {
		for i, v := range t {
			base[i] += math.Abs(v)
			rmax = math.Max(rmax, base[i])
		}
	}
	if err := f.polarGrid(p, rmax); err != nil {
		return err
	}

	width := 2 * math.Pi / float64(n) * 0.9
	for i := range base {
		base[i] = 0
	}

	for g, s := range groups {
		c := f.palette.color(s.label)
		for i, v := range totals[g] {
			if v == 0 || !known[i] {
				continue
			}
			r0, r1 := base[i], base[i]+math.Abs(v)
			base[i] = r1

			poly, err := plotter.NewPolygon(wedge(angles[i], width, r0, r1))
			if err != nil {
				return err
			}
			poly.Color = c
			poly.LineStyle.Color = color.White
			p.Add(poly)
		}
		f.addLegend(p, s, swatch(c))
	}

	return nil
}
