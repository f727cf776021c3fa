/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package chart

import (
	"math"

	"github.com/dburkart/wizard/pkg/dataset"
	"gonum.org/v1/plot"
	gpalette "gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const densityBins = 20

// densityGrid counts points in a regular grid of cells. It satisfies
// plotter.GridXYZ with cell centres as coordinates.
type densityGrid struct {
	cols, rows int
	x0, dx     float64
	y0, dy     float64
	counts     []float64
}

func newDensityGrid(xs, ys []float64, n int) *densityGrid {
	xmin, xmax := bounds(xs)
	ymin, ymax := bounds(ys)

	g := &densityGrid{cols: n, rows: n, x0: xmin, y0: ymin}
	g.dx = (xmax - xmin) / float64(n)
	g.dy = (ymax - ymin) / float64(n)
	if g.dx == 0 {
		g.dx = 1
	}
	if g.dy == 0 {
		g.dy = 1
	}
	g.counts = make([]float64, n*n)

	for i := range xs {
		c := g.cell(xs[i], g.x0, g.dx)
		r := g.cell(ys[i], g.y0, g.dy)
		g.counts[r*g.cols+c]++
	}

	return g
}

func (g *densityGrid) cell(v, origin, width float64) int {
	i := int((v - origin) / width)
	if i >= g.cols {
		i = g.cols - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (g *densityGrid) Dims() (c, r int)   { return g.cols, g.rows }
func (g *densityGrid) Z(c, r int) float64 { return g.counts[r*g.cols+c] }
func (g *densityGrid) X(c int) float64    { return g.x0 + (float64(c)+0.5)*g.dx }
func (g *densityGrid) Y(r int) float64    { return g.y0 + (float64(r)+0.5)*g.dy }

func (g *densityGrid) Min() float64 {
	lo, _ := bounds(g.counts)
	return lo
}

func (g *densityGrid) Max() float64 {
	_, hi := bounds(g.counts)
	return hi
}

func bounds(vs []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range vs {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// densityPoints collects every placeable point of the panel, ignoring
// colour groups.
func (f *frame) densityPoints(ds *dataset.Dataset) (xs, ys []float64) {
	rows := make([]int, ds.NumRows())
	for i := range rows {
		rows[i] = i
	}
	return f.points(ds, rows)
}

func drawDensityHeatmap(p *plot.Plot, ds *dataset.Dataset, f *frame) error {
	f.x.decorate(&p.X)
	f.y.decorate(&p.Y)

	xs, ys := f.densityPoints(ds)
	if len(xs) == 0 {
		return nil
	}

	g := newDensityGrid(xs, ys, densityBins)
	h := plotter.NewHeatMap(g, gpalette.Heat(12, 1))
	p.Add(h)

	return nil
}

// drawDensityContour draws iso-lines of the point density, one colour per
// colour group.
func drawDensityContour(p *plot.Plot, ds *dataset.Dataset, f *frame) error {
	f.x.decorate(&p.X)
	f.y.decorate(&p.Y)

	for _, s := range f.series(ds) {
		xs, ys := f.points(ds, s.rows)
		if len(xs) < 2 {
			continue
		}

		g := newDensityGrid(xs, ys, densityBins)
		lo, hi := g.Min(), g.Max()
		if hi <= lo {
			continue
		}

		levels := make([]float64, 5)
		for i := range levels {
			levels[i] = lo + (hi-lo)*float64(i+1)/float64(len(levels)+1)
		}

		c := plotter.NewContour(g, levels, nil)
		style := plotter.DefaultLineStyle
		style.Color = f.palette.color(s.label)
		style.Width = vg.Points(1)
		c.LineStyles = []draw.LineStyle{style}

		p.Add(c)
		f.addLegend(p, s, swatch(style.Color))
	}

	return nil
}
