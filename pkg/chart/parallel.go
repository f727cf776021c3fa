/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package chart

import (
	"github.com/dburkart/wizard/pkg/dataset"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// dimensions picks the columns of ds accepted by keep, in column order.
func dimensions(ds *dataset.Dataset, keep func(*dataset.Column) bool) []*dataset.Column {
	var dims []*dataset.Column
	for _, c := range ds.Columns() {
		if keep(c) {
			dims = append(dims, c)
		}
	}
	return dims
}

func dimensionTicks(p *plot.Plot, dims []*dataset.Column) error {
	ticks := make([]plot.Tick, len(dims))
	for i, d := range dims {
		ticks[i] = plot.Tick{Value: float64(i), Label: d.Name}

		l, err := plotter.NewLine(plotter.XYs{{X: float64(i), Y: 0}, {X: float64(i), Y: 1}})
		if err != nil {
			return err
		}
		l.LineStyle = gridStyle
		p.Add(l)
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.X.Min, p.X.Max = -0.5, float64(len(dims))-0.5
	p.Y.Min, p.Y.Max = -0.05, 1.05
	p.Y.Tick.Marker = plot.ConstantTicks{}
	return nil
}

// drawParallelCoordinates draws every row as a polyline across the numeric
// columns, each rescaled to its own range.
func drawParallelCoordinates(p *plot.Plot, ds *dataset.Dataset, f *frame) error {
	dims := dimensions(ds, func(c *dataset.Column) bool { return c.Kind.Numeric() })
	if len(dims) == 0 {
		return nil
	}
	if err := dimensionTicks(p, dims); err != nil {
		return err
	}

	lo := make([]float64, len(dims))
	span := make([]float64, len(dims))
	var marks plotter.XYs
	var names []string
	for i, d := range dims {
		var vs []float64
		for _, v := range d.Values {
			if x, ok := dataset.AsFloat(v); ok {
				vs = append(vs, x)
			}
		}
		vmin, vmax := bounds(vs)
		if len(vs) == 0 {
			vmin, vmax = 0, 0
		}
		lo[i], span[i] = vmin, vmax-vmin
		if span[i] == 0 {
			span[i] = 1
		}
		marks = append(marks, plotter.XY{X: float64(i), Y: 0}, plotter.XY{X: float64(i), Y: 1})
		names = append(names, dataset.MakeFloat(vmin).String(), dataset.MakeFloat(vmax).String())
	}

	for _, s := range f.series(ds) {
		c := f.palette.color(s.label)
		var first *plotter.Line

		for _, row := range s.rows {
			pts := make(plotter.XYs, 0, len(dims))
			for i, d := range dims {
				x, ok := dataset.AsFloat(d.Values[row])
				if !ok {
					break
				}
				pts = append(pts, plotter.XY{X: float64(i), Y: (x - lo[i]) / span[i]})
			}
			if len(pts) != len(dims) {
				continue
			}

			l, err := plotter.NewLine(pts)
			if err != nil {
				return err
			}
			l.LineStyle.Color = fade(c, 140)
			l.LineStyle.Width = vg.Points(1)
			p.Add(l)
			if first == nil {
				first = l
			}
		}

		if first != nil {
			f.addLegend(p, s, first)
		}
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: marks, Labels: names})
	if err != nil {
		return err
	}
	p.Add(labels)

	return nil
}

type levels struct {
	names []string
	index map[string]int
}

func (l *levels) position(name string) float64 {
	return (float64(l.index[name]) + 0.5) / float64(len(l.names))
}

// drawParallelCategories draws the flows between the levels of adjacent
// categorical columns. Line width follows the number of rows in a flow.
func drawParallelCategories(p *plot.Plot, ds *dataset.Dataset, f *frame) error {
	dims := dimensions(ds, func(c *dataset.Column) bool {
		return c.Kind == dataset.String || c.Kind == dataset.Boolean
	})
	if len(dims) == 0 {
		return nil
	}
	if err := dimensionTicks(p, dims); err != nil {
		return err
	}

	lv := make([]*levels, len(dims))
	var marks plotter.XYs
	var names []string
	for i, d := range dims {
		lv[i] = &levels{index: map[string]int{}}
		for _, v := range d.Values {
			if dataset.IsNull(v) {
				continue
			}
			if _, ok := lv[i].index[v.String()]; !ok {
				lv[i].index[v.String()] = len(lv[i].names)
				lv[i].names = append(lv[i].names, v.String())
			}
		}
		for _, n := range lv[i].names {
			marks = append(marks, plotter.XY{X: float64(i), Y: lv[i].position(n)})
			names = append(names, n)
		}
	}

	type flow struct {
		from, to string
	}

	for _, s := range f.series(ds) {
		c := f.palette.color(s.label)
		var first *plotter.Line

		for i := 0; i+1 < len(dims); i++ {
			counts := map[flow]int{}
			var order []flow
			most := 0
			for _, row := range s.rows {
				a, b := dims[i].Values[row], dims[i+1].Values[row]
				if dataset.IsNull(a) || dataset.IsNull(b) {
					continue
				}
				fl := flow{a.String(), b.String()}
				if _, ok := counts[fl]; !ok {
					order = append(order, fl)
				}
				counts[fl]++
				if counts[fl] > most {
					most = counts[fl]
				}
			}

			for _, fl := range order {
				l, err := plotter.NewLine(plotter.XYs{
					{X: float64(i), Y: lv[i].position(fl.from)},
					{X: float64(i + 1), Y: lv[i+1].position(fl.to)},
				})
				if err != nil {
					return err
				}
				l.LineStyle.Color = fade(c, 150)
				l.LineStyle.Width = vg.Points(1 + 11*float64(counts[fl])/float64(most))
				p.Add(l)
				if first == nil {
					first = l
				}
			}
		}

		if first != nil {
			f.addLegend(p, s, first)
		}
	}

	if len(marks) > 0 {
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: marks, Labels: names})
		if err != nil {
			return err
		}
		p.Add(labels)
	}

	return nil
}
