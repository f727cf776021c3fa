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
	"gonum.org/v1/plot/vg/draw"
)

// renderScatterMatrix draws every pair of numeric columns against each
// other in a square grid. Facets do not apply.
func renderScatterMatrix(ds *dataset.Dataset, enc Encoding, size Size) ([]byte, error) {
	dims := dimensions(ds, func(c *dataset.Column) bool { return c.Kind.Numeric() })
	if len(dims) == 0 {
		return writeSVG([][]*plot.Plot{{plot.New()}}, size)
	}

	f := &frame{enc: enc}
	if enc.Color != "" {
		var err error
		if f.groups, err = labels(ds, enc.Color); err != nil {
			return nil, err
		}
	}
	f.palette = newPalette(f.groups)
	groups := f.series(ds)

	n := len(dims)
	plots := make([][]*plot.Plot, n)
	for i := range plots {
		plots[i] = make([]*plot.Plot, n)
		for j := range plots[i] {
			p := plot.New()
			p.X.Tick.Label.Font.Size = vg.Points(7)
			p.Y.Tick.Label.Font.Size = vg.Points(7)
			if i == n-1 {
				p.X.Label.Text = dims[j].Name
			}
			if j == 0 {
				p.Y.Label.Text = dims[i].Name
			}
			f.legend = i == 0 && j == n-1

			for _, s := range groups {
				var pts plotter.XYs
				for _, row := range s.rows {
					x, ok := dataset.AsFloat(dims[j].Values[row])
					if !ok {
						continue
					}
					y, ok := dataset.AsFloat(dims[i].Values[row])
					if !ok {
						continue
					}
					pts = append(pts, plotter.XY{X: x, Y: y})
				}
				if len(pts) == 0 {
					continue
				}

				sc, err := plotter.NewScatter(pts)
				if err != nil {
					return nil, err
				}
				sc.GlyphStyle.Color = f.palette.color(s.label)
				sc.GlyphStyle.Shape = draw.CircleGlyph{}
				sc.GlyphStyle.Radius = vg.Points(1.5)
				p.Add(sc)
				f.addLegend(p, s, sc)
			}

			plots[i][j] = p
		}
	}

	return writeSVG(plots, size)
}
