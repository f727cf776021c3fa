/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package chart

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dburkart/wizard/pkg/dataset"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Figure is a rendered chart.
type Figure struct {
	Request Request
	Size    Size
	SVG     []byte
}

// Empty reports whether nothing was drawn, which happens when the
// request is not ready.
func (f *Figure) Empty() bool {
	return len(f.SVG) == 0
}

// A renderer draws one chart kind as SVG.
type renderer func(ds *dataset.Dataset, enc Encoding, size Size) ([]byte, error)

var renderers = map[Kind]renderer{
	Area:                faceted(drawArea),
	Bar:                 faceted(drawBar),
	BarPolar:            faceted(drawBarPolar),
	Box:                 faceted(drawBox),
	DensityContour:      faceted(drawDensityContour),
	DensityHeatmap:      faceted(drawDensityHeatmap),
	Histogram:           faceted(drawHistogram),
	Line:                faceted(drawLine),
	LinePolar:           faceted(drawLinePolar),
	ParallelCategories:  faceted(drawParallelCategories),
	ParallelCoordinates: faceted(drawParallelCoordinates),
	Pie:                 renderPie,
	Scatter:             faceted(drawScatter),
	ScatterMatrix:       renderScatterMatrix,
	ScatterPolar:        faceted(drawScatterPolar),
	Strip:               faceted(drawStrip),
}

// Render draws ds according to req. A request that is not ready yields
// an empty figure and no error.
func Render(ds *dataset.Dataset, req Request) (*Figure, error) {
	fig := &Figure{Request: req, Size: req.Size()}
	if !req.Ready() {
		return fig, nil
	}

	render, ok := renderers[req.Kind]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKind, "%q", req.Kind)
	}

	enc := req.Encoding()
	for _, name := range enc.columns() {
		if _, err := ds.Column(name); err != nil {
			return nil, err
		}
	}

	svg, err := render(ds, enc, fig.Size)
	if err != nil {
		return nil, errors.Wrapf(err, "rendering %s", req.Kind)
	}
	fig.SVG = svg

	return fig, nil
}

// frame carries what every facet panel of one figure shares: the axes
// are computed over the whole dataset so panels line up.
type frame struct {
	enc     Encoding
	x, y    *axis
	xcats   *axis
	groups  []string
	palette *palette

	// legend is set while drawing the panel that carries the legend.
	legend bool
}

func newFrame(ds *dataset.Dataset, enc Encoding) (*frame, error) {
	f := &frame{enc: enc}

	xc, err := ds.Column(enc.X)
	if err != nil {
		return nil, err
	}
	yc, err := ds.Column(enc.Y)
	if err != nil {
		return nil, err
	}
	f.x, f.y = newAxis(xc), newAxis(yc)
	f.xcats = newCategoryAxis(xc)

	if enc.Color != "" {
		f.groups, err = labels(ds, enc.Color)
		if err != nil {
			return nil, err
		}
	}
	f.palette = newPalette(f.groups)

	return f, nil
}

// A series is the subset of a panel's rows sharing one colour.
type series struct {
	label string
	rows  []int
}

func (f *frame) series(ds *dataset.Dataset) []series {
	if f.enc.Color == "" {
		rows := make([]int, ds.NumRows())
		for i := range rows {
			rows[i] = i
		}
		return []series{{rows: rows}}
	}

	col, _ := ds.Column(f.enc.Color)
	byLabel := map[string][]int{}
	for i, v := range col.Values {
		if dataset.IsNull(v) {
			continue
		}
		byLabel[v.String()] = append(byLabel[v.String()], i)
	}

	var out []series
	for _, l := range f.groups {
		if rows, ok := byLabel[l]; ok {
			out = append(out, series{label: l, rows: rows})
		}
	}
	return out
}

// points returns the x/y coordinates of the given rows, skipping rows
// where either cell cannot be placed.
func (f *frame) points(ds *dataset.Dataset, rows []int) (xs, ys []float64) {
	xc, _ := ds.Column(f.enc.X)
	yc, _ := ds.Column(f.enc.Y)
	for _, r := range rows {
		x, ok := f.x.value(xc.Values[r])
		if !ok {
			continue
		}
		y, ok := f.y.value(yc.Values[r])
		if !ok {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys
}

func labels(ds *dataset.Dataset, column string) ([]string, error) {
	distinct, err := ds.Distinct(column)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(distinct))
	for i, v := range distinct {
		out[i] = v.String()
	}
	return out, nil
}

// panelFunc draws one facet panel onto p.
type panelFunc func(p *plot.Plot, ds *dataset.Dataset, f *frame) error

// faceted splits the dataset by the facet columns and draws one panel per
// combination of facet values, aligned in a grid.
func faceted(panel panelFunc) renderer {
	return func(ds *dataset.Dataset, enc Encoding, size Size) ([]byte, error) {
		f, err := newFrame(ds, enc)
		if err != nil {
			return nil, err
		}

		rows, err := facetValues(ds, enc.FacetRow)
		if err != nil {
			return nil, err
		}
		cols, err := facetValues(ds, enc.FacetCol)
		if err != nil {
			return nil, err
		}

		plots := make([][]*plot.Plot, len(rows))
		for i, r := range rows {
			plots[i] = make([]*plot.Plot, len(cols))
			for j, c := range cols {
				sub := facetSubset(ds, enc, r, c)

				p := plot.New()
				p.Title.Text = facetTitle(enc, r, c)
				f.legend = i == 0 && j == 0

				if err := panel(p, sub, f); err != nil {
					return nil, err
				}
				plots[i][j] = p
			}
		}

		return writeSVG(plots, size)
	}
}

// facetValues lists the panels along one facet direction. Without a
// facet column there is a single panel.
func facetValues(ds *dataset.Dataset, column string) ([]string, error) {
	if column == "" {
		return []string{""}, nil
	}
	values, err := labels(ds, column)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return []string{""}, nil
	}
	return values, nil
}

func facetSubset(ds *dataset.Dataset, enc Encoding, row, col string) *dataset.Dataset {
	if enc.FacetRow == "" && enc.FacetCol == "" {
		return ds
	}

	mask := make([]bool, ds.NumRows())
	for i := range mask {
		mask[i] = true
	}

	keep := func(column, want string) {
		if column == "" || want == "" {
			return
		}
		c, _ := ds.Column(column)
		for i, v := range c.Values {
			if dataset.IsNull(v) || v.String() != want {
				mask[i] = false
			}
		}
	}
	keep(enc.FacetRow, row)
	keep(enc.FacetCol, col)

	return ds.Select(mask)
}

func facetTitle(enc Encoding, row, col string) string {
	var parts []string
	if enc.FacetRow != "" && row != "" {
		parts = append(parts, fmt.Sprintf("%s=%s", enc.FacetRow, row))
	}
	if enc.FacetCol != "" && col != "" {
		parts = append(parts, fmt.Sprintf("%s=%s", enc.FacetCol, col))
	}
	return strings.Join(parts, ", ")
}

// writeSVG draws a grid of plots onto one SVG canvas.
func writeSVG(plots [][]*plot.Plot, size Size) ([]byte, error) {
	c := vgsvg.New(vg.Points(float64(size.Width)), vg.Points(float64(size.Height)))
	dc := draw.New(c)

	rows := len(plots)
	cols := 0
	if rows > 0 {
		cols = len(plots[0])
	}

	if rows == 1 && cols == 1 {
		plots[0][0].Draw(dc)
	} else if rows > 0 && cols > 0 {
		tiles := draw.Tiles{
			Rows:      rows,
			Cols:      cols,
			PadX:      vg.Millimeter,
			PadY:      vg.Millimeter,
			PadTop:    vg.Points(2),
			PadBottom: vg.Points(2),
			PadLeft:   vg.Points(2),
			PadRight:  vg.Points(2),
		}
		canvases := plot.Align(plots, tiles, dc)
		for i := range plots {
			for j := range plots[i] {
				if plots[i][j] != nil {
					plots[i][j].Draw(canvases[i][j])
				}
			}
		}
	}

	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "writing svg")
	}
	return buf.Bytes(), nil
}
