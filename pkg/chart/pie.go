/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package chart

import (
	"bytes"

	"github.com/dburkart/wizard/pkg/dataset"
	"github.com/pkg/errors"
	gochart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
)

// renderPie draws one slice per x value, sized by the sum of y. Slices
// with no positive total are left out. Facets do not apply.
func renderPie(ds *dataset.Dataset, enc Encoding, size Size) ([]byte, error) {
	xc, err := ds.Column(enc.X)
	if err != nil {
		return nil, err
	}
	yc, err := ds.Column(enc.Y)
	if err != nil {
		return nil, err
	}

	names := newCategoryAxis(xc)
	totals := make([]float64, len(names.labels))
	for i, v := range xc.Values {
		at, ok := names.value(v)
		if !ok {
			continue
		}
		y, ok := dataset.AsFloat(yc.Values[i])
		if !ok {
			continue
		}
		totals[int(at)] += y
	}

	var values []gochart.Value
	for i, t := range totals {
		if t > 0 {
			values = append(values, gochart.Value{Label: names.labels[i], Value: t})
		}
	}
	if len(values) == 0 {
		return writeSVG([][]*plot.Plot{{plot.New()}}, size)
	}

	pie := gochart.PieChart{
		Width:  size.Width,
		Height: size.Height,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(gochart.SVG, &buf); err != nil {
		return nil, errors.Wrap(err, "rendering pie")
	}
	return buf.Bytes(), nil
}
