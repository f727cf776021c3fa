/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package chart

import (
	"strings"

	"github.com/pkg/errors"
)

var ErrUnknownKind = errors.New("unknown chart kind")

// Kind names a chart type.
type Kind string

const (
	Area                Kind = "area"
	Bar                 Kind = "bar"
	BarPolar            Kind = "bar_polar"
	Box                 Kind = "box"
	DensityContour      Kind = "density_contour"
	DensityHeatmap      Kind = "density_heatmap"
	Histogram           Kind = "histogram"
	Line                Kind = "line"
	LinePolar           Kind = "line_polar"
	ParallelCategories  Kind = "parallel_categories"
	ParallelCoordinates Kind = "parallel_coordinates"
	Pie                 Kind = "pie"
	Scatter             Kind = "scatter"
	ScatterMatrix       Kind = "scatter_matrix"
	ScatterPolar        Kind = "scatter_polar"
	Strip               Kind = "strip"
)

// Kinds lists every chart kind in display order.
func Kinds() []Kind {
	return []Kind{
		Area, Bar, BarPolar, Box, DensityContour, DensityHeatmap, Histogram, Line,
		LinePolar, ParallelCategories, ParallelCoordinates, Pie, Scatter,
		ScatterMatrix, ScatterPolar, Strip,
	}
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := renderers[k]; !ok {
		return "", errors.Wrapf(ErrUnknownKind, "%q", s)
	}
	return k, nil
}
