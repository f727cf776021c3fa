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
	"gonum.org/v1/plot/plotutil"
)

type scale int

const (
	numeric scale = iota
	temporal
	nominal
)

// An axis maps the cells of one column onto plot coordinates. Nominal
// columns are laid out one unit apart in order of first appearance.
type axis struct {
	name   string
	scale  scale
	labels []string
	index  map[string]int
}

func newAxis(col *dataset.Column) *axis {
	a := &axis{name: col.Name}

	switch {
	case col.Kind.Numeric():
		a.scale = numeric
	case col.Kind == dataset.Time, col.Kind == dataset.String && allDates(col):
		a.scale = temporal
	default:
		a.scale = nominal
		a.setLabels(col.Values)
	}

	return a
}

// newCategoryAxis lays every distinct value of col out as a category.
// Numbers and dates are sorted; anything else keeps first appearance order.
func newCategoryAxis(col *dataset.Column) *axis {
	a := &axis{name: col.Name, scale: nominal}

	var distinct []dataset.Value
	seen := map[string]bool{}
	for _, v := range col.Values {
		if dataset.IsNull(v) || seen[v.String()] {
			continue
		}
		seen[v.String()] = true
		distinct = append(distinct, v)
	}

	if col.Kind.Numeric() || col.Kind == dataset.Time {
		sort.SliceStable(distinct, func(i, j int) bool {
			c, ok := dataset.Compare(distinct[i], distinct[j])
			return ok && c < 0
		})
	}
	a.setLabels(distinct)

	return a
}

func (a *axis) setLabels(values []dataset.Value) {
	a.index = map[string]int{}
	a.labels = nil
	for _, v := range values {
		if dataset.IsNull(v) {
			continue
		}
		if _, ok := a.index[v.String()]; ok {
			continue
		}
		a.index[v.String()] = len(a.labels)
		a.labels = append(a.labels, v.String())
	}
}

func allDates(col *dataset.Column) bool {
	seen := false
	for _, v := range col.Values {
		if dataset.IsNull(v) {
			continue
		}
		if _, ok := dataset.TimeVal(v); !ok {
			return false
		}
		seen = true
	}
	return seen
}

// value returns the plot coordinate of v.
func (a *axis) value(v dataset.Value) (float64, bool) {
	if dataset.IsNull(v) {
		return 0, false
	}

	switch a.scale {
	case numeric:
		return dataset.AsFloat(v)
	case temporal:
		t, ok := dataset.TimeVal(v)
		if !ok {
			return 0, false
		}
		return float64(t.Unix()), true
	}

	i, ok := a.index[v.String()]
	return float64(i), ok
}

// decorate labels a plot axis and installs the tick marker for the scale.
func (a *axis) decorate(pa *plot.Axis) {
	pa.Label.Text = a.name

	switch a.scale {
	case temporal:
		pa.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	case nominal:
		ticks := make([]plot.Tick, len(a.labels))
		for i, l := range a.labels {
			ticks[i] = plot.Tick{Value: float64(i), Label: l}
		}
		pa.Tick.Marker = plot.ConstantTicks(ticks)
		if len(a.labels) > 0 {
			pa.Min = math.Min(pa.Min, -0.5)
			pa.Max = math.Max(pa.Max, float64(len(a.labels))-0.5)
		}
	}
}

// palette hands out one colour per colour-group label, stable across
// facet panels.
type palette struct {
	index map[string]int
}

func newPalette(labels []string) *palette {
	p := &palette{index: map[string]int{}}
	for i, l := range labels {
		p.index[l] = i
	}
	return p
}

func (p *palette) color(label string) color.Color {
	return plotutil.Color(p.index[label])
}
