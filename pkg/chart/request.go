/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package chart

import (
	"github.com/dburkart/wizard/pkg/group"
)

const (
	DefaultWidth  = 900
	DefaultHeight = 500
	FacetHeight   = 800
)

// Request is the set of chart parameters picked by the user.
type Request struct {
	Kind     Kind       `json:"kind" yaml:"kind"`
	X        string     `json:"x" yaml:"x"`
	Y        string     `json:"y" yaml:"y"`
	Color    string     `json:"color,omitempty" yaml:"color,omitempty"`
	FacetRow string     `json:"facet_row,omitempty" yaml:"facet_row,omitempty"`
	FacetCol string     `json:"facet_col,omitempty" yaml:"facet_col,omitempty"`
	GroupBy  []string   `json:"group_by,omitempty" yaml:"group_by,omitempty"`
	Func     group.Func `json:"func,omitempty" yaml:"func,omitempty"`
}

// Ready reports whether enough has been chosen to draw anything.
func (r Request) Ready() bool {
	return r.Kind != "" && r.X != "" && r.Y != ""
}

// Size is the figure size in pixels. Facet rows get a taller figure.
func (r Request) Size() Size {
	if r.FacetRow != "" {
		return Size{Width: DefaultWidth, Height: FacetHeight}
	}
	return Size{Width: DefaultWidth, Height: DefaultHeight}
}

// Encoding maps dataset columns onto the visual channels of a chart.
type Encoding struct {
	X        string
	Y        string
	Color    string
	FacetRow string
	FacetCol string
}

func (r Request) Encoding() Encoding {
	return Encoding{X: r.X, Y: r.Y, Color: r.Color, FacetRow: r.FacetRow, FacetCol: r.FacetCol}
}

// columns lists the encoded columns, skipping unset channels.
func (e Encoding) columns() []string {
	var names []string
	for _, n := range []string{e.X, e.Y, e.Color, e.FacetRow, e.FacetCol} {
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}
