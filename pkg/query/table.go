/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"github.com/dburkart/wizard/pkg/dataset"
	"github.com/dburkart/wizard/pkg/filter"
)

const DefaultPageSize = 10

// Table is one page of a dataset together with the choices the data
// offers for charting.
type Table struct {
	Columns []string         `json:"columns"`
	Data    []map[string]any `json:"data"`
	Rows    int              `json:"rows"`
	Page    int              `json:"page"`
	Size    int              `json:"size"`

	// Visible is false when there is nothing to show, e.g. for files of
	// an unsupported type.
	Visible bool `json:"visible"`

	// AxisOptions are the columns offered for x, y and the chart facets.
	AxisOptions []string `json:"axis_options"`

	// GroupOptions are the columns offered for grouping and colour.
	GroupOptions []string `json:"group_options"`
}

// Tabulate renders one page of ds.
func Tabulate(ds *dataset.Dataset, page, size int) *Table {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 0 {
		page = 0
	}

	t := &Table{
		Columns:      ds.Names(),
		Data:         ds.Page(page, size).Records(),
		Rows:         ds.NumRows(),
		Page:         page,
		Size:         size,
		Visible:      !ds.IsEmpty(),
		AxisOptions:  ds.Names(),
		GroupOptions: ds.GroupCandidates(),
	}
	if t.Columns == nil {
		t.Columns = []string{}
	}
	if t.AxisOptions == nil {
		t.AxisOptions = []string{}
	}
	if t.GroupOptions == nil {
		t.GroupOptions = []string{}
	}

	return t
}

// Filtered applies specs to ds and renders one page of the result.
func Filtered(ds *dataset.Dataset, specs []filter.Spec, page, size int) (*Table, error) {
	out, err := filter.Apply(ds, specs)
	if err != nil {
		return nil, err
	}
	return Tabulate(out, page, size), nil
}
