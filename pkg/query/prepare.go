/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"github.com/dburkart/wizard/pkg/chart"
	"github.com/dburkart/wizard/pkg/dataset"
	"github.com/dburkart/wizard/pkg/filter"
	"github.com/dburkart/wizard/pkg/group"
)

// Request is one chart computation: the filters to apply and the chart to
// draw from what remains.
type Request struct {
	Filters []filter.Spec `json:"filters,omitempty" yaml:"filters,omitempty"`
	Chart   chart.Request `json:"chart" yaml:"chart"`
}

// Prepare filters and, when the plan calls for it, aggregates ds. It
// returns the data to draw and the resolved chart request.
func Prepare(ds *dataset.Dataset, req Request) (*dataset.Dataset, Plan, error) {
	plan := Resolve(req.Chart)

	filtered, err := filter.Apply(ds, req.Filters)
	if err != nil {
		return nil, plan, err
	}

	if !req.Chart.Ready() || !plan.Grouped {
		return filtered, plan, nil
	}

	fn, err := group.ParseFunc(string(req.Chart.Func))
	if err != nil {
		return nil, plan, err
	}
	plan.Chart.Func = fn

	grouped, err := group.Apply(filtered, plan.Keys, fn, req.Chart.Y)
	if err != nil {
		return nil, plan, err
	}

	return grouped, plan, nil
}

// Execute runs the whole pipeline and renders the figure. A request
// without a chart kind or axes yields an empty figure.
func Execute(ds *dataset.Dataset, req Request) (*chart.Figure, error) {
	prepared, plan, err := Prepare(ds, req)
	if err != nil {
		return nil, err
	}
	return chart.Render(prepared, plan.Chart)
}
