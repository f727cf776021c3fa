/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package query

import (
	"github.com/dburkart/wizard/pkg/chart"
)

// Plan is a chart request with its grouping and colour settled.
type Plan struct {
	// Keys are the effective group-by columns.
	Keys []string

	// Grouped is set when the data is aggregated before drawing.
	Grouped bool

	// Chart is the request handed to the renderer. Its Color is the
	// resolved colour column and its GroupBy the keys as reported in
	// saved file names.
	Chart chart.Request
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func without(list []string, s string) []string {
	var out []string
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

// Resolve works out how a chart request is grouped and coloured:
//
//   - with group-by columns, x joins the keys unless the chart is a
//     histogram;
//   - data is aggregated only when there are keys and a function;
//   - a requested colour is kept unless the data is aggregated and the
//     colour is not a key, in which case the first key other than x
//     colours the chart;
//   - without a requested colour, aggregating by more than one key
//     colours by the first key other than x.
func Resolve(req chart.Request) Plan {
	keys := append([]string(nil), req.GroupBy...)
	if len(keys) > 0 && req.Kind != chart.Histogram && !contains(keys, req.X) {
		keys = append(keys, req.X)
	}

	plan := Plan{
		Keys:    keys,
		Grouped: len(keys) > 0 && req.Func != "",
		Chart:   req,
	}
	plan.Chart.GroupBy = keys
	plan.Chart.Color = ""

	switch {
	case req.Color != "" && !plan.Grouped:
		plan.Chart.Color = req.Color
	case req.Color != "" && contains(keys, req.Color):
		plan.Chart.Color = req.Color
	case req.Color != "", len(keys) > 1 && plan.Grouped:
		others := without(keys, req.X)
		plan.Chart.GroupBy = others
		if len(others) > 0 {
			plan.Chart.Color = others[0]
		}
	}

	return plan
}
