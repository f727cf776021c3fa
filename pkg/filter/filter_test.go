/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package filter

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dburkart/wizard/pkg/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ordersCSV = `region,day,units,price
East,2021-01-01,2,1.5
West,2021-01-15,5,2.0
North,2021-02-01,7,
East,2021-02-20,10,3.25
South,not a date,3,1.0
`

func orders(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Read("orders.csv", strings.NewReader(ordersCSV))
	require.NoError(t, err)
	return ds
}

func column(t *testing.T, ds *dataset.Dataset, name string) []string {
	t.Helper()
	col, err := ds.Column(name)
	require.NoError(t, err)
	out := make([]string, len(col.Values))
	for i, v := range col.Values {
		out[i] = v.String()
	}
	return out
}

func float(f float64) *float64 { return &f }

func TestApply(t *testing.T) {
	tt := []struct {
		test    string
		specs   []Spec
		regions []string
	}{
		{"no filters", nil, []string{"East", "West", "North", "East", "South"}},
		{"empty set is a no-op", []Spec{Set("region")}, []string{"East", "West", "North", "East", "South"}},
		{"empty range is a no-op", []Spec{{Column: "units", Kind: KindRange}}, []string{"East", "West", "North", "East", "South"}},
		{"empty date is a no-op", []Spec{DateRange("day", "", "")}, []string{"East", "West", "North", "East", "South"}},
		{"empty equals is a no-op", []Spec{Equals("region", "")}, []string{"East", "West", "North", "East", "South"}},
		{"set", []Spec{Set("region", "East", "West")}, []string{"East", "West", "East"}},
		{"two element set stays a set", []Spec{Set("units", 2, 10)}, []string{"East", "East"}},
		{"range inclusive", []Spec{Range("units", 3, 7)}, []string{"West", "North", "South"}},
		{"range open high", []Spec{{Column: "units", Kind: KindRange, Low: float(7)}}, []string{"North", "East"}},
		{"range skips missing cells", []Spec{Range("price", 0, 100)}, []string{"East", "West", "East", "South"}},
		{"date start only", []Spec{DateRange("day", "2021-01-15", "")}, []string{"West", "North", "East"}},
		{"date end only", []Spec{DateRange("day", "", "2021-01-15")}, []string{"East", "West"}},
		{"date both", []Spec{DateRange("day", "2021-01-15", "2021-02-01")}, []string{"West", "North"}},
		{"equals", []Spec{Equals("region", "North")}, []string{"North"}},
		{"equals number", []Spec{Equals("units", 10)}, []string{"East"}},
		{"conjunction", []Spec{Set("region", "East", "West"), Range("units", 4, 100)}, []string{"West", "East"}},
		{"set matches text form of numbers", []Spec{Set("units", "5")}, []string{"West"}},
	}

	for _, tc := range tt {
		t.Run(tc.test, func(t *testing.T) {
			out, err := Apply(orders(t), tc.specs)
			require.NoError(t, err)
			assert.Equal(t, tc.regions, column(t, out, "region"))
		})
	}
}

func TestApplyOrderIndependent(t *testing.T) {
	ds := orders(t)
	a := []Spec{Set("region", "East", "West"), Range("units", 4, 100), DateRange("day", "2021-01-10", "")}
	b := []Spec{a[2], a[0], a[1]}

	outA, err := Apply(ds, a)
	require.NoError(t, err)
	outB, err := Apply(ds, b)
	require.NoError(t, err)

	assert.Equal(t, outA.Strings(), outB.Strings())
}

func TestApplyUnknownColumn(t *testing.T) {
	_, err := Apply(orders(t), []Spec{Set("profit", 1)})
	assert.True(t, errors.Is(err, dataset.ErrUnknownColumn))
}

func TestApplyInvalidDateBound(t *testing.T) {
	_, err := Apply(orders(t), []Spec{DateRange("day", "yesterday", "")})
	assert.True(t, errors.Is(err, ErrInvalidBound))
}

func TestApplyMissingKind(t *testing.T) {
	_, err := Apply(orders(t), []Spec{{Column: "region", Values: []any{"East"}}})
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	ds := orders(t)
	_, err := Apply(ds, []Spec{Set("region", "East")})
	require.NoError(t, err)
	assert.Equal(t, 5, ds.NumRows())
}

func TestSpecJSON(t *testing.T) {
	var specs []Spec
	body := `[
		{"column": "region", "kind": "set", "values": ["East", "West"]},
		{"column": "units", "kind": "range", "low": 3, "high": 7},
		{"column": "day", "kind": "date", "start_date": "2021-01-01"}
	]`
	require.NoError(t, json.Unmarshal([]byte(body), &specs))

	out, err := Apply(orders(t), specs)
	require.NoError(t, err)
	assert.Equal(t, []string{"West"}, column(t, out, "region"))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Range ")
	require.NoError(t, err)
	assert.Equal(t, KindRange, k)

	_, err = ParseKind("between")
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestDescribe(t *testing.T) {
	ds := orders(t)

	t.Run("dropdown", func(t *testing.T) {
		w, err := Describe(ds, "region", Dropdown)
		require.NoError(t, err)
		assert.Equal(t, KindSet, w.Kind)
		require.Len(t, w.Options, 4)
		assert.Equal(t, Option{Label: "East", Value: "East"}, w.Options[0])
	})

	t.Run("range slider", func(t *testing.T) {
		w, err := Describe(ds, "price", RangeSlider)
		require.NoError(t, err)
		assert.Equal(t, KindRange, w.Kind)
		assert.Equal(t, 1.0, *w.Min)
		assert.Equal(t, 3.25, *w.Max)
	})

	t.Run("range slider on text", func(t *testing.T) {
		_, err := Describe(ds, "region", RangeSlider)
		assert.True(t, errors.Is(err, ErrNotNumeric))
	})

	t.Run("date picker falls back without bounds", func(t *testing.T) {
		w, err := Describe(ds, "day", DatePickerRange)
		require.NoError(t, err)
		assert.Equal(t, KindDate, w.Kind)
		assert.Empty(t, w.MinDate)
		assert.Empty(t, w.MaxDate)
		assert.Contains(t, w.Warning, "not a date")
	})

	t.Run("date picker", func(t *testing.T) {
		clean, err := Apply(ds, []Spec{Set("region", "East", "West", "North")})
		require.NoError(t, err)
		w, err := Describe(clean, "day", DatePickerRange)
		require.NoError(t, err)
		assert.Equal(t, "2021-01-01", w.MinDate)
		assert.Equal(t, "2021-02-20", w.MaxDate)
		assert.Empty(t, w.Warning)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := Describe(ds, "nope", Dropdown)
		assert.True(t, errors.Is(err, dataset.ErrUnknownColumn))
	})
}

func TestParseWidgetType(t *testing.T) {
	for _, name := range []string{"Dropdown", "RangeSlider", "DatePickerRange"} {
		_, err := ParseWidgetType(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseWidgetType("Slider")
	assert.True(t, errors.Is(err, ErrUnknownWidget))
}
