/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package chart

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dburkart/wizard/pkg/dataset"
	"github.com/dburkart/wizard/pkg/group"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salesCSV = `region,month,revenue,units,channel
East,2021-01-01,100,4,web
West,2021-01-01,80,3,store
North,2021-01-01,50,2,web
East,2021-02-01,120,5,store
West,2021-02-01,90,3,web
South,2021-02-01,,1,store
`

func sales(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Read("sales.csv", strings.NewReader(salesCSV))
	require.NoError(t, err)
	return ds
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(strings.ToUpper(string(k)))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	assert.Len(t, Kinds(), 16)

	_, err := ParseKind("sunburst")
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestRenderNotReady(t *testing.T) {
	tt := []Request{
		{},
		{Kind: Bar, X: "region"},
		{Kind: Bar, Y: "revenue"},
		{X: "region", Y: "revenue"},
	}

	for _, req := range tt {
		fig, err := Render(sales(t), req)
		require.NoError(t, err)
		assert.True(t, fig.Empty())
	}
}

func TestRenderUnknownKind(t *testing.T) {
	_, err := Render(sales(t), Request{Kind: "sunburst", X: "region", Y: "revenue"})
	assert.True(t, errors.Is(err, ErrUnknownKind))
}

func TestRenderUnknownColumn(t *testing.T) {
	_, err := Render(sales(t), Request{Kind: Bar, X: "region", Y: "profit"})
	assert.True(t, errors.Is(err, dataset.ErrUnknownColumn))

	_, err = Render(sales(t), Request{Kind: Bar, X: "region", Y: "revenue", Color: "nope"})
	assert.True(t, errors.Is(err, dataset.ErrUnknownColumn))
}

func TestRenderEveryKind(t *testing.T) {
	ds := sales(t)

	for _, k := range Kinds() {
		t.Run(string(k), func(t *testing.T) {
			plain, err := Render(ds, Request{Kind: k, X: "region", Y: "revenue"})
			require.NoError(t, err)
			assert.Contains(t, string(plain.SVG), "<svg")

			styled, err := Render(ds, Request{Kind: k, X: "month", Y: "units", Color: "channel", FacetCol: "region"})
			require.NoError(t, err)
			assert.Contains(t, string(styled.SVG), "<svg")
		})
	}
}

func TestRenderEmptyDataset(t *testing.T) {
	ds := sales(t).Select(make([]bool, 6))

	for _, k := range Kinds() {
		t.Run(string(k), func(t *testing.T) {
			fig, err := Render(ds, Request{Kind: k, X: "region", Y: "revenue"})
			require.NoError(t, err)
			assert.False(t, fig.Empty())
		})
	}
}

func TestSize(t *testing.T) {
	assert.Equal(t, Size{Width: 900, Height: 500}, Request{}.Size())
	assert.Equal(t, Size{Width: 900, Height: 800}, Request{FacetRow: "region"}.Size())
	assert.Equal(t, Size{Width: 900, Height: 500}, Request{FacetCol: "region"}.Size())
}

func TestCategoryTotals(t *testing.T) {
	ds := sales(t)
	f, err := newFrame(ds, Encoding{X: "region", Y: "revenue"})
	require.NoError(t, err)

	totals, ok := f.categoryTotals(ds, f.series(ds)[0].rows)
	require.True(t, ok)

	assert.Equal(t, []string{"East", "West", "North", "South"}, f.xcats.labels)
	assert.Equal(t, []float64{220, 170, 50, 0}, []float64(totals))
}

func TestAxisScales(t *testing.T) {
	ds := sales(t)

	month, _ := ds.Column("month")
	assert.Equal(t, temporal, newAxis(month).scale)

	region, _ := ds.Column("region")
	assert.Equal(t, nominal, newAxis(region).scale)

	units, _ := ds.Column("units")
	a := newCategoryAxis(units)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, a.labels)
}

func TestFileName(t *testing.T) {
	fig := &Figure{Request: Request{
		Kind:    Bar,
		X:       "region",
		Y:       "revenue/units",
		GroupBy: []string{"channel", "region"},
		Func:    group.Sum,
	}}

	assert.Equal(t, "bar -region by revenue/units grouped- ['channel', 'region'] func- sum", fig.Title())
	assert.Equal(t, "bar -region by revenue_units grouped- ['channel', 'region'] func- sum.html", fig.FileName())

	fig = &Figure{Request: Request{Kind: Pie, X: "..", Y: `a\b`}}
	assert.Equal(t, "pie -.. by a_b grouped- [] func- None.html", fig.FileName())
	assert.NotContains(t, fig.FileName(), "/")
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")

	fig, err := Render(sales(t), Request{Kind: Bar, X: "region", Y: "revenue"})
	require.NoError(t, err)

	path, err := Save(dir, fig)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bar -region by revenue grouped- [] func- None.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<!DOCTYPE html>")
	assert.Contains(t, string(data), "<svg")

	_, err = Save(dir, &Figure{})
	assert.True(t, errors.Is(err, ErrEmptyFigure))
}
