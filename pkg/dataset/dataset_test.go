/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dataset

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salesCSV = `region,month,revenue
East,2021-01-01,100
West,2021-01-01,80
North,2021-01-01,50
East,2021-02-01,120
West,2021-02-01,90
South,2021-02-01,
`

func loadSales(t *testing.T) *Dataset {
	t.Helper()
	ds, err := Read("sales.csv", strings.NewReader(salesCSV))
	require.NoError(t, err)
	return ds
}

func TestReadCSVInfersKinds(t *testing.T) {
	ds := loadSales(t)

	assert.Equal(t, []string{"region", "month", "revenue"}, ds.Names())
	assert.Equal(t, 6, ds.NumRows())

	region, err := ds.Column("region")
	require.NoError(t, err)
	assert.Equal(t, String, region.Kind)

	month, err := ds.Column("month")
	require.NoError(t, err)
	assert.Equal(t, String, month.Kind, "dates stay text until a date filter parses them")

	revenue, err := ds.Column("revenue")
	require.NoError(t, err)
	assert.Equal(t, Int, revenue.Kind)
	assert.True(t, IsNull(revenue.Values[5]))
}

func TestReadCSVMixedNumbersBecomeFloat(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("a,b,c\n1,x,true\n2.5,y,FALSE\n"))
	require.NoError(t, err)

	a, _ := ds.Column("a")
	assert.Equal(t, Float, a.Kind)
	f, ok := AsFloat(a.Values[0])
	assert.True(t, ok)
	assert.Equal(t, 1.0, f)

	c, _ := ds.Column("c")
	assert.Equal(t, Boolean, c.Kind)
}

func TestReadCSVDuplicateHeaders(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("a,a,\n1,2,3\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a.1", "Unnamed: 2"}, ds.Names())

	ds, err = ReadCSV(strings.NewReader("a,a.1,a,a\n1,2,3,4\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a.1", "a.2", "a.3"}, ds.Names())
}

func TestReadCSVRaggedRows(t *testing.T) {
	_, err := Read("bad.csv", strings.NewReader("a,b\n1\n"))
	assert.Error(t, err)
}

func TestReadUnsupportedExtension(t *testing.T) {
	ds, err := Read("notes.txt", strings.NewReader("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.True(t, ds.IsEmpty())
	assert.Equal(t, 0, ds.NumRows())
}

func TestLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(salesCSV), 0644))

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, ds.NumRows())

	_, err = Load(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestUnknownColumn(t *testing.T) {
	ds := loadSales(t)
	_, err := ds.Column("profit")
	assert.True(t, errors.Is(err, ErrUnknownColumn))
}

func TestPage(t *testing.T) {
	ds := loadSales(t)

	tt := []struct {
		test       string
		page, size int
		rows       int
	}{
		{"first page", 0, 4, 4},
		{"last partial page", 1, 4, 2},
		{"past the end", 3, 4, 0},
		{"zero size", 0, 0, 0},
		{"negative page", -1, 4, 0},
		{"exactly at the end", 3, 2, 0},
		{"huge page", math.MaxInt / 10, 10, 0},
		{"huge size", 0, math.MaxInt, 6},
		{"huge page and size", math.MaxInt, math.MaxInt, 0},
	}

	for _, tc := range tt {
		t.Run(tc.test, func(t *testing.T) {
			assert.Equal(t, tc.rows, ds.Page(tc.page, tc.size).NumRows())
		})
	}

	page := ds.Page(1, 4)
	assert.Equal(t, "West", page.Row(0)[0].String())
}

func TestSelectDoesNotMutate(t *testing.T) {
	ds := loadSales(t)
	out := ds.Select([]bool{true, false, false, true, false, false})

	assert.Equal(t, 2, out.NumRows())
	assert.Equal(t, 6, ds.NumRows())
	assert.Equal(t, "East", out.Row(1)[0].String())
}

func TestDistinctAndGroupCandidates(t *testing.T) {
	ds := loadSales(t)

	regions, err := ds.Distinct("region")
	require.NoError(t, err)
	var names []string
	for _, v := range regions {
		names = append(names, v.String())
	}
	assert.Equal(t, []string{"East", "West", "North", "South"}, names)

	// month has 2 distinct values over 6 rows; region has 4 and revenue 5.
	assert.Equal(t, []string{"month"}, ds.GroupCandidates())
}

func TestRecords(t *testing.T) {
	ds := loadSales(t).Page(0, 1)
	assert.Equal(t, []map[string]any{
		{"region": "East", "month": "2021-01-01", "revenue": int64(100)},
	}, ds.Records())
}

func TestCompare(t *testing.T) {
	tt := []struct {
		test       string
		a, b       Value
		cmp        int
		comparable bool
	}{
		{"ints", MakeInt(1), MakeInt(2), -1, true},
		{"int and float", MakeInt(2), MakeFloat(2.0), 0, true},
		{"strings", MakeString("b"), MakeString("a"), 1, true},
		{"bools", MakeBoolean(false), MakeBoolean(true), -1, true},
		{"null", MakeNull(), MakeInt(1), 0, false},
		{"string and int", MakeString("1"), MakeInt(1), 0, false},
		{"times", MakeTime(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)), MakeTime(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)), 1, true},
	}

	for _, tc := range tt {
		t.Run(tc.test, func(t *testing.T) {
			cmp, ok := Compare(tc.a, tc.b)
			assert.Equal(t, tc.comparable, ok)
			if ok {
				assert.Equal(t, tc.cmp, cmp)
			}
		})
	}
}

func TestMakeFromAny(t *testing.T) {
	assert.Equal(t, Int, MakeFromAny(float64(3)).Kind())
	assert.Equal(t, Float, MakeFromAny(3.5).Kind())
	assert.Equal(t, String, MakeFromAny("East").Kind())
	assert.Equal(t, Null, MakeFromAny(nil).Kind())
}

func TestParseVagueDateTime(t *testing.T) {
	for _, in := range []string{"2021-01-02", "2021-01-02T03:04:05Z", "2021-01-02 03:04:05", "Jan 02, 2021"} {
		tm, err := ParseVagueDateTime(in)
		require.NoError(t, err, in)
		assert.Equal(t, 2021, tm.Year())
		assert.Equal(t, time.January, tm.Month())
		assert.Equal(t, 2, tm.Day())
	}

	_, err := ParseVagueDateTime("not a date")
	assert.True(t, errors.Is(err, ErrUnknownTimeFormat))
}

func TestReadFeather(t *testing.T) {
	mem := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "region", Type: arrow.BinaryTypes.String},
		{Name: "revenue", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "ratio", Type: arrow.PrimitiveTypes.Float64},
		{Name: "day", Type: arrow.FixedWidthTypes.Date32},
	}, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	b.Field(0).(*array.StringBuilder).AppendValues([]string{"East", "West"}, nil)
	b.Field(1).(*array.Int64Builder).AppendValues([]int64{100, 0}, []bool{true, false})
	b.Field(2).(*array.Float64Builder).AppendValues([]float64{0.5, 1.5}, nil)
	b.Field(3).(*array.Date32Builder).AppendValues([]arrow.Date32{
		arrow.Date32FromTime(time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC)),
		arrow.Date32FromTime(time.Date(2021, 3, 5, 0, 0, 0, 0, time.UTC)),
	}, nil)

	rec := b.NewRecord()
	defer rec.Release()

	var buf bytes.Buffer
	w, err := ipc.NewFileWriter(&buf, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	require.NoError(t, err)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())

	ds, err := Read("sales.feather", &buf)
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "revenue", "ratio", "day"}, ds.Names())
	assert.Equal(t, 2, ds.NumRows())

	revenue, _ := ds.Column("revenue")
	assert.Equal(t, Int, revenue.Kind)
	assert.Equal(t, int64(100), IntVal(revenue.Values[0]))
	assert.True(t, IsNull(revenue.Values[1]))

	day, _ := ds.Column("day")
	assert.Equal(t, Time, day.Kind)
	assert.Equal(t, "2021-03-05", day.Values[1].String())
}
