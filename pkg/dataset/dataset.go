/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dataset

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrUnknownColumn = errors.New("unknown column")

// A Column is a named, typed vector of values. Every value is either of the
// column's Kind or Null.
type Column struct {
	Name   string
	Kind   Kind
	Values []Value
}

func (c *Column) Len() int {
	return len(c.Values)
}

// Dataset is an ordered table of named columns, loaded fully into memory.
// Datasets are treated as immutable: operations return new datasets.
type Dataset struct {
	columns []*Column
	index   map[string]int
}

// New builds a dataset from columns. All columns must have the same
// length and unique names.
func New(columns ...*Column) (*Dataset, error) {
	ds := &Dataset{index: make(map[string]int, len(columns))}

	for i, c := range columns {
		if _, ok := ds.index[c.Name]; ok {
			return nil, errors.Errorf("duplicate column %q", c.Name)
		}
		if i > 0 && c.Len() != columns[0].Len() {
			return nil, errors.Errorf("column %q has %d rows, expected %d", c.Name, c.Len(), columns[0].Len())
		}
		ds.index[c.Name] = i
		ds.columns = append(ds.columns, c)
	}

	return ds, nil
}

// Empty returns a dataset with no columns and no rows.
func Empty() *Dataset {
	return &Dataset{index: map[string]int{}}
}

func (ds *Dataset) IsEmpty() bool {
	return len(ds.columns) == 0
}

func (ds *Dataset) NumRows() int {
	if len(ds.columns) == 0 {
		return 0
	}
	return ds.columns[0].Len()
}

func (ds *Dataset) NumColumns() int {
	return len(ds.columns)
}

func (ds *Dataset) Names() []string {
	names := make([]string, len(ds.columns))
	for i, c := range ds.columns {
		names[i] = c.Name
	}
	return names
}

func (ds *Dataset) Columns() []*Column {
	return ds.columns
}

func (ds *Dataset) Has(name string) bool {
	_, ok := ds.index[name]
	return ok
}

// Column looks up a column by name.
func (ds *Dataset) Column(name string) (*Column, error) {
	idx, ok := ds.index[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownColumn, "%q", name)
	}
	return ds.columns[idx], nil
}

func (ds *Dataset) Row(i int) []Value {
	row := make([]Value, len(ds.columns))
	for j, c := range ds.columns {
		row[j] = c.Values[i]
	}
	return row
}

// Select returns a new dataset holding the rows whose mask entry is true.
func (ds *Dataset) Select(mask []bool) *Dataset {
	rows := make([]int, 0, len(mask))
	for i, keep := range mask {
		if keep {
			rows = append(rows, i)
		}
	}
	return ds.Take(rows)
}

// Take returns a new dataset made of the given rows, in the given order.
func (ds *Dataset) Take(rows []int) *Dataset {
	out := &Dataset{
		columns: make([]*Column, len(ds.columns)),
		index:   ds.index,
	}
	for j, c := range ds.columns {
		values := make([]Value, len(rows))
		for i, r := range rows {
			values[i] = c.Values[r]
		}
		out.columns[j] = &Column{Name: c.Name, Kind: c.Kind, Values: values}
	}
	return out
}

// Page returns rows [page*size, (page+1)*size), clipped to the dataset.
func (ds *Dataset) Page(page, size int) *Dataset {
	n := ds.NumRows()
	if page < 0 || size <= 0 || page > n/size {
		return ds.Take(nil)
	}

	start := page * size
	end := n
	if size < n-start {
		end = start + size
	}

	rows := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, i)
	}
	return ds.Take(rows)
}

// Distinct returns the non-null values of a column in order of first
// appearance.
func (ds *Dataset) Distinct(name string) ([]Value, error) {
	c, err := ds.Column(name)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var values []Value
	for _, v := range c.Values {
		if IsNull(v) {
			continue
		}
		key := fmt.Sprintf("%d:%s", v.Kind(), v.String())
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		values = append(values, v)
	}
	return values, nil
}

// GroupCandidates lists the columns with fewer distinct values than half
// the number of rows. These are offered for grouping, colouring and
// faceting.
func (ds *Dataset) GroupCandidates() []string {
	var names []string
	for _, c := range ds.columns {
		distinct, _ := ds.Distinct(c.Name)
		if float64(len(distinct)) < float64(ds.NumRows())/2 {
			names = append(names, c.Name)
		}
	}
	return names
}

// Records renders the dataset as one map per row, keyed by column name.
func (ds *Dataset) Records() []map[string]any {
	records := make([]map[string]any, ds.NumRows())
	for i := range records {
		rec := make(map[string]any, len(ds.columns))
		for _, c := range ds.columns {
			rec[c.Name] = Interface(c.Values[i])
		}
		records[i] = rec
	}
	return records
}

// Strings renders every row as strings, in column order.
func (ds *Dataset) Strings() [][]string {
	out := make([][]string, ds.NumRows())
	for i := range out {
		row := make([]string, len(ds.columns))
		for j, c := range ds.columns {
			row[j] = c.Values[i].String()
		}
		out[i] = row
	}
	return out
}
