/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package group

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dburkart/wizard/pkg/dataset"
	"github.com/pkg/errors"
)

type bucket struct {
	keys []dataset.Value
	aggs []*aggregate
}

// Apply groups ds by the key columns and aggregates every other column with
// fn. The result holds the key columns first, then the aggregated columns
// in source order, one row per distinct key combination. Rows with a
// missing key are dropped. Groups are ordered by key and then stably by
// sortBy, when given.
func Apply(ds *dataset.Dataset, keys []string, fn Func, sortBy string) (*dataset.Dataset, error) {
	if len(keys) == 0 {
		return nil, errors.New("grouping requires at least one key")
	}
	if _, err := ParseFunc(string(fn)); err != nil {
		return nil, err
	}

	keyCols := make([]*dataset.Column, len(keys))
	isKey := make(map[string]bool, len(keys))
	for i, k := range keys {
		c, err := ds.Column(k)
		if err != nil {
			return nil, err
		}
		if isKey[k] {
			return nil, errors.Errorf("key %q given more than once", k)
		}
		keyCols[i] = c
		isKey[k] = true
	}

	var valueCols []*dataset.Column
	for _, c := range ds.Columns() {
		if !isKey[c.Name] && fn.accepts(c.Kind) {
			valueCols = append(valueCols, c)
		}
	}

	index := make(map[string]*bucket)
	var buckets []*bucket

	for row := 0; row < ds.NumRows(); row++ {
		kv := make([]dataset.Value, len(keyCols))
		missing := false
		for i, c := range keyCols {
			kv[i] = c.Values[row]
			if dataset.IsNull(kv[i]) {
				missing = true
				break
			}
		}
		if missing {
			continue
		}

		id := keyString(kv)
		b, ok := index[id]
		if !ok {
			b = &bucket{keys: kv, aggs: make([]*aggregate, len(valueCols))}
			for i, c := range valueCols {
				b.aggs[i] = newAggregate(fn, c.Kind)
			}
			index[id] = b
			buckets = append(buckets, b)
		}

		for i, c := range valueCols {
			b.aggs[i].accumulate(c.Values[row])
		}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return lessKeys(buckets[i].keys, buckets[j].keys)
	})

	out := make([]*dataset.Column, 0, len(keyCols)+len(valueCols))
	for i, c := range keyCols {
		values := make([]dataset.Value, len(buckets))
		for j, b := range buckets {
			values[j] = b.keys[i]
		}
		out = append(out, &dataset.Column{Name: c.Name, Kind: c.Kind, Values: values})
	}
	for i, c := range valueCols {
		values := make([]dataset.Value, len(buckets))
		for j, b := range buckets {
			values[j] = b.aggs[i].result()
		}
		out = append(out, &dataset.Column{Name: c.Name, Kind: fn.resultKind(c.Kind), Values: values})
	}

	grouped, err := dataset.New(out...)
	if err != nil {
		return nil, err
	}

	if sortBy == "" {
		return grouped, nil
	}
	return SortBy(grouped, sortBy)
}

// SortBy stably orders ds ascending by one column. Missing values sort
// last.
func SortBy(ds *dataset.Dataset, column string) (*dataset.Dataset, error) {
	c, err := ds.Column(column)
	if err != nil {
		return nil, err
	}

	rows := make([]int, ds.NumRows())
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return less(c.Values[rows[i]], c.Values[rows[j]])
	})

	return ds.Take(rows), nil
}

func less(a, b dataset.Value) bool {
	if dataset.IsNull(a) || dataset.IsNull(b) {
		return !dataset.IsNull(a) && dataset.IsNull(b)
	}
	if c, ok := dataset.Compare(a, b); ok {
		return c < 0
	}
	return a.String() < b.String()
}

func lessKeys(a, b []dataset.Value) bool {
	for i := range a {
		if less(a[i], b[i]) {
			return true
		}
		if less(b[i], a[i]) {
			return false
		}
	}
	return false
}

func keyString(values []dataset.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d:%s", v.Kind(), v.String())
	}
	return strings.Join(parts, "\x1f")
}
