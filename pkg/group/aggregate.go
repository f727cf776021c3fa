/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package group

import (
	"strings"

	"github.com/dburkart/wizard/pkg/dataset"
	"github.com/pkg/errors"
)

var ErrUnknownFunc = errors.New("unknown aggregation function")

// Func is the aggregation applied to every non-key column of a group.
type Func string

const (
	Mean  Func = "mean"
	Min   Func = "min"
	Max   Func = "max"
	Count Func = "count"
	Sum   Func = "sum"
)

// Funcs lists the supported aggregations in display order.
func Funcs() []Func {
	return []Func{Mean, Min, Max, Count, Sum}
}

func ParseFunc(s string) (Func, error) {
	switch f := Func(strings.ToLower(strings.TrimSpace(s))); f {
	case Mean, Min, Max, Count, Sum:
		return f, nil
	}
	return "", errors.Wrapf(ErrUnknownFunc, "%q", s)
}

// accepts reports whether a column of kind k survives aggregation by f.
// Sums and means only make sense over numbers.
func (f Func) accepts(k dataset.Kind) bool {
	switch f {
	case Sum, Mean:
		return k.Numeric()
	}
	return true
}

// resultKind is the kind of the aggregated column.
func (f Func) resultKind(k dataset.Kind) dataset.Kind {
	switch f {
	case Count:
		return dataset.Int
	case Mean:
		return dataset.Float
	}
	return k
}

// aggregate accumulates one column of one group. Nulls are ignored by
// every function.
type aggregate struct {
	fn    Func
	kind  dataset.Kind
	count int64
	isum  int64
	fsum  float64
	ext   dataset.Value
}

func newAggregate(fn Func, kind dataset.Kind) *aggregate {
	return &aggregate{fn: fn, kind: kind}
}

func (a *aggregate) accumulate(v dataset.Value) {
	if dataset.IsNull(v) {
		return
	}

	switch a.fn {
	case Count:
		a.count++
	case Sum, Mean:
		f, ok := dataset.AsFloat(v)
		if !ok {
			return
		}
		if v.Kind() == dataset.Int {
			a.isum += dataset.IntVal(v)
		}
		a.fsum += f
		a.count++
	case Min:
		if c, ok := dataset.Compare(v, a.ext); a.ext == nil || (ok && c < 0) {
			a.ext = v
		}
	case Max:
		if c, ok := dataset.Compare(v, a.ext); a.ext == nil || (ok && c > 0) {
			a.ext = v
		}
	}
}

func (a *aggregate) result() dataset.Value {
	switch a.fn {
	case Count:
		return dataset.MakeInt(a.count)
	case Sum:
		if a.kind == dataset.Int {
			return dataset.MakeInt(a.isum)
		}
		return dataset.MakeFloat(a.fsum)
	case Mean:
		if a.count == 0 {
			return dataset.MakeNull()
		}
		return dataset.MakeFloat(a.fsum / float64(a.count))
	}

	if a.ext == nil {
		return dataset.MakeNull()
	}
	return a.ext
}
