/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package filter

import (
	"time"

	"github.com/dburkart/wizard/pkg/dataset"
	"github.com/pkg/errors"
)

// A Predicate decides whether a single cell passes.
type Predicate func(v dataset.Value) bool

// A Filter clears the mask entries of rows it rejects. Rows already
// rejected are not examined again.
type Filter func(ds *dataset.Dataset, mask []bool) error

type Filters []Filter

// Execute applies every filter in order and returns the surviving rows.
func (f Filters) Execute(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if len(f) == 0 {
		return ds, nil
	}

	mask := make([]bool, ds.NumRows())
	for i := range mask {
		mask[i] = true
	}

	for _, filter := range f {
		if err := filter(ds, mask); err != nil {
			return nil, err
		}
	}

	return ds.Select(mask), nil
}

// Compile turns specs into filters. Empty specs compile to nothing.
func Compile(specs []Spec) (Filters, error) {
	var filters Filters
	for _, s := range specs {
		if s.IsEmpty() {
			continue
		}
		f, err := s.Filter()
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// Apply restricts ds to the rows satisfying every spec.
func Apply(ds *dataset.Dataset, specs []Spec) (*dataset.Dataset, error) {
	filters, err := Compile(specs)
	if err != nil {
		return nil, err
	}
	return filters.Execute(ds)
}

// Filter binds the spec's predicate to its column.
func (s Spec) Filter() (Filter, error) {
	pred, err := s.Predicate()
	if err != nil {
		return nil, err
	}

	return func(ds *dataset.Dataset, mask []bool) error {
		col, err := ds.Column(s.Column)
		if err != nil {
			return err
		}
		for i, v := range col.Values {
			if mask[i] && !pred(v) {
				mask[i] = false
			}
		}
		return nil
	}, nil
}

// Predicate builds the cell test for the spec.
func (s Spec) Predicate() (Predicate, error) {
	if s.IsEmpty() {
		return func(dataset.Value) bool { return true }, nil
	}

	switch s.Kind {
	case KindSet:
		return membership(s.Values), nil
	case KindEquals:
		return membership([]any{s.Value}), nil
	case KindRange:
		return numericRange(s.Low, s.High), nil
	case KindDate:
		return s.dateRange()
	}

	return nil, errors.Wrapf(ErrUnknownKind, "%q on column %q", s.Kind, s.Column)
}

func membership(raw []any) Predicate {
	values := make([]dataset.Value, len(raw))
	for i, r := range raw {
		values[i] = dataset.MakeFromAny(r)
	}

	return func(v dataset.Value) bool {
		if dataset.IsNull(v) {
			return false
		}
		for _, want := range values {
			if dataset.Equal(v, want) {
				return true
			}
			if want.Kind() == dataset.String && v.String() == want.String() {
				return true
			}
		}
		return false
	}
}

func numericRange(low, high *float64) Predicate {
	return func(v dataset.Value) bool {
		f, ok := dataset.AsFloat(v)
		if !ok {
			return false
		}
		if low != nil && f < *low {
			return false
		}
		if high != nil && f > *high {
			return false
		}
		return true
	}
}

func (s Spec) dateRange() (Predicate, error) {
	var start, end *time.Time

	if s.Start != "" {
		t, err := dataset.ParseVagueDateTime(s.Start)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidBound, "start date %q on column %q", s.Start, s.Column)
		}
		start = &t
	}
	if s.End != "" {
		t, err := dataset.ParseVagueDateTime(s.End)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidBound, "end date %q on column %q", s.End, s.Column)
		}
		end = &t
	}

	return func(v dataset.Value) bool {
		t, ok := dataset.TimeVal(v)
		if !ok {
			return false
		}
		if start != nil && t.Before(*start) {
			return false
		}
		if end != nil && t.After(*end) {
			return false
		}
		return true
	}, nil
}
