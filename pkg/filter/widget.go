/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package filter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dburkart/wizard/pkg/dataset"
	"github.com/pkg/errors"
)

var ErrUnknownWidget = errors.New("unknown widget")

// WidgetType is the control a user picks to filter a column.
type WidgetType string

const (
	Dropdown        WidgetType = "dropdown"
	RangeSlider     WidgetType = "rangeslider"
	DatePickerRange WidgetType = "datepickerrange"
)

// WidgetTypes lists the controls offered for every column, in display order.
func WidgetTypes() []WidgetType {
	return []WidgetType{Dropdown, RangeSlider, DatePickerRange}
}

func ParseWidgetType(s string) (WidgetType, error) {
	switch t := WidgetType(strings.ToLower(strings.TrimSpace(s))); t {
	case Dropdown, RangeSlider, DatePickerRange:
		return t, nil
	}
	return "", errors.Wrapf(ErrUnknownWidget, "%q", s)
}

// Kind is the filter kind produced by a widget of this type.
func (t WidgetType) Kind() Kind {
	switch t {
	case RangeSlider:
		return KindRange
	case DatePickerRange:
		return KindDate
	}
	return KindSet
}

type Option struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

// Widget describes the control generated for one column.
type Widget struct {
	Column  string     `json:"column"`
	Type    WidgetType `json:"type"`
	Kind    Kind       `json:"kind"`
	Options []Option   `json:"options,omitempty"`
	Min     *float64   `json:"min,omitempty"`
	Max     *float64   `json:"max,omitempty"`
	MinDate string     `json:"min_date,omitempty"`
	MaxDate string     `json:"max_date,omitempty"`

	// Warning is set when the column could not be described fully and the
	// widget fell back to an unbounded control.
	Warning string `json:"warning,omitempty"`
}

// Describe builds the widget of type t for a column of ds.
func Describe(ds *dataset.Dataset, column string, t WidgetType) (*Widget, error) {
	col, err := ds.Column(column)
	if err != nil {
		return nil, err
	}

	w := &Widget{Column: column, Type: t, Kind: t.Kind()}

	switch t {
	case Dropdown:
		distinct, err := ds.Distinct(column)
		if err != nil {
			return nil, err
		}
		w.Options = make([]Option, len(distinct))
		for i, v := range distinct {
			w.Options[i] = Option{Label: v.String(), Value: dataset.Interface(v)}
		}
	case RangeSlider:
		if !col.Kind.Numeric() {
			return nil, errors.Wrapf(ErrNotNumeric, "%q is %s", column, col.Kind)
		}
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, v := range col.Values {
			f, ok := dataset.AsFloat(v)
			if !ok {
				continue
			}
			lo = math.Min(lo, f)
			hi = math.Max(hi, f)
		}
		if lo <= hi {
			w.Min, w.Max = &lo, &hi
		}
	case DatePickerRange:
		describeDates(w, col)
	default:
		return nil, errors.Wrapf(ErrUnknownWidget, "%q", t)
	}

	return w, nil
}

// describeDates fills in the date bounds. A column that does not parse as
// dates yields an unbounded picker with a warning.
func describeDates(w *Widget, col *dataset.Column) {
	var lo, hi time.Time
	seen := false

	for _, v := range col.Values {
		if dataset.IsNull(v) {
			continue
		}
		t, ok := dataset.TimeVal(v)
		if !ok {
			w.Warning = fmt.Sprintf("column %q does not contain dates (%q)", col.Name, v.String())
			return
		}
		if !seen || t.Before(lo) {
			lo = t
		}
		if !seen || t.After(hi) {
			hi = t
		}
		seen = true
	}

	if seen {
		w.MinDate = lo.Format("2006-01-02")
		w.MaxDate = hi.Format("2006-01-02")
	}
}
