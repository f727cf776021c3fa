/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package filter

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUnknownKind  = errors.New("unknown filter kind")
	ErrInvalidBound = errors.New("invalid filter bound")
	ErrNotNumeric   = errors.New("column is not numeric")
)

// Kind tags a Spec with the predicate it describes. The kind is always
// carried explicitly; it is never guessed from the shape of the value.
type Kind string

const (
	KindSet    Kind = "set"
	KindRange  Kind = "range"
	KindDate   Kind = "date"
	KindEquals Kind = "equals"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindSet, KindRange, KindDate, KindEquals:
		return k, nil
	}
	return "", errors.Wrapf(ErrUnknownKind, "%q", s)
}

// Spec is one column-level row predicate. Only the fields belonging to
// Kind are consulted.
type Spec struct {
	Column string `json:"column" yaml:"column"`
	Kind   Kind   `json:"kind" yaml:"kind"`

	// KindSet
	Values []any `json:"values,omitempty" yaml:"values,omitempty"`

	// KindRange, inclusive; a nil bound is open.
	Low  *float64 `json:"low,omitempty" yaml:"low,omitempty"`
	High *float64 `json:"high,omitempty" yaml:"high,omitempty"`

	// KindDate, inclusive; an empty bound is open.
	Start string `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	End   string `json:"end_date,omitempty" yaml:"end_date,omitempty"`

	// KindEquals
	Value any `json:"value,omitempty" yaml:"value,omitempty"`
}

func Set(column string, values ...any) Spec {
	return Spec{Column: column, Kind: KindSet, Values: values}
}

func Range(column string, low, high float64) Spec {
	return Spec{Column: column, Kind: KindRange, Low: &low, High: &high}
}

func DateRange(column, start, end string) Spec {
	return Spec{Column: column, Kind: KindDate, Start: start, End: end}
}

func Equals(column string, value any) Spec {
	return Spec{Column: column, Kind: KindEquals, Value: value}
}

// IsEmpty reports whether the spec carries no value, in which case it
// passes every row.
func (s Spec) IsEmpty() bool {
	switch s.Kind {
	case KindSet:
		return len(s.Values) == 0
	case KindRange:
		return s.Low == nil && s.High == nil
	case KindDate:
		return s.Start == "" && s.End == ""
	case KindEquals:
		if s.Value == nil {
			return true
		}
		str, ok := s.Value.(string)
		return ok && str == ""
	}
	return false
}
