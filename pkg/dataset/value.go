/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type Kind int

const (
	Null Kind = iota

	Boolean
	String
	Int
	Float
	Time
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Boolean:
		return "bool"
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Time:
		return "datetime"
	}
	return "unknown"
}

// Numeric reports whether values of kind k can be compared as numbers.
func (k Kind) Numeric() bool {
	return k == Int || k == Float
}

type Value interface {
	Kind() Kind
	String() string
}

type (
	nullVal    struct{}
	booleanVal bool
	stringVal  string
	intVal     int64
	floatVal   float64
	timeVal    time.Time
)

func (nullVal) Kind() Kind    { return Null }
func (booleanVal) Kind() Kind { return Boolean }
func (stringVal) Kind() Kind  { return String }
func (intVal) Kind() Kind     { return Int }
func (floatVal) Kind() Kind   { return Float }
func (timeVal) Kind() Kind    { return Time }

func (nullVal) String() string      { return "" }
func (b booleanVal) String() string { return strconv.FormatBool(bool(b)) }
func (s stringVal) String() string  { return string(s) }
func (i intVal) String() string     { return strconv.FormatInt(int64(i), 10) }
func (f floatVal) String() string   { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (t timeVal) String() string {
	tm := time.Time(t)
	if tm.Hour() == 0 && tm.Minute() == 0 && tm.Second() == 0 && tm.Nanosecond() == 0 {
		return tm.Format("2006-01-02")
	}
	return tm.Format(time.RFC3339)
}

func MakeNull() Value            { return nullVal{} }
func MakeBoolean(b bool) Value   { return booleanVal(b) }
func MakeString(s string) Value  { return stringVal(s) }
func MakeInt(i int64) Value      { return intVal(i) }
func MakeTime(t time.Time) Value { return timeVal(t) }
func MakeFloat(f float64) Value {
	if math.IsNaN(f) {
		return nullVal{}
	}
	return floatVal(f)
}

// MakeFromAny converts a decoded JSON / YAML scalar into a Value.
func MakeFromAny(v any) Value {
	switch x := v.(type) {
	case nil:
		return MakeNull()
	case Value:
		return x
	case bool:
		return MakeBoolean(x)
	case string:
		return MakeString(x)
	case int:
		return MakeInt(int64(x))
	case int32:
		return MakeInt(int64(x))
	case int64:
		return MakeInt(x)
	case float32:
		return MakeFloat(float64(x))
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return MakeInt(int64(x))
		}
		return MakeFloat(x)
	case time.Time:
		return MakeTime(x)
	case fmt.Stringer:
		return MakeString(x.String())
	}
	return MakeString(fmt.Sprint(v))
}

// Interface returns the Go value backing v, suitable for JSON encoding.
func Interface(v Value) any {
	switch x := v.(type) {
	case booleanVal:
		return bool(x)
	case stringVal:
		return string(x)
	case intVal:
		return int64(x)
	case floatVal:
		return float64(x)
	case timeVal:
		return x.String()
	}
	return nil
}

func IsNull(v Value) bool {
	return v == nil || v.Kind() == Null
}

// AsFloat returns the numeric value of v.
func AsFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case intVal:
		return float64(x), true
	case floatVal:
		return float64(x), true
	}
	return 0, false
}

func IntVal(v Value) int64 {
	switch x := v.(type) {
	case intVal:
		return int64(x)
	default:
		panic("Not an int")
	}
}

// TimeVal returns v as a time. String values are parsed with
// ParseVagueDateTime.
func TimeVal(v Value) (time.Time, bool) {
	switch x := v.(type) {
	case timeVal:
		return time.Time(x), true
	case stringVal:
		t, err := ParseVagueDateTime(strings.TrimSpace(string(x)))
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

// Compare orders a and b. The second return is false when the two values
// cannot be ordered against each other; nulls are never comparable.
func Compare(a, b Value) (int, bool) {
	if IsNull(a) || IsNull(b) {
		return 0, false
	}

	if af, ok := AsFloat(a); ok {
		bf, ok := AsFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}

	switch x := a.(type) {
	case stringVal:
		y, ok := b.(stringVal)
		if !ok {
			return 0, false
		}
		return strings.Compare(string(x), string(y)), true
	case timeVal:
		y, ok := b.(timeVal)
		if !ok {
			return 0, false
		}
		return time.Time(x).Compare(time.Time(y)), true
	case booleanVal:
		y, ok := b.(booleanVal)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !bool(x):
			return -1, true
		}
		return 1, true
	}

	return 0, false
}

// Equal reports whether a and b hold the same value. Numbers compare
// numerically across Int and Float.
func Equal(a, b Value) bool {
	c, ok := Compare(a, b)
	return ok && c == 0
}

// ParseCell infers the value of a single delimited-text cell.
func ParseCell(s string) Value {
	if s == "" {
		return MakeNull()
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return MakeInt(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return MakeFloat(f)
	}
	if b, ok := parseBool(s); ok {
		return MakeBoolean(b)
	}
	return MakeString(s)
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}
