/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Format identifies a supported on-disk table encoding.
type Format string

const (
	FormatUnknown Format = ""
	FormatCSV     Format = "csv"
	FormatFeather Format = "feather"
)

// FormatOf picks a Format from a file name's extension.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV
	case ".feather":
		return FormatFeather
	}
	return FormatUnknown
}

// Read decodes r according to the extension of name. Unsupported
// extensions produce an empty dataset rather than an error.
func Read(name string, r io.Reader) (*Dataset, error) {
	switch FormatOf(name) {
	case FormatCSV:
		ds, err := ReadCSV(r)
		return ds, errors.Wrapf(err, "reading %s", name)
	case FormatFeather:
		ds, err := ReadFeather(r)
		return ds, errors.Wrapf(err, "reading %s", name)
	}
	return Empty(), nil
}

// Load reads the file at path.
func Load(path string) (*Dataset, error) {
	if FormatOf(path) == FormatUnknown {
		return Empty(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(path, file)
}

// Cells treated as missing, following the conventions of common dataframe
// tooling.
var naValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

func isNA(s string) bool {
	_, ok := naValues[s]
	return ok
}

// ReadCSV parses delimited text with a header row. Each column's Kind is
// inferred from all of its cells: Int, then Float, then Boolean, falling
// back to String.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err == io.EOF {
		return Empty(), nil
	}
	if err != nil {
		return nil, err
	}

	raw := make([][]string, len(header))
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for j, cell := range record {
			raw[j] = append(raw[j], cell)
		}
	}

	names := uniqueNames(header)
	columns := make([]*Column, len(header))
	for j := range header {
		columns[j] = inferColumn(names[j], raw[j])
	}

	return New(columns...)
}

// uniqueNames names blank headers "Unnamed: <index>" and suffixes repeats
// with ".1", ".2", ... skipping suffixed names already taken.
func uniqueNames(header []string) []string {
	names := make([]string, len(header))
	taken := make(map[string]struct{}, len(header))
	counts := make(map[string]int)

	for j, name := range header {
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(j)
		}
		unique := name
		for {
			if _, ok := taken[unique]; !ok {
				break
			}
			counts[name]++
			unique = name + "." + strconv.Itoa(counts[name])
		}
		taken[unique] = struct{}{}
		names[j] = unique
	}

	return names
}

func inferColumn(name string, cells []string) *Column {
	kind := inferKind(cells)
	values := make([]Value, len(cells))

	for i, cell := range cells {
		if isNA(cell) {
			values[i] = MakeNull()
			continue
		}
		switch kind {
		case Int:
			n, _ := strconv.ParseInt(cell, 10, 64)
			values[i] = MakeInt(n)
		case Float:
			f, _ := strconv.ParseFloat(cell, 64)
			values[i] = MakeFloat(f)
		case Boolean:
			b, _ := parseBool(cell)
			values[i] = MakeBoolean(b)
		default:
			values[i] = MakeString(cell)
		}
	}

	return &Column{Name: name, Kind: kind, Values: values}
}

func inferKind(cells []string) Kind {
	isInt, isFloat, isBool := true, true, true
	present := 0

	for _, cell := range cells {
		if isNA(cell) {
			continue
		}
		present++
		if isInt {
			if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				isFloat = false
			}
		}
		if isBool {
			if _, ok := parseBool(cell); !ok {
				isBool = false
			}
		}
	}

	switch {
	case present == 0:
		return Float
	case isInt:
		return Int
	case isFloat:
		return Float
	case isBool:
		return Boolean
	}
	return String
}
