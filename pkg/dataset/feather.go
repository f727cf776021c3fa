/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package dataset

import (
	"bytes"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/pkg/errors"
)

// ReadFeather decodes a feather (v2, Arrow IPC file) table. The whole
// stream is buffered since the IPC file footer lives at the end.
func ReadFeather(r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	rdr, err := ipc.NewFileReader(bytes.NewReader(data), ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, errors.Wrap(err, "opening arrow file")
	}
	defer rdr.Close()

	schema := rdr.Schema()
	columns := make([]*Column, schema.NumFields())
	for j, field := range schema.Fields() {
		columns[j] = &Column{Name: field.Name, Kind: kindOf(field.Type)}
	}

	for i := 0; i < rdr.NumRecords(); i++ {
		rec, err := rdr.Record(i)
		if err != nil {
			return nil, errors.Wrapf(err, "reading record batch %d", i)
		}

		for j := range columns {
			arr := rec.Column(j)
			for row := 0; row < arr.Len(); row++ {
				columns[j].Values = append(columns[j].Values, arrowValue(arr, row))
			}
		}
	}

	return New(columns...)
}

func kindOf(dt arrow.DataType) Kind {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return Int
	case arrow.FLOAT32, arrow.FLOAT64:
		return Float
	case arrow.BOOL:
		return Boolean
	case arrow.DATE32, arrow.DATE64, arrow.TIMESTAMP:
		return Time
	case arrow.DICTIONARY:
		return kindOf(dt.(*arrow.DictionaryType).ValueType)
	}
	return String
}

func arrowValue(arr arrow.Array, i int) Value {
	if arr.IsNull(i) {
		return MakeNull()
	}

	switch a := arr.(type) {
	case *array.Int8:
		return MakeInt(int64(a.Value(i)))
	case *array.Int16:
		return MakeInt(int64(a.Value(i)))
	case *array.Int32:
		return MakeInt(int64(a.Value(i)))
	case *array.Int64:
		return MakeInt(a.Value(i))
	case *array.Uint8:
		return MakeInt(int64(a.Value(i)))
	case *array.Uint16:
		return MakeInt(int64(a.Value(i)))
	case *array.Uint32:
		return MakeInt(int64(a.Value(i)))
	case *array.Uint64:
		return MakeInt(int64(a.Value(i)))
	case *array.Float32:
		return MakeFloat(float64(a.Value(i)))
	case *array.Float64:
		return MakeFloat(a.Value(i))
	case *array.Boolean:
		return MakeBoolean(a.Value(i))
	case *array.String:
		return MakeString(a.Value(i))
	case *array.LargeString:
		return MakeString(a.Value(i))
	case *array.Date32:
		return MakeTime(a.Value(i).ToTime())
	case *array.Date64:
		return MakeTime(a.Value(i).ToTime())
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return MakeTime(a.Value(i).ToTime(unit))
	case *array.Dictionary:
		return arrowValue(a.Dictionary(), a.GetValueIndex(i))
	}

	return MakeString(arr.ValueStr(i))
}
