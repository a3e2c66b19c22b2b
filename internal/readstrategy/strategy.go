// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package readstrategy implements component B (Read Strategy) and its
// selector (component D): converting one bound rowgroup.Column of fetched
// ODBC cell bytes into an Arrow array, choosing the conversion by the
// column's bufdesc.Kind and Arrow target type.
package readstrategy

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/solidcoredata/odbcarrow/internal/bufdesc"
	"github.com/solidcoredata/odbcarrow/internal/colfail"
	"github.com/solidcoredata/odbcarrow/internal/rowgroup"
	"github.com/solidcoredata/odbcarrow/internal/schema"
)

// Strategy converts numRows of a bound Column into a freshly built Arrow
// array. Implementations never mutate col; they only read Data/Indicator.
type Strategy interface {
	FillArray(mem memory.Allocator, col *rowgroup.Column, numRows int) (arrow.Array, error)
}

// Select picks the Strategy for f, the pairing schema.Infer produced for
// one result-set column. An unrecognized combination of bufdesc.Kind and
// Arrow type is a programming error in schema inference, not a runtime
// data problem, so Select returns an error rather than panicking only to
// let callers attach column context.
func Select(f schema.Field, q schema.Quirks, mapErrorsToNull bool) (Strategy, error) {
	switch f.Desc.Kind {
	case bufdesc.Bit:
		return boolStrategy{nullable: f.Desc.Nullable}, nil
	case bufdesc.I8:
		return int8Strategy{nullable: f.Desc.Nullable}, nil
	case bufdesc.U8:
		return uint8Strategy{nullable: f.Desc.Nullable}, nil
	case bufdesc.I16:
		return int16Strategy{nullable: f.Desc.Nullable}, nil
	case bufdesc.I32:
		return int32Strategy{nullable: f.Desc.Nullable}, nil
	case bufdesc.I64:
		return int64Strategy{nullable: f.Desc.Nullable}, nil
	case bufdesc.F32:
		return float32Strategy{nullable: f.Desc.Nullable}, nil
	case bufdesc.F64:
		return float64Strategy{nullable: f.Desc.Nullable}, nil
	case bufdesc.Date:
		return dateStrategy{nullable: f.Desc.Nullable}, nil
	case bufdesc.Time:
		unit := arrow.Second
		if t32, ok := f.Arrow.Type.(*arrow.Time32Type); ok {
			unit = t32.Unit
		}
		return timeStrategy{nullable: f.Desc.Nullable, unit: unit}, nil
	case bufdesc.Timestamp:
		unit := arrow.Nanosecond
		if ts, ok := f.Arrow.Type.(*arrow.TimestampType); ok {
			unit = ts.Unit
		}
		return timestampStrategy{nullable: f.Desc.Nullable, unit: unit, mapErrorsToNull: mapErrorsToNull}, nil
	case bufdesc.Text, bufdesc.WText:
		switch dt := f.Arrow.Type.(type) {
		case *arrow.Decimal128Type:
			return decimalStrategy{nullable: f.Desc.Nullable, precision: int(dt.Precision), scale: int(dt.Scale)}, nil
		case *arrow.Time32Type:
			return timeTextStrategy{
				nullable:        f.Desc.Nullable,
				wide:            f.Desc.Kind == bufdesc.WText,
				trustIndicator:  !q.IndicatorsFromBulkFetchAreMemoryGarbage,
				bits:            32,
				precisionDigits: timeTextPrecisionDigits(dt.Unit),
			}, nil
		case *arrow.Time64Type:
			return timeTextStrategy{
				nullable:        f.Desc.Nullable,
				wide:            f.Desc.Kind == bufdesc.WText,
				trustIndicator:  !q.IndicatorsFromBulkFetchAreMemoryGarbage,
				bits:            64,
				precisionDigits: timeTextPrecisionDigits(dt.Unit),
			}, nil
		}
		return textStrategy{
			nullable:        f.Desc.Nullable,
			wide:            f.Desc.Kind == bufdesc.WText,
			trustIndicator:  !q.IndicatorsFromBulkFetchAreMemoryGarbage,
			mapErrorsToNull: mapErrorsToNull,
		}, nil
	case bufdesc.Binary:
		return binaryStrategy{nullable: f.Desc.Nullable}, nil
	case bufdesc.FixedBinary:
		return fixedBinaryStrategy{nullable: f.Desc.Nullable, length: f.Desc.FixedLen}, nil
	}
	return nil, colfail.NewUnsupportedArrowType(f.Arrow.Type)
}
