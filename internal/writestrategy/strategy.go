// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package writestrategy implements component C (Write Strategy) and its
// selector (component E): converting one column of an incoming Arrow
// record into the bound parameter column of a rowgroup.Buffer for bulk
// insert.
package writestrategy

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"

	"github.com/solidcoredata/odbcarrow/internal/bufdesc"
	"github.com/solidcoredata/odbcarrow/internal/rowgroup"
	"github.com/solidcoredata/odbcarrow/internal/schema"
)

// ErrNeedsGrow is returned by WriteRows when a variable-length column
// (Text, WText, Binary) cannot hold the widest element in this batch at
// its current cell width. The caller (the batch writer, component I)
// resizes the column's descriptor via rowgroup.Column.Resize, rebinds it
// with the Inserter, and retries WriteRows from the same paramOffset. This
// is the Go analogue of ensure_max_element_length's rebind-on-grow, done
// once per batch instead of once per row.
type ErrNeedsGrow struct {
	NewMaxLen int
}

func (e *ErrNeedsGrow) Error() string {
	return fmt.Sprintf("writestrategy: column needs to grow to max length %d", e.NewMaxLen)
}

// Strategy copies numRows of arr into col, starting at row paramOffset
// within col's bound capacity.
type Strategy interface {
	WriteRows(col *rowgroup.Column, paramOffset int, arr arrow.Array) error
}

// Select picks the Strategy for f and returns the initial Descriptor to
// bind the parameter column with (variable-length columns start small and
// grow via ErrNeedsGrow as wide cells are observed). preferWide chooses
// SQL_C_WCHAR over SQL_C_CHAR for Utf8 columns. original_source picks
// this by target OS (Utf8ToWide on Windows, Utf8ToNarrow elsewhere);
// odbcarrow makes it a WriterOptions knob instead, since the choice really
// depends on the driver's preferred encoding, not the client OS.
func Select(f schema.Field, timeZone string, preferWide bool) (Strategy, bufdesc.Descriptor, error) {
	nullable := f.Arrow.Nullable
	switch dt := f.Arrow.Type.(type) {
	case *arrow.BooleanType:
		return boolStrategy{nullable: nullable}, bufdesc.NewBit(nullable), nil
	case *arrow.Int8Type:
		return int8Strategy{nullable: nullable}, bufdesc.NewI8(nullable), nil
	case *arrow.Uint8Type:
		return uint8Strategy{nullable: nullable}, bufdesc.NewU8(nullable), nil
	case *arrow.Int16Type:
		return int16Strategy{nullable: nullable}, bufdesc.NewI16(nullable), nil
	case *arrow.Int32Type:
		return int32Strategy{nullable: nullable}, bufdesc.NewI32(nullable), nil
	case *arrow.Int64Type:
		return int64Strategy{nullable: nullable}, bufdesc.NewI64(nullable), nil
	case *arrow.Float32Type:
		return float32Strategy{nullable: nullable}, bufdesc.NewF32(nullable), nil
	case *arrow.Float64Type:
		return float64Strategy{nullable: nullable}, bufdesc.NewF64(nullable), nil
	case *arrow.Date32Type:
		return dateStrategy{nullable: nullable}, bufdesc.NewDate(nullable), nil
	case *arrow.Time32Type:
		if dt.Unit == arrow.Second {
			return time32Strategy{nullable: nullable}, bufdesc.NewTime(nullable), nil
		}
		width := timeTextWidth(timeTextPrecisionDigits(dt.Unit))
		return timeTextStrategy{nullable: nullable, bits: 32, unit: dt.Unit}, bufdesc.NewText(width, nullable), nil
	case *arrow.Time64Type:
		width := timeTextWidth(timeTextPrecisionDigits(dt.Unit))
		return timeTextStrategy{nullable: nullable, bits: 64, unit: dt.Unit}, bufdesc.NewText(width, nullable), nil
	case *arrow.TimestampType:
		if dt.TimeZone != "" || timeZone != "" {
			tz := dt.TimeZone
			if tz == "" {
				tz = timeZone
			}
			width := timestampTzTextWidth(dt.Unit)
			return timestampTzStrategy{nullable: nullable, unit: dt.Unit, timeZone: tz}, bufdesc.NewText(width, nullable), nil
		}
		return timestampStrategy{nullable: nullable, unit: dt.Unit}, bufdesc.NewTimestamp(nullable), nil
	case *arrow.Decimal128Type:
		width := int(dt.Precision) + 2
		return decimalStrategy{nullable: nullable, scale: int(dt.Scale)}, bufdesc.NewText(width, nullable), nil
	case *arrow.StringType, *arrow.LargeStringType:
		if preferWide {
			return wideTextStrategy{nullable: nullable}, bufdesc.NewWText(1, nullable), nil
		}
		return textStrategy{nullable: nullable}, bufdesc.NewText(1, nullable), nil
	case *arrow.BinaryType, *arrow.LargeBinaryType:
		return binaryStrategy{nullable: nullable}, bufdesc.NewBinary(1, nullable), nil
	case *arrow.FixedSizeBinaryType:
		return fixedBinaryStrategy{nullable: nullable, length: dt.ByteWidth}, bufdesc.NewFixedBinary(dt.ByteWidth, nullable), nil
	}
	return nil, bufdesc.Descriptor{}, fmt.Errorf("writestrategy: no strategy for arrow type %s", f.Arrow.Type)
}
