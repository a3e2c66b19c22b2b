// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package readstrategy

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/solidcoredata/odbcarrow/internal/mapping"
	"github.com/solidcoredata/odbcarrow/internal/rowgroup"
)

// minNanoTime and maxNanoTime bound the calendar times representable as a
// nanosecond-since-epoch int64 (Arrow Timestamp{Unit: Nanosecond}).
var (
	minNanoTime = time.Unix(0, math.MinInt64).UTC()
	maxNanoTime = time.Unix(0, math.MaxInt64).UTC()
)

// odbcDate decodes a 6-byte SQL_DATE_STRUCT: SQLSMALLINT year, SQLUSMALLINT
// month, SQLUSMALLINT day.
func odbcDate(row []byte) (year int, month int, day int) {
	year = int(int16(binary.NativeEndian.Uint16(row[0:2])))
	month = int(binary.NativeEndian.Uint16(row[2:4]))
	day = int(binary.NativeEndian.Uint16(row[4:6]))
	return
}

// odbcTime decodes a 6-byte SQL_TIME_STRUCT: SQLUSMALLINT hour, minute,
// second.
func odbcTime(row []byte) (hour, minute, second int) {
	hour = int(binary.NativeEndian.Uint16(row[0:2]))
	minute = int(binary.NativeEndian.Uint16(row[2:4]))
	second = int(binary.NativeEndian.Uint16(row[4:6]))
	return
}

// odbcTimestamp decodes a 16-byte SQL_TIMESTAMP_STRUCT: date (6 bytes),
// time (6 bytes), SQLUINTEGER fraction in nanoseconds (4 bytes).
func odbcTimestamp(row []byte) (year, month, day, hour, minute, second int, nanos int) {
	year, month, day = odbcDate(row[0:6])
	hour, minute, second = odbcTime(row[6:12])
	nanos = int(binary.NativeEndian.Uint32(row[12:16]))
	return
}

// daysSinceEpoch is the Go analogue of original_source's
// read_strategy/date_time.rs days_since_epoch, using the standard library
// instead of chrono.
func daysSinceEpoch(year, month, day int) int32 {
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	epoch := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	return int32(d.Sub(epoch).Hours() / 24)
}

type dateStrategy struct{ nullable bool }

func (s dateStrategy) FillArray(mem memory.Allocator, col *rowgroup.Column, n int) (arrow.Array, error) {
	b := array.NewDate32Builder(mem)
	defer b.Release()
	b.Resize(n)
	for i := 0; i < n; i++ {
		if s.nullable && col.IsNull(i) {
			b.AppendNull()
			continue
		}
		y, m, d := odbcDate(col.Row(i))
		b.Append(arrow.Date32(daysSinceEpoch(y, m, d)))
	}
	return b.NewArray(), nil
}

// timeStrategy converts SQL_TYPE_TIME to Time32 seconds-since-midnight, the
// only precision ODBC's SQL_TIME_STRUCT can represent (sub-second time is
// fetched as text and read by timeTextStrategy instead).
type timeStrategy struct {
	nullable bool
	unit     arrow.TimeUnit
}

func (s timeStrategy) FillArray(mem memory.Allocator, col *rowgroup.Column, n int) (arrow.Array, error) {
	b := array.NewTime32Builder(mem, &arrow.Time32Type{Unit: s.unit})
	defer b.Release()
	b.Resize(n)
	for i := 0; i < n; i++ {
		if s.nullable && col.IsNull(i) {
			b.AppendNull()
			continue
		}
		h, m, sec := odbcTime(col.Row(i))
		secondsSinceMidnight := h*3600 + m*60 + sec
		b.Append(arrow.Time32(secondsSinceMidnight))
	}
	return b.NewArray(), nil
}

// timestampStrategy converts SQL_TYPE_TIMESTAMP to the Timestamp unit the
// schema inferred from the column's reported fractional-seconds digits.
// Every unit is computed from the calendar time.Time (Unix, UnixMilli,
// UnixMicro, UnixNano), never by scaling another unit's count, so the
// microsecond case truncates sub-microsecond precision and nothing more.
type timestampStrategy struct {
	nullable bool
	unit     arrow.TimeUnit
	// mapErrorsToNull: when set, a nanosecond timestamp that overflows
	// int64 becomes a null cell instead of aborting the batch. Grounded on
	// original_source/src/reader/map_odbc_to_arrow.rs's
	// MappingError::OutOfRangeTimestampNs handling under value_errors_as_null.
	mapErrorsToNull bool
}

func (s timestampStrategy) FillArray(mem memory.Allocator, col *rowgroup.Column, n int) (arrow.Array, error) {
	b := array.NewTimestampBuilder(mem, &arrow.TimestampType{Unit: s.unit})
	defer b.Release()
	b.Resize(n)
	for i := 0; i < n; i++ {
		if s.nullable && col.IsNull(i) {
			b.AppendNull()
			continue
		}
		y, mo, d, h, mi, sec, nanos := odbcTimestamp(col.Row(i))
		t := time.Date(y, time.Month(mo), d, h, mi, sec, nanos, time.UTC)
		if s.unit == arrow.Nanosecond && (t.Before(minNanoTime) || t.After(maxNanoTime)) {
			if s.mapErrorsToNull {
				b.AppendNull()
				continue
			}
			return nil, mapping.OutOfRangeTimestampNsError(t)
		}
		var v int64
		switch s.unit {
		case arrow.Second:
			v = t.Unix()
		case arrow.Millisecond:
			v = t.UnixMilli()
		case arrow.Microsecond:
			v = t.UnixMicro()
		case arrow.Nanosecond:
			v = t.UnixNano()
		}
		b.Append(arrow.Timestamp(v))
	}
	return b.NewArray(), nil
}
