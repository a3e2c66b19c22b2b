// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package writestrategy

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"

	"github.com/solidcoredata/odbcarrow/internal/rowgroup"
)

// timeTextPrecisionDigits mirrors readstrategy's helper of the same name:
// the number of fractional-second digits a Time32/Time64 unit needs when
// formatted as "HH:MM:SS.fraction" text for the driver.
func timeTextPrecisionDigits(unit arrow.TimeUnit) int {
	switch unit {
	case arrow.Millisecond:
		return 3
	case arrow.Microsecond:
		return 6
	default:
		return 9
	}
}

// timeTextWidth is the text cell width for a given fraction-digit count:
// "HH:MM:SS" (8 bytes) plus a dot plus the fraction digits.
func timeTextWidth(precisionDigits int) int {
	return 9 + precisionDigits
}

// timeTextStrategy writes a sub-second-precision Time32/Time64 column as
// "HH:MM:SS.fraction" text, the inverse of readstrategy's timeTextStrategy
// and the write-side counterpart of the original implementation's
// NullableTimeAsText<T>, grounded on original_source/src/date_time.rs's
// NullableTime32AsText::write_rows.
type timeTextStrategy struct {
	nullable bool
	bits     int // 32 or 64
	unit     arrow.TimeUnit
}

func (s timeTextStrategy) WriteRows(col *rowgroup.Column, off int, a arrow.Array) error {
	precision := timeTextPrecisionDigits(s.unit)
	if s.bits == 64 {
		arr, ok := a.(*array.Time64)
		if !ok {
			return fmt.Errorf("writestrategy: expected *array.Time64, got %T", a)
		}
		return writeTicksAsText(col, off, arr.Len(), precision, func(i int) (int64, bool) {
			return int64(arr.Value(i)), arr.IsNull(i)
		})
	}
	arr, ok := a.(*array.Time32)
	if !ok {
		return fmt.Errorf("writestrategy: expected *array.Time32, got %T", a)
	}
	return writeTicksAsText(col, off, arr.Len(), precision, func(i int) (int64, bool) {
		return int64(arr.Value(i)), arr.IsNull(i)
	})
}

// writeTicksAsText formats each row's ticks-since-midnight value as
// "HH:MM:SS.fraction" text at the given fractional-second precision and
// copies it into col, growing the caller's descriptor first if needed.
func writeTicksAsText(col *rowgroup.Column, off, n, precision int, value func(i int) (ticks int64, isNull bool)) error {
	texts := make([]string, n)
	maxLen := 0
	for i := 0; i < n; i++ {
		ticks, isNull := value(i)
		if isNull {
			continue
		}
		texts[i] = formatTicksAsText(ticks, precision)
		if len(texts[i]) > maxLen {
			maxLen = len(texts[i])
		}
	}
	if maxLen > col.Desc.MaxStrLen {
		return &ErrNeedsGrow{NewMaxLen: maxLen}
	}
	for i := 0; i < n; i++ {
		_, isNull := value(i)
		if isNull {
			col.SetNull(off + i)
			continue
		}
		written := copy(col.Row(off+i), texts[i])
		col.SetElemLen(off+i, written)
	}
	return nil
}

// formatTicksAsText renders a ticks-since-midnight count (10^precision
// ticks per second) as "HH:MM:SS.fraction", the exact inverse of
// readstrategy's ticksSinceMidnight. Grounded on
// original_source/src/date_time.rs's NullableTime32AsText::write_rows.
func formatTicksAsText(ticks int64, precision int) string {
	unitPerSecond := pow10[precision]
	unitPerMinute := 60 * unitPerSecond
	unitPerHour := 60 * unitPerMinute

	hour := ticks / unitPerHour
	minute := (ticks % unitPerHour) / unitPerMinute
	second := (ticks % unitPerMinute) / unitPerSecond
	fraction := ticks % unitPerSecond

	return fmt.Sprintf("%02d:%02d:%02d.%0*d", hour, minute, second, precision, fraction)
}

var pow10 = [...]int64{1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000, 1000000000}
