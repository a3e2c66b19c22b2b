// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package readstrategy

import (
	"encoding/binary"
	"strconv"
	"unicode/utf16"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/solidcoredata/odbcarrow/internal/rowgroup"
)

var pow10 = [...]int64{1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000, 1000000000}

// timeTextPrecisionDigits maps a Time32/Time64 unit to the number of
// fractional-second digits its text cell carries. SQL_TIME_STRUCT has no
// fractional field, so sub-second time is transited as text and parsed back
// into ticks-since-midnight; grounded on original_source/src/reader/time.rs.
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

// timeTextWidth is the driver-facing text cell width ("HH:MM:SS" plus a
// dot and precisionDigits fraction digits), grounded on
// original_source/src/reader/time.rs's BufferDesc::Text{max_str_len}.
func timeTextWidth(precisionDigits int) int {
	return 9 + precisionDigits
}

// timeTextStrategy reads a SQL_TYPE_TIME column whose precision exceeds
// what SQL_TIME_STRUCT can hold, fetched as text ("HH:MM:SS[.fraction]")
// and converted to ticks-since-midnight at the unit's precision. Grounded
// on original_source/src/reader/time.rs's TimeMsI32/TimeUsI64/TimeNsI64.
type timeTextStrategy struct {
	nullable        bool
	wide            bool
	trustIndicator  bool
	bits            int // 32 or 64
	precisionDigits int
}

func (s timeTextStrategy) FillArray(mem memory.Allocator, col *rowgroup.Column, n int) (arrow.Array, error) {
	if s.bits == 64 {
		return s.fill64(mem, col, n)
	}
	return s.fill32(mem, col, n)
}

func (s timeTextStrategy) fill32(mem memory.Allocator, col *rowgroup.Column, n int) (arrow.Array, error) {
	b := array.NewTime32Builder(mem, &arrow.Time32Type{Unit: arrow.Millisecond})
	defer b.Release()
	b.Resize(n)
	for i := 0; i < n; i++ {
		if s.nullable && col.IsNull(i) {
			b.AppendNull()
			continue
		}
		text := s.cellText(col.Row(i), col.ElemLen(i))
		b.Append(arrow.Time32(ticksSinceMidnight(text, s.precisionDigits)))
	}
	return b.NewArray(), nil
}

func (s timeTextStrategy) fill64(mem memory.Allocator, col *rowgroup.Column, n int) (arrow.Array, error) {
	unit := arrow.Microsecond
	if s.precisionDigits == 9 {
		unit = arrow.Nanosecond
	}
	b := array.NewTime64Builder(mem, &arrow.Time64Type{Unit: unit})
	defer b.Release()
	b.Resize(n)
	for i := 0; i < n; i++ {
		if s.nullable && col.IsNull(i) {
			b.AppendNull()
			continue
		}
		text := s.cellText(col.Row(i), col.ElemLen(i))
		b.Append(arrow.Time64(ticksSinceMidnight(text, s.precisionDigits)))
	}
	return b.NewArray(), nil
}

// cellText extracts the driver-reported text for one row, narrow or wide,
// mirroring textStrategy's cell extraction but without the UTF validity
// check: a time-as-text cell is ASCII digits and punctuation the driver
// produced itself, not arbitrary user data.
func (s timeTextStrategy) cellText(row []byte, elemLen int) string {
	if !s.wide {
		if s.trustIndicator && elemLen >= 0 && elemLen < len(row) {
			return string(row[:elemLen])
		}
		for i, c := range row {
			if c == 0 {
				return string(row[:i])
			}
		}
		return string(row)
	}
	units := make([]uint16, len(row)/2)
	for i := range units {
		units[i] = binary.NativeEndian.Uint16(row[2*i : 2*i+2])
	}
	n := len(units)
	if s.trustIndicator && elemLen >= 0 {
		if candidate := elemLen / 2; candidate < n {
			n = candidate
		}
	} else {
		for i, u := range units {
			if u == 0 {
				n = i
				break
			}
		}
	}
	return string(utf16.Decode(units[:n]))
}

// ticksSinceMidnight parses "HH:MM:SS[.fraction]" into an integer ticks
// count at 10^precision ticks per second, truncating any fraction digits
// beyond precision. Grounded on
// original_source/src/reader/time.rs's ticks_since_midnights_from_text.
func ticksSinceMidnight(text string, precision int) int64 {
	if len(text) < 8 {
		return 0
	}
	hours := parseFixedDigits(text[0:2])
	minutes := parseFixedDigits(text[3:5])
	seconds := parseFixedDigits(text[6:8])

	var frac int64
	if len(text) > 9 {
		fracStr := text[9:]
		if len(fracStr) > precision {
			fracStr = fracStr[:precision]
		}
		fracVal, _ := strconv.ParseInt(fracStr, 10, 64)
		frac = fracVal * pow10[precision-len(fracStr)]
	}

	return ((int64(hours)*60+int64(minutes))*60+int64(seconds))*pow10[precision] + frac
}

// parseFixedDigits parses a fixed two-digit decimal field, returning 0 for
// a malformed field rather than propagating a parse error: the field comes
// from driver-produced text, not caller input.
func parseFixedDigits(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}
