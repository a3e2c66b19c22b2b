// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package writestrategy

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"

	"github.com/solidcoredata/odbcarrow/internal/rowgroup"
)

func putOdbcDate(row []byte, t time.Time) {
	binary.NativeEndian.PutUint16(row[0:2], uint16(int16(t.Year())))
	binary.NativeEndian.PutUint16(row[2:4], uint16(t.Month()))
	binary.NativeEndian.PutUint16(row[4:6], uint16(t.Day()))
}

func putOdbcTime(row []byte, t time.Time) {
	binary.NativeEndian.PutUint16(row[0:2], uint16(t.Hour()))
	binary.NativeEndian.PutUint16(row[2:4], uint16(t.Minute()))
	binary.NativeEndian.PutUint16(row[4:6], uint16(t.Second()))
}

func putOdbcTimestamp(row []byte, t time.Time) {
	putOdbcDate(row[0:6], t)
	putOdbcTime(row[6:12], t)
	binary.NativeEndian.PutUint32(row[12:16], uint32(t.Nanosecond()))
}

// epochToTime mirrors original_source's odbc_writer/timestamp.rs
// epoch_to_timestamp_{s,ms,us,ns}: rebuild a calendar time.Time from an
// Arrow Timestamp scalar at the given unit.
func epochToTime(v int64, unit arrow.TimeUnit) time.Time {
	switch unit {
	case arrow.Second:
		return time.Unix(v, 0).UTC()
	case arrow.Millisecond:
		return time.UnixMilli(v).UTC()
	case arrow.Microsecond:
		return time.UnixMicro(v).UTC()
	default:
		return time.Unix(0, v).UTC()
	}
}

type dateStrategy struct{ nullable bool }

func (s dateStrategy) WriteRows(col *rowgroup.Column, off int, a arrow.Array) error {
	arr, ok := a.(*array.Date32)
	if !ok {
		return fmt.Errorf("writestrategy: expected *array.Date32, got %T", a)
	}
	epoch := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			col.SetNull(off + i)
			continue
		}
		t := epoch.AddDate(0, 0, int(arr.Value(i)))
		putOdbcDate(col.Row(off+i), t)
	}
	return nil
}

// time32Strategy writes a Time32{Unit: Second} column into SQL_TIME_STRUCT
// directly: seconds-since-midnight is the only precision that struct can
// hold. Sub-second Time32/Time64 columns use timeTextStrategy instead.
type time32Strategy struct {
	nullable bool
}

func (s time32Strategy) WriteRows(col *rowgroup.Column, off int, a arrow.Array) error {
	arr, ok := a.(*array.Time32)
	if !ok {
		return fmt.Errorf("writestrategy: expected *array.Time32, got %T", a)
	}
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			col.SetNull(off + i)
			continue
		}
		t := time.Unix(int64(arr.Value(i)), 0).UTC()
		putOdbcTime(col.Row(off+i), t)
	}
	return nil
}

type timestampStrategy struct {
	nullable bool
	unit     arrow.TimeUnit
}

func (s timestampStrategy) WriteRows(col *rowgroup.Column, off int, a arrow.Array) error {
	arr, ok := a.(*array.Timestamp)
	if !ok {
		return fmt.Errorf("writestrategy: expected *array.Timestamp, got %T", a)
	}
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			col.SetNull(off + i)
			continue
		}
		t := epochToTime(int64(arr.Value(i)), s.unit)
		putOdbcTimestamp(col.Row(off+i), t)
	}
	return nil
}

// timestampTzStrategy writes a timestamp-with-time-zone column as text,
// grounded on original_source's odbc_writer/timestamp.rs TimestampTzToText:
// SQL_SS_TIMESTAMPOFFSET is a Microsoft extension, not ODBC standard, so
// the portable path is a formatted string literal.
type timestampTzStrategy struct {
	nullable bool
	unit     arrow.TimeUnit
	timeZone string
}

func timestampTzTextWidth(unit arrow.TimeUnit) int {
	switch unit {
	case arrow.Second:
		return 25
	case arrow.Millisecond:
		return 29
	case arrow.Microsecond:
		return 32
	default:
		return 35
	}
}

func (s timestampTzStrategy) WriteRows(col *rowgroup.Column, off int, a arrow.Array) error {
	arr, ok := a.(*array.Timestamp)
	if !ok {
		return fmt.Errorf("writestrategy: expected *array.Timestamp, got %T", a)
	}
	loc, err := time.LoadLocation(s.timeZone)
	if err != nil {
		return fmt.Errorf("writestrategy: invalid time zone %q: %w", s.timeZone, err)
	}
	layout := tzLayout(s.unit)
	maxLen := 0
	texts := make([]string, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			continue
		}
		t := epochToTime(int64(arr.Value(i)), s.unit).In(loc)
		texts[i] = t.Format(layout)
		if len(texts[i]) > maxLen {
			maxLen = len(texts[i])
		}
	}
	if maxLen > col.Desc.MaxStrLen {
		return &ErrNeedsGrow{NewMaxLen: maxLen}
	}
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			col.SetNull(off + i)
			continue
		}
		n := copy(col.Row(off+i), texts[i])
		col.SetElemLen(off+i, n)
	}
	return nil
}

func tzLayout(unit arrow.TimeUnit) string {
	switch unit {
	case arrow.Second:
		return "2006-01-02 15:04:05Z07:00"
	case arrow.Millisecond:
		return "2006-01-02 15:04:05.000Z07:00"
	case arrow.Microsecond:
		return "2006-01-02 15:04:05.000000Z07:00"
	default:
		return "2006-01-02 15:04:05.000000000Z07:00"
	}
}
