// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package readstrategy

import (
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/solidcoredata/odbcarrow/internal/bufdesc"
	"github.com/solidcoredata/odbcarrow/internal/mapping"
	"github.com/solidcoredata/odbcarrow/internal/rowgroup"
)

func TestInt32StrategyWithNulls(t *testing.T) {
	buf := rowgroup.New([]bufdesc.Descriptor{bufdesc.NewI32(true)}, 3)
	col := buf.Columns[0]
	binary.NativeEndian.PutUint32(col.Row(0), uint32(int32(-7)))
	col.SetNull(1)
	binary.NativeEndian.PutUint32(col.Row(2), uint32(int32(42)))

	strat := int32Strategy{nullable: true}
	arr, err := strat.FillArray(memory.DefaultAllocator, col, 3)
	require.NoError(t, err)
	defer arr.Release()

	ia := arr.(*array.Int32)
	require.Equal(t, int32(-7), ia.Value(0))
	require.True(t, ia.IsNull(1))
	require.Equal(t, int32(42), ia.Value(2))
}

func TestTextStrategyNarrowTrustsIndicator(t *testing.T) {
	buf := rowgroup.New([]bufdesc.Descriptor{bufdesc.NewText(10, true)}, 1)
	col := buf.Columns[0]
	copy(col.Row(0), []byte("hello"))
	col.SetElemLen(0, 5)

	strat := textStrategy{nullable: true, trustIndicator: true}
	arr, err := strat.FillArray(memory.DefaultAllocator, col, 1)
	require.NoError(t, err)
	defer arr.Release()

	require.Equal(t, "hello", arr.(*array.String).Value(0))
}

func TestTextStrategyWideDecodesUTF16(t *testing.T) {
	buf := rowgroup.New([]bufdesc.Descriptor{bufdesc.NewWText(10, true)}, 1)
	col := buf.Columns[0]
	units := utf16.Encode([]rune("héllo"))
	row := col.Row(0)
	for i, u := range units {
		binary.NativeEndian.PutUint16(row[2*i:2*i+2], u)
	}
	col.SetElemLen(0, len(units)*2)

	strat := textStrategy{nullable: true, wide: true, trustIndicator: true}
	arr, err := strat.FillArray(memory.DefaultAllocator, col, 1)
	require.NoError(t, err)
	defer arr.Release()

	require.Equal(t, "héllo", arr.(*array.String).Value(0))
}

func TestDecimalStrategyParsesSignAndDigits(t *testing.T) {
	buf := rowgroup.New([]bufdesc.Descriptor{bufdesc.NewText(8, true)}, 2)
	col := buf.Columns[0]

	copy(col.Row(0), []byte("-123.45"))
	col.SetElemLen(0, len("-123.45"))
	copy(col.Row(1), []byte("678.90"))
	col.SetElemLen(1, len("678.90"))

	strat := decimalStrategy{nullable: true, precision: 5, scale: 2}
	arr, err := strat.FillArray(memory.DefaultAllocator, col, 2)
	require.NoError(t, err)
	defer arr.Release()

	da := arr.(*array.Decimal128)
	require.Equal(t, "-123.45", da.Value(0).ToString(2))
	require.Equal(t, "678.90", da.Value(1).ToString(2))
}

func TestTimeTextStrategyParsesMillisecondText(t *testing.T) {
	buf := rowgroup.New([]bufdesc.Descriptor{bufdesc.NewText(12, false)}, 2)
	col := buf.Columns[0]

	copy(col.Row(0), []byte("01:02:03.456"))
	col.SetElemLen(0, len("01:02:03.456"))
	copy(col.Row(1), []byte("00:00:00"))
	col.SetElemLen(1, len("00:00:00"))

	strat := timeTextStrategy{trustIndicator: true, bits: 32, precisionDigits: 3}
	arr, err := strat.FillArray(memory.DefaultAllocator, col, 2)
	require.NoError(t, err)
	defer arr.Release()

	ta := arr.(*array.Time32)
	wantTicks := int32(((1*60+2)*60 + 3) * 1000 + 456)
	require.Equal(t, wantTicks, int32(ta.Value(0)))
	require.Equal(t, int32(0), int32(ta.Value(1)))
}

func TestTimeTextStrategyParsesNanosecondText(t *testing.T) {
	buf := rowgroup.New([]bufdesc.Descriptor{bufdesc.NewText(18, false)}, 1)
	col := buf.Columns[0]

	text := "23:59:59.123456789"
	copy(col.Row(0), []byte(text))
	col.SetElemLen(0, len(text))

	strat := timeTextStrategy{trustIndicator: true, bits: 64, precisionDigits: 9}
	arr, err := strat.FillArray(memory.DefaultAllocator, col, 1)
	require.NoError(t, err)
	defer arr.Release()

	ta := arr.(*array.Time64)
	wantTicks := int64(((23*60+59)*60+59))*1_000_000_000 + 123456789
	require.Equal(t, wantTicks, int64(ta.Value(0)))
}

func TestTimestampStrategyOutOfRangeNanosecondPropagatesByDefault(t *testing.T) {
	buf := rowgroup.New([]bufdesc.Descriptor{bufdesc.NewTimestamp(false)}, 1)
	col := buf.Columns[0]
	row := col.Row(0)
	binary.NativeEndian.PutUint16(row[0:2], uint16(int16(9999)))
	binary.NativeEndian.PutUint16(row[2:4], 1)
	binary.NativeEndian.PutUint16(row[4:6], 1)

	strat := timestampStrategy{unit: arrow.Nanosecond}
	_, err := strat.FillArray(memory.DefaultAllocator, col, 1)
	require.Error(t, err)
	var mapErr *mapping.Error
	require.ErrorAs(t, err, &mapErr)
	require.Equal(t, mapping.OutOfRangeTimestampNs, mapErr.Kind)
}

func TestTimestampStrategyOutOfRangeNanosecondBecomesNullWhenMapped(t *testing.T) {
	buf := rowgroup.New([]bufdesc.Descriptor{bufdesc.NewTimestamp(true)}, 1)
	col := buf.Columns[0]
	row := col.Row(0)
	binary.NativeEndian.PutUint16(row[0:2], uint16(int16(9999)))
	binary.NativeEndian.PutUint16(row[2:4], 1)
	binary.NativeEndian.PutUint16(row[4:6], 1)

	strat := timestampStrategy{nullable: true, unit: arrow.Nanosecond, mapErrorsToNull: true}
	arr, err := strat.FillArray(memory.DefaultAllocator, col, 1)
	require.NoError(t, err)
	defer arr.Release()
	require.True(t, arr.(*array.Timestamp).IsNull(0))
}

func TestTextStrategyInvalidUtf8PropagatesByDefault(t *testing.T) {
	buf := rowgroup.New([]bufdesc.Descriptor{bufdesc.NewText(4, false)}, 1)
	col := buf.Columns[0]
	copy(col.Row(0), []byte{0xff, 0xfe, 0x00, 0x00})
	col.SetElemLen(0, 2)

	strat := textStrategy{trustIndicator: true}
	_, err := strat.FillArray(memory.DefaultAllocator, col, 1)
	require.Error(t, err)
	var mapErr *mapping.Error
	require.ErrorAs(t, err, &mapErr)
	require.Equal(t, mapping.InvalidUtf8, mapErr.Kind)
}

func TestTextStrategyInvalidUtf8BecomesNullWhenMapped(t *testing.T) {
	buf := rowgroup.New([]bufdesc.Descriptor{bufdesc.NewText(4, true)}, 1)
	col := buf.Columns[0]
	copy(col.Row(0), []byte{0xff, 0xfe, 0x00, 0x00})
	col.SetElemLen(0, 2)

	strat := textStrategy{nullable: true, trustIndicator: true, mapErrorsToNull: true}
	arr, err := strat.FillArray(memory.DefaultAllocator, col, 1)
	require.NoError(t, err)
	defer arr.Release()
	require.True(t, arr.(*array.String).IsNull(0))
}

func TestValidSurrogatesDetectsUnpairedSurrogate(t *testing.T) {
	require.False(t, validSurrogates([]uint16{0xD800}))
	require.False(t, validSurrogates([]uint16{0xDC00}))
	require.True(t, validSurrogates(utf16.Encode([]rune("hello"))))
	require.True(t, validSurrogates(utf16.Encode([]rune("\U0001F600"))))
}
