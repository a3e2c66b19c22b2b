// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package writestrategy

import (
	"encoding/binary"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/decimal128"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/stretchr/testify/require"

	"github.com/solidcoredata/odbcarrow/internal/bufdesc"
	"github.com/solidcoredata/odbcarrow/internal/rowgroup"
)

func TestInt32StrategyWritesRows(t *testing.T) {
	b := array.NewInt32Builder(memory.DefaultAllocator)
	b.AppendValues([]int32{1, 2, 3}, []bool{true, false, true})
	arr := b.NewInt32Array()
	defer arr.Release()

	buf := rowgroup.New([]bufdesc.Descriptor{bufdesc.NewI32(true)}, 3)
	col := buf.Columns[0]

	strat := int32Strategy{nullable: true}
	require.NoError(t, strat.WriteRows(col, 0, arr))

	require.Equal(t, int32(1), int32(binary.NativeEndian.Uint32(col.Row(0))))
	require.True(t, col.IsNull(1))
	require.Equal(t, int32(3), int32(binary.NativeEndian.Uint32(col.Row(2))))
}

func TestTextStrategyGrowsOnWideElement(t *testing.T) {
	b := array.NewStringBuilder(memory.DefaultAllocator)
	b.AppendValues([]string{"hi", "a much longer value than four bytes"}, nil)
	arr := b.NewStringArray()
	defer arr.Release()

	buf := rowgroup.New([]bufdesc.Descriptor{bufdesc.NewText(4, false)}, 2)
	col := buf.Columns[0]

	strat := textStrategy{}
	err := strat.WriteRows(col, 0, arr)
	require.Error(t, err)

	var grow *ErrNeedsGrow
	require.ErrorAs(t, err, &grow)
	require.GreaterOrEqual(t, grow.NewMaxLen, len("a much longer value than four bytes"))

	col.Resize(bufdesc.NewText(grow.NewMaxLen, false), 2)
	require.NoError(t, strat.WriteRows(col, 0, arr))
	require.Equal(t, "hi", string(col.Row(0)[:col.ElemLen(0)]))
	require.Equal(t, "a much longer value than four bytes", string(col.Row(1)[:col.ElemLen(1)]))
}

func TestDecimalStrategyFormatsSignedText(t *testing.T) {
	num, err := decimal128.FromString("-123.45", 5, 2)
	require.NoError(t, err)

	b := array.NewDecimal128Builder(memory.DefaultAllocator, &arrow.Decimal128Type{Precision: 5, Scale: 2})
	b.Append(num)
	arr := b.NewDecimal128Array()
	defer arr.Release()

	buf := rowgroup.New([]bufdesc.Descriptor{bufdesc.NewText(8, false)}, 1)
	col := buf.Columns[0]

	strat := decimalStrategy{scale: 2}
	require.NoError(t, strat.WriteRows(col, 0, arr))
	require.Equal(t, "-123.45", string(col.Row(0)[:col.ElemLen(0)]))
}

func TestTimeTextStrategyWritesMillisecondText(t *testing.T) {
	b := array.NewTime32Builder(memory.DefaultAllocator, &arrow.Time32Type{Unit: arrow.Millisecond})
	ticks := int32(((1*60+2)*60+3)*1000 + 456)
	b.AppendValues([]arrow.Time32{arrow.Time32(ticks)}, nil)
	arr := b.NewTime32Array()
	defer arr.Release()

	buf := rowgroup.New([]bufdesc.Descriptor{bufdesc.NewText(12, false)}, 1)
	col := buf.Columns[0]

	strat := timeTextStrategy{bits: 32, unit: arrow.Millisecond}
	require.NoError(t, strat.WriteRows(col, 0, arr))
	require.Equal(t, "01:02:03.456", string(col.Row(0)[:col.ElemLen(0)]))
}

func TestTimeTextStrategyWritesNanosecondText(t *testing.T) {
	b := array.NewTime64Builder(memory.DefaultAllocator, &arrow.Time64Type{Unit: arrow.Nanosecond})
	ticks := int64(((23*60+59)*60+59))*1_000_000_000 + 123456789
	b.AppendValues([]arrow.Time64{arrow.Time64(ticks)}, nil)
	arr := b.NewTime64Array()
	defer arr.Release()

	buf := rowgroup.New([]bufdesc.Descriptor{bufdesc.NewText(18, false)}, 1)
	col := buf.Columns[0]

	strat := timeTextStrategy{bits: 64, unit: arrow.Nanosecond}
	require.NoError(t, strat.WriteRows(col, 0, arr))
	require.Equal(t, "23:59:59.123456789", string(col.Row(0)[:col.ElemLen(0)]))
}
