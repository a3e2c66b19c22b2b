// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package readstrategy

import (
	"math/big"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/decimal128"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/solidcoredata/odbcarrow/internal/rowgroup"
)

// decimalStrategy reads NUMERIC/DECIMAL columns bound as text (the ODBC
// driver is asked for a character representation rather than the packed
// SQL_NUMERIC_STRUCT, matching original_source's reader/decimal.rs), then
// parses the digits into a decimal128.Num scaled to the schema's
// precision/scale.
type decimalStrategy struct {
	nullable  bool
	precision int
	scale     int
}

func (s decimalStrategy) FillArray(mem memory.Allocator, col *rowgroup.Column, n int) (arrow.Array, error) {
	b := array.NewDecimal128Builder(mem, &arrow.Decimal128Type{
		Precision: int32(s.precision),
		Scale:     int32(s.scale),
	})
	defer b.Release()
	b.Resize(n)

	var digits []byte
	for i := 0; i < n; i++ {
		if s.nullable && col.IsNull(i) {
			b.AppendNull()
			continue
		}
		row := col.Row(i)
		length := col.ElemLen(i)
		if length < 0 || length > len(row) {
			length = len(row)
		}
		num := decimalTextToInt(row[:length], &digits)
		b.Append(num)
	}
	return b.NewArray(), nil
}

// decimalTextToInt parses a decimal cell's textual representation into a
// decimal128.Num carrying the raw unscaled integer, keeping only the sign
// and ASCII digits and dropping everything else (decimal point, thousands
// separators, even a ',' radix point some locales report instead of '.').
// Grounded on original_source/src/reader/decimal.rs decimal_text_to_int,
// which documents exactly this "keep ascii digits" robustness fix for
// locales using a comma radix point.
func decimalTextToInt(text []byte, digits *[]byte) decimal128.Num {
	*digits = (*digits)[:0]
	negative := false
	for _, c := range text {
		switch {
		case c == '-':
			negative = true
		case c >= '0' && c <= '9':
			*digits = append(*digits, c)
		}
	}
	if len(*digits) == 0 {
		return decimal128.Num{}
	}
	bi := new(big.Int)
	bi.SetString(string(*digits), 10)
	if negative {
		bi.Neg(bi)
	}
	num, _ := decimal128.FromBigInt(bi)
	return num
}
