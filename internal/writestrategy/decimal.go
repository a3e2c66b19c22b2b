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

// decimalStrategy writes Decimal128 columns as signed fixed-point text,
// since most ODBC drivers accept NUMERIC/DECIMAL parameters bound as
// SQL_C_CHAR far more reliably than the packed SQL_NUMERIC_STRUCT. The
// text width never needs to grow: it is sized once from the schema's
// precision/scale at Select time (sign + digits + decimal point), which
// bounds every possible value of that precision.
type decimalStrategy struct {
	nullable bool
	scale    int
}

func (s decimalStrategy) WriteRows(col *rowgroup.Column, off int, a arrow.Array) error {
	arr, ok := a.(*array.Decimal128)
	if !ok {
		return fmt.Errorf("writestrategy: expected *array.Decimal128, got %T", a)
	}
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			col.SetNull(off + i)
			continue
		}
		text := arr.Value(i).ToString(int32(s.scale))
		row := col.Row(off + i)
		n := copy(row, text)
		if n < len(row) {
			row[n] = 0
		}
		col.SetElemLen(off+i, n)
	}
	return nil
}
