// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package writestrategy

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"

	"github.com/solidcoredata/odbcarrow/internal/rowgroup"
)

// textStrategy writes narrow (SQL_C_CHAR) text, grounded on
// original_source's odbc_writer/text.rs Utf8ToNarrow. Growth is detected
// up front for the whole batch rather than row by row: scan every element
// once, and if any exceeds the currently bound width, return ErrNeedsGrow
// before mutating col so the caller can resize and retry the full call.
type textStrategy struct{ nullable bool }

func (s textStrategy) WriteRows(col *rowgroup.Column, off int, a arrow.Array) error {
	arr, ok := a.(*array.String)
	if !ok {
		return fmt.Errorf("writestrategy: expected *array.String, got %T", a)
	}
	maxLen := 0
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			continue
		}
		if n := len(arr.Value(i)); n > maxLen {
			maxLen = n
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
		v := arr.Value(i)
		n := copy(col.Row(off+i), v)
		col.SetElemLen(off+i, n)
	}
	return nil
}

// wideTextStrategy writes SQL_C_WCHAR (UTF-16) text, grounded on
// original_source's odbc_writer/text.rs Utf8ToWide.
type wideTextStrategy struct{ nullable bool }

func (s wideTextStrategy) WriteRows(col *rowgroup.Column, off int, a arrow.Array) error {
	arr, ok := a.(*array.String)
	if !ok {
		return fmt.Errorf("writestrategy: expected *array.String, got %T", a)
	}
	encoded := make([][]uint16, arr.Len())
	maxUnits := 0
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			continue
		}
		units := utf16.Encode([]rune(arr.Value(i)))
		encoded[i] = units
		if len(units) > maxUnits {
			maxUnits = len(units)
		}
	}
	if maxUnits > col.Desc.MaxStrLenU16 {
		return &ErrNeedsGrow{NewMaxLen: maxUnits}
	}
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			col.SetNull(off + i)
			continue
		}
		row := col.Row(off + i)
		units := encoded[i]
		for j, u := range units {
			binary.NativeEndian.PutUint16(row[2*j:2*j+2], u)
		}
		col.SetElemLen(off+i, len(units)*2)
	}
	return nil
}
