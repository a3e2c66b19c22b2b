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

// binaryStrategy is the Go analogue of original_source's
// odbc_writer/binary.rs VariadicBinary.
type binaryStrategy struct{ nullable bool }

func (s binaryStrategy) WriteRows(col *rowgroup.Column, off int, a arrow.Array) error {
	arr, ok := a.(*array.Binary)
	if !ok {
		return fmt.Errorf("writestrategy: expected *array.Binary, got %T", a)
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
	if maxLen > col.Desc.MaxLen {
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

// fixedBinaryStrategy writes FixedSizeBinary columns; width never grows.
type fixedBinaryStrategy struct {
	nullable bool
	length   int
}

func (s fixedBinaryStrategy) WriteRows(col *rowgroup.Column, off int, a arrow.Array) error {
	arr, ok := a.(*array.FixedSizeBinary)
	if !ok {
		return fmt.Errorf("writestrategy: expected *array.FixedSizeBinary, got %T", a)
	}
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			col.SetNull(off + i)
			continue
		}
		copy(col.Row(off+i), arr.Value(i))
	}
	return nil
}
