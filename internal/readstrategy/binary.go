// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package readstrategy

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/solidcoredata/odbcarrow/internal/rowgroup"
)

// binaryStrategy is the Go analogue of original_source's
// read_strategy/binary.rs Binary: variable-length cells, indicator holds
// the true octet length.
type binaryStrategy struct{ nullable bool }

func (s binaryStrategy) FillArray(mem memory.Allocator, col *rowgroup.Column, n int) (arrow.Array, error) {
	b := array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)
	defer b.Release()
	b.Resize(n)
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
		b.Append(row[:length])
	}
	return b.NewArray(), nil
}

// fixedBinaryStrategy is original_source's FixedSizedBinary: every cell is
// exactly length bytes, no indicator-driven truncation.
type fixedBinaryStrategy struct {
	nullable bool
	length   int
}

func (s fixedBinaryStrategy) FillArray(mem memory.Allocator, col *rowgroup.Column, n int) (arrow.Array, error) {
	b := array.NewFixedSizeBinaryBuilder(mem, &arrow.FixedSizeBinaryType{ByteWidth: s.length})
	defer b.Release()
	b.Resize(n)
	for i := 0; i < n; i++ {
		if s.nullable && col.IsNull(i) {
			b.AppendNull()
			continue
		}
		b.Append(col.Row(i)[:s.length])
	}
	return b.NewArray(), nil
}
