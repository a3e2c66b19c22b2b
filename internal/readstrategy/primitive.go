// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package readstrategy

import (
	"encoding/binary"
	"math"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/solidcoredata/odbcarrow/internal/rowgroup"
)

// These strategies are the Go analogue of original_source's
// read_strategy/no_conversion.rs no_conversion<T>: the ODBC C buffer type
// and the Arrow native type are bit-identical, so the only work is an
// endian-correct reinterpretation of each row's byte window plus an
// indicator check when nullable.

type boolStrategy struct{ nullable bool }

func (s boolStrategy) FillArray(mem memory.Allocator, col *rowgroup.Column, n int) (arrow.Array, error) {
	b := array.NewBooleanBuilder(mem)
	defer b.Release()
	b.Resize(n)
	for i := 0; i < n; i++ {
		if s.nullable && col.IsNull(i) {
			b.AppendNull()
			continue
		}
		b.Append(col.Row(i)[0] != 0)
	}
	return b.NewArray(), nil
}

type int8Strategy struct{ nullable bool }

func (s int8Strategy) FillArray(mem memory.Allocator, col *rowgroup.Column, n int) (arrow.Array, error) {
	b := array.NewInt8Builder(mem)
	defer b.Release()
	b.Resize(n)
	for i := 0; i < n; i++ {
		if s.nullable && col.IsNull(i) {
			b.AppendNull()
			continue
		}
		b.Append(int8(col.Row(i)[0]))
	}
	return b.NewArray(), nil
}

type uint8Strategy struct{ nullable bool }

func (s uint8Strategy) FillArray(mem memory.Allocator, col *rowgroup.Column, n int) (arrow.Array, error) {
	b := array.NewUint8Builder(mem)
	defer b.Release()
	b.Resize(n)
	for i := 0; i < n; i++ {
		if s.nullable && col.IsNull(i) {
			b.AppendNull()
			continue
		}
		b.Append(col.Row(i)[0])
	}
	return b.NewArray(), nil
}

type int16Strategy struct{ nullable bool }

func (s int16Strategy) FillArray(mem memory.Allocator, col *rowgroup.Column, n int) (arrow.Array, error) {
	b := array.NewInt16Builder(mem)
	defer b.Release()
	b.Resize(n)
	for i := 0; i < n; i++ {
		if s.nullable && col.IsNull(i) {
			b.AppendNull()
			continue
		}
		b.Append(int16(binary.NativeEndian.Uint16(col.Row(i))))
	}
	return b.NewArray(), nil
}

type int32Strategy struct{ nullable bool }

func (s int32Strategy) FillArray(mem memory.Allocator, col *rowgroup.Column, n int) (arrow.Array, error) {
	b := array.NewInt32Builder(mem)
	defer b.Release()
	b.Resize(n)
	for i := 0; i < n; i++ {
		if s.nullable && col.IsNull(i) {
			b.AppendNull()
			continue
		}
		b.Append(int32(binary.NativeEndian.Uint32(col.Row(i))))
	}
	return b.NewArray(), nil
}

type int64Strategy struct{ nullable bool }

func (s int64Strategy) FillArray(mem memory.Allocator, col *rowgroup.Column, n int) (arrow.Array, error) {
	b := array.NewInt64Builder(mem)
	defer b.Release()
	b.Resize(n)
	for i := 0; i < n; i++ {
		if s.nullable && col.IsNull(i) {
			b.AppendNull()
			continue
		}
		b.Append(int64(binary.NativeEndian.Uint64(col.Row(i))))
	}
	return b.NewArray(), nil
}

type float32Strategy struct{ nullable bool }

func (s float32Strategy) FillArray(mem memory.Allocator, col *rowgroup.Column, n int) (arrow.Array, error) {
	b := array.NewFloat32Builder(mem)
	defer b.Release()
	b.Resize(n)
	for i := 0; i < n; i++ {
		if s.nullable && col.IsNull(i) {
			b.AppendNull()
			continue
		}
		b.Append(math.Float32frombits(binary.NativeEndian.Uint32(col.Row(i))))
	}
	return b.NewArray(), nil
}

type float64Strategy struct{ nullable bool }

func (s float64Strategy) FillArray(mem memory.Allocator, col *rowgroup.Column, n int) (arrow.Array, error) {
	b := array.NewFloat64Builder(mem)
	defer b.Release()
	b.Resize(n)
	for i := 0; i < n; i++ {
		if s.nullable && col.IsNull(i) {
			b.AppendNull()
			continue
		}
		b.Append(math.Float64frombits(binary.NativeEndian.Uint64(col.Row(i))))
	}
	return b.NewArray(), nil
}
