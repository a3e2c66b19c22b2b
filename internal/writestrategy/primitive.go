// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package writestrategy

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"

	"github.com/solidcoredata/odbcarrow/internal/rowgroup"
)

// These mirror original_source's odbc_writer/identical.rs Nullable<P>: the
// Arrow native type and the ODBC C buffer type need no conversion, only a
// byte-identical copy plus an indicator write for nulls.

type boolStrategy struct{ nullable bool }

func (s boolStrategy) WriteRows(col *rowgroup.Column, off int, a arrow.Array) error {
	arr, ok := a.(*array.Boolean)
	if !ok {
		return fmt.Errorf("writestrategy: expected *array.Boolean, got %T", a)
	}
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			col.SetNull(off + i)
			continue
		}
		v := byte(0)
		if arr.Value(i) {
			v = 1
		}
		col.Row(off + i)[0] = v
	}
	return nil
}

type int8Strategy struct{ nullable bool }

func (s int8Strategy) WriteRows(col *rowgroup.Column, off int, a arrow.Array) error {
	arr, ok := a.(*array.Int8)
	if !ok {
		return fmt.Errorf("writestrategy: expected *array.Int8, got %T", a)
	}
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			col.SetNull(off + i)
			continue
		}
		col.Row(off + i)[0] = byte(arr.Value(i))
	}
	return nil
}

type uint8Strategy struct{ nullable bool }

func (s uint8Strategy) WriteRows(col *rowgroup.Column, off int, a arrow.Array) error {
	arr, ok := a.(*array.Uint8)
	if !ok {
		return fmt.Errorf("writestrategy: expected *array.Uint8, got %T", a)
	}
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			col.SetNull(off + i)
			continue
		}
		col.Row(off + i)[0] = arr.Value(i)
	}
	return nil
}

type int16Strategy struct{ nullable bool }

func (s int16Strategy) WriteRows(col *rowgroup.Column, off int, a arrow.Array) error {
	arr, ok := a.(*array.Int16)
	if !ok {
		return fmt.Errorf("writestrategy: expected *array.Int16, got %T", a)
	}
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			col.SetNull(off + i)
			continue
		}
		binary.NativeEndian.PutUint16(col.Row(off+i), uint16(arr.Value(i)))
	}
	return nil
}

type int32Strategy struct{ nullable bool }

func (s int32Strategy) WriteRows(col *rowgroup.Column, off int, a arrow.Array) error {
	arr, ok := a.(*array.Int32)
	if !ok {
		return fmt.Errorf("writestrategy: expected *array.Int32, got %T", a)
	}
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			col.SetNull(off + i)
			continue
		}
		binary.NativeEndian.PutUint32(col.Row(off+i), uint32(arr.Value(i)))
	}
	return nil
}

type int64Strategy struct{ nullable bool }

func (s int64Strategy) WriteRows(col *rowgroup.Column, off int, a arrow.Array) error {
	arr, ok := a.(*array.Int64)
	if !ok {
		return fmt.Errorf("writestrategy: expected *array.Int64, got %T", a)
	}
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			col.SetNull(off + i)
			continue
		}
		binary.NativeEndian.PutUint64(col.Row(off+i), uint64(arr.Value(i)))
	}
	return nil
}

type float32Strategy struct{ nullable bool }

func (s float32Strategy) WriteRows(col *rowgroup.Column, off int, a arrow.Array) error {
	arr, ok := a.(*array.Float32)
	if !ok {
		return fmt.Errorf("writestrategy: expected *array.Float32, got %T", a)
	}
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			col.SetNull(off + i)
			continue
		}
		binary.NativeEndian.PutUint32(col.Row(off+i), math.Float32bits(arr.Value(i)))
	}
	return nil
}

type float64Strategy struct{ nullable bool }

func (s float64Strategy) WriteRows(col *rowgroup.Column, off int, a arrow.Array) error {
	arr, ok := a.(*array.Float64)
	if !ok {
		return fmt.Errorf("writestrategy: expected *array.Float64, got %T", a)
	}
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			col.SetNull(off + i)
			continue
		}
		binary.NativeEndian.PutUint64(col.Row(off+i), math.Float64bits(arr.Value(i)))
	}
	return nil
}
