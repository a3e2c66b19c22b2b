// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rowgroup implements the columnar slab that gets bound to an ODBC
// cursor or a prepared statement: one sub-buffer per column, laid out
// according to that column's bufdesc.Descriptor, plus a parallel indicator
// vector for every column.
package rowgroup

import (
	"github.com/solidcoredata/odbcarrow/internal/bufdesc"
)

// NullData is the indicator value marking a cell absent, matching ODBC's
// SQL_NULL_DATA sentinel used throughout the driver surface.
const NullData int64 = -1

// Column is the bound transit sub-buffer for a single field. Its Data slice
// is exactly Desc.CellSize()*capacity bytes, laid out row-major; Indicator
// carries one int64 per row: NullData, or for variable-length kinds the
// cell's actual octet length.
type Column struct {
	Desc      bufdesc.Descriptor
	Data      []byte
	Indicator []int64
}

func newColumn(desc bufdesc.Descriptor, capacity int) *Column {
	// Every column carries an indicator array, not only nullable ones:
	// the ODBC driver reports truncation and variable-element length
	// through it regardless of nullability, and fetch_with_truncation_check
	// needs it on every bound column to detect silent truncation.
	return &Column{
		Desc:      desc,
		Data:      make([]byte, desc.CellSize()*capacity),
		Indicator: make([]int64, capacity),
	}
}

// Row returns the byte window for row i of this column.
func (c *Column) Row(i int) []byte {
	sz := c.Desc.CellSize()
	return c.Data[i*sz : (i+1)*sz]
}

// IsNull reports whether row i was marked absent by the driver (or, for a
// fallible conversion, by the strategy that filled it).
func (c *Column) IsNull(i int) bool {
	return c.Indicator != nil && c.Indicator[i] == NullData
}

// SetNull marks row i absent in the indicator vector, which every column
// carries.
func (c *Column) SetNull(i int) {
	c.Indicator[i] = NullData
}

// ElemLen returns the octet length written into row i of a variable-length
// column (undefined for fixed-width kinds, which never consult it).
func (c *Column) ElemLen(i int) int {
	return int(c.Indicator[i])
}

// SetElemLen records the octet length written into row i of a
// variable-length column.
func (c *Column) SetElemLen(i int, n int) {
	c.Indicator[i] = int64(n)
}

// Resize reallocates Data (and Indicator, if present) to the new row
// capacity/cell size, used when a variable-length column's max element
// length grows mid-statement (ensure_max_element_length in
// original_source/src/odbc_writer.rs). Existing row data is not
// preserved; callers rebind before reusing rows.
func (c *Column) Resize(desc bufdesc.Descriptor, capacity int) {
	c.Desc = desc
	c.Data = make([]byte, desc.CellSize()*capacity)
	if len(c.Indicator) != capacity {
		c.Indicator = make([]int64, capacity)
	}
}

// Buffer is the row-group buffer described in the DATA MODEL: one Column
// per schema field, in schema order, with a row-capacity shared across all
// of them.
type Buffer struct {
	Columns  []*Column
	Capacity int
	// NumRows is the number of rows currently valid in this buffer: rows
	// fetched from the cursor (reader side) or rows queued for the next
	// flush (writer side).
	NumRows int
}

// New allocates a row-group buffer sized to hold `capacity` rows of each
// descriptor, in order.
func New(descs []bufdesc.Descriptor, capacity int) *Buffer {
	b := &Buffer{
		Columns:  make([]*Column, len(descs)),
		Capacity: capacity,
	}
	for i, d := range descs {
		b.Columns[i] = newColumn(d, capacity)
	}
	return b
}

// BytesPerRow sums the per-row cell cost of every column, used to compute
// row_cap under a byte budget (OdbcBufferTooSmall is raised by the caller
// when this exceeds the configured max).
func BytesPerRow(descs []bufdesc.Descriptor) int {
	total := 0
	for _, d := range descs {
		total += d.CellSize()
	}
	return total
}

// Reset marks the buffer empty without releasing the underlying arrays, so
// the writer side can refill it after a flush.
func (b *Buffer) Reset() {
	b.NumRows = 0
}
