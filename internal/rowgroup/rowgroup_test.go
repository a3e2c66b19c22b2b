// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rowgroup

import (
	"testing"

	"github.com/solidcoredata/odbcarrow/internal/bufdesc"
)

func TestColumnRowWindows(t *testing.T) {
	buf := New([]bufdesc.Descriptor{bufdesc.NewI32(true), bufdesc.NewText(8, true)}, 4)
	if buf.Capacity != 4 {
		t.Fatalf("Capacity = %d, want 4", buf.Capacity)
	}

	intCol := buf.Columns[0]
	copy(intCol.Row(2), []byte{1, 2, 3, 4})
	if got := intCol.Row(2); len(got) != 4 {
		t.Fatalf("Row(2) len = %d, want 4", len(got))
	}
	if got := intCol.Row(0); got[0] != 0 {
		t.Fatalf("Row(0) should still be zeroed, got %v", got)
	}
}

func TestIndicatorNullAndElemLen(t *testing.T) {
	buf := New([]bufdesc.Descriptor{bufdesc.NewText(8, true)}, 3)
	col := buf.Columns[0]

	col.SetNull(0)
	if !col.IsNull(0) {
		t.Fatal("row 0 should be null after SetNull")
	}

	col.SetElemLen(1, 5)
	if col.IsNull(1) {
		t.Fatal("row 1 should not be null")
	}
	if got := col.ElemLen(1); got != 5 {
		t.Fatalf("ElemLen(1) = %d, want 5", got)
	}
}

func TestResizeGrowsWidth(t *testing.T) {
	buf := New([]bufdesc.Descriptor{bufdesc.NewText(4, true)}, 2)
	col := buf.Columns[0]

	wider := bufdesc.NewText(20, true)
	col.Resize(wider, 2)

	if got := len(col.Data); got != wider.CellSize()*2 {
		t.Fatalf("Data len = %d, want %d", got, wider.CellSize()*2)
	}
	if got := len(col.Row(0)); got != wider.CellSize() {
		t.Fatalf("Row(0) len = %d, want %d", got, wider.CellSize())
	}
}

func TestBytesPerRow(t *testing.T) {
	descs := []bufdesc.Descriptor{bufdesc.NewI32(false), bufdesc.NewI64(false), bufdesc.NewText(10, false)}
	want := 4 + 8 + 11
	if got := BytesPerRow(descs); got != want {
		t.Fatalf("BytesPerRow = %d, want %d", got, want)
	}
}
