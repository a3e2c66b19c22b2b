// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odbcarrow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solidcoredata/odbcarrow/internal/bufdesc"
)

func TestRowCapacityBoundByRowCount(t *testing.T) {
	descs := []bufdesc.Descriptor{bufdesc.NewI32(false)}
	o := newOptions([]Option{WithMaxRowsPerBatch(500)})
	require.Equal(t, 500, rowCapacity(descs, o))
}

func TestRowCapacityBoundByByteBudget(t *testing.T) {
	descs := []bufdesc.Descriptor{bufdesc.NewI64(false), bufdesc.NewText(100, false)}
	bpr := 8 + 101 // I64 cell plus Text cell (MaxStrLen + nul byte)
	o := newOptions([]Option{
		WithMaxRowsPerBatch(10000),
		WithMaxBytesPerBatch(bpr * 10),
	})
	require.Equal(t, 10, rowCapacity(descs, o))
}

func TestRowCapacityZeroWhenRowExceedsByteBudget(t *testing.T) {
	descs := []bufdesc.Descriptor{bufdesc.NewText(1 << 20, false)}
	o := newOptions([]Option{
		WithMaxRowsPerBatch(10000),
		WithMaxBytesPerBatch(1),
	})
	require.Equal(t, 0, rowCapacity(descs, o), "zero is a signal to the caller, NewReader turns it into errOdbcBufferTooSmall")
}
