// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package odbcarrow bridges result sets from an ODBC data source into
// Apache Arrow record batches and back, binding one columnar transit
// buffer to the driver and reusing it across every fetch or flush.
package odbcarrow

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"

	"github.com/solidcoredata/odbcarrow/internal/bufdesc"
	"github.com/solidcoredata/odbcarrow/internal/odbcapi"
	"github.com/solidcoredata/odbcarrow/internal/readstrategy"
	"github.com/solidcoredata/odbcarrow/internal/rowgroup"
	"github.com/solidcoredata/odbcarrow/internal/schema"
)

// Reader streams a single ODBC result set as a sequence of Arrow record
// batches, one row-group buffer owned exclusively by the cursor for the
// lifetime of iteration, per the DESIGN NOTES ownership rule. It is not
// safe for concurrent use; see ConcurrentReader for a background-fetch
// variant.
type Reader struct {
	opts   Options
	cursor *odbcapi.Cursor
	schema *arrow.Schema
	fields []schema.Field
	strats []readstrategy.Strategy
	buf    *rowgroup.Buffer

	closed bool
}

// NewReader infers a schema from cursor (unless Options.Schema overrides
// it), sizes a row-group buffer under the configured row/byte budget, and
// binds it. The cursor's result set must already be open (e.g. from
// Connection.ExecDirect).
func NewReader(cursor *odbcapi.Cursor, opts ...Option) (*Reader, error) {
	o := newOptions(opts)

	fields, err := inferFields(cursor, o)
	if err != nil {
		return nil, err
	}

	strats := make([]readstrategy.Strategy, len(fields))
	descs := make([]bufdesc.Descriptor, len(fields))
	for i, f := range fields {
		s, err := readstrategy.Select(f, o.Quirks, o.MapValueErrorsToNull)
		if err != nil {
			return nil, errColumnFailure(f.Arrow.Name, i, err)
		}
		strats[i] = s
		descs[i] = f.Desc
	}

	rows := rowCapacity(descs, o)
	if rows < 1 {
		return nil, errOdbcBufferTooSmall(o.MaxBytesPerBatch, rowgroup.BytesPerRow(descs))
	}

	buf := rowgroup.New(descs, rows)
	if err := cursor.BindRowGroup(buf); err != nil {
		return nil, err
	}

	arrowFields := make([]arrow.Field, len(fields))
	for i, f := range fields {
		arrowFields[i] = f.Arrow
	}

	return &Reader{
		opts:   o,
		cursor: cursor,
		schema: arrow.NewSchema(arrowFields, nil),
		fields: fields,
		strats: strats,
		buf:    buf,
	}, nil
}

func inferFields(cursor *odbcapi.Cursor, o Options) ([]schema.Field, error) {
	if o.Schema != nil {
		fields, err := schema.FieldsFromArrow(o.Schema, o.Limits)
		if err != nil {
			return nil, errUnableToRetrieveNumCols(err)
		}
		return fields, nil
	}
	fields, err := schema.Infer(cursor, o.Quirks, o.Limits, o.MapValueErrorsToNull)
	if err != nil {
		return nil, errUnableToRetrieveNumCols(err)
	}
	return fields, nil
}

// rowCapacity applies the CAPACITY BOUND invariant: no batch exceeds
// max(1, min(MaxRowsPerBatch, MaxBytesPerBatch/bytesPerRow)).
func rowCapacity(descs []bufdesc.Descriptor, o Options) int {
	rows := o.MaxRowsPerBatch
	if o.MaxBytesPerBatch > 0 {
		bpr := rowgroup.BytesPerRow(descs)
		if bpr <= 0 {
			return rows
		}
		byBytes := o.MaxBytesPerBatch / bpr
		if byBytes < rows {
			rows = byBytes
		}
	}
	return rows
}

// Schema returns the Arrow schema this reader emits, either inferred or
// as overridden by Options.Schema.
func (r *Reader) Schema() *arrow.Schema { return r.schema }

// Next fetches the next row-group and converts it into a record batch.
// It returns (nil, nil) once the cursor is exhausted. Callers should
// stop iterating rather than treat it as an error, matching
// arrow/array.RecordBatchReader's iterator convention.
func (r *Reader) Next() (arrow.Record, error) {
	if r.closed {
		return nil, nil
	}
	n, err := r.cursor.FetchWithTruncationCheck()
	if err != nil {
		if err == odbcapi.ErrNoData {
			return nil, nil
		}
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return r.buildBatch(n)
}

func (r *Reader) buildBatch(numRows int) (arrow.Record, error) {
	cols := make([]arrow.Array, len(r.fields))
	for i, strat := range r.strats {
		arr, err := strat.FillArray(r.opts.Allocator, r.buf.Columns[i], numRows)
		if err != nil {
			return nil, errColumnFailure(r.fields[i].Arrow.Name, i, err)
		}
		cols[i] = arr
	}
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()
	return array.NewRecord(r.schema, cols, int64(numRows)), nil
}

// IntoCursor unbinds the row-group buffer and advances to the next
// result set if one is pending (SQLMoreResults), returning the
// recovered cursor for use with a fresh NewReader call. This is the Go
// analogue of original_source's into_cursor(), used to drain multiple
// statements executed in one batch (e.g. "SELECT 1; SELECT 2;").
func (r *Reader) IntoCursor() (*odbcapi.Cursor, bool, error) {
	if err := r.cursor.Unbind(); err != nil {
		return nil, false, err
	}
	more, err := r.cursor.MoreResults()
	if err != nil {
		return nil, false, err
	}
	r.closed = true
	return r.cursor, more, nil
}

// Close releases the underlying statement handle. Do not call this after
// IntoCursor. That method transfers ownership of the cursor to the
// caller instead.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.cursor.Close()
}
