// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odbcarrow

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"

	"github.com/solidcoredata/odbcarrow/internal/bufdesc"
	"github.com/solidcoredata/odbcarrow/internal/odbcapi"
	"github.com/solidcoredata/odbcarrow/internal/rowgroup"
	"github.com/solidcoredata/odbcarrow/internal/schema"
	"github.com/solidcoredata/odbcarrow/internal/writestrategy"
)

// InsertStatementText generates `INSERT INTO <table> (<c1>, <c2>, ...)
// VALUES (?, ?, ...)` from schema's field names, quoting any name that
// contains a character outside [A-Za-z0-9_@$#]. No trailing semicolon:
// some drivers (IBM DB2 among them) reject one, reading it as the start
// of a second statement.
func InsertStatementText(s *arrow.Schema, table string) string {
	names := make([]string, len(s.Fields()))
	for i, f := range s.Fields() {
		names[i] = f.Name
	}
	return insertStatementText(table, names)
}

func insertStatementText(table string, columnNames []string) string {
	quoted := make([]string, len(columnNames))
	placeholders := make([]string, len(columnNames))
	for i, cn := range columnNames {
		quoted[i] = quoteColumnName(cn)
		placeholders[i] = "?"
	}
	return "INSERT INTO " + table + " (" + strings.Join(quoted, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ")"
}

// quoteColumnName is idempotent: quote(quote(x)) == quote(x) for every x.
// A name already wrapped in a matching pair of double quotes is returned
// unchanged rather than quoted again, so running a schema's field names
// through insertStatementText more than once (e.g. to build both a SELECT
// and an INSERT) never grows an extra layer of quoting.
func quoteColumnName(columnName string) string {
	if isQuotedColumnName(columnName) {
		return columnName
	}
	for _, c := range columnName {
		if !validInColumnName(c) {
			return `"` + strings.ReplaceAll(columnName, `"`, `""`) + `"`
		}
	}
	return columnName
}

// isQuotedColumnName reports whether s is already wrapped in a matching
// pair of double quotes, with any embedded quote doubled per SQL
// delimited-identifier escaping ("a""b" quotes the name a"b).
func isQuotedColumnName(s string) bool {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return false
	}
	inner := s[1 : len(s)-1]
	for i := 0; i < len(inner); i++ {
		if inner[i] != '"' {
			continue
		}
		// A lone quote (not part of a doubled pair) means s is not
		// validly quoted as a whole; an odd trailing quote falls through
		// to quoting the raw string instead of miscounting it as closed.
		if i+1 >= len(inner) || inner[i+1] != '"' {
			return false
		}
		i++
	}
	return true
}

func validInColumnName(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		c == '@' || c == '$' || c == '#' || c == '_'
}

// Writer streams Arrow records into an ODBC table using array-parameter
// bulk insert, flushing whenever the bound buffer fills to its configured
// row capacity and once more at Close for any partial tail.
type Writer struct {
	opts     WriterOptions
	conn     *odbcapi.Connection
	sqlText  string
	fields   []schema.Field
	strats   []writestrategy.Strategy
	buf      *rowgroup.Buffer
	inserter *odbcapi.Inserter
}

// NewWriter prepares an INSERT statement for table against s's fields and
// binds an array-parameter buffer sized to WriterOptions.MaxRowsPerBatch.
func NewWriter(conn *odbcapi.Connection, table string, s *arrow.Schema, opts ...WriterOption) (*Writer, error) {
	o := newWriterOptions(opts)

	fields := make([]schema.Field, len(s.Fields()))
	strats := make([]writestrategy.Strategy, len(s.Fields()))
	descs := make([]bufdesc.Descriptor, len(s.Fields()))
	for i, f := range s.Fields() {
		strat, desc, err := writestrategy.Select(schema.Field{Arrow: f}, o.TimeZone, o.PreferWideText)
		if err != nil {
			return nil, errUnsupportedArrowDataType(err)
		}
		fields[i] = schema.Field{Arrow: f, Desc: desc}
		strats[i] = strat
		descs[i] = desc
	}

	sqlText := InsertStatementText(s, table)
	inserter, err := conn.PrepareInsert(sqlText)
	if err != nil {
		return nil, errPreparingInsertStatement(sqlText, err)
	}

	buf := rowgroup.New(descs, o.MaxRowsPerBatch)
	if err := inserter.BindParameters(buf); err != nil {
		inserter.Close()
		return nil, errBindParameterBuffers(err)
	}

	return &Writer{
		opts:     o,
		conn:     conn,
		sqlText:  sqlText,
		fields:   fields,
		strats:   strats,
		buf:      buf,
		inserter: inserter,
	}, nil
}

// WriteBatch queues rec's rows for insertion, flushing the bound buffer
// (possibly more than once) whenever it fills. A variable-length column
// whose widest cell in rec exceeds the currently bound width triggers a
// rebind-and-retry rather than a partial write: the Go analogue of
// original_source's ensure_max_element_length, scoped to a whole batch
// instead of a single row.
func (w *Writer) WriteBatch(rec arrow.Record) error {
	if int(rec.NumCols()) != len(w.fields) {
		return errReadingRecordBatch(fmt.Errorf("record has %d columns, writer expects %d", rec.NumCols(), len(w.fields)))
	}

	total := int(rec.NumRows())
	written := 0
	for written < total {
		room := w.buf.Capacity - w.buf.NumRows
		n := total - written
		if n > room {
			n = room
		}
		if n == 0 {
			if err := w.Flush(); err != nil {
				return err
			}
			continue
		}
		if err := w.writeRows(rec, written, n); err != nil {
			return err
		}
		w.buf.NumRows += n
		written += n
		if w.buf.NumRows == w.buf.Capacity {
			if err := w.Flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeRows attempts WriteRows for every column over the row window
// [from, from+n) of rec, rebinding the buffer and retrying on
// writestrategy.ErrNeedsGrow.
func (w *Writer) writeRows(rec arrow.Record, from, n int) error {
	for i, strat := range w.strats {
		col := rec.Column(i)
		slice := col
		if from != 0 || n != col.Len() {
			slice = array.NewSlice(col, int64(from), int64(from+n))
			defer slice.Release()
		}
		err := strat.WriteRows(w.buf.Columns[i], w.buf.NumRows, slice)
		var grow *writestrategy.ErrNeedsGrow
		if errors.As(err, &grow) {
			if err := w.growColumn(i, grow.NewMaxLen); err != nil {
				return err
			}
			err = strat.WriteRows(w.buf.Columns[i], w.buf.NumRows, slice)
		}
		if err != nil {
			return errReadingRecordBatch(err)
		}
	}
	return nil
}

// growColumn resizes one column's descriptor to hold newMaxLen-sized
// elements, preserving the rows already queued in it and every other
// column's bound data, then rebinds the whole parameter buffer
// (SQLBindParameter addresses cannot be changed one column at a time).
func (w *Writer) growColumn(colIndex, newMaxLen int) error {
	col := w.buf.Columns[colIndex]
	desc := col.Desc
	switch desc.Kind {
	case bufdesc.Text:
		desc = bufdesc.NewText(newMaxLen, desc.Nullable)
	case bufdesc.WText:
		desc = bufdesc.NewWText(newMaxLen, desc.Nullable)
	case bufdesc.Binary:
		desc = bufdesc.NewBinary(newMaxLen, desc.Nullable)
	default:
		return errRebindBuffer(nil)
	}
	old, oldSize := col.Data, col.Desc.CellSize()
	col.Resize(desc, w.buf.Capacity)
	// Copy back the queued rows' cells; their indicators survive Resize
	// because the capacity is unchanged.
	newSize := desc.CellSize()
	for r := 0; r < w.buf.NumRows; r++ {
		copy(col.Data[r*newSize:(r+1)*newSize], old[r*oldSize:(r+1)*oldSize])
	}
	w.fields[colIndex].Desc = desc
	if err := w.inserter.BindParameters(w.buf); err != nil {
		return errRebindBuffer(err)
	}
	return nil
}

// Flush executes the currently queued rows as one array-parameter batch
// and resets the buffer for reuse. A no-op when nothing is queued.
func (w *Writer) Flush() error {
	if w.buf.NumRows == 0 {
		return nil
	}
	if err := w.inserter.SetRowCount(w.buf.NumRows); err != nil {
		return errExecuteStatement(err)
	}
	if _, err := w.inserter.Execute(); err != nil {
		return errExecuteStatement(err)
	}
	w.buf.Reset()
	return nil
}

// Close flushes any remaining queued rows and releases the prepared
// statement handle.
func (w *Writer) Close() error {
	if err := w.Flush(); err != nil {
		w.inserter.Close()
		return err
	}
	return w.inserter.Close()
}

// ValidateTimeZone checks tz against the IANA time zone database,
// returning ErrInvalidTimeZone if it cannot be loaded. Called by
// WithWriterTimeZone users before constructing a Writer, since an
// invalid zone would otherwise only surface on the first timestamp row.
func ValidateTimeZone(tz string) error {
	if tz == "" {
		return nil
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return errInvalidTimeZone(tz)
	}
	return nil
}
