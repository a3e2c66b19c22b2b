// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odbcapi

/*
#include <sql.h>
#include <sqlext.h>
#include <sqltypes.h>
*/
import "C"

import (
	"unsafe"

	"github.com/solidcoredata/odbcarrow/internal/bufdesc"
	"github.com/solidcoredata/odbcarrow/internal/rowgroup"
)

// Cursor wraps a statement handle that has an open result set. It owns the
// binding of exactly one rowgroup.Buffer at a time, mirroring the "cursor
// exclusively owns the buffer for the duration of iteration" ownership rule
// from the DESIGN NOTES.
type Cursor struct {
	stmt  handle
	bound *rowgroup.Buffer
	// rowStatus and rowsFetched back the SQL_ATTR_ROW_STATUS_PTR /
	// SQL_ATTR_ROWS_FETCHED_PTR attributes; sized to the bound buffer's
	// capacity and reused across fetches.
	rowStatus   []C.SQLUSMALLINT
	rowsFetched C.SQLULEN
}

func newCursor(stmt handle) *Cursor {
	return &Cursor{stmt: stmt}
}

// NumCols returns SQLNumResultCols, wrapped as UnableToRetrieveNumCols by
// the caller on failure.
func (c *Cursor) NumCols() (int, error) {
	var n C.SQLSMALLINT
	ret := C.SQLNumResultCols(C.SQLHSTMT(c.stmt.h), &n)
	if !isSuccess(ret) {
		return 0, lastError(c.stmt)
	}
	return int(n), nil
}

// DescribeColumn returns SQLDescribeCol + the unsigned attribute for the
// 1-based column index idx.
func (c *Cursor) DescribeColumn(idx int) (ColumnDesc, error) {
	var nameBuf [256]C.SQLCHAR
	var nameLen C.SQLSMALLINT
	var dataType C.SQLSMALLINT
	var colSize C.SQLULEN
	var decDigits C.SQLSMALLINT
	var nullable C.SQLSMALLINT

	ret := C.SQLDescribeCol(
		C.SQLHSTMT(c.stmt.h),
		C.SQLUSMALLINT(idx),
		(*C.SQLCHAR)(unsafe.Pointer(&nameBuf[0])),
		C.SQLSMALLINT(len(nameBuf)),
		&nameLen,
		&dataType,
		&colSize,
		&decDigits,
		&nullable,
	)
	if !isSuccess(ret) {
		return ColumnDesc{}, lastError(c.stmt)
	}

	var unsignedAttr C.SQLLEN
	C.SQLColAttribute(
		C.SQLHSTMT(c.stmt.h),
		C.SQLUSMALLINT(idx),
		C.SQL_DESC_UNSIGNED,
		nil, 0, nil,
		&unsignedAttr,
	)

	return ColumnDesc{
		Name:          C.GoStringN((*C.char)(unsafe.Pointer(&nameBuf[0])), C.int(nameLen)),
		SQLType:       SQLType(dataType),
		ColumnSize:    int64(colSize),
		DecimalDigits: int16(decDigits),
		Nullability:   Nullability(nullable),
		Unsigned:      unsignedAttr == C.SQL_TRUE,
	}, nil
}

func cTypeFor(k bufdesc.Kind) C.SQLSMALLINT {
	switch k {
	case bufdesc.Bit:
		return C.SQL_C_BIT
	case bufdesc.I8:
		return C.SQL_C_STINYINT
	case bufdesc.I16:
		return C.SQL_C_SSHORT
	case bufdesc.I32:
		return C.SQL_C_SLONG
	case bufdesc.I64:
		return C.SQL_C_SBIGINT
	case bufdesc.U8:
		return C.SQL_C_UTINYINT
	case bufdesc.F32:
		return C.SQL_C_FLOAT
	case bufdesc.F64:
		return C.SQL_C_DOUBLE
	case bufdesc.Date:
		return C.SQL_C_TYPE_DATE
	case bufdesc.Time:
		return C.SQL_C_TYPE_TIME
	case bufdesc.Timestamp:
		return C.SQL_C_TYPE_TIMESTAMP
	case bufdesc.Text:
		return C.SQL_C_CHAR
	case bufdesc.WText:
		return C.SQL_C_WCHAR
	case bufdesc.Binary, bufdesc.FixedBinary:
		return C.SQL_C_BINARY
	default:
		return C.SQL_C_DEFAULT
	}
}

// BindRowGroup binds every column of buf to this statement using
// column-wise array binding (the default SQL_BIND_BY_COLUMN), and sets the
// row-array-size / status / rows-fetched attributes from buf's capacity.
// Invariant (1) from the DATA MODEL (sub-buffer count and order matches
// the schema) is the caller's responsibility; this method binds strictly
// in buf.Columns order, 1-based.
func (c *Cursor) BindRowGroup(buf *rowgroup.Buffer) error {
	ret := C.SQLSetStmtAttr(C.SQLHSTMT(c.stmt.h), C.SQL_ATTR_ROW_BIND_TYPE, C.SQLPOINTER(uintptr(C.SQL_BIND_BY_COLUMN)), 0)
	if !isSuccess(ret) {
		return lastError(c.stmt)
	}
	ret = C.SQLSetStmtAttr(C.SQLHSTMT(c.stmt.h), C.SQL_ATTR_ROW_ARRAY_SIZE, C.SQLPOINTER(uintptr(buf.Capacity)), 0)
	if !isSuccess(ret) {
		return lastError(c.stmt)
	}

	c.rowStatus = make([]C.SQLUSMALLINT, buf.Capacity)
	ret = C.SQLSetStmtAttr(C.SQLHSTMT(c.stmt.h), C.SQL_ATTR_ROW_STATUS_PTR, C.SQLPOINTER(unsafe.Pointer(&c.rowStatus[0])), 0)
	if !isSuccess(ret) {
		return lastError(c.stmt)
	}
	ret = C.SQLSetStmtAttr(C.SQLHSTMT(c.stmt.h), C.SQL_ATTR_ROWS_FETCHED_PTR, C.SQLPOINTER(unsafe.Pointer(&c.rowsFetched)), 0)
	if !isSuccess(ret) {
		return lastError(c.stmt)
	}

	for i, col := range buf.Columns {
		ret := C.SQLBindCol(
			C.SQLHSTMT(c.stmt.h),
			C.SQLUSMALLINT(i+1),
			cTypeFor(col.Desc.Kind),
			C.SQLPOINTER(cBytePtr(col.Data)),
			C.SQLLEN(col.Desc.CellSize()),
			(*C.SQLLEN)(unsafe.Pointer(&col.Indicator[0])),
		)
		if !isSuccess(ret) {
			return lastError(c.stmt)
		}
	}
	c.bound = buf
	return nil
}

// Unbind releases the column bindings (SQLFreeStmt(SQL_UNBIND)) so the
// underlying cursor can be recovered independently of the buffer, used by
// into_cursor() for multi-result-set workflows.
func (c *Cursor) Unbind() error {
	ret := C.SQLFreeStmt(C.SQLHSTMT(c.stmt.h), C.SQL_UNBIND)
	c.bound = nil
	if !isSuccess(ret) {
		return lastError(c.stmt)
	}
	return nil
}

// ErrNoData is returned by FetchWithTruncationCheck when the cursor is
// exhausted.
var ErrNoData = &noDataError{}

type noDataError struct{}

func (*noDataError) Error() string { return "odbc: no more rows" }

// FetchWithTruncationCheck fetches the next row-group into the bound
// buffer. A variable-length cell whose indicator exceeds the cell's payload
// capacity (its bound width minus the text terminator), or reads
// SQL_NO_TOTAL, is promoted to ErrTruncated, matching
// fetch_with_truncation_check(true) in the EXTERNAL INTERFACES.
func (c *Cursor) FetchWithTruncationCheck() (int, error) {
	ret := C.SQLFetchScroll(C.SQLHSTMT(c.stmt.h), C.SQL_FETCH_NEXT, 0)
	if ret == C.SQL_NO_DATA {
		return 0, ErrNoData
	}
	if !isSuccess(ret) {
		return 0, lastError(c.stmt)
	}

	n := int(c.rowsFetched)
	if err := c.checkTruncation(n); err != nil {
		return n, err
	}
	return n, nil
}

// ErrTruncated is returned when the driver silently truncated a cell; the
// caller surfaces this as an external batch error per the ERROR HANDLING
// DESIGN's per-batch layer.
type ErrTruncated struct {
	ColumnIndex int // 0-based
	Row         int
}

func (e *ErrTruncated) Error() string {
	return "odbc: truncated value in column"
}

func (c *Cursor) checkTruncation(n int) error {
	for ci, col := range c.bound.Columns {
		if !col.Desc.Kind.IsVariable() {
			continue
		}
		// The indicator reports the value's full length, which excludes the
		// terminator the driver writes into text cells.
		limit := col.Desc.CellSize()
		switch col.Desc.Kind {
		case bufdesc.Text:
			limit = col.Desc.MaxStrLen
		case bufdesc.WText:
			limit = col.Desc.MaxStrLenU16 * 2
		}
		for r := 0; r < n; r++ {
			ind := col.Indicator[r]
			if ind == rowgroup.NullData {
				continue
			}
			if ind == C.SQL_NO_TOTAL || int(ind) > limit {
				return &ErrTruncated{ColumnIndex: ci, Row: r}
			}
		}
	}
	return nil
}

// MoreResults advances to the next result set (used by Reader.IntoCursor
// multi-statement workflows), returning false once there are none left.
func (c *Cursor) MoreResults() (bool, error) {
	ret := C.SQLMoreResults(C.SQLHSTMT(c.stmt.h))
	if ret == C.SQL_NO_DATA {
		return false, nil
	}
	if !isSuccess(ret) {
		return false, lastError(c.stmt)
	}
	return true, nil
}

// Close releases the statement handle. Once closed the cursor cannot be
// recovered by IntoCursor.
func (c *Cursor) Close() error {
	freeHandle(c.stmt)
	return nil
}
