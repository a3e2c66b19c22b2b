// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odbcapi

/*
#include <stdlib.h>
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

// Inserter wraps a prepared statement handle bound for array-parameter
// insertion: one rowgroup.Buffer supplies every parameter column, bound
// once via SQLBindParameter and re-executed with SQL_ATTR_PARAMSET_SIZE set
// to the number of rows currently queued.
type Inserter struct {
	stmt  handle
	bound *rowgroup.Buffer
	// paramsProcessed is not bound to SQL_ATTR_PARAMS_PROCESSED_PTR;
	// Execute reports rows affected via SQLRowCount.
	paramsProcessed C.SQLULEN
}

func newInserter(stmt handle) *Inserter {
	return &Inserter{stmt: stmt}
}

// Prepare compiles the INSERT text produced by the writer's statement
// synthesis (component I) against this statement handle.
func (ins *Inserter) Prepare(sqlText string) error {
	cText := C.CString(sqlText)
	defer C.free(unsafe.Pointer(cText))
	ret := C.SQLPrepare(C.SQLHSTMT(ins.stmt.h), (*C.SQLCHAR)(unsafe.Pointer(cText)), C.SQL_NTS)
	if !isSuccess(ret) {
		return lastError(ins.stmt)
	}
	return nil
}

// BindParameters binds every column of buf as an array parameter, 1-based
// in buf.Columns order, matching the column order the INSERT text was
// synthesized with. Re-binding is required whenever a column's Descriptor
// changes shape (ensure_max_element_length rebinding after a wide cell
// forces column growth), so callers call this again after any such resize.
func (ins *Inserter) BindParameters(buf *rowgroup.Buffer) error {
	ret := C.SQLSetStmtAttr(C.SQLHSTMT(ins.stmt.h), C.SQL_ATTR_PARAM_BIND_TYPE, C.SQLPOINTER(uintptr(C.SQL_PARAM_BIND_BY_COLUMN)), 0)
	if !isSuccess(ret) {
		return lastError(ins.stmt)
	}

	for i, col := range buf.Columns {
		ctype := cTypeFor(col.Desc.Kind)
		sqltype := sqlTypeFor(col.Desc.Kind)
		ret := C.SQLBindParameter(
			C.SQLHSTMT(ins.stmt.h),
			C.SQLUSMALLINT(i+1),
			C.SQL_PARAM_INPUT,
			ctype,
			sqltype,
			C.SQLULEN(paramSize(col.Desc)),
			C.SQLSMALLINT(decimalDigits(col.Desc)),
			C.SQLPOINTER(cBytePtr(col.Data)),
			C.SQLLEN(col.Desc.CellSize()),
			(*C.SQLLEN)(unsafe.Pointer(&col.Indicator[0])),
		)
		if !isSuccess(ret) {
			return lastError(ins.stmt)
		}
	}
	ins.bound = buf
	return nil
}

// SetRowCount sets SQL_ATTR_PARAMSET_SIZE to n, the number of queued rows
// to execute as one array-parameter batch. Called immediately before
// Execute with the writer's current buffer.NumRows.
func (ins *Inserter) SetRowCount(n int) error {
	ret := C.SQLSetStmtAttr(C.SQLHSTMT(ins.stmt.h), C.SQL_ATTR_PARAMSET_SIZE, C.SQLPOINTER(uintptr(n)), 0)
	if !isSuccess(ret) {
		return lastError(ins.stmt)
	}
	return nil
}

// Execute runs the prepared statement against the currently bound
// parameter array, returning the driver-reported row count (-1 if the
// driver doesn't support it for this statement kind).
func (ins *Inserter) Execute() (int64, error) {
	ret := C.SQLExecute(C.SQLHSTMT(ins.stmt.h))
	if !isSuccess(ret) {
		return 0, lastError(ins.stmt)
	}
	var rc C.SQLLEN
	ret = C.SQLRowCount(C.SQLHSTMT(ins.stmt.h), &rc)
	if !isSuccess(ret) {
		return 0, nil
	}
	return int64(rc), nil
}

// Close releases the statement handle.
func (ins *Inserter) Close() error {
	freeHandle(ins.stmt)
	return nil
}

// sqlTypeFor picks the SQL_* parameter type paired with a given bound C
// type when describing a parameter to the driver. For most kinds this
// mirrors the C type 1:1; Decimal-as-text and wide/narrow text both
// describe as character types since the write strategies (component E)
// always hand the driver formatted text or raw octets, never a packed
// decimal.
func sqlTypeFor(k bufdesc.Kind) C.SQLSMALLINT {
	switch k {
	case bufdesc.Bit:
		return C.SQL_BIT
	case bufdesc.I8:
		return C.SQL_TINYINT
	case bufdesc.I16:
		return C.SQL_SMALLINT
	case bufdesc.I32:
		return C.SQL_INTEGER
	case bufdesc.I64:
		return C.SQL_BIGINT
	case bufdesc.U8:
		return C.SQL_TINYINT
	case bufdesc.F32:
		return C.SQL_REAL
	case bufdesc.F64:
		return C.SQL_DOUBLE
	case bufdesc.Date:
		return C.SQL_TYPE_DATE
	case bufdesc.Time:
		return C.SQL_TYPE_TIME
	case bufdesc.Timestamp:
		return C.SQL_TYPE_TIMESTAMP
	case bufdesc.WText:
		return C.SQL_WVARCHAR
	case bufdesc.Binary, bufdesc.FixedBinary:
		return C.SQL_VARBINARY
	default:
		return C.SQL_VARCHAR
	}
}

// paramSize is the column-size parameter SQLBindParameter expects: element
// count for text/binary, the fixed column size for everything else.
func paramSize(d bufdesc.Descriptor) int {
	switch d.Kind {
	case bufdesc.Text:
		return d.MaxStrLen
	case bufdesc.WText:
		return d.MaxStrLenU16
	case bufdesc.Binary:
		return d.MaxLen
	case bufdesc.FixedBinary:
		return d.FixedLen
	default:
		return d.CellSize()
	}
}

// decimalDigits is always 0: decimal/numeric parameters are bound as
// SQL_VARCHAR text (see sqlTypeFor), and the decimal-digits argument to
// SQLBindParameter is only consulted by drivers for SQL_DECIMAL/SQL_NUMERIC
// parameter types.
func decimalDigits(d bufdesc.Descriptor) int {
	return 0
}
