// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package odbcapi is the thin cgo boundary onto unixODBC/iODBC. It exposes
// exactly the surface the rest of odbcarrow needs: handle lifecycle, cursor
// metadata, columnar row-group binding for fetch, and columnar parameter
// binding for bulk insert. It does not parse SQL, manage transactions, or
// pool connections: callers hand it an already-open SQLHDBC.
//
// Everything above this package works in terms of []byte cell windows and
// int64 indicator vectors (see internal/rowgroup); this is the only package
// that touches C memory layout directly.
package odbcapi

/*
#cgo LDFLAGS: -lodbc
#include <stdlib.h>
#include <sql.h>
#include <sqlext.h>
#include <sqltypes.h>
*/
import "C"

import (
	"unsafe"
)

// handle wraps a raw ODBC handle together with its handle-type tag, needed
// by SQLGetDiagRec to retrieve the right diagnostic record.
type handle struct {
	h   C.SQLHANDLE
	typ C.SQLSMALLINT
}

func allocHandle(parentType C.SQLSMALLINT, parent C.SQLHANDLE, childType C.SQLSMALLINT) (handle, C.SQLRETURN) {
	var out C.SQLHANDLE
	ret := C.SQLAllocHandle(childType, parent, &out)
	return handle{h: out, typ: childType}, ret
}

func freeHandle(h handle) {
	C.SQLFreeHandle(h.typ, h.h)
}

func isSuccess(ret C.SQLRETURN) bool {
	return ret == C.SQL_SUCCESS || ret == C.SQL_SUCCESS_WITH_INFO
}

// cBytePtr returns a pointer to buf's backing array, or nil for an empty
// slice, SQLBindCol/SQLBindParameter both accept a null pointer paired
// with a zero buffer length for columns that are bound only for their
// indicator (never the case here, but we stay defensive).
func cBytePtr(buf []byte) unsafe.Pointer {
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Pointer(&buf[0])
}
