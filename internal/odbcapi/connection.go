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
)

// Connection owns one SQLHENV/SQLHDBC pair opened against a driver
// connection string. One Connection hands out many Cursor/Inserter
// statement handles over its lifetime, the pattern slingdata-io-godbc's
// driver.Conn follows around its own SQLHDBC.
type Connection struct {
	env handle
	dbc handle
}

// Open allocates an environment and connection handle, declares ODBC 3.x
// compliance, and connects using connStr (a standard ODBC connection
// string: "DSN=...;UID=...;PWD=..." or a full driver-attribute string).
func Open(connStr string) (*Connection, error) {
	env, ret := allocHandle(0, nil, C.SQL_HANDLE_ENV)
	if !isSuccess(ret) {
		return nil, lastError(env)
	}
	ret = C.SQLSetEnvAttr(C.SQLHENV(env.h), C.SQL_ATTR_ODBC_VERSION, C.SQLPOINTER(uintptr(C.SQL_OV_ODBC3)), 0)
	if !isSuccess(ret) {
		freeHandle(env)
		return nil, lastError(env)
	}

	dbc, ret := allocHandle(C.SQL_HANDLE_ENV, env.h, C.SQL_HANDLE_DBC)
	if !isSuccess(ret) {
		freeHandle(env)
		return nil, lastError(env)
	}

	cConnStr := C.CString(connStr)
	defer C.free(unsafe.Pointer(cConnStr))
	var outLen C.SQLSMALLINT
	ret = C.SQLDriverConnect(
		C.SQLHDBC(dbc.h), nil,
		(*C.SQLCHAR)(unsafe.Pointer(cConnStr)), C.SQL_NTS,
		nil, 0, &outLen,
		C.SQL_DRIVER_NOPROMPT,
	)
	if !isSuccess(ret) {
		err := lastError(dbc)
		freeHandle(dbc)
		freeHandle(env)
		return nil, err
	}

	return &Connection{env: env, dbc: dbc}, nil
}

// Close disconnects and frees both handles.
func (c *Connection) Close() error {
	C.SQLDisconnect(C.SQLHDBC(c.dbc.h))
	freeHandle(c.dbc)
	freeHandle(c.env)
	return nil
}

// ExecDirect allocates a statement handle, executes sqlText directly, and
// returns a Cursor positioned before the first row. Used by the reader
// side (component G/H), which never needs parameter binding on the query
// itself.
func (c *Connection) ExecDirect(sqlText string) (*Cursor, error) {
	stmt, ret := allocHandle(C.SQL_HANDLE_DBC, c.dbc.h, C.SQL_HANDLE_STMT)
	if !isSuccess(ret) {
		return nil, lastError(c.dbc)
	}
	cText := C.CString(sqlText)
	defer C.free(unsafe.Pointer(cText))
	ret = C.SQLExecDirect(C.SQLHSTMT(stmt.h), (*C.SQLCHAR)(unsafe.Pointer(cText)), C.SQL_NTS)
	if !isSuccess(ret) {
		err := lastError(stmt)
		freeHandle(stmt)
		return nil, err
	}
	return newCursor(stmt), nil
}

// PrepareInsert allocates a statement handle and prepares sqlText (the
// synthesized INSERT text from component I), returning an Inserter ready
// for BindParameters.
func (c *Connection) PrepareInsert(sqlText string) (*Inserter, error) {
	stmt, ret := allocHandle(C.SQL_HANDLE_DBC, c.dbc.h, C.SQL_HANDLE_STMT)
	if !isSuccess(ret) {
		return nil, lastError(c.dbc)
	}
	ins := newInserter(stmt)
	if err := ins.Prepare(sqlText); err != nil {
		freeHandle(stmt)
		return nil, err
	}
	return ins, nil
}
