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
	"fmt"
	"unsafe"
)

// DriverError carries one SQLSTATE diagnostic record retrieved via
// SQLGetDiagRec. Everything above this package treats it as an opaque
// cause wrapped inside the public error taxonomy.
type DriverError struct {
	SQLState     string
	NativeError  int32
	Message      string
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("odbc: [%s] %s (native %d)", e.SQLState, e.Message, e.NativeError)
}

// lastError reads the first diagnostic record for h and wraps it. Called
// whenever a SQLRETURN indicates SQL_ERROR.
func lastError(h handle) error {
	var state [6]C.SQLCHAR
	var native C.SQLINTEGER
	msg := make([]C.SQLCHAR, 1024)
	var msgLen C.SQLSMALLINT

	ret := C.SQLGetDiagRec(
		h.typ, h.h, 1,
		(*C.SQLCHAR)(unsafe.Pointer(&state[0])),
		&native,
		(*C.SQLCHAR)(unsafe.Pointer(&msg[0])),
		C.SQLSMALLINT(len(msg)),
		&msgLen,
	)
	if !isSuccess(ret) {
		return &DriverError{Message: "driver diagnostic unavailable"}
	}
	return &DriverError{
		SQLState:    C.GoStringN((*C.char)(unsafe.Pointer(&state[0])), 5),
		NativeError: int32(native),
		Message:     C.GoStringN((*C.char)(unsafe.Pointer(&msg[0])), C.int(msgLen)),
	}
}
