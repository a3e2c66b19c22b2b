// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odbcapi

// SQLType mirrors the SQL_* data type codes from sql.h/sqlext.h. Kept as a
// plain Go int16 enum (rather than re-exporting the cgo constants) so that
// every package above this one (schema inference, the read/write strategy
// selectors) stays free of "C" imports; this file is the single place the
// numeric values are pinned down.
type SQLType int16

const (
	SQLChar           SQLType = 1
	SQLNumeric        SQLType = 2
	SQLDecimal        SQLType = 3
	SQLInteger        SQLType = 4
	SQLSmallint       SQLType = 5
	SQLFloat          SQLType = 6
	SQLReal           SQLType = 7
	SQLDouble         SQLType = 8
	SQLDatetime       SQLType = 9
	SQLVarchar        SQLType = 12
	SQLTypeDate       SQLType = 91
	SQLTypeTime       SQLType = 92
	SQLTypeTimestamp  SQLType = 93
	SQLLongVarchar    SQLType = -1
	SQLBinary         SQLType = -2
	SQLVarbinary      SQLType = -3
	SQLLongVarbinary  SQLType = -4
	SQLBigint         SQLType = -5
	SQLTinyint        SQLType = -6
	SQLBit            SQLType = -7
	SQLWchar          SQLType = -8
	SQLWvarchar       SQLType = -9
	SQLWLongVarchar   SQLType = -10
	SQLGUID           SQLType = -11
)

// CType mirrors the SQL_C_* binding type codes used in SQLBindCol /
// SQLBindParameter.
type CType int16

const (
	CChar      CType = 1
	CWChar     CType = -8
	CSShort    CType = -15 // SQL_C_SHORT variants collapse to this in practice
	CSLong     CType = 4
	CSBigint   CType = -25
	CBit       CType = -7
	CUTinyint  CType = -28
	CFloat     CType = 7
	CDouble    CType = 8
	CBinary    CType = -2
	CDate      CType = 91
	CTime      CType = 92
	CTimestamp CType = 93
)

// NullData is ODBC's SQL_NULL_DATA length-indicator sentinel.
const NullData int64 = -1

// Nullability mirrors SQL_NULLABLE / SQL_NO_NULLS / SQL_NULLABLE_UNKNOWN as
// reported by SQLDescribeCol.
type Nullability int16

const (
	NoNulls         Nullability = 0
	Nullable        Nullability = 1
	NullableUnknown Nullability = 2
)

// ColumnDesc is what SQLDescribeCol/SQLColAttribute give us about one
// result-set column: the information the schema inferrer (component F) and
// the read-strategy selector (component D) both need.
type ColumnDesc struct {
	Name          string
	SQLType       SQLType
	ColumnSize    int64 // display/character size, 0 if driver can't say
	DecimalDigits int16 // scale, for NUMERIC/DECIMAL; sub-second digits for datetime
	Nullability   Nullability
	Unsigned      bool
}
