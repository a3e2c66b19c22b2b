// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package colfail names why schema inference (component F) or the
// read-strategy selector (component D) could not produce a usable binding
// for one result-set column. Grounded on original_source/src/reader.rs's
// ColumnFailure enum.
//
// This type lives below the root package so internal/schema and
// internal/readstrategy can construct it directly without an import
// cycle; the root package re-exports it as odbcarrow.ColumnFailure.
package colfail

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"

	"github.com/solidcoredata/odbcarrow/internal/odbcapi"
)

// Kind discriminates the members of Failure.
type Kind int

const (
	// ZeroSizedColumn: the driver reported a zero or negative size for a
	// bounded text/binary column and no Limits cap was configured to fall
	// back on.
	ZeroSizedColumn Kind = iota
	// UnknownStringLength: a LOB-shaped column (LONGVARCHAR/WLONGVARCHAR)
	// the driver cannot report a natural size for has no Limits cap to
	// fall back on either.
	UnknownStringLength
	// UnsupportedArrowType: the column's target Arrow type has no transit
	// buffer shape this package knows how to bind.
	UnsupportedArrowType
	// FailedToDescribeColumn: SQLDescribeCol (or the equivalent driver
	// call) failed outright for this column.
	FailedToDescribeColumn
	// TooLarge: a single column's cell size would require an allocation
	// past a sane per-column ceiling.
	TooLarge
)

// Failure is the cause wrapped inside odbcarrow.Error when its Kind is
// ErrColumnFailure.
type Failure struct {
	Kind Kind

	// SQLType is set for ZeroSizedColumn and UnknownStringLength.
	SQLType odbcapi.SQLType
	// ArrowType is set for UnsupportedArrowType.
	ArrowType arrow.DataType
	// NumElements and ElementSize are set for TooLarge.
	NumElements int
	ElementSize int

	cause error
}

func (f *Failure) Error() string {
	switch f.Kind {
	case ZeroSizedColumn:
		return fmt.Sprintf("column reports a zero (or unknown) size for SQL type %d and no size limit is configured", f.SQLType)
	case UnknownStringLength:
		if f.cause != nil {
			return fmt.Sprintf("unable to determine string length for SQL type %d: %v", f.SQLType, f.cause)
		}
		return fmt.Sprintf("unable to determine string length for SQL type %d and no size limit is configured", f.SQLType)
	case UnsupportedArrowType:
		return fmt.Sprintf("no transit buffer shape for arrow type %s", f.ArrowType)
	case FailedToDescribeColumn:
		return fmt.Sprintf("failed to describe column: %v", f.cause)
	case TooLarge:
		return fmt.Sprintf("column would require %d element(s) of %d bytes each, past the per-column allocation ceiling", f.NumElements, f.ElementSize)
	default:
		return "column failure"
	}
}

func (f *Failure) Unwrap() error { return f.cause }

func NewZeroSizedColumn(sqlType odbcapi.SQLType) *Failure {
	return &Failure{Kind: ZeroSizedColumn, SQLType: sqlType}
}

func NewUnknownStringLength(sqlType odbcapi.SQLType, cause error) *Failure {
	return &Failure{Kind: UnknownStringLength, SQLType: sqlType, cause: cause}
}

func NewUnsupportedArrowType(t arrow.DataType) *Failure {
	return &Failure{Kind: UnsupportedArrowType, ArrowType: t}
}

func NewFailedToDescribeColumn(cause error) *Failure {
	return &Failure{Kind: FailedToDescribeColumn, cause: cause}
}

func NewTooLarge(numElements, elementSize int) *Failure {
	return &Failure{Kind: TooLarge, NumElements: numElements, ElementSize: elementSize}
}
