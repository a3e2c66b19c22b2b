// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odbcarrow

import (
	"golang.org/x/xerrors"

	"github.com/solidcoredata/odbcarrow/internal/colfail"
	"github.com/solidcoredata/odbcarrow/internal/mapping"
)

// Error is returned by NewReader/NewConcurrentReader when the reader
// cannot be constructed at all: schema inference failed outright, or the
// row-group buffer cannot be sized within the configured byte budget.
// Reader.Next also returns it, with Kind ErrColumnFailure, when a fetched
// column cannot be converted to its Arrow array.
// Grounded on original_source/src/error.rs's Error enum, reworked into one
// Go type with a Kind discriminator plus an Unwrap-able cause, the idiom
// chenxi8611-arrow's ipc file_reader.go uses for golang.org/x/xerrors.
type Error struct {
	Kind ErrorKind
	// Column and ColumnIndex are set only when Kind is ErrColumnFailure.
	Column      string
	ColumnIndex int
	// MaxBytesPerBatch and BytesPerRow are set only when Kind is
	// ErrOdbcBufferTooSmall.
	MaxBytesPerBatch int
	BytesPerRow      int

	cause error
}

// ErrorKind discriminates the members of Error, mirroring the variants of
// original_source's Error enum.
type ErrorKind int

const (
	// ErrUnableToRetrieveNumCols: SQLNumResultCols failed.
	ErrUnableToRetrieveNumCols ErrorKind = iota
	// ErrColumnFailure: SQLDescribeCol or a derived conversion failed for
	// one specific column; Column/ColumnIndex identify it.
	ErrColumnFailure
	// ErrOdbcBufferTooSmall: the configured max bytes per batch cannot
	// hold even a single row given the schema's widest columns.
	ErrOdbcBufferTooSmall
)

func (e *Error) Error() string {
	switch e.Kind {
	case ErrUnableToRetrieveNumCols:
		return xerrors.Errorf("odbcarrow: unable to retrieve number of columns in result set: %w", e.cause).Error()
	case ErrColumnFailure:
		return xerrors.Errorf("odbcarrow: problem with column %q (index %d): %w", e.Column, e.ColumnIndex, e.cause).Error()
	case ErrOdbcBufferTooSmall:
		return xerrors.Errorf(
			"odbcarrow: buffer is limited to %d bytes per batch, but a single row requires %d; "+
				"raise the limit or shorten variadic columns",
			e.MaxBytesPerBatch, e.BytesPerRow,
		).Error()
	default:
		return "odbcarrow: error"
	}
}

func (e *Error) Unwrap() error { return e.cause }

func errUnableToRetrieveNumCols(cause error) *Error {
	return &Error{Kind: ErrUnableToRetrieveNumCols, cause: cause}
}

func errColumnFailure(name string, index int, cause error) *Error {
	return &Error{Kind: ErrColumnFailure, Column: name, ColumnIndex: index, cause: cause}
}

func errOdbcBufferTooSmall(maxBytesPerBatch, bytesPerRow int) *Error {
	return &Error{Kind: ErrOdbcBufferTooSmall, MaxBytesPerBatch: maxBytesPerBatch, BytesPerRow: bytesPerRow}
}

// WriterError is returned by batch-writer operations (component I).
// Grounded on original_source/src/odbc_writer.rs's WriterError enum.
type WriterError struct {
	Kind WriterErrorKind
	// SQL and TimeZone are set only for the matching Kind.
	SQL      string
	TimeZone string

	cause error
}

// WriterErrorKind discriminates the members of WriterError.
type WriterErrorKind int

const (
	ErrBindParameterBuffers WriterErrorKind = iota
	ErrExecuteStatement
	ErrRebindBuffer
	ErrUnsupportedArrowDataType
	ErrReadingRecordBatch
	ErrInvalidTimeZone
	ErrPreparingInsertStatement
)

func (e *WriterError) Error() string {
	switch e.Kind {
	case ErrBindParameterBuffers:
		return xerrors.Errorf("odbcarrow: failed to bind array parameter buffers: %w", e.cause).Error()
	case ErrExecuteStatement:
		return xerrors.Errorf("odbcarrow: failed to execute insert statement: %w", e.cause).Error()
	case ErrRebindBuffer:
		return xerrors.Errorf("odbcarrow: failed to rebind a growing parameter buffer: %w", e.cause).Error()
	case ErrUnsupportedArrowDataType:
		return xerrors.Errorf("odbcarrow: arrow data type not supported for insertion: %w", e.cause).Error()
	case ErrReadingRecordBatch:
		return xerrors.Errorf("odbcarrow: failed to read a record batch from the source reader: %w", e.cause).Error()
	case ErrInvalidTimeZone:
		return xerrors.Errorf("odbcarrow: %q is not a valid IANA time zone", e.TimeZone).Error()
	case ErrPreparingInsertStatement:
		return xerrors.Errorf("odbcarrow: failed preparing insert statement %q: %w", e.SQL, e.cause).Error()
	default:
		return "odbcarrow: writer error"
	}
}

func (e *WriterError) Unwrap() error { return e.cause }

func errBindParameterBuffers(cause error) *WriterError {
	return &WriterError{Kind: ErrBindParameterBuffers, cause: cause}
}

func errExecuteStatement(cause error) *WriterError {
	return &WriterError{Kind: ErrExecuteStatement, cause: cause}
}

func errRebindBuffer(cause error) *WriterError {
	return &WriterError{Kind: ErrRebindBuffer, cause: cause}
}

func errUnsupportedArrowDataType(cause error) *WriterError {
	return &WriterError{Kind: ErrUnsupportedArrowDataType, cause: cause}
}

func errReadingRecordBatch(cause error) *WriterError {
	return &WriterError{Kind: ErrReadingRecordBatch, cause: cause}
}

func errInvalidTimeZone(tz string) *WriterError {
	return &WriterError{Kind: ErrInvalidTimeZone, TimeZone: tz}
}

func errPreparingInsertStatement(sql string, cause error) *WriterError {
	return &WriterError{Kind: ErrPreparingInsertStatement, SQL: sql, cause: cause}
}

// ColumnFailure is the cause wrapped inside Error when Kind is
// ErrColumnFailure: what specifically went wrong describing or binding the
// column. Grounded on original_source/src/reader.rs's ColumnFailure enum;
// the typed variants live in internal/colfail so schema inference and the
// read-strategy selector can construct them without an import cycle back
// into this package.
type ColumnFailure = colfail.Failure

// ColumnFailureKind discriminates the members of ColumnFailure.
type ColumnFailureKind = colfail.Kind

const (
	ZeroSizedColumn        = colfail.ZeroSizedColumn
	UnknownStringLength    = colfail.UnknownStringLength
	UnsupportedArrowType   = colfail.UnsupportedArrowType
	FailedToDescribeColumn = colfail.FailedToDescribeColumn
	TooLarge               = colfail.TooLarge
)

// MappingError is a per-value conversion failure raised while filling one
// cell of a record batch (as opposed to ColumnFailure, raised while
// constructing the column binding itself). Grounded on
// original_source/src/reader/map_odbc_to_arrow.rs's MappingError enum.
type MappingError = mapping.Error

// MappingErrorKind discriminates the members of MappingError.
type MappingErrorKind = mapping.Kind

const (
	OutOfRangeTimestampNs = mapping.OutOfRangeTimestampNs
	InvalidUtf8           = mapping.InvalidUtf8
)
