// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mapping holds the per-value conversion failures a read strategy
// (component B) can raise while filling one cell: failures distinct from a
// column-level construction problem (internal/colfail), since they depend
// on the data fetched, not the schema. Grounded on
// original_source/src/reader/map_odbc_to_arrow.rs's MappingError enum.
//
// This type lives below the root package so internal/readstrategy can
// construct it directly without an import cycle; the root package
// re-exports it as odbcarrow.MappingError.
package mapping

import (
	"fmt"
	"time"
)

// Kind discriminates the members of Error.
type Kind int

const (
	// OutOfRangeTimestampNs: a DATETIME2-precision value fell outside the
	// nanosecond-since-epoch range an int64 can represent.
	OutOfRangeTimestampNs Kind = iota
	// InvalidUtf8: a text cell's bytes (SQL_C_CHAR) or UTF-16 code units
	// (SQL_C_WCHAR) did not decode to valid text.
	InvalidUtf8
)

// Error is one value's conversion failure. Whether it aborts the batch or
// is swallowed into a null cell is the read strategy's call, driven by
// Options.MapValueErrorsToNull; Error itself just names what went wrong.
type Error struct {
	Kind Kind

	// Value is set for OutOfRangeTimestampNs: the calendar time that could
	// not be represented.
	Value time.Time
	// LossyValue is set for InvalidUtf8: the best-effort decode of the
	// offending cell, with invalid sequences replaced by U+FFFD.
	LossyValue string
}

func (e *Error) Error() string {
	switch e.Kind {
	case OutOfRangeTimestampNs:
		return fmt.Sprintf("mapping: %s is outside the representable nanosecond timestamp range", e.Value.Format(time.RFC3339Nano))
	case InvalidUtf8:
		return fmt.Sprintf("mapping: invalid text cell, lossy value %q", e.LossyValue)
	default:
		return "mapping: value conversion error"
	}
}

// OutOfRangeTimestampNsError reports that t cannot be represented as a
// nanosecond-since-epoch Arrow Timestamp.
func OutOfRangeTimestampNsError(t time.Time) *Error {
	return &Error{Kind: OutOfRangeTimestampNs, Value: t}
}

// InvalidUtf8Error reports that a text cell failed to decode; lossy is the
// best-effort decoding of it.
func InvalidUtf8Error(lossy string) *Error {
	return &Error{Kind: InvalidUtf8, LossyValue: lossy}
}
