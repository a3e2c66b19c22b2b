// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

// Quirks records known per-driver deviations from the ODBC specification
// that schema inference and the read strategies need to route around.
// Grounded on original_source/src/quirks.rs; odbcarrow keeps its one
// documented case plus the zero/negative column size convention that
// original_source's schema.rs handles inline rather than as a named quirk.
type Quirks struct {
	// IndicatorsFromBulkFetchAreMemoryGarbage mirrors the one quirk
	// original_source names explicitly: some IBM DB2 driver builds return
	// garbage length indicators for variadic string columns under
	// column-wise bulk fetch, and the only reliable signal is the
	// terminating NUL. When set, the narrow/wide text read strategies
	// ignore the indicator and scan for NUL instead of trusting ElemLen.
	IndicatorsFromBulkFetchAreMemoryGarbage bool

	// ZeroOrNegativeColumnSizeIsUnknown treats a driver-reported column
	// size of zero or less as "the driver doesn't know", falling back to
	// the caller's configured max_text_size/max_binary_size cap instead of
	// binding a zero-width buffer. Several drivers report this for
	// LONGVARCHAR/LONGVARBINARY columns and for views.
	ZeroOrNegativeColumnSizeIsUnknown bool
}

// DefaultQuirks returns the permissive baseline: no special-cased driver
// behavior assumed, matching original_source's Quirks::new().
func DefaultQuirks() Quirks {
	return Quirks{
		ZeroOrNegativeColumnSizeIsUnknown: true,
	}
}
