// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package readstrategy

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/solidcoredata/odbcarrow/internal/mapping"
	"github.com/solidcoredata/odbcarrow/internal/rowgroup"
)

// textStrategy reads a narrow (SQL_C_CHAR) or wide (SQL_C_WCHAR, UTF-16)
// text cell into an Arrow Utf8 array. Grounded on slingdata-io-godbc's
// getString/getWideString (other_examples rows.go): prefer the driver's
// reported element length, but fall back to scanning for the NUL
// terminator when the quirk for memory-garbage indicators is set (the one
// named quirk from original_source/src/quirks.rs).
type textStrategy struct {
	nullable       bool
	wide           bool
	trustIndicator bool
	// mapErrorsToNull: when set, a cell that fails to decode as valid text
	// becomes a null cell instead of aborting the batch. Grounded on
	// original_source/src/reader/map_odbc_to_arrow.rs's
	// MappingError::InvalidUtf8 handling under value_errors_as_null.
	mapErrorsToNull bool
}

func (s textStrategy) FillArray(mem memory.Allocator, col *rowgroup.Column, n int) (arrow.Array, error) {
	b := array.NewStringBuilder(mem)
	defer b.Release()
	b.Resize(n)
	for i := 0; i < n; i++ {
		if s.nullable && col.IsNull(i) {
			b.AppendNull()
			continue
		}
		row := col.Row(i)
		var text string
		var ok bool
		if s.wide {
			text, ok = s.wideCell(row, col.ElemLen(i))
		} else {
			text, ok = s.narrowCell(row, col.ElemLen(i))
		}
		if ok {
			b.Append(text)
			continue
		}
		if s.mapErrorsToNull {
			b.AppendNull()
			continue
		}
		return nil, mapping.InvalidUtf8Error(text)
	}
	return b.NewArray(), nil
}

func (s textStrategy) narrowCell(row []byte, elemLen int) (string, bool) {
	var raw []byte
	if s.trustIndicator && elemLen >= 0 && elemLen < len(row) {
		raw = row[:elemLen]
	} else {
		raw = row
		for i, c := range row {
			if c == 0 {
				raw = row[:i]
				break
			}
		}
	}
	if !utf8.Valid(raw) {
		return strings.ToValidUTF8(string(raw), "�"), false
	}
	return string(raw), true
}

func (s textStrategy) wideCell(row []byte, elemLenBytes int) (string, bool) {
	units := make([]uint16, len(row)/2)
	for i := range units {
		units[i] = binary.NativeEndian.Uint16(row[2*i : 2*i+2])
	}
	n := len(units)
	if s.trustIndicator && elemLenBytes >= 0 {
		candidate := elemLenBytes / 2
		if candidate < n {
			n = candidate
		}
	} else {
		for i, u := range units {
			if u == 0 {
				n = i
				break
			}
		}
	}
	units = units[:n]
	if !validSurrogates(units) {
		return string(utf16.Decode(units)), false
	}
	return string(utf16.Decode(units)), true
}

// validSurrogates reports whether units contains no unpaired UTF-16
// surrogate code units. utf16.Decode silently substitutes U+FFFD for an
// unpaired surrogate rather than signaling failure, so callers that need
// to detect the failure scan for it themselves first.
func validSurrogates(units []uint16) bool {
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u >= 0xD800 && u <= 0xDBFF: // high surrogate
			if i+1 >= len(units) || units[i+1] < 0xDC00 || units[i+1] > 0xDFFF {
				return false
			}
			i++
		case u >= 0xDC00 && u <= 0xDFFF: // unpaired low surrogate
			return false
		}
	}
	return true
}
