// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bufdesc names the transit cell shapes that the row-group buffer
// allocator and the ODBC binding layer agree on. Descriptors are produced by
// schema inference (read side) and the write-strategy selector (write side),
// and are never mutated afterward; a growing column gets a new one.
package bufdesc

// Kind identifies the physical shape of one bound ODBC cell.
type Kind int

const (
	Bit Kind = iota
	I8
	I16
	I32
	I64
	U8
	F32
	F64
	Date
	Timestamp
	Time
	Text
	WText
	Binary
	FixedBinary
)

func (k Kind) String() string {
	switch k {
	case Bit:
		return "Bit"
	case I8:
		return "I8"
	case I16:
		return "I16"
	case I32:
		return "I32"
	case I64:
		return "I64"
	case U8:
		return "U8"
	case F32:
		return "F32"
	case F64:
		return "F64"
	case Date:
		return "Date"
	case Timestamp:
		return "Timestamp"
	case Time:
		return "Time"
	case Text:
		return "Text"
	case WText:
		return "WText"
	case Binary:
		return "Binary"
	case FixedBinary:
		return "FixedSizedBinary"
	default:
		return "Unknown"
	}
}

// IsVariable reports whether cells of this kind carry a per-row octet
// length distinct from the cell's allocated capacity.
func (k Kind) IsVariable() bool {
	switch k {
	case Text, WText, Binary:
		return true
	default:
		return false
	}
}

// Fixed cell sizes, in bytes, for kinds whose width does not depend on a
// caller-chosen length. These mirror the ODBC C-struct layouts used by the
// binding layer (SQL_DATE_STRUCT, SQL_TIME_STRUCT, SQL_TIMESTAMP_STRUCT, and
// the scalar C types), not Go's in-memory struct layout.
const (
	sizeBit       = 1
	sizeI8        = 1
	sizeI16       = 2
	sizeI32       = 4
	sizeI64       = 8
	sizeU8        = 1
	sizeF32       = 4
	sizeF64       = 8
	sizeDateODBC  = 6  // year(i16) + month(u16) + day(u16)
	sizeTimeODBC  = 6  // hour(u16) + minute(u16) + second(u16)
	sizeTSODBC    = 16 // date+time fields plus fraction(u32)
	textNulByte   = 1
	wtextNulUnits = 1 // one extra UTF-16 code unit for the terminator
)

// Descriptor is the immutable value object named in the DATA MODEL: a
// transit cell type plus nullability, together with the sizing parameters
// variable-length kinds need.
type Descriptor struct {
	Kind     Kind
	Nullable bool

	// MaxStrLen is the narrow-text cell capacity in bytes, excluding the
	// terminator this package reserves internally. Valid for Text.
	MaxStrLen int
	// MaxStrLenU16 is the wide-text cell capacity in UTF-16 code units,
	// excluding the terminator. Valid for WText.
	MaxStrLenU16 int
	// MaxLen is the variable-binary cell capacity in bytes. Valid for Binary.
	MaxLen int
	// FixedLen is the fixed-length binary cell width in bytes. Valid for
	// FixedBinary.
	FixedLen int
}

func NewBit(nullable bool) Descriptor       { return Descriptor{Kind: Bit, Nullable: nullable} }
func NewI8(nullable bool) Descriptor        { return Descriptor{Kind: I8, Nullable: nullable} }
func NewI16(nullable bool) Descriptor       { return Descriptor{Kind: I16, Nullable: nullable} }
func NewI32(nullable bool) Descriptor       { return Descriptor{Kind: I32, Nullable: nullable} }
func NewI64(nullable bool) Descriptor       { return Descriptor{Kind: I64, Nullable: nullable} }
func NewU8(nullable bool) Descriptor        { return Descriptor{Kind: U8, Nullable: nullable} }
func NewF32(nullable bool) Descriptor       { return Descriptor{Kind: F32, Nullable: nullable} }
func NewF64(nullable bool) Descriptor       { return Descriptor{Kind: F64, Nullable: nullable} }
func NewDate(nullable bool) Descriptor      { return Descriptor{Kind: Date, Nullable: nullable} }
func NewTimestamp(nullable bool) Descriptor { return Descriptor{Kind: Timestamp, Nullable: nullable} }
func NewTime(nullable bool) Descriptor      { return Descriptor{Kind: Time, Nullable: nullable} }

func NewText(maxStrLen int, nullable bool) Descriptor {
	return Descriptor{Kind: Text, MaxStrLen: maxStrLen, Nullable: nullable}
}

func NewWText(maxStrLenU16 int, nullable bool) Descriptor {
	return Descriptor{Kind: WText, MaxStrLenU16: maxStrLenU16, Nullable: nullable}
}

func NewBinary(maxLen int, nullable bool) Descriptor {
	return Descriptor{Kind: Binary, MaxLen: maxLen, Nullable: nullable}
}

func NewFixedBinary(length int, nullable bool) Descriptor {
	return Descriptor{Kind: FixedBinary, FixedLen: length, Nullable: nullable}
}

// CellSize returns the number of bytes one bound row occupies for this
// column, excluding the separate per-row indicator vector (DATA MODEL
// invariant 3 keeps nullability/length out of the cell itself).
func (d Descriptor) CellSize() int {
	switch d.Kind {
	case Bit:
		return sizeBit
	case I8:
		return sizeI8
	case I16:
		return sizeI16
	case I32:
		return sizeI32
	case I64:
		return sizeI64
	case U8:
		return sizeU8
	case F32:
		return sizeF32
	case F64:
		return sizeF64
	case Date:
		return sizeDateODBC
	case Time:
		return sizeTimeODBC
	case Timestamp:
		return sizeTSODBC
	case Text:
		return d.MaxStrLen + textNulByte
	case WText:
		return (d.MaxStrLenU16 + wtextNulUnits) * 2
	case Binary:
		return d.MaxLen
	case FixedBinary:
		return d.FixedLen
	default:
		return 0
	}
}
