// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bufdesc

import "testing"

func TestCellSize(t *testing.T) {
	cases := []struct {
		name string
		desc Descriptor
		want int
	}{
		{"i32", NewI32(false), 4},
		{"i64", NewI64(true), 8},
		{"date", NewDate(false), 6},
		{"time", NewTime(false), 6},
		{"timestamp", NewTimestamp(true), 16},
		{"text", NewText(10, false), 11},
		{"wtext", NewWText(10, false), 22},
		{"binary", NewBinary(32, false), 32},
		{"fixed", NewFixedBinary(16, false), 16},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.desc.CellSize(); got != c.want {
				t.Fatalf("CellSize() = %d, want %d", got, c.want)
			}
		})
	}
}

func TestIsVariable(t *testing.T) {
	variable := []Kind{Text, WText, Binary}
	fixed := []Kind{Bit, I8, I16, I32, I64, U8, F32, F64, Date, Time, Timestamp, FixedBinary}
	for _, k := range variable {
		if !k.IsVariable() {
			t.Errorf("%s: want IsVariable() == true", k)
		}
	}
	for _, k := range fixed {
		if k.IsVariable() {
			t.Errorf("%s: want IsVariable() == false", k)
		}
	}
}
