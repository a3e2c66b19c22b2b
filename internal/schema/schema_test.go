// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/stretchr/testify/require"

	"github.com/solidcoredata/odbcarrow/internal/bufdesc"
	"github.com/solidcoredata/odbcarrow/internal/colfail"
	"github.com/solidcoredata/odbcarrow/internal/odbcapi"
)

type fakeDescriber struct {
	cols []odbcapi.ColumnDesc
}

func (f *fakeDescriber) NumCols() (int, error) { return len(f.cols), nil }

func (f *fakeDescriber) DescribeColumn(idx int) (odbcapi.ColumnDesc, error) {
	return f.cols[idx-1], nil
}

func TestInferPrimitivesAndDecimal(t *testing.T) {
	d := &fakeDescriber{cols: []odbcapi.ColumnDesc{
		{Name: "id", SQLType: odbcapi.SQLInteger, Nullability: odbcapi.NoNulls},
		{Name: "price", SQLType: odbcapi.SQLDecimal, ColumnSize: 5, DecimalDigits: 2, Nullability: odbcapi.Nullable},
		{Name: "name", SQLType: odbcapi.SQLVarchar, ColumnSize: 50, Nullability: odbcapi.Nullable},
	}}

	fields, err := Infer(d, DefaultQuirks(), Limits{MaxTextSize: 4096, MaxBinarySize: 4096}, false)
	require.NoError(t, err)
	require.Len(t, fields, 3)

	require.Equal(t, arrow.PrimitiveTypes.Int32, fields[0].Arrow.Type)
	require.False(t, fields[0].Arrow.Nullable)

	dt, ok := fields[1].Arrow.Type.(*arrow.Decimal128Type)
	require.True(t, ok)
	require.EqualValues(t, 5, dt.Precision)
	require.EqualValues(t, 2, dt.Scale)
	require.True(t, fields[1].Arrow.Nullable)

	require.Equal(t, arrow.BinaryTypes.String, fields[2].Arrow.Type)
}

func TestInferDecimalOutOfRangeFallsBackToText(t *testing.T) {
	d := &fakeDescriber{cols: []odbcapi.ColumnDesc{
		{Name: "huge", SQLType: odbcapi.SQLNumeric, ColumnSize: 50, DecimalDigits: 10},
	}}
	fields, err := Infer(d, DefaultQuirks(), Limits{MaxTextSize: 128}, false)
	require.NoError(t, err)
	require.Equal(t, arrow.BinaryTypes.String, fields[0].Arrow.Type)
}

func TestTimestampUnitBands(t *testing.T) {
	cases := []struct {
		digits int
		want   arrow.TimeUnit
	}{
		{0, arrow.Second},
		{3, arrow.Millisecond},
		{6, arrow.Microsecond},
		{9, arrow.Nanosecond},
	}
	for _, c := range cases {
		require.Equal(t, c.want, timestampUnit(c.digits))
	}
}

func TestDecimalTextWidth(t *testing.T) {
	require.Equal(t, 7, decimalTextWidth(5, 2))  // sign + 5 digits + '.'
	require.Equal(t, 6, decimalTextWidth(5, 0))  // sign + 5 digits, no radix
}

func TestZeroColumnSizeFallsBackToLimit(t *testing.T) {
	d := &fakeDescriber{cols: []odbcapi.ColumnDesc{
		{Name: "note", SQLType: odbcapi.SQLLongVarchar, ColumnSize: 0},
	}}
	fields, err := Infer(d, DefaultQuirks(), Limits{MaxTextSize: 2048}, false)
	require.NoError(t, err)
	require.Equal(t, 2048, fields[0].Desc.MaxStrLen)
}

func TestMapErrorsToNullPromotesNanosecondTimestampNullability(t *testing.T) {
	d := &fakeDescriber{cols: []odbcapi.ColumnDesc{
		{Name: "created_at", SQLType: odbcapi.SQLTypeTimestamp, DecimalDigits: 9, Nullability: odbcapi.NoNulls},
	}}
	fields, err := Infer(d, DefaultQuirks(), Limits{MaxTextSize: 4096}, true)
	require.NoError(t, err)
	require.True(t, fields[0].Arrow.Nullable, "nanosecond timestamp must be promoted nullable under value_errors_as_null")
	require.True(t, fields[0].Desc.Nullable)

	fieldsOff, err := Infer(d, DefaultQuirks(), Limits{MaxTextSize: 4096}, false)
	require.NoError(t, err)
	require.False(t, fieldsOff[0].Arrow.Nullable, "without value_errors_as_null the driver's NOT NULL is kept")
}

func TestMapErrorsToNullPromotesTextNullability(t *testing.T) {
	d := &fakeDescriber{cols: []odbcapi.ColumnDesc{
		{Name: "name", SQLType: odbcapi.SQLVarchar, ColumnSize: 50, Nullability: odbcapi.NoNulls},
	}}
	fields, err := Infer(d, DefaultQuirks(), Limits{MaxTextSize: 4096}, true)
	require.NoError(t, err)
	require.True(t, fields[0].Arrow.Nullable)
}

func TestTimePrecisionBands(t *testing.T) {
	wholeSeconds := &fakeDescriber{cols: []odbcapi.ColumnDesc{
		{Name: "t", SQLType: odbcapi.SQLTypeTime, DecimalDigits: 0},
	}}
	fields, err := Infer(wholeSeconds, DefaultQuirks(), Limits{MaxTextSize: 4096}, false)
	require.NoError(t, err)
	_, ok := fields[0].Arrow.Type.(*arrow.Time32Type)
	require.True(t, ok)
	require.Equal(t, bufdesc.Time, fields[0].Desc.Kind)

	millis := &fakeDescriber{cols: []odbcapi.ColumnDesc{
		{Name: "t", SQLType: odbcapi.SQLTypeTime, DecimalDigits: 2},
	}}
	fields, err = Infer(millis, DefaultQuirks(), Limits{MaxTextSize: 4096}, false)
	require.NoError(t, err)
	t32, ok := fields[0].Arrow.Type.(*arrow.Time32Type)
	require.True(t, ok)
	require.Equal(t, arrow.Millisecond, t32.Unit)
	require.Equal(t, bufdesc.Text, fields[0].Desc.Kind)
	require.Equal(t, 12, fields[0].Desc.MaxStrLen)

	nanos := &fakeDescriber{cols: []odbcapi.ColumnDesc{
		{Name: "t", SQLType: odbcapi.SQLTypeTime, DecimalDigits: 9},
	}}
	fields, err = Infer(nanos, DefaultQuirks(), Limits{MaxTextSize: 4096}, false)
	require.NoError(t, err)
	require.Equal(t, arrow.BinaryTypes.String, fields[0].Arrow.Type)
}

func TestZeroSizedBinaryColumnReturnsTypedFailure(t *testing.T) {
	d := &fakeDescriber{cols: []odbcapi.ColumnDesc{
		{Name: "blob", SQLType: odbcapi.SQLBinary, ColumnSize: 0},
	}}
	_, err := Infer(d, DefaultQuirks(), Limits{}, false)
	require.Error(t, err)
	var failure *colfail.Failure
	require.ErrorAs(t, err, &failure)
	require.Equal(t, colfail.ZeroSizedColumn, failure.Kind)
}
