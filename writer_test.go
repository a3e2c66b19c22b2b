// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odbcarrow

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertStatementTextQuotesOnlyWhenNeeded(t *testing.T) {
	sql := insertStatementText("MyTable", []string{"a", "b"})
	require.Equal(t, `INSERT INTO MyTable (a, b) VALUES (?, ?)`, sql)
}

func TestInsertStatementTextQuotesSpecialColumnNames(t *testing.T) {
	sql := insertStatementText("MyTable", []string{"order id", "total"})
	require.Equal(t, `INSERT INTO MyTable ("order id", total) VALUES (?, ?)`, sql)
}

func TestQuoteColumnNameIsIdempotent(t *testing.T) {
	// quote(quote(x)) == quote(x) must hold for every x, not only names
	// that happen to need no quoting: re-feeding an already-quoted name
	// through quoteColumnName (e.g. building both a SELECT and an INSERT
	// from one already-quoted schema) must not grow an extra quote layer.
	for _, name := range []string{
		"order_total",
		"order id",
		`has "quotes" inside`,
		`"already quoted"`,
		`"already ""escaped"" name"`,
		`"`,
		`""`,
	} {
		once := quoteColumnName(name)
		twice := quoteColumnName(once)
		require.Equal(t, once, twice, "quoting %q twice should be stable", name)
	}
}

func TestQuoteColumnNameAllowsUnderscoreAtSignDollarHash(t *testing.T) {
	for _, name := range []string{"_col", "col_1", "@sys", "col$x", "col#1"} {
		require.Equal(t, name, quoteColumnName(name), "name %q should not be quoted", name)
	}
}

func TestValidateTimeZone(t *testing.T) {
	require.NoError(t, ValidateTimeZone(""))
	require.NoError(t, ValidateTimeZone("UTC"))
	require.Error(t, ValidateTimeZone("Not/AZone"))
}
