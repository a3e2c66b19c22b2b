// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package odbcarrow

import (
	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/solidcoredata/odbcarrow/internal/schema"
)

// Options configures a Reader or ConcurrentReader. Construct with
// functional options; every field has a documented zero-value default. A
// library package takes a plain struct built up by small option funcs,
// not a flag.FlagSet. Flags belong to the command that links this
// package in, not the package itself.
type Options struct {
	// MaxRowsPerBatch bounds how many rows one fetch/record batch holds.
	// Zero means DefaultMaxRowsPerBatch.
	MaxRowsPerBatch int
	// MaxBytesPerBatch bounds the row-group buffer's total byte size; rows
	// per batch is reduced below MaxRowsPerBatch to respect it when the
	// schema's row width demands it. Zero means no byte cap.
	MaxBytesPerBatch int
	// Schema overrides schema inference entirely. Nil means infer from
	// cursor metadata.
	Schema *arrow.Schema
	// Allocator is the Arrow memory.Allocator record batches are built
	// with. Nil means memory.DefaultAllocator.
	Allocator memory.Allocator
	// Limits caps variable-length column widths during inference.
	Limits schema.Limits
	// Quirks documents known driver deviations schema inference and the
	// read strategies should route around.
	Quirks schema.Quirks
	// MapValueErrorsToNull makes a normally-fatal value conversion error
	// (e.g. a nanosecond timestamp outside the representable range)
	// produce a null cell instead of aborting the batch, matching
	// original_source's map_value_errors_to_null.
	MapValueErrorsToNull bool
}

// DefaultMaxRowsPerBatch is used when Options.MaxRowsPerBatch is zero.
const DefaultMaxRowsPerBatch = 1000

// Option configures an Options value.
type Option func(*Options)

// WithMaxRowsPerBatch sets the row-group capacity requested from the
// cursor on every fetch.
func WithMaxRowsPerBatch(n int) Option {
	return func(o *Options) { o.MaxRowsPerBatch = n }
}

// WithMaxBytesPerBatch caps the row-group buffer's total byte size.
func WithMaxBytesPerBatch(n int) Option {
	return func(o *Options) { o.MaxBytesPerBatch = n }
}

// WithSchema overrides inferred Arrow typing for the result set.
func WithSchema(s *arrow.Schema) Option {
	return func(o *Options) { o.Schema = s }
}

// WithAllocator sets the Arrow allocator used to build record batches.
func WithAllocator(mem memory.Allocator) Option {
	return func(o *Options) { o.Allocator = mem }
}

// WithLimits caps the byte width schema inference binds variable-length
// columns to.
func WithLimits(lim schema.Limits) Option {
	return func(o *Options) { o.Limits = lim }
}

// WithQuirks overrides the default (permissive) driver quirk set.
func WithQuirks(q schema.Quirks) Option {
	return func(o *Options) { o.Quirks = q }
}

// WithMapValueErrorsToNull turns certain fallible value conversions into
// nulls instead of batch-aborting errors.
func WithMapValueErrorsToNull(v bool) Option {
	return func(o *Options) { o.MapValueErrorsToNull = v }
}

func newOptions(opts []Option) Options {
	o := Options{
		MaxRowsPerBatch: DefaultMaxRowsPerBatch,
		Allocator:       memory.DefaultAllocator,
		Limits:          schema.Limits{MaxTextSize: 4096, MaxBinarySize: 4096},
		Quirks:          schema.DefaultQuirks(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Allocator == nil {
		o.Allocator = memory.DefaultAllocator
	}
	if o.MaxRowsPerBatch <= 0 {
		o.MaxRowsPerBatch = DefaultMaxRowsPerBatch
	}
	return o
}

// WriterOptions configures a Writer.
type WriterOptions struct {
	// MaxRowsPerBatch bounds how many rows accumulate in the bound
	// parameter buffer before a flush. Zero means DefaultMaxRowsPerBatch.
	MaxRowsPerBatch int
	// Allocator is the Arrow memory.Allocator used while inspecting
	// incoming arrays. Nil means memory.DefaultAllocator.
	Allocator memory.Allocator
	// TimeZone, if set, routes every Timestamp column through the
	// timestamp-with-time-zone-as-text write strategy using this IANA
	// zone, matching original_source's TimestampTzToText. Ignored for
	// columns whose Arrow type already carries its own time zone.
	TimeZone string
	// PreferWideText binds Utf8 columns as SQL_C_WCHAR (wide/UTF-16)
	// instead of SQL_C_CHAR.
	PreferWideText bool
}

// WriterOption configures a WriterOptions value.
type WriterOption func(*WriterOptions)

// WithWriterMaxRowsPerBatch sets the array-parameter batch size.
func WithWriterMaxRowsPerBatch(n int) WriterOption {
	return func(o *WriterOptions) { o.MaxRowsPerBatch = n }
}

// WithWriterAllocator sets the Arrow allocator the writer uses.
func WithWriterAllocator(mem memory.Allocator) WriterOption {
	return func(o *WriterOptions) { o.Allocator = mem }
}

// WithWriterTimeZone routes every timestamp column that carries no time
// zone of its own through the text-literal write strategy using tz;
// columns with their own zone keep it.
func WithWriterTimeZone(tz string) WriterOption {
	return func(o *WriterOptions) { o.TimeZone = tz }
}

// WithPreferWideText binds text columns as wide (UTF-16) parameters.
func WithPreferWideText(v bool) WriterOption {
	return func(o *WriterOptions) { o.PreferWideText = v }
}

func newWriterOptions(opts []WriterOption) WriterOptions {
	o := WriterOptions{
		MaxRowsPerBatch: DefaultMaxRowsPerBatch,
		Allocator:       memory.DefaultAllocator,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Allocator == nil {
		o.Allocator = memory.DefaultAllocator
	}
	if o.MaxRowsPerBatch <= 0 {
		o.MaxRowsPerBatch = DefaultMaxRowsPerBatch
	}
	return o
}
