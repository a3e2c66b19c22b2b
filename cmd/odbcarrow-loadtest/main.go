// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command odbcarrow-loadtest runs a query against an ODBC data source and
// reports how many rows and batches it produced, for eyeballing the
// concurrent reader's throughput against the sequential one.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/solidcoredata/odbcarrow"
	"github.com/solidcoredata/odbcarrow/internal/odbcapi"
	"github.com/solidcoredata/odbcarrow/internal/start"
)

var (
	connStr   = flag.String("conn", "", "ODBC connection string")
	query     = flag.String("query", "", "query to execute")
	batchSize = flag.Int("batch-size", odbcarrow.DefaultMaxRowsPerBatch, "rows per batch")
	concur    = flag.Bool("concurrent", false, "use the concurrent reader")
)

func main() {
	flag.Parse()
	err := start.Start(context.Background(), 5*time.Second, run)
	if err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	if *connStr == "" || *query == "" {
		return fmt.Errorf("both -conn and -query are required")
	}

	conn, err := odbcapi.Open(*connStr)
	if err != nil {
		return fmt.Errorf("open connection: %w", err)
	}
	defer conn.Close()

	cursor, err := conn.ExecDirect(*query)
	if err != nil {
		return fmt.Errorf("execute query: %w", err)
	}

	opts := []odbcarrow.Option{odbcarrow.WithMaxRowsPerBatch(*batchSize)}

	begin := time.Now()
	numBatches, numRows := 0, 0

	if *concur {
		cr, err := odbcarrow.NewConcurrentReader(ctx, cursor, opts...)
		if err != nil {
			return fmt.Errorf("build concurrent reader: %w", err)
		}
		defer cr.Close()
		for {
			rec, err := cr.Next()
			if err != nil {
				return err
			}
			if rec == nil {
				break
			}
			numBatches++
			numRows += int(rec.NumRows())
			rec.Release()
		}
	} else {
		r, err := odbcarrow.NewReader(cursor, opts...)
		if err != nil {
			return fmt.Errorf("build reader: %w", err)
		}
		defer r.Close()
		for {
			rec, err := r.Next()
			if err != nil {
				return err
			}
			if rec == nil {
				break
			}
			numBatches++
			numRows += int(rec.NumRows())
			rec.Release()
		}
	}

	elapsed := time.Since(begin)
	fmt.Printf("%d rows in %d batches, %s (%.0f rows/sec)\n", numRows, numBatches, elapsed, float64(numRows)/elapsed.Seconds())
	return nil
}
