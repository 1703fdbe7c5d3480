// Copyright 2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package lake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aerolake/b3data/calendar"
	"github.com/aerolake/b3data/data"
	"github.com/aerolake/b3data/partition"
)

var (
	ErrNoDataForPartition  = errors.New("no data found for requested partition")
	ErrNoPartitionsWritten = errors.New("no partitions were written")
)

// Writer lands day slices of a price table as Parquet partition objects.
// Writes overwrite unconditionally: re-running with the same inputs
// reproduces identical partitions rather than appending.
type Writer struct {
	Store         ObjectStore
	Bucket        string
	Prefix        string
	OneFilePerDay bool
}

// WriteDay selects the rows for one requested date and writes that single
// partition. A requested date absent from the table is an error.
func (w *Writer) WriteDay(ctx context.Context, tbl *data.Table, dt time.Time) ([]string, error) {
	day := tbl.SelectDate(dt)
	if day.Len() == 0 {
		return nil, fmt.Errorf("%w: dt=%s", ErrNoDataForPartition, dt.Format(calendar.DateLayout))
	}

	uri, err := w.writePartition(ctx, day, dt)
	if err != nil {
		return nil, err
	}

	return []string{uri}, nil
}

// WriteAll writes one partition per distinct date present in the table.
// Calendar days missing from the table (holidays) are simply absent. A
// failed write aborts the remaining partitions; objects already written
// stay in place and are rewritten identically on re-run.
func (w *Writer) WriteAll(ctx context.Context, tbl *data.Table) ([]string, error) {
	uris := make([]string, 0)

	for _, dt := range tbl.DistinctDates() {
		day := tbl.SelectDate(dt)
		if day.Len() == 0 {
			continue
		}

		uri, err := w.writePartition(ctx, day, dt)
		if err != nil {
			return nil, err
		}

		uris = append(uris, uri)
	}

	if len(uris) == 0 {
		return nil, ErrNoPartitionsWritten
	}

	return uris, nil
}

func (w *Writer) writePartition(ctx context.Context, day *data.Table, dt time.Time) (string, error) {
	body, err := day.Parquet()
	if err != nil {
		return "", err
	}

	key := partition.Key{
		Bucket:        w.Bucket,
		Prefix:        w.Prefix,
		Date:          dt,
		OneFilePerDay: w.OneFilePerDay,
	}

	if err := w.Store.Put(ctx, key.ObjectKey(), body); err != nil {
		log.Error().Err(err).Str("URI", key.URI()).Msg("partition write failed")
		return "", err
	}

	log.Info().Str("URI", key.URI()).Int("NumRows", day.Len()).Msg("wrote partition")
	return key.URI(), nil
}
