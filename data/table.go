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

// Package data defines the normalized price table shared by the fetch
// façade and the partition writer.
package data

import (
	"sort"
	"time"

	"github.com/aerolake/b3data/calendar"
)

// Row is one normalized daily price observation. The flat schema
// (date, ticker, open, high, low, close, adj_close, volume) is the fixed
// raw-zone contract.
type Row struct {
	Date     string  `json:"date" parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Ticker   string  `json:"ticker" parquet:"name=ticker, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Open     float64 `json:"open" parquet:"name=open, type=DOUBLE"`
	High     float64 `json:"high" parquet:"name=high, type=DOUBLE"`
	Low      float64 `json:"low" parquet:"name=low, type=DOUBLE"`
	Close    float64 `json:"close" parquet:"name=close, type=DOUBLE"`
	AdjClose float64 `json:"adj_close" parquet:"name=adj_close, type=DOUBLE"`
	Volume   float64 `json:"volume" parquet:"name=volume, type=DOUBLE"`
}

// Day returns the row's calendar date.
func (r *Row) Day() (time.Time, error) {
	return time.Parse(calendar.DateLayout, r.Date)
}

// Table is an ordered collection of rows.
type Table struct {
	rows []*Row
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{rows: make([]*Row, 0)}
}

// Append adds rows to the end of the table.
func (t *Table) Append(rows ...*Row) {
	t.rows = append(t.rows, rows...)
}

// Rows returns the backing row slice in insertion order.
func (t *Table) Rows() []*Row {
	return t.rows
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// SelectDate returns a new table holding only the rows for the given
// calendar date, preserving order.
func (t *Table) SelectDate(dt time.Time) *Table {
	target := dt.Format(calendar.DateLayout)

	day := NewTable()
	for _, row := range t.rows {
		if row.Date == target {
			day.Append(row)
		}
	}

	return day
}

// DistinctDates returns the distinct calendar dates present in the table in
// ascending order. Rows whose date column does not parse are ignored.
func (t *Table) DistinctDates() []time.Time {
	seen := make(map[string]time.Time, len(t.rows))
	for _, row := range t.rows {
		if _, ok := seen[row.Date]; ok {
			continue
		}

		day, err := row.Day()
		if err != nil {
			continue
		}

		seen[row.Date] = day
	}

	dates := make([]time.Time, 0, len(seen))
	for _, day := range seen {
		dates = append(dates, day)
	}

	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})

	return dates
}
