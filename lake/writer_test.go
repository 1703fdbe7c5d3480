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
package lake_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/aerolake/b3data/data"
	"github.com/aerolake/b3data/lake"
)

func priceRow(date, symbol string, close float64) *data.Row {
	return &data.Row{
		Date:     date,
		Ticker:   symbol,
		Open:     close,
		High:     close,
		Low:      close,
		Close:    close,
		AdjClose: close,
		Volume:   500_000,
	}
}

var _ = Describe("Writer", func() {
	var (
		ctx    context.Context
		store  *lake.MemStore
		writer *lake.Writer
		tbl    *data.Table
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = lake.NewMemStore()
		writer = &lake.Writer{
			Store:         store,
			Bucket:        "test-bucket",
			Prefix:        "raw",
			OneFilePerDay: true,
		}

		tbl = data.NewTable()
		tbl.Append(
			priceRow("2024-03-13", "GOLL4.SA", 8.05),
			priceRow("2024-03-14", "GOLL4.SA", 8.12),
			priceRow("2024-03-14", "AZUL4.SA", 10.34),
		)
	})

	Describe("WriteDay", func() {
		It("writes exactly one partition for the requested date", func() {
			uris, err := writer.WriteDay(ctx, tbl, time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC))
			Expect(err).ToNot(HaveOccurred())
			Expect(uris).To(Equal([]string{"s3://test-bucket/raw/dt=2024-03-14/data.parquet"}))

			exists, err := store.Exists(ctx, "raw/dt=2024-03-14/data.parquet")
			Expect(err).ToNot(HaveOccurred())
			Expect(exists).To(BeTrue())
		})

		It("fails when the requested date has no rows", func() {
			_, err := writer.WriteDay(ctx, tbl, time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC))
			Expect(err).To(MatchError(lake.ErrNoDataForPartition))
		})

		It("overwrites an existing partition object", func() {
			dt := time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)

			_, err := writer.WriteDay(ctx, tbl, dt)
			Expect(err).ToNot(HaveOccurred())

			_, err = writer.WriteDay(ctx, tbl, dt)
			Expect(err).ToNot(HaveOccurred())

			keys, err := store.List(ctx, "raw/dt=2024-03-14/")
			Expect(err).ToNot(HaveOccurred())
			Expect(keys).To(HaveLen(1))
		})
	})

	Describe("WriteAll", func() {
		It("writes one partition per distinct date", func() {
			uris, err := writer.WriteAll(ctx, tbl)
			Expect(err).ToNot(HaveOccurred())
			Expect(uris).To(Equal([]string{
				"s3://test-bucket/raw/dt=2024-03-13/data.parquet",
				"s3://test-bucket/raw/dt=2024-03-14/data.parquet",
			}))
		})

		It("fails when the table is empty", func() {
			_, err := writer.WriteAll(ctx, data.NewTable())
			Expect(err).To(MatchError(lake.ErrNoPartitionsWritten))
		})

		It("stores rows grouped by their own partition date", func() {
			_, err := writer.WriteAll(ctx, tbl)
			Expect(err).ToNot(HaveOccurred())

			body, err := store.Get(ctx, "raw/dt=2024-03-14/data.parquet")
			Expect(err).ToNot(HaveOccurred())

			day, err := data.FromParquet(body)
			Expect(err).ToNot(HaveOccurred())
			Expect(day.Len()).To(Equal(2))
			for _, row := range day.Rows() {
				Expect(row.Date).To(Equal("2024-03-14"))
			}
		})
	})

	Context("with dated file names", func() {
		BeforeEach(func() {
			writer.OneFilePerDay = false
		})

		It("suffixes the object name with the partition date", func() {
			uris, err := writer.WriteDay(ctx, tbl, time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC))
			Expect(err).ToNot(HaveOccurred())
			Expect(uris).To(Equal([]string{"s3://test-bucket/raw/dt=2024-03-13/data_2024-03-13.parquet"}))
		})
	})
})
