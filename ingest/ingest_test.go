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
package ingest_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/aerolake/b3data/calendar"
	"github.com/aerolake/b3data/data"
	"github.com/aerolake/b3data/ingest"
	"github.com/aerolake/b3data/lake"
	"github.com/aerolake/b3data/ticker"
	"github.com/aerolake/b3data/trigger"
)

// fakeFetcher serves rows for a fixed set of dates and records how it was
// called.
type fakeFetcher struct {
	dates   []string
	symbols [][]string

	fetchCalls  int
	periodCalls int
	lastStart   time.Time
	lastEnd     time.Time
	lastPeriod  string
}

func (f *fakeFetcher) table(symbols []string) *data.Table {
	tbl := data.NewTable()
	for _, dt := range f.dates {
		for _, symbol := range symbols {
			tbl.Append(&data.Row{
				Date:   dt,
				Ticker: symbol,
				Close:  10,
				Volume: 100_000,
			})
		}
	}

	return tbl
}

func (f *fakeFetcher) Fetch(_ context.Context, symbols []string, start, end time.Time, _ string) (*data.Table, error) {
	f.fetchCalls++
	f.symbols = append(f.symbols, symbols)
	f.lastStart = start
	f.lastEnd = end
	return f.table(symbols), nil
}

func (f *fakeFetcher) FetchPeriod(_ context.Context, symbols []string, period, _ string) (*data.Table, error) {
	f.periodCalls++
	f.symbols = append(f.symbols, symbols)
	f.lastPeriod = period
	return f.table(symbols), nil
}

// fakeJobRunner records dispatched runs.
type fakeJobRunner struct {
	jobNames []string
	dates    [][]time.Time
}

func (f *fakeJobRunner) StartRuns(_ context.Context, jobName string, dates []time.Time) ([]trigger.Run, error) {
	if jobName == "" {
		return nil, trigger.ErrMissingJobName
	}

	f.jobNames = append(f.jobNames, jobName)
	f.dates = append(f.dates, dates)

	runs := make([]trigger.Run, 0, len(dates))
	for _, dt := range dates {
		runs = append(runs, trigger.Run{Date: dt.Format(calendar.DateLayout), RunID: "jr_" + dt.Format(calendar.DateLayout)})
	}

	return runs, nil
}

var _ = Describe("Runner", func() {
	var (
		ctx     context.Context
		fetcher *fakeFetcher
		store   *lake.MemStore
		jobs    *fakeJobRunner
		runner  *ingest.Runner
	)

	BeforeEach(func() {
		ctx = context.Background()
		fetcher = &fakeFetcher{}
		store = lake.NewMemStore()
		jobs = &fakeJobRunner{}
		runner = &ingest.Runner{
			Fetcher: fetcher,
			Store:   store,
			Jobs:    jobs,
			Config: ingest.Config{
				Tickers: "GOLL4,AZUL4",
				Bucket:  "test-bucket",
				JobName: "refine-prices",
			},
			// Friday 2024-03-15
			Now: func() time.Time { return time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC) },
		}
	})

	Describe("Daily", func() {
		BeforeEach(func() {
			fetcher.dates = []string{"2024-03-12", "2024-03-13", "2024-03-14"}
		})

		It("ingests yesterday by default", func() {
			result, err := runner.Daily(ctx, ingest.DailyMode{}, ingest.Config{})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Date).To(Equal("2024-03-14"))
			Expect(result.Skipped).To(BeFalse())
			Expect(result.URIs).To(Equal([]string{"s3://test-bucket/raw/dt=2024-03-14/data.parquet"}))
			Expect(fetcher.lastPeriod).To(Equal("5d"))
		})

		It("normalizes the configured tickers before fetching", func() {
			_, err := runner.Daily(ctx, ingest.DailyMode{}, ingest.Config{})
			Expect(err).ToNot(HaveOccurred())
			Expect(fetcher.symbols[0]).To(Equal([]string{"GOLL4.SA", "AZUL4.SA"}))
		})

		It("skips weekend targets without touching the fetcher", func() {
			result, err := runner.Daily(ctx, ingest.DailyMode{Target: "2024-03-16"}, ingest.Config{})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Skipped).To(BeTrue())
			Expect(result.URIs).To(BeEmpty())
			Expect(fetcher.periodCalls).To(BeZero())

			keys, err := store.List(ctx, "")
			Expect(err).ToNot(HaveOccurred())
			Expect(keys).To(BeEmpty())
		})

		It("fails when the target date is absent from the source", func() {
			_, err := runner.Daily(ctx, ingest.DailyMode{Target: "2024-03-11"}, ingest.Config{})
			Expect(err).To(MatchError(lake.ErrNoDataForPartition))
		})

		It("fails when no tickers resolve", func() {
			runner.Config.Tickers = ""
			_, err := runner.Daily(ctx, ingest.DailyMode{}, ingest.Config{})
			Expect(err).To(MatchError(ticker.ErrNoTickers))
		})

		It("starts one downstream run when requested", func() {
			result, err := runner.Daily(ctx, ingest.DailyMode{TriggerRefined: true}, ingest.Config{})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Runs).To(HaveLen(1))
			Expect(result.Runs[0].Date).To(Equal("2024-03-14"))
			Expect(jobs.jobNames).To(Equal([]string{"refine-prices"}))
		})

		It("does not trigger downstream runs by default", func() {
			result, err := runner.Daily(ctx, ingest.DailyMode{}, ingest.Config{})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Runs).To(BeEmpty())
			Expect(jobs.jobNames).To(BeEmpty())
		})
	})

	Describe("Backfill", func() {
		BeforeEach(func() {
			// 2024-03-09/10 is a weekend and 2024-03-12 is treated as a
			// holiday: the source simply returns no rows for them
			fetcher.dates = []string{"2024-03-08", "2024-03-11", "2024-03-13"}
		})

		It("fetches with an exclusive upper bound", func() {
			_, err := runner.Backfill(ctx, ingest.BackfillMode{Start: "2024-03-08", End: "2024-03-13"}, ingest.Config{})
			Expect(err).ToNot(HaveOccurred())
			Expect(fetcher.lastStart).To(Equal(time.Date(2024, time.March, 8, 0, 0, 0, 0, time.UTC)))
			Expect(fetcher.lastEnd).To(Equal(time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)))
		})

		It("writes one partition per date the source returned", func() {
			result, err := runner.Backfill(ctx, ingest.BackfillMode{Start: "2024-03-08", End: "2024-03-13"}, ingest.Config{})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.PartitionDates).To(Equal([]string{"2024-03-08", "2024-03-11", "2024-03-13"}))
			Expect(result.URIs).To(HaveLen(3))
		})

		It("rejects a range whose end precedes its start", func() {
			_, err := runner.Backfill(ctx, ingest.BackfillMode{Start: "2024-03-13", End: "2024-03-08"}, ingest.Config{})
			Expect(err).To(MatchError(calendar.ErrInvalidDate))
			Expect(fetcher.fetchCalls).To(BeZero())
		})

		It("rejects malformed range dates", func() {
			_, err := runner.Backfill(ctx, ingest.BackfillMode{Start: "08/03/2024", End: "2024-03-13"}, ingest.Config{})
			Expect(err).To(MatchError(calendar.ErrInvalidDate))
		})

		It("starts at most one downstream run per distinct date", func() {
			result, err := runner.Backfill(ctx, ingest.BackfillMode{
				Start:          "2024-03-08",
				End:            "2024-03-13",
				TriggerRefined: true,
			}, ingest.Config{})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Runs).To(HaveLen(3))
			Expect(jobs.dates).To(HaveLen(1))
			Expect(jobs.dates[0]).To(HaveLen(3))
		})

		It("prefers an explicit job name for downstream runs", func() {
			_, err := runner.Backfill(ctx, ingest.BackfillMode{
				Start:          "2024-03-08",
				End:            "2024-03-13",
				TriggerRefined: true,
				JobName:        "refine-prices-hotfix",
			}, ingest.Config{})
			Expect(err).ToNot(HaveOccurred())
			Expect(jobs.jobNames).To(Equal([]string{"refine-prices-hotfix"}))
		})

		It("redirects scratch prefixes to the raw zone", func() {
			result, err := runner.Backfill(ctx, ingest.BackfillMode{Start: "2024-03-08", End: "2024-03-08"},
				ingest.Config{RawPrefix: "unsaved-scratch"})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.URIs[0]).To(HavePrefix("s3://test-bucket/raw/"))
		})
	})

	Describe("Months", func() {
		BeforeEach(func() {
			fetcher.dates = []string{"2024-01-15", "2024-02-15"}
		})

		It("ingests each requested month once", func() {
			result, err := runner.Months(ctx, ingest.MonthsMode{
				Year:   2024,
				Months: []any{"janeiro", 1, "January", "fev"},
			}, ingest.Config{})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Months).To(Equal([]int{1, 2}))
			Expect(result.PerMonth).To(HaveLen(2))
			Expect(result.PerMonth[0].MonthName).To(Equal("janeiro"))
			Expect(fetcher.fetchCalls).To(Equal(2))
		})

		It("covers whole calendar months", func() {
			_, err := runner.Months(ctx, ingest.MonthsMode{Year: 2024, Months: []any{2}}, ingest.Config{})
			Expect(err).ToNot(HaveOccurred())
			Expect(fetcher.lastStart).To(Equal(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)))
			// leap year February plus the exclusive bound
			Expect(fetcher.lastEnd).To(Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
		})

		It("aggregates partition dates across months", func() {
			result, err := runner.Months(ctx, ingest.MonthsMode{Year: 2024, Months: []any{1, 2}}, ingest.Config{})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.PartitionDates).To(Equal([]string{"2024-01-15", "2024-02-15"}))
		})

		It("rejects an empty month set", func() {
			_, err := runner.Months(ctx, ingest.MonthsMode{Year: 2024, Months: []any{}}, ingest.Config{})
			Expect(err).To(MatchError(calendar.ErrInvalidMonth))
			Expect(fetcher.fetchCalls).To(BeZero())
		})

		It("validates every month before any fetch", func() {
			_, err := runner.Months(ctx, ingest.MonthsMode{Year: 2024, Months: []any{1, "smarch"}}, ingest.Config{})
			Expect(err).To(MatchError(calendar.ErrInvalidMonth))
			Expect(fetcher.fetchCalls).To(BeZero())
		})

		It("validates the year before any fetch", func() {
			_, err := runner.Months(ctx, ingest.MonthsMode{Year: 1850, Months: []any{1}}, ingest.Config{})
			Expect(err).To(MatchError(calendar.ErrInvalidYear))
			Expect(fetcher.fetchCalls).To(BeZero())
		})
	})

	Describe("Run", func() {
		BeforeEach(func() {
			fetcher.dates = []string{"2024-03-14"}
		})

		It("tags the result with the executed mode", func() {
			result, err := runner.Run(ctx, ingest.DailyMode{}, ingest.Config{})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Mode).To(Equal("daily"))
			Expect(result.Daily).ToNot(BeNil())
		})

		It("treats a single month as a one-element month set", func() {
			fetcher.dates = []string{"2024-03-14"}
			result, err := runner.Run(ctx, ingest.MonthMode{Year: 2024, Month: "mar"}, ingest.Config{})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Mode).To(Equal("month"))
			Expect(result.Months.PerMonth).To(HaveLen(1))
		})
	})

	Describe("configuration precedence", func() {
		BeforeEach(func() {
			fetcher.dates = []string{"2024-03-14"}
		})

		It("lets call overrides win over the injected config", func() {
			_, err := runner.Daily(ctx, ingest.DailyMode{}, ingest.Config{Tickers: "EMBR3"})
			Expect(err).ToNot(HaveOccurred())
			Expect(fetcher.symbols[0]).To(Equal([]string{"EMBR3.SA"}))
		})

		It("falls back to hard defaults when nothing is configured", func() {
			runner.Config = ingest.Config{Bucket: "test-bucket"}
			_, err := runner.Daily(ctx, ingest.DailyMode{}, ingest.Config{})
			Expect(err).ToNot(HaveOccurred())
			Expect(fetcher.symbols[0]).To(ContainElement("GOLL4.SA"))
			Expect(fetcher.lastPeriod).To(Equal("5d"))
		})
	})
})
