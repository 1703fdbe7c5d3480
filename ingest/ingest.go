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

// Package ingest orchestrates partitioned price ingestion: it resolves
// calendar inputs into concrete partition dates, drives the fetch façade
// and the partition writer, and signals the downstream job once per landed
// partition.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aerolake/b3data/calendar"
	"github.com/aerolake/b3data/data"
	"github.com/aerolake/b3data/lake"
	"github.com/aerolake/b3data/partition"
	"github.com/aerolake/b3data/ticker"
	"github.com/aerolake/b3data/trigger"
)

// Fetcher retrieves normalized price rows for a symbol set. The window
// upper bound is exclusive.
type Fetcher interface {
	Fetch(ctx context.Context, symbols []string, start, end time.Time, interval string) (*data.Table, error)
	FetchPeriod(ctx context.Context, symbols []string, period, interval string) (*data.Table, error)
}

// Runner composes the ingestion collaborators. All calls are synchronous
// and independent; a Runner holds no mutable state across invocations.
type Runner struct {
	Fetcher Fetcher
	Store   lake.ObjectStore
	Jobs    trigger.JobRunner
	Config  Config

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}

	return time.Now()
}

func (r *Runner) resolve(overrides Config) Config {
	return r.Config.merge(overrides).withDefaults()
}

func (r *Runner) writer(cfg Config) *lake.Writer {
	return &lake.Writer{
		Store:         r.Store,
		Bucket:        cfg.Bucket,
		Prefix:        cfg.RawPrefix,
		OneFilePerDay: !cfg.DatedFiles,
	}
}

// Result wraps the per-mode response payloads.
type Result struct {
	Mode     string          `json:"mode"`
	Daily    *DailyResult    `json:"daily,omitempty"`
	Backfill *BackfillResult `json:"backfill,omitempty"`
	Months   *MonthsResult   `json:"months,omitempty"`
}

// Run dispatches a tagged ingestion mode.
func (r *Runner) Run(ctx context.Context, mode Mode, overrides Config) (*Result, error) {
	switch m := mode.(type) {
	case DailyMode:
		result, err := r.Daily(ctx, m, overrides)
		if err != nil {
			return nil, err
		}

		return &Result{Mode: m.mode(), Daily: result}, nil
	case BackfillMode:
		result, err := r.Backfill(ctx, m, overrides)
		if err != nil {
			return nil, err
		}

		return &Result{Mode: m.mode(), Backfill: result}, nil
	case MonthMode:
		result, err := r.Months(ctx, MonthsMode{
			Year:           m.Year,
			Months:         []any{m.Month},
			TriggerRefined: m.TriggerRefined,
			JobName:        m.JobName,
		}, overrides)
		if err != nil {
			return nil, err
		}

		return &Result{Mode: m.mode(), Months: result}, nil
	case MonthsMode:
		result, err := r.Months(ctx, m, overrides)
		if err != nil {
			return nil, err
		}

		return &Result{Mode: m.mode(), Months: result}, nil
	default:
		return nil, fmt.Errorf("unknown ingestion mode %T", mode)
	}
}

// DailyResult reports a single-day ingestion.
type DailyResult struct {
	Date    string        `json:"date"`
	Skipped bool          `json:"skipped"`
	URIs    []string      `json:"uris"`
	Runs    []trigger.Run `json:"downstream_runs,omitempty"`
}

// Daily ingests the target partition (D-1 by default). Weekend targets
// short-circuit with skipped=true before the fetcher or writer are
// touched; the routine scheduler does not distinguish trading days.
func (r *Runner) Daily(ctx context.Context, mode DailyMode, overrides Config) (*DailyResult, error) {
	cfg := r.resolve(overrides)

	target, err := calendar.Target(mode.Target, r.now())
	if err != nil {
		return nil, err
	}

	dtStr := target.Format(calendar.DateLayout)

	if calendar.IsWeekend(target) {
		log.Info().Str("Date", dtStr).Msg("skipping ingestion, target date is a weekend")
		return &DailyResult{Date: dtStr, Skipped: true, URIs: []string{}}, nil
	}

	symbols := ticker.Normalize(cfg.Tickers)
	if err := ticker.Require(symbols); err != nil {
		return nil, err
	}

	// fetch a short trailing window so the target day is present even
	// when the source lags
	tbl, err := r.Fetcher.FetchPeriod(ctx, symbols, cfg.Period, cfg.Interval)
	if err != nil {
		return nil, err
	}

	uris, err := r.writer(cfg).WriteDay(ctx, tbl, target)
	if err != nil {
		return nil, err
	}

	result := &DailyResult{Date: dtStr, URIs: uris}

	if mode.TriggerRefined {
		runs, err := r.startRuns(ctx, mode.JobName, cfg, []time.Time{target})
		if err != nil {
			return nil, err
		}

		result.Runs = runs
	}

	return result, nil
}

// BackfillResult reports a date-range ingestion.
type BackfillResult struct {
	StartDate      string        `json:"start_date"`
	EndDate        string        `json:"end_date"`
	PartitionDates []string      `json:"partition_dates"`
	URIs           []string      `json:"uris"`
	Runs           []trigger.Run `json:"downstream_runs"`
}

// Backfill ingests an explicit inclusive date range, writing one partition
// per distinct date present in the fetched table. Market days absent from
// the source (holidays) simply produce no partition.
func (r *Runner) Backfill(ctx context.Context, mode BackfillMode, overrides Config) (*BackfillResult, error) {
	cfg := r.resolve(overrides)

	start, err := calendar.ParseDate(mode.Start)
	if err != nil {
		return nil, err
	}

	end, err := calendar.ParseDate(mode.End)
	if err != nil {
		return nil, err
	}

	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s before start %s", calendar.ErrInvalidDate, mode.End, mode.Start)
	}

	symbols := ticker.Normalize(cfg.Tickers)
	if err := ticker.Require(symbols); err != nil {
		return nil, err
	}

	fetchStart, fetchEnd := calendar.FetchWindow(start, end)

	tbl, err := r.Fetcher.Fetch(ctx, symbols, fetchStart, fetchEnd, cfg.Interval)
	if err != nil {
		return nil, err
	}

	uris, err := r.writer(cfg).WriteAll(ctx, tbl)
	if err != nil {
		return nil, err
	}

	// recover the dates actually produced from the written URIs
	written := make([]time.Time, 0, len(uris))
	for _, uri := range uris {
		dt, err := partition.ParseDate(uri)
		if err != nil {
			return nil, err
		}

		written = append(written, dt)
	}

	deduped := trigger.DedupeDates(written)

	partitionDates := make([]string, 0, len(deduped))
	for _, dt := range deduped {
		partitionDates = append(partitionDates, dt.Format(calendar.DateLayout))
	}

	runs := []trigger.Run{}
	if mode.TriggerRefined {
		if runs, err = r.startRuns(ctx, mode.JobName, cfg, deduped); err != nil {
			return nil, err
		}
	}

	return &BackfillResult{
		StartDate:      start.Format(calendar.DateLayout),
		EndDate:        end.Format(calendar.DateLayout),
		PartitionDates: partitionDates,
		URIs:           uris,
		Runs:           runs,
	}, nil
}

func (r *Runner) startRuns(ctx context.Context, jobName string, cfg Config, dates []time.Time) ([]trigger.Run, error) {
	if r.Jobs == nil {
		return nil, trigger.ErrMissingJobName
	}

	if jobName == "" {
		jobName = cfg.JobName
	}

	return r.Jobs.StartRuns(ctx, jobName, dates)
}
