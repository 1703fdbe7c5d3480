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
package ingest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aerolake/b3data/calendar"
	"github.com/aerolake/b3data/trigger"
)

// MonthResult retains one month's backfill for inspection alongside the
// aggregate.
type MonthResult struct {
	Year      int             `json:"year"`
	Month     int             `json:"month"`
	MonthName string          `json:"month_name"`
	Result    *BackfillResult `json:"result"`
}

// MonthsResult aggregates the per-month backfills of one orchestrator call.
type MonthsResult struct {
	Year           int            `json:"year"`
	Months         []int          `json:"months"`
	PartitionDates []string       `json:"partition_dates"`
	URIs           []string       `json:"uris"`
	Runs           []trigger.Run  `json:"downstream_runs"`
	PerMonth       []*MonthResult `json:"per_month_results"`
}

// Months resolves the month set (deduplicating while preserving first-seen
// order), validates every month and the year before any side effect, then
// delegates each month's bounds to Backfill and aggregates the results.
func (r *Runner) Months(ctx context.Context, mode MonthsMode, overrides Config) (*MonthsResult, error) {
	type monthWindow struct {
		month time.Month
		first time.Time
		last  time.Time
	}

	if len(mode.Months) == 0 {
		return nil, fmt.Errorf("%w: empty month set", calendar.ErrInvalidMonth)
	}

	seen := make(map[time.Month]bool, len(mode.Months))
	windows := make([]monthWindow, 0, len(mode.Months))

	for _, raw := range mode.Months {
		month, err := calendar.ParseMonth(raw)
		if err != nil {
			return nil, err
		}

		if seen[month] {
			continue
		}
		seen[month] = true

		first, last, err := calendar.MonthBounds(mode.Year, month)
		if err != nil {
			return nil, err
		}

		windows = append(windows, monthWindow{month: month, first: first, last: last})
	}

	aggregate := &MonthsResult{
		Year:           mode.Year,
		Months:         make([]int, 0, len(windows)),
		PartitionDates: make([]string, 0),
		URIs:           make([]string, 0),
		Runs:           make([]trigger.Run, 0),
		PerMonth:       make([]*MonthResult, 0, len(windows)),
	}

	dateSet := make(map[string]bool)

	for _, window := range windows {
		sub, err := r.Backfill(ctx, BackfillMode{
			Start:          window.first.Format(calendar.DateLayout),
			End:            window.last.Format(calendar.DateLayout),
			TriggerRefined: mode.TriggerRefined,
			JobName:        mode.JobName,
		}, overrides)
		if err != nil {
			return nil, err
		}

		aggregate.Months = append(aggregate.Months, int(window.month))
		aggregate.URIs = append(aggregate.URIs, sub.URIs...)
		aggregate.Runs = append(aggregate.Runs, sub.Runs...)
		aggregate.PerMonth = append(aggregate.PerMonth, &MonthResult{
			Year:      mode.Year,
			Month:     int(window.month),
			MonthName: calendar.MonthName(window.month),
			Result:    sub,
		})

		for _, dt := range sub.PartitionDates {
			dateSet[dt] = true
		}
	}

	for dt := range dateSet {
		aggregate.PartitionDates = append(aggregate.PartitionDates, dt)
	}

	// ISO dates sort lexicographically in calendar order
	sort.Strings(aggregate.PartitionDates)

	return aggregate, nil
}
