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

// Mode is the discriminated ingestion request, constructed exactly once at
// the transport boundary (CLI flags or HTTP body). The orchestrator never
// re-derives the mode from which optional fields happen to be set.
type Mode interface {
	mode() string
}

// DailyMode ingests a single partition, defaulting to D-1.
type DailyMode struct {
	// Target is an optional ISO date; empty means yesterday.
	Target         string
	TriggerRefined bool
	JobName        string
}

// BackfillMode ingests an explicit inclusive date range.
type BackfillMode struct {
	Start          string
	End            string
	TriggerRefined bool
	JobName        string
}

// MonthMode ingests one calendar month.
type MonthMode struct {
	Year           int
	Month          any
	TriggerRefined bool
	JobName        string
}

// MonthsMode ingests several months of the same year. Month values may be
// numbers or localized names; duplicates collapse in first-seen order.
type MonthsMode struct {
	Year           int
	Months         []any
	TriggerRefined bool
	JobName        string
}

func (DailyMode) mode() string    { return "daily" }
func (BackfillMode) mode() string { return "backfill" }
func (MonthMode) mode() string    { return "month" }
func (MonthsMode) mode() string   { return "months" }
