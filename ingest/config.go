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

import "github.com/aerolake/b3data/partition"

// Hard defaults for the airline-sector raw zone.
const (
	DefaultTickers  = "GOLL4,AZUL4,EMBR3,EVEB31"
	DefaultBucket   = "aeronaticalverifier-s3"
	DefaultPeriod   = "5d"
	DefaultInterval = "1d"
)

// Config carries the ingestion settings. Precedence is explicit call
// argument over injected configuration over hard default; the orchestrator
// never consults the environment itself.
type Config struct {
	Tickers   string
	Bucket    string
	RawPrefix string
	Period    string
	Interval  string
	JobName   string

	// DatedFiles switches the partition layout from a single data.parquet
	// per day ("latest wins") to date-suffixed object names that keep one
	// variant per run.
	DatedFiles bool
}

// merge overlays non-zero override fields onto the receiver.
func (c Config) merge(overrides Config) Config {
	if overrides.Tickers != "" {
		c.Tickers = overrides.Tickers
	}
	if overrides.Bucket != "" {
		c.Bucket = overrides.Bucket
	}
	if overrides.RawPrefix != "" {
		c.RawPrefix = overrides.RawPrefix
	}
	if overrides.Period != "" {
		c.Period = overrides.Period
	}
	if overrides.Interval != "" {
		c.Interval = overrides.Interval
	}
	if overrides.JobName != "" {
		c.JobName = overrides.JobName
	}
	if overrides.DatedFiles {
		c.DatedFiles = true
	}

	return c
}

// withDefaults fills any remaining zero fields with the hard defaults.
func (c Config) withDefaults() Config {
	if c.Tickers == "" {
		c.Tickers = DefaultTickers
	}
	if c.Bucket == "" {
		c.Bucket = DefaultBucket
	}
	if c.Period == "" {
		c.Period = DefaultPeriod
	}
	if c.Interval == "" {
		c.Interval = DefaultInterval
	}

	c.RawPrefix = partition.NormalizePrefix(c.RawPrefix)

	return c
}
