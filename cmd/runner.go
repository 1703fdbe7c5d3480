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
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aerolake/b3data/ingest"
	"github.com/aerolake/b3data/lake"
	"github.com/aerolake/b3data/ticker"
	"github.com/aerolake/b3data/trigger"
	"github.com/aerolake/b3data/yahoo"
)

// ingestFlags holds the override flags shared by the ingestion commands.
type ingestFlags struct {
	tickers        string
	universeFN     string
	bucket         string
	rawPrefix      string
	period         string
	interval       string
	datedFiles     bool
	triggerRefined bool
	jobName        string
}

func (f *ingestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.tickers, "tickers", "", "comma separated ticker list (default from config)")
	cmd.Flags().StringVar(&f.universeFN, "universe", "", "CSV file with a symbol column to ingest instead of --tickers")
	cmd.Flags().StringVar(&f.bucket, "bucket", "", "object store bucket")
	cmd.Flags().StringVar(&f.rawPrefix, "prefix", "", "raw partition prefix")
	cmd.Flags().StringVar(&f.period, "period", "", "lookback period for the daily fetch (default 5d)")
	cmd.Flags().StringVar(&f.interval, "interval", "", "bar interval (default 1d)")
	cmd.Flags().BoolVar(&f.datedFiles, "dated-files", false, "write date-suffixed object names instead of data.parquet")
	cmd.Flags().BoolVar(&f.triggerRefined, "trigger-refined", false, "start the downstream refinement job per partition date")
	cmd.Flags().StringVar(&f.jobName, "job-name", "", "downstream job name (default from config)")
}

// overrides resolves the flag set into an explicit config overlay. A
// universe file replaces the ticker list when given.
func (f *ingestFlags) overrides() (ingest.Config, error) {
	tickers := f.tickers
	if f.universeFN != "" {
		symbols, err := ticker.LoadUniverse(f.universeFN)
		if err != nil {
			return ingest.Config{}, err
		}
		tickers = joinSymbols(symbols)
	}

	return ingest.Config{
		Tickers:    tickers,
		Bucket:     f.bucket,
		RawPrefix:  f.rawPrefix,
		Period:     f.period,
		Interval:   f.interval,
		JobName:    f.jobName,
		DatedFiles: f.datedFiles,
	}, nil
}

// configFromSettings builds the injected configuration layer from viper.
// Explicit flag overrides still win over these values.
func configFromSettings() ingest.Config {
	return ingest.Config{
		Tickers:   viper.GetString("tickers"),
		Bucket:    viper.GetString("s3.bucket"),
		RawPrefix: viper.GetString("raw_prefix"),
		Period:    viper.GetString("yahoo.period"),
		Interval:  viper.GetString("yahoo.interval"),
		JobName:   viper.GetString("glue.job_name"),
	}
}

// newRunner wires the production collaborators. The store binds to the
// bucket the resolved configuration names.
func newRunner(overrides ingest.Config) (*ingest.Runner, error) {
	cfg := configFromSettings()

	bucket := overrides.Bucket
	if bucket == "" {
		bucket = cfg.Bucket
	}
	if bucket == "" {
		bucket = ingest.DefaultBucket
	}

	store, err := lake.NewB2Store(bucket)
	if err != nil {
		return nil, err
	}

	var jobs trigger.JobRunner
	if endpoint := viper.GetString("glue.endpoint"); endpoint != "" {
		jobs = trigger.NewClient(endpoint, cfg.JobName)
	}

	return &ingest.Runner{
		Fetcher: yahoo.New(viper.GetInt("yahoo.requests_per_minute")),
		Store:   store,
		Jobs:    jobs,
		Config:  cfg,
	}, nil
}

func joinSymbols(symbols []string) string {
	return strings.Join(symbols, ",")
}
