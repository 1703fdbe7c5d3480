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
	"context"
	"strings"
	"time"

	"github.com/hako/durafmt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aerolake/b3data/ingest"
)

var (
	monthsFlags ingestFlags
	monthsYear  int
	monthsList  string
)

// monthsCmd represents the months command
var monthsCmd = &cobra.Command{
	Use:   "months",
	Short: "Ingest one or more calendar months of a year",
	Long: `The months sub-command backfills whole calendar months. Months may be
given as numbers or names in English or Portuguese, with or without
accents, so "--year 2024 --months jan,fevereiro,3" ingests January through
March 2024. Duplicate months are ingested once.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		overrides, err := monthsFlags.overrides()
		if err != nil {
			log.Fatal().Err(err).Msg("could not resolve ticker universe")
		}

		runner, err := newRunner(overrides)
		if err != nil {
			log.Fatal().Err(err).Msg("could not build ingestion runner")
		}

		months := make([]any, 0)
		for _, raw := range strings.Split(monthsList, ",") {
			if raw = strings.TrimSpace(raw); raw != "" {
				months = append(months, raw)
			}
		}

		startTime := time.Now()
		result, err := runner.Months(ctx, ingest.MonthsMode{
			Year:           monthsYear,
			Months:         months,
			TriggerRefined: monthsFlags.triggerRefined,
			JobName:        monthsFlags.jobName,
		}, overrides)
		if err != nil {
			log.Fatal().Err(err).Msg("month ingestion failed")
		}

		runTime := time.Since(startTime)

		for _, sub := range result.PerMonth {
			log.Info().Int("Year", sub.Year).Str("Month", sub.MonthName).
				Int("NumPartitions", len(sub.Result.PartitionDates)).Msg("month ingested")
		}

		log.Info().Int("Year", result.Year).Ints("Months", result.Months).
			Int("NumPartitions", len(result.PartitionDates)).
			Int("NumDownstreamRuns", len(result.Runs)).
			Str("RunTime", durafmt.Parse(runTime).String()).Msg("month ingestion complete")
	},
}

func init() {
	rootCmd.AddCommand(monthsCmd)
	monthsFlags.register(monthsCmd)
	monthsCmd.Flags().IntVar(&monthsYear, "year", 0, "calendar year to ingest")
	monthsCmd.Flags().StringVar(&monthsList, "months", "", "comma separated month numbers or names (EN or PT)")
	cobra.CheckErr(monthsCmd.MarkFlagRequired("year"))
	cobra.CheckErr(monthsCmd.MarkFlagRequired("months"))
}
