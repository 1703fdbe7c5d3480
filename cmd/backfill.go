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
	"time"

	"github.com/hako/durafmt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aerolake/b3data/ingest"
)

var (
	backfillFlags ingestFlags
	backfillStart string
	backfillEnd   string
)

// backfillCmd represents the backfill command
var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Ingest a historical date range into the raw layer",
	Long: `The backfill sub-command ingests every trading day in an inclusive
date range, writing one partition object per distinct date returned by the
price source. Days the source has no rows for (weekends, exchange holidays)
simply produce no partition.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		overrides, err := backfillFlags.overrides()
		if err != nil {
			log.Fatal().Err(err).Msg("could not resolve ticker universe")
		}

		runner, err := newRunner(overrides)
		if err != nil {
			log.Fatal().Err(err).Msg("could not build ingestion runner")
		}

		startTime := time.Now()
		result, err := runner.Backfill(ctx, ingest.BackfillMode{
			Start:          backfillStart,
			End:            backfillEnd,
			TriggerRefined: backfillFlags.triggerRefined,
			JobName:        backfillFlags.jobName,
		}, overrides)
		if err != nil {
			log.Fatal().Err(err).Msg("backfill ingestion failed")
		}

		runTime := time.Since(startTime)

		log.Info().Str("StartDate", result.StartDate).Str("EndDate", result.EndDate).
			Int("NumPartitions", len(result.PartitionDates)).
			Int("NumDownstreamRuns", len(result.Runs)).
			Str("RunTime", durafmt.Parse(runTime).String()).Msg("backfill complete")
	},
}

func init() {
	rootCmd.AddCommand(backfillCmd)
	backfillFlags.register(backfillCmd)
	backfillCmd.Flags().StringVar(&backfillStart, "start", "", "first date of the range YYYY-MM-DD (inclusive)")
	backfillCmd.Flags().StringVar(&backfillEnd, "end", "", "last date of the range YYYY-MM-DD (inclusive)")
	cobra.CheckErr(backfillCmd.MarkFlagRequired("start"))
	cobra.CheckErr(backfillCmd.MarkFlagRequired("end"))
}
