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
	"github.com/spf13/viper"

	"github.com/aerolake/b3data/healthcheck"
	"github.com/aerolake/b3data/ingest"
)

var (
	dailyFlags  ingestFlags
	dailyTarget string
)

// dailyCmd represents the daily command
var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Ingest the previous session's prices into the raw layer",
	Long: `The daily sub-command loads one trading session into the raw partition
for its date. Without --dt it targets yesterday (UTC). Weekend targets are
skipped without contacting the price source, which suits a non-gated cron
schedule: the Saturday and Sunday invocations report skipped and exit zero.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		overrides, err := dailyFlags.overrides()
		if err != nil {
			log.Fatal().Err(err).Msg("could not resolve ticker universe")
		}

		runner, err := newRunner(overrides)
		if err != nil {
			log.Fatal().Err(err).Msg("could not build ingestion runner")
		}

		startTime := time.Now()
		result, err := runner.Daily(ctx, ingest.DailyMode{
			Target:         dailyTarget,
			TriggerRefined: dailyFlags.triggerRefined,
			JobName:        dailyFlags.jobName,
		}, overrides)
		if err != nil {
			log.Fatal().Err(err).Msg("daily ingestion failed")
		}

		runTime := time.Since(startTime)

		if result.Skipped {
			log.Info().Str("Date", result.Date).Msg("non-trading day, nothing ingested")
		} else {
			log.Info().Str("Date", result.Date).Strs("URIs", result.URIs).
				Str("RunTime", durafmt.Parse(runTime).String()).Msg("daily ingestion complete")
		}

		if checkID := viper.GetString("healthchecks.daily_check_id"); checkID != "" {
			if err := healthcheck.Ping(checkID); err != nil {
				log.Warn().Err(err).Msg("could not ping health check")
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(dailyCmd)
	dailyFlags.register(dailyCmd)
	dailyCmd.Flags().StringVar(&dailyTarget, "dt", "", "target date YYYY-MM-DD (default yesterday UTC)")
}
