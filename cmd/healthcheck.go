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

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aerolake/b3data/healthcheck"
)

var (
	healthcheckTags     string
	healthcheckSchedule string
)

var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Manage the healthchecks.io check for the scheduled daily run",
}

var healthcheckCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a check and print its id",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		checkID, err := healthcheck.Create(args[0], strings.Fields(healthcheckTags), healthcheckSchedule)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create health check")
		}

		log.Info().Str("CheckID", checkID).Msg("created health check; set healthchecks.daily_check_id to enable pings")
	},
}

var healthcheckDeleteCmd = &cobra.Command{
	Use:   "delete <check-id>",
	Short: "Delete a check",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := healthcheck.Delete(args[0]); err != nil {
			log.Fatal().Err(err).Msg("could not delete health check")
		}

		log.Info().Str("CheckID", args[0]).Msg("deleted health check")
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
	healthcheckCmd.AddCommand(healthcheckCreateCmd)
	healthcheckCmd.AddCommand(healthcheckDeleteCmd)

	healthcheckCreateCmd.Flags().StringVar(&healthcheckTags, "tags", "b3data daily", "space separated tags")
	healthcheckCreateCmd.Flags().StringVar(&healthcheckSchedule, "schedule", "0 9 * * 1-5", "cron schedule the check expects pings on")
}
