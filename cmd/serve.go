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
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aerolake/b3data/api"
	"github.com/aerolake/b3data/ingest"
)

var serveAddress string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ingestion HTTP API",
	Long: `The serve sub-command exposes the ingestion orchestrator over HTTP so
an external scheduler can trigger runs. When cron.secret (or CRON_SECRET)
is configured, ingestion routes require it as a bearer token or the
X-Cron-Secret header.`,
	Run: func(cmd *cobra.Command, args []string) {
		runner, err := newRunner(ingest.Config{})
		if err != nil {
			log.Fatal().Err(err).Msg("could not build ingestion runner")
		}

		server := api.New(runner, viper.GetString("cron.secret"))
		if err := server.ListenAndServe(serveAddress); err != nil {
			log.Fatal().Err(err).Msg("ingestion api server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddress, "address", ":8080", "listen address")
}
