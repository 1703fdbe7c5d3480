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
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/aerolake/b3data/ingest"
	"github.com/aerolake/b3data/ticker"
)

type initSettings struct {
	Tickers   string `toml:"tickers"`
	RawPrefix string `toml:"raw_prefix"`

	S3 struct {
		Bucket string `toml:"bucket"`
	} `toml:"s3"`

	Backblaze struct {
		ApplicationID  string `toml:"application_id"`
		ApplicationKey string `toml:"application_key"`
	} `toml:"backblaze"`

	Glue struct {
		Endpoint string `toml:"endpoint"`
		JobName  string `toml:"job_name"`
	} `toml:"glue"`

	Cron struct {
		Secret string `toml:"secret"`
	} `toml:"cron"`
}

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Gather ingestion settings and write the config file",
	Run: func(cmd *cobra.Command, args []string) {
		settings := initSettings{
			Tickers:   ingest.DefaultTickers,
			RawPrefix: "raw",
		}
		settings.S3.Bucket = ingest.DefaultBucket

		form := huh.NewForm(
			// The instrument universe and lake layout
			huh.NewGroup(
				huh.NewInput().
					Title("Which tickers should the daily run ingest (comma separated)?").
					Value(&settings.Tickers).
					Validate(func(raw string) error {
						return ticker.Require(ticker.Normalize(raw))
					}),

				huh.NewInput().
					Title("Which bucket holds the data lake?").
					Value(&settings.S3.Bucket),

				huh.NewInput().
					Title("Raw layer prefix:").
					Value(&settings.RawPrefix),
			),

			// Object store credentials
			huh.NewGroup(
				huh.NewInput().
					Title("Backblaze application id:").
					Value(&settings.Backblaze.ApplicationID),

				huh.NewInput().
					Title("Backblaze application key:").
					EchoMode(huh.EchoModePassword).
					Value(&settings.Backblaze.ApplicationKey),
			),

			// Downstream refinement job
			huh.NewGroup(
				huh.NewInput().
					Title("Job-runner endpoint (blank disables downstream triggers):").
					Value(&settings.Glue.Endpoint),

				huh.NewInput().
					Title("Downstream job name:").
					Value(&settings.Glue.JobName),

				huh.NewInput().
					Title("Cron secret for the HTTP API (blank disables the check):").
					EchoMode(huh.EchoModePassword).
					Value(&settings.Cron.Secret),
			),
		)

		err := form.Run()
		if err != nil {
			log.Fatal().Err(err).Msg("error gathering ingestion settings")
		}

		settings.Tickers = strings.Join(ticker.Normalize(settings.Tickers), ",")

		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal().Err(err).Msg("could not determine user home directory")
		}

		configFN := filepath.Join(home, ".b3data.toml")
		log.Info().Str("ConfigFile", configFN).Msg("Saving ingestion settings to config file")
		configData, err := toml.Marshal(settings)
		if err != nil {
			log.Fatal().Err(err).Msg("could not marshal configuration data")
		}

		err = os.WriteFile(configFN, configData, 0600)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", configFN).Msg("could not save configuration to file")
		}

		log.Info().Msg("Your ingestion settings have been initialized")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
