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

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "b3data",
	Short: "b3data ingests B3 market prices into a partitioned data lake",
	Long: `b3data is a command line utility that fetches daily price series for
exchange-listed B3 instruments and lands them as parquet objects in a
date-partitioned object store layout (prefix/dt=YYYY-MM-DD/...).

It supports a scheduled daily mode that loads the previous session, a
backfill mode over an inclusive date range, and a month mode that accepts
month names in English or Portuguese. After landing raw partitions it can
start one downstream refinement job per distinct partition date.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.b3data.toml)")

	bindings := map[string][]string{
		"tickers":       {"TICKERS"},
		"s3.bucket":     {"S3_BUCKET", "AWS_BUCKET"},
		"raw_prefix":    {"RAW_PREFIX"},
		"glue.job_name": {"GLUE_JOB_NAME"},
		"cron.secret":   {"CRON_SECRET"},
	}
	for key, envNames := range bindings {
		args := append([]string{key}, envNames...)
		if err := viper.BindEnv(args...); err != nil {
			log.Panic().Err(err).Str("Key", key).Msg("BindEnv failed")
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".b3data" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("toml")
		viper.SetConfigName(".b3data")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Info().Str("ConfigFN", viper.ConfigFileUsed()).Msg("Using config file")
	}
}
