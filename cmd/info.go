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
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aerolake/b3data/lake"
	"github.com/aerolake/b3data/partition"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display a summary of the raw data lake partitions",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		bucket := viper.GetString("s3.bucket")
		prefix := partition.NormalizePrefix(viper.GetString("raw_prefix"))

		store, err := lake.NewB2Store(bucket)
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to object store")
		}

		summary, err := lake.Summarize(ctx, store, bucket, prefix)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create lake summary document")
		}

		r, _ := glamour.NewTermRenderer(
			// detect background color and pick either the default dark or light theme
			glamour.WithAutoStyle(),
			// wrap output at specific width (default is 80)
			glamour.WithWordWrap(80),
		)

		out, err := r.Render(summary)
		if err != nil {
			log.Fatal().Err(err).Msg("could not render summary document")
		}

		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
