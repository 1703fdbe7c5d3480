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
package ticker

import (
	"os"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

type universeEntry struct {
	Symbol string `csv:"symbol"`
	Name   string `csv:"name"`
}

// LoadUniverse reads an instrument universe from a CSV file with a
// symbol,name header and returns the normalized symbol list. Rows with an
// empty symbol column are dropped.
func LoadUniverse(fn string) ([]string, error) {
	fh, err := os.Open(fn)
	if err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("could not open universe file")
		return nil, err
	}
	defer fh.Close()

	entries := []*universeEntry{}
	if err := gocsv.UnmarshalFile(fh, &entries); err != nil {
		log.Error().Err(err).Str("FileName", fn).Msg("could not parse universe file")
		return nil, err
	}

	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		parts = append(parts, entry.Symbol)
	}

	symbols := NormalizeList(parts)
	if err := Require(symbols); err != nil {
		return nil, err
	}

	log.Debug().Int("NumSymbols", len(symbols)).Str("FileName", fn).Msg("loaded instrument universe")
	return symbols, nil
}
