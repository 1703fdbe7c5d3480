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
	"errors"
	"strings"
)

// MarketSuffix is appended to symbols that carry no market qualifier. B3
// symbols are listed on Yahoo Finance under the São Paulo (.SA) market.
const MarketSuffix = ".SA"

// IndexMarker prefixes index symbols (e.g. ^BVSP) which never receive a
// market suffix.
const IndexMarker = "^"

var ErrNoTickers = errors.New("no tickers provided")

// Normalize canonicalizes a comma-separated list of raw symbols: tokens are
// trimmed, upper-cased and empty entries dropped. A symbol without an
// explicit market (no ".") that is not an index gets MarketSuffix appended.
// Order and repetition of the input are preserved.
func Normalize(raw string) []string {
	return NormalizeList(strings.Split(raw, ","))
}

// NormalizeList applies the same canonicalization as Normalize to an ordered
// slice of raw symbol tokens.
func NormalizeList(parts []string) []string {
	tickers := make([]string, 0, len(parts))

	for _, part := range parts {
		symbol := strings.ToUpper(strings.TrimSpace(part))
		if symbol == "" {
			continue
		}

		if !strings.Contains(symbol, ".") && !strings.HasPrefix(symbol, IndexMarker) {
			symbol += MarketSuffix
		}

		tickers = append(tickers, symbol)
	}

	return tickers
}

// Require returns ErrNoTickers when the normalized symbol list is empty.
func Require(tickers []string) error {
	if len(tickers) == 0 {
		return ErrNoTickers
	}

	return nil
}
