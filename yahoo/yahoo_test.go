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
package yahoo_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/aerolake/b3data/yahoo"
)

// chartPayload renders a minimal chart response for one symbol. The second
// close slot is null to mimic an untraded day.
func chartPayload(symbol string) string {
	return fmt.Sprintf(`{
		"chart": {
			"result": [{
				"meta": {"symbol": %q},
				"timestamp": [1710288000, 1710374400, 1710460800],
				"indicators": {
					"quote": [{
						"open":   [8.00, null, 8.20],
						"high":   [8.30, null, 8.50],
						"low":    [7.90, null, 8.10],
						"close":  [8.12, null, 8.40],
						"volume": [1000000, null, 1200000]
					}],
					"adjclose": [{"adjclose": [8.10, null, 8.38]}]
				}
			}],
			"error": null
		}
	}`, symbol)
}

var _ = Describe("Client", func() {
	var (
		ctx      context.Context
		server   *httptest.Server
		client   *yahoo.Client
		requests []string
	)

	BeforeEach(func() {
		ctx = context.Background()
		requests = nil
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests = append(requests, r.URL.String())

			parts := strings.Split(r.URL.Path, "/")
			symbol := parts[len(parts)-1]

			if symbol == "BOGUS.SA" {
				w.WriteHeader(http.StatusNotFound)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, chartPayload(symbol))
		}))

		client = yahoo.New(6000)
		client.BaseURL = server.URL
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("Fetch", func() {
		It("flattens chart results into rows, skipping null slots", func() {
			start := time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC)
			end := time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC)

			tbl, err := client.Fetch(ctx, []string{"GOLL4.SA"}, start, end, "")
			Expect(err).ToNot(HaveOccurred())
			Expect(tbl.Len()).To(Equal(2))

			first := tbl.Rows()[0]
			Expect(first.Date).To(Equal("2024-03-13"))
			Expect(first.Ticker).To(Equal("GOLL4.SA"))
			Expect(first.Close).To(BeNumerically("~", 8.12, 1e-9))
			Expect(first.AdjClose).To(BeNumerically("~", 8.10, 1e-9))
			Expect(first.Volume).To(BeNumerically("==", 1000000))
		})

		It("sends the window as unix period bounds with a 1d default interval", func() {
			start := time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC)
			end := time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC)

			_, err := client.Fetch(ctx, []string{"GOLL4.SA"}, start, end, "")
			Expect(err).ToNot(HaveOccurred())
			Expect(requests).To(HaveLen(1))
			Expect(requests[0]).To(ContainSubstring(fmt.Sprintf("period1=%d", start.Unix())))
			Expect(requests[0]).To(ContainSubstring(fmt.Sprintf("period2=%d", end.Unix())))
			Expect(requests[0]).To(ContainSubstring("interval=1d"))
		})

		It("skips symbols the source does not know", func() {
			start := time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC)
			end := time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC)

			tbl, err := client.Fetch(ctx, []string{"BOGUS.SA", "GOLL4.SA"}, start, end, "")
			Expect(err).ToNot(HaveOccurred())
			for _, row := range tbl.Rows() {
				Expect(row.Ticker).To(Equal("GOLL4.SA"))
			}
		})

		It("fails with ErrNoData when nothing is returned", func() {
			start := time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC)
			end := time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC)

			_, err := client.Fetch(ctx, []string{"BOGUS.SA"}, start, end, "")
			Expect(err).To(MatchError(yahoo.ErrNoData))
		})
	})

	Describe("FetchPeriod", func() {
		It("defaults the trailing period to 5d", func() {
			_, err := client.FetchPeriod(ctx, []string{"GOLL4.SA"}, "", "")
			Expect(err).ToNot(HaveOccurred())
			Expect(requests[0]).To(ContainSubstring("range=5d"))
		})

		It("passes an explicit period through", func() {
			_, err := client.FetchPeriod(ctx, []string{"GOLL4.SA"}, "1mo", "")
			Expect(err).ToNot(HaveOccurred())
			Expect(requests[0]).To(ContainSubstring("range=1mo"))
		})
	})
})
