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

// Package yahoo is a thin façade over the Yahoo Finance chart API. It
// retrieves raw price series for a symbol set and normalizes them into the
// flat table shape used by the partition writer.
package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/aerolake/b3data/calendar"
	"github.com/aerolake/b3data/data"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

var (
	ErrNoData = errors.New("no data returned, check tickers and date range")

	ErrStatus = errors.New("status code is invalid")
)

// Client fetches daily price series. Requests are rate limited because
// Yahoo throttles aggressively on burst traffic.
type Client struct {
	// BaseURL may be overridden for testing.
	BaseURL string

	client  *resty.Client
	limiter *rate.Limiter
}

// New creates a chart API client limited to requestsPerMinute upstream
// calls (default 60).
func New(requestsPerMinute int) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}

	return &Client{
		BaseURL: defaultBaseURL,
		client: resty.New().
			SetHeader("User-Agent", "b3data/1.0"),
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/float64(61)), 1),
	}
}

// chart API response shape

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Symbol string `json:"symbol"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote    []chartQuote    `json:"quote"`
		AdjClose []chartAdjClose `json:"adjclose"`
	} `json:"indicators"`
}

// quote arrays use pointer elements because Yahoo emits null slots for
// days without trades.
type chartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

type chartAdjClose struct {
	AdjClose []*float64 `json:"adjclose"`
}

// Fetch retrieves price rows for the symbols over the half-open window
// [start, end) at the given bar interval (default 1d).
func (c *Client) Fetch(ctx context.Context, symbols []string, start, end time.Time, interval string) (*data.Table, error) {
	return c.fetch(ctx, symbols, map[string]string{
		"period1":  strconv.FormatInt(start.Unix(), 10),
		"period2":  strconv.FormatInt(end.Unix(), 10),
		"interval": normalizeInterval(interval),
	})
}

// FetchPeriod retrieves price rows for a trailing named period (e.g. "5d",
// "1mo", "1y") ending now.
func (c *Client) FetchPeriod(ctx context.Context, symbols []string, period, interval string) (*data.Table, error) {
	if period == "" {
		period = "5d"
	}

	return c.fetch(ctx, symbols, map[string]string{
		"range":    period,
		"interval": normalizeInterval(interval),
	})
}

func normalizeInterval(interval string) string {
	if interval == "" {
		return "1d"
	}

	return interval
}

func (c *Client) fetch(ctx context.Context, symbols []string, params map[string]string) (*data.Table, error) {
	tbl := data.NewTable()

	for _, symbol := range symbols {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		respContent := chartResponse{}
		resp, err := c.client.R().
			SetContext(ctx).
			SetQueryParams(params).
			SetResult(&respContent).
			Get(fmt.Sprintf("%s/v8/finance/chart/%s", c.BaseURL, url.PathEscape(symbol)))
		if err != nil {
			log.Error().Err(err).Str("Symbol", symbol).Msg("resty returned an error when querying chart prices")
			return nil, err
		}

		if resp.StatusCode() >= 300 {
			// symbols unknown to the source are skipped, not fatal
			log.Warn().Int("StatusCode", resp.StatusCode()).Str("Symbol", symbol).Str("URL", resp.Request.URL).Msg("chart API returned an invalid HTTP response")
			continue
		}

		if respContent.Chart.Error != nil {
			log.Warn().Str("Symbol", symbol).Str("Code", respContent.Chart.Error.Code).Str("Description", respContent.Chart.Error.Description).Msg("chart API returned an error payload")
			continue
		}

		for _, result := range respContent.Chart.Result {
			appendResult(tbl, symbol, result)
		}
	}

	if tbl.Len() == 0 {
		return nil, ErrNoData
	}

	return tbl, nil
}

// appendResult flattens one chart result into table rows, skipping null
// quote slots (untraded days).
func appendResult(tbl *data.Table, symbol string, result chartResult) {
	if len(result.Indicators.Quote) == 0 {
		return
	}

	quote := result.Indicators.Quote[0]

	var adjusted []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adjusted = result.Indicators.AdjClose[0].AdjClose
	}

	for idx, ts := range result.Timestamp {
		closePx := at(quote.Close, idx)
		if closePx == nil {
			continue
		}

		row := &data.Row{
			Date:   time.Unix(ts, 0).UTC().Format(calendar.DateLayout),
			Ticker: symbol,
			Close:  *closePx,
		}

		if v := at(quote.Open, idx); v != nil {
			row.Open = *v
		}
		if v := at(quote.High, idx); v != nil {
			row.High = *v
		}
		if v := at(quote.Low, idx); v != nil {
			row.Low = *v
		}
		if v := at(quote.Volume, idx); v != nil {
			row.Volume = *v
		}

		row.AdjClose = *closePx
		if v := at(adjusted, idx); v != nil {
			row.AdjClose = *v
		}

		tbl.Append(row)
	}
}

func at(values []*float64, idx int) *float64 {
	if idx >= len(values) {
		return nil
	}

	return values[idx]
}
