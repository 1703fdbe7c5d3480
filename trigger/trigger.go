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

// Package trigger signals the downstream refinement job once per landed
// partition date.
package trigger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/aerolake/b3data/calendar"
)

var (
	ErrMissingJobName = errors.New("no downstream job name configured")

	ErrStatus = errors.New("status code is invalid")
)

// Run records one downstream job invocation.
type Run struct {
	Date  string `json:"dt"`
	RunID string `json:"run_id"`
}

// JobRunner starts one downstream job run per distinct date. Dates are
// deduplicated and sorted before dispatch, so a single orchestrator call
// never signals the same partition twice.
type JobRunner interface {
	StartRuns(ctx context.Context, jobName string, dates []time.Time) ([]Run, error)
}

// DedupeDates normalizes dates to their UTC calendar day, removes
// duplicates, and returns them in ascending order.
func DedupeDates(dates []time.Time) []time.Time {
	seen := make(map[string]time.Time, len(dates))
	for _, dt := range dates {
		day := calendar.Midnight(dt)
		seen[day.Format(calendar.DateLayout)] = day
	}

	deduped := make([]time.Time, 0, len(seen))
	for _, day := range seen {
		deduped = append(deduped, day)
	}

	sort.Slice(deduped, func(i, j int) bool {
		return deduped[i].Before(deduped[j])
	})

	return deduped
}

type startJobRunRequest struct {
	JobName            string            `json:"job_name"`
	ClientRequestToken string            `json:"client_request_token"`
	Arguments          map[string]string `json:"arguments"`
}

type startJobRunResponse struct {
	JobRunID string `json:"job_run_id"`
}

// Client invokes the batch job runner over HTTP.
type Client struct {
	// JobName is the default downstream job, used when the call site
	// passes none.
	JobName string

	endpoint string
	client   *resty.Client
}

// NewClient creates a trigger client for the job-runner endpoint.
func NewClient(endpoint, jobName string) *Client {
	return &Client{
		JobName:  jobName,
		endpoint: endpoint,
		client:   resty.New(),
	}
}

// StartRuns issues exactly one job invocation per distinct date, carrying
// the partition date as the --dt argument. An explicit jobName overrides
// the configured default; with neither, the call fails before any dispatch.
func (c *Client) StartRuns(ctx context.Context, jobName string, dates []time.Time) ([]Run, error) {
	name := jobName
	if name == "" {
		name = c.JobName
	}
	if name == "" {
		return nil, ErrMissingJobName
	}

	runs := make([]Run, 0, len(dates))

	for _, dt := range DedupeDates(dates) {
		dtStr := dt.Format(calendar.DateLayout)

		command := startJobRunRequest{
			JobName:            name,
			ClientRequestToken: uuid.NewString(),
			Arguments:          map[string]string{"--dt": dtStr},
		}

		result := startJobRunResponse{}

		resp, err := c.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(command).
			SetResult(&result).
			Post(c.endpoint)
		if err != nil {
			log.Error().Err(err).Str("JobName", name).Str("Date", dtStr).Msg("start job run failed")
			return nil, err
		}

		if resp.StatusCode() >= 300 {
			log.Error().Int("StatusCode", resp.StatusCode()).Str("JobName", name).Str("Date", dtStr).Msg("job runner returned an invalid HTTP response")
			return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode())
		}

		log.Info().Str("JobName", name).Str("Date", dtStr).Str("RunID", result.JobRunID).Msg("started downstream job run")
		runs = append(runs, Run{Date: dtStr, RunID: result.JobRunID})
	}

	return runs, nil
}
