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
package api

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/aerolake/b3data/calendar"
	"github.com/aerolake/b3data/ingest"
	"github.com/aerolake/b3data/lake"
	"github.com/aerolake/b3data/partition"
	"github.com/aerolake/b3data/ticker"
	"github.com/aerolake/b3data/trigger"
	"github.com/aerolake/b3data/yahoo"
)

var errUnknownMode = errors.New("unknown ingestion mode")

// Server exposes the ingestion orchestrator over HTTP for scheduled
// invocation. When Secret is non-empty every ingestion route requires it.
type Server struct {
	Runner *ingest.Runner
	Secret string
}

func New(runner *ingest.Runner, secret string) *Server {
	return &Server{
		Runner: runner,
		Secret: secret,
	}
}

// Handler builds the route table. Ingestion routes pass through the secret
// check; health does not.
func (srv *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", srv.handleHealth)
	mux.HandleFunc("POST /ingestion/run", srv.authorized(srv.handleRun))
	mux.HandleFunc("POST /ingestion/backfill", srv.authorized(srv.handleBackfill))
	mux.HandleFunc("POST /ingestion/months", srv.authorized(srv.handleMonths))
	return mux
}

// ListenAndServe blocks serving the ingestion API on the given address.
func (srv *Server) ListenAndServe(address string) error {
	log.Info().Str("Address", address).Msg("ingestion api listening")
	return http.ListenAndServe(address, srv.Handler())
}

func (srv *Server) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if srv.Secret != "" && !srv.secretMatches(r) {
			log.Warn().Str("RemoteAddr", r.RemoteAddr).Str("Path", r.URL.Path).Msg("rejected unauthorized ingestion request")
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

func (srv *Server) secretMatches(r *http.Request) bool {
	candidate := r.Header.Get("X-Cron-Secret")
	if candidate == "" {
		bearer := r.Header.Get("Authorization")
		candidate = strings.TrimPrefix(bearer, "Bearer ")
		if candidate == bearer {
			return false
		}
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(srv.Secret)) == 1
}

func (srv *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// runRequest carries every parameter the orchestrator accepts; each route
// reads the subset its mode understands.
type runRequest struct {
	Mode      string `json:"mode"`
	Date      string `json:"dt"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Year      int    `json:"year"`
	Month     any    `json:"month"`
	Months    []any  `json:"months"`
	Tickers   string `json:"tickers"`
	Bucket    string `json:"s3_bucket"`
	RawPrefix string `json:"raw_prefix"`
	Period    string `json:"period"`
	Interval  string `json:"interval"`
	// TriggerRefined is a pointer so an omitted field can pick up the
	// per-mode default: historical modes trigger the downstream job unless
	// told otherwise, the routine daily run stays quiet unless asked.
	TriggerRefined *bool  `json:"trigger_refined"`
	JobName        string `json:"glue_job_name"`
}

func (req *runRequest) triggerRefined(fallback bool) bool {
	if req.TriggerRefined != nil {
		return *req.TriggerRefined
	}

	return fallback
}

func (req *runRequest) overrides() ingest.Config {
	return ingest.Config{
		Tickers:   req.Tickers,
		Bucket:    req.Bucket,
		RawPrefix: req.RawPrefix,
		Period:    req.Period,
		Interval:  req.Interval,
		JobName:   req.JobName,
	}
}

func (req *runRequest) dailyMode() ingest.DailyMode {
	return ingest.DailyMode{
		Target:         req.Date,
		TriggerRefined: req.triggerRefined(false),
		JobName:        req.JobName,
	}
}

func (req *runRequest) backfillMode() ingest.BackfillMode {
	return ingest.BackfillMode{
		Start:          req.Start,
		End:            req.End,
		TriggerRefined: req.triggerRefined(true),
		JobName:        req.JobName,
	}
}

func (req *runRequest) monthsMode() ingest.MonthsMode {
	return ingest.MonthsMode{
		Year:           req.Year,
		Months:         req.Months,
		TriggerRefined: req.triggerRefined(true),
		JobName:        req.JobName,
	}
}

// mode resolves which ingestion mode the request asks for: an explicit mode
// field wins, then a start/end pair selects backfill, otherwise daily.
// Unrecognized mode strings are rejected rather than defaulted.
func (req *runRequest) mode() (ingest.Mode, error) {
	selected := strings.ToLower(strings.TrimSpace(req.Mode))
	switch selected {
	case "backfill":
		return req.backfillMode(), nil
	case "months":
		return req.monthsMode(), nil
	case "month":
		month := req.Month
		if month == nil && len(req.Months) > 0 {
			month = req.Months[0]
		}

		return ingest.MonthMode{
			Year:           req.Year,
			Month:          month,
			TriggerRefined: req.triggerRefined(true),
			JobName:        req.JobName,
		}, nil
	case "daily":
		return req.dailyMode(), nil
	case "":
		if req.Start != "" && req.End != "" {
			return req.backfillMode(), nil
		}

		return req.dailyMode(), nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownMode, selected)
	}
}

func (srv *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}

	mode, err := req.mode()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	srv.execute(w, r, mode, req)
}

func (srv *Server) handleBackfill(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	srv.execute(w, r, req.backfillMode(), req)
}

func (srv *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	srv.execute(w, r, req.monthsMode(), req)
}

func (srv *Server) execute(w http.ResponseWriter, r *http.Request, mode ingest.Mode, req *runRequest) {
	result, err := srv.Runner.Run(r.Context(), mode, req.overrides())
	if err != nil {
		status := http.StatusInternalServerError
		if isClientError(err) {
			status = http.StatusBadRequest
		}
		log.Error().Err(err).Int("Status", status).Str("Path", r.URL.Path).Msg("ingestion run failed")
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (*runRequest, bool) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return nil, false
	}
	return &req, true
}

// isClientError reports whether the failure came from the caller's
// parameters rather than the pipeline itself.
func isClientError(err error) bool {
	clientErrs := []error{
		ticker.ErrNoTickers,
		calendar.ErrInvalidDate,
		calendar.ErrInvalidYear,
		calendar.ErrInvalidMonth,
		partition.ErrInvalidURI,
		lake.ErrNoDataForPartition,
		lake.ErrNoPartitionsWritten,
		trigger.ErrMissingJobName,
		yahoo.ErrNoData,
	}
	for _, sentinel := range clientErrs {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response body")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
