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

// Package partition is the single source of truth for partition addressing:
// it derives object keys of the form <prefix>/dt=YYYY-MM-DD/<filename> and
// parses partition dates back out of written URIs.
package partition

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aerolake/b3data/calendar"
)

// DefaultPrefix is the raw zone of the lake, used whenever no prefix is
// configured or the configured value trips the safe-prefix guardrail.
const DefaultPrefix = "raw"

// reservedPrefix marks the scratch namespace that must never receive
// partition writes.
const reservedPrefix = "unsaved"

const uriScheme = "s3"

var ErrInvalidURI = errors.New("URI does not contain a valid partition date")

var partitionDateRe = regexp.MustCompile(`dt=(\d{4}-\d{2}-\d{2})/`)

// Key addresses a single day partition inside a bucket.
type Key struct {
	Bucket        string
	Prefix        string
	Date          time.Time
	OneFilePerDay bool
}

// Filename returns the object basename. With OneFilePerDay set the name is
// fixed so that rewrites of a partition replace the previous object; the
// date-suffixed variant keeps one object per run under the same partition.
func (k Key) Filename() string {
	if k.OneFilePerDay {
		return "data.parquet"
	}

	return fmt.Sprintf("data_%s.parquet", k.Date.Format(calendar.DateLayout))
}

// ObjectKey renders the bucket-relative object key.
func (k Key) ObjectKey() string {
	return fmt.Sprintf("%s/dt=%s/%s", NormalizePrefix(k.Prefix), k.Date.Format(calendar.DateLayout), k.Filename())
}

// URI renders the fully-qualified object URI.
func (k Key) URI() string {
	return fmt.Sprintf("%s://%s/%s", uriScheme, k.Bucket, k.ObjectKey())
}

// ParseDate extracts the partition date from a key or URI. This is the
// inverse of Key used after writing to recover which dates were actually
// produced, since the source may return fewer days than requested.
func ParseDate(uri string) (time.Time, error) {
	match := partitionDateRe.FindStringSubmatch(uri)
	if match == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidURI, uri)
	}

	dt, err := time.Parse(calendar.DateLayout, match[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidURI, uri)
	}

	return dt, nil
}

// NormalizePrefix trims surrounding whitespace and path separators from a
// configured prefix. Empty values and anything under the reserved scratch
// namespace silently fall back to DefaultPrefix so that a mis-configured
// run can never land partitions in a scratch area.
func NormalizePrefix(prefix string) string {
	value := strings.Trim(strings.TrimSpace(prefix), "/")
	if value == "" || strings.HasPrefix(strings.ToLower(value), reservedPrefix) {
		return DefaultPrefix
	}

	return value
}
