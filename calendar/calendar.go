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

// Package calendar resolves user-supplied date, range and month inputs into
// concrete UTC calendar dates. All parsing happens here, once, at the
// boundary; everything below works with time.Time values.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format used for all date input and
// partition addressing.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate = errors.New("invalid calendar date")
	ErrInvalidYear = errors.New("year out of range")
)

// Target resolves an optional daily-ingestion target date. An empty value
// defaults to yesterday (D-1) relative to now; anything else must parse as
// an ISO calendar date.
func Target(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return Midnight(now.UTC().AddDate(0, 0, -1)), nil
	}

	return ParseDate(value)
}

// ParseDate parses a required ISO calendar date.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrInvalidDate)
	}

	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}

	return t, nil
}

// Midnight truncates a time to its UTC calendar date.
func Midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsWeekend reports whether the date falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// MonthBounds returns the first and last calendar day of the given month.
// Years outside [1900, 2100] are rejected.
func MonthBounds(year int, month time.Month) (time.Time, time.Time, error) {
	if year < 1900 || year > 2100 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %d", ErrInvalidYear, year)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	return first, last, nil
}

// FetchWindow converts an inclusive [start, end] date range into the
// half-open window expected by the data source, whose upper bound is
// exclusive.
func FetchWindow(start, end time.Time) (time.Time, time.Time) {
	return start, end.AddDate(0, 0, 1)
}
