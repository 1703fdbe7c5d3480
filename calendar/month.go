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
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cast"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var ErrInvalidMonth = errors.New("invalid month")

// monthAliases maps accent-folded lower-case English and Portuguese month
// names (full and abbreviated) to their month number.
var monthAliases = map[string]time.Month{
	"january": time.January, "janeiro": time.January, "jan": time.January,
	"february": time.February, "fevereiro": time.February, "feb": time.February, "fev": time.February,
	"march": time.March, "marco": time.March, "mar": time.March,
	"april": time.April, "abril": time.April, "apr": time.April, "abr": time.April,
	"may": time.May, "maio": time.May, "mai": time.May,
	"june": time.June, "junho": time.June, "jun": time.June,
	"july": time.July, "julho": time.July, "jul": time.July,
	"august": time.August, "agosto": time.August, "aug": time.August, "ago": time.August,
	"september": time.September, "setembro": time.September, "sep": time.September, "set": time.September,
	"october": time.October, "outubro": time.October, "oct": time.October, "out": time.October,
	"november": time.November, "novembro": time.November, "nov": time.November,
	"december": time.December, "dezembro": time.December, "dec": time.December, "dez": time.December,
}

// monthNamesPT holds the canonical Portuguese month names used in API
// responses, indexed by time.Month.
var monthNamesPT = map[time.Month]string{
	time.January:   "janeiro",
	time.February:  "fevereiro",
	time.March:     "março",
	time.April:     "abril",
	time.May:       "maio",
	time.June:      "junho",
	time.July:      "julho",
	time.August:    "agosto",
	time.September: "setembro",
	time.October:   "outubro",
	time.November:  "novembro",
	time.December:  "dezembro",
}

// foldAccents strips combining marks so that "Março" and "marco" compare
// equal after lower-casing.
var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func foldMonthToken(value string) string {
	token := strings.ToLower(strings.TrimSpace(value))
	if folded, _, err := transform.String(foldAccents, token); err == nil {
		return folded
	}

	return token
}

// ParseMonth resolves a month number. It accepts integers 1-12, their
// string forms, and English or Portuguese month names (full or abbreviated,
// case- and accent-insensitive).
func ParseMonth(value any) (time.Month, error) {
	if n, err := cast.ToIntE(value); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("%w: %d", ErrInvalidMonth, n)
		}

		return time.Month(n), nil
	}

	if month, ok := monthAliases[foldMonthToken(cast.ToString(value))]; ok {
		return month, nil
	}

	return 0, fmt.Errorf("%w: %v", ErrInvalidMonth, value)
}

// MonthName returns the Portuguese name of a month.
func MonthName(month time.Month) string {
	return monthNamesPT[month]
}
