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
package lake

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xeonx/timeago"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/aerolake/b3data/calendar"
	"github.com/aerolake/b3data/partition"
)

// Summarize returns a markdown description of the partitions landed under
// the raw prefix of a bucket.
func Summarize(ctx context.Context, store ObjectStore, bucket, prefix string) (string, error) {
	p := message.NewPrinter(language.English)
	builder := strings.Builder{}

	prefix = partition.NormalizePrefix(prefix)

	keys, err := store.List(ctx, prefix+"/")
	if err != nil {
		return "", err
	}

	dates := make([]time.Time, 0, len(keys))
	for _, key := range keys {
		dt, err := partition.ParseDate(key)
		if err != nil {
			// non-partition objects under the prefix are ignored
			continue
		}

		dates = append(dates, dt)
	}

	builder.WriteString(fmt.Sprintf("# s3://%s/%s\n\n", bucket, prefix))
	builder.WriteString("## Details\n\n")
	builder.WriteString(p.Sprintf("  * Objects: %d\n", len(keys)))
	builder.WriteString(p.Sprintf("  * Partitions: %d\n\n", len(dates)))

	if len(dates) == 0 {
		builder.WriteString("Last Partition: Never\n")
		return builder.String(), nil
	}

	first, last := dates[0], dates[0]
	for _, dt := range dates[1:] {
		if dt.Before(first) {
			first = dt
		}
		if dt.After(last) {
			last = dt
		}
	}

	builder.WriteString(fmt.Sprintf("First Partition: %s\n\n", first.Format(calendar.DateLayout)))
	builder.WriteString(fmt.Sprintf("Last Partition: %s (%s)\n", last.Format(calendar.DateLayout), timeago.English.Format(last)))

	return builder.String(), nil
}
