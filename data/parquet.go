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
package data

import (
	"github.com/rs/zerolog/log"
	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

// Parquet serializes the table into an in-memory Parquet blob suitable for
// a single partition object.
func (t *Table) Parquet() ([]byte, error) {
	fh := buffer.NewBufferFile()

	pw, err := writer.NewParquetWriter(fh, new(Row), 4)
	if err != nil {
		log.Error().Err(err).Msg("could not create parquet writer")
		return nil, err
	}

	pw.RowGroupSize = 128 * 1024 * 1024 // 128M
	pw.PageSize = 8 * 1024              // 8k
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range t.rows {
		if err := pw.Write(row); err != nil {
			log.Error().Err(err).Str("Date", row.Date).Str("Ticker", row.Ticker).Msg("parquet write failed for row")
			return nil, err
		}
	}

	if err := pw.WriteStop(); err != nil {
		log.Error().Err(err).Msg("parquet write failed")
		return nil, err
	}

	if err := fh.Close(); err != nil {
		return nil, err
	}

	return fh.Bytes(), nil
}

// FromParquet decodes a partition object back into a table.
func FromParquet(raw []byte) (*Table, error) {
	fh := buffer.NewBufferFileFromBytes(raw)

	pr, err := reader.NewParquetReader(fh, new(Row), 4)
	if err != nil {
		log.Error().Err(err).Msg("could not create parquet reader")
		return nil, err
	}
	defer pr.ReadStop()

	rows := make([]Row, pr.GetNumRows())
	if err := pr.Read(&rows); err != nil {
		log.Error().Err(err).Msg("parquet read failed")
		return nil, err
	}

	tbl := NewTable()
	for i := range rows {
		tbl.Append(&rows[i])
	}

	return tbl, nil
}
