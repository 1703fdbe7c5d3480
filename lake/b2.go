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
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/kothar/go-backblaze"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var ErrBucketNotFound = errors.New("bucket not found")

// B2Store stores partition objects in a Backblaze B2 bucket.
type B2Store struct {
	bucket *backblaze.Bucket
}

// NewB2Store authorizes against Backblaze with the configured application
// credentials and binds to the named bucket.
func NewB2Store(bucketName string) (*B2Store, error) {
	b2, err := backblaze.NewB2(backblaze.Credentials{
		KeyID:          viper.GetString("backblaze.application_id"),
		ApplicationKey: viper.GetString("backblaze.application_key"),
	})
	if err != nil {
		log.Error().Err(err).Str("BucketName", bucketName).Msg("authorize backblaze failed")
		return nil, err
	}

	bucket, err := b2.Bucket(bucketName)
	if err != nil {
		log.Error().Err(err).Str("BucketName", bucketName).Msg("lookup bucket failed")
		return nil, err
	}
	if bucket == nil {
		log.Error().Str("BucketName", bucketName).Msg("bucket does not exist")
		return nil, ErrBucketNotFound
	}

	return &B2Store{bucket: bucket}, nil
}

func (s *B2Store) Put(_ context.Context, key string, body []byte) error {
	file, err := s.bucket.UploadFile(key, nil, bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Str("Key", key).Msg("save object to backblaze failed")
		return err
	}

	log.Info().Str("Key", file.Name).Int64("Size", file.ContentLength).Str("ID", file.ID).Msg("uploaded object to backblaze")
	return nil
}

func (s *B2Store) Get(_ context.Context, key string) ([]byte, error) {
	_, rc, err := s.bucket.DownloadFileByName(key)
	if err != nil {
		log.Error().Err(err).Str("Key", key).Msg("download object from backblaze failed")
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

func (s *B2Store) List(_ context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)

	cursor := prefix
	for {
		resp, err := s.bucket.ListFileNames(cursor, 1000)
		if err != nil {
			log.Error().Err(err).Str("Prefix", prefix).Msg("list objects failed")
			return nil, err
		}

		done := false
		for _, file := range resp.Files {
			if !strings.HasPrefix(file.Name, prefix) {
				done = true
				break
			}

			keys = append(keys, file.Name)
		}

		if done || resp.NextFileName == "" {
			break
		}

		cursor = resp.NextFileName
	}

	return keys, nil
}

func (s *B2Store) Delete(_ context.Context, key string) error {
	if _, err := s.bucket.HideFile(key); err != nil {
		log.Error().Err(err).Str("Key", key).Msg("delete object failed")
		return err
	}

	return nil
}

func (s *B2Store) Exists(ctx context.Context, key string) (bool, error) {
	keys, err := s.List(ctx, key)
	if err != nil {
		return false, err
	}

	for _, candidate := range keys {
		if candidate == key {
			return true, nil
		}
	}

	return false, nil
}
