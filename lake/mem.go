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
	"sort"
	"strings"

	"github.com/alphadose/haxmap"
)

// MemStore is an in-memory ObjectStore used for dry runs and tests.
// Concurrent overwrites of the same key follow last-writer-wins, matching
// the semantics of the real store.
type MemStore struct {
	objects *haxmap.Map[string, []byte]
}

func NewMemStore() *MemStore {
	return &MemStore{objects: haxmap.New[string, []byte]()}
}

func (s *MemStore) Put(_ context.Context, key string, body []byte) error {
	s.objects.Set(key, append([]byte(nil), body...))
	return nil
}

func (s *MemStore) Get(_ context.Context, key string) ([]byte, error) {
	body, ok := s.objects.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrObjectNotFound, key)
	}

	return body, nil
}

func (s *MemStore) List(_ context.Context, prefix string) ([]string, error) {
	keys := make([]string, 0)
	s.objects.ForEach(func(key string, _ []byte) bool {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}

		return true
	})

	sort.Strings(keys)
	return keys, nil
}

func (s *MemStore) Delete(_ context.Context, key string) error {
	s.objects.Del(key)
	return nil
}

func (s *MemStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := s.objects.Get(key)
	return ok, nil
}
