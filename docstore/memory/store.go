// Copyright 2026 Google LLC. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package memory provides an in-memory docstore.Store, ordered by root.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/btree"
	"github.com/google/exchangetree/docstore"
	"github.com/google/exchangetree/hexbytes"
	"github.com/google/exchangetree/merkle"
	"k8s.io/klog/v2"
)

const degree = 8

// kv is a simple key->value type which implements btree's Item interface.
type kv struct {
	k    string
	root hexbytes.Bytes
	v    []byte
}

// Less than by k's string key
func (a *kv) Less(b btree.Item) bool {
	return strings.Compare(a.k, b.(*kv).k) < 0
}

func key(root []byte) btree.Item {
	return &kv{k: docstore.Key(root)}
}

// Store is a docstore.Store which keeps encoded documents in a BTree.
type Store struct {
	// mu protects store.
	mu    sync.RWMutex
	store *btree.BTree
}

var (
	_ docstore.Store  = (*Store)(nil)
	_ docstore.Lister = (*Store)(nil)
)

// New returns an empty Store.
func New() *Store {
	return &Store{store: btree.New(degree)}
}

// Put implements docstore.Store.
func (s *Store) Put(ctx context.Context, t *merkle.Tree) (hexbytes.Bytes, error) {
	root, b, err := docstore.Encode(t)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if old := s.store.ReplaceOrInsert(&kv{k: docstore.Key(root), root: root, v: b}); old != nil {
		klog.V(1).Infof("memory: replaced document %v", root)
	}
	return root, nil
}

// Get implements docstore.Store.
func (s *Store) Get(ctx context.Context, root []byte) (*merkle.Tree, error) {
	s.mu.RLock()
	item := s.store.Get(key(root))
	s.mu.RUnlock()
	if item == nil {
		return nil, docstore.ErrNotFound
	}
	return docstore.Decode(item.(*kv).v)
}

// Delete implements docstore.Store.
func (s *Store) Delete(ctx context.Context, root []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store.Delete(key(root)) == nil {
		return docstore.ErrNotFound
	}
	return nil
}

// List returns the roots of all stored documents in ascending order.
func (s *Store) List(ctx context.Context) ([]hexbytes.Bytes, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roots := make([]hexbytes.Bytes, 0, s.store.Len())
	s.store.Ascend(func(i btree.Item) bool {
		if err := ctx.Err(); err != nil {
			return false
		}
		roots = append(roots, i.(*kv).root.Clone())
		return true
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return roots, nil
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Len()
}
