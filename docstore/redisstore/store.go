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

// Package redisstore implements a docstore.Store using Redis.
package redisstore

import (
	"context"
	"time"

	"github.com/go-redis/redis"
	"github.com/google/exchangetree/docstore"
	te "github.com/google/exchangetree/errors"
	"github.com/google/exchangetree/hexbytes"
	"github.com/google/exchangetree/merkle"
	"k8s.io/klog/v2"
)

// DefaultPrefix is prepended to every key unless WithPrefix is given.
const DefaultPrefix = "exchangetree"

// RedisClient is an interface that encompasses the various methods used by
// Store, and allows selecting among different Redis client implementations
// (e.g. regular Redis, Redis Cluster, sharded, etc.)
type RedisClient interface {
	Get(key string) *redis.StringCmd
	Set(key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(keys ...string) *redis.IntCmd
}

// Store keeps encoded documents under "<prefix>/<root hex>".
type Store struct {
	c      RedisClient
	prefix string
	ttl    time.Duration
}

var _ docstore.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithTTL makes stored documents expire after ttl. Zero means no expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// New returns a new Store that uses the provided Redis client.
func New(client RedisClient, opts ...Option) *Store {
	s := &Store{c: client, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) key(root []byte) string {
	return s.prefix + "/" + docstore.Key(root)
}

// Put implements docstore.Store.
func (s *Store) Put(ctx context.Context, t *merkle.Tree) (hexbytes.Bytes, error) {
	root, b, err := docstore.Encode(t)
	if err != nil {
		return nil, err
	}
	client := withClientContext(ctx, s.c)
	if err := client.Set(s.key(root), b, s.ttl).Err(); err != nil {
		return nil, te.Errorf(te.Unavailable, "redisstore: set %v: %v", root, err)
	}
	klog.V(1).Infof("redisstore: stored document %v (%d bytes)", root, len(b))
	return root, nil
}

// Get implements docstore.Store.
func (s *Store) Get(ctx context.Context, root []byte) (*merkle.Tree, error) {
	client := withClientContext(ctx, s.c)
	b, err := client.Get(s.key(root)).Bytes()
	switch {
	case err == redis.Nil:
		return nil, docstore.ErrNotFound
	case err != nil:
		return nil, te.Errorf(te.Unavailable, "redisstore: get %v: %v", hexbytes.Bytes(root), err)
	}
	return docstore.Decode(b)
}

// Delete implements docstore.Store.
func (s *Store) Delete(ctx context.Context, root []byte) error {
	client := withClientContext(ctx, s.c)
	n, err := client.Del(s.key(root)).Result()
	if err != nil {
		return te.Errorf(te.Unavailable, "redisstore: del %v: %v", hexbytes.Bytes(root), err)
	}
	if n == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

// Because each Redis client type in the Go package has a `WithContext` method
// that returns a concrete type, we can't simply put that method in the
// RedisClient interface. This method performs type assertions to try and call
// the `WithContext` method on the appropriate concrete type.
func withClientContext(ctx context.Context, client RedisClient) RedisClient {
	type withContextable interface {
		WithContext(context.Context) RedisClient
	}

	switch c := client.(type) {
	case *redis.Client:
		return c.WithContext(ctx)
	case *redis.ClusterClient:
		return c.WithContext(ctx)
	case *redis.Ring:
		return c.WithContext(ctx)
	case withContextable:
		return c.WithContext(ctx)
	}
	return client
}
