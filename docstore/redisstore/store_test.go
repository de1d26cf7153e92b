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

package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis"
	"github.com/google/exchangetree/docstore"
	te "github.com/google/exchangetree/errors"
	"github.com/google/exchangetree/merkle"
	"github.com/google/exchangetree/merkle/wire"
	"github.com/google/exchangetree/testonly/sample"
	"github.com/stretchr/testify/mock"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) Get(key string) *redis.StringCmd {
	args := m.Called(key)
	return args.Get(0).(*redis.StringCmd)
}

func (m *mockClient) Set(key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(key, value, expiration)
	return args.Get(0).(*redis.StatusCmd)
}

func (m *mockClient) Del(keys ...string) *redis.IntCmd {
	args := m.Called(keys)
	return args.Get(0).(*redis.IntCmd)
}

func TestPut(t *testing.T) {
	ctx := context.Background()
	tr := sample.MustTree(merkle.V2, "")
	want, err := wire.Marshal(tr)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	c := &mockClient{}
	c.On("Set", "docs/"+sample.PersonV1Root, want, time.Hour).Return(redis.NewStatusResult("OK", nil))
	s := New(c, WithPrefix("docs"), WithTTL(time.Hour))

	root, err := s.Put(ctx, tr)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if got, want := root.String(), sample.PersonV1Root; got != want {
		t.Errorf("Put() = %s, want %s", got, want)
	}
	c.AssertExpectations(t)
}

func TestPutErrors(t *testing.T) {
	ctx := context.Background()
	c := &mockClient{}
	c.On("Set", mock.Anything, mock.Anything, time.Duration(0)).Return(redis.NewStatusResult("", errors.New("connection refused")))
	s := New(c)

	_, err := s.Put(ctx, sample.MustTree(merkle.V1, ""))
	if got, want := te.CodeOf(err), te.Unavailable; got != want {
		t.Errorf("Put(down) code = %v, want %v (%v)", got, want, err)
	}

	// Unrooted trees never reach Redis.
	if _, err := s.Put(ctx, merkle.NewTree(merkle.V1)); !errors.Is(err, merkle.ErrNoRoot) {
		t.Errorf("Put(unrooted) = %v, want ErrNoRoot", err)
	}
	c.AssertNumberOfCalls(t, "Set", 1)
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	tr := sample.MustTree(merkle.V3, "invoice")
	b, err := wire.Marshal(tr)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	key := DefaultPrefix + "/" + sample.PersonV3InvoiceRoot

	for _, tc := range []struct {
		desc     string
		result   *redis.StringCmd
		wantErr  error
		wantCode te.Code
	}{
		{desc: "found", result: redis.NewStringResult(string(b), nil)},
		{desc: "missing", result: redis.NewStringResult("", redis.Nil), wantErr: docstore.ErrNotFound, wantCode: te.NotFound},
		{desc: "down", result: redis.NewStringResult("", errors.New("i/o timeout")), wantCode: te.Unavailable},
		{desc: "corrupt", result: redis.NewStringResult(`{"root":`, nil), wantErr: merkle.ErrMalformedInput, wantCode: te.DataLoss},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			c := &mockClient{}
			c.On("Get", key).Return(tc.result)
			s := New(c)

			got, err := s.Get(ctx, tr.Root())
			if gotCode := te.CodeOf(err); gotCode != tc.wantCode {
				t.Fatalf("Get() code = %v, want %v (%v)", gotCode, tc.wantCode, err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("Get() = %v, want %v", err, tc.wantErr)
			}
			if err == nil && !got.VerifySHA256Root() {
				t.Error("Get() returned a tree that does not verify")
			}
			c.AssertExpectations(t)
		})
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	root := sample.MustTree(merkle.V1, "").Root()
	key := DefaultPrefix + "/" + sample.PersonV1Root

	for _, tc := range []struct {
		desc     string
		result   *redis.IntCmd
		wantCode te.Code
	}{
		{desc: "deleted", result: redis.NewIntResult(1, nil), wantCode: te.OK},
		{desc: "missing", result: redis.NewIntResult(0, nil), wantCode: te.NotFound},
		{desc: "down", result: redis.NewIntResult(0, errors.New("EOF")), wantCode: te.Unavailable},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			c := &mockClient{}
			c.On("Del", []string{key}).Return(tc.result)
			s := New(c)
			if got := te.CodeOf(s.Delete(ctx, root)); got != tc.wantCode {
				t.Errorf("Delete() code = %v, want %v", got, tc.wantCode)
			}
			c.AssertExpectations(t)
		})
	}
}
