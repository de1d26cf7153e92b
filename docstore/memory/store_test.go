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

package memory

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/exchangetree/docstore"
	"github.com/google/exchangetree/hexbytes"
	"github.com/google/exchangetree/merkle"
	"github.com/google/exchangetree/testonly/sample"
	"github.com/stretchr/testify/require"
)

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	tr := sample.MustTree(merkle.V3, "invoice")

	root, err := s.Put(ctx, tr)
	require.NoError(t, err)
	require.Equal(t, sample.PersonV3InvoiceRoot, root.String())
	require.Equal(t, 1, s.Len())

	got, err := s.Get(ctx, root)
	require.NoError(t, err)
	require.True(t, got.VerifySHA256Root())
	require.Equal(t, "invoice", got.ExchangeType())
	require.Equal(t, tr.Len(), got.Len())

	require.NoError(t, s.Delete(ctx, root))
	_, err = s.Get(ctx, root)
	require.True(t, errors.Is(err, docstore.ErrNotFound), "Get after Delete: %v", err)
	require.True(t, errors.Is(s.Delete(ctx, root), docstore.ErrNotFound))
}

func TestPutReplaces(t *testing.T) {
	ctx := context.Background()
	s := New()
	tr := sample.MustTree(merkle.V1, "")
	for i := 0; i < 2; i++ {
		_, err := s.Put(ctx, tr)
		require.NoError(t, err)
	}
	require.Equal(t, 1, s.Len())
}

func TestPutRejects(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Put(ctx, merkle.NewTree(merkle.V1))
	require.True(t, errors.Is(err, merkle.ErrNoRoot), "Put(unrooted): %v", err)

	bad := sample.MustTree(merkle.V2, "")
	bad.SetRoot(hexbytes.MustParse("0x01"))
	_, err = s.Put(ctx, bad)
	var rootErr *merkle.InvalidRootError
	require.True(t, errors.As(err, &rootErr), "Put(bad root): %v", err)

	_, err = s.Put(ctx, nil)
	require.True(t, errors.Is(err, merkle.ErrNilArgument))
	require.Equal(t, 0, s.Len())
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := New()
	var want []string
	for _, v := range []merkle.Version{merkle.V1, merkle.V3} {
		for _, exchange := range []string{"", "invoice", "order"} {
			root, err := s.Put(ctx, sample.MustTree(v, exchange))
			require.NoError(t, err)
			want = append(want, root.String())
		}
	}
	// v1 ignores the exchange type, so its three trees share one root.
	want = dedupe(want)
	sort.Strings(want)

	roots, err := s.List(ctx)
	require.NoError(t, err)
	got := make([]string, len(roots))
	for i, r := range roots {
		got[i] = r.String()
	}
	require.Equal(t, want, got)
	require.True(t, sort.SliceIsSorted(roots, func(i, j int) bool { return bytes.Compare(roots[i], roots[j]) < 0 }))
}

func TestListCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New()
	_, err := s.Put(ctx, sample.MustTree(merkle.V1, ""))
	require.NoError(t, err)
	cancel()
	_, err = s.List(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
