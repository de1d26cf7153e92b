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

// Package docstore defines storage for verified exchange documents, keyed by
// their Merkle root.
package docstore

import (
	"context"
	"fmt"

	te "github.com/google/exchangetree/errors"
	"github.com/google/exchangetree/hexbytes"
	"github.com/google/exchangetree/merkle"
	"github.com/google/exchangetree/merkle/wire"
)

// ErrNotFound is returned when no document is stored under a root.
var ErrNotFound = te.New(te.NotFound, "docstore: document not found")

// Store holds documents keyed by root. Only trees whose stored root verifies
// under their declared algorithm can be stored.
type Store interface {
	// Put stores t and returns the root it is keyed by. Storing the same
	// root twice replaces the earlier document.
	Put(ctx context.Context, t *merkle.Tree) (hexbytes.Bytes, error)
	// Get returns the document stored under root, or ErrNotFound.
	Get(ctx context.Context, root []byte) (*merkle.Tree, error)
	// Delete removes the document stored under root, or returns ErrNotFound.
	Delete(ctx context.Context, root []byte) error
}

// Lister is implemented by stores that can enumerate what they hold.
type Lister interface {
	// List returns the roots of all stored documents in ascending order.
	List(ctx context.Context) ([]hexbytes.Bytes, error)
}

// Encode checks t and returns its root together with its wire encoding.
// Trees without a root cannot be keyed and are rejected.
func Encode(t *merkle.Tree) (hexbytes.Bytes, []byte, error) {
	if t == nil {
		return nil, nil, merkle.ErrNilArgument
	}
	if len(t.Root()) == 0 {
		return nil, nil, fmt.Errorf("docstore: %w", merkle.ErrNoRoot)
	}
	b, err := wire.Marshal(t)
	if err != nil {
		return nil, nil, err
	}
	return t.Root().Clone(), b, nil
}

// Decode parses a document previously produced by Encode.
func Decode(b []byte) (*merkle.Tree, error) {
	t, err := wire.Unmarshal(b)
	if err != nil {
		return nil, te.Errorf(te.DataLoss, "docstore: stored document: %w", err)
	}
	return t, nil
}

// Key returns the canonical string form of root used as a storage key.
func Key(root []byte) string {
	return hexbytes.Bytes(root).String()
}
