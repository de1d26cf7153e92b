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

package merkle

import (
	"github.com/google/exchangetree/merkle/hashers"
)

// HashChildren returns the interior node hash h(l || r).
func HashChildren(h hashers.HashFunc, l, r []byte) []byte {
	buf := make([]byte, 0, len(l)+len(r))
	buf = append(buf, l...)
	buf = append(buf, r...)
	return h(buf)
}

// LeafHashes returns the hash each leaf contributes to the root, in order.
// Private leaves contribute their stored hash. Revealed leaves are rehashed,
// and the first one whose stored hash disagrees aborts with an
// *InvalidLeafHashError.
func LeafHashes(leaves []*Leaf, h hashers.HashFunc) ([][]byte, error) {
	hashes := make([][]byte, len(leaves))
	for i, l := range leaves {
		lh, err := l.hashFor(h)
		if err != nil {
			if e, ok := err.(*InvalidLeafHashError); ok {
				e.Index = i
			}
			return nil, err
		}
		hashes[i] = lh
	}
	return hashes, nil
}

// ReduceHashes combines hashes pairwise, left to right, until one remains.
// On a level with an odd number of entries the last one is combined with
// itself. A single hash is returned unchanged and no hashes give an empty
// root.
func ReduceHashes(hashes [][]byte, h hashers.HashFunc) []byte {
	switch len(hashes) {
	case 0:
		return []byte{}
	case 1:
		return hashes[0]
	}
	next := make([][]byte, 0, (len(hashes)+1)/2)
	for i := 0; i < len(hashes); i += 2 {
		r := hashes[i]
		if i+1 < len(hashes) {
			r = hashes[i+1]
		}
		next = append(next, HashChildren(h, hashes[i], r))
	}
	return ReduceHashes(next, h)
}

// ComputeRoot returns the root of leaves under h.
func ComputeRoot(leaves []*Leaf, h hashers.HashFunc) ([]byte, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyTree
	}
	if h == nil {
		return nil, ErrNilArgument
	}
	hashes, err := LeafHashes(leaves, h)
	if err != nil {
		return nil, err
	}
	return ReduceHashes(hashes, h), nil
}
