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

// HideFunc selects leaves to withhold. i is the leaf's position in the tree.
type HideFunc func(i int, l *Leaf) bool

// HideIndices hides the leaves at the given positions.
func HideIndices(indices ...int) HideFunc {
	set := make(map[int]bool, len(indices))
	for _, i := range indices {
		set[i] = true
	}
	return func(i int, _ *Leaf) bool { return set[i] }
}

// HideContentTypes hides leaves carrying any of the given content types.
func HideContentTypes(types ...string) HideFunc {
	set := make(map[string]bool, len(types))
	for _, ct := range types {
		set[ct] = true
	}
	return func(_ int, l *Leaf) bool { return set[l.contentType] }
}

// Disclose returns a new tree in which every leaf selected by hide, or
// already private, is replaced by its private form. The header leaf is
// always kept in full. The new root is rebuilt from the known leaf hashes
// with h, so it equals the root of t whenever t verifies. t is not modified.
func (t *Tree) Disclose(h hashers.HashFunc, hide HideFunc) (*Tree, error) {
	if h == nil || hide == nil {
		return nil, ErrNilArgument
	}
	if len(t.root) == 0 {
		return nil, ErrNoRoot
	}
	d := &Tree{version: t.version, algorithm: t.algorithm, exchangeType: t.exchangeType}
	d.leaves = make([]*Leaf, len(t.leaves))
	for i, l := range t.leaves {
		switch {
		case l.header:
			d.leaves[i] = l.clone()
		case l.private || hide(i, l):
			d.leaves[i] = l.redacted(h)
		default:
			d.leaves[i] = l.clone()
		}
	}
	if _, err := d.recompute(h, t.algorithm, false); err != nil {
		return nil, err
	}
	return d, nil
}

// DiscloseKeys returns a new tree revealing only the JSON leaves whose keys
// include one of keep. Every other leaf, apart from the header leaf, is made
// private. A revealed leaf that is not a JSON object fails the whole
// operation with a *NonJSONLeafError.
func (t *Tree) DiscloseKeys(h hashers.HashFunc, keep ...string) (*Tree, error) {
	keepSet := make(map[string]bool, len(keep))
	for _, k := range keep {
		keepSet[k] = true
	}
	var hidden []int
	for i, l := range t.leaves {
		if l.header || l.private {
			continue
		}
		fields, err := l.JSONFields()
		if err != nil {
			return nil, &NonJSONLeafError{Index: i, Err: err}
		}
		reveal := false
		for k := range fields {
			if keepSet[k] {
				reveal = true
				break
			}
		}
		if !reveal {
			hidden = append(hidden, i)
		}
	}
	return t.Disclose(h, HideIndices(hidden...))
}
