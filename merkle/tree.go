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
	"bytes"
	"fmt"

	"github.com/google/exchangetree/hexbytes"
	"github.com/google/exchangetree/merkle/hashers"
	"k8s.io/klog/v2"
)

// Version identifies the wire format a tree is exchanged in.
type Version string

// Supported versions.
const (
	V1 Version = "1.0"
	V2 Version = "2.0"
	V3 Version = "3.0"
)

// Valid reports whether v is a supported version.
func (v Version) Valid() bool {
	switch v {
	case V1, V2, V3:
		return true
	}
	return false
}

// Tree is an ordered sequence of leaves committed to by a root hash.
//
// A tree is either unrooted, while leaves are being appended, or rooted once
// RecomputeRoot has committed a root that matches its leaves. Appending
// leaves does not update the root; only RecomputeRoot and SetRoot change it.
// Export requires the tree to be rooted.
//
// A Tree is not safe for concurrent mutation. Disclose, DiscloseKeys and
// Convert return independent trees.
type Tree struct {
	leaves       []*Leaf
	root         hexbytes.Bytes
	version      Version
	algorithm    string
	exchangeType string
}

// TreeOption configures NewTree.
type TreeOption func(*Tree)

// WithAlgorithm sets the declared hash algorithm. It defaults to SHA256.
func WithAlgorithm(name string) TreeOption {
	return func(t *Tree) { t.algorithm = name }
}

// WithExchangeType sets the exchange document type, which v3 trees bind
// into their header leaf.
func WithExchangeType(typ string) TreeOption {
	return func(t *Tree) { t.exchangeType = typ }
}

// NewTree returns an empty, unrooted tree of version v.
func NewTree(v Version, opts ...TreeOption) *Tree {
	t := &Tree{version: v, algorithm: hashers.SHA256}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Version returns the declared wire version.
func (t *Tree) Version() Version { return t.version }

// Algorithm returns the declared hash algorithm name.
func (t *Tree) Algorithm() string { return t.algorithm }

// ExchangeType returns the declared exchange document type, or "".
func (t *Tree) ExchangeType() string { return t.exchangeType }

// SetExchangeType changes the declared exchange document type. On v3 trees
// the header leaf reflects it after the next RecomputeRoot.
func (t *Tree) SetExchangeType(typ string) { t.exchangeType = typ }

// Root returns the last committed root, empty until one is computed.
func (t *Tree) Root() hexbytes.Bytes { return t.root }

// SetRoot replaces the stored root without checking it, as done when
// restoring an exchanged document. Use VerifyRoot before trusting it.
func (t *Tree) SetRoot(root []byte) { t.root = hexbytes.Bytes(root).Clone() }

// Len returns the number of leaves, including any header leaf.
func (t *Tree) Len() int { return len(t.leaves) }

// Leaves returns the leaves in order. The slice is a copy; the leaves are
// shared and must not be modified.
func (t *Tree) Leaves() []*Leaf {
	return append([]*Leaf(nil), t.leaves...)
}

// Leaf returns the i'th leaf.
func (t *Tree) Leaf(i int) *Leaf { return t.leaves[i] }

// AddLeaf appends l.
func (t *Tree) AddLeaf(l *Leaf) error {
	if l == nil {
		return ErrNilArgument
	}
	t.leaves = append(t.leaves, l)
	return nil
}

// AddLeaves appends ls in order. Nothing is appended if any of them is nil.
func (t *Tree) AddLeaves(ls ...*Leaf) error {
	for _, l := range ls {
		if l == nil {
			return ErrNilArgument
		}
	}
	t.leaves = append(t.leaves, ls...)
	return nil
}

// AddData appends a revealed leaf committing to data and salt.
func (t *Tree) AddData(h hashers.HashFunc, contentType string, data, salt []byte) (*Leaf, error) {
	if h == nil {
		return nil, ErrNilArgument
	}
	l := NewLeaf(h, contentType, data, salt)
	t.leaves = append(t.leaves, l)
	return l, nil
}

// AddJSONField appends a revealed leaf holding {name: value}.
func (t *Tree) AddJSONField(h hashers.HashFunc, name string, value interface{}, opts ...LeafOption) (*Leaf, error) {
	if h == nil {
		return nil, ErrNilArgument
	}
	l, err := NewJSONLeaf(h, name, value, opts...)
	if err != nil {
		return nil, err
	}
	t.leaves = append(t.leaves, l)
	return l, nil
}

// AddPrivate appends a private leaf carrying only hash.
func (t *Tree) AddPrivate(hash []byte) (*Leaf, error) {
	if len(hash) == 0 {
		return nil, ErrNilArgument
	}
	l := NewPrivateLeaf(hash)
	t.leaves = append(t.leaves, l)
	return l, nil
}

// RecomputeRoot sets the declared algorithm to alg, recomputes the root with
// h and stores it. On v3 trees the header leaf is rebuilt first, so it binds
// the current algorithm, leaf count and exchange type.
//
// Nothing is changed if the computation fails, for example with an
// *InvalidLeafHashError.
func (t *Tree) RecomputeRoot(h hashers.HashFunc, alg string) (hexbytes.Bytes, error) {
	return t.recompute(h, alg, true)
}

// RecomputeSHA256Root is RecomputeRoot with the built-in SHA256.
func (t *Tree) RecomputeSHA256Root() (hexbytes.Bytes, error) {
	return t.RecomputeRoot(hashers.SHA256Func, hashers.SHA256)
}

func (t *Tree) recompute(h hashers.HashFunc, alg string, forceHeader bool) (hexbytes.Bytes, error) {
	if len(t.leaves) == 0 {
		return nil, ErrEmptyTree
	}
	if h == nil {
		return nil, ErrNilArgument
	}
	leaves := t.leaves
	if t.version == V3 {
		var err error
		if leaves, err = t.withHeader(h, alg, forceHeader); err != nil {
			return nil, err
		}
	}
	root, err := ComputeRoot(leaves, h)
	if err != nil {
		return nil, err
	}
	t.leaves = leaves
	t.algorithm = alg
	t.root = hexbytes.Bytes(root).Clone()
	return t.root, nil
}

// withHeader returns the leaves of t with a header leaf at position 0,
// synthesizing one if there is none or if force is set.
func (t *Tree) withHeader(h hashers.HashFunc, alg string, force bool) ([]*Leaf, error) {
	leaves := t.leaves
	hasHeader := len(leaves) > 0 && leaves[0].header
	if hasHeader && !force {
		return leaves, nil
	}
	if hasHeader {
		leaves = leaves[1:]
	}
	hdr, err := NewHeaderLeaf(h, alg, len(leaves)+1, t.exchangeType)
	if err != nil {
		return nil, err
	}
	klog.V(2).Infof("merkle: header leaf for %d leaves, alg %s, exchange %q", len(leaves)+1, alg, t.exchangeType)
	return append([]*Leaf{hdr}, leaves...), nil
}

// CheckRoot returns nil if the stored root matches the leaves under h, and
// an *InvalidRootError otherwise. An empty tree matches an empty root.
func (t *Tree) CheckRoot(h hashers.HashFunc) error {
	if h == nil {
		return ErrNilArgument
	}
	if len(t.leaves) == 0 {
		if len(t.root) == 0 {
			return nil
		}
		return &InvalidRootError{Stored: t.root.Clone(), Err: ErrEmptyTree}
	}
	computed, err := ComputeRoot(t.leaves, h)
	if err != nil {
		return &InvalidRootError{Stored: t.root.Clone(), Err: err}
	}
	if !bytes.Equal(computed, t.root) {
		return &InvalidRootError{Stored: t.root.Clone(), Computed: computed}
	}
	return nil
}

// VerifyRoot reports whether the stored root matches the leaves under h. It
// never modifies the tree; on v3 trees a missing header leaf is not added.
func (t *Tree) VerifyRoot(h hashers.HashFunc) bool {
	if err := t.CheckRoot(h); err != nil {
		klog.V(1).Infof("merkle: root verification failed: %v", err)
		return false
	}
	return true
}

// VerifySHA256Root is VerifyRoot with the built-in SHA256.
func (t *Tree) VerifySHA256Root() bool {
	return t.VerifyRoot(hashers.SHA256Func)
}

// Convert returns a copy of t in version v with its root recomputed under h.
// Converting to v3 adds a header leaf; converting away from v3 drops it.
func (t *Tree) Convert(h hashers.HashFunc, v Version) (*Tree, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w %q", ErrUnknownVersion, v)
	}
	c := &Tree{version: v, algorithm: t.algorithm, exchangeType: t.exchangeType}
	for _, l := range t.leaves {
		if l.header {
			continue
		}
		c.leaves = append(c.leaves, l.clone())
	}
	if _, err := c.RecomputeRoot(h, t.algorithm); err != nil {
		return nil, err
	}
	return c, nil
}
