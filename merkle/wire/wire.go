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

// Package wire converts trees to and from their JSON exchange formats.
//
// Three versions coexist. Version 1.0 documents carry a trailing metadata
// block, 2.0 documents a header naming the algorithm, and 3.0 documents a
// header whose algorithm, leaf count and exchange type are protected by the
// header leaf. Unmarshal detects the version from these markers; property
// names are matched case-insensitively. Marshal always writes camelCase
// names and requires the tree's root to verify.
package wire

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/exchangetree/hexbytes"
	"github.com/google/exchangetree/merkle"
	"github.com/google/exchangetree/merkle/hashers"
	"k8s.io/klog/v2"
)

func malformed(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", merkle.ErrMalformedInput, fmt.Sprintf(format, a...))
}

// DetectVersion returns the version of the document in data.
func DetectVersion(data []byte) (merkle.Version, error) {
	var p probe
	if err := json.Unmarshal(data, &p); err != nil {
		return "", malformed("%v", err)
	}
	switch {
	case p.Metadata != nil:
		return merkle.V1, nil
	case p.Header == nil:
		return "", malformed("document has neither metadata nor header")
	case p.Header.Typ == string(merkle.V2):
		return merkle.V2, nil
	case p.Header.Typ == string(merkle.V3):
		return merkle.V3, nil
	}
	return "", malformed("unknown header typ %q", p.Header.Typ)
}

// Unmarshal parses a document of any supported version into a new tree. The
// root is restored as written; call VerifyRoot before trusting the tree.
func Unmarshal(data []byte) (*merkle.Tree, error) {
	v, err := DetectVersion(data)
	if err != nil {
		return nil, err
	}
	switch v {
	case merkle.V1:
		return unmarshalV1(data)
	case merkle.V2:
		return unmarshalV2(data)
	default:
		return unmarshalV3(data)
	}
}

func unmarshalV1(data []byte) (*merkle.Tree, error) {
	var doc v1Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, malformed("v1 document: %v", err)
	}
	if doc.Metadata.HashAlgorithm == "" {
		return nil, malformed("v1 metadata: missing hashAlgorithm")
	}
	if ver := doc.Metadata.Version; ver != "" && ver != string(merkle.V1) {
		return nil, malformed("v1 metadata: version %q", ver)
	}
	leaves, err := leavesFromRecords(doc.Leaves)
	if err != nil {
		return nil, err
	}
	return restore(merkle.V1, doc.Metadata.HashAlgorithm, "", doc.Root, leaves)
}

func unmarshalV2(data []byte) (*merkle.Tree, error) {
	var doc v2Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, malformed("v2 document: %v", err)
	}
	if doc.Header.Alg == "" {
		return nil, malformed("v2 header: missing alg")
	}
	leaves, err := leavesFromRecords(doc.Leaves)
	if err != nil {
		return nil, err
	}
	return restore(merkle.V2, doc.Header.Alg, "", doc.Root, leaves)
}

func unmarshalV3(data []byte) (*merkle.Tree, error) {
	var doc v3Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, malformed("v3 document: %v", err)
	}
	leaves, err := leavesFromRecords(doc.Leaves)
	if err != nil {
		return nil, err
	}
	if len(leaves) == 0 {
		return nil, malformed("v3 document has no header leaf")
	}
	first, hdr, err := merkle.ParseHeaderLeaf(leaves[0], len(leaves))
	if err != nil {
		return nil, err
	}
	leaves[0] = first
	exchange := hdr.Exchange
	if exchange == merkle.UnspecifiedExchange {
		exchange = ""
	}
	return restore(merkle.V3, hdr.Alg, exchange, doc.Root, leaves)
}

func restore(v merkle.Version, alg, exchange string, root hexbytes.Bytes, leaves []*merkle.Leaf) (*merkle.Tree, error) {
	t := merkle.NewTree(v, merkle.WithAlgorithm(alg), merkle.WithExchangeType(exchange))
	if err := t.AddLeaves(leaves...); err != nil {
		return nil, err
	}
	t.SetRoot(root)
	klog.V(2).Infof("wire: restored v%s tree of %d leaves, alg %s", v, len(leaves), alg)
	return t, nil
}

func leavesFromRecords(recs []leafRecord) ([]*merkle.Leaf, error) {
	leaves := make([]*merkle.Leaf, 0, len(recs))
	for i, r := range recs {
		data, err := decodeData(r.Data)
		if err != nil {
			return nil, malformed("leaf %d: data: %v", i, err)
		}
		switch {
		case len(data) == 0 && len(r.Salt) == 0 && len(r.Hash) == 0:
			return nil, malformed("leaf %d has neither data nor hash", i)
		case len(data) == 0 && len(r.Salt) == 0 && r.ContentType == "":
			leaves = append(leaves, merkle.NewPrivateLeaf(r.Hash))
		default:
			leaves = append(leaves, merkle.RestoreLeaf(r.ContentType, data, r.Salt, r.Hash))
		}
	}
	return leaves, nil
}

// decodeData reads a leaf data field: 0x-prefixed values are hex, anything
// else is taken as UTF-8 text.
func decodeData(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, hexbytes.Prefix) {
		return hexbytes.Parse(s, hexbytes.AllowEmpty())
	}
	return []byte(s), nil
}

type marshalOptions struct {
	h    hashers.HashFunc
	hide merkle.HideFunc
}

// MarshalOption configures Marshal.
type MarshalOption func(*marshalOptions)

// WithHashFunc verifies the tree with h instead of the registered
// implementation of its declared algorithm.
func WithHashFunc(h hashers.HashFunc) MarshalOption {
	return func(o *marshalOptions) { o.h = h }
}

// WithDisclosure writes leaves selected by hide in private form. The header
// leaf is always written in full.
func WithDisclosure(hide merkle.HideFunc) MarshalOption {
	return func(o *marshalOptions) { o.hide = hide }
}

// Marshal renders t in its declared version. It fails with an
// *merkle.InvalidRootError, writing nothing, if the stored root does not
// match the leaves.
func Marshal(t *merkle.Tree, opts ...MarshalOption) ([]byte, error) {
	if t == nil {
		return nil, merkle.ErrNilArgument
	}
	var o marshalOptions
	for _, opt := range opts {
		opt(&o)
	}
	h := o.h
	if h == nil {
		var err error
		if h, err = hashers.Lookup(t.Algorithm()); err != nil {
			return nil, err
		}
	}
	if err := t.CheckRoot(h); err != nil {
		return nil, err
	}
	recs := records(t, h, o.hide)
	switch t.Version() {
	case merkle.V1:
		return json.Marshal(v1Document{
			Root:     t.Root(),
			Leaves:   recs,
			Metadata: &v1Metadata{HashAlgorithm: t.Algorithm(), Version: string(merkle.V1)},
		})
	case merkle.V2:
		return json.Marshal(v2Document{
			Header: &v2Header{Alg: t.Algorithm(), Typ: string(merkle.V2)},
			Root:   t.Root(),
			Leaves: recs,
		})
	case merkle.V3:
		if t.Len() == 0 || !t.Leaf(0).IsHeader() {
			return nil, merkle.ErrNoHeader
		}
		return json.Marshal(v3Document{
			Header: &v3Header{Typ: string(merkle.V3)},
			Root:   t.Root(),
			Leaves: recs,
		})
	}
	return nil, fmt.Errorf("%w %q", merkle.ErrUnknownVersion, t.Version())
}

func records(t *merkle.Tree, h hashers.HashFunc, hide merkle.HideFunc) []leafRecord {
	recs := make([]leafRecord, t.Len())
	for i, l := range t.Leaves() {
		hash := l.Hash()
		if len(hash) == 0 {
			hash = merkle.HashLeaf(h, l.Data(), l.Salt())
		}
		hidden := l.IsPrivate() || (!l.IsHeader() && hide != nil && hide(i, l))
		if hidden {
			recs[i] = leafRecord{Hash: hash}
			continue
		}
		recs[i] = leafRecord{
			Data:        l.Data().String(),
			Salt:        l.Salt(),
			Hash:        hash,
			ContentType: l.ContentType(),
		}
	}
	return recs
}
