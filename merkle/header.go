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
	"encoding/json"
	"fmt"

	"github.com/google/exchangetree/merkle/hashers"
)

const (
	// HeaderContentType tags the structural header leaf of a v3 tree.
	HeaderContentType = "application/vnd.exchangetree.header+json; version=3.0"
	// HeaderType is the fixed typ marker carried by every header leaf.
	HeaderType = "exchangetree-header"
	// UnspecifiedExchange is recorded when a v3 tree declares no exchange type.
	UnspecifiedExchange = "unspecified"
)

// Header is the payload of a v3 header leaf. It binds the hash algorithm,
// the total number of leaves (itself included) and the exchange document
// type into the hashed structure.
type Header struct {
	Alg      string `json:"alg"`
	Typ      string `json:"typ"`
	Leaves   int    `json:"leaves"`
	Exchange string `json:"exchange"`
}

// NewHeaderLeaf returns a header leaf for a tree of leafCount leaves, the
// header included. Header leaves carry no salt.
func NewHeaderLeaf(h hashers.HashFunc, alg string, leafCount int, exchange string) (*Leaf, error) {
	if exchange == "" {
		exchange = UnspecifiedExchange
	}
	data, err := json.Marshal(Header{Alg: alg, Typ: HeaderType, Leaves: leafCount, Exchange: exchange})
	if err != nil {
		return nil, fmt.Errorf("encoding header leaf: %v", err)
	}
	l := NewLeaf(h, HeaderContentType, data, nil)
	l.header = true
	return l, nil
}

// ParseHeaderLeaf checks that l is a valid header leaf for a tree of
// leafCount leaves and returns its payload together with a copy of l marked
// as the header. Failures wrap ErrMalformedInput.
func ParseHeaderLeaf(l *Leaf, leafCount int) (*Leaf, *Header, error) {
	if l == nil {
		return nil, nil, malformedf("missing header leaf")
	}
	if l.private || len(l.data) == 0 {
		return nil, nil, malformedf("header leaf has no payload")
	}
	var raw struct {
		Alg      *string `json:"alg"`
		Typ      *string `json:"typ"`
		Leaves   *int    `json:"leaves"`
		Exchange *string `json:"exchange"`
	}
	if err := json.Unmarshal(l.data, &raw); err != nil {
		return nil, nil, malformedf("header leaf: %v", err)
	}
	switch {
	case raw.Alg == nil || *raw.Alg == "":
		return nil, nil, malformedf("header leaf: missing alg")
	case raw.Typ == nil:
		return nil, nil, malformedf("header leaf: missing typ")
	case *raw.Typ != HeaderType:
		return nil, nil, malformedf("header leaf: typ %q, want %q", *raw.Typ, HeaderType)
	case raw.Exchange == nil:
		return nil, nil, malformedf("header leaf: missing exchange")
	case raw.Leaves == nil:
		return nil, nil, malformedf("header leaf: missing leaves")
	case *raw.Leaves != leafCount:
		return nil, nil, malformedf("header leaf declares %d leaves, document has %d", *raw.Leaves, leafCount)
	}
	hdr := &Header{Alg: *raw.Alg, Typ: *raw.Typ, Leaves: *raw.Leaves, Exchange: *raw.Exchange}
	c := l.clone()
	c.header = true
	return c, hdr, nil
}
