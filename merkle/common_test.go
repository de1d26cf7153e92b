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
	"testing"

	"github.com/google/exchangetree/merkle/hashers"
	"github.com/google/exchangetree/testonly"
)

// Hashes of the sample leaves below, salted with a testonly.SaltReader
// seeded at 0 and consumed in order.
const (
	// sha256('{"name":"John"}' || 00 01 .. 1f)
	johnHash  = "b8be8b48c9f60b03fcfde1b92d52aec0bc01afb93fe6f2d9c3aef1336ce95ab4"
	ageHash   = "b89f35658dbb3e20fda78bad6003d0ef263e97a5a8f0d521dfd1e3921d445210"
	emailHash = "0eeb6800223803f0f0193e390a34aa3ea0431e1cfcefcc6e91ff10ae261c22ed"

	// H(H(john || age) || H(email || email))
	threeLeafRoot = "6d0223c7e288c64e7c9226d64b18abec01ff80b73a05c8dd32bb2153bc50b5d9"
	// Header {"alg":"SHA256","typ":"exchangetree-header","leaves":4,"exchange":"invoice"}
	invoiceHeaderHash = "adaffbaa9b2e98e8bbd8f27c4b804a6991bc64d1dc61255d8140f836c7422ff0"
	// H(H(header || john) || H(age || email))
	invoiceV3Root = "e93f24211d620b5c7a884d093f11d43f26cd8962fc9af4cc56fe38b99dbbf146"
)

func sampleLeaves(t *testing.T) []*Leaf {
	t.Helper()
	r := testonly.NewSaltReader(0)
	var leaves []*Leaf
	for _, f := range []struct {
		name  string
		value interface{}
	}{
		{"name", "John"},
		{"age", 42},
		{"email", "john@example.com"},
	} {
		l, err := NewJSONLeaf(hashers.SHA256Func, f.name, f.value, WithSaltSource(r))
		if err != nil {
			t.Fatalf("NewJSONLeaf(%s): %v", f.name, err)
		}
		leaves = append(leaves, l)
	}
	return leaves
}

func sampleTree(t *testing.T, v Version, opts ...TreeOption) *Tree {
	t.Helper()
	tr := NewTree(v, opts...)
	if err := tr.AddLeaves(sampleLeaves(t)...); err != nil {
		t.Fatalf("AddLeaves: %v", err)
	}
	if _, err := tr.RecomputeSHA256Root(); err != nil {
		t.Fatalf("RecomputeSHA256Root: %v", err)
	}
	return tr
}
