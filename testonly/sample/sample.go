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

// Package sample provides deterministic trees for tests.
package sample

import (
	"fmt"

	"github.com/google/exchangetree/merkle"
	"github.com/google/exchangetree/merkle/hashers"
	"github.com/google/exchangetree/testonly"
)

// Field is a named JSON value placed in its own leaf.
type Field struct {
	Name  string
	Value interface{}
}

// Person is the field set used by most tests.
var Person = []Field{
	{Name: "name", Value: "John"},
	{Name: "age", Value: 42},
	{Name: "email", Value: "john@example.com"},
}

// Roots of Person trees built by MustTree with SHA256 salts seeded at 0.
const (
	PersonV1Root = "0x6d0223c7e288c64e7c9226d64b18abec01ff80b73a05c8dd32bb2153bc50b5d9"
	// PersonV3InvoiceRoot includes the header leaf for exchange type "invoice".
	PersonV3InvoiceRoot = "0xe93f24211d620b5c7a884d093f11d43f26cd8962fc9af4cc56fe38b99dbbf146"
)

// NewTree returns a rooted SHA256 tree of version v holding fields, salted
// deterministically from a testonly.SaltReader seeded at 0.
func NewTree(v merkle.Version, exchange string, fields []Field) (*merkle.Tree, error) {
	t := merkle.NewTree(v, merkle.WithExchangeType(exchange))
	r := testonly.NewSaltReader(0)
	for _, f := range fields {
		if _, err := t.AddJSONField(hashers.SHA256Func, f.Name, f.Value, merkle.WithSaltSource(r)); err != nil {
			return nil, fmt.Errorf("AddJSONField(%s): %v", f.Name, err)
		}
	}
	if _, err := t.RecomputeSHA256Root(); err != nil {
		return nil, err
	}
	return t, nil
}

// MustTree is NewTree over Person, panicking on error.
func MustTree(v merkle.Version, exchange string) *merkle.Tree {
	t, err := NewTree(v, exchange, Person)
	if err != nil {
		panic(err)
	}
	return t
}
