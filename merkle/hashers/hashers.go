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

// Package hashers provides the hash functions used to commit to leaves and
// combine tree nodes, and a registry that resolves them by algorithm name.
package hashers

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	te "github.com/google/exchangetree/errors"
)

// HashFunc computes a fixed-length digest of its input.
//
// Implementations must be deterministic and safe for concurrent use.
type HashFunc func(data []byte) []byte

// ErrUnsupportedAlgorithm is returned by Lookup for names with no registered
// implementation. Callers can bypass the registry by passing a HashFunc
// directly to the tree and codec functions.
var ErrUnsupportedAlgorithm = te.New(te.Unimplemented, "unsupported hash algorithm")

var (
	mu       sync.RWMutex
	registry = make(map[string]entry)
)

type entry struct {
	name string
	f    HashFunc
}

func canonical(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Register makes a HashFunc available under name. Names are matched case
// insensitively. It panics if name is empty, f is nil, or name is already
// registered.
func Register(name string, f HashFunc) {
	key := canonical(name)
	if key == "" {
		panic("hashers: Register of empty algorithm name")
	}
	if f == nil {
		panic(fmt.Sprintf("hashers: Register(%s) of nil HashFunc", name))
	}
	mu.Lock()
	defer mu.Unlock()
	if _, ok := registry[key]; ok {
		panic(fmt.Sprintf("hashers: %s already registered", name))
	}
	registry[key] = entry{name: name, f: f}
}

// Lookup returns the HashFunc registered under name.
func Lookup(name string) (HashFunc, error) {
	mu.RLock()
	defer mu.RUnlock()
	if e, ok := registry[canonical(name)]; ok {
		return e.f, nil
	}
	return nil, te.Errorf(te.Unimplemented, "%w: %q", ErrUnsupportedAlgorithm, name)
}

// Names returns the registered algorithm names in sorted order, spelled as
// they were registered.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for _, e := range registry {
		names = append(names, e.name)
	}
	sort.Strings(names)
	return names
}
