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

// Package merkle builds and verifies Merkle trees over typed, salted leaves
// and derives selectively disclosed copies of them.
//
// A revealed leaf commits to its payload with h(data || salt). Interior
// nodes are h(left || right); on a level with an odd number of nodes the last
// one is combined with itself. The root of a single leaf is that leaf's hash.
//
// Version 3 trees carry a header leaf at position 0 whose JSON payload binds
// the hash algorithm, the leaf count and the exchange document type into the
// root, so none of them can be altered without changing it.
//
// Validation is two-phase: leaves are accepted as given, and hash mismatches
// are reported when a root is computed or verified.
package merkle
