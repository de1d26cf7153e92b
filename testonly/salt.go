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

package testonly

import "io"

// SaltReader is a deterministic io.Reader for generating salts in tests.
// Successive bytes count up from a seed, wrapping at 256.
type SaltReader struct {
	next byte
}

// NewSaltReader returns a SaltReader whose first byte is seed.
func NewSaltReader(seed byte) *SaltReader {
	return &SaltReader{next: seed}
}

// Read implements io.Reader. It never fails.
func (r *SaltReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.next
		r.next++
	}
	return len(p), nil
}

var _ io.Reader = (*SaltReader)(nil)
