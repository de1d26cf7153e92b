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

package hashers

import (
	"crypto/sha512"

	"github.com/minio/sha256-simd"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Names of the built-in algorithms.
const (
	SHA256     = "SHA256"
	SHA512     = "SHA512"
	SHA3_256   = "SHA3-256"
	BLAKE2B256 = "BLAKE2B-256"
	BLAKE3     = "BLAKE3"
)

func init() {
	Register(SHA256, SHA256Func)
	Register(SHA512, SHA512Func)
	Register(SHA3_256, SHA3_256Func)
	Register(BLAKE2B256, BLAKE2B256Func)
	Register(BLAKE3, BLAKE3Func)
}

// SHA256Func is the default HashFunc used by exchanged trees.
func SHA256Func(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// SHA512Func hashes data with SHA-512.
func SHA512Func(data []byte) []byte {
	sum := sha512.Sum512(data)
	return sum[:]
}

// SHA3_256Func hashes data with SHA3-256.
func SHA3_256Func(data []byte) []byte {
	sum := sha3.Sum256(data)
	return sum[:]
}

// BLAKE2B256Func hashes data with BLAKE2b producing a 256-bit digest.
func BLAKE2B256Func(data []byte) []byte {
	sum := blake2b.Sum256(data)
	return sum[:]
}

// BLAKE3Func hashes data with BLAKE3 producing a 256-bit digest.
func BLAKE3Func(data []byte) []byte {
	sum := blake3.Sum256(data)
	return sum[:]
}
