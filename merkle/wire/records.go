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

package wire

import (
	"github.com/google/exchangetree/hexbytes"
)

// leafRecord is the wire form of a leaf, shared by all versions. Private
// leaves carry only Hash.
type leafRecord struct {
	Data        string         `json:"data,omitempty"`
	Salt        hexbytes.Bytes `json:"salt,omitempty"`
	Hash        hexbytes.Bytes `json:"hash"`
	ContentType string         `json:"contentType,omitempty"`
}

type v1Metadata struct {
	HashAlgorithm string `json:"hashAlgorithm"`
	Version       string `json:"version"`
}

// v1Document carries its metadata in a trailing block.
type v1Document struct {
	Root     hexbytes.Bytes `json:"root"`
	Leaves   []leafRecord   `json:"leaves"`
	Metadata *v1Metadata    `json:"metadata"`
}

type v2Header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

// v2Document carries an unprotected header naming the algorithm.
type v2Document struct {
	Header *v2Header      `json:"header"`
	Root   hexbytes.Bytes `json:"root"`
	Leaves []leafRecord   `json:"leaves"`
}

type v3Header struct {
	Typ string `json:"typ"`
}

// v3Document names only its version in the header; algorithm, leaf count and
// exchange type live in the header leaf at position 0.
type v3Document struct {
	Header *v3Header      `json:"header"`
	Root   hexbytes.Bytes `json:"root"`
	Leaves []leafRecord   `json:"leaves"`
}

// probe reads just enough of a document to pick its version.
type probe struct {
	Metadata *struct{} `json:"metadata"`
	Header   *struct {
		Typ string `json:"typ"`
	} `json:"header"`
}
