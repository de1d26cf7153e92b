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
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/google/exchangetree/hexbytes"
	"github.com/google/exchangetree/merkle/hashers"
)

// Content types understood by the tree.
const (
	// JSONContentType tags leaves built from a single JSON field.
	JSONContentType = "application/json; charset=utf-8"
	// OctetStreamContentType tags opaque byte payloads.
	OctetStreamContentType = "application/octet-stream"
)

// DefaultSaltSize is the length of generated salts in bytes.
const DefaultSaltSize = 32

// Leaf is a committed unit of a Tree: a typed payload, its salt, and the
// commitment hash. A private leaf retains only the hash.
//
// Leaves are immutable once constructed. Construction never validates a
// caller-supplied hash; a revealed leaf whose hash does not match its data
// and salt is only reported when a root is computed over it.
type Leaf struct {
	contentType string
	data        hexbytes.Bytes
	salt        hexbytes.Bytes
	hash        hexbytes.Bytes
	private     bool
	header      bool
}

// HashLeaf returns the commitment of a revealed leaf, h(data || salt).
func HashLeaf(h hashers.HashFunc, data, salt []byte) []byte {
	buf := make([]byte, 0, len(data)+len(salt))
	buf = append(buf, data...)
	buf = append(buf, salt...)
	return h(buf)
}

// NewLeaf returns a revealed leaf committing to data and salt under h.
func NewLeaf(h hashers.HashFunc, contentType string, data, salt []byte) *Leaf {
	return &Leaf{
		contentType: contentType,
		data:        hexbytes.Bytes(data).Clone(),
		salt:        hexbytes.Bytes(salt).Clone(),
		hash:        HashLeaf(h, data, salt),
	}
}

// RestoreLeaf returns a revealed leaf carrying a caller-supplied hash, as
// read from an exchanged document. An empty hash is derived when the root is
// computed. A hash that disagrees with data and salt is not detected here.
func RestoreLeaf(contentType string, data, salt, hash []byte) *Leaf {
	return &Leaf{
		contentType: contentType,
		data:        hexbytes.Bytes(data).Clone(),
		salt:        hexbytes.Bytes(salt).Clone(),
		hash:        hexbytes.Bytes(hash).Clone(),
	}
}

// NewPrivateLeaf returns a leaf whose content is withheld; only hash is kept
// and it is trusted as-is when computing roots.
func NewPrivateLeaf(hash []byte) *Leaf {
	return &Leaf{
		hash:    hexbytes.Bytes(hash).Clone(),
		private: true,
	}
}

type leafOptions struct {
	salt    []byte
	hasSalt bool
	rand    io.Reader
}

// LeafOption configures NewJSONLeaf.
type LeafOption func(*leafOptions)

// WithSalt uses salt instead of generating one.
func WithSalt(salt []byte) LeafOption {
	return func(o *leafOptions) {
		o.salt = salt
		o.hasSalt = true
	}
}

// WithSaltSource draws generated salts from r instead of crypto/rand.
func WithSaltSource(r io.Reader) LeafOption {
	return func(o *leafOptions) { o.rand = r }
}

// NewSalt reads DefaultSaltSize bytes from r, or from crypto/rand if r is nil.
func NewSalt(r io.Reader) ([]byte, error) {
	if r == nil {
		r = rand.Reader
	}
	salt := make([]byte, DefaultSaltSize)
	if _, err := io.ReadFull(r, salt); err != nil {
		return nil, fmt.Errorf("reading salt: %v", err)
	}
	return salt, nil
}

// NewJSONLeaf returns a revealed leaf whose payload is the JSON object
// {name: value}. Unless WithSalt is given a fresh random salt is used.
func NewJSONLeaf(h hashers.HashFunc, name string, value interface{}, opts ...LeafOption) (*Leaf, error) {
	o := leafOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	data, err := json.Marshal(map[string]interface{}{name: value})
	if err != nil {
		return nil, fmt.Errorf("encoding field %q: %v", name, err)
	}
	salt := o.salt
	if !o.hasSalt {
		if salt, err = NewSalt(o.rand); err != nil {
			return nil, err
		}
	}
	return NewLeaf(h, JSONContentType, data, salt), nil
}

// ContentType returns the payload tag. It is empty for private leaves.
func (l *Leaf) ContentType() string { return l.contentType }

// Data returns the payload. The returned slice must not be modified.
func (l *Leaf) Data() hexbytes.Bytes { return l.data }

// Salt returns the salt. The returned slice must not be modified.
func (l *Leaf) Salt() hexbytes.Bytes { return l.salt }

// Hash returns the stored commitment, which may be empty for restored leaves
// that did not carry one.
func (l *Leaf) Hash() hexbytes.Bytes { return l.hash }

// IsPrivate reports whether the leaf content has been withheld.
func (l *Leaf) IsPrivate() bool { return l.private }

// IsHeader reports whether the leaf is the structural header of a v3 tree.
func (l *Leaf) IsHeader() bool { return l.header }

// hashFor returns the hash l contributes to a root under h. Revealed leaves
// are rehashed and checked against any stored hash.
func (l *Leaf) hashFor(h hashers.HashFunc) ([]byte, error) {
	if l.private {
		if len(l.hash) == 0 {
			return nil, &InvalidLeafHashError{}
		}
		return l.hash, nil
	}
	computed := HashLeaf(h, l.data, l.salt)
	if len(l.hash) > 0 && !l.hash.Equal(computed) {
		return nil, &InvalidLeafHashError{Stored: l.hash.Clone(), Computed: computed}
	}
	return computed, nil
}

// redacted returns the private form of l, deriving the hash if l never had one.
func (l *Leaf) redacted(h hashers.HashFunc) *Leaf {
	if len(l.hash) > 0 || l.private {
		return NewPrivateLeaf(l.hash)
	}
	return NewPrivateLeaf(HashLeaf(h, l.data, l.salt))
}

func (l *Leaf) clone() *Leaf {
	c := *l
	c.data = l.data.Clone()
	c.salt = l.salt.Clone()
	c.hash = l.hash.Clone()
	return &c
}

// IsJSONContentType reports whether ct names a JSON media type, either
// application/json or a +json structured suffix.
func IsJSONContentType(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// JSONFields decodes the payload as a JSON object. It fails with ErrNotJSON
// if the leaf is private, is not tagged as JSON, or does not hold an object.
func (l *Leaf) JSONFields() (map[string]json.RawMessage, error) {
	if l.private || len(l.data) == 0 {
		return nil, fmt.Errorf("%w: no payload", ErrNotJSON)
	}
	if !IsJSONContentType(l.contentType) {
		return nil, fmt.Errorf("%w: content type %q", ErrNotJSON, l.contentType)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(l.data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJSON, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: payload is null", ErrNotJSON)
	}
	return fields, nil
}
