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

// Package hexbytes provides a byte string value that renders as 0x-prefixed
// hex, as used for hashes, salts and roots in exchanged documents.
package hexbytes

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Prefix is the canonical prefix of a rendered value.
const Prefix = "0x"

// ErrEmpty is returned by Parse for an empty string unless AllowEmpty is set.
var ErrEmpty = errors.New("hexbytes: empty value")

// Bytes is a byte string with a canonical hex rendering.
type Bytes []byte

type parseOptions struct {
	allowEmpty bool
}

// Option configures Parse.
type Option func(*parseOptions)

// AllowEmpty makes Parse accept "" and a bare "0x" as the empty value.
func AllowEmpty() Option {
	return func(o *parseOptions) { o.allowEmpty = true }
}

// Parse decodes s, which may carry a 0x or 0X prefix.
func Parse(s string, opts ...Option) (Bytes, error) {
	var o parseOptions
	for _, opt := range opts {
		opt(&o)
	}
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	if s == "" {
		if o.allowEmpty {
			return Bytes{}, nil
		}
		return nil, ErrEmpty
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("hexbytes: %v", err)
	}
	return Bytes(b), nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) Bytes {
	b, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return b
}

// String renders b as 0x-prefixed lowercase hex. The empty value renders as "".
func (b Bytes) String() string {
	if len(b) == 0 {
		return ""
	}
	return Prefix + hex.EncodeToString(b)
}

// IsEmpty reports whether b holds no bytes.
func (b Bytes) IsEmpty() bool { return len(b) == 0 }

// Equal reports whether b and o hold the same bytes. Nil and empty are equal.
func (b Bytes) Equal(o Bytes) bool { return bytes.Equal(b, o) }

// Clone returns a copy of b that does not share storage.
func (b Bytes) Clone() Bytes {
	if b == nil {
		return nil
	}
	return append(Bytes{}, b...)
}

// MarshalText implements encoding.TextMarshaler.
func (b Bytes) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty text is accepted.
func (b *Bytes) UnmarshalText(text []byte) error {
	v, err := Parse(string(text), AllowEmpty())
	if err != nil {
		return err
	}
	*b = v
	return nil
}
