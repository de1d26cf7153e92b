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
	"fmt"

	te "github.com/google/exchangetree/errors"
	"github.com/google/exchangetree/hexbytes"
)

var (
	// ErrMalformedInput is wrapped by errors for documents that are not valid
	// JSON, lack their version markers, or carry an inconsistent header leaf.
	ErrMalformedInput = te.New(te.InvalidArgument, "malformed input")

	// ErrEmptyTree is returned when a root is requested for a tree with no leaves.
	ErrEmptyTree = te.New(te.FailedPrecondition, "cannot compute root of empty tree")

	// ErrNoRoot is returned when disclosing from a tree that has no root.
	ErrNoRoot = te.New(te.FailedPrecondition, "tree has no root")

	// ErrNilArgument is returned when a required argument is nil.
	ErrNilArgument = te.New(te.FailedPrecondition, "required argument is nil")

	// ErrNoHeader is returned when exporting a v3 tree whose first leaf is not
	// the header leaf.
	ErrNoHeader = te.New(te.FailedPrecondition, "v3 tree has no header leaf")

	// ErrUnknownVersion is returned for a tree or document version outside V1, V2 and V3.
	ErrUnknownVersion = te.New(te.InvalidArgument, "unknown version")

	// ErrNotJSON is wrapped by Leaf.JSONFields when the payload is not a JSON object.
	ErrNotJSON = te.New(te.FailedPrecondition, "leaf is not a JSON object")
)

// InvalidLeafHashError reports a revealed leaf whose stored hash does not
// match its data and salt, or a private leaf with no hash at all.
type InvalidLeafHashError struct {
	Index    int
	Stored   hexbytes.Bytes
	Computed hexbytes.Bytes
}

func (e *InvalidLeafHashError) Error() string {
	if len(e.Computed) == 0 {
		return fmt.Sprintf("leaf %d: private leaf has no hash", e.Index)
	}
	return fmt.Sprintf("leaf %d: invalid leaf hash: stored %v, computed %v", e.Index, e.Stored, e.Computed)
}

// Code implements errors.CodedError.
func (e *InvalidLeafHashError) Code() te.Code { return te.DataLoss }

// InvalidRootError reports a tree whose stored root does not match the root
// computed from its leaves. Computed is empty if Err prevented computing it.
type InvalidRootError struct {
	Stored   hexbytes.Bytes
	Computed hexbytes.Bytes
	Err      error
}

func (e *InvalidRootError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid root %v: %v", e.Stored, e.Err)
	}
	return fmt.Sprintf("invalid root: stored %v, computed %v", e.Stored, e.Computed)
}

// Code implements errors.CodedError.
func (e *InvalidRootError) Code() te.Code { return te.DataLoss }

func (e *InvalidRootError) Unwrap() error { return e.Err }

// NonJSONLeafError reports a leaf that selective disclosure by key could not
// read as a JSON object.
type NonJSONLeafError struct {
	Index int
	Err   error
}

func (e *NonJSONLeafError) Error() string {
	return fmt.Sprintf("leaf %d: %v", e.Index, e.Err)
}

// Code implements errors.CodedError.
func (e *NonJSONLeafError) Code() te.Code { return te.FailedPrecondition }

func (e *NonJSONLeafError) Unwrap() error { return e.Err }

func malformedf(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, a...))
}
