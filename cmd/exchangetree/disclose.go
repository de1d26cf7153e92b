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

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/exchangetree/merkle"
	"github.com/google/exchangetree/merkle/hashers"
	"github.com/google/exchangetree/merkle/wire"
)

// readVerified reads a document and checks its root, as derived documents
// must only be produced from verified ones.
func readVerified(e *env, path string) (*merkle.Tree, hashers.HashFunc, error) {
	b, err := readInput(e, path)
	if err != nil {
		return nil, nil, err
	}
	t, err := wire.Unmarshal(b)
	if err != nil {
		return nil, nil, err
	}
	h, err := hashers.Lookup(t.Algorithm())
	if err != nil {
		return nil, nil, err
	}
	if err := t.CheckRoot(h); err != nil {
		return nil, nil, err
	}
	return t, h, nil
}

func runDisclose(ctx context.Context, e *env, args []string) error {
	fs, config := newFlagSet(e, "disclose")
	input := fs.String("input", "-", "Document to disclose from, - for stdin")
	output := fs.String("output", "-", "File to write the disclosed document to, - for stdout")
	keep := fs.String("keep", "", "Comma separated JSON keys whose leaves stay revealed")
	hide := fs.String("hide", "", "Comma separated indices of leaves to make private")
	if err := parseFlags(fs, config, args); err != nil {
		return err
	}
	keys, hidden := splitList(*keep), splitList(*hide)
	switch {
	case len(keys) == 0 && len(hidden) == 0:
		return fmt.Errorf("one of --keep or --hide is required")
	case len(keys) > 0 && len(hidden) > 0:
		return fmt.Errorf("--keep and --hide are exclusive")
	}
	indices := make([]int, 0, len(hidden))
	for _, s := range hidden {
		i, err := strconv.Atoi(s)
		if err != nil || i < 0 {
			return fmt.Errorf("--hide: bad leaf index %q", s)
		}
		indices = append(indices, i)
	}

	t, h, err := readVerified(e, *input)
	if err != nil {
		return err
	}
	var d *merkle.Tree
	if len(keys) > 0 {
		d, err = t.DiscloseKeys(h, keys...)
	} else {
		d, err = t.Disclose(h, merkle.HideIndices(indices...))
	}
	if err != nil {
		return err
	}
	doc, err := wire.Marshal(d, wire.WithHashFunc(h))
	if err != nil {
		return err
	}
	return writeOutput(e, *output, doc)
}

func runConvert(ctx context.Context, e *env, args []string) error {
	fs, config := newFlagSet(e, "convert")
	input := fs.String("input", "-", "Document to convert, - for stdin")
	output := fs.String("output", "-", "File to write the converted document to, - for stdout")
	version := fs.String("version", "", "Target wire version")
	if err := parseFlags(fs, config, args); err != nil {
		return err
	}
	v := merkle.Version(*version)
	if !v.Valid() {
		return fmt.Errorf("--version: unknown version %q", *version)
	}
	t, h, err := readVerified(e, *input)
	if err != nil {
		return err
	}
	c, err := t.Convert(h, v)
	if err != nil {
		return err
	}
	doc, err := wire.Marshal(c, wire.WithHashFunc(h))
	if err != nil {
		return err
	}
	return writeOutput(e, *output, doc)
}
