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

	"github.com/google/exchangetree/hexbytes"
	"github.com/google/exchangetree/merkle"
	"github.com/google/exchangetree/merkle/hashers"
	"github.com/google/exchangetree/merkle/wire"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

type verifyResult struct {
	path    string
	version merkle.Version
	root    hexbytes.Bytes
	err     error
}

// runVerify checks every named document concurrently and reports one line
// per document in argument order.
func runVerify(ctx context.Context, e *env, args []string) error {
	fs, config := newFlagSet(e, "verify")
	parallelism := fs.Int("parallelism", 8, "Maximum number of documents verified at once")
	if err := parseFlags(fs, config, args); err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		paths = []string{"-"}
	}
	stdin := 0
	for _, path := range paths {
		if path == "-" {
			stdin++
		}
	}
	if stdin > 1 {
		return fmt.Errorf("- (stdin) named %d times, at most once allowed", stdin)
	}
	if *parallelism < 1 {
		return fmt.Errorf("--parallelism must be positive, got %d", *parallelism)
	}

	results := make([]verifyResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(*parallelism)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = verifyDocument(e, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(e.stdout, "%s: FAIL: %v\n", r.path, r.err)
			continue
		}
		fmt.Fprintf(e.stdout, "%s: OK v%s %v\n", r.path, r.version, r.root)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed verification", failed, len(results))
	}
	return nil
}

func verifyDocument(e *env, path string) verifyResult {
	r := verifyResult{path: path}
	b, err := readInput(e, path)
	if err != nil {
		r.err = err
		return r
	}
	t, err := wire.Unmarshal(b)
	if err != nil {
		r.err = err
		return r
	}
	r.version, r.root = t.Version(), t.Root()
	h, err := hashers.Lookup(t.Algorithm())
	if err != nil {
		r.err = err
		return r
	}
	r.err = t.CheckRoot(h)
	klog.V(1).Infof("verify: %s: %d leaves, err=%v", path, t.Len(), r.err)
	return r
}
