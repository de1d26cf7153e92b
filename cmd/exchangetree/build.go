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

	"github.com/google/exchangetree/merkle"
	"github.com/google/exchangetree/merkle/hashers"
	"github.com/google/exchangetree/merkle/wire"
	"gopkg.in/yaml.v2"
	"k8s.io/klog/v2"
)

// runBuild reads a YAML or JSON mapping and builds a tree with one JSON
// leaf per top-level key, in document order.
func runBuild(ctx context.Context, e *env, args []string) error {
	fs, config := newFlagSet(e, "build")
	input := fs.String("input", "-", "YAML or JSON file of fields, - for stdin")
	output := fs.String("output", "-", "File to write the document to, - for stdout")
	version := fs.String("version", string(merkle.V3), "Wire version of the document")
	alg := fs.String("alg", hashers.SHA256, "Hash algorithm")
	exchange := fs.String("exchange", "", "Exchange type recorded in v3 headers")
	if err := parseFlags(fs, config, args); err != nil {
		return err
	}

	v := merkle.Version(*version)
	if !v.Valid() {
		return fmt.Errorf("--version: unknown version %q", *version)
	}
	h, err := hashers.Lookup(*alg)
	if err != nil {
		return err
	}
	b, err := readInput(e, *input)
	if err != nil {
		return err
	}
	fields, err := parseFields(b)
	if err != nil {
		return fmt.Errorf("%s: %v", *input, err)
	}

	t := merkle.NewTree(v, merkle.WithAlgorithm(*alg), merkle.WithExchangeType(*exchange))
	for _, f := range fields {
		if _, err := t.AddJSONField(h, f.name, f.value); err != nil {
			return fmt.Errorf("field %q: %v", f.name, err)
		}
	}
	root, err := t.RecomputeRoot(h, *alg)
	if err != nil {
		return err
	}
	klog.V(1).Infof("build: %d fields, root %v", len(fields), root)
	doc, err := wire.Marshal(t, wire.WithHashFunc(h))
	if err != nil {
		return err
	}
	return writeOutput(e, *output, doc)
}

type field struct {
	name  string
	value interface{}
}

func parseFields(b []byte) ([]field, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if len(doc) == 0 {
		return nil, fmt.Errorf("no fields")
	}
	fields := make([]field, 0, len(doc))
	for _, item := range doc {
		name, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("field name %v is not a string", item.Key)
		}
		value, err := jsonValue(item.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %v", name, err)
		}
		fields = append(fields, field{name: name, value: value})
	}
	return fields, nil
}

// jsonValue converts decoded YAML into values encoding/json accepts.
func jsonValue(v interface{}) (interface{}, error) {
	switch v := v.(type) {
	case yaml.MapSlice:
		m := make(map[string]interface{}, len(v))
		for _, item := range v {
			if err := setKey(m, item.Key, item.Value); err != nil {
				return nil, err
			}
		}
		return m, nil
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(v))
		for k, val := range v {
			if err := setKey(m, k, val); err != nil {
				return nil, err
			}
		}
		return m, nil
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, val := range v {
			conv, err := jsonValue(val)
			if err != nil {
				return nil, err
			}
			out[i] = conv
		}
		return out, nil
	}
	return v, nil
}

func setKey(m map[string]interface{}, k, v interface{}) error {
	key, ok := k.(string)
	if !ok {
		return fmt.Errorf("key %v is not a string", k)
	}
	conv, err := jsonValue(v)
	if err != nil {
		return err
	}
	m[key] = conv
	return nil
}
