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

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/exchangetree/docstore"
	te "github.com/google/exchangetree/errors"
	"github.com/google/exchangetree/hexbytes"
	"github.com/google/exchangetree/merkle"
	"github.com/google/exchangetree/merkle/hashers"
	"github.com/google/exchangetree/merkle/wire"
)

const (
	// The name of the disclose parameter listing JSON keys to keep
	discloseParamKeep = "keep"
	// The name of the disclose parameter listing leaf indices to hide
	discloseParamHide = "hide"
	// The name of the convert target version parameter
	convertParamVersion = "version"
	// The name of the documents path wildcard
	documentsPathRoot = "root"
)

type verifyResponse struct {
	Valid     bool           `json:"valid"`
	Version   string         `json:"version"`
	Algorithm string         `json:"algorithm"`
	Root      hexbytes.Bytes `json:"root"`
	Computed  hexbytes.Bytes `json:"computed,omitempty"`
	Leaves    int            `json:"leaves"`
	Reason    string         `json:"reason,omitempty"`
}

type putResponse struct {
	Root hexbytes.Bytes `json:"root"`
}

type listResponse struct {
	Roots []hexbytes.Bytes `json:"roots"`
}

type deleteResponse struct {
	Deleted hexbytes.Bytes `json:"deleted"`
}

func jsonResult(v interface{}, leaves int) (result, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return result{leaves: leaves}, te.Errorf(te.Internal, "encoding response: %v", err)
	}
	return result{body: b, leaves: leaves}, nil
}

// parseDocument reads a document of any wire version from the request body
// and resolves its hash algorithm.
func parseDocument(r *http.Request) (*merkle.Tree, hashers.HashFunc, error) {
	b, err := readBody(r)
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
	return t, h, nil
}

// parseVerified is parseDocument for operations that derive a new document
// and so must start from one whose root verifies.
func parseVerified(r *http.Request) (*merkle.Tree, hashers.HashFunc, error) {
	t, h, err := parseDocument(r)
	if err != nil {
		return nil, nil, err
	}
	if err := t.CheckRoot(h); err != nil {
		return nil, nil, err
	}
	return t, h, nil
}

func verify(s *Server, r *http.Request) (result, error) {
	t, h, err := parseDocument(r)
	if err != nil {
		return result{}, err
	}
	resp := verifyResponse{
		Valid:     true,
		Version:   string(t.Version()),
		Algorithm: t.Algorithm(),
		Root:      t.Root(),
		Leaves:    t.Len(),
	}
	if err := t.CheckRoot(h); err != nil {
		var rootErr *merkle.InvalidRootError
		if !errors.As(err, &rootErr) {
			return result{leaves: t.Len()}, err
		}
		resp.Valid = false
		resp.Computed = rootErr.Computed
		resp.Reason = err.Error()
	}
	return jsonResult(resp, t.Len())
}

func disclose(s *Server, r *http.Request) (result, error) {
	q := r.URL.Query()
	keep := splitList(q[discloseParamKeep])
	hide := splitList(q[discloseParamHide])
	switch {
	case len(keep) == 0 && len(hide) == 0:
		return result{}, te.Errorf(te.InvalidArgument, "one of %q or %q is required", discloseParamKeep, discloseParamHide)
	case len(keep) > 0 && len(hide) > 0:
		return result{}, te.Errorf(te.InvalidArgument, "%q and %q are exclusive", discloseParamKeep, discloseParamHide)
	}
	indices := make([]int, 0, len(hide))
	for _, v := range hide {
		i, err := strconv.Atoi(v)
		if err != nil || i < 0 {
			return result{}, te.Errorf(te.InvalidArgument, "%s: bad leaf index %q", discloseParamHide, v)
		}
		indices = append(indices, i)
	}

	t, h, err := parseVerified(r)
	if err != nil {
		return result{}, err
	}
	var d *merkle.Tree
	if len(keep) > 0 {
		d, err = t.DiscloseKeys(h, keep...)
	} else {
		d, err = t.Disclose(h, merkle.HideIndices(indices...))
	}
	if err != nil {
		return result{leaves: t.Len()}, err
	}
	b, err := wire.Marshal(d, wire.WithHashFunc(h))
	return result{body: b, leaves: t.Len()}, err
}

func convert(s *Server, r *http.Request) (result, error) {
	v := merkle.Version(r.URL.Query().Get(convertParamVersion))
	if !v.Valid() {
		return result{}, te.Errorf(te.InvalidArgument, "%s: unknown version %q", convertParamVersion, v)
	}
	t, h, err := parseVerified(r)
	if err != nil {
		return result{}, err
	}
	c, err := t.Convert(h, v)
	if err != nil {
		return result{leaves: t.Len()}, err
	}
	b, err := wire.Marshal(c, wire.WithHashFunc(h))
	return result{body: b, leaves: c.Len()}, err
}

func putDocument(s *Server, r *http.Request) (result, error) {
	t, _, err := parseDocument(r)
	if err != nil {
		return result{}, err
	}
	root, err := s.store.Put(r.Context(), t)
	if err != nil {
		return result{leaves: t.Len()}, err
	}
	return jsonResult(putResponse{Root: root}, t.Len())
}

func pathRoot(r *http.Request) (hexbytes.Bytes, error) {
	root, err := hexbytes.Parse(r.PathValue(documentsPathRoot))
	if err != nil {
		return nil, te.Errorf(te.InvalidArgument, "bad root %q: %v", r.PathValue(documentsPathRoot), err)
	}
	return root, nil
}

func getDocument(s *Server, r *http.Request) (result, error) {
	root, err := pathRoot(r)
	if err != nil {
		return result{}, err
	}
	t, err := s.store.Get(r.Context(), root)
	if err != nil {
		return result{}, err
	}
	b, err := wire.Marshal(t)
	return result{body: b, leaves: t.Len()}, err
}

func listDocuments(l docstore.Lister) func(*Server, *http.Request) (result, error) {
	return func(_ *Server, r *http.Request) (result, error) {
		roots, err := l.List(r.Context())
		if err != nil {
			return result{}, err
		}
		return jsonResult(listResponse{Roots: roots}, 0)
	}
}

func deleteDocument(s *Server, r *http.Request) (result, error) {
	root, err := pathRoot(r)
	if err != nil {
		return result{}, err
	}
	if err := s.store.Delete(r.Context(), root); err != nil {
		return result{}, err
	}
	return jsonResult(deleteResponse{Deleted: root}, 0)
}

// splitList flattens repeated and comma separated query values.
func splitList(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
