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
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/exchangetree/hexbytes"
	"github.com/google/exchangetree/merkle"
	"github.com/google/exchangetree/merkle/hashers"
	"github.com/google/exchangetree/testonly"
	"github.com/google/exchangetree/testonly/sample"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const johnV1 = `{"root":"0xb8be8b48c9f60b03fcfde1b92d52aec0bc01afb93fe6f2d9c3aef1336ce95ab4","leaves":[{"data":"0x7b226e616d65223a224a6f686e227d","salt":"0x000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f","hash":"0xb8be8b48c9f60b03fcfde1b92d52aec0bc01afb93fe6f2d9c3aef1336ce95ab4","contentType":"application/json; charset=utf-8"}],"metadata":{"hashAlgorithm":"SHA256","version":"1.0"}}`

var treeOpts = []cmp.Option{
	cmp.AllowUnexported(merkle.Tree{}, merkle.Leaf{}),
	cmpopts.EquateEmpty(),
}

func TestMarshalJohnV1(t *testing.T) {
	tr, err := sample.NewTree(merkle.V1, "", sample.Person[:1])
	if err != nil {
		t.Fatalf("sample.NewTree: %v", err)
	}
	got, err := Marshal(tr)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(got) != johnV1 {
		t.Errorf("Marshal =\n%s\nwant\n%s", got, johnV1)
	}

	back, err := Unmarshal(got)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(tr, back, treeOpts...); diff != "" {
		t.Errorf("round trip diff (-want +got):\n%s", diff)
	}
	if !back.VerifySHA256Root() {
		t.Error("round-tripped tree does not verify")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, v := range []merkle.Version{merkle.V1, merkle.V2, merkle.V3} {
		for _, exchange := range []string{"", "invoice"} {
			t.Run(string(v)+"/"+exchange, func(t *testing.T) {
				tr := sample.MustTree(v, exchange)
				b, err := Marshal(tr)
				if err != nil {
					t.Fatalf("Marshal: %v", err)
				}
				gotV, err := DetectVersion(b)
				if err != nil {
					t.Fatalf("DetectVersion: %v", err)
				}
				if gotV != v {
					t.Errorf("DetectVersion = %v, want %v", gotV, v)
				}
				back, err := Unmarshal(b)
				if err != nil {
					t.Fatalf("Unmarshal(%s): %v", b, err)
				}
				want := tr
				if v != merkle.V3 {
					// Only v3 documents record the exchange type.
					want = merkle.NewTree(v)
					if err := want.AddLeaves(tr.Leaves()...); err != nil {
						t.Fatalf("AddLeaves: %v", err)
					}
					want.SetRoot(tr.Root())
				}
				if diff := cmp.Diff(want, back, treeOpts...); diff != "" {
					t.Errorf("round trip diff (-want +got):\n%s", diff)
				}
				if !back.VerifySHA256Root() {
					t.Error("round-tripped tree does not verify")
				}
			})
		}
	}
}

func TestRoundTripEmptyLeaf(t *testing.T) {
	h := hashers.SHA256Func
	tr := merkle.NewTree(merkle.V2)
	if _, err := tr.AddData(h, merkle.OctetStreamContentType, nil, nil); err != nil {
		t.Fatalf("AddData: %v", err)
	}
	if _, err := tr.AddJSONField(h, "name", "John"); err != nil {
		t.Fatalf("AddJSONField: %v", err)
	}
	if _, err := tr.RecomputeSHA256Root(); err != nil {
		t.Fatalf("RecomputeSHA256Root: %v", err)
	}
	b, err := Marshal(tr)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal(%s): %v", b, err)
	}
	if diff := cmp.Diff(tr, back, treeOpts...); diff != "" {
		t.Errorf("round trip diff (-want +got):\n%s", diff)
	}
	l := back.Leaf(0)
	if l.IsPrivate() {
		t.Error("empty revealed leaf parsed as private")
	}
	if got, want := l.ContentType(), merkle.OctetStreamContentType; got != want {
		t.Errorf("ContentType() = %q, want %q", got, want)
	}
	for _, d := range []*merkle.Tree{tr, back} {
		var nonJSON *merkle.NonJSONLeafError
		if _, err := d.DiscloseKeys(h, "name"); !errors.As(err, &nonJSON) || nonJSON.Index != 0 {
			t.Errorf("DiscloseKeys() = %v, want NonJSONLeafError for leaf 0", err)
		}
	}
}

func TestRoundTripPrivateLeaves(t *testing.T) {
	src := sample.MustTree(merkle.V3, "invoice")
	d, err := src.DiscloseKeys(hashers.SHA256Func, "email")
	if err != nil {
		t.Fatalf("DiscloseKeys: %v", err)
	}
	b, err := Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(b), hexbytes.Bytes(`{"name":"John"}`).String()) {
		t.Errorf("disclosed document leaks hidden data: %s", b)
	}
	back, err := Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(d, back, treeOpts...); diff != "" {
		t.Errorf("round trip diff (-want +got):\n%s", diff)
	}
	if got, want := back.Root().String(), sample.PersonV3InvoiceRoot; got != want {
		t.Errorf("root = %s, want %s", got, want)
	}
}

func TestMarshalWithDisclosure(t *testing.T) {
	tr := sample.MustTree(merkle.V3, "invoice")
	b, err := Marshal(tr, WithDisclosure(func(int, *merkle.Leaf) bool { return true }))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var doc v3Document
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if doc.Leaves[0].Data == "" {
		t.Error("header leaf was hidden")
	}
	for i, r := range doc.Leaves[1:] {
		if r.Data != "" || len(r.Salt) != 0 || r.ContentType != "" || len(r.Hash) == 0 {
			t.Errorf("leaf %d not written in private form: %+v", i+1, r)
		}
	}
	back, err := Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.VerifySHA256Root() || !back.Root().Equal(tr.Root()) {
		t.Errorf("disclosed document root %v does not verify against %v", back.Root(), tr.Root())
	}
	// The source tree is untouched.
	if tr.Leaf(1).IsPrivate() {
		t.Error("Marshal modified the source tree")
	}
}

func TestMarshalGate(t *testing.T) {
	tr := sample.MustTree(merkle.V2, "")
	tr.SetRoot([]byte{0xba, 0xd0})
	b, err := Marshal(tr)
	var rootErr *merkle.InvalidRootError
	if !errors.As(err, &rootErr) {
		t.Fatalf("Marshal(bad root) = %v, want *merkle.InvalidRootError", err)
	}
	if b != nil {
		t.Errorf("Marshal(bad root) wrote %s", b)
	}
	if got, want := rootErr.Stored.String(), "0xbad0"; got != want {
		t.Errorf("Stored = %s, want %s", got, want)
	}
	if got, want := rootErr.Computed.String(), sample.PersonV1Root; got != want {
		t.Errorf("Computed = %s, want %s", got, want)
	}
}

func TestMarshalErrors(t *testing.T) {
	unknownAlg := merkle.NewTree(merkle.V1, merkle.WithAlgorithm("MD5"))
	if _, err := Marshal(unknownAlg); !errors.Is(err, hashers.ErrUnsupportedAlgorithm) {
		t.Errorf("Marshal(MD5) = %v, want ErrUnsupportedAlgorithm", err)
	}
	// A caller-supplied hash function bypasses the registry.
	if _, err := Marshal(unknownAlg, WithHashFunc(hashers.SHA256Func)); err != nil {
		t.Errorf("Marshal(MD5, WithHashFunc): %v", err)
	}

	badVersion := merkle.NewTree(merkle.Version("4.0"))
	if _, err := Marshal(badVersion); !errors.Is(err, merkle.ErrUnknownVersion) {
		t.Errorf("Marshal(4.0) = %v, want ErrUnknownVersion", err)
	}

	noHeader := merkle.NewTree(merkle.V3)
	if err := noHeader.AddLeaves(sample.MustTree(merkle.V1, "").Leaves()...); err != nil {
		t.Fatalf("AddLeaves: %v", err)
	}
	noHeader.SetRoot(hexbytes.MustParse(sample.PersonV1Root))
	if _, err := Marshal(noHeader); !errors.Is(err, merkle.ErrNoHeader) {
		t.Errorf("Marshal(v3 without header) = %v, want ErrNoHeader", err)
	}

	if _, err := Marshal(nil); !errors.Is(err, merkle.ErrNilArgument) {
		t.Errorf("Marshal(nil) = %v, want ErrNilArgument", err)
	}
}

func TestUnmarshalCaseInsensitive(t *testing.T) {
	doc := strings.NewReplacer(
		`"root"`, `"Root"`,
		`"leaves"`, `"LEAVES"`,
		`"contentType"`, `"ContentType"`,
		`"metadata"`, `"MetaData"`,
		`"hashAlgorithm"`, `"HashAlgorithm"`,
	).Replace(johnV1)
	tr, err := Unmarshal([]byte(doc))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got, want := tr.Version(), merkle.V1; got != want {
		t.Errorf("Version() = %v, want %v", got, want)
	}
	if got, want := tr.Leaf(0).ContentType(), merkle.JSONContentType; got != want {
		t.Errorf("ContentType() = %q, want %q", got, want)
	}
	if !tr.VerifySHA256Root() {
		t.Error("tree does not verify")
	}
}

func TestUnmarshalData(t *testing.T) {
	salt := "0x0102"
	rawHash := hexbytes.Bytes(merkle.HashLeaf(hashers.SHA256Func, []byte("hello"), testonly.MustHexDecode(salt)))
	doc := `{"root":"` + rawHash.String() + `","leaves":[{"data":"hello","salt":"` + salt + `"}],"header":{"alg":"SHA256","typ":"2.0"}}`
	tr, err := Unmarshal([]byte(doc))
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	l := tr.Leaf(0)
	if got, want := string(l.Data()), "hello"; got != want {
		t.Errorf("Data() = %q, want %q", got, want)
	}
	if len(l.Hash()) != 0 {
		t.Errorf("Hash() = %x, want none stored", l.Hash())
	}
	if !tr.VerifySHA256Root() {
		t.Error("tree with derived leaf hash does not verify")
	}
	// Hashes are always written back out.
	b, err := Marshal(tr)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(b), `"hash":"`+rawHash.String()+`"`) {
		t.Errorf("Marshal = %s, want derived hash %s", b, rawHash)
	}
}

func TestUnmarshalMalformed(t *testing.T) {
	header := func(count int, typ string) string {
		l, err := merkle.NewHeaderLeaf(hashers.SHA256Func, "SHA256", count, "x")
		if err != nil {
			t.Fatalf("NewHeaderLeaf: %v", err)
		}
		data := string(l.Data())
		if typ != "" {
			data = strings.Replace(data, merkle.HeaderType, typ, 1)
		}
		return `{"data":"` + hexbytes.Bytes(data).String() + `","hash":""}`
	}
	private := `{"hash":"0x01"}`

	for _, tc := range []struct {
		desc string
		doc  string
	}{
		{desc: "not-json", doc: `{"root":`},
		{desc: "no-markers", doc: `{"root":"","leaves":[]}`},
		{desc: "unknown-typ", doc: `{"root":"","leaves":[],"header":{"typ":"4.0"}}`},
		{desc: "numeric-typ", doc: `{"root":"","leaves":[],"header":{"typ":2.0}}`},
		{desc: "v1-no-alg", doc: `{"root":"","leaves":[],"metadata":{"version":"1.0"}}`},
		{desc: "v1-bad-version", doc: `{"root":"","leaves":[],"metadata":{"hashAlgorithm":"SHA256","version":"2.0"}}`},
		{desc: "v2-no-alg", doc: `{"root":"","leaves":[],"header":{"typ":"2.0"}}`},
		{desc: "bad-hash", doc: `{"root":"","leaves":[{"hash":"0xzz"}],"header":{"alg":"SHA256","typ":"2.0"}}`},
		{desc: "bad-data", doc: `{"root":"","leaves":[{"data":"0xq","hash":"0x01"}],"header":{"alg":"SHA256","typ":"2.0"}}`},
		{desc: "empty-leaf", doc: `{"root":"","leaves":[{}],"header":{"alg":"SHA256","typ":"2.0"}}`},
		{desc: "v3-empty", doc: `{"root":"","leaves":[],"header":{"typ":"3.0"}}`},
		{desc: "v3-private-header", doc: `{"root":"","leaves":[` + private + `],"header":{"typ":"3.0"}}`},
		{desc: "v3-count-high", doc: `{"root":"","leaves":[` + header(3, "") + `,` + private + `],"header":{"typ":"3.0"}}`},
		{desc: "v3-count-low", doc: `{"root":"","leaves":[` + header(1, "") + `,` + private + `],"header":{"typ":"3.0"}}`},
		{desc: "v3-typ", doc: `{"root":"","leaves":[` + header(2, "forged") + `,` + private + `],"header":{"typ":"3.0"}}`},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := Unmarshal([]byte(tc.doc))
			if !errors.Is(err, merkle.ErrMalformedInput) {
				t.Errorf("Unmarshal(%s) = %v, want ErrMalformedInput", tc.doc, err)
			}
		})
	}

	// The well-formed counterpart parses.
	ok := `{"root":"","leaves":[` + header(2, "") + `,` + private + `],"header":{"typ":"3.0"}}`
	if _, err := Unmarshal([]byte(ok)); err != nil {
		t.Errorf("Unmarshal(%s): %v", ok, err)
	}
}

func TestV3RemovedLeafDetected(t *testing.T) {
	tr := sample.MustTree(merkle.V3, "invoice")
	b, err := Marshal(tr)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var doc v3Document
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	doc.Leaves = doc.Leaves[:len(doc.Leaves)-1]
	tampered, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	if _, err := Unmarshal(tampered); !errors.Is(err, merkle.ErrMalformedInput) {
		t.Errorf("Unmarshal(leaf removed) = %v, want ErrMalformedInput", err)
	}
}

func TestV3AlgorithmSubstitutionDetected(t *testing.T) {
	tr := sample.MustTree(merkle.V3, "invoice")
	b, err := Marshal(tr)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var doc v3Document
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	// Rewrite the header leaf to claim SHA3-256 but keep its old hash.
	data, err := decodeData(doc.Leaves[0].Data)
	if err != nil {
		t.Fatalf("decodeData: %v", err)
	}
	forged := strings.Replace(string(data), `"alg":"SHA256"`, `"alg":"SHA3-256"`, 1)
	doc.Leaves[0].Data = hexbytes.Bytes(forged).String()
	out, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	back, err := Unmarshal(out)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got, want := back.Algorithm(), hashers.SHA3_256; got != want {
		t.Errorf("Algorithm() = %q, want %q", got, want)
	}
	if back.VerifySHA256Root() {
		t.Error("forged header verifies under SHA256")
	}
	if _, err := Marshal(back); err == nil {
		t.Error("Marshal(forged) succeeded")
	}
}
