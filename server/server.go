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

// Package server exposes document verification, disclosure and conversion
// over HTTP, with optional storage of verified documents.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/exchangetree/docstore"
	te "github.com/google/exchangetree/errors"
	"github.com/google/exchangetree/monitoring"
	"google.golang.org/grpc/status"
	"k8s.io/klog/v2"
)

const (
	// HTTP content type header
	contentTypeHeader = "Content-Type"
	// MIME content type for JSON
	contentTypeJSON = "application/json"

	// DefaultMaxBodyBytes bounds the size of a request document.
	DefaultMaxBodyBytes = 4 << 20
)

// Server holds the state shared by all handlers.
type Server struct {
	store        docstore.Store
	metrics      *monitoring.DocumentMetrics
	maxBodyBytes int64
}

// Option configures a Server.
type Option func(*Server)

// WithStore enables the /v1/documents endpoints backed by s.
func WithStore(s docstore.Store) Option {
	return func(srv *Server) { srv.store = s }
}

// WithMetrics records request metrics into m.
func WithMetrics(m *monitoring.DocumentMetrics) Option {
	return func(srv *Server) { srv.metrics = m }
}

// WithMaxBodyBytes bounds the size of request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(srv *Server) { srv.maxBodyBytes = n }
}

// New returns a Server. Without WithMetrics, inert metrics are used.
func New(opts ...Option) *Server {
	s := &Server{maxBodyBytes: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = monitoring.NewDocumentMetrics(nil, "")
	}
	return s
}

// Handler returns an http.Handler serving all endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /v1/verify", appHandler{s: s, name: "verify", handler: verify})
	mux.Handle("POST /v1/disclose", appHandler{s: s, name: "disclose", handler: disclose})
	mux.Handle("POST /v1/convert", appHandler{s: s, name: "convert", handler: convert})
	if s.store != nil {
		mux.Handle("POST /v1/documents", appHandler{s: s, name: "put", handler: putDocument})
		if l, ok := s.store.(docstore.Lister); ok {
			mux.Handle("GET /v1/documents", appHandler{s: s, name: "list", handler: listDocuments(l)})
		}
		mux.Handle("GET /v1/documents/{root}", appHandler{s: s, name: "get", handler: getDocument})
		mux.Handle("DELETE /v1/documents/{root}", appHandler{s: s, name: "delete", handler: deleteDocument})
	}
	return mux
}

// result is what a handler produced: a JSON body and the number of leaves
// it processed.
type result struct {
	body   []byte
	leaves int
}

// appHandler holds a Server and a handler function that uses it, and is an
// implementation of the http.Handler interface.
type appHandler struct {
	s       *Server
	name    string
	handler func(*Server, *http.Request) (result, error)
}

// ServeHTTP for an appHandler invokes the underlying handler function but
// does additional common error processing.
func (a appHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	klog.V(2).Infof("server: request %v %q => %s", r.Method, r.URL, a.name)
	r.Body = http.MaxBytesReader(w, r.Body, a.s.maxBodyBytes)
	done := a.s.metrics.Start(a.name)
	res, err := a.handler(a.s, r)
	done(res.leaves, err)
	if err != nil {
		st := status.Convert(te.ToGRPC(err))
		code := te.Code(st.Code())
		httpStatus := te.HTTPStatus(code)
		if httpStatus >= http.StatusInternalServerError {
			klog.Warningf("server: %s handler error: %v", a.name, err)
		} else {
			klog.V(1).Infof("server: %s rejected request: %v", a.name, err)
		}
		sendHTTPError(w, httpStatus, code, st.Message())
		return
	}
	w.Header().Set(contentTypeHeader, contentTypeJSON)
	if _, err := w.Write(res.body); err != nil {
		klog.Warningf("server: %s: failed to write response: %v", a.name, err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func sendHTTPError(w http.ResponseWriter, httpStatus int, code te.Code, msg string) {
	b, err := json.Marshal(errorResponse{Error: msg, Code: code.String()})
	if err != nil {
		http.Error(w, fmt.Sprintf("%s\n%s", http.StatusText(httpStatus), msg), httpStatus)
		return
	}
	w.Header().Set(contentTypeHeader, contentTypeJSON)
	w.WriteHeader(httpStatus)
	w.Write(b)
}

func readBody(r *http.Request) ([]byte, error) {
	b, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, te.Errorf(te.ResourceExhausted, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, te.Errorf(te.InvalidArgument, "reading request body: %v", err)
	}
	if len(b) == 0 {
		return nil, te.New(te.InvalidArgument, "empty request body")
	}
	return b, nil
}
