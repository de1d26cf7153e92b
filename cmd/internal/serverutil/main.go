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

// Package serverutil holds code for running exchangetree servers.
package serverutil

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/exchangetree/util"
	"k8s.io/klog/v2"
)

// Main encapsulates the data and logic to start an exchangetree HTTP server.
type Main struct {
	HTTPEndpoint string

	// TLS Certificate and Key files for the server.
	TLSCertFile, TLSKeyFile string

	// Handler serves every path other than /metrics and /healthz.
	Handler http.Handler
	// MetricsHandler, if set, is bound to /metrics.
	MetricsHandler http.Handler

	// IsHealthy will be called whenever "/healthz" is called on the mux.
	// A nil return value from this function will result in a 200-OK response
	// on the /healthz endpoint.
	IsHealthy func(context.Context) error
	// HealthyDeadline is the maximum duration to wait for a successful
	// IsHealthy() call.
	HealthyDeadline time.Duration

	// ShutdownTimeout bounds how long in-flight requests may take to
	// finish once the server is stopping.
	ShutdownTimeout time.Duration
}

func (m *Main) healthz(rw http.ResponseWriter, req *http.Request) {
	if m.IsHealthy != nil {
		ctx, cancel := context.WithTimeout(req.Context(), m.HealthyDeadline)
		defer cancel()
		if err := m.IsHealthy(ctx); err != nil {
			rw.WriteHeader(http.StatusServiceUnavailable)
			rw.Write([]byte(err.Error()))
			return
		}
	}
	rw.Write([]byte("ok"))
}

func (m *Main) mux() *http.ServeMux {
	mux := http.NewServeMux()
	h := m.Handler
	if h == nil {
		h = http.NotFoundHandler()
	}
	mux.Handle("/", h)
	if m.MetricsHandler != nil {
		mux.Handle("/metrics", m.MetricsHandler)
	}
	mux.HandleFunc("/healthz", m.healthz)
	return mux
}

// Run starts the configured server. Blocks until ctx is canceled, a
// termination signal arrives, or the server fails.
func (m *Main) Run(ctx context.Context) error {
	if m.HealthyDeadline == 0 {
		m.HealthyDeadline = 5 * time.Second
	}
	if m.ShutdownTimeout == 0 {
		m.ShutdownTimeout = 10 * time.Second
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go util.AwaitSignal(ctx, cancel)

	srv := &http.Server{
		Addr:              m.HTTPEndpoint,
		Handler:           m.mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		klog.Infof("HTTP server starting on %v", m.HTTPEndpoint)
		// Let ListenAndServeTLS handle the error case when only one of the flags is set.
		if m.TLSCertFile != "" || m.TLSKeyFile != "" {
			errCh <- srv.ListenAndServeTLS(m.TLSCertFile, m.TLSKeyFile)
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		klog.Errorf("HTTP server stopped: %v", err)
		return err
	case <-ctx.Done():
	}

	klog.Infof("Stopping server")
	sctx, scancel := context.WithTimeout(context.Background(), m.ShutdownTimeout)
	defer scancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	klog.Flush()
	return nil
}
