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
	"time"

	"github.com/go-redis/redis"
	"github.com/google/exchangetree/cmd/internal/serverutil"
	"github.com/google/exchangetree/docstore"
	"github.com/google/exchangetree/docstore/memory"
	"github.com/google/exchangetree/docstore/redisstore"
	"github.com/google/exchangetree/monitoring"
	"github.com/google/exchangetree/monitoring/prometheus"
	"github.com/google/exchangetree/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"
)

type storeConfig struct {
	kind        string
	redisAddr   string
	redisPrefix string
	redisTTL    time.Duration
}

// newStore returns the configured store, nil for "none", and a health check
// for stores that have a backend to reach.
func newStore(cfg storeConfig) (docstore.Store, func(context.Context) error, error) {
	switch cfg.kind {
	case "none":
		return nil, nil, nil
	case "memory":
		return memory.New(), nil, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.redisAddr})
		healthy := func(ctx context.Context) error {
			return client.WithContext(ctx).Ping().Err()
		}
		return redisstore.New(client, redisstore.WithPrefix(cfg.redisPrefix), redisstore.WithTTL(cfg.redisTTL)), healthy, nil
	}
	return nil, nil, fmt.Errorf("--store: unknown store %q", cfg.kind)
}

func runServe(ctx context.Context, e *env, args []string) error {
	fs, config := newFlagSet(e, "serve")
	httpEndpoint := fs.String("http_endpoint", "localhost:8080", "Endpoint for HTTP (host:port)")
	tlsCertFile := fs.String("tls_cert_file", "", "Path to the TLS server certificate. If unset, the server will use unsecured connections.")
	tlsKeyFile := fs.String("tls_key_file", "", "Path to the TLS server key. If unset, the server will use unsecured connections.")
	metricsPrefix := fs.String("metrics_prefix", "exchangetree_", "Prefix of exported metric names")
	maxBodyBytes := fs.Int64("max_body_bytes", server.DefaultMaxBodyBytes, "Maximum size of a request document")
	var cfg storeConfig
	fs.StringVar(&cfg.kind, "store", "memory", "Document store: memory, redis or none")
	fs.StringVar(&cfg.redisAddr, "redis_addr", "localhost:6379", "Address of the Redis server for --store=redis")
	fs.StringVar(&cfg.redisPrefix, "redis_prefix", redisstore.DefaultPrefix, "Key prefix for --store=redis")
	fs.DurationVar(&cfg.redisTTL, "redis_ttl", 0, "Expiry of stored documents for --store=redis, 0 for none")
	if err := parseFlags(fs, config, args); err != nil {
		return err
	}

	store, healthy, err := newStore(cfg)
	if err != nil {
		return err
	}
	opts := []server.Option{
		server.WithMetrics(monitoring.NewDocumentMetrics(prometheus.MetricFactory{Prefix: *metricsPrefix}, "")),
		server.WithMaxBodyBytes(*maxBodyBytes),
	}
	if store != nil {
		opts = append(opts, server.WithStore(store))
	}
	klog.Infof("serve: store=%s", cfg.kind)

	m := &serverutil.Main{
		HTTPEndpoint:   *httpEndpoint,
		TLSCertFile:    *tlsCertFile,
		TLSKeyFile:     *tlsKeyFile,
		Handler:        server.New(opts...).Handler(),
		MetricsHandler: promhttp.Handler(),
		IsHealthy:      healthy,
	}
	return m.Run(ctx)
}
