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

package monitoring

import (
	"time"

	te "github.com/google/exchangetree/errors"
)

// DocumentMetrics groups the metrics recorded for operations over exchanged
// documents, labelled by operation name.
type DocumentMetrics struct {
	Requests Counter
	Failures Counter
	InFlight Gauge
	Leaves   Histogram
	Latency  Histogram
}

// NewDocumentMetrics creates the document metrics using mf. A nil mf
// creates inert metrics. Names are prefixed with prefix and an underscore
// unless prefix is empty.
func NewDocumentMetrics(mf MetricFactory, prefix string) *DocumentMetrics {
	if mf == nil {
		mf = InertMetricFactory{}
	}
	name := func(n string) string {
		if prefix == "" {
			return n
		}
		return prefix + "_" + n
	}
	return &DocumentMetrics{
		Requests: mf.NewCounter(name("requests"), "Number of document requests", "op"),
		Failures: mf.NewCounter(name("failures"), "Number of failed document requests", "op", "code"),
		InFlight: mf.NewGauge(name("requests_in_flight"), "Number of document requests being served", "op"),
		Leaves:   mf.NewHistogramWithBuckets(name("leaves_processed"), "Number of leaves in processed documents", LeafCountBuckets(), "op"),
		Latency:  mf.NewHistogramWithBuckets(name("request_latency"), "Latency of document requests in seconds", LatencyBuckets(), "op"),
	}
}

// Start records the start of an op and returns a function that, given the
// number of leaves processed and the outcome, records its completion.
func (m *DocumentMetrics) Start(op string) func(leaves int, err error) {
	start := time.Now()
	m.Requests.Inc(op)
	m.InFlight.Inc(op)
	return func(leaves int, err error) {
		m.InFlight.Dec(op)
		m.Latency.Observe(time.Since(start).Seconds(), op)
		if leaves > 0 {
			m.Leaves.Observe(float64(leaves), op)
		}
		if err != nil {
			m.Failures.Inc(op, te.CodeOf(err).String())
		}
	}
}
