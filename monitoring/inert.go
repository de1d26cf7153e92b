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
	"fmt"
	"strings"
	"sync"

	"k8s.io/klog/v2"
)

// InertMetricFactory creates metrics that are only held in memory. It is
// used when no backend is configured, and in tests.
type InertMetricFactory struct{}

// NewCounter creates a new inert Counter.
func (InertMetricFactory) NewCounter(name, help string, labelNames ...string) Counter {
	return newInert(name, labelNames)
}

// NewGauge creates a new inert Gauge.
func (InertMetricFactory) NewGauge(name, help string, labelNames ...string) Gauge {
	return newInert(name, labelNames)
}

// NewHistogramWithBuckets creates a new inert Histogram. The buckets are not
// used.
func (InertMetricFactory) NewHistogramWithBuckets(name, help string, _ []float64, labelNames ...string) Histogram {
	return newInert(name, labelNames)
}

// inert implements Counter, Gauge and Histogram. For counters and gauges
// sums holds the value.
type inert struct {
	name       string
	labelCount int

	mu     sync.Mutex
	counts map[string]uint64
	sums   map[string]float64
}

func newInert(name string, labelNames []string) *inert {
	return &inert{
		name:       name,
		labelCount: len(labelNames),
		counts:     make(map[string]uint64),
		sums:       make(map[string]float64),
	}
}

func (m *inert) update(labelVals []string, f func(key string)) {
	key, err := keyForLabels(labelVals, m.labelCount)
	if err != nil {
		klog.Errorf("%s: %v", m.name, err)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	f(key)
}

func (m *inert) Inc(labelVals ...string) { m.Add(1, labelVals...) }

func (m *inert) Dec(labelVals ...string) { m.Add(-1, labelVals...) }

func (m *inert) Add(val float64, labelVals ...string) {
	m.update(labelVals, func(key string) { m.sums[key] += val })
}

func (m *inert) Set(val float64, labelVals ...string) {
	m.update(labelVals, func(key string) { m.sums[key] = val })
}

func (m *inert) Observe(val float64, labelVals ...string) {
	m.update(labelVals, func(key string) {
		m.counts[key]++
		m.sums[key] += val
	})
}

func (m *inert) Value(labelVals ...string) float64 {
	var v float64
	m.update(labelVals, func(key string) { v = m.sums[key] })
	return v
}

func (m *inert) Info(labelVals ...string) (uint64, float64) {
	var (
		n   uint64
		sum float64
	)
	m.update(labelVals, func(key string) { n, sum = m.counts[key], m.sums[key] })
	return n, sum
}

func keyForLabels(labelVals []string, count int) (string, error) {
	if len(labelVals) != count {
		return "", fmt.Errorf("invalid label count %d; want %d", len(labelVals), count)
	}
	return strings.Join(labelVals, "|"), nil
}
