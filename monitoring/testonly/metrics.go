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

// Package testonly holds conformance tests for monitoring.MetricFactory
// implementations.
package testonly

import (
	"testing"

	"github.com/google/exchangetree/monitoring"
)

var labelSets = []struct {
	suffix string
	names  []string
	vals   []string
}{
	{suffix: "0"},
	{suffix: "1", names: []string{"op"}, vals: []string{"verify"}},
	{suffix: "2", names: []string{"op", "code"}, vals: []string{"verify", "DataLoss"}},
}

// bogus returns vals with one label too many.
func bogus(vals []string) []string {
	return append(append([]string(nil), vals...), "bogus")
}

// TestCounter runs a test on a Counter produced from the provided MetricFactory.
func TestCounter(t *testing.T, factory monitoring.MetricFactory) {
	t.Helper()
	for _, ls := range labelSets {
		name := "test_counter" + ls.suffix
		c := factory.NewCounter(name, "Test only", ls.names...)
		for _, step := range []struct {
			apply func()
			want  float64
		}{
			{apply: func() {}, want: 0},
			{apply: func() { c.Inc(ls.vals...) }, want: 1},
			{apply: func() { c.Add(2.5, ls.vals...) }, want: 3.5},
		} {
			step.apply()
			if got := c.Value(ls.vals...); got != step.want {
				t.Errorf("%s%v.Value() = %v, want %v", name, ls.vals, got, step.want)
			}
		}
		c.Inc(bogus(ls.vals)...)
		c.Add(10, bogus(ls.vals)...)
		if got := c.Value(bogus(ls.vals)...); got != 0 {
			t.Errorf("%s%v.Value() = %v, want 0", name, bogus(ls.vals), got)
		}
		if got, want := c.Value(ls.vals...), 3.5; got != want {
			t.Errorf("%s%v.Value() after bad labels = %v, want %v", name, ls.vals, got, want)
		}
	}
}

// TestGauge runs a test on a Gauge produced from the provided MetricFactory.
func TestGauge(t *testing.T, factory monitoring.MetricFactory) {
	t.Helper()
	for _, ls := range labelSets {
		name := "test_gauge" + ls.suffix
		g := factory.NewGauge(name, "Test only", ls.names...)
		for _, step := range []struct {
			apply func()
			want  float64
		}{
			{apply: func() {}, want: 0},
			{apply: func() { g.Inc(ls.vals...) }, want: 1},
			{apply: func() { g.Dec(ls.vals...) }, want: 0},
			{apply: func() { g.Set(42, ls.vals...) }, want: 42},
		} {
			step.apply()
			if got := g.Value(ls.vals...); got != step.want {
				t.Errorf("%s%v.Value() = %v, want %v", name, ls.vals, got, step.want)
			}
		}
		g.Set(120, bogus(ls.vals)...)
		if got := g.Value(bogus(ls.vals)...); got != 0 {
			t.Errorf("%s%v.Value() = %v, want 0", name, bogus(ls.vals), got)
		}
	}
}

// TestHistogram runs a test on a Histogram produced from the provided MetricFactory.
func TestHistogram(t *testing.T, factory monitoring.MetricFactory) {
	t.Helper()
	for _, ls := range labelSets {
		name := "test_histogram" + ls.suffix
		h := factory.NewHistogramWithBuckets(name, "Test only", monitoring.ExpBuckets(1, 2, 4), ls.names...)
		if n, sum := h.Info(ls.vals...); n != 0 || sum != 0 {
			t.Errorf("%s%v.Info() = %d, %v; want 0, 0", name, ls.vals, n, sum)
		}
		for _, v := range []float64{1, 2, 3} {
			h.Observe(v, ls.vals...)
		}
		if n, sum := h.Info(ls.vals...); n != 3 || sum != 6 {
			t.Errorf("%s%v.Info() = %d, %v; want 3, 6", name, ls.vals, n, sum)
		}
		h.Observe(100, bogus(ls.vals)...)
		if n, sum := h.Info(bogus(ls.vals)...); n != 0 || sum != 0 {
			t.Errorf("%s%v.Info() = %d, %v; want 0, 0", name, bogus(ls.vals), n, sum)
		}
	}
}
