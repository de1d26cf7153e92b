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

// Package prometheus provides a Prometheus-based implementation of the
// MetricFactory abstraction.
package prometheus

import (
	"fmt"

	"github.com/google/exchangetree/monitoring"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"k8s.io/klog/v2"
)

// MetricFactory allows the creation of Prometheus-based metrics.
type MetricFactory struct {
	Prefix string
	// Registerer receives every created metric. If nil,
	// prometheus.DefaultRegisterer is used.
	Registerer prometheus.Registerer
}

var _ monitoring.MetricFactory = MetricFactory{}

func (pmf MetricFactory) register(c prometheus.Collector) {
	r := pmf.Registerer
	if r == nil {
		r = prometheus.DefaultRegisterer
	}
	r.MustRegister(c)
}

// NewCounter creates a new Counter object backed by Prometheus.
func (pmf MetricFactory) NewCounter(name, help string, labelNames ...string) monitoring.Counter {
	opts := prometheus.CounterOpts{Name: pmf.Prefix + name, Help: help}
	if len(labelNames) == 0 {
		counter := prometheus.NewCounter(opts)
		pmf.register(counter)
		return &Counter{single: counter}
	}
	vec := prometheus.NewCounterVec(opts, labelNames)
	pmf.register(vec)
	return &Counter{labelNames: labelNames, vec: vec}
}

// NewGauge creates a new Gauge object backed by Prometheus.
func (pmf MetricFactory) NewGauge(name, help string, labelNames ...string) monitoring.Gauge {
	opts := prometheus.GaugeOpts{Name: pmf.Prefix + name, Help: help}
	if len(labelNames) == 0 {
		gauge := prometheus.NewGauge(opts)
		pmf.register(gauge)
		return &Gauge{single: gauge}
	}
	vec := prometheus.NewGaugeVec(opts, labelNames)
	pmf.register(vec)
	return &Gauge{labelNames: labelNames, vec: vec}
}

// NewHistogramWithBuckets creates a new Histogram object backed by
// Prometheus, with the given bucket upper limits.
func (pmf MetricFactory) NewHistogramWithBuckets(name, help string, buckets []float64, labelNames ...string) monitoring.Histogram {
	opts := prometheus.HistogramOpts{Name: pmf.Prefix + name, Help: help, Buckets: buckets}
	if len(labelNames) == 0 {
		histogram := prometheus.NewHistogram(opts)
		pmf.register(histogram)
		return &Histogram{single: histogram}
	}
	vec := prometheus.NewHistogramVec(opts, labelNames)
	pmf.register(vec)
	return &Histogram{labelNames: labelNames, vec: vec}
}

// Counter is a wrapper around a Prometheus Counter or CounterVec object.
type Counter struct {
	labelNames []string
	single     prometheus.Counter
	vec        *prometheus.CounterVec
}

func (m *Counter) metric(labelVals []string) prometheus.Counter {
	labels, err := labelsFor(m.labelNames, labelVals)
	if err != nil {
		klog.Error(err)
		return nil
	}
	if m.vec != nil {
		return m.vec.With(labels)
	}
	return m.single
}

// Inc adds 1 to a counter.
func (m *Counter) Inc(labelVals ...string) {
	if c := m.metric(labelVals); c != nil {
		c.Inc()
	}
}

// Add adds the given amount to a counter.
func (m *Counter) Add(val float64, labelVals ...string) {
	if c := m.metric(labelVals); c != nil {
		c.Add(val)
	}
}

// Value returns the current amount of a counter.
func (m *Counter) Value(labelVals ...string) float64 {
	c := m.metric(labelVals)
	if c == nil {
		return 0
	}
	pb := write(c)
	if pb == nil || pb.Counter == nil {
		klog.Errorf("counter field missing")
		return 0
	}
	return pb.Counter.GetValue()
}

// Gauge is a wrapper around a Prometheus Gauge or GaugeVec object.
type Gauge struct {
	labelNames []string
	single     prometheus.Gauge
	vec        *prometheus.GaugeVec
}

func (m *Gauge) metric(labelVals []string) prometheus.Gauge {
	labels, err := labelsFor(m.labelNames, labelVals)
	if err != nil {
		klog.Error(err)
		return nil
	}
	if m.vec != nil {
		return m.vec.With(labels)
	}
	return m.single
}

// Inc adds 1 to a gauge.
func (m *Gauge) Inc(labelVals ...string) {
	if g := m.metric(labelVals); g != nil {
		g.Inc()
	}
}

// Dec subtracts 1 from a gauge.
func (m *Gauge) Dec(labelVals ...string) {
	if g := m.metric(labelVals); g != nil {
		g.Dec()
	}
}

// Set sets the value of a gauge.
func (m *Gauge) Set(val float64, labelVals ...string) {
	if g := m.metric(labelVals); g != nil {
		g.Set(val)
	}
}

// Value returns the current amount of a gauge.
func (m *Gauge) Value(labelVals ...string) float64 {
	g := m.metric(labelVals)
	if g == nil {
		return 0
	}
	pb := write(g)
	if pb == nil || pb.Gauge == nil {
		klog.Errorf("gauge field missing")
		return 0
	}
	return pb.Gauge.GetValue()
}

// Histogram is a wrapper around a Prometheus Histogram or HistogramVec object.
type Histogram struct {
	labelNames []string
	single     prometheus.Histogram
	vec        *prometheus.HistogramVec
}

func (m *Histogram) metric(labelVals []string) prometheus.Observer {
	labels, err := labelsFor(m.labelNames, labelVals)
	if err != nil {
		klog.Error(err)
		return nil
	}
	if m.vec != nil {
		return m.vec.With(labels)
	}
	return m.single
}

// Observe adds a single observation to the histogram.
func (m *Histogram) Observe(val float64, labelVals ...string) {
	if o := m.metric(labelVals); o != nil {
		o.Observe(val)
	}
}

// Info returns the count and sum of observations for the histogram.
func (m *Histogram) Info(labelVals ...string) (uint64, float64) {
	o := m.metric(labelVals)
	if o == nil {
		return 0, 0
	}
	metric, ok := o.(prometheus.Metric)
	if !ok {
		klog.Errorf("histogram %T is not a prometheus.Metric", o)
		return 0, 0
	}
	pb := write(metric)
	histVal := pb.GetHistogram()
	if histVal == nil {
		klog.Errorf("histogram field missing")
		return 0, 0
	}
	return histVal.GetSampleCount(), histVal.GetSampleSum()
}

func write(metric prometheus.Metric) *dto.Metric {
	var metricpb dto.Metric
	if err := metric.Write(&metricpb); err != nil {
		klog.Errorf("failed to Write metric: %v", err)
		return nil
	}
	return &metricpb
}

func labelsFor(names, values []string) (prometheus.Labels, error) {
	if len(names) != len(values) {
		return nil, fmt.Errorf("got %d (%v) values for %d labels (%v)", len(values), values, len(names), names)
	}
	if len(names) == 0 {
		return nil, nil
	}
	labels := make(prometheus.Labels)
	for i, name := range names {
		labels[name] = values[i]
	}
	return labels, nil
}
