// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

// Package metrics collects Prometheus metrics for a resolver: compile and
// run durations, cache hit/miss counts, and the number of evaluators a
// module compiled to. Unlike the rcrowley/go-metrics timers this is
// descended from, it exposes a *prometheus.Registry a caller can scrape or
// gather on demand instead of printing on an interval, since a compiler
// invocation is typically a single short-lived process rather than a
// long-running service.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every counter and histogram a Resolver reports.
type Metrics struct {
	mutex sync.Mutex

	registry *prometheus.Registry

	compileDuration prometheus.Histogram
	runDuration     prometheus.Histogram
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	evaluatorCount  prometheus.Gauge
}

// New returns a Metrics with every collector registered on a fresh
// registry.
func New() *Metrics {
	m := Metrics{
		registry: prometheus.NewRegistry(),
		compileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dtjit",
			Subsystem: "resolver",
			Name:      "compile_duration_seconds",
			Help:      "Time spent compiling a decision tree into evaluators.",
			Buckets:   prometheus.DefBuckets,
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dtjit",
			Subsystem: "resolver",
			Name:      "run_duration_seconds",
			Help:      "Time spent resolving a single data set to a leaf.",
			Buckets:   prometheus.DefBuckets,
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dtjit",
			Subsystem: "objcache",
			Name:      "hits_total",
			Help:      "Number of object cache lookups that found a usable module.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dtjit",
			Subsystem: "objcache",
			Name:      "misses_total",
			Help:      "Number of object cache lookups that required compilation.",
		}),
		evaluatorCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "dtjit",
			Subsystem: "resolver",
			Name:      "evaluator_count",
			Help:      "Number of compiled evaluator functions in the current module.",
		}),
	}

	m.registry.MustRegister(m.compileDuration, m.runDuration, m.cacheHits, m.cacheMisses, m.evaluatorCount)

	return &m
}

// Registry returns the Prometheus registry every collector was registered
// on, for a caller to scrape or gather.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Duration starts a timer for name and returns a function that records the
// elapsed time when called, the same call/defer shape as the teacher's
// rcrowley-backed timers.
func (m *Metrics) Duration(name string) func() {
	start := time.Now()
	return func() {
		m.mutex.Lock()
		defer m.mutex.Unlock()

		elapsed := time.Since(start).Seconds()
		switch name {
		case "compile":
			m.compileDuration.Observe(elapsed)
		case "run":
			m.runDuration.Observe(elapsed)
		}
	}
}

// CacheHit records a cache lookup that returned a usable module.
func (m *Metrics) CacheHit() {
	m.cacheHits.Inc()
}

// CacheMiss records a cache lookup that required compilation.
func (m *Metrics) CacheMiss() {
	m.cacheMisses.Inc()
}

// SetEvaluatorCount records how many evaluator functions the current
// module compiled to.
func (m *Metrics) SetEvaluatorCount(n uint64) {
	m.evaluatorCount.Set(float64(n))
}
