// Copyright 2026 The Lean-Go Authors
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

package metrics

import "github.com/prometheus/client_golang/prometheus"

// WithRegistry uses an existing registry instead of a fresh one, so HTTP
// metrics land next to the process's other collectors.
//
// Example:
//
//	metrics.New(metrics.WithRegistry(appRegistry))
func WithRegistry(registry *prometheus.Registry) Option {
	return func(cfg *config) {
		cfg.registry = registry
	}
}

// WithNamespace sets the metric name prefix. Default: "http".
func WithNamespace(namespace string) Option {
	return func(cfg *config) {
		if namespace != "" {
			cfg.namespace = namespace
		}
	}
}

// WithBuckets sets the latency histogram buckets, in seconds.
// Default: prometheus.DefBuckets.
func WithBuckets(buckets []float64) Option {
	return func(cfg *config) {
		if len(buckets) > 0 {
			cfg.buckets = buckets
		}
	}
}
