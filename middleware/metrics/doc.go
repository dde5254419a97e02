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

// Package metrics provides Prometheus instrumentation middleware.
//
// Four collectors are maintained: a request counter and latency histogram
// labeled by method and matched route template, an in-flight gauge, and a
// response size histogram. Labeling by template instead of raw path keeps
// series cardinality bounded by the route table.
//
// # Basic Usage
//
//	import "github.com/adelekeogunsona/lean-go/middleware/metrics"
//
//	rec := metrics.New()
//	r := router.MustNew()
//	r.Use(rec.Middleware())
//	r.GET("/metrics", rec.Handler())
//
// # Configuration Options
//
//   - [WithRegistry]: share an existing prometheus.Registry
//   - [WithNamespace]: metric name prefix (default "http")
//   - [WithBuckets]: latency histogram buckets
package metrics
