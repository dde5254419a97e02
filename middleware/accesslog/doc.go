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

// Package accesslog provides structured request logging middleware built on
// log/slog.
//
// Every completed request produces one log line carrying method, path, the
// matched route template, status, response size, and duration. The route
// template keeps log cardinality low: a million /users/{id} hits share one
// route value.
//
// # Basic Usage
//
//	import "github.com/adelekeogunsona/lean-go/middleware/accesslog"
//
//	r := router.MustNew(router.WithLogger(logger))
//	r.Use(accesslog.New())
//
// # Configuration Options
//
//   - [WithLogger]: dedicated logger instead of the request-scoped one
//   - [WithExcludePaths], [WithExcludePrefixes]: silence noisy endpoints
//   - [WithSlowThreshold]: flag slow requests at warn
//   - [WithErrorsOnly]: log only 4xx/5xx outcomes
//   - [WithRequestIDFunc]: correlate lines with request IDs
package accesslog
