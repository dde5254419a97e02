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

// Package ratelimit provides token bucket rate limiting middleware built on
// golang.org/x/time/rate.
//
// Each key (client IP by default) owns an independent bucket. Requests spend
// tokens; an empty bucket yields 429 Too Many Requests with Retry-After set
// to the next refill. Idle buckets are swept out during request handling.
//
// # Basic Usage
//
//	import "github.com/adelekeogunsona/lean-go/middleware/ratelimit"
//
//	r := router.MustNew()
//	r.Use(ratelimit.New(
//	    ratelimit.WithRequestsPerSecond(5),
//	    ratelimit.WithBurst(10),
//	))
//
// Attach it to a single route instead of globally when only one endpoint
// needs protection:
//
//	r.RegisterMiddleware("throttle-login", func() router.HandlerFunc {
//	    return ratelimit.New(ratelimit.WithRequestsPerSecond(1), ratelimit.WithBurst(3))
//	})
//	r.POST("/login", router.Action("auth", "Login"), router.Named("throttle-login"))
//
// # Configuration Options
//
//   - [WithRequestsPerSecond], [WithBurst]: bucket shape
//   - [WithKeyFunc]: key by API key, user ID, anything
//   - [WithHandler]: custom rejection response
//   - [WithLimiterTTL], [WithCleanupInterval]: idle bucket eviction
//   - [WithLogger]: log rejections
package ratelimit
