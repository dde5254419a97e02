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

// Package httpcache provides an in-memory response cache for GET and HEAD
// requests.
//
// Successful responses are stored with a weak ETag for the configured TTL.
// Within the TTL the handler is skipped entirely: the stored body is
// replayed, and clients revalidating with If-None-Match get 304 with no
// body. The X-Cache response header reports HIT or MISS.
//
// The cache is per-process. Behind a load balancer each instance warms
// independently; use it for responses that are expensive to build but cheap
// to serve stale for a bounded moment.
//
// # Basic Usage
//
//	import "github.com/adelekeogunsona/lean-go/middleware/httpcache"
//
//	r.GET("/catalog", router.Action("catalog", "Index"),
//	    httpcache.New(httpcache.WithTTL(30*time.Second)))
//
// # Configuration Options
//
//   - [WithTTL]: freshness window
//   - [WithMaxBodySize]: skip storing oversized responses
//   - [WithMaxEntries]: bound memory use
//   - [WithKeyFunc]: vary the key by header or tenant
package httpcache
