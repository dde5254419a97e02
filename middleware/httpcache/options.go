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

package httpcache

import (
	"time"

	"github.com/adelekeogunsona/lean-go/router"
)

// WithTTL sets how long a stored response stays fresh. Default: 1 minute.
func WithTTL(ttl time.Duration) Option {
	return func(cfg *config) {
		if ttl > 0 {
			cfg.ttl = ttl
		}
	}
}

// WithMaxBodySize caps the size of responses worth storing, in bytes.
// Larger responses pass through uncached. Default: 1 MiB.
func WithMaxBodySize(n int64) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxBodySize = n
		}
	}
}

// WithMaxEntries caps the number of stored responses. When full, the cache
// is cleared and refills from traffic. Default: 1024.
func WithMaxEntries(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxEntries = n
		}
	}
}

// WithKeyFunc sets the cache key. Default: request URI including the query
// string. Vary the key by header when responses depend on one:
//
//	httpcache.New(httpcache.WithKeyFunc(func(c *router.Context) string {
//	    return c.Request.URL.RequestURI() + "|" + c.Request.Header.Get("Accept-Language")
//	}))
func WithKeyFunc(fn func(c *router.Context) string) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.keyFunc = fn
		}
	}
}
