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
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/adelekeogunsona/lean-go/router"
)

// Option defines functional options for response cache configuration.
type Option func(*config)

type config struct {
	ttl         time.Duration
	maxBodySize int64
	maxEntries  int
	keyFunc     func(c *router.Context) string
}

func defaultConfig() *config {
	return &config{
		ttl:         time.Minute,
		maxBodySize: 1 << 20,
		maxEntries:  1024,
		keyFunc: func(c *router.Context) string {
			return c.Request.URL.RequestURI()
		},
	}
}

// cached is one stored response.
type cached struct {
	status      int
	contentType string
	body        []byte
	etag        router.ETag
	storedAt    time.Time
}

// recorder buffers a response so it can be stored before being replayed to
// the real writer.
type recorder struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newRecorder() *recorder {
	return &recorder{header: make(http.Header), status: http.StatusOK}
}

func (rec *recorder) Header() http.Header { return rec.header }

func (rec *recorder) WriteHeader(code int) { rec.status = code }

func (rec *recorder) Write(b []byte) (int, error) { return rec.body.Write(b) }

// New returns a middleware that caches successful GET and HEAD responses in
// memory for the configured TTL. A fresh hit is served without running inner
// middleware or the handler, carries the stored ETag, and honors
// If-None-Match with 304. X-Cache reports HIT or MISS.
//
// Only 200 responses within the size limit are stored. Everything that is
// not GET or HEAD bypasses the cache entirely.
//
// Example:
//
//	r.RegisterMiddleware("cache", func() router.HandlerFunc {
//	    return httpcache.New(httpcache.WithTTL(30 * time.Second))
//	})
//	r.GET("/catalog", router.Action("catalog", "Index"), router.Named("cache"))
func New(opts ...Option) router.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	var (
		mu      sync.RWMutex
		entries = make(map[string]*cached)
	)

	return func(c *router.Context) {
		method := c.Request.Method
		if method != http.MethodGet && method != http.MethodHead {
			c.Next()
			return
		}

		key := cfg.keyFunc(c)

		mu.RLock()
		entry, ok := entries[key]
		mu.RUnlock()

		if ok && time.Since(entry.storedAt) < cfg.ttl {
			c.Header("X-Cache", "HIT")
			if c.IfNoneMatch(entry.etag) {
				return
			}
			c.SetETag(entry.etag)
			if entry.contentType != "" {
				c.Header("Content-Type", entry.contentType)
			}
			c.Status(entry.status)
			if method != http.MethodHead {
				c.Response.Write(entry.body)
			}
			return
		}

		// Miss: buffer the inner response so it can be stored. The writer is
		// restored in a defer so a panicking handler unwinds past this frame
		// with the real writer back in place; otherwise an outer recovery
		// middleware would write its response into the discarded buffer.
		rec := newRecorder()
		real := c.Response
		c.Response = rec
		defer func() { c.Response = real }()
		c.Next()
		c.Response = real

		store := rec.status == http.StatusOK && int64(rec.body.Len()) <= cfg.maxBodySize
		var tag router.ETag
		if store {
			tag = router.WeakETag(rec.body.Bytes())
			fresh := &cached{
				status:      rec.status,
				contentType: rec.header.Get("Content-Type"),
				body:        append([]byte(nil), rec.body.Bytes()...),
				etag:        tag,
				storedAt:    time.Now(),
			}
			mu.Lock()
			if len(entries) >= cfg.maxEntries {
				// Full: drop everything rather than track recency. The cache
				// refills from traffic within one TTL.
				entries = make(map[string]*cached)
			}
			entries[key] = fresh
			mu.Unlock()
		}

		// Replay the buffered response.
		h := real.Header()
		for name, values := range rec.header {
			h[name] = values
		}
		h.Set("X-Cache", "MISS")
		if store {
			h.Set("ETag", tag.String())
		}
		real.WriteHeader(rec.status)
		if method != http.MethodHead {
			real.Write(rec.body.Bytes())
		}
	}
}
