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
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adelekeogunsona/lean-go/middleware/recovery"
	"github.com/adelekeogunsona/lean-go/router"
)

// countingRouter serves /data through the cache and counts handler runs.
func countingRouter(hits *atomic.Int64, opts ...Option) *router.Router {
	r := router.MustNew()
	r.GET("/data", router.HandlerFunc(func(c *router.Context) {
		hits.Add(1)
		c.JSON(http.StatusOK, map[string]string{"v": "payload"})
	}), New(opts...))
	r.POST("/data", router.HandlerFunc(func(c *router.Context) {
		hits.Add(1)
		c.Status(http.StatusCreated)
	}), New(opts...))
	return r
}

func fetch(r *router.Router, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNew_SecondRequestServedFromCache(t *testing.T) {
	t.Parallel()
	var hits atomic.Int64
	r := countingRouter(&hits)

	w1 := fetch(r, http.MethodGet, "/data", nil)
	require.Equal(t, http.StatusOK, w1.Code)
	assert.Equal(t, "MISS", w1.Header().Get("X-Cache"))
	assert.NotEmpty(t, w1.Header().Get("ETag"))

	w2 := fetch(r, http.MethodGet, "/data", nil)
	require.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, "HIT", w2.Header().Get("X-Cache"))
	assert.Equal(t, w1.Body.String(), w2.Body.String())
	assert.Equal(t, w1.Header().Get("Content-Type"), w2.Header().Get("Content-Type"))

	assert.Equal(t, int64(1), hits.Load(), "handler must run once")
}

func TestNew_RevalidationGets304(t *testing.T) {
	t.Parallel()
	var hits atomic.Int64
	r := countingRouter(&hits)

	w1 := fetch(r, http.MethodGet, "/data", nil)
	etag := w1.Header().Get("ETag")
	require.NotEmpty(t, etag)

	w2 := fetch(r, http.MethodGet, "/data", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, w2.Code)
	assert.Empty(t, w2.Body.String())
	assert.Equal(t, int64(1), hits.Load())
}

func TestNew_ExpiredEntryRefetched(t *testing.T) {
	t.Parallel()
	var hits atomic.Int64
	r := countingRouter(&hits, WithTTL(time.Millisecond))

	fetch(r, http.MethodGet, "/data", nil)
	time.Sleep(5 * time.Millisecond)
	w := fetch(r, http.MethodGet, "/data", nil)

	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, int64(2), hits.Load())
}

func TestNew_PostBypassesCache(t *testing.T) {
	t.Parallel()
	var hits atomic.Int64
	r := countingRouter(&hits)

	fetch(r, http.MethodPost, "/data", nil)
	w := fetch(r, http.MethodPost, "/data", nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Header().Get("X-Cache"))
	assert.Equal(t, int64(2), hits.Load())
}

func TestNew_QueryStringVariesKey(t *testing.T) {
	t.Parallel()
	var hits atomic.Int64
	r := countingRouter(&hits)

	fetch(r, http.MethodGet, "/data?page=1", nil)
	fetch(r, http.MethodGet, "/data?page=2", nil)

	assert.Equal(t, int64(2), hits.Load())
}

func TestNew_HeadServedWithoutBody(t *testing.T) {
	t.Parallel()
	var hits atomic.Int64
	r := countingRouter(&hits)

	fetch(r, http.MethodGet, "/data", nil)
	w := fetch(r, http.MethodHead, "/data", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Empty(t, w.Body.String())
	assert.Equal(t, int64(1), hits.Load())
}

func TestWithMaxBodySize_OversizedNotStored(t *testing.T) {
	t.Parallel()
	var hits atomic.Int64
	r := router.MustNew()
	r.GET("/big", router.HandlerFunc(func(c *router.Context) {
		hits.Add(1)
		c.String(http.StatusOK, "0123456789")
	}), New(WithMaxBodySize(4)))

	fetch(r, http.MethodGet, "/big", nil)
	w := fetch(r, http.MethodGet, "/big", nil)

	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, "0123456789", w.Body.String())
	assert.Equal(t, int64(2), hits.Load())
}

func TestNew_PanicReachesRecoveryOnRealWriter(t *testing.T) {
	t.Parallel()
	r := router.MustNew()
	r.Use(recovery.New(recovery.WithLogger(router.NoopLogger())))
	r.GET("/boom", router.HandlerFunc(func(c *router.Context) {
		panic("boom")
	}), New())

	w := fetch(r, http.MethodGet, "/boom", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Body.String())

	// The failed response was not stored.
	w = fetch(r, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEqual(t, "HIT", w.Header().Get("X-Cache"))
}

func TestNew_ErrorResponsesNotCached(t *testing.T) {
	t.Parallel()
	var hits atomic.Int64
	r := router.MustNew()
	r.GET("/flaky", router.HandlerFunc(func(c *router.Context) {
		if hits.Add(1) == 1 {
			c.Status(http.StatusServiceUnavailable)
			return
		}
		c.String(http.StatusOK, "recovered")
	}), New())

	w := fetch(r, http.MethodGet, "/flaky", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = fetch(r, http.MethodGet, "/flaky", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "recovered", w.Body.String())
}
