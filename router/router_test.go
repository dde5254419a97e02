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

package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perform(r *Router, method, path string, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDispatch_RegistrationOrderWins(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/users/active", HandlerFunc(func(c *Context) { c.String(http.StatusOK, "active") }))
	r.GET("/users/{id}", HandlerFunc(func(c *Context) { c.String(http.StatusOK, "user "+c.Param("id")) }))

	w := perform(r, http.MethodGet, "/users/active")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "active", w.Body.String())

	w = perform(r, http.MethodGet, "/users/42")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user 42", w.Body.String())
}

func TestDispatch_ShadowedRouteNeverRuns(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/users/{id}", HandlerFunc(func(c *Context) { c.String(http.StatusOK, "param") }))
	r.GET("/users/active", HandlerFunc(func(c *Context) { c.String(http.StatusOK, "static") }))

	// The parameterized route was registered first, so it wins even though a
	// more specific route exists.
	w := perform(r, http.MethodGet, "/users/active")
	assert.Equal(t, "param", w.Body.String())
}

func TestDispatch_ConstraintRejectsWithoutFallthrough(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET(`/users/{id:\d+}`, HandlerFunc(func(c *Context) { c.String(http.StatusOK, c.Param("id")) }))

	w := perform(r, http.MethodGet, "/users/123")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "123", w.Body.String())

	w = perform(r, http.MethodGet, "/users/abc")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDispatch_ParamsDoNotCrossSlash(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/files/{name}", HandlerFunc(func(c *Context) { c.String(http.StatusOK, c.Param("name")) }))

	w := perform(r, http.MethodGet, "/files/a/b")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDispatch_MultipleParams(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/orgs/{org}/repos/{repo}/issues/{num:\\d+}", HandlerFunc(func(c *Context) {
		c.JSON(http.StatusOK, c.Params())
	}))

	w := perform(r, http.MethodGet, "/orgs/acme/repos/widget/issues/7")
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, map[string]string{"org": "acme", "repo": "widget", "num": "7"}, got)
}

func TestDispatch_HeadFallsBackToGet(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/reports", HandlerFunc(func(c *Context) { c.String(http.StatusOK, "body") }))

	w := perform(r, http.MethodHead, "/reports")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDispatch_ExplicitHeadWinsOverGetFallback(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/reports", HandlerFunc(func(c *Context) { c.Status(http.StatusOK) }))
	r.HEAD("/reports", HandlerFunc(func(c *Context) {
		c.Header("X-Handled-By", "head")
		c.Status(http.StatusOK)
	}))

	w := perform(r, http.MethodHead, "/reports")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "head", w.Header().Get("X-Handled-By"))
}

func TestDispatch_MethodNotAllowed(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.POST("/things", HandlerFunc(func(c *Context) { c.Status(http.StatusCreated) }))
	r.PUT("/things", HandlerFunc(func(c *Context) { c.Status(http.StatusOK) }))

	w := perform(r, http.MethodGet, "/things")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "POST, PUT", w.Header().Get("Allow"))
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestDispatch_AllowSynthesizesHead(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/things", HandlerFunc(func(c *Context) { c.Status(http.StatusOK) }))

	w := perform(r, http.MethodDelete, "/things")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET, HEAD", w.Header().Get("Allow"))
}

func TestDispatch_AllowDeduplicatesExplicitHead(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/things", HandlerFunc(func(c *Context) { c.Status(http.StatusOK) }))
	r.HEAD("/things", HandlerFunc(func(c *Context) { c.Status(http.StatusOK) }))

	w := perform(r, http.MethodDelete, "/things")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET, HEAD", w.Header().Get("Allow"))
}

func TestDispatch_NotFoundProblem(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/known", HandlerFunc(func(c *Context) { c.Status(http.StatusOK) }))

	w := perform(r, http.MethodGet, "/unknown")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Not Found", body["title"])
	assert.Equal(t, "/unknown", body["instance"])
}

func TestNoRoute_CustomHandler(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.NoRoute(func(c *Context) {
		c.String(http.StatusNotFound, "nothing here")
	})

	w := perform(r, http.MethodGet, "/missing")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "nothing here", w.Body.String())
}

func TestMiddleware_OnionOrder(t *testing.T) {
	t.Parallel()
	var trace []string
	wrap := func(name string) HandlerFunc {
		return func(c *Context) {
			trace = append(trace, name+":before")
			c.Next()
			trace = append(trace, name+":after")
		}
	}

	r := MustNew()
	r.Use(wrap("A"))
	r.GET("/x", HandlerFunc(func(c *Context) {
		trace = append(trace, "handler")
		c.Status(http.StatusOK)
	}), wrap("B"), wrap("C"))

	perform(r, http.MethodGet, "/x")
	assert.Equal(t, []string{
		"A:before", "B:before", "C:before",
		"handler",
		"C:after", "B:after", "A:after",
	}, trace)
}

func TestMiddleware_ShortCircuitSkipsInnerKeepsOuterAfterLogic(t *testing.T) {
	t.Parallel()
	var trace []string

	outer := func(c *Context) {
		trace = append(trace, "outer:before")
		c.Next()
		trace = append(trace, "outer:after")
	}
	guard := func(c *Context) {
		trace = append(trace, "guard")
		c.Problem(problemUnauthorized())
		// no Next: inner middleware and handler must not run
	}
	inner := func(c *Context) {
		trace = append(trace, "inner")
		c.Next()
	}

	r := MustNew()
	r.GET("/secret", HandlerFunc(func(c *Context) {
		trace = append(trace, "handler")
	}), HandlerFunc(outer), HandlerFunc(guard), HandlerFunc(inner))

	w := perform(r, http.MethodGet, "/secret")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, []string{"outer:before", "guard", "outer:after"}, trace)
}

func TestMiddleware_AbortBlocksLaterNext(t *testing.T) {
	t.Parallel()
	var handlerRan bool

	r := MustNew()
	r.GET("/x", HandlerFunc(func(c *Context) {
		handlerRan = true
	}), HandlerFunc(func(c *Context) {
		c.Abort()
		c.Status(http.StatusForbidden)
		c.Next() // must be a no-op after Abort
	}))

	w := perform(r, http.MethodGet, "/x")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, handlerRan)
}

func TestMiddleware_GlobalRunsBeforeRouteMiddleware(t *testing.T) {
	t.Parallel()
	var trace []string

	r := MustNew()
	r.Use(HandlerFunc(func(c *Context) {
		trace = append(trace, "global")
		c.Next()
	}))
	r.GET("/x", HandlerFunc(func(c *Context) {
		trace = append(trace, "handler")
	}), HandlerFunc(func(c *Context) {
		trace = append(trace, "route")
		c.Next()
	}))

	perform(r, http.MethodGet, "/x")
	assert.Equal(t, []string{"global", "route", "handler"}, trace)
}

func TestPreflight_SynthesizedMatch(t *testing.T) {
	t.Parallel()
	var sawPreflight bool

	r := MustNew()
	r.Use(HandlerFunc(func(c *Context) {
		if c.Request.Method == http.MethodOptions {
			sawPreflight = true
			c.Header("Access-Control-Allow-Methods", "PUT")
		}
		c.Next()
	}))
	r.PUT("/resource", HandlerFunc(func(c *Context) { c.Status(http.StatusOK) }))

	w := perform(r, http.MethodOptions, "/resource", func(req *http.Request) {
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		req.Header.Set("Origin", "https://example.com")
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, sawPreflight)
	assert.Equal(t, "PUT", w.Header().Get("Access-Control-Allow-Methods"))
}

func TestPreflight_ExplicitOptionsRouteWins(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.OPTIONS("/resource", HandlerFunc(func(c *Context) {
		c.String(http.StatusOK, "explicit")
	}))

	w := perform(r, http.MethodOptions, "/resource", func(req *http.Request) {
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "explicit", w.Body.String())
}

func TestPreflight_PlainOptionsGets405(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.PUT("/resource", HandlerFunc(func(c *Context) { c.Status(http.StatusOK) }))

	// No Access-Control-Request-Method header, so no synthesized match.
	w := perform(r, http.MethodOptions, "/resource")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "PUT", w.Header().Get("Allow"))
}

func TestControllerHandler_ResolvedOnceAndDispatched(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.RegisterController("users", func() any { return &testController{} })
	r.GET(`/users/{id:\d+}`, Action("users", "Show"))

	w := perform(r, http.MethodGet, "/users/8")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "show 8", w.Body.String())
}

func TestFinalize_UnknownControllerFails(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/users", Action("users", "Index"))

	err := r.Finalize()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrControllerNotRegistered)
	assert.Contains(t, err.Error(), "GET /users")
}

func TestFinalize_UnknownActionFails(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.RegisterController("users", func() any { return &testController{} })
	r.GET("/users", Action("users", "Missing"))

	err := r.Finalize()
	assert.ErrorIs(t, err, ErrActionNotFound)
}

func TestFinalize_WrongActionSignatureFails(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.RegisterController("users", func() any { return &testController{} })
	r.GET("/users", Action("users", "NotAHandler"))

	err := r.Finalize()
	assert.ErrorIs(t, err, ErrActionSignature)
}

func TestFinalize_UnknownMiddlewareFails(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/x", HandlerFunc(func(c *Context) {}), Named("nope"))

	err := r.Finalize()
	assert.ErrorIs(t, err, ErrMiddlewareNotRegistered)
}

func TestFinalize_RegistrationAfterFinalizePanics(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/x", HandlerFunc(func(c *Context) {}))
	require.NoError(t, r.Finalize())

	assert.Panics(t, func() {
		r.GET("/y", HandlerFunc(func(c *Context) {}))
	})
	assert.Panics(t, func() {
		r.Use(HandlerFunc(func(c *Context) { c.Next() }))
	})
	assert.Panics(t, func() {
		r.NoRoute(func(c *Context) { c.Status(http.StatusGone) })
	})
}

func TestAddRoute_BadTemplatePanics(t *testing.T) {
	t.Parallel()
	r := MustNew()
	assert.Panics(t, func() {
		r.GET("/users/{id", HandlerFunc(func(c *Context) {}))
	})
	assert.Panics(t, func() {
		r.GET("/users/{id}", nil)
	})
}

func TestHandle_UnsupportedMethodPanics(t *testing.T) {
	t.Parallel()
	r := MustNew()
	assert.Panics(t, func() {
		r.Handle("TRACE", "/x", HandlerFunc(func(c *Context) {}))
	})
}

func TestRoutes_Snapshot(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.RegisterController("users", func() any { return &testController{} })
	r.GET("/users/{id}", Action("users", "Show"))
	r.POST("/users", HandlerFunc(func(c *Context) {}))

	infos := r.Routes()
	require.Len(t, infos, 2)
	assert.Equal(t, RouteInfo{Method: "GET", Template: "/users/{id}", Params: []string{"id"}, Handler: "users.Show"}, infos[0])
	assert.Equal(t, "func", infos[1].Handler)
}

func TestWithCancellationCheck_DisabledRunsChain(t *testing.T) {
	t.Parallel()
	var ran bool
	r := MustNew(WithCancellationCheck(false))
	r.GET("/x", HandlerFunc(func(c *Context) {
		ran = true
		c.Status(http.StatusOK)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/x", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.True(t, ran)
}

func TestWithCancellationCheck_CancelledRequestStopsChain(t *testing.T) {
	t.Parallel()
	var ran bool
	r := MustNew()
	r.GET("/x", HandlerFunc(func(c *Context) { ran = true }))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/x", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.False(t, ran)
}

func TestWithServerTimeouts_Validation(t *testing.T) {
	t.Parallel()
	_, err := New(WithServerTimeouts(0, time.Second, time.Second, time.Second))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServerTimeoutInvalid)

	r, err := New(WithServerTimeouts(time.Second, 2*time.Second, 3*time.Second, 4*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, r.serverTimeouts.read)
}

func TestMustNew_PanicsOnInvalidConfig(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		MustNew(WithServerTimeouts(-1, 1, 1, 1))
	})
}

func TestResponseWriter_CapturesStatusAndSize(t *testing.T) {
	t.Parallel()
	r := MustNew()
	var status int
	var size int64
	r.GET("/x", HandlerFunc(func(c *Context) {
		c.String(http.StatusCreated, "hello")
	}), HandlerFunc(func(c *Context) {
		c.Next()
		status = c.StatusCode()
		size = c.BytesWritten()
	}))

	perform(r, http.MethodGet, "/x")
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, int64(5), size)
}

func TestResponseWriter_SuppressesDuplicateWriteHeader(t *testing.T) {
	t.Parallel()
	r := MustNew()
	r.GET("/x", HandlerFunc(func(c *Context) {
		c.Status(http.StatusAccepted)
		c.Status(http.StatusTeapot) // ignored
	}))

	w := perform(r, http.MethodGet, "/x")
	assert.Equal(t, http.StatusAccepted, w.Code)
}
