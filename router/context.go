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
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/adelekeogunsona/lean-go/problem"
)

// maxArrayParams is the number of route parameters stored in fixed arrays
// before overflowing to the values map.
const maxArrayParams = 8

// Context carries one HTTP request through the middleware chain to its
// handler. It exposes route parameters, response helpers, a request-scoped
// logger, and a keyed store for values middleware attach for later units
// (auth claims, request IDs, validated bodies).
//
// Chain execution is the onion model: Next() advances exactly one frame, so a
// middleware that returns without calling Next short-circuits everything
// inside it, while the frames outside it still run their after-logic.
//
// Context is NOT safe for concurrent use and must not be retained after the
// handler returns: instances are pooled and reused across requests. Copy any
// values you need before handing work to another goroutine.
type Context struct {
	Request  *http.Request
	Response http.ResponseWriter

	handlers []HandlerFunc
	router   *Router
	index    int

	// Route parameters. The common case fits the fixed arrays; routes with
	// more parameters overflow into paramOverflow.
	paramCount    int
	paramKeys     [maxArrayParams]string
	paramValues   [maxArrayParams]string
	paramOverflow map[string]string

	routeTemplate string
	logger        *slog.Logger
	aborted       bool

	// store holds request-scoped values set by middleware. Lazily allocated.
	store map[string]any

	// rw is the status-capturing wrapper installed by the router. It is
	// embedded in the context so serving a request does not allocate one.
	rw responseWriter
}

// reset clears all per-request state so the context can return to the pool.
func (c *Context) reset() {
	c.Request = nil
	c.Response = nil
	c.handlers = nil
	c.router = nil
	c.index = -1
	for i := range c.paramCount {
		c.paramKeys[i] = ""
		c.paramValues[i] = ""
	}
	c.paramCount = 0
	c.paramOverflow = nil
	c.routeTemplate = ""
	c.logger = nil
	c.aborted = false
	c.store = nil
	c.rw = responseWriter{}
}

// Next advances the chain by exactly one frame: the next middleware, or the
// terminal handler. Code before Next is before-logic; code after Next returns
// is after-logic and still observes short-circuited responses.
//
// Next returns without advancing when the chain was aborted or, if
// cancellation checks are enabled, when the request context is done.
func (c *Context) Next() {
	if c.aborted {
		return
	}
	if c.router != nil && c.router.checkCancellation {
		if err := c.Request.Context().Err(); err != nil {
			return
		}
	}
	c.index++
	if c.index < len(c.handlers) {
		c.handlers[c.index](c)
	}
}

// Abort prevents any remaining frame from running, even if an outer
// middleware calls Next again. Frames already on the stack still unwind
// normally.
func (c *Context) Abort() {
	c.aborted = true
}

// IsAborted reports whether Abort was called.
func (c *Context) IsAborted() bool {
	return c.aborted
}

// setParams binds captured values to parameter names positionally.
// Called by the router after a route matches; len(values) == len(names).
func (c *Context) setParams(names, values []string) {
	n := len(names)
	if n > maxArrayParams {
		c.paramOverflow = make(map[string]string, n-maxArrayParams)
		for i := maxArrayParams; i < n; i++ {
			c.paramOverflow[names[i]] = values[i]
		}
		n = maxArrayParams
	}
	for i := range n {
		c.paramKeys[i] = names[i]
		c.paramValues[i] = values[i]
	}
	c.paramCount = n
}

// Param returns the value of the named route parameter, or "" when the route
// declares no such parameter.
//
// Example:
//
//	r.GET(`/users/{id:\d+}`, func(c *router.Context) {
//	    id := c.Param("id")
//	    c.JSON(http.StatusOK, map[string]string{"id": id})
//	})
func (c *Context) Param(key string) string {
	for i := range c.paramCount {
		if c.paramKeys[i] == key {
			return c.paramValues[i]
		}
	}
	return c.paramOverflow[key]
}

// Params returns all route parameters as a map. The map is built on each
// call; prefer Param in hot paths.
func (c *Context) Params() map[string]string {
	m := make(map[string]string, c.paramCount+len(c.paramOverflow))
	for i := range c.paramCount {
		m[c.paramKeys[i]] = c.paramValues[i]
	}
	for k, v := range c.paramOverflow {
		m[k] = v
	}
	return m
}

// Set stores a request-scoped value under key for later chain frames.
func (c *Context) Set(key string, value any) {
	if c.store == nil {
		c.store = make(map[string]any, 4)
	}
	c.store[key] = value
}

// Get returns the request-scoped value stored under key.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.store[key]
	return v, ok
}

// GetString returns the request-scoped string stored under key, or "".
func (c *Context) GetString(key string) string {
	if v, ok := c.store[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RouteTemplate returns the matched route's path template (for example
// "/users/{id}"), or a sentinel such as "_not_found" for unmatched requests.
// Use it as a low-cardinality label for logs and metrics.
func (c *Context) RouteTemplate() string {
	return c.routeTemplate
}

// Logger returns the request-scoped logger. It never returns nil: without a
// configured router logger, a no-op logger is returned.
func (c *Context) Logger() *slog.Logger {
	if c.logger == nil {
		return noopLogger
	}
	return c.logger
}

// StatusCode returns the response status written so far, or 200 when the
// handler wrote a body without an explicit status. Returns 0 before anything
// was written.
func (c *Context) StatusCode() int {
	if !c.rw.written {
		return 0
	}
	return c.rw.StatusCode()
}

// BytesWritten returns the number of response body bytes written so far.
func (c *Context) BytesWritten() int64 {
	return c.rw.Size()
}

// Written reports whether response headers have been written.
func (c *Context) Written() bool {
	return c.rw.Written()
}

// JSON sends obj as a JSON response with the given status code. The body is
// encoded to a buffer first so encoding failures never produce a half-written
// response.
func (c *Context) JSON(code int, obj any) error {
	var buf strings.Builder
	buf.Grow(256)
	if err := json.NewEncoder(&buf).Encode(obj); err != nil {
		return fmt.Errorf("json encoding failed for %T: %w", obj, err)
	}
	c.Header("Content-Type", "application/json; charset=utf-8")
	c.Response.WriteHeader(code)
	_, err := io.WriteString(c.Response, buf.String())
	return err
}

// YAML sends obj as a YAML response with the given status code.
func (c *Context) YAML(code int, obj any) error {
	data, err := yaml.Marshal(obj)
	if err != nil {
		return fmt.Errorf("yaml encoding failed for %T: %w", obj, err)
	}
	c.Header("Content-Type", "application/yaml; charset=utf-8")
	c.Response.WriteHeader(code)
	_, err = c.Response.Write(data)
	return err
}

// String sends a plain-text response with the given status code.
func (c *Context) String(code int, value string) error {
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Response.WriteHeader(code)
	_, err := io.WriteString(c.Response, value)
	return err
}

// Stringf formats and sends a plain-text response.
func (c *Context) Stringf(code int, format string, values ...any) error {
	return c.String(code, fmt.Sprintf(format, values...))
}

// Data sends raw bytes with the given status code and content type.
func (c *Context) Data(code int, contentType string, data []byte) error {
	if contentType != "" {
		c.Header("Content-Type", contentType)
	}
	c.Response.WriteHeader(code)
	_, err := c.Response.Write(data)
	return err
}

// Status writes the status code with no body.
func (c *Context) Status(code int) {
	c.Response.WriteHeader(code)
}

// NoContent sends a 204 No Content response.
func (c *Context) NoContent() {
	c.Response.WriteHeader(http.StatusNoContent)
}

// Header sets a response header. Setting before the first Write matters, as
// with any http.ResponseWriter.
func (c *Context) Header(key, value string) {
	c.Response.Header().Set(key, value)
}

// Query returns the first query string value for key, or "".
func (c *Context) Query(key string) string {
	return c.Request.URL.Query().Get(key)
}

// QueryDefault returns the query value for key, or defaultValue when absent.
func (c *Context) QueryDefault(key, defaultValue string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return defaultValue
}

// FormValue returns the first form value for key, parsing the form if needed.
func (c *Context) FormValue(key string) string {
	return c.Request.FormValue(key)
}

// Redirect sends an HTTP redirect to location.
func (c *Context) Redirect(code int, location string) {
	http.Redirect(c.Response, c.Request, location, code)
}

// SetCookie adds a Set-Cookie header to the response.
func (c *Context) SetCookie(name, value string, maxAge int, path, domain string, secure, httpOnly bool) {
	if path == "" {
		path = "/"
	}
	http.SetCookie(c.Response, &http.Cookie{
		Name:     name,
		Value:    value,
		MaxAge:   maxAge,
		Path:     path,
		Domain:   domain,
		Secure:   secure,
		HttpOnly: httpOnly,
	})
}

// GetCookie returns the named request cookie's value.
func (c *Context) GetCookie(name string) (string, error) {
	cookie, err := c.Request.Cookie(name)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// BindJSON decodes the request body into dst. The body must contain exactly
// one JSON value; unknown fields are rejected so typos surface instead of
// silently dropping data.
func (c *Context) BindJSON(dst any) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode json body: %w", err)
	}
	if dec.More() {
		return ErrMultipleJSONValues
	}
	return nil
}

// Problem sends an RFC 9457 problem-details response. The instance member
// defaults to the request path when unset.
func (c *Context) Problem(d problem.Detail) {
	if d.Instance == "" && c.Request != nil {
		d = d.WithInstance(c.Request.URL.Path)
	}
	problem.Write(c.Response, d)
}

// NotFound sends the 404 problem response used for unmatched paths. The body
// identifies the request path that failed to match.
func (c *Context) NotFound() {
	c.Problem(problem.FromStatus(http.StatusNotFound).
		WithDetail("no route matches the request path"))
}

// MethodNotAllowed sends the 405 problem response with the mandatory Allow
// header. The allowed set must be non-empty, deduplicated, and include HEAD
// wherever GET is allowed; the dispatcher guarantees all three.
func (c *Context) MethodNotAllowed(allowed []string) {
	c.Header("Allow", strings.Join(allowed, ", "))
	c.Problem(problem.FromStatus(http.StatusMethodNotAllowed).
		WithDetail("request method is not allowed for this path").
		WithExtension("allowed", allowed))
}

// RequestContext returns the request's context.Context.
func (c *Context) RequestContext() context.Context {
	return c.Request.Context()
}

// Span returns the current OpenTelemetry span from the request context.
// Without a configured tracer this is a no-op span.
func (c *Context) Span() trace.Span {
	return trace.SpanFromContext(c.Request.Context())
}

// TraceID returns the current trace ID, or "" when not recording.
func (c *Context) TraceID() string {
	sc := c.Span().SpanContext()
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// SpanID returns the current span ID, or "" when not recording.
func (c *Context) SpanID() string {
	sc := c.Span().SpanContext()
	if !sc.HasSpanID() {
		return ""
	}
	return sc.SpanID().String()
}

// SetSpanAttribute sets an attribute on the current span, if recording.
func (c *Context) SetSpanAttribute(key string, value any) {
	span := c.Span()
	if !span.IsRecording() {
		return
	}
	switch v := value.(type) {
	case string:
		span.SetAttributes(attribute.String(key, v))
	case int:
		span.SetAttributes(attribute.Int(key, v))
	case int64:
		span.SetAttributes(attribute.Int64(key, v))
	case float64:
		span.SetAttributes(attribute.Float64(key, v))
	case bool:
		span.SetAttributes(attribute.Bool(key, v))
	default:
		span.SetAttributes(attribute.String(key, fmt.Sprint(v)))
	}
}

// AddSpanEvent adds an event to the current span, if recording.
func (c *Context) AddSpanEvent(name string, attrs ...attribute.KeyValue) {
	span := c.Span()
	if span.IsRecording() {
		span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}
