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
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/adelekeogunsona/lean-go/router/compiler"
)

// noopLogger is the singleton no-op logger used when no logger is configured.
var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// NoopLogger returns the singleton no-op logger.
func NoopLogger() *slog.Logger {
	return noopLogger
}

// methodOrder is the fixed verb set, in the order allow-sets are scanned.
var methodOrder = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodHead,
	http.MethodOptions,
}

// preflightRequestHeader carries the requested method on a CORS preflight.
const preflightRequestHeader = "Access-Control-Request-Method"

// Option defines functional options for router configuration.
type Option func(*Router)

// Router matches HTTP requests against registered routes and executes the
// composed middleware chain for the winner.
//
// Routes are collected during registration and finalized once, either on the
// first request or by an explicit Finalize call. After finalization the table
// is read-only, which is what makes it safe to share across concurrently
// handled requests without locking. Registration after finalization panics.
//
// Matching is per-method linear scan in registration order: the first route
// whose compiled matcher accepts the path wins. Register specific routes
// before parameterized ones that would shadow them:
//
//	r.GET("/users/active", listActive)  // must come first
//	r.GET("/users/{id}", showUser)
type Router struct {
	mu      sync.Mutex
	all     []*Route            // every route, registration order
	global  []Middleware        // global middleware, applied before group and route middleware
	table   map[string][]*Route // method → routes, built at finalize
	noRoute HandlerFunc

	controllers         map[string]ControllerFactory
	middlewareFactories map[string]MiddlewareFactory

	// resolvedMiddleware shares one instance per name across every route that
	// references it, so named middleware state (rate limiter buckets, caches)
	// is not split per reference site. Populated under mu during finalize.
	resolvedMiddleware map[string]HandlerFunc

	finalized    atomic.Bool
	finalizeOnce sync.Once
	finalizeErr  error

	// globalChain is the resolved global middleware, shared by the synthetic
	// chains below. Unmatched requests still pass through it so logging and
	// metrics middleware observe 404s and 405s.
	globalChain []HandlerFunc

	// preflightChain is the synthetic chain for CORS preflight requests that
	// match no explicit OPTIONS route: global middleware plus a 204 terminal.
	preflightChain []HandlerFunc

	// notFoundChain terminates in the NoRoute handler or the default 404.
	notFoundChain []HandlerFunc

	pool sync.Pool

	// Configuration
	logger            *slog.Logger
	checkCancellation bool
	enableH2C         bool
	serverTimeouts    *serverTimeouts
}

// serverTimeouts holds HTTP server timeout configuration.
type serverTimeouts struct {
	readHeader time.Duration
	read       time.Duration
	write      time.Duration
	idle       time.Duration
}

func defaultServerTimeouts() *serverTimeouts {
	return &serverTimeouts{
		readHeader: 5 * time.Second,
		read:       15 * time.Second,
		write:      30 * time.Second,
		idle:       60 * time.Second,
	}
}

// New creates a router with optional configuration. Configuration is
// validated immediately so misconfiguration fails at startup, not at request
// time. For a version that panics instead of returning an error, use MustNew.
//
// Example:
//
//	r, err := router.New(router.WithLogger(logger))
//	if err != nil {
//	    log.Fatalf("router: %v", err)
//	}
//	r.GET("/health", healthHandler)
//	http.ListenAndServe(":8080", r)
func New(opts ...Option) (*Router, error) {
	r := &Router{
		controllers:         make(map[string]ControllerFactory),
		middlewareFactories: make(map[string]MiddlewareFactory),
		resolvedMiddleware:  make(map[string]HandlerFunc),
		checkCancellation:   true,
	}
	r.pool.New = func() any {
		return &Context{index: -1}
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("router configuration validation failed: %w", err)
	}
	return r, nil
}

// MustNew creates a router and panics on invalid configuration.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("router.MustNew: %v", err))
	}
	return r
}

// validate checks the router configuration for common errors.
func (r *Router) validate() error {
	if t := r.serverTimeouts; t != nil {
		for _, d := range []time.Duration{t.readHeader, t.read, t.write, t.idle} {
			if d <= 0 {
				return fmt.Errorf("%w: got %v", ErrServerTimeoutInvalid, d)
			}
		}
	}
	return nil
}

// WithLogger sets the base logger. Request-scoped loggers derived from it
// carry method, path, and route template attributes.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithCancellationCheck enables or disables request-context cancellation
// checks between chain frames. Default: enabled.
func WithCancellationCheck(enabled bool) Option {
	return func(r *Router) {
		r.checkCancellation = enabled
	}
}

// WithH2C enables HTTP/2 cleartext support in Serve.
// Only use in development or behind a trusted load balancer.
func WithH2C(enable bool) Option {
	return func(r *Router) {
		r.enableH2C = enable
	}
}

// WithServerTimeouts configures HTTP server timeouts used by Serve/ServeTLS.
// All four values must be positive.
//
// Defaults: ReadHeaderTimeout 5s, ReadTimeout 15s, WriteTimeout 30s,
// IdleTimeout 60s.
func WithServerTimeouts(readHeader, read, write, idle time.Duration) Option {
	return func(r *Router) {
		r.serverTimeouts = &serverTimeouts{
			readHeader: readHeader,
			read:       read,
			write:      write,
			idle:       idle,
		}
	}
}

// Use appends global middleware, executed for every matched route and for
// synthesized preflight matches, before group and route middleware.
func (r *Router) Use(middleware ...Middleware) {
	if r.finalized.Load() {
		panic(fmt.Sprintf("router: Use: %v", ErrRoutesFinalized))
	}
	r.mu.Lock()
	r.global = append(r.global, middleware...)
	r.mu.Unlock()
}

// NoRoute sets a custom handler for paths that match no route under any
// method, replacing the default 404 problem response. Pass nil to restore the
// default. Like route registration, it panics after finalization: the serving
// table reads the handler without locks.
func (r *Router) NoRoute(handler HandlerFunc) {
	if r.finalized.Load() {
		panic(fmt.Sprintf("router: NoRoute: %v", ErrRoutesFinalized))
	}
	r.mu.Lock()
	r.noRoute = handler
	r.mu.Unlock()
}

// GET registers a route for GET requests.
//
// Example:
//
//	r.GET(`/users/{id:\d+}`, router.Action("users", "Show"))
//	r.GET("/health", router.HandlerFunc(func(c *router.Context) {
//	    c.Status(http.StatusOK)
//	}))
func (r *Router) GET(path string, handler Handler, middleware ...Middleware) *Route {
	return r.Handle(http.MethodGet, path, handler, middleware...)
}

// POST registers a route for POST requests.
func (r *Router) POST(path string, handler Handler, middleware ...Middleware) *Route {
	return r.Handle(http.MethodPost, path, handler, middleware...)
}

// PUT registers a route for PUT requests.
func (r *Router) PUT(path string, handler Handler, middleware ...Middleware) *Route {
	return r.Handle(http.MethodPut, path, handler, middleware...)
}

// PATCH registers a route for PATCH requests.
func (r *Router) PATCH(path string, handler Handler, middleware ...Middleware) *Route {
	return r.Handle(http.MethodPatch, path, handler, middleware...)
}

// DELETE registers a route for DELETE requests.
func (r *Router) DELETE(path string, handler Handler, middleware ...Middleware) *Route {
	return r.Handle(http.MethodDelete, path, handler, middleware...)
}

// HEAD registers an explicit HEAD route. GET routes answer HEAD requests
// automatically; an explicit registration takes precedence.
func (r *Router) HEAD(path string, handler Handler, middleware ...Middleware) *Route {
	return r.Handle(http.MethodHead, path, handler, middleware...)
}

// OPTIONS registers an explicit OPTIONS route, which takes precedence over
// the synthesized CORS preflight match.
func (r *Router) OPTIONS(path string, handler Handler, middleware ...Middleware) *Route {
	return r.Handle(http.MethodOptions, path, handler, middleware...)
}

// Handle registers a route for an arbitrary method from the fixed verb set.
// It panics on unknown methods, malformed templates, or registration after
// finalization: route definitions are program structure, and structural
// errors should fail at boot.
func (r *Router) Handle(method, path string, handler Handler, middleware ...Middleware) *Route {
	if !slices.Contains(methodOrder, method) {
		panic(fmt.Sprintf("router: Handle: unsupported method %q", method))
	}
	return r.addRoute(method, path, handler, middleware)
}

func (r *Router) addRoute(method, template string, handler Handler, middleware []Middleware) *Route {
	if r.finalized.Load() {
		panic(fmt.Sprintf("router: %s %s: %v", method, template, ErrRoutesFinalized))
	}
	if handler == nil {
		panic(fmt.Sprintf("router: %s %s: %v", method, template, ErrNilHandler))
	}

	matcher, err := compiler.Compile(template)
	if err != nil {
		panic(fmt.Sprintf("router: %s %s: %v", method, template, err))
	}

	rt := &Route{
		method:     method,
		template:   template,
		handler:    handler,
		middleware: middleware,
		matcher:    matcher,
	}

	r.mu.Lock()
	r.all = append(r.all, rt)
	r.mu.Unlock()
	return rt
}

// Finalize resolves every handler and middleware reference, composes the
// chains, and freezes the route table. It runs at most once; later calls
// return the first result. The router calls it automatically on the first
// request, but calling it explicitly at the end of bootstrap surfaces
// resolution failures before traffic arrives.
func (r *Router) Finalize() error {
	r.finalizeOnce.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		r.finalized.Store(true)

		table := make(map[string][]*Route)
		for _, rt := range r.all {
			if err := rt.compose(r, r.global); err != nil {
				r.finalizeErr = err
				return
			}
			table[rt.method] = append(table[rt.method], rt)
		}
		r.table = table

		r.globalChain = make([]HandlerFunc, 0, len(r.global))
		for _, m := range r.global {
			fn, err := r.resolveMiddleware(m)
			if err != nil {
				r.finalizeErr = fmt.Errorf("global middleware: %w", err)
				return
			}
			r.globalChain = append(r.globalChain, fn)
		}

		// Synthetic preflight chain: global middleware plus a 204 terminal
		// for when no middleware claims the response.
		r.preflightChain = r.syntheticChain(func(c *Context) {
			if !c.Written() {
				c.NoContent()
			}
		})
		r.notFoundChain = r.syntheticChain(func(c *Context) {
			if handler := r.noRoute; handler != nil {
				handler(c)
				return
			}
			c.NotFound()
		})
	})
	return r.finalizeErr
}

// syntheticChain copies the global chain and appends a terminal, so the
// shared backing array is never appended to twice.
func (r *Router) syntheticChain(terminal HandlerFunc) []HandlerFunc {
	chain := make([]HandlerFunc, len(r.globalChain), len(r.globalChain)+1)
	copy(chain, r.globalChain)
	return append(chain, terminal)
}

// match scans the method's route list in registration order and returns the
// first route whose matcher accepts the path, plus the captured values.
func (r *Router) match(method, path string) (*Route, []string) {
	for _, rt := range r.table[method] {
		if values, ok := rt.matcher.Match(path); ok {
			return rt, values
		}
	}
	return nil, nil
}

// allowedMethods collects the deduplicated set of methods whose route lists
// match the path. HEAD is synthesized wherever a GET route matches. The
// result is sorted for deterministic Allow headers.
func (r *Router) allowedMethods(path string) []string {
	var allowed []string
	seen := make(map[string]bool, len(methodOrder))

	add := func(method string) {
		if !seen[method] {
			seen[method] = true
			allowed = append(allowed, method)
		}
	}

	for _, method := range methodOrder {
		for _, rt := range r.table[method] {
			if rt.matcher.MatchOnly(path) {
				add(method)
				if method == http.MethodGet {
					add(http.MethodHead)
				}
				break
			}
		}
	}

	slices.Sort(allowed)
	return allowed
}

// ServeHTTP implements http.Handler. Dispatch outcomes:
//
//   - Matched: the first route in registration order whose matcher accepts
//     the path; parameters are bound and the composed chain runs.
//   - HEAD falls back to the GET list when no explicit HEAD route matches.
//   - A CORS preflight (OPTIONS with Access-Control-Request-Method) that
//     matches no explicit OPTIONS route gets a synthesized no-op match so
//     CORS middleware owns the response.
//   - MethodNotAllowed: the path matches under other methods → 405 with a
//     complete, deduplicated Allow header.
//   - NotFound: the path matches nothing → 404 (or the NoRoute handler).
//
// 404 and 405 are responses, never errors; handler panics propagate to the
// recovery middleware or, absent one, to net/http.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if err := r.Finalize(); err != nil {
		r.baseLogger().Error("route table finalization failed", "err", err)
		http.Error(w, "route table finalization failed", http.StatusInternalServerError)
		return
	}

	method := req.Method
	path := req.URL.Path

	rt, values := r.match(method, path)
	if rt == nil && method == http.MethodHead {
		rt, values = r.match(http.MethodGet, path)
	}

	if rt != nil {
		c := r.acquireContext(w, req)
		c.routeTemplate = rt.template
		c.handlers = rt.chain
		c.setParams(rt.matcher.Params(), values)
		c.logger = r.requestLogger(req, rt.template)
		c.Next()
		r.releaseContext(c)
		return
	}

	if method == http.MethodOptions && req.Header.Get(preflightRequestHeader) != "" {
		c := r.acquireContext(w, req)
		c.routeTemplate = "_preflight"
		c.handlers = r.preflightChain
		c.logger = r.requestLogger(req, "_preflight")
		c.Next()
		r.releaseContext(c)
		return
	}

	if allowed := r.allowedMethods(path); len(allowed) > 0 {
		c := r.acquireContext(w, req)
		c.routeTemplate = "_method_not_allowed"
		c.handlers = r.syntheticChain(func(c *Context) {
			c.MethodNotAllowed(allowed)
		})
		c.logger = r.requestLogger(req, "_method_not_allowed")
		c.Next()
		r.releaseContext(c)
		return
	}

	c := r.acquireContext(w, req)
	c.routeTemplate = "_not_found"
	c.handlers = r.notFoundChain
	c.logger = r.requestLogger(req, "_not_found")
	c.Next()
	r.releaseContext(c)
}

// acquireContext takes a pooled context and binds it to the request, wrapping
// the response writer so status and size are observable by middleware.
func (r *Router) acquireContext(w http.ResponseWriter, req *http.Request) *Context {
	c := r.pool.Get().(*Context)
	c.rw = responseWriter{ResponseWriter: w}
	c.Request = req
	c.Response = &c.rw
	c.router = r
	c.index = -1
	return c
}

// releaseContext resets the context and returns it to the pool.
func (r *Router) releaseContext(c *Context) {
	c.reset()
	r.pool.Put(c)
}

func (r *Router) baseLogger() *slog.Logger {
	if r.logger == nil {
		return noopLogger
	}
	return r.logger
}

// requestLogger derives the request-scoped logger. Returns nil when no base
// logger is configured; Context.Logger falls back to the no-op logger.
func (r *Router) requestLogger(req *http.Request, routeTemplate string) *slog.Logger {
	if r.logger == nil {
		return nil
	}
	return r.logger.With(
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.String("route", routeTemplate),
	)
}

// Serve starts an HTTP server on addr with production-safe timeouts.
// H2C is enabled when configured via WithH2C.
func (r *Router) Serve(addr string) error {
	if err := r.Finalize(); err != nil {
		return err
	}

	h := http.Handler(r)
	if r.enableH2C {
		h = h2c.NewHandler(h, &http2.Server{})
	}

	timeouts := r.serverTimeouts
	if timeouts == nil {
		timeouts = defaultServerTimeouts()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: timeouts.readHeader,
		ReadTimeout:       timeouts.read,
		WriteTimeout:      timeouts.write,
		IdleTimeout:       timeouts.idle,
	}
	return srv.ListenAndServe()
}

// ServeTLS starts an HTTPS server; HTTP/2 is negotiated via ALPN.
func (r *Router) ServeTLS(addr, certFile, keyFile string) error {
	if err := r.Finalize(); err != nil {
		return err
	}

	timeouts := r.serverTimeouts
	if timeouts == nil {
		timeouts = defaultServerTimeouts()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: timeouts.readHeader,
		ReadTimeout:       timeouts.read,
		WriteTimeout:      timeouts.write,
		IdleTimeout:       timeouts.idle,
	}
	return srv.ListenAndServeTLS(certFile, keyFile)
}

// responseWriter wraps http.ResponseWriter to capture status code and size
// and to suppress duplicate WriteHeader calls.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int64
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.ResponseWriter.WriteHeader(code)
		rw.written = true
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.written = true
	}
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)
	return n, err
}

// StatusCode returns the captured status code, defaulting to 200.
func (rw *responseWriter) StatusCode() int {
	if rw.statusCode == 0 {
		return http.StatusOK
	}
	return rw.statusCode
}

// Size returns the number of body bytes written.
func (rw *responseWriter) Size() int64 {
	return rw.size
}

// Written reports whether headers have been written.
func (rw *responseWriter) Written() bool {
	return rw.written
}

// Hijack implements http.Hijacker when the underlying writer supports it.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, ErrResponseWriterNotHijacker
}

// Flush implements http.Flusher when the underlying writer supports it.
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
