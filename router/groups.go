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

import "net/http"

// Group organizes related routes under a common path prefix with shared
// middleware. Groups are registration-time builders only: routes registered
// through a group capture the concatenated prefix and the accumulated
// middleware list, and the running route table never references the group.
//
// The chain for a grouped route is:
// [global middleware] + [group middleware outer→inner] + [route middleware] + handler.
//
// Example:
//
//	api := r.Group("/api/v1", router.Named("auth"))
//	users := api.Group("/users")
//	users.GET(`/{id:\d+}`, router.Action("users", "Show"))
//	// Matches GET /api/v1/users/123
type Group struct {
	router     *Router
	prefix     string
	middleware []Middleware
}

// Group creates a route group with the given prefix and optional middleware.
func (r *Router) Group(prefix string, middleware ...Middleware) *Group {
	return &Group{
		router:     r,
		prefix:     prefix,
		middleware: middleware,
	}
}

// Group creates a nested group. Prefixes concatenate; the parent's middleware
// list is copied and extended, so later Use calls on the parent do not leak
// into already-created children.
func (g *Group) Group(prefix string, middleware ...Middleware) *Group {
	combined := make([]Middleware, 0, len(g.middleware)+len(middleware))
	combined = append(combined, g.middleware...)
	combined = append(combined, middleware...)
	return &Group{
		router:     g.router,
		prefix:     g.prefix + prefix,
		middleware: combined,
	}
}

// Use appends middleware to the group. Only routes registered afterwards see
// it.
func (g *Group) Use(middleware ...Middleware) {
	g.middleware = append(g.middleware, middleware...)
}

// GET registers a GET route under the group prefix.
func (g *Group) GET(path string, handler Handler, middleware ...Middleware) *Route {
	return g.handle(http.MethodGet, path, handler, middleware)
}

// POST registers a POST route under the group prefix.
func (g *Group) POST(path string, handler Handler, middleware ...Middleware) *Route {
	return g.handle(http.MethodPost, path, handler, middleware)
}

// PUT registers a PUT route under the group prefix.
func (g *Group) PUT(path string, handler Handler, middleware ...Middleware) *Route {
	return g.handle(http.MethodPut, path, handler, middleware)
}

// PATCH registers a PATCH route under the group prefix.
func (g *Group) PATCH(path string, handler Handler, middleware ...Middleware) *Route {
	return g.handle(http.MethodPatch, path, handler, middleware)
}

// DELETE registers a DELETE route under the group prefix.
func (g *Group) DELETE(path string, handler Handler, middleware ...Middleware) *Route {
	return g.handle(http.MethodDelete, path, handler, middleware)
}

// HEAD registers an explicit HEAD route under the group prefix.
func (g *Group) HEAD(path string, handler Handler, middleware ...Middleware) *Route {
	return g.handle(http.MethodHead, path, handler, middleware)
}

// OPTIONS registers an explicit OPTIONS route under the group prefix.
// Explicit OPTIONS routes take precedence over synthesized preflight matches.
func (g *Group) OPTIONS(path string, handler Handler, middleware ...Middleware) *Route {
	return g.handle(http.MethodOptions, path, handler, middleware)
}

func (g *Group) handle(method, path string, handler Handler, middleware []Middleware) *Route {
	combined := make([]Middleware, 0, len(g.middleware)+len(middleware))
	combined = append(combined, g.middleware...)
	combined = append(combined, middleware...)
	return g.router.addRoute(method, g.prefix+path, handler, combined)
}
