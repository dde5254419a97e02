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
	"fmt"

	"github.com/adelekeogunsona/lean-go/router/compiler"
)

// Route is one registered (method, template, handler, middleware) tuple.
// Routes are immutable once registered and live for the process lifetime;
// the compiled chain is attached when the table is finalized.
type Route struct {
	method     string
	template   string // full template, group prefixes expanded
	handler    Handler
	middleware []Middleware // group middleware outer→inner, then route middleware

	matcher *compiler.Matcher

	// chain is the composed handler slice: global middleware, group and route
	// middleware, then the terminal handler. Built once at finalize time.
	chain []HandlerFunc
}

// Method returns the route's HTTP method.
func (rt *Route) Method() string { return rt.method }

// Template returns the full path template, group prefixes included.
func (rt *Route) Template() string { return rt.template }

// ParamNames returns the template's parameter names in declaration order.
func (rt *Route) ParamNames() []string { return rt.matcher.Params() }

// HandlerName describes the handler reference for introspection: the
// controller.action pair, or "func" for anonymous handlers.
func (rt *Route) HandlerName() string {
	if ref, ok := rt.handler.(ControllerRef); ok {
		return ref.Controller + "." + ref.Action
	}
	return "func"
}

// compose builds the route's handler chain: global middleware first, then the
// route's own middleware list (group outer→inner, then route-specific), then
// the resolved terminal handler. Resolution failures abort finalization; a
// route that cannot resolve must fail loudly at boot, not at request time.
func (rt *Route) compose(r *Router, global []Middleware) error {
	chain := make([]HandlerFunc, 0, len(global)+len(rt.middleware)+1)

	for _, m := range global {
		fn, err := r.resolveMiddleware(m)
		if err != nil {
			return fmt.Errorf("%s %s: global middleware: %w", rt.method, rt.template, err)
		}
		chain = append(chain, fn)
	}
	for _, m := range rt.middleware {
		fn, err := r.resolveMiddleware(m)
		if err != nil {
			return fmt.Errorf("%s %s: middleware: %w", rt.method, rt.template, err)
		}
		chain = append(chain, fn)
	}

	terminal, err := r.resolveHandler(rt.handler)
	if err != nil {
		return fmt.Errorf("%s %s: handler: %w", rt.method, rt.template, err)
	}
	rt.chain = append(chain, terminal)
	return nil
}

// RouteInfo is a read-only projection of a registered route, used by
// introspection and the routes CLI.
type RouteInfo struct {
	Method   string
	Template string
	Params   []string
	Handler  string
}

// Routes returns a snapshot of all registered routes in registration order.
// Safe to call before or after finalization.
func (r *Router) Routes() []RouteInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	infos := make([]RouteInfo, 0, len(r.all))
	for _, rt := range r.all {
		infos = append(infos, RouteInfo{
			Method:   rt.method,
			Template: rt.template,
			Params:   rt.matcher.Params(),
			Handler:  rt.HandlerName(),
		})
	}
	return infos
}
