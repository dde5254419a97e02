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
	"reflect"
)

// HandlerFunc is the signature for route handlers and middleware.
//
// A handler writes the response through the Context. A middleware runs its
// before-logic, calls c.Next() to continue the chain, and runs its after-logic
// when Next returns. Returning without calling Next short-circuits the chain:
// inner middleware and the handler never run, while outer middleware still
// observe the response on the way out.
//
// Example middleware:
//
//	func Timing() router.HandlerFunc {
//	    return func(c *router.Context) {
//	        start := time.Now()
//	        c.Next()
//	        c.Logger().Info("handled", "elapsed", time.Since(start))
//	    }
//	}
type HandlerFunc func(*Context)

// Handler is a handler reference: either a HandlerFunc or a ControllerRef
// naming a registered controller and action. References are resolved once,
// when the route table is finalized, never per request.
type Handler interface {
	handlerRef()
}

// Middleware is a middleware reference: either a HandlerFunc instance, reused
// across requests, or a MiddlewareRef naming a registered factory.
type Middleware interface {
	middlewareRef()
}

func (HandlerFunc) handlerRef()    {}
func (HandlerFunc) middlewareRef() {}

// ControllerRef references a controller action by name. The controller must
// be registered with RegisterController before the route table is finalized;
// the action must be an exported method with signature func(*router.Context).
//
// Example:
//
//	r.RegisterController("users", func() any { return &UserController{} })
//	r.GET(`/users/{id:\d+}`, router.Action("users", "Show"))
type ControllerRef struct {
	Controller string
	Action     string
}

func (ControllerRef) handlerRef() {}

// Action creates a ControllerRef for the named controller and action.
func Action(controller, action string) ControllerRef {
	return ControllerRef{Controller: controller, Action: action}
}

// MiddlewareRef references a middleware factory by name. The factory must be
// registered with RegisterMiddleware before the route table is finalized.
// Named middleware is what makes a route serializable into the route cache.
//
// Example:
//
//	r.RegisterMiddleware("throttle", func() router.HandlerFunc {
//	    return ratelimit.New(ratelimit.WithRequestsPerSecond(10))
//	})
//	r.POST("/login", router.Action("auth", "Login"), router.Named("throttle"))
type MiddlewareRef struct {
	Name string
}

func (MiddlewareRef) middlewareRef() {}

// Named creates a MiddlewareRef for the given registered name.
func Named(name string) MiddlewareRef {
	return MiddlewareRef{Name: name}
}

// ControllerFactory constructs a controller instance. Factories take no
// arguments; anything the controller needs is captured by the closure.
type ControllerFactory func() any

// MiddlewareFactory constructs a middleware instance. The factory runs once
// per name when the route table is finalized; the returned HandlerFunc is
// shared by every route that references the name, so its state (rate limiter
// buckets, caches) spans routes and it must be safe for concurrent use.
type MiddlewareFactory func() HandlerFunc

// RegisterController registers a controller factory under name. Routes
// reference it via router.Action(name, method). Registering the same name
// twice replaces the factory; registration after finalization panics, because
// the running table would never observe it.
func (r *Router) RegisterController(name string, factory ControllerFactory) {
	if r.finalized.Load() {
		panic(fmt.Sprintf("router: RegisterController(%q): %v", name, ErrRoutesFinalized))
	}
	r.controllers[name] = factory
}

// RegisterMiddleware registers a middleware factory under name. Routes
// reference it via router.Named(name).
func (r *Router) RegisterMiddleware(name string, factory MiddlewareFactory) {
	if r.finalized.Load() {
		panic(fmt.Sprintf("router: RegisterMiddleware(%q): %v", name, ErrRoutesFinalized))
	}
	r.middlewareFactories[name] = factory
}

// resolveHandler turns a handler reference into the concrete HandlerFunc that
// terminates a chain. Controller references instantiate the controller once
// and bind the action method; the bound method value is then invoked directly
// on every request with no further reflection.
func (r *Router) resolveHandler(h Handler) (HandlerFunc, error) {
	switch ref := h.(type) {
	case HandlerFunc:
		if ref == nil {
			return nil, ErrNilHandler
		}
		return ref, nil
	case ControllerRef:
		factory, ok := r.controllers[ref.Controller]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrControllerNotRegistered, ref.Controller)
		}
		instance := factory()
		method := reflect.ValueOf(instance).MethodByName(ref.Action)
		if !method.IsValid() {
			return nil, fmt.Errorf("%w: %s.%s", ErrActionNotFound, ref.Controller, ref.Action)
		}
		fn, ok := method.Interface().(func(*Context))
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s has type %s", ErrActionSignature, ref.Controller, ref.Action, method.Type())
		}
		return fn, nil
	case nil:
		return nil, ErrNilHandler
	default:
		return nil, fmt.Errorf("%w: unknown handler reference %T", ErrNilHandler, h)
	}
}

// resolveMiddleware turns a middleware reference into a concrete HandlerFunc.
// Instances pass through unchanged, which is what allows stateful middleware
// registered once at bootstrap to be shared across requests. Named references
// resolve to one shared instance per name: the factory runs on first use and
// every later reference to the same name gets the same HandlerFunc. Only
// called during finalize, under the router mutex.
func (r *Router) resolveMiddleware(m Middleware) (HandlerFunc, error) {
	switch ref := m.(type) {
	case HandlerFunc:
		if ref == nil {
			return nil, ErrNilHandler
		}
		return ref, nil
	case MiddlewareRef:
		if fn, ok := r.resolvedMiddleware[ref.Name]; ok {
			return fn, nil
		}
		factory, ok := r.middlewareFactories[ref.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMiddlewareNotRegistered, ref.Name)
		}
		fn := factory()
		if fn == nil {
			return nil, fmt.Errorf("%w: factory %q returned nil", ErrMiddlewareNotRegistered, ref.Name)
		}
		r.resolvedMiddleware[ref.Name] = fn
		return fn, nil
	case nil:
		return nil, ErrNilHandler
	default:
		return nil, fmt.Errorf("%w: unknown middleware reference %T", ErrNilHandler, m)
	}
}
