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
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/adelekeogunsona/lean-go/router/compiler"
)

// cacheVersion identifies the cache artifact layout. A loaded artifact with a
// different version is rejected; regenerate the cache after upgrading.
const cacheVersion = 1

// cacheFile is the serialized route table artifact.
type cacheFile struct {
	Version int           `json:"version"`
	Routes  []cachedRoute `json:"routes"`
}

// cachedRoute is one serialized route. Pattern holds the compiled regular
// expression source, or "" for static templates; Params preserves declaration
// order so positional extraction survives the round trip.
type cachedRoute struct {
	Method   string             `json:"method"`
	Template string             `json:"template"`
	Pattern  string             `json:"pattern,omitempty"`
	Params   []string           `json:"params,omitempty"`
	Handler  cachedHandler      `json:"handler"`
	Chain    []cachedMiddleware `json:"middleware,omitempty"`
}

type cachedHandler struct {
	Controller string `json:"controller"`
	Action     string `json:"action"`
}

type cachedMiddleware struct {
	Name string `json:"name"`
}

// WriteCache serializes the route table to w in registration order, skipping
// the compilation the loader would otherwise repeat at boot.
//
// Only routes built entirely from named references are serializable: the
// handler must be a controller reference and every route middleware a named
// reference, since a closure has no stable identity an artifact could record.
// A route that violates this fails the whole write with ErrRouteNotCacheable.
// Global middleware is not part of the artifact; it is reattached from code
// when the cache is loaded.
func (r *Router) WriteCache(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file := cacheFile{Version: cacheVersion, Routes: make([]cachedRoute, 0, len(r.all))}
	for _, rt := range r.all {
		cr, err := serializeRoute(rt)
		if err != nil {
			return err
		}
		file.Routes = append(file.Routes, cr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(file); err != nil {
		return fmt.Errorf("encode route cache: %w", err)
	}
	return nil
}

// WriteCacheFile writes the cache artifact to path, creating or truncating it.
func (r *Router) WriteCacheFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create route cache file: %w", err)
	}
	if err := r.WriteCache(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func serializeRoute(rt *Route) (cachedRoute, error) {
	ref, ok := rt.handler.(ControllerRef)
	if !ok {
		return cachedRoute{}, fmt.Errorf("%w: %s %s: handler is not a controller reference",
			ErrRouteNotCacheable, rt.method, rt.template)
	}

	var chain []cachedMiddleware
	for _, m := range rt.middleware {
		named, ok := m.(MiddlewareRef)
		if !ok {
			return cachedRoute{}, fmt.Errorf("%w: %s %s: middleware is not a named reference",
				ErrRouteNotCacheable, rt.method, rt.template)
		}
		chain = append(chain, cachedMiddleware{Name: named.Name})
	}

	return cachedRoute{
		Method:   rt.method,
		Template: rt.template,
		Pattern:  rt.matcher.Pattern(),
		Params:   rt.matcher.Params(),
		Handler:  cachedHandler{Controller: ref.Controller, Action: ref.Action},
		Chain:    chain,
	}, nil
}

// LoadCache replaces the route table with the artifact read from rd,
// rebuilding each matcher from its stored pattern without re-parsing the
// template. Controllers and named middleware must already be registered; the
// references themselves resolve at finalization, as with code-defined routes.
//
// A table loaded from an artifact dispatches identically to the table the
// artifact was written from. Call before any request has finalized the table.
func (r *Router) LoadCache(rd io.Reader) error {
	if r.finalized.Load() {
		return ErrRoutesFinalized
	}

	var file cacheFile
	dec := json.NewDecoder(rd)
	if err := dec.Decode(&file); err != nil {
		return fmt.Errorf("decode route cache: %w", err)
	}
	if file.Version != cacheVersion {
		return fmt.Errorf("%w: artifact version %d, want %d", ErrCacheVersion, file.Version, cacheVersion)
	}
	if len(file.Routes) == 0 {
		return ErrCacheEmpty
	}

	routes := make([]*Route, 0, len(file.Routes))
	for _, cr := range file.Routes {
		matcher, err := compiler.Restore(cr.Template, cr.Pattern, cr.Params)
		if err != nil {
			return fmt.Errorf("restore %s %s: %w", cr.Method, cr.Template, err)
		}
		middleware := make([]Middleware, 0, len(cr.Chain))
		for _, m := range cr.Chain {
			middleware = append(middleware, Named(m.Name))
		}
		routes = append(routes, &Route{
			method:     cr.Method,
			template:   cr.Template,
			handler:    Action(cr.Handler.Controller, cr.Handler.Action),
			middleware: middleware,
			matcher:    matcher,
		})
	}

	r.mu.Lock()
	r.all = routes
	r.mu.Unlock()
	return nil
}

// LoadCacheFile loads the cache artifact from path.
func (r *Router) LoadCacheFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open route cache file: %w", err)
	}
	defer f.Close()
	return r.LoadCache(f)
}
