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

import "errors"

var (
	// ErrNilHandler indicates that a route was registered without a handler.
	ErrNilHandler = errors.New("route handler is nil")

	// ErrControllerNotRegistered indicates a controller reference whose name
	// has no registered factory.
	ErrControllerNotRegistered = errors.New("controller not registered")

	// ErrActionNotFound indicates that the referenced controller has no method
	// with the given action name.
	ErrActionNotFound = errors.New("controller action not found")

	// ErrActionSignature indicates that a controller action does not have the
	// required func(*router.Context) signature.
	ErrActionSignature = errors.New("controller action must have signature func(*router.Context)")

	// ErrMiddlewareNotRegistered indicates a named middleware reference whose
	// name has no registered factory.
	ErrMiddlewareNotRegistered = errors.New("middleware not registered")

	// ErrRoutesFinalized indicates an attempt to register routes or middleware
	// after the route table was finalized.
	ErrRoutesFinalized = errors.New("route table already finalized")

	// ErrRouteNotCacheable indicates a route whose handler or middleware is an
	// anonymous function and therefore cannot be serialized. Cacheable route
	// definitions use controller references and named middleware.
	ErrRouteNotCacheable = errors.New("route is not cacheable")

	// ErrCacheVersion indicates a route cache artifact with an unsupported
	// format version.
	ErrCacheVersion = errors.New("unsupported route cache version")

	// ErrCacheEmpty indicates a route cache artifact with no routes.
	ErrCacheEmpty = errors.New("route cache contains no routes")

	// ErrResponseWriterNotHijacker indicates that the underlying
	// http.ResponseWriter does not implement http.Hijacker.
	ErrResponseWriterNotHijacker = errors.New("response writer does not implement http.Hijacker")

	// ErrServerTimeoutInvalid indicates a non-positive server timeout value.
	ErrServerTimeoutInvalid = errors.New("server timeout must be positive")

	// ErrMultipleJSONValues indicates that a request body contained more than
	// a single JSON value.
	ErrMultipleJSONValues = errors.New("request body must contain a single JSON value")
)
