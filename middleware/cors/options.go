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

package cors

// WithAllowedOrigins sets the list of allowed origins, compared
// case-insensitively against the Origin request header.
//
// Example:
//
//	cors.New(cors.WithAllowedOrigins("https://example.com", "https://app.example.com"))
func WithAllowedOrigins(origins ...string) Option {
	return func(cfg *config) {
		cfg.allowedOrigins = origins
		cfg.allowAllOrigins = false
	}
}

// WithAllowAllOrigins answers every origin with Access-Control-Allow-Origin: *.
// Only suitable for public APIs without credentials.
func WithAllowAllOrigins(allow bool) Option {
	return func(cfg *config) {
		cfg.allowAllOrigins = allow
	}
}

// WithAllowOriginFunc sets a dynamic origin check, for pattern matching or
// tenant lookups. It overrides the static origin list.
//
// Example:
//
//	cors.New(cors.WithAllowOriginFunc(func(origin string) bool {
//	    return strings.HasSuffix(origin, ".example.com")
//	}))
func WithAllowOriginFunc(fn func(origin string) bool) Option {
	return func(cfg *config) {
		cfg.allowOriginFunc = fn
	}
}

// WithAllowedMethods sets the methods advertised in preflight responses.
// Default: all supported verbs.
func WithAllowedMethods(methods ...string) Option {
	return func(cfg *config) {
		cfg.allowedMethods = methods
	}
}

// WithAllowedHeaders sets the request headers advertised in preflight
// responses. Default: Origin, Content-Type, Accept, Authorization.
func WithAllowedHeaders(headers ...string) Option {
	return func(cfg *config) {
		cfg.allowedHeaders = headers
	}
}

// WithExposedHeaders lists response headers client-side script may read.
//
// Example:
//
//	cors.New(cors.WithExposedHeaders("X-Request-ID"))
func WithExposedHeaders(headers ...string) Option {
	return func(cfg *config) {
		cfg.exposedHeaders = headers
	}
}

// WithAllowCredentials permits cookies and Authorization headers on
// cross-origin requests. The wildcard origin is never sent when enabled.
// Default: false.
func WithAllowCredentials(allow bool) Option {
	return func(cfg *config) {
		cfg.allowCredentials = allow
	}
}

// WithMaxAge sets how long browsers may cache a preflight result, in
// seconds. Default: 3600.
func WithMaxAge(seconds int) Option {
	return func(cfg *config) {
		cfg.maxAge = seconds
	}
}
