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

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/adelekeogunsona/lean-go/router"
)

// Option defines functional options for CORS middleware configuration.
type Option func(*config)

type config struct {
	allowedOrigins   []string
	allowAllOrigins  bool
	allowOriginFunc  func(origin string) bool
	allowedMethods   []string
	allowedHeaders   []string
	exposedHeaders   []string
	allowCredentials bool
	maxAge           int
}

func defaultConfig() *config {
	return &config{
		allowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		allowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		maxAge:         3600,
	}
}

// New returns CORS middleware. Registered globally, it answers preflight
// requests for every route, including paths with no explicit OPTIONS route:
// the router synthesizes a preflight match whenever an OPTIONS request
// carries Access-Control-Request-Method, and this middleware claims it.
//
// Example:
//
//	r := router.MustNew()
//	r.Use(cors.New(
//	    cors.WithAllowedOrigins("https://app.example.com"),
//	    cors.WithAllowCredentials(true),
//	))
//
// Requests from disallowed origins pass through with no CORS headers; the
// browser enforces the rest.
func New(opts ...Option) router.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	allowMethods := strings.Join(cfg.allowedMethods, ", ")
	allowHeaders := strings.Join(cfg.allowedHeaders, ", ")
	exposeHeaders := strings.Join(cfg.exposedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.maxAge)

	return func(c *router.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			c.Next()
			return
		}

		if !cfg.originAllowed(origin) {
			c.Next()
			return
		}

		h := c.Response.Header()
		if cfg.allowAllOrigins && !cfg.allowCredentials {
			h.Set("Access-Control-Allow-Origin", "*")
		} else {
			h.Set("Access-Control-Allow-Origin", origin)
			c.AddVary("Origin")
		}
		if cfg.allowCredentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == http.MethodOptions && c.Request.Header.Get("Access-Control-Request-Method") != "" {
			h.Set("Access-Control-Allow-Methods", allowMethods)
			if allowHeaders != "" {
				h.Set("Access-Control-Allow-Headers", allowHeaders)
			}
			h.Set("Access-Control-Max-Age", maxAge)
			c.AddVary("Access-Control-Request-Method", "Access-Control-Request-Headers")
			c.Status(http.StatusNoContent)
			return
		}

		if exposeHeaders != "" {
			h.Set("Access-Control-Expose-Headers", exposeHeaders)
		}
		c.Next()
	}
}

func (cfg *config) originAllowed(origin string) bool {
	if cfg.allowAllOrigins {
		return true
	}
	if cfg.allowOriginFunc != nil {
		return cfg.allowOriginFunc(origin)
	}
	for _, allowed := range cfg.allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
