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

package authjwt

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/adelekeogunsona/lean-go/problem"
	"github.com/adelekeogunsona/lean-go/router"
)

// Store keys under which validated token data is published.
const (
	ClaimsKey  = "auth.claims"
	SubjectKey = "auth.subject"
)

// ErrNoSecret is returned in configuration panics when neither a secret nor
// a key function was provided.
var ErrNoSecret = errors.New("authjwt: no secret or key function configured")

// Option defines functional options for JWT middleware configuration.
type Option func(*config)

type config struct {
	secret        []byte
	keyFunc       jwt.Keyfunc
	signingMethod string
	headerName    string
	scheme        string
	issuer        string
	audience      string
}

func defaultConfig() *config {
	return &config{
		signingMethod: "HS256",
		headerName:    "Authorization",
		scheme:        "Bearer",
	}
}

// New returns a middleware that requires a valid JWT on every request it
// wraps. The token is read from the Authorization header, verified against
// the configured secret, and its claims are published to the request store
// under [ClaimsKey] and [SubjectKey]. Missing or invalid tokens short-circuit
// the chain with a 401 problem response and a WWW-Authenticate header.
//
// The signing algorithm is pinned: a token whose alg header differs from the
// configured method is rejected before signature verification.
//
// Example:
//
//	r := router.MustNew()
//	r.RegisterMiddleware("auth", func() router.HandlerFunc {
//	    return authjwt.New(authjwt.WithSecret([]byte(cfg.JWTSecret)))
//	})
//	r.GET("/me", router.Action("users", "Me"), router.Named("auth"))
//
// In the handler:
//
//	func (uc *UserController) Me(c *router.Context) {
//	    subject := authjwt.Subject(c)
//	    ...
//	}
//
// New panics when neither WithSecret nor WithKeyFunc was given; an auth
// middleware with no key material is a deployment error, not a request
// error.
func New(opts ...Option) router.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.secret == nil && cfg.keyFunc == nil {
		panic(ErrNoSecret)
	}

	keyFunc := cfg.keyFunc
	if keyFunc == nil {
		keyFunc = func(t *jwt.Token) (any, error) {
			return cfg.secret, nil
		}
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{cfg.signingMethod}))

	return func(c *router.Context) {
		raw, err := extractToken(c, cfg)
		if err != nil {
			reject(c, cfg, err.Error())
			return
		}

		claims := jwt.MapClaims{}
		token, err := parser.ParseWithClaims(raw, claims, keyFunc)
		if err != nil || !token.Valid {
			reject(c, cfg, "token is invalid or expired")
			return
		}
		if cfg.issuer != "" && !claims.VerifyIssuer(cfg.issuer, true) {
			reject(c, cfg, "token issuer is not accepted")
			return
		}
		if cfg.audience != "" && !claims.VerifyAudience(cfg.audience, true) {
			reject(c, cfg, "token audience is not accepted")
			return
		}

		c.Set(ClaimsKey, claims)
		if sub, ok := claims["sub"].(string); ok {
			c.Set(SubjectKey, sub)
		}
		c.Next()
	}
}

func extractToken(c *router.Context, cfg *config) (string, error) {
	header := c.Request.Header.Get(cfg.headerName)
	if header == "" {
		return "", fmt.Errorf("missing %s header", cfg.headerName)
	}
	if cfg.scheme == "" {
		return header, nil
	}
	prefix := cfg.scheme + " "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", fmt.Errorf("%s header does not use the %s scheme", cfg.headerName, cfg.scheme)
	}
	return header[len(prefix):], nil
}

func reject(c *router.Context, cfg *config, detail string) {
	if cfg.scheme != "" {
		c.Header("WWW-Authenticate", cfg.scheme+` realm="restricted"`)
	}
	c.Abort()
	c.Problem(problem.FromStatus(http.StatusUnauthorized).WithDetail(detail))
}

// Claims returns the validated claims set by the middleware, or nil.
func Claims(c *router.Context) jwt.MapClaims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(jwt.MapClaims); ok {
			return claims
		}
	}
	return nil
}

// Subject returns the token's sub claim, or "".
func Subject(c *router.Context) string {
	return c.GetString(SubjectKey)
}
