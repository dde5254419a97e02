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

import "github.com/golang-jwt/jwt/v4"

// WithSecret sets the shared secret for HMAC verification.
//
// Example:
//
//	authjwt.New(authjwt.WithSecret([]byte(os.Getenv("JWT_SECRET"))))
func WithSecret(secret []byte) Option {
	return func(cfg *config) {
		cfg.secret = secret
	}
}

// WithKeyFunc sets a custom key lookup, for RSA/ECDSA keys or key rotation.
// It overrides WithSecret.
//
// Example:
//
//	authjwt.New(authjwt.WithKeyFunc(func(t *jwt.Token) (any, error) {
//	    return publicKeyFor(t.Header["kid"])
//	}), authjwt.WithSigningMethod("RS256"))
func WithKeyFunc(fn jwt.Keyfunc) Option {
	return func(cfg *config) {
		cfg.keyFunc = fn
	}
}

// WithSigningMethod pins the accepted alg header value. Tokens signed with
// any other method are rejected outright. Default: "HS256".
func WithSigningMethod(alg string) Option {
	return func(cfg *config) {
		if alg != "" {
			cfg.signingMethod = alg
		}
	}
}

// WithHeader sets the header carrying the token and its scheme prefix. An
// empty scheme reads the header value as the bare token.
// Default: "Authorization", "Bearer".
//
// Example:
//
//	authjwt.New(authjwt.WithHeader("X-Access-Token", ""))
func WithHeader(name, scheme string) Option {
	return func(cfg *config) {
		if name != "" {
			cfg.headerName = name
		}
		cfg.scheme = scheme
	}
}

// WithIssuer requires the iss claim to equal the given value.
func WithIssuer(issuer string) Option {
	return func(cfg *config) {
		cfg.issuer = issuer
	}
}

// WithAudience requires the aud claim to contain the given value.
func WithAudience(audience string) Option {
	return func(cfg *config) {
		cfg.audience = audience
	}
}
