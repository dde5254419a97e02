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
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adelekeogunsona/lean-go/router"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func signToken(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(method, claims).SignedString(testSecret)
	require.NoError(t, err)
	return raw
}

func authRouter(opts ...Option) *router.Router {
	r := router.MustNew()
	r.GET("/me", router.HandlerFunc(func(c *router.Context) {
		c.String(http.StatusOK, Subject(c))
	}), New(opts...))
	return r
}

func request(r *router.Router, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNew_ValidTokenPublishesClaims(t *testing.T) {
	t.Parallel()
	r := authRouter(WithSecret(testSecret))
	token := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w := request(r, "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())
}

func TestNew_MissingHeaderRejected(t *testing.T) {
	t.Parallel()
	r := authRouter(WithSecret(testSecret))

	w := request(r, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, `Bearer realm="restricted"`, w.Header().Get("WWW-Authenticate"))
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestNew_WrongSchemeRejected(t *testing.T) {
	t.Parallel()
	r := authRouter(WithSecret(testSecret))
	assert.Equal(t, http.StatusUnauthorized, request(r, "Basic abc").Code)
}

func TestNew_ExpiredTokenRejected(t *testing.T) {
	t.Parallel()
	r := authRouter(WithSecret(testSecret))
	token := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	assert.Equal(t, http.StatusUnauthorized, request(r, "Bearer "+token).Code)
}

func TestNew_TamperedTokenRejected(t *testing.T) {
	t.Parallel()
	r := authRouter(WithSecret(testSecret))
	token := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"})

	assert.Equal(t, http.StatusUnauthorized, request(r, "Bearer "+token+"x").Code)
}

func TestNew_AlgorithmPinned(t *testing.T) {
	t.Parallel()
	r := authRouter(WithSecret(testSecret))
	// HS512 signature with the right secret, but the middleware pins HS256.
	token := signToken(t, jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	assert.Equal(t, http.StatusUnauthorized, request(r, "Bearer "+token).Code)
}

func TestWithIssuerAndAudience(t *testing.T) {
	t.Parallel()
	r := authRouter(WithSecret(testSecret), WithIssuer("authsvc"), WithAudience("api"))

	good := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1", "iss": "authsvc", "aud": "api",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	require.Equal(t, http.StatusOK, request(r, "Bearer "+good).Code)

	badIss := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1", "iss": "other", "aud": "api",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	assert.Equal(t, http.StatusUnauthorized, request(r, "Bearer "+badIss).Code)

	badAud := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1", "iss": "authsvc", "aud": "web",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	assert.Equal(t, http.StatusUnauthorized, request(r, "Bearer "+badAud).Code)
}

func TestWithHeader_BareToken(t *testing.T) {
	t.Parallel()
	r := router.MustNew()
	r.GET("/me", router.HandlerFunc(func(c *router.Context) {
		c.String(http.StatusOK, Subject(c))
	}), New(WithSecret(testSecret), WithHeader("X-Access-Token", "")))

	token := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-2",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-Access-Token", token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-2", w.Body.String())
}

func TestClaims_Accessor(t *testing.T) {
	t.Parallel()
	var role string
	r := router.MustNew()
	r.GET("/me", router.HandlerFunc(func(c *router.Context) {
		claims := Claims(c)
		role, _ = claims["role"].(string)
		c.Status(http.StatusOK)
	}), New(WithSecret(testSecret)))

	token := signToken(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1", "role": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	request2 := httptest.NewRequest(http.MethodGet, "/me", nil)
	request2.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(httptest.NewRecorder(), request2)

	assert.Equal(t, "admin", role)
}

func TestNew_PanicsWithoutKeyMaterial(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { New() })
}
