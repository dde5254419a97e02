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

// Package authjwt provides JWT bearer authentication middleware built on
// github.com/golang-jwt/jwt/v4.
//
// Requests without a valid token are rejected with a 401 problem response
// before any inner middleware or the handler runs. Validated claims are
// published to the request store so handlers and later middleware can read
// them without re-parsing the token.
//
// # Basic Usage
//
//	import "github.com/adelekeogunsona/lean-go/middleware/authjwt"
//
//	r := router.MustNew()
//	protected := r.Group("/api", authjwt.New(authjwt.WithSecret(secret)))
//	protected.GET("/me", router.Action("users", "Me"))
//
// # Reading Claims
//
//	func (uc *UserController) Me(c *router.Context) {
//	    claims := authjwt.Claims(c)
//	    subject := authjwt.Subject(c)
//	    ...
//	}
//
// # Configuration Options
//
//   - [WithSecret]: HMAC shared secret
//   - [WithKeyFunc], [WithSigningMethod]: asymmetric keys and key rotation
//   - [WithHeader]: custom token header and scheme
//   - [WithIssuer], [WithAudience]: registered claim checks
package authjwt
