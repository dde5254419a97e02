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

// Package cors provides Cross-Origin Resource Sharing middleware.
//
// Registered as global middleware, it handles both halves of the protocol:
// preflight OPTIONS requests get a 204 with the Access-Control-Allow-*
// headers, and actual cross-origin requests get Allow-Origin and
// Expose-Headers. Preflights work for every route because the router
// synthesizes an OPTIONS match when a preflight hits a path with no explicit
// OPTIONS route.
//
// # Basic Usage
//
//	import "github.com/adelekeogunsona/lean-go/middleware/cors"
//
//	r := router.MustNew()
//	r.Use(cors.New(cors.WithAllowedOrigins("https://app.example.com")))
//
// # Configuration Options
//
//   - [WithAllowedOrigins], [WithAllowAllOrigins], [WithAllowOriginFunc]
//   - [WithAllowedMethods], [WithAllowedHeaders], [WithExposedHeaders]
//   - [WithAllowCredentials]: credentialed requests, disables the wildcard
//   - [WithMaxAge]: preflight cache lifetime
package cors
