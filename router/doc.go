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

// Package router implements an HTTP router built around three pieces: a path
// template compiler, an ordered route table, and an onion-model middleware
// chain.
//
// # Routing
//
// Templates mix literal segments with {name} and {name:pattern} parameters:
//
//	r := router.MustNew()
//	r.GET("/users/active", listActive)
//	r.GET(`/users/{id:\d+}`, showUser)
//	r.GET("/posts/{year:\d{4}}/{slug}", showPost)
//	http.ListenAndServe(":8080", r)
//
// Matching is first-match-wins in registration order, per method. There is no
// specificity scoring: if two routes overlap, the one registered first takes
// the request, so register literal routes before the parameterized routes
// that would otherwise shadow them.
//
// HEAD requests fall back to the GET table when no explicit HEAD route
// matches. A path registered under other methods answers 405 with a complete
// Allow header; an unknown path answers 404. Both bodies are RFC 9457
// problem details.
//
// # Middleware
//
// Middleware and handlers share one signature, func(*Context), and differ
// only by position in the chain. Each call to c.Next() runs exactly one more
// frame; returning without calling Next skips everything deeper while outer
// frames still run their after-logic. c.Abort() additionally blocks any
// later Next call.
//
// # Handler references
//
// Handlers are either function values or named controller references:
//
//	r.RegisterController("users", func() any { return &UserController{} })
//	r.GET(`/users/{id:\d+}`, router.Action("users", "Show"))
//
// References resolve once, when the table is finalized; requests never touch
// reflection. Named references are also what makes a table serializable:
// WriteCache stores the compiled table as a JSON artifact and LoadCache
// rebuilds an identically dispatching table without recompiling templates.
package router
