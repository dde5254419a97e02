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

// Package compiler turns path templates into anchored matchers.
//
// A template mixes literal text with parameter markers:
//
//	/users/{id}          one or more non-slash characters
//	/users/{id:\d+}      constrained by the supplied pattern, used verbatim
//	/health              no parameters; compiles to an exact-match fast path
//
// Literal text is regex-escaped before compilation, so templates like
// /files/v1.2/{name} match the dot literally. Matchers are anchored at both
// ends: /users/1 never matches /users/1/extra.
//
// Parameter order in Matcher.Params equals the order markers appear in the
// template. The router relies on this to zip captured values with names
// positionally.
//
// # Serialized form
//
// A Matcher round-trips through (Template, Pattern, Params) via Restore,
// which rebuilds the matcher from the already-compiled pattern source without
// re-scanning the template. This is what the route cache persists.
package compiler
