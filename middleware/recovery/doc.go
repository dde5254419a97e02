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

// Package recovery provides middleware that turns handler panics into logged
// 500 responses instead of dropped connections.
//
// # Basic Usage
//
//	import "github.com/adelekeogunsona/lean-go/middleware/recovery"
//
//	r := router.MustNew()
//	r.Use(recovery.New())
//
// Register it as the first global middleware so it wraps the entire chain.
// http.ErrAbortHandler is re-panicked untouched, matching net/http semantics
// for aborted connections.
//
// # Configuration Options
//
//   - [WithLogger]: dedicated logger for panic reports
//   - [WithHandler]: custom fallback response
//   - [WithStackTrace]: toggle stack capture (default on)
//   - [WithStackSize]: cap the captured stack bytes
package recovery
