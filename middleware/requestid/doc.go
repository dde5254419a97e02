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

// Package requestid provides middleware that tags every request with a unique
// ID for log correlation and distributed tracing.
//
// The ID is read from the X-Request-ID header when the client supplies one,
// generated otherwise, and always echoed in the response header and published
// to the request store.
//
// # Basic Usage
//
//	import "github.com/adelekeogunsona/lean-go/middleware/requestid"
//
//	r := router.MustNew()
//	r.Use(requestid.New())
//
// # ID Formats
//
//   - UUID v7 (default): time-ordered per RFC 9562, 36 characters
//   - ULID via [WithULID]: time-ordered, 26 characters
//   - anything else via [WithGenerator]
//
// # Accessing the ID
//
//	func handler(c *router.Context) {
//	    id := requestid.Get(c)
//	    c.Logger().Info("working", "request_id", id)
//	}
package requestid
