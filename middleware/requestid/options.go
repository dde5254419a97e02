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

package requestid

// WithHeader sets the header used to read and echo the request ID.
// Default: "X-Request-ID".
//
// Example:
//
//	requestid.New(requestid.WithHeader("X-Correlation-ID"))
func WithHeader(name string) Option {
	return func(cfg *config) {
		if name != "" {
			cfg.headerName = name
		}
	}
}

// WithULID switches generation to ULIDs, which are time-ordered like UUID v7
// but render as 26 characters instead of 36.
func WithULID() Option {
	return func(cfg *config) {
		cfg.generator = generateULID
	}
}

// WithGenerator sets a custom ID generator. The function must be safe for
// concurrent use.
//
// Example:
//
//	requestid.New(requestid.WithGenerator(func() string {
//	    return fmt.Sprintf("req-%d", time.Now().UnixNano())
//	}))
func WithGenerator(fn func() string) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.generator = fn
		}
	}
}

// WithAllowClientID controls whether a client-supplied header value is
// trusted and reused. Default: true.
func WithAllowClientID(allow bool) Option {
	return func(cfg *config) {
		cfg.allowClientID = allow
	}
}
