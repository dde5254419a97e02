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

// Package problem renders machine-readable HTTP error bodies as RFC 9457
// Problem Details with Content-Type "application/problem+json".
//
// The router uses it for 404/405 outcomes; middleware use it for 401, 422,
// 429, and 500 responses. Every body carries the request path in the
// "instance" member so clients can identify which request failed.
//
// Example:
//
//	p := problem.New(http.StatusNotFound, "Not Found").
//		WithDetail("no route matches the request path").
//		WithInstance("/users/999")
//	problem.Write(w, p)
package problem

import (
	"encoding/json"
	"net/http"
)

// ContentType is the media type for problem detail bodies.
const ContentType = "application/problem+json"

// Detail is an RFC 9457 problem detail. The standard members are explicit
// fields; anything else goes into Extensions and is marshaled inline.
type Detail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"-"`
}

// New creates a problem detail with the given status and title.
// Type defaults to "about:blank" per RFC 9457.
func New(status int, title string) Detail {
	return Detail{
		Type:   "about:blank",
		Title:  title,
		Status: status,
	}
}

// FromStatus creates a problem detail whose title is the standard status text.
func FromStatus(status int) Detail {
	return New(status, http.StatusText(status))
}

// WithType sets the problem type URI.
func (d Detail) WithType(uri string) Detail {
	d.Type = uri
	return d
}

// WithDetail sets the human-readable explanation.
func (d Detail) WithDetail(detail string) Detail {
	d.Detail = detail
	return d
}

// WithInstance sets the URI reference identifying the specific occurrence,
// normally the request path.
func (d Detail) WithInstance(instance string) Detail {
	d.Instance = instance
	return d
}

// WithExtension adds a non-standard member, marshaled inline. Reserved member
// names (type, title, status, detail, instance) are ignored.
func (d Detail) WithExtension(key string, value any) Detail {
	switch key {
	case "type", "title", "status", "detail", "instance":
		return d
	}
	ext := make(map[string]any, len(d.Extensions)+1)
	for k, v := range d.Extensions {
		ext[k] = v
	}
	ext[key] = value
	d.Extensions = ext
	return d
}

// MarshalJSON merges Extensions inline with the standard members.
// Reserved member names in Extensions are dropped.
func (d Detail) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"type":   d.Type,
		"title":  d.Title,
		"status": d.Status,
	}
	if d.Detail != "" {
		m["detail"] = d.Detail
	}
	if d.Instance != "" {
		m["instance"] = d.Instance
	}
	for k, v := range d.Extensions {
		if k != "type" && k != "title" && k != "status" && k != "detail" && k != "instance" {
			m[k] = v
		}
	}
	return json.Marshal(m)
}

// Write sends the problem detail to w. Headers set on w before the call (such
// as Allow on a 405) are preserved. Encoding a Detail cannot fail, so Write
// returns nothing.
func Write(w http.ResponseWriter, d Detail) {
	body, err := json.Marshal(d)
	if err != nil {
		// Extensions carried a non-marshalable value. Degrade to the bare
		// standard members rather than losing the response.
		body, _ = json.Marshal(Detail{Type: d.Type, Title: d.Title, Status: d.Status, Detail: d.Detail, Instance: d.Instance})
	}
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(d.Status)
	_, _ = w.Write(body)
}
