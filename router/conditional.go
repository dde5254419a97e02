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

package router

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/adelekeogunsona/lean-go/problem"
)

// ETag is an HTTP entity tag with an optional weak comparison flag.
type ETag struct {
	Value string
	Weak  bool
}

// String renders the tag in header form: W/"value" for weak, "value" for strong.
func (e ETag) String() string {
	if e.Value == "" {
		return ""
	}
	if e.Weak {
		return `W/"` + e.Value + `"`
	}
	return `"` + e.Value + `"`
}

// WeakETag hashes b into a weak entity tag. Weak tags suit responses that are
// semantically stable but not byte-stable, such as re-encoded JSON.
func WeakETag(b []byte) ETag {
	if len(b) == 0 {
		return ETag{}
	}
	sum := sha256.Sum256(b)
	return ETag{Value: hex.EncodeToString(sum[:]), Weak: true}
}

// StrongETag hashes b into a strong entity tag, requiring exact byte equality.
func StrongETag(b []byte) ETag {
	if len(b) == 0 {
		return ETag{}
	}
	sum := sha256.Sum256(b)
	return ETag{Value: hex.EncodeToString(sum[:])}
}

// CondOpts configures conditional request handling. When both members are
// set, either matching yields 304.
type CondOpts struct {
	ETag         *ETag
	LastModified *time.Time
	Vary         []string
}

// SetETag sets the ETag response header. Empty tags are ignored.
func (c *Context) SetETag(tag ETag) {
	if tag.Value != "" {
		c.Header("ETag", tag.String())
	}
}

// SetLastModified sets the Last-Modified response header.
func (c *Context) SetLastModified(t time.Time) {
	if !t.IsZero() {
		c.Header("Last-Modified", t.UTC().Format(http.TimeFormat))
	}
}

// AddVary merges fields into the Vary response header, deduplicated by
// canonical header name.
func (c *Context) AddVary(fields ...string) {
	if len(fields) == 0 {
		return
	}
	seen := make(map[string]bool, len(fields))
	var merged []string
	for field := range strings.SplitSeq(c.Response.Header().Get("Vary"), ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		canonical := http.CanonicalHeaderKey(field)
		if !seen[canonical] {
			seen[canonical] = true
			merged = append(merged, canonical)
		}
	}
	for _, field := range fields {
		canonical := http.CanonicalHeaderKey(field)
		if !seen[canonical] {
			seen[canonical] = true
			merged = append(merged, canonical)
		}
	}
	c.Header("Vary", strings.Join(merged, ", "))
}

// normalizeETag strips the weak prefix and quotes from a header tag, so weak
// and strong forms of the same value compare equal.
func normalizeETag(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.TrimPrefix(tag, "W/")
	return strings.Trim(tag, `"`)
}

func etagListContains(header string, tag ETag) (matched, wildcard bool) {
	for candidate := range strings.SplitSeq(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true, true
		}
		if normalizeETag(candidate) == tag.Value {
			return true, false
		}
	}
	return false, false
}

// HandleConditionals evaluates the request's conditional headers against the
// resource's current validators. For safe methods it writes 304 Not Modified
// when the client cache is fresh; for unsafe methods it writes 412
// Precondition Failed when a precondition does not hold. If-None-Match takes
// precedence over If-Modified-Since per RFC 9110.
//
// It reports whether a response was written, so call it before building an
// expensive body:
//
//	tag := router.WeakETag(body)
//	if c.HandleConditionals(router.CondOpts{ETag: &tag}) {
//	    return
//	}
func (c *Context) HandleConditionals(o CondOpts) bool {
	safe := c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead

	if o.ETag != nil && o.ETag.Value != "" {
		if inm := c.Request.Header.Get("If-None-Match"); inm != "" {
			if matched, _ := etagListContains(inm, *o.ETag); matched {
				c.SetETag(*o.ETag)
				c.AddVary(o.Vary...)
				if safe {
					c.Status(http.StatusNotModified)
					return true
				}
				return c.preconditionFailed("resource state matches If-None-Match")
			}
		}
	}

	if safe && o.LastModified != nil && !o.LastModified.IsZero() {
		if ims := c.Request.Header.Get("If-Modified-Since"); ims != "" {
			if t, err := http.ParseTime(ims); err == nil && !o.LastModified.After(t) {
				c.SetLastModified(*o.LastModified)
				c.AddVary(o.Vary...)
				c.Status(http.StatusNotModified)
				return true
			}
		}
	}

	if !safe && o.ETag != nil && o.ETag.Value != "" {
		if im := c.Request.Header.Get("If-Match"); im != "" {
			if matched, _ := etagListContains(im, *o.ETag); !matched {
				return c.preconditionFailed("resource state does not match If-Match")
			}
		}
	}

	if !safe && o.LastModified != nil && !o.LastModified.IsZero() {
		if ius := c.Request.Header.Get("If-Unmodified-Since"); ius != "" {
			if t, err := http.ParseTime(ius); err == nil && o.LastModified.After(t) {
				return c.preconditionFailed("resource modified since If-Unmodified-Since")
			}
		}
	}

	return false
}

func (c *Context) preconditionFailed(detail string) bool {
	c.Problem(problem.FromStatus(http.StatusPreconditionFailed).WithDetail(detail))
	return true
}

// IfNoneMatch evaluates If-None-Match for safe methods only. It reports
// whether 304 was written.
func (c *Context) IfNoneMatch(tag ETag) bool {
	if tag.Value == "" {
		return false
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		return false
	}
	return c.HandleConditionals(CondOpts{ETag: &tag})
}

// IfModifiedSince evaluates If-Modified-Since for safe methods only. It
// reports whether 304 was written.
func (c *Context) IfModifiedSince(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		return false
	}
	return c.HandleConditionals(CondOpts{LastModified: &t})
}

// IfMatch evaluates If-Match for unsafe methods. It returns false when the
// precondition failed and 412 was written; true means proceed.
func (c *Context) IfMatch(tag ETag) bool {
	if tag.Value == "" || !isUnsafeMethod(c.Request.Method) {
		return true
	}
	im := c.Request.Header.Get("If-Match")
	if im == "" {
		return true
	}
	if matched, _ := etagListContains(im, tag); matched {
		return true
	}
	c.preconditionFailed("resource state does not match If-Match")
	return false
}

// IfUnmodifiedSince evaluates If-Unmodified-Since for unsafe methods. It
// returns false when the precondition failed and 412 was written.
func (c *Context) IfUnmodifiedSince(t time.Time) bool {
	if t.IsZero() || !isUnsafeMethod(c.Request.Method) {
		return true
	}
	ius := c.Request.Header.Get("If-Unmodified-Since")
	if ius == "" {
		return true
	}
	parsed, err := http.ParseTime(ius)
	if err != nil || !t.After(parsed) {
		return true
	}
	c.preconditionFailed("resource modified since If-Unmodified-Since")
	return false
}

func isUnsafeMethod(method string) bool {
	switch method {
	case http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
