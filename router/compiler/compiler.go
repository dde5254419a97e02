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

package compiler

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrEmptyTemplate indicates that the path template is empty.
	ErrEmptyTemplate = errors.New("path template is empty")

	// ErrUnterminatedParam indicates a '{' with no matching '}' in the template.
	ErrUnterminatedParam = errors.New("unterminated parameter marker")

	// ErrEmptyParamName indicates a parameter marker with no name, such as {} or {:\d+}.
	ErrEmptyParamName = errors.New("empty parameter name")

	// ErrInvalidParamName indicates a parameter name that is not a valid identifier.
	ErrInvalidParamName = errors.New("invalid parameter name")

	// ErrDuplicateParam indicates the same parameter name appears twice in one template.
	ErrDuplicateParam = errors.New("duplicate parameter name")

	// ErrEmptyConstraint indicates a constrained marker with an empty pattern, such as {id:}.
	ErrEmptyConstraint = errors.New("empty parameter constraint")
)

// defaultConstraint matches one or more non-slash characters.
// Used for unconstrained {name} markers.
const defaultConstraint = `[^/]+`

// Matcher is the compiled form of a path template. It tests candidate paths
// and extracts parameter values in declaration order.
//
// Matchers are immutable after Compile/Restore and safe for concurrent use.
type Matcher struct {
	template string
	params   []string

	// Static matchers (zero parameters) compare paths directly and never
	// touch the regexp engine.
	static bool
	re     *regexp.Regexp

	// indices[i] is the submatch index of params[i] in re. Parameters are
	// compiled as named groups, so capture groups inside user-supplied
	// constraints do not shift extraction.
	indices []int
}

// Compile scans a path template left to right and builds an anchored Matcher.
//
// Literal text between markers is escaped with regexp.QuoteMeta and must match
// exactly. A {name} marker compiles to a named capture of one or more
// non-slash characters; a {name:pattern} marker uses the supplied pattern
// verbatim. Returns an error for malformed markers, duplicate names, or
// constraint patterns that do not compile.
func Compile(template string) (*Matcher, error) {
	if template == "" {
		return nil, ErrEmptyTemplate
	}

	var (
		pattern strings.Builder
		params  []string
		seen    = map[string]bool{}
	)
	pattern.WriteString("^")

	for i := 0; i < len(template); {
		if template[i] != '{' {
			next := strings.IndexByte(template[i:], '{')
			if next < 0 {
				pattern.WriteString(regexp.QuoteMeta(template[i:]))
				break
			}
			pattern.WriteString(regexp.QuoteMeta(template[i : i+next]))
			i += next
			continue
		}

		name, constraint, rest, err := scanMarker(template[i:])
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", template, err)
		}
		if seen[name] {
			return nil, fmt.Errorf("template %q: %w: %s", template, ErrDuplicateParam, name)
		}
		seen[name] = true
		params = append(params, name)

		pattern.WriteString("(?P<")
		pattern.WriteString(name)
		pattern.WriteString(">")
		pattern.WriteString(constraint)
		pattern.WriteString(")")

		i = len(template) - len(rest)
	}
	pattern.WriteString("$")

	if len(params) == 0 {
		return &Matcher{template: template, static: true}, nil
	}

	re, err := regexp.Compile(pattern.String())
	if err != nil {
		return nil, fmt.Errorf("template %q: constraint does not compile: %w", template, err)
	}

	return newDynamic(template, params, re)
}

// scanMarker parses a single {name} or {name:pattern} marker at the start of s.
// It returns the parameter name, the constraint (default when omitted), and
// the remainder of the template after the closing brace.
//
// Braces inside the constraint are tracked by depth so patterns like
// {year:\d{4}} scan correctly.
func scanMarker(s string) (name, constraint, rest string, err error) {
	depth := 0
	colon := -1
	for i := range len(s) {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				inner := s[1:i]
				rest = s[i+1:]
				if colon < 0 {
					name, constraint = inner, defaultConstraint
				} else {
					name = s[1:colon]
					constraint = s[colon+1 : i]
					if constraint == "" {
						return "", "", "", ErrEmptyConstraint
					}
				}
				if name == "" {
					return "", "", "", ErrEmptyParamName
				}
				if !validParamName(name) {
					return "", "", "", fmt.Errorf("%w: %q", ErrInvalidParamName, name)
				}
				return name, constraint, rest, nil
			}
		case ':':
			if depth == 1 && colon < 0 {
				colon = i
			}
		}
	}
	return "", "", "", ErrUnterminatedParam
}

// validParamName reports whether name is a valid identifier: a letter or
// underscore followed by letters, digits, or underscores. Named regexp groups
// share the same restriction, so invalid names are rejected here with a
// clearer error instead of surfacing as a regexp compile failure.
func validParamName(name string) bool {
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// newDynamic builds a parameterized Matcher and resolves each parameter's
// submatch index once, so Match never searches group names at request time.
func newDynamic(template string, params []string, re *regexp.Regexp) (*Matcher, error) {
	indices := make([]int, len(params))
	for i, p := range params {
		idx := re.SubexpIndex(p)
		if idx < 0 {
			// A user constraint redefined the group name; regexp.Compile
			// rejects duplicate names, so this is unreachable in practice.
			return nil, fmt.Errorf("template %q: parameter %q lost its capture group", template, p)
		}
		indices[i] = idx
	}
	return &Matcher{
		template: template,
		params:   params,
		re:       re,
		indices:  indices,
	}, nil
}

// Restore rebuilds a Matcher from its serialized form without re-scanning the
// template. Pattern is the anchored regexp source produced by Pattern(); an
// empty pattern restores a static matcher. Params must be in declaration
// order.
func Restore(template, pattern string, params []string) (*Matcher, error) {
	if template == "" {
		return nil, ErrEmptyTemplate
	}
	if pattern == "" {
		if len(params) > 0 {
			return nil, fmt.Errorf("template %q: parameters without a pattern", template)
		}
		return &Matcher{template: template, static: true}, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("template %q: cached pattern does not compile: %w", template, err)
	}
	return newDynamic(template, params, re)
}

// Match tests path against the matcher. On success it returns the captured
// parameter values in declaration order; static matchers return nil values.
func (m *Matcher) Match(path string) ([]string, bool) {
	if m.static {
		return nil, path == m.template
	}
	sub := m.re.FindStringSubmatch(path)
	if sub == nil {
		return nil, false
	}
	values := make([]string, len(m.params))
	for i, idx := range m.indices {
		values[i] = sub[idx]
	}
	return values, true
}

// MatchOnly tests path without extracting values. Cheaper than Match for
// allow-set scans where captures are discarded.
func (m *Matcher) MatchOnly(path string) bool {
	if m.static {
		return path == m.template
	}
	return m.re.MatchString(path)
}

// Template returns the original path template.
func (m *Matcher) Template() string { return m.template }

// Params returns the parameter names in declaration order.
// The returned slice must not be modified.
func (m *Matcher) Params() []string { return m.params }

// Static reports whether the matcher has no parameters and matches a single
// exact path.
func (m *Matcher) Static() bool { return m.static }

// Pattern returns the anchored regexp source, or "" for static matchers.
// This is the serialized matcher representation consumed by Restore.
func (m *Matcher) Pattern() string {
	if m.static {
		return ""
	}
	return m.re.String()
}
