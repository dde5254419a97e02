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

package problem

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_StandardMembers(t *testing.T) {
	t.Parallel()
	p := New(http.StatusNotFound, "Not Found").
		WithDetail("no route matches the request path").
		WithInstance("/users/999")

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "about:blank", got["type"])
	assert.Equal(t, "Not Found", got["title"])
	assert.Equal(t, float64(404), got["status"])
	assert.Equal(t, "no route matches the request path", got["detail"])
	assert.Equal(t, "/users/999", got["instance"])
}

func TestMarshal_ExtensionsInline(t *testing.T) {
	t.Parallel()
	p := FromStatus(http.StatusMethodNotAllowed).
		WithExtension("allowed", []string{"GET", "HEAD"}).
		WithExtension("status", 999) // reserved, must be dropped

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, float64(405), got["status"])
	assert.Equal(t, []any{"GET", "HEAD"}, got["allowed"])
}

func TestWrite(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()
	w.Header().Set("Allow", "GET, POST")

	Write(w, FromStatus(http.StatusMethodNotAllowed).WithInstance("/things"))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, ContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, "GET, POST", w.Header().Get("Allow"), "pre-set headers must survive")

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "/things", got["instance"])
}

func TestWrite_UnmarshalableExtension(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()
	Write(w, FromStatus(http.StatusInternalServerError).WithExtension("bad", func() {}))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, float64(500), got["status"])
}
