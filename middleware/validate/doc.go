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

// Package validate provides request body validation middleware with two
// strategies: Go struct tags via github.com/go-playground/validator, and
// JSON Schema documents via github.com/santhosh-tekuri/jsonschema.
//
// Both decode the body once, reject invalid input with a 422 problem
// response listing each violated field, and publish the validated value to
// the request store so handlers never re-parse the body.
//
// # Struct Tags
//
//	type CreateUser struct {
//	    Name  string `json:"name" validate:"required,min=2"`
//	    Email string `json:"email" validate:"required,email"`
//	}
//
//	r.POST("/users", router.Action("users", "Create"), validate.JSON[CreateUser]())
//
// In the handler:
//
//	body := validate.Body[CreateUser](c)
//
// # JSON Schema
//
// Schema validation suits endpoints whose contract lives in an external
// document, an OpenAPI component for example:
//
//	r.POST("/users", router.Action("users", "Create"), validate.Schema(userSchema))
//
// The schema is compiled once when the middleware is built; compilation
// failures panic at startup.
package validate
