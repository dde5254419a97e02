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

package validate

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/adelekeogunsona/lean-go/problem"
	"github.com/adelekeogunsona/lean-go/router"
)

// BodyKey is the request-scoped store key for the validated body.
const BodyKey = "validate.body"

// validate is the shared validator instance; it caches struct metadata, so
// one instance serves the whole process.
var validate = validator.New(validator.WithRequiredStructEnabled())

// JSON returns a middleware that decodes the request body into a fresh T,
// checks it against its validate struct tags, and publishes the value to the
// request store. Malformed JSON yields 400; a failed constraint yields 422
// with one entry per violated field.
//
// Example:
//
//	type CreateUser struct {
//	    Name  string `json:"name" validate:"required,min=2"`
//	    Email string `json:"email" validate:"required,email"`
//	}
//
//	r.POST("/users", router.Action("users", "Create"), validate.JSON[CreateUser]())
//
//	func (uc *UserController) Create(c *router.Context) {
//	    body := validate.Body[CreateUser](c)
//	    ...
//	}
func JSON[T any]() router.HandlerFunc {
	return func(c *router.Context) {
		var body T
		if err := c.BindJSON(&body); err != nil {
			c.Problem(problem.FromStatus(http.StatusBadRequest).
				WithDetail("request body is not valid JSON"))
			return
		}

		if err := validate.Struct(&body); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				c.Problem(unprocessable(fieldErrors(verrs)))
				return
			}
			c.Problem(problem.FromStatus(http.StatusUnprocessableEntity).
				WithDetail(err.Error()))
			return
		}

		c.Set(BodyKey, &body)
		c.Next()
	}
}

// Body returns the validated body stored by [JSON], or nil when the route
// has no JSON middleware.
func Body[T any](c *router.Context) *T {
	if v, ok := c.Get(BodyKey); ok {
		if body, ok := v.(*T); ok {
			return body
		}
	}
	return nil
}

// Schema returns a middleware that validates the request body against a JSON
// Schema document. Schema compilation happens once, at construction; an
// invalid schema is a programming error and panics.
//
// The decoded body is published to the request store under [BodyKey] as the
// generic JSON value the schema was checked against.
//
// Example:
//
//	const createUserSchema = `{
//	    "type": "object",
//	    "required": ["name"],
//	    "properties": {"name": {"type": "string", "minLength": 2}}
//	}`
//
//	r.POST("/users", router.Action("users", "Create"), validate.Schema(createUserSchema))
func Schema(schemaJSON string) router.HandlerFunc {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("validate: schema is not valid JSON: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("request.json", doc); err != nil {
		panic(fmt.Sprintf("validate: %v", err))
	}
	schema, err := compiler.Compile("request.json")
	if err != nil {
		panic(fmt.Sprintf("validate: schema does not compile: %v", err))
	}

	return func(c *router.Context) {
		body, err := jsonschema.UnmarshalJSON(c.Request.Body)
		if err != nil {
			c.Problem(problem.FromStatus(http.StatusBadRequest).
				WithDetail("request body is not valid JSON"))
			return
		}

		if err := schema.Validate(body); err != nil {
			var verr *jsonschema.ValidationError
			if errors.As(err, &verr) {
				c.Problem(unprocessable(schemaErrors(verr)))
				return
			}
			c.Problem(problem.FromStatus(http.StatusUnprocessableEntity).
				WithDetail(err.Error()))
			return
		}

		c.Set(BodyKey, body)
		c.Next()
	}
}

func unprocessable(errs []FieldError) problem.Detail {
	return problem.FromStatus(http.StatusUnprocessableEntity).
		WithDetail("request body failed validation").
		WithExtension("errors", errs)
}

// FieldError is one violated constraint in the 422 response body.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func fieldErrors(verrs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		reason := fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		out = append(out, FieldError{
			Field:  strings.ToLower(fe.Field()),
			Reason: reason,
		})
	}
	return out
}

func schemaErrors(verr *jsonschema.ValidationError) []FieldError {
	var out []FieldError
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			field := strings.Join(e.InstanceLocation, ".")
			if field == "" {
				field = "body"
			}
			out = append(out, FieldError{
				Field: field,
				// ErrorKind is an interface in v6; its String form is the
				// human-readable constraint description.
				Reason: fmt.Sprintf("%v", e.ErrorKind),
			})
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(verr)
	return out
}
