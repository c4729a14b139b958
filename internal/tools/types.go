// Package tools defines the Congress.gov tool catalog the model can call,
// the registry holding it and the dispatcher executing calls against it.
package tools

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
)

// Param describes one named tool argument
type Param struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// Spec is the model-facing description of a tool. Immutable once registered.
type Spec struct {
	Name        string
	Description string
	Params      map[string]Param
	// declaration order of Params
	order []string
}

// ParamNames returns parameter names in declaration order.
func (s Spec) ParamNames() []string {
	return append([]string(nil), s.order...)
}

// Schema renders the JSON-Schema object handed to the model.
func (s Spec) Schema() map[string]interface{} {
	props := make(map[string]interface{}, len(s.Params))
	required := []string{}
	for _, name := range s.order {
		p := s.Params[name]
		prop := map[string]interface{}{"type": p.Type}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		props[name] = prop
		if p.Required {
			required = append(required, name)
		}
	}
	return map[string]interface{}{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

// Call is one tool invocation requested by the model, or synthesized by the forcer
type Call struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
}

// Result is the outcome of dispatching a Call. Text is always set: on failure
// it carries the error text fed back to the model.
type Result struct {
	CallID string
	Name   string
	Text   string
	Err    error
}

// normalizer is implemented by argument structs that canonicalize input
// (case, state names) before validation.
type normalizer interface {
	normalize()
}

type invocation func(ctx context.Context) (interface{}, error)

// Tool binds a Spec to the collaborator method serving it
type Tool struct {
	spec Spec
	// bind decodes and validates raw arguments, returning the ready call
	bind func(raw json.RawMessage) (invocation, error)
}

func (t *Tool) Spec() Spec { return t.spec }

var validate = validator.New()

// newTool reflects A into the tool's parameter list; fn receives decoded,
// normalized and validated arguments.
func newTool[A any](name, description string, fn func(ctx context.Context, args *A) (interface{}, error)) *Tool {
	return &Tool{
		spec: reflectSpec[A](name, description),
		bind: func(raw json.RawMessage) (invocation, error) {
			args := new(A)
			if err := decodeStrict(raw, args); err != nil {
				return nil, err
			}
			if n, ok := any(args).(normalizer); ok {
				n.normalize()
			}
			if err := validate.Struct(args); err != nil {
				return nil, err
			}
			return func(ctx context.Context) (interface{}, error) {
				return fn(ctx, args)
			}, nil
		},
	}
}

func decodeStrict(raw json.RawMessage, out interface{}) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("{}")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func reflectSpec[A any](name, description string) Spec {
	r := new(jsonschema.Reflector)
	r.ExpandedStruct = true
	r.DoNotReference = true

	s := r.Reflect(new(A))
	required := make(map[string]bool, len(s.Required))
	for _, n := range s.Required {
		required[n] = true
	}

	spec := Spec{Name: name, Description: description, Params: map[string]Param{}}
	if s.Properties == nil {
		return spec
	}
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		spec.Params[pair.Key] = Param{
			Type:        pair.Value.Type,
			Description: pair.Value.Description,
			Required:    required[pair.Key],
		}
		spec.order = append(spec.order, pair.Key)
	}
	return spec
}
