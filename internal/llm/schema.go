package llm

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema is a named JSON schema used both as the structured output contract
// sent to a backend and as the validator for what comes back.
type Schema struct {
	Name     string
	Raw      json.RawMessage
	compiled *jsonschema.Schema
}

// SchemaError is returned when a response does not conform to its schema.
type SchemaError struct {
	Schema string
	Err    error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("response does not match schema %q: %v", e.Schema, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

func NewSchema(name string, raw []byte) (*Schema, error) {
	compiled, err := jsonschema.CompileString(name+".schema.json", string(raw))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}

	return &Schema{
		Name:     name,
		Raw:      json.RawMessage(raw),
		compiled: compiled,
	}, nil
}

// MustSchema is NewSchema for package level schema literals.
func MustSchema(name string, raw string) *Schema {
	s, err := NewSchema(name, []byte(raw))
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Validate(payload []byte) error {
	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return &SchemaError{Schema: s.Name, Err: fmt.Errorf("decode payload: %w", err)}
	}

	if err := s.compiled.Validate(decoded); err != nil {
		return &SchemaError{Schema: s.Name, Err: err}
	}

	return nil
}

// Decode validates payload and unmarshals it into out.
func (s *Schema) Decode(payload []byte, out any) error {
	if err := s.Validate(payload); err != nil {
		return err
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return &SchemaError{Schema: s.Name, Err: err}
	}

	return nil
}

func checkResponse(req Request, text string) error {
	if req.Schema == nil {
		return nil
	}
	return req.Schema.Validate([]byte(text))
}
