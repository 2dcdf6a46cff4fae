package schema

import (
	"fmt"
	"strings"

	domainerrors "agentlists/contexts/list-distribution/agent-service/domain/errors"

	"github.com/xeipuuv/gojsonschema"
)

const createAgentSchema = `{
  "type": "object",
  "required": ["name", "email", "countryCode", "mobileNumber", "password"],
  "properties": {
    "name": {"type": "string", "minLength": 2, "maxLength": 100, "pattern": "\\S"},
    "email": {"type": "string", "format": "email"},
    "countryCode": {"type": "string", "pattern": "^\\+\\d{1,4}$"},
    "mobileNumber": {"type": "string", "pattern": "^\\d{7,15}$"},
    "password": {"type": "string", "minLength": 6}
  }
}`

const updateAgentSchema = `{
  "type": "object",
  "properties": {
    "name": {"type": "string", "minLength": 2, "maxLength": 100, "pattern": "\\S"},
    "email": {"type": "string", "format": "email"},
    "countryCode": {"type": "string", "pattern": "^\\+\\d{1,4}$"},
    "mobileNumber": {"type": "string", "pattern": "^\\d{7,15}$"},
    "isActive": {"type": "boolean"}
  }
}`

// Validator checks agent payloads against compiled JSON schemas.
type Validator struct {
	create *gojsonschema.Schema
	update *gojsonschema.Schema
}

func NewValidator() (*Validator, error) {
	create, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(createAgentSchema))
	if err != nil {
		return nil, fmt.Errorf("compile create agent schema: %w", err)
	}
	update, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(updateAgentSchema))
	if err != nil {
		return nil, fmt.Errorf("compile update agent schema: %w", err)
	}
	return &Validator{create: create, update: update}, nil
}

// MustNewValidator panics when the embedded schemas do not compile.
func MustNewValidator() *Validator {
	validator, err := NewValidator()
	if err != nil {
		panic(err)
	}
	return validator
}

func (v *Validator) ValidateCreate(document any) error {
	return validate(v.create, document)
}

func (v *Validator) ValidateUpdate(document any) error {
	return validate(v.update, document)
}

func validate(schema *gojsonschema.Schema, document any) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrInvalidAgentInput, err)
	}
	if result.Valid() {
		return nil
	}
	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.Field()+": "+desc.Description())
	}
	return fmt.Errorf("%w: %s", domainerrors.ErrInvalidAgentInput, strings.Join(details, "; "))
}
