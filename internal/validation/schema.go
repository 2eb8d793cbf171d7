package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("schema invalid")
	ErrSchemaValidation = errors.New("schema validation failed")
)

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string `json:"location"`
	Message  string `json:"message"`
}

// PayloadValidationError surfaces validation issues with schema-aware context.
type PayloadValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := strings.TrimSpace(issue.Location)
		if location == "" {
			location = "#"
		} else if !strings.HasPrefix(location, "#") {
			location = "#" + location
		}
		if issue.Message == "" {
			parts = append(parts, location)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues extracts validation issues from an error.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) && validationErr != nil {
		return collectValidationIssues(validationErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// queryTemplateSchema describes a section search query template. The search
// request may sit under "request" or at the document root.
const queryTemplateSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "$ref": "#/$defs/request",
  "properties": {
    "request": {"$ref": "#/$defs/request"}
  },
  "$defs": {
    "request": {
      "type": "object",
      "properties": {
        "filters": {
          "type": "object",
          "additionalProperties": {
            "anyOf": [
              {"type": ["string", "number", "boolean", "array", "null"]},
              {"type": "object", "propertyNames": {"enum": ["<", "<=", ">", ">="]}}
            ]
          }
        },
        "limit": {"type": "integer", "minimum": 0},
        "offset": {"type": "integer", "minimum": 0},
        "query": {"type": "string"},
        "fields": {"type": "array", "items": {"type": "string"}},
        "sort_by": {
          "type": "object",
          "additionalProperties": {"type": "string"}
        }
      }
    }
  }
}`

var (
	queryTemplateOnce     sync.Once
	queryTemplateCompiled *jsonschema.Schema
	queryTemplateErr      error
)

// ValidateQueryTemplate checks a decoded query template document. Documents
// should be decoded with json.Decoder.UseNumber.
func ValidateQueryTemplate(document any) error {
	queryTemplateOnce.Do(func() {
		queryTemplateCompiled, queryTemplateErr = compileSchema("query_template.json", []byte(queryTemplateSchema))
	})
	if queryTemplateErr != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, queryTemplateErr)
	}
	return validateWith(queryTemplateCompiled, document)
}

// ValidateDocument validates document against a JSON schema supplied as raw bytes.
func ValidateDocument(schema []byte, document any) error {
	compiled, err := compileSchema("schema.json", schema)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	return validateWith(compiled, document)
}

// DecodeDocument decodes raw JSON the way the validator expects it.
func DecodeDocument(raw []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var document any
	if err := decoder.Decode(&document); err != nil {
		return nil, err
	}
	return document, nil
}

func validateWith(compiled *jsonschema.Schema, document any) error {
	if err := compiled.Validate(document); err != nil {
		return &PayloadValidationError{
			Issues: Issues(err),
			Cause:  err,
		}
	}
	return nil
}

func compileSchema(name string, schema []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, bytes.NewReader(schema)); err != nil {
		return nil, err
	}
	return compiler.Compile(name)
}

func collectValidationIssues(err *jsonschema.ValidationError) []ValidationIssue {
	if err == nil {
		return nil
	}
	issues := []ValidationIssue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
