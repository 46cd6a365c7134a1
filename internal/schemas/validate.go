// Package schemas provides JSON Schema validation for request bodies.
package schemas

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed json/*.json
var schemaFS embed.FS

// Schema names embedded in the binary.
const (
	SubmissionRequestSchema = "submission_request.json"
	ProfileUpdateSchema     = "profile_update.json"
)

// submissionFieldOrder is the order in which submission fields are reported.
var submissionFieldOrder = []string{
	"companyId", "roleType", "platform", "status",
	"assessmentReceived", "assessmentTaken", "responseReceived",
	"score", "questionsCount", "testCases", "comments",
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Field returns the top-level request field of the first error, or "body"
// when the document itself has the wrong shape.
func (ve *ValidationError) Field() string {
	if len(ve.Errors) == 0 {
		return "body"
	}
	field := strings.SplitN(ve.Errors[0].Field, ".", 2)[0]
	if field == "(root)" {
		return "body"
	}
	return field
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Name    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Name, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateBytes validates a JSON document against the named embedded schema.
func ValidateBytes(schemaName string, document []byte) error {
	schemaContent, err := schemaFS.ReadFile("json/" + schemaName)
	if err != nil {
		return &SchemaLoadError{Name: schemaName, Message: "schema not found", Cause: err}
	}
	return validate(schemaName, gojsonschema.NewBytesLoader(schemaContent), gojsonschema.NewBytesLoader(document))
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	return validate("(string schema)",
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewStringLoader(jsonContent))
}

// SubmissionRequest checks the structural types of a POST /submissions body.
// Errors are ordered so the first one names the earliest field in validation order.
func SubmissionRequest(body []byte) error {
	err := ValidateBytes(SubmissionRequestSchema, body)
	if ve, ok := err.(*ValidationError); ok {
		sortByFieldOrder(ve.Errors, submissionFieldOrder)
	}
	return err
}

// ProfileUpdate checks the structural types of a PATCH /profiles/me body.
func ProfileUpdate(body []byte) error {
	return ValidateBytes(ProfileUpdateSchema, body)
}

func validate(name string, schemaLoader, documentLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Name:    name,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}

func sortByFieldOrder(errs []FieldError, order []string) {
	rank := func(field string) int {
		top := strings.SplitN(field, ".", 2)[0]
		for i, f := range order {
			if f == top {
				return i
			}
		}
		if top == "(root)" {
			return -1
		}
		return len(order)
	}
	sort.SliceStable(errs, func(i, j int) bool {
		return rank(errs[i].Field) < rank(errs[j].Field)
	})
}
