package intake

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Iron-Ham/sprintpack/internal/errors"
)

//go:embed schema/issues.schema.json
var issuesSchema string

const issuesSchemaURL = "https://sprintpack.dev/schema/issues.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(issuesSchemaURL, strings.NewReader(issuesSchema)); err != nil {
		return nil, fmt.Errorf("failed to load issue schema: %w", err)
	}
	return compiler.Compile(issuesSchemaURL)
})

// validateSchema checks raw JSON input against the embedded issue schema.
func validateSchema(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return errors.NewValidationError("input is not valid JSON").WithCause(err)
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		return errors.NewValidationError("input does not match the issue schema: " + strings.Join(schemaMessages(ve), "; "))
	}
	return nil
}

// schemaMessages flattens a validation error tree into its leaf messages.
func schemaMessages(ve *jsonschema.ValidationError) []string {
	var out []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			msg := e.Message
			if e.InstanceLocation != "" {
				msg = fmt.Sprintf("%s: %s", e.InstanceLocation, e.Message)
			}
			if !slices.Contains(out, msg) {
				out = append(out, msg)
			}
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(ve)
	return out
}
