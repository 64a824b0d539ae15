package report

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrSchemaViolation indicates a document that does not conform to the
// report schema.
var ErrSchemaViolation = errors.New("report schema violation")

//go:embed report-schema.json
var schemaFS embed.FS

// ValidateJSON checks an encoded document against the embedded report
// schema. Violations are joined into one error so callers can surface
// every problem at once.
func ValidateJSON(data []byte) error {
	schemaBytes, err := schemaFS.ReadFile("report-schema.json")
	if err != nil {
		return fmt.Errorf("read embedded schema: %w", err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaBytes)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		messages = append(messages, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
	}

	return fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(messages, "; "))
}
