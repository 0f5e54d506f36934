package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// maxReported caps how many schema violations end up in the error message.
const maxReported = 5

// ValidateJSON validates the JSON document `data` against the JSON Schema in `schema`.
// All violations are collected; the error lists the first few.
func ValidateJSON(schema string, data []byte) error {
	if len(data) == 0 {
		return errors.New("empty document")
	}
	res, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if res.Valid() {
		return nil
	}
	errs := res.Errors()
	msgs := make([]string, 0, maxReported)
	for i, e := range errs {
		if i == maxReported {
			msgs = append(msgs, fmt.Sprintf("and %d more", len(errs)-maxReported))
			break
		}
		msgs = append(msgs, e.String())
	}
	return &SchemaError{Violations: len(errs), Message: strings.Join(msgs, "; ")}
}

// SchemaError reports a document that parsed but did not satisfy its schema.
type SchemaError struct {
	Violations int
	Message    string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema validation failed (%d): %s", e.Violations, e.Message)
}
