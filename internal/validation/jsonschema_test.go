package validation

import (
	"errors"
	"testing"
)

const listSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["player_id"],
    "properties": {
      "player_id": {"type": "string"},
      "count": {"type": "integer"}
    }
  }
}`

func TestValidateJSON(t *testing.T) {
	if err := ValidateJSON(listSchema, []byte(`[{"player_id":"1","count":2}]`)); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	err := ValidateJSON(listSchema, []byte(`[{"count":2}]`))
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError for missing player_id, got %v", err)
	}
	if se.Violations != 1 {
		t.Fatalf("expected 1 violation, got %d", se.Violations)
	}
}

func TestValidateJSON_Malformed(t *testing.T) {
	if err := ValidateJSON(listSchema, []byte(`[{`)); err == nil {
		t.Fatalf("expected error for malformed document")
	}
	if err := ValidateJSON(listSchema, nil); err == nil {
		t.Fatalf("expected error for empty document")
	}
}

func TestValidateJSON_CapsReportedViolations(t *testing.T) {
	doc := []byte(`[{"count":1},{"count":2},{"count":3},{"count":4},{"count":5},{"count":6},{"count":7}]`)
	var se *SchemaError
	if err := ValidateJSON(listSchema, doc); !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Violations != 7 {
		t.Fatalf("expected 7 violations, got %d", se.Violations)
	}
}
