// internal/benchcase/schema.go
package benchcase

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// caseSchemaJSON validates one case record at the file boundary. case_id is
// optional (positional fallback applies) and may be a string or an integer.
const caseSchemaJSON = `{
  "type": "object",
  "required": ["narrative", "core_request"],
  "properties": {
    "case_id": {"type": ["string", "integer"]},
    "post_time": {"type": "string"},
    "narrative": {"type": "string"},
    "core_request": {"type": "string"},
    "doctor_advice": {"type": "string"},
    "rubric_items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["criterion", "points"],
        "properties": {
          "criterion": {"type": "string", "minLength": 1},
          "points": {"type": "number"},
          "axe": {"type": "string"}
        }
      }
    }
  }
}`

var caseSchema = mustCompileSchema(caseSchemaJSON)

func mustCompileSchema(source string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		panic(fmt.Sprintf("benchcase: invalid case schema: %v", err))
	}
	return schema
}

// ValidateCase checks one raw JSON record against the case schema.
func ValidateCase(raw json.RawMessage) error {
	result, err := caseSchema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return fmt.Errorf("invalid case record: %s", strings.Join(issues, "; "))
}
