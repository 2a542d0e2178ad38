package debrief

import (
	"encoding/json"
	"fmt"
)

// ResponseSchema is the structured-output contract for debrief generation.
// Field names and types must match exactly; parsing fails closed otherwise.
func ResponseSchema() string {
	return `Return the JSON object directly without any formatting or additional text. The JSON object should have the following structure as defined in the schema. Make sure to answer in valid json and include all necessary properties:{
  "type": "object",
  "properties": {
    "overview": {
      "type": "string",
      "description": "Optional one-paragraph overview of the topic state"
    },
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "header": {"type": "string"},
          "text": {"type": "string"}
        },
        "required": ["header", "text"]
      }
    }
  },
  "required": ["items"]
}`
}

// SchemaError reports a model response that failed the structured contract.
// It is fatal to the single pipeline invocation: no partial debrief is
// written when it occurs.
type SchemaError struct {
	Err error
	Raw string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("response failed debrief schema: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Parse validates a raw model response against the debrief contract.
func Parse(raw string) (*Debrief, error) {
	var d Debrief
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, &SchemaError{Err: fmt.Errorf("invalid json: %w", err), Raw: raw}
	}
	if d.Items == nil {
		return nil, &SchemaError{Err: fmt.Errorf("missing required field: items"), Raw: raw}
	}
	for i, item := range d.Items {
		if item.Header == "" {
			return nil, &SchemaError{Err: fmt.Errorf("item %d missing header", i), Raw: raw}
		}
		if item.Text == "" {
			return nil, &SchemaError{Err: fmt.Errorf("item %d missing text", i), Raw: raw}
		}
	}
	return &d, nil
}
