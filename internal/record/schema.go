package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ledgerline/receiptcore/constants"
)

// BuildRecordJSONSchema returns a JSON-Schema (draft 2020-12 subset) for
// the serialized ExtractionRecord, as a generic map. Used to validate
// exported payloads before they leave the process.
func BuildRecordJSONSchema(allowedCategories []string) map[string]any {
	props := map[string]any{
		"id":       map[string]any{"type": "string", "minLength": 1},
		"filename": map[string]any{"type": "string"},

		"ocr": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ocr_text":       map[string]any{"type": "string"},
				"ocr_status":     map[string]any{"type": "string", "enum": []string{"success", "low_confidence", "failed"}},
				"ocr_source":     map[string]any{"type": "string"},
				"ocr_confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 100.0},
			},
			"required": []string{"ocr_status", "ocr_confidence"},
		},

		"vendor":            nullableString(),
		"vendor_confidence": confidenceProp(),
		"vendor_reasoning":  map[string]any{"type": "string"},
		"vendor_source":     map[string]any{"type": "string"},

		"date":            nullableDateProp(),
		"date_confidence": confidenceProp(),
		"date_reasoning":  map[string]any{"type": "string"},

		"total":            nullableDecimalProp(),
		"total_confidence": confidenceProp(),
		"total_reasoning":  map[string]any{"type": "string"},

		"tax": nullableDecimalProp(),

		"category":            nullableString(),
		"category_confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		"category_reasoning":  map[string]any{"type": "string"},

		"explanation":    map[string]any{"type": "string"},
		"business_type":  map[string]any{"type": "string"},
		"business_state": map[string]any{"type": "string"},

		"flags": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string", "minLength": 1},
		},
		"needs_review": map[string]any{"type": "boolean"},
	}

	// Constrain category when a taxonomy is provided.
	if len(allowedCategories) > 0 {
		enum := make([]any, 0, len(allowedCategories)+1)
		for _, c := range allowedCategories {
			enum = append(enum, c)
		}
		enum = append(enum, nil)
		props["category"] = map[string]any{"enum": enum}
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"id", "ocr", "flags", "needs_review"},
	}
}

func nullableString() map[string]any {
	return map[string]any{"type": []string{"string", "null"}}
}

func nullableDateProp() map[string]any {
	return map[string]any{
		"type":    []string{"string", "null"},
		"pattern": `^\d{4}-\d{2}-\d{2}$`,
	}
}

func nullableDecimalProp() map[string]any {
	return map[string]any{
		"type":    []string{"string", "null"},
		"pattern": `^-?\d+(\.\d{1,2})?$`,
	}
}

func confidenceProp() map[string]any {
	return map[string]any{"type": "number", "minimum": 0.0, "maximum": 100.0}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// ValidateRecord marshals rec and checks it against the record schema with
// the category enum pinned to the taxonomy.
func ValidateRecord(rec ExtractionRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return ValidateJSONAgainstSchema(BuildRecordJSONSchema(constants.AsStringSlice()), data)
}
