package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// rulesFile is the on-disk shape of a custom rules file.
type rulesFile struct {
	PhonePatterns []struct {
		Name    string `json:"name"`
		Pattern string `json:"pattern"`
	} `json:"phone_patterns"`
	TimestampPattern string `json:"timestamp_pattern"`
}

// buildRulesJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map, used to validate custom rules files before compiling them.
func buildRulesJSONSchema() map[string]any {
	pattern := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":    map[string]any{"type": "string", "minLength": 1},
			"pattern": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"name", "pattern"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"phone_patterns": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    pattern,
			},
			"timestamp_pattern": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"phone_patterns"},
	}
}

// validateJSONAgainstSchema validates "data" against "schemaMap".
func validateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
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

// LoadRulesFile reads a custom rules file, validates it against the schema,
// and compiles it into a RuleSet. A missing timestamp_pattern falls back to
// the built-in one.
func LoadRulesFile(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return ParseRules(data)
}

// ParseRules validates and compiles a rules document.
func ParseRules(data []byte) (*RuleSet, error) {
	if err := validateJSONAgainstSchema(buildRulesJSONSchema(), data); err != nil {
		return nil, err
	}
	var rf rulesFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("unmarshal rules: %w", err)
	}

	rs := &RuleSet{}
	for _, p := range rf.PhonePatterns {
		r, err := CompileRule(p.Name, p.Pattern)
		if err != nil {
			return nil, err
		}
		rs.Phones = append(rs.Phones, r)
	}
	tsPattern := rf.TimestampPattern
	if tsPattern == "" {
		tsPattern = defaultTimestampPattern
	}
	ts, err := CompileRule("timestamp", tsPattern)
	if err != nil {
		return nil, err
	}
	rs.Timestamp = ts
	return rs, nil
}
